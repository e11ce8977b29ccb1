package admin

import (
	"encoding/binary"
	"fmt"
)

// Packet is one decoded/encoded frame: a numeric id plus an ordered body.
// Decoding advances a read cursor over Body; encoding appends to Body via
// the Write* helpers. This mirrors the cursor-plus-accumulator design of
// original_source/libottdadmin2/packets/base.py's Packet/SendingPacket/
// ReceivingPacket, generalized from Python's index-based unpack_from into
// an explicit Go cursor field.
type Packet struct {
	ID   uint8
	Body []byte
	pos  int
}

// newDecodePacket wraps a received body for reading.
func newDecodePacket(id uint8, body []byte) *Packet {
	return &Packet{ID: id, Body: body}
}

// newEncodePacket starts a fresh packet for writing.
func newEncodePacket(id uint8) *Packet {
	return &Packet{ID: id, Body: make([]byte, 0, 64)}
}

// HasMore reports whether unread bytes remain in the body.
func (p *Packet) HasMore() bool {
	return p.pos < len(p.Body)
}

func (p *Packet) need(n int) ([]byte, error) {
	if p.pos+n > len(p.Body) {
		return nil, ErrPacketExhausted
	}
	b := p.Body[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

// ReadBool reads a single 0/1 byte.
func (p *Packet) ReadBool() (bool, error) {
	b, err := p.need(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadByte reads an unsigned 8-bit value.
func (p *Packet) ReadByte() (uint8, error) {
	b, err := p.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian unsigned 16-bit value.
func (p *Packet) ReadUint16() (uint16, error) {
	b, err := p.need(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian unsigned 32-bit value.
func (p *Packet) ReadUint32() (uint32, error) {
	b, err := p.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian unsigned 64-bit value.
func (p *Packet) ReadUint64() (uint64, error) {
	b, err := p.need(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt64 reads a little-endian signed 64-bit value (the wire's "longlong").
func (p *Packet) ReadInt64() (int64, error) {
	v, err := p.ReadUint64()
	return int64(v), err
}

// ReadString scans forward to the next NUL, returning the preceding bytes
// as a string and advancing past the NUL. Missing NUL is PacketExhausted,
// mirroring original_source/libottdadmin2/packets/base.py's unpack_str.
func (p *Packet) ReadString() (string, error) {
	for i := p.pos; i < len(p.Body); i++ {
		if p.Body[i] == 0 {
			s := string(p.Body[p.pos:i])
			p.pos = i + 1
			return s, nil
		}
	}
	return "", ErrPacketExhausted
}

// WriteBool appends a single 0/1 byte.
func (p *Packet) WriteBool(v bool) {
	if v {
		p.Body = append(p.Body, 1)
	} else {
		p.Body = append(p.Body, 0)
	}
}

// WriteByte appends an unsigned 8-bit value.
func (p *Packet) WriteByte(v uint8) {
	p.Body = append(p.Body, v)
}

// WriteUint16 appends a little-endian unsigned 16-bit value.
func (p *Packet) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	p.Body = append(p.Body, b[:]...)
}

// WriteUint32 appends a little-endian unsigned 32-bit value.
func (p *Packet) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.Body = append(p.Body, b[:]...)
}

// WriteUint64 appends a little-endian unsigned 64-bit value.
func (p *Packet) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.Body = append(p.Body, b[:]...)
}

// WriteInt64 appends a little-endian signed 64-bit value.
func (p *Packet) WriteInt64(v int64) {
	p.WriteUint64(uint64(v))
}

// WriteString validates the encoded length (including the trailing NUL)
// against maxLen and appends bytes(s) || 0x00. maxLen of 0 means
// unbounded.
func (p *Packet) WriteString(s string, maxLen int) error {
	if maxLen > 0 && len(s)+1 > maxLen {
		return fmt.Errorf("%w: %q is %d bytes, maximum is %d", ErrStringTooLong, s, len(s)+1, maxLen)
	}
	p.Body = append(p.Body, s...)
	p.Body = append(p.Body, 0)
	return nil
}

// encodeFrame renders the complete wire frame: length (2 bytes LE,
// including itself and the id byte) || id || body.
func (p *Packet) encodeFrame() ([]byte, error) {
	total := 2 + 1 + len(p.Body)
	if total > SendMTU {
		return nil, fmt.Errorf("admin: encoded packet is %d bytes, exceeds SEND_MTU %d", total, SendMTU)
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(total))
	buf[2] = p.ID
	copy(buf[3:], p.Body)
	return buf, nil
}

// extractFrame attempts to peel one complete frame off the front of buf.
// It returns the number of bytes consumed and the decoded packet; ok is
// false ("need more") when buf does not yet hold a whole frame, in which
// case consumed is always 0. This mirrors the teacher's listenSocket loop
// (pkg/admin/admin.go) and original_source's Packet.extract contract.
func extractFrame(buf []byte) (consumed int, pkt *Packet, ok bool, err error) {
	if len(buf) < 2 {
		return 0, nil, false, nil
	}
	length := binary.LittleEndian.Uint16(buf[0:2])
	if length < 3 {
		return 0, nil, false, ErrInvalidHeader
	}
	if int(length) > len(buf) {
		return 0, nil, false, nil
	}
	id := buf[2]
	body := make([]byte, length-3)
	copy(body, buf[3:length])
	return int(length), newDecodePacket(id, body), true, nil
}
