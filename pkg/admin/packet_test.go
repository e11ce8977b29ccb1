package admin

import (
	"bytes"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	p := newEncodePacket(idAdminChat)
	p.WriteByte(uint8(ActionChat))
	p.WriteByte(uint8(DestBroadcast))
	p.WriteUint32(42)
	if err := p.WriteString("hello", maxChatLength); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	frame, err := p.encodeFrame()
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}

	consumed, decoded, ok, err := extractFrame(frame)
	if err != nil {
		t.Fatalf("extractFrame: %v", err)
	}
	if !ok {
		t.Fatal("extractFrame reported incomplete frame for a complete one")
	}
	if consumed != len(frame) {
		t.Fatalf("consumed %d bytes, want %d", consumed, len(frame))
	}
	if decoded.ID != idAdminChat {
		t.Fatalf("decoded id = %d, want %d", decoded.ID, idAdminChat)
	}

	action, err := decoded.ReadByte()
	if err != nil || ChatAction(action) != ActionChat {
		t.Fatalf("action = %v, %v", action, err)
	}
	dest, err := decoded.ReadByte()
	if err != nil || DestType(dest) != DestBroadcast {
		t.Fatalf("dest = %v, %v", dest, err)
	}
	clientID, err := decoded.ReadUint32()
	if err != nil || clientID != 42 {
		t.Fatalf("clientID = %v, %v", clientID, err)
	}
	msg, err := decoded.ReadString()
	if err != nil || msg != "hello" {
		t.Fatalf("message = %q, %v", msg, err)
	}
	if decoded.HasMore() {
		t.Fatal("unexpected trailing bytes")
	}
}

func TestExtractFrameNeedsMoreBytes(t *testing.T) {
	p := newEncodePacket(idAdminPing)
	p.WriteUint32(7)
	frame, err := p.encodeFrame()
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}

	consumed, decoded, ok, err := extractFrame(frame[:len(frame)-1])
	if err != nil {
		t.Fatalf("extractFrame: %v", err)
	}
	if ok || decoded != nil || consumed != 0 {
		t.Fatal("extractFrame should report incomplete frame as not-ok with zero consumed")
	}
}

func TestExtractFrameRejectsShortHeader(t *testing.T) {
	_, _, ok, err := extractFrame([]byte{1, 0, 5})
	if err != ErrInvalidHeader {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
	if ok {
		t.Fatal("extractFrame should not report ok on an invalid header")
	}
}

func TestWriteStringRejectsOverlong(t *testing.T) {
	p := newEncodePacket(idAdminRcon)
	long := bytes.Repeat([]byte("x"), maxRconCommandLength)
	if err := p.WriteString(string(long), maxRconCommandLength); err == nil {
		t.Fatal("expected ErrStringTooLong")
	}
}

func TestEncodeFrameRejectsOversizedPacket(t *testing.T) {
	p := newEncodePacket(idAdminGamescript)
	p.Body = make([]byte, SendMTU)
	if _, err := p.encodeFrame(); err == nil {
		t.Fatal("expected SEND_MTU overflow error")
	}
}
