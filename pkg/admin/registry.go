package admin

// The packet registry maps a numeric id to a decode procedure, mirroring
// original_source/libottdadmin2/packets/registry.py's PacketRegistry,
// generalized from its dynamic class table into a Go map of functions
// populated at init() time (ids are known at compile time here, so no
// decorator-style runtime registration is needed).

// decodedPacket is the typed result of decoding one frame, handed to the
// dispatcher. snakeName is the lowercase_with_underscores handler key the
// teacher/original use for "on_<name>" lookup (spec section 4.4); here it
// picks the dispatch-table entry instead of a reflective method lookup.
type decodedPacket struct {
	snakeName string
	raw       *Packet
	fields    interface{}
}

type decodeFunc func(p *Packet) (interface{}, error)

var serverDecoders = map[uint8]struct {
	name   string
	decode decodeFunc
}{}

func registerServerPacket(id uint8, name string, fn decodeFunc) {
	serverDecoders[id] = struct {
		name   string
		decode decodeFunc
	}{name: name, decode: fn}
}

// decodeServerPacket looks up and runs the decoder for a Server->Admin
// packet id, returning ErrUnknownPacket for anything unregistered.
func decodeServerPacket(id uint8, body []byte) (*decodedPacket, error) {
	entry, ok := serverDecoders[id]
	if !ok {
		return nil, ErrUnknownPacket
	}
	p := newDecodePacket(id, body)
	fields, err := entry.decode(p)
	if err != nil {
		return nil, err
	}
	return &decodedPacket{snakeName: entry.name, raw: p, fields: fields}, nil
}
