package protocol

// StatusRequestPacket carries no fields.
type StatusRequestPacket struct{}

func DecodeStatusRequest(r *Reader) (*StatusRequestPacket, error) { return &StatusRequestPacket{}, nil }

type StatusPingPacket struct {
	Payload int64
}

func DecodeStatusPing(r *Reader) (*StatusPingPacket, error) {
	v, err := r.Int64()
	if err != nil {
		return nil, err
	}
	return &StatusPingPacket{Payload: v}, nil
}

// StatusResponsePacket is the clientbound status JSON (spec §6).
type StatusResponsePacket struct {
	JSON string
}

func (p *StatusResponsePacket) Size() int { return SizeString(p.JSON) }
func (p *StatusResponsePacket) Encode(w *Writer) error {
	return w.String(p.JSON, 1<<20)
}

type StatusPongPacket struct {
	Payload int64
}

func (p *StatusPongPacket) Size() int { return 8 }
func (p *StatusPongPacket) Encode(w *Writer) error {
	w.Int64(p.Payload)
	return nil
}
