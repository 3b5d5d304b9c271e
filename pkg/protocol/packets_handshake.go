package protocol

// HandshakePacket is the single serverbound packet of the Handshake phase.
type HandshakePacket struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func DecodeHandshake(r *Reader) (*HandshakePacket, error) {
	protocolVersion, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	addr, err := r.String(255)
	if err != nil {
		return nil, err
	}
	port, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	next, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	return &HandshakePacket{ProtocolVersion: protocolVersion, ServerAddress: addr, ServerPort: port, NextState: next}, nil
}
