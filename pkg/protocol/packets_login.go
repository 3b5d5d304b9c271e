package protocol

import (
	"github.com/google/uuid"

	"github.com/ironclad-mc/mcserver/pkg/chat"
)

type LoginStartPacket struct {
	Username string
}

func DecodeLoginStart(r *Reader) (*LoginStartPacket, error) {
	name, err := r.String(16)
	if err != nil {
		return nil, err
	}
	return &LoginStartPacket{Username: name}, nil
}

// LoginSuccessPacket is clientbound; for every protocol in Supported the
// UUID field is the hyphenated string form (the switch to a raw 16-byte
// UUID came after 1.16.1).
type LoginSuccessPacket struct {
	UUID     uuid.UUID
	Username string
}

func (p *LoginSuccessPacket) Size() int {
	return SizeString(p.UUID.String()) + SizeString(p.Username)
}

func (p *LoginSuccessPacket) Encode(w *Writer) error {
	if err := w.String(p.UUID.String(), 36); err != nil {
		return err
	}
	return w.String(p.Username, 16)
}

type LoginDisconnectPacket struct {
	Reason chat.Message
}

func (p *LoginDisconnectPacket) Size() int { return SizeString(p.Reason.String()) }
func (p *LoginDisconnectPacket) Encode(w *Writer) error {
	return w.String(p.Reason.String(), 1<<20)
}

type SetCompressionPacket struct {
	Threshold int32
}

func (p *SetCompressionPacket) Size() int { return SizeVarInt(p.Threshold) }
func (p *SetCompressionPacket) Encode(w *Writer) error {
	w.VarInt(p.Threshold)
	return nil
}
