package protocol

import "github.com/ironclad-mc/mcserver/pkg/chat"

// --- serverbound ---

type KeepAliveServerboundPacket struct {
	ID int64
}

func DecodeKeepAliveServerbound(protocol int32) func(*Reader) (*KeepAliveServerboundPacket, error) {
	return func(r *Reader) (*KeepAliveServerboundPacket, error) {
		if KeepAliveIsLong(protocol) {
			v, err := r.Int64()
			return &KeepAliveServerboundPacket{ID: v}, err
		}
		v, err := r.VarInt()
		return &KeepAliveServerboundPacket{ID: int64(v)}, err
	}
}

type ChatMessageServerboundPacket struct {
	Message string
}

func DecodeChatMessageServerbound(r *Reader) (*ChatMessageServerboundPacket, error) {
	msg, err := r.String(256)
	if err != nil {
		return nil, err
	}
	return &ChatMessageServerboundPacket{Message: msg}, nil
}

type PlayerPositionPacket struct {
	X, Y, Z  float64
	OnGround bool
}

func DecodePlayerPosition(r *Reader) (*PlayerPositionPacket, error) {
	x, err := r.Float64()
	if err != nil {
		return nil, err
	}
	y, err := r.Float64()
	if err != nil {
		return nil, err
	}
	z, err := r.Float64()
	if err != nil {
		return nil, err
	}
	onGround, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return &PlayerPositionPacket{X: x, Y: y, Z: z, OnGround: onGround}, nil
}

type PlayerLookPacket struct {
	Yaw, Pitch float32
	OnGround   bool
}

func DecodePlayerLook(r *Reader) (*PlayerLookPacket, error) {
	yaw, err := r.Float32()
	if err != nil {
		return nil, err
	}
	pitch, err := r.Float32()
	if err != nil {
		return nil, err
	}
	onGround, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return &PlayerLookPacket{Yaw: yaw, Pitch: pitch, OnGround: onGround}, nil
}

type PlayerPositionAndLookServerboundPacket struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func DecodePlayerPositionAndLookServerbound(r *Reader) (*PlayerPositionAndLookServerboundPacket, error) {
	x, err := r.Float64()
	if err != nil {
		return nil, err
	}
	y, err := r.Float64()
	if err != nil {
		return nil, err
	}
	z, err := r.Float64()
	if err != nil {
		return nil, err
	}
	yaw, err := r.Float32()
	if err != nil {
		return nil, err
	}
	pitch, err := r.Float32()
	if err != nil {
		return nil, err
	}
	onGround, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return &PlayerPositionAndLookServerboundPacket{X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, OnGround: onGround}, nil
}

type ClientSettingsPacket struct {
	ViewDistance int8
}

func DecodeClientSettings(r *Reader) (*ClientSettingsPacket, error) {
	if _, err := r.String(16); err != nil { // locale
		return nil, err
	}
	vd, err := r.Int8()
	if err != nil {
		return nil, err
	}
	r.Rest() // chat mode, chat colors, skin parts, main hand, ...: not needed
	return &ClientSettingsPacket{ViewDistance: vd}, nil
}

// --- clientbound ---

type KeepAliveClientboundPacket struct {
	ID       int64
	Protocol int32
}

func (p *KeepAliveClientboundPacket) Size() int {
	if KeepAliveIsLong(p.Protocol) {
		return 8
	}
	return SizeVarInt(int32(p.ID))
}

func (p *KeepAliveClientboundPacket) Encode(w *Writer) error {
	if KeepAliveIsLong(p.Protocol) {
		w.Int64(p.ID)
	} else {
		w.VarInt(int32(p.ID))
	}
	return nil
}

type JoinGamePacket struct {
	Protocol        int32
	EntityID        int32
	Gamemode        byte
	Dimension       int32
	Difficulty      byte
	MaxPlayers      byte
	LevelType       string
	ViewDistance    int32
	ReducedDebug    bool
	DimensionCodec  []byte // pre-built NBT, only used when HasDimensionCodec(Protocol)
	DimensionName   string
	WorldName       string
	HashedSeed      int64
}

func (p *JoinGamePacket) Size() int {
	if !HasDimensionCodec(p.Protocol) {
		return 4 + 1 + 1 + 1 + 1 + SizeString(p.LevelType) + 1
	}
	size := 4 + 1 + 1 + SizeVarInt(1) + SizeString(p.WorldName) + len(p.DimensionCodec) +
		SizeString(p.DimensionName) + SizeString(p.WorldName) + 8 + SizeVarInt(int32(p.MaxPlayers))
	if HasViewDistanceMechanics(p.Protocol) {
		size += SizeVarInt(p.ViewDistance)
	}
	size += 1 + 1 + 1 + 1 // reduced debug, respawn screen, debug world, flat world
	return size
}

func (p *JoinGamePacket) Encode(w *Writer) error {
	w.Int32(p.EntityID)
	if !HasDimensionCodec(p.Protocol) {
		w.WriteByte(p.Gamemode)
		w.WriteByte(byte(p.Dimension))
		w.WriteByte(p.Difficulty)
		w.WriteByte(p.MaxPlayers)
		if err := w.String(p.LevelType, 16); err != nil {
			return err
		}
		w.Bool(p.ReducedDebug)
		return nil
	}
	w.WriteByte(p.Gamemode)
	w.Int8(int8(p.Gamemode)) // previous gamemode, unused here
	w.VarInt(1)              // known worlds count
	if err := w.String(p.WorldName, 64); err != nil {
		return err
	}
	w.Bytes_(p.DimensionCodec)
	if err := w.String(p.DimensionName, 64); err != nil {
		return err
	}
	if err := w.String(p.WorldName, 64); err != nil {
		return err
	}
	w.Int64(p.HashedSeed)
	w.VarInt(int32(p.MaxPlayers))
	if HasViewDistanceMechanics(p.Protocol) {
		w.VarInt(p.ViewDistance)
	}
	w.Bool(p.ReducedDebug)
	w.Bool(true) // enable respawn screen
	w.Bool(false)
	w.Bool(false)
	return nil
}

type ServerDifficultyPacket struct {
	Difficulty byte
	Locked     bool
	Protocol   int32
}

func (p *ServerDifficultyPacket) Size() int {
	if p.Protocol >= v1_14 {
		return 2
	}
	return 1
}

func (p *ServerDifficultyPacket) Encode(w *Writer) error {
	w.WriteByte(p.Difficulty)
	if p.Protocol >= v1_14 {
		w.Bool(p.Locked)
	}
	return nil
}

type PlayerAbilitiesPacket struct {
	Invulnerable, Flying, AllowFlying, CreativeMode bool
	FlyingSpeed, FOVModifier                        float32
}

func (p *PlayerAbilitiesPacket) flags() byte {
	var f byte
	if p.Invulnerable {
		f |= 0x01
	}
	if p.Flying {
		f |= 0x02
	}
	if p.AllowFlying {
		f |= 0x04
	}
	if p.CreativeMode {
		f |= 0x08
	}
	return f
}

func (p *PlayerAbilitiesPacket) Size() int { return 1 + 4 + 4 }
func (p *PlayerAbilitiesPacket) Encode(w *Writer) error {
	w.WriteByte(p.flags())
	w.Float32(p.FlyingSpeed)
	w.Float32(p.FOVModifier)
	return nil
}

type PlayerAbilitiesServerboundPacket struct {
	Flags               byte
	FlyingSpeed, FOVMod float32
}

func DecodePlayerAbilitiesServerbound(r *Reader) (*PlayerAbilitiesServerboundPacket, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	speed, err := r.Float32()
	if err != nil {
		return nil, err
	}
	fov, err := r.Float32()
	if err != nil {
		return nil, err
	}
	return &PlayerAbilitiesServerboundPacket{Flags: flags, FlyingSpeed: speed, FOVMod: fov}, nil
}

type PlayerPositionAndLookClientboundPacket struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
	Protocol   int32
}

func (p *PlayerPositionAndLookClientboundPacket) Size() int {
	size := 8*3 + 4*2 + 1
	if p.Protocol >= 107 {
		size += SizeVarInt(p.TeleportID)
	}
	return size
}

func (p *PlayerPositionAndLookClientboundPacket) Encode(w *Writer) error {
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Float32(p.Yaw)
	w.Float32(p.Pitch)
	w.WriteByte(p.Flags)
	if p.Protocol >= 107 {
		w.VarInt(p.TeleportID)
	}
	return nil
}

type ChatMessageClientboundPacket struct {
	Message  chat.Message
	Position byte
}

func (p *ChatMessageClientboundPacket) Size() int { return SizeString(p.Message.String()) + 1 }
func (p *ChatMessageClientboundPacket) Encode(w *Writer) error {
	if err := w.String(p.Message.String(), 1<<18); err != nil {
		return err
	}
	w.WriteByte(p.Position)
	return nil
}

type DisconnectPlayPacket struct {
	Reason chat.Message
}

func (p *DisconnectPlayPacket) Size() int { return SizeString(p.Reason.String()) }
func (p *DisconnectPlayPacket) Encode(w *Writer) error {
	return w.String(p.Reason.String(), 1<<20)
}

// ChunkDataPacket wraps the output of the chunk serializer (component F)
// with the framing ChunkData demands: coordinates, full-chunk flag,
// bitmask, heightmap (1.14+), and the opaque section payload.
type ChunkDataPacket struct {
	ChunkX, ChunkZ int32
	BitMask        int32
	Heightmap      []byte // pre-encoded NBT, empty pre-1.14
	Payload        []byte
	Protocol       int32
}

func (p *ChunkDataPacket) Size() int {
	size := 4 + 4 + 1 + SizeVarInt(p.BitMask)
	if HasHeightmap(p.Protocol) {
		size += len(p.Heightmap)
	}
	size += SizeVarInt(int32(len(p.Payload))) + len(p.Payload)
	size += SizeVarInt(0) // block entity count, always 0 in this core
	return size
}

func (p *ChunkDataPacket) Encode(w *Writer) error {
	w.Int32(p.ChunkX)
	w.Int32(p.ChunkZ)
	w.Bool(true)
	w.VarInt(p.BitMask)
	if HasHeightmap(p.Protocol) {
		w.Bytes_(p.Heightmap)
	}
	w.VarInt(int32(len(p.Payload)))
	w.Bytes_(p.Payload)
	w.VarInt(0)
	return nil
}

// UnloadChunkPacket exists only from 1.14 on (spec §4.H chunk-delta
// emission); earlier protocols unload by sending an empty ChunkData.
type UnloadChunkPacket struct {
	ChunkX, ChunkZ int32
}

func (p *UnloadChunkPacket) Size() int { return 8 }
func (p *UnloadChunkPacket) Encode(w *Writer) error {
	w.Int32(p.ChunkX)
	w.Int32(p.ChunkZ)
	return nil
}

// UpdateViewPositionPacket exists only from 1.14 on.
type UpdateViewPositionPacket struct {
	ChunkX, ChunkZ int32
}

func (p *UpdateViewPositionPacket) Size() int { return SizeVarInt(p.ChunkX) + SizeVarInt(p.ChunkZ) }
func (p *UpdateViewPositionPacket) Encode(w *Writer) error {
	w.VarInt(p.ChunkX)
	w.VarInt(p.ChunkZ)
	return nil
}
