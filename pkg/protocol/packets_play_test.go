package protocol

import (
	"github.com/ironclad-mc/mcserver/pkg/chat"
	"testing"
)

func TestDecodeKeepAliveServerboundVarIntEra(t *testing.T) {
	w := NewWriter(8)
	w.VarInt(42)
	p, err := DecodeKeepAliveServerbound(47)(NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
}

func TestDecodeKeepAliveServerboundLongEra(t *testing.T) {
	w := NewWriter(8)
	w.Int64(42)
	p, err := DecodeKeepAliveServerbound(340)(NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
}

func TestKeepAliveClientboundEncodeMatchesSize(t *testing.T) {
	for _, proto := range []int32{47, 340} {
		p := &KeepAliveClientboundPacket{ID: 99, Protocol: proto}
		w := NewWriter(p.Size())
		if err := p.Encode(w); err != nil {
			t.Fatal(err)
		}
		if len(w.Bytes()) != p.Size() {
			t.Fatalf("protocol %d: encoded %d bytes, Size() said %d", proto, len(w.Bytes()), p.Size())
		}
	}
}

func TestDecodeChatMessageServerbound(t *testing.T) {
	w := NewWriter(16)
	if err := w.String("hello", 256); err != nil {
		t.Fatal(err)
	}
	p, err := DecodeChatMessageServerbound(NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if p.Message != "hello" {
		t.Errorf("Message = %q, want hello", p.Message)
	}
}

func TestDecodePlayerPositionAndLookServerbound(t *testing.T) {
	w := NewWriter(40)
	w.Float64(1.5)
	w.Float64(64)
	w.Float64(-3.5)
	w.Float32(90)
	w.Float32(-10)
	w.Bool(true)
	p, err := DecodePlayerPositionAndLookServerbound(NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 1.5 || p.Y != 64 || p.Z != -3.5 || p.Yaw != 90 || p.Pitch != -10 || !p.OnGround {
		t.Fatalf("got %+v", p)
	}
}

func TestDecodeClientSettingsIgnoresTrailingFields(t *testing.T) {
	w := NewWriter(32)
	if err := w.String("en_us", 16); err != nil {
		t.Fatal(err)
	}
	w.Int8(10)
	w.WriteByte(0) // chat mode
	w.Bool(true)   // chat colors
	w.WriteByte(0) // skin parts
	w.VarInt(1)    // main hand
	p, err := DecodeClientSettings(NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if p.ViewDistance != 10 {
		t.Errorf("ViewDistance = %d, want 10", p.ViewDistance)
	}
}

func TestJoinGamePacketPreDimensionCodecEra(t *testing.T) {
	p := &JoinGamePacket{
		Protocol: 340, EntityID: 1, Gamemode: 0, Dimension: 0,
		Difficulty: 2, MaxPlayers: 20, LevelType: "default", ReducedDebug: false,
	}
	w := NewWriter(p.Size())
	if err := p.Encode(w); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != p.Size() {
		t.Fatalf("encoded %d bytes, Size() said %d", len(w.Bytes()), p.Size())
	}

	r := NewReader(w.Bytes())
	eid, _ := r.Int32()
	if eid != 1 {
		t.Errorf("EntityID = %d, want 1", eid)
	}
	gamemode, _ := r.ReadByte()
	dim, _ := r.ReadByte()
	diff, _ := r.ReadByte()
	maxp, _ := r.ReadByte()
	level, err := r.String(16)
	if err != nil {
		t.Fatal(err)
	}
	reduced, _ := r.Bool()
	if gamemode != 0 || dim != 0 || diff != 2 || maxp != 20 || level != "default" || reduced {
		t.Fatalf("unexpected field values: gm=%d dim=%d diff=%d maxp=%d level=%q reduced=%v",
			gamemode, dim, diff, maxp, level, reduced)
	}
}

func TestJoinGamePacketDimensionCodecEra(t *testing.T) {
	codec := []byte{0x01, 0x02, 0x03}
	p := &JoinGamePacket{
		Protocol: 477, EntityID: 7, Gamemode: 1, MaxPlayers: 50,
		ViewDistance: 10, ReducedDebug: true, DimensionCodec: codec,
		DimensionName: "minecraft:overworld", WorldName: "minecraft:overworld",
		HashedSeed: 123456,
	}
	w := NewWriter(p.Size())
	if err := p.Encode(w); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != p.Size() {
		t.Fatalf("encoded %d bytes, Size() said %d", len(w.Bytes()), p.Size())
	}
}

func TestServerDifficultyPacketEraGating(t *testing.T) {
	pre := &ServerDifficultyPacket{Difficulty: 2, Protocol: 340}
	if pre.Size() != 1 {
		t.Errorf("pre-1.14 Size() = %d, want 1", pre.Size())
	}
	w := NewWriter(pre.Size())
	if err := pre.Encode(w); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != 1 {
		t.Fatalf("pre-1.14 encoded %d bytes, want 1", len(w.Bytes()))
	}

	post := &ServerDifficultyPacket{Difficulty: 2, Locked: true, Protocol: 477}
	if post.Size() != 2 {
		t.Errorf("post-1.14 Size() = %d, want 2", post.Size())
	}
	w2 := NewWriter(post.Size())
	if err := post.Encode(w2); err != nil {
		t.Fatal(err)
	}
	if len(w2.Bytes()) != 2 {
		t.Fatalf("post-1.14 encoded %d bytes, want 2", len(w2.Bytes()))
	}
}

func TestPlayerAbilitiesPacketFlags(t *testing.T) {
	p := &PlayerAbilitiesPacket{Invulnerable: true, Flying: false, AllowFlying: true, CreativeMode: true, FlyingSpeed: 0.05, FOVModifier: 0.1}
	if got := p.flags(); got != 0x01|0x04|0x08 {
		t.Fatalf("flags = %#x, want %#x", got, 0x01|0x04|0x08)
	}
	w := NewWriter(p.Size())
	if err := p.Encode(w); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	flags, _ := r.ReadByte()
	if flags != p.flags() {
		t.Fatalf("decoded flags %#x, want %#x", flags, p.flags())
	}
	speed, _ := r.Float32()
	if speed != 0.05 {
		t.Errorf("speed = %v, want 0.05", speed)
	}
}

func TestDecodePlayerAbilitiesServerbound(t *testing.T) {
	w := NewWriter(16)
	w.WriteByte(0x02)
	w.Float32(0.1)
	w.Float32(0.2)
	p, err := DecodePlayerAbilitiesServerbound(NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if p.Flags != 0x02 || p.FlyingSpeed != 0.1 || p.FOVMod != 0.2 {
		t.Fatalf("got %+v", p)
	}
}

func TestPlayerPositionAndLookClientboundTeleportIDGating(t *testing.T) {
	old := &PlayerPositionAndLookClientboundPacket{Protocol: 47}
	if old.Size() != 8*3+4*2+1 {
		t.Errorf("pre-107 Size() = %d, want %d", old.Size(), 8*3+4*2+1)
	}
	newer := &PlayerPositionAndLookClientboundPacket{Protocol: 477, TeleportID: 5}
	if newer.Size() != 8*3+4*2+1+SizeVarInt(5) {
		t.Errorf("post-107 Size() = %d", newer.Size())
	}
}

func TestChatMessageClientboundPacketEncode(t *testing.T) {
	p := &ChatMessageClientboundPacket{Message: chat.Text("hi"), Position: 1}
	w := NewWriter(p.Size())
	if err := p.Encode(w); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != p.Size() {
		t.Fatalf("encoded %d, Size() said %d", len(w.Bytes()), p.Size())
	}
}

func TestChunkDataPacketSizeMatchesEncodedLength(t *testing.T) {
	for _, proto := range []int32{47, 477} {
		p := &ChunkDataPacket{
			ChunkX: 3, ChunkZ: -2, BitMask: 0x0001,
			Heightmap: []byte{1, 2, 3, 4},
			Payload:   []byte{9, 9, 9, 9, 9},
			Protocol:  proto,
		}
		w := NewWriter(p.Size())
		if err := p.Encode(w); err != nil {
			t.Fatal(err)
		}
		if len(w.Bytes()) != p.Size() {
			t.Fatalf("protocol %d: encoded %d bytes, Size() said %d", proto, len(w.Bytes()), p.Size())
		}
	}
}

func TestUnloadChunkAndUpdateViewPositionEncode(t *testing.T) {
	u := &UnloadChunkPacket{ChunkX: 1, ChunkZ: -1}
	w := NewWriter(u.Size())
	if err := u.Encode(w); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != 8 {
		t.Fatalf("UnloadChunk encoded %d bytes, want 8", len(w.Bytes()))
	}

	v := &UpdateViewPositionPacket{ChunkX: 100, ChunkZ: -100}
	w2 := NewWriter(v.Size())
	if err := v.Encode(w2); err != nil {
		t.Fatal(err)
	}
	if len(w2.Bytes()) != v.Size() {
		t.Fatalf("UpdateViewPosition encoded %d bytes, Size() said %d", len(w2.Bytes()), v.Size())
	}
}
