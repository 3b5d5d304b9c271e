package world

import (
	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

// MaxBitsPerEntry, BitPackingCrossesLongs, HasHeightmap and BiomeEntryCount
// are supplied per protocol by pkg/protocol (spec §4.F steps 1-5);
// SerializeSection takes them through this narrow view so a test can supply
// a fixed era. EncodeChunk still calls pkg/protocol directly.
type Era interface {
	MaxBitsPerEntry(proto int32) int
	BitPackingCrossesLongs(proto int32) bool
	HasHeightmap(proto int32) bool
	BiomeEntryCount(proto int32) int
}

type protocolEra struct{}

func (protocolEra) MaxBitsPerEntry(proto int32) int         { return protocol.MaxBitsPerEntry(proto) }
func (protocolEra) BitPackingCrossesLongs(proto int32) bool { return protocol.BitPackingCrossesLongs(proto) }
func (protocolEra) HasHeightmap(proto int32) bool           { return protocol.HasHeightmap(proto) }
func (protocolEra) BiomeEntryCount(proto int32) int         { return protocol.BiomeEntryCount(proto) }

// ProtocolEra is the production Era backed by pkg/protocol's version table.
var ProtocolEra Era = protocolEra{}

// longWriter accumulates bit-packed uint64 entries per spec §4.F step 3,
// either allowing an entry to straddle a long boundary (pre-1.16) or
// padding the remainder of a long with zero once the next entry wouldn't
// fit (1.16+).
type longWriter struct {
	crossLongs bool
	bits       uint
	longs      []uint64
	cur        uint64
	filled     uint // bits already placed in cur
}

func newLongWriter(bits int, crossLongs bool) *longWriter {
	return &longWriter{bits: uint(bits), crossLongs: crossLongs}
}

func (w *longWriter) push(v uint32) {
	value := uint64(v) & ((1 << w.bits) - 1)
	if !w.crossLongs && w.filled+w.bits > 64 {
		w.longs = append(w.longs, w.cur)
		w.cur, w.filled = 0, 0
	}
	w.cur |= value << w.filled
	if w.filled+w.bits > 64 {
		overflow := w.filled + w.bits - 64
		w.longs = append(w.longs, w.cur)
		w.cur = value >> (w.bits - overflow)
		w.filled = overflow
		return
	}
	w.filled += w.bits
	if w.filled == 64 {
		w.longs = append(w.longs, w.cur)
		w.cur, w.filled = 0, 0
	}
}

func (w *longWriter) finish() []int64 {
	if w.filled > 0 {
		w.longs = append(w.longs, w.cur)
	}
	out := make([]int64, len(w.longs))
	for i, l := range w.longs {
		out[i] = int64(l)
	}
	return out
}

// clampBits applies spec §4.F step 1's clamp: below 4 bits round up to 4,
// above 8 round up to the era's direct-mode ceiling; 4..8 pass through.
func clampBits(b, maxBits int) int {
	switch {
	case b < 4:
		return 4
	case b <= 8:
		return b
	default:
		return maxBits
	}
}

// SerializedSection is one section's encoded entry list: the wire palette
// (empty in direct mode) and its packed long array.
type SerializedSection struct {
	BitsPerEntry int
	Palette      []int32 // wire palette entries (indirect mode only)
	Direct       bool
	Data         []int64
}

// SerializeSection converts one section into its wire form for protocol
// proto, using ids to map the section's Block values to that protocol's
// global palette (spec §4.F steps 1-3).
func SerializeSection(sec *ChunkSection, proto int32, ids BlockIDFunc, era Era) SerializedSection {
	entries := sec.Palette()
	maxBits := era.MaxBitsPerEntry(proto)
	mapped := 0
	for _, b := range entries {
		if _, ok := ids(b); ok {
			mapped++
		}
	}
	raw := BitsPerEntry(mapped)
	bits := clampBits(raw, maxBits)

	if bits > 8 {
		// Direct mode: every local index maps straight through ids to a
		// global id, with None substituted by Air.
		airID, _ := ids(Air)
		lw := newLongWriter(bits, era.BitPackingCrossesLongs(proto))
		for _, localIdx := range sec.indices {
			b, _ := sec.palette.At(int(localIdx))
			gid, ok := ids(b)
			if !ok {
				gid = airID
			}
			lw.push(uint32(gid))
		}
		return SerializedSection{BitsPerEntry: bits, Direct: true, Data: lw.finish()}
	}

	// Indirect mode: filter the palette to entries the protocol knows,
	// preserving order; entries it doesn't know collapse onto Air.
	filtered := make([]int32, 0, len(entries))
	remap := make([]int, len(entries)) // old local index -> new filtered index
	airFilteredIdx := -1
	for i, b := range entries {
		if gid, ok := ids(b); ok {
			remap[i] = len(filtered)
			filtered = append(filtered, gid)
			if b.IsAir() {
				airFilteredIdx = remap[i]
			}
		} else {
			remap[i] = -1 // patched to air below once we know air's filtered slot
		}
	}
	if airFilteredIdx == -1 {
		// Air must always be representable; if the source palette never
		// held it (a fully-solid section prior to any removal), add it.
		airFilteredIdx = len(filtered)
		if gid, ok := ids(Air); ok {
			filtered = append(filtered, gid)
		}
	}
	for i, r := range remap {
		if r == -1 {
			remap[i] = airFilteredIdx
		}
	}

	lw := newLongWriter(bits, era.BitPackingCrossesLongs(proto))
	for _, localIdx := range sec.indices {
		lw.push(uint32(remap[localIdx]))
	}
	return SerializedSection{BitsPerEntry: bits, Palette: filtered, Data: lw.finish()}
}

// EncodeSection writes one SerializedSection as it appears in a ChunkData
// payload: non-air block count, bits-per-entry, palette (indirect only,
// varint-length-prefixed), data length, data longs.
func EncodeSection(w *protocol.Writer, sec *ChunkSection, s SerializedSection) {
	w.Int16(int16(sec.BlockCount()))
	w.WriteByte(byte(s.BitsPerEntry))
	if !s.Direct {
		w.VarInt(int32(len(s.Palette)))
		for _, id := range s.Palette {
			w.VarInt(id)
		}
	}
	w.VarInt(int32(len(s.Data)))
	for _, l := range s.Data {
		w.Int64(l)
	}
}

// MovementPermitting lists the blocks the heightmap predicate (spec §4.F
// step 4) excludes even when they're the topmost mapped block in a
// column — air-like or walk-through blocks a player can stand inside.
// The full list is a block-catalog input; this core carries a
// representative subset: the air variants plus water, tall grass, snow
// layer and torch.
var MovementPermitting = map[Block]bool{
	Air:                    true,
	"minecraft:cave_air":   true,
	"minecraft:void_air":   true,
	"minecraft:water":      true,
	"minecraft:tall_grass": true,
	"minecraft:snow":       true,
	"minecraft:torch":      true,
}

// Heightmap computes the MOTION_BLOCKING-style heightmap (spec §4.F step
// 4): for each (x,z), one past the highest y whose block both maps to
// Some on proto and isn't movement-permitting.
func Heightmap(c *Chunk, proto int32, ids BlockIDFunc) []int32 {
	out := make([]int32, 256)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			top := int32(0)
			for y := 255; y >= 0; y-- {
				b := c.Get(x, y, z)
				if MovementPermitting[b] {
					continue
				}
				if _, ok := ids(b); !ok {
					continue
				}
				top = int32(y) + 1
				break
			}
			out[z*16+x] = top
		}
	}
	return out
}

// EncodeHeightmap bit-packs a 256-entry heightmap at the fixed 9 bits per
// entry spec §4.F step 4 specifies, wrapped as a "MOTION_BLOCKING" NBT
// long-array compound the way 1.14+ ChunkData carries it.
func EncodeHeightmap(h []int32, crossLongs bool) []byte {
	lw := newLongWriter(9, crossLongs)
	for _, v := range h {
		lw.push(uint32(v))
	}
	longs := lw.finish()

	nw := protocol.NewNBTWriter()
	nw.RootCompound("")
	nw.LongArray("MOTION_BLOCKING", longs)
	nw.EndCompound()
	return nw.Bytes()
}

// EncodeBiomes writes the fixed-zero biome array spec §4.F step 5 calls
// for: count entries (256 pre-1.15, 1024 from 1.15), all zero.
func EncodeBiomes(buf []byte, count int) []byte {
	grown := make([]byte, count*4)
	buf = append(buf, grown...)
	return buf
}

// LightArrays returns the fixed all-0xFF 2048-byte sky and block light
// arrays spec §4.F step 6 specifies; this core never tracks real light.
func LightArrays() (sky, block []byte) {
	sky = make([]byte, 2048)
	block = make([]byte, 2048)
	for i := range sky {
		sky[i] = 0xFF
		block[i] = 0xFF
	}
	return
}
