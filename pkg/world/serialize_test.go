package world

import (
	"fmt"
	"testing"
)

type fixedEra struct {
	maxBits    int
	crossLongs bool
	heightmap  bool
	biomes     int
}

func (e fixedEra) MaxBitsPerEntry(int32) int         { return e.maxBits }
func (e fixedEra) BitPackingCrossesLongs(int32) bool { return e.crossLongs }
func (e fixedEra) HasHeightmap(int32) bool           { return e.heightmap }
func (e fixedEra) BiomeEntryCount(int32) int         { return e.biomes }

func stoneDirtIDs(b Block) (int32, bool) {
	switch b {
	case Air:
		return 0, true
	case "minecraft:stone":
		return 1, true
	case "minecraft:dirt":
		return 2, true
	default:
		return 0, false
	}
}

func TestLongWriterRoundTripsThroughPush(t *testing.T) {
	lw := newLongWriter(5, true)
	values := []uint32{0, 1, 31, 17, 9}
	for _, v := range values {
		lw.push(v)
	}
	longs := lw.finish()
	if len(longs) == 0 {
		t.Fatal("finish() should produce at least one long for non-empty input")
	}

	// Unpack by replaying the same bit width against the produced longs.
	var bitpos uint
	packed := make([]uint64, len(longs))
	for i, l := range longs {
		packed[i] = uint64(l)
	}
	read := func() uint32 {
		longIdx := bitpos / 64
		bitIdx := bitpos % 64
		v := packed[longIdx] >> bitIdx
		if bitIdx+5 > 64 {
			next := packed[longIdx+1]
			v |= next << (64 - bitIdx)
		}
		bitpos += 5
		return uint32(v & 0x1F)
	}
	for _, want := range values {
		if got := read(); got != want {
			t.Fatalf("unpacked %d, want %d", got, want)
		}
	}
}

func TestClampBits(t *testing.T) {
	cases := []struct{ raw, maxBits, want int }{
		{0, 14, 4},
		{3, 14, 4},
		{4, 14, 4},
		{8, 14, 8},
		{9, 14, 14},
	}
	for _, c := range cases {
		if got := clampBits(c.raw, c.maxBits); got != c.want {
			t.Errorf("clampBits(%d, %d) = %d, want %d", c.raw, c.maxBits, got, c.want)
		}
	}
}

func TestSerializeSectionIndirectMode(t *testing.T) {
	sec := NewChunkSection()
	sec.Set(0, 0, 0, Block("minecraft:stone"))
	sec.Set(1, 0, 0, Block("minecraft:dirt"))

	era := fixedEra{maxBits: 14}
	ser := SerializeSection(sec, 477, stoneDirtIDs, era)
	if ser.Direct {
		t.Fatal("a 3-entry palette should stay indirect, not go direct")
	}
	if ser.BitsPerEntry != 4 {
		t.Fatalf("BitsPerEntry = %d, want 4 (clamped up from 2)", ser.BitsPerEntry)
	}
	if len(ser.Palette) != 3 { // air, stone, dirt
		t.Fatalf("palette len = %d, want 3", len(ser.Palette))
	}
}

// knownAndUnknownIDs maps Air and any "minecraft:known_*" block to a global
// id, and leaves every "minecraft:unknown_*" block (and anything else)
// unmapped, the way pkg/blockids.DefaultCatalog leaves a schematic block
// outside its fixed vocabulary unmapped for every protocol.
func knownAndUnknownIDs(b Block) (int32, bool) {
	if b == Air {
		return 0, true
	}
	var n int
	if _, err := fmt.Sscanf(string(b), "minecraft:known_%d", &n); err == nil {
		return int32(n + 1), true
	}
	return 0, false
}

func TestSerializeSectionDirectModeSubstitutesAirForUnknownBlocks(t *testing.T) {
	sec := NewChunkSection()
	// 260 blocks the catalog knows plus 40 it doesn't: the known count alone
	// (261 including air) needs more than 8 bits per index, which clamps
	// straight to direct mode regardless of the era ceiling.
	for i := 0; i < 300; i++ {
		x, y, z := i%16, (i/16)%16, i/256
		if i < 260 {
			sec.Set(x, y, z, Block(fmt.Sprintf("minecraft:known_%d", i)))
		} else {
			sec.Set(x, y, z, Block(fmt.Sprintf("minecraft:unknown_%d", i)))
		}
	}
	era := fixedEra{maxBits: 14}
	ser := SerializeSection(sec, 477, knownAndUnknownIDs, era)
	if !ser.Direct {
		t.Fatal("261 mapped palette entries should clamp into direct mode")
	}
	if ser.BitsPerEntry != 14 {
		t.Fatalf("BitsPerEntry = %d, want the era ceiling 14", ser.BitsPerEntry)
	}
}

// TestSerializeSectionBitsIgnoreUnmappedEntries guards spec §4.F step 1:
// bits-per-entry is computed from the palette entries the protocol's block
// id function actually maps, not the raw palette size. A palette stuffed
// with blocks the catalog doesn't recognize must not inflate bits-per-entry
// (or tip the section into direct mode) on account of those entries alone.
func TestSerializeSectionBitsIgnoreUnmappedEntries(t *testing.T) {
	sec := NewChunkSection()
	sec.Set(0, 0, 0, Block("minecraft:stone"))
	for i := 0; i < 280; i++ {
		x, y, z := (i+1)%16, ((i+1)/16)%16, (i+1)/256
		sec.Set(x, y, z, Block(fmt.Sprintf("minecraft:unknown_%d", i)))
	}
	era := fixedEra{maxBits: 14}
	ser := SerializeSection(sec, 477, stoneDirtIDs, era)
	if ser.Direct {
		t.Fatal("a palette with only air+stone mapped should stay indirect despite 280 unmapped entries")
	}
	if ser.BitsPerEntry != 4 {
		t.Fatalf("BitsPerEntry = %d, want 4 (clamped up from the 2 mapped entries: air, stone)", ser.BitsPerEntry)
	}
}

func TestHeightmapSkipsMovementPermittingBlocks(t *testing.T) {
	c := NewChunk(0, 0)
	c.Set(0, 10, 0, Block("minecraft:stone"))
	c.Set(0, 11, 0, Block("minecraft:water"))

	hm := Heightmap(c, 477, stoneDirtIDs)
	if got := hm[0]; got != 11 {
		t.Fatalf("heightmap[0] = %d, want 11 (one above the stone, water doesn't count)", got)
	}
}

func TestHeightmapAllAirColumnIsZero(t *testing.T) {
	c := NewChunk(0, 0)
	hm := Heightmap(c, 477, stoneDirtIDs)
	for i, v := range hm {
		if v != 0 {
			t.Fatalf("heightmap[%d] = %d, want 0 for an all-air column", i, v)
		}
	}
}

func TestEncodeBiomesAppendsFourBytesPerEntry(t *testing.T) {
	out := EncodeBiomes(nil, 256)
	if len(out) != 256*4 {
		t.Fatalf("len = %d, want %d", len(out), 256*4)
	}
	for _, b := range out {
		if b != 0 {
			t.Fatal("biome array should be all zero")
		}
	}
}

func TestLightArraysAreFullBright(t *testing.T) {
	sky, block := LightArrays()
	if len(sky) != 2048 || len(block) != 2048 {
		t.Fatalf("len(sky)=%d len(block)=%d, want 2048 each", len(sky), len(block))
	}
	for i := range sky {
		if sky[i] != 0xFF || block[i] != 0xFF {
			t.Fatalf("light arrays should be all 0xFF, byte %d was sky=%#x block=%#x", i, sky[i], block[i])
		}
	}
}
