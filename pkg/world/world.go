package world

import (
	"math"
	"sync"

	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

// ChunkPos addresses one Chunk by its column coordinate.
type ChunkPos struct {
	X, Z int32
}

// World is the in-memory voxel store the Server actor uniquely owns (spec
// §3 "Ownership"): a sparse map of sixteen-block-wide columns, each
// composed lazily of ChunkSections. Nothing outside the Server actor's
// goroutine calls World methods directly — connections request mutations
// and reads through task submission (spec §5 "Shared-resource policy").
type World struct {
	mu     sync.Mutex // guards chunks; held only for the duration of one Get/Set/ChunkAt call
	chunks map[ChunkPos]*Chunk
}

// NewWorld returns an empty world: every column is implicitly all-air
// until a block is set or LoadSchematic populates it.
func NewWorld() *World {
	return &World{chunks: make(map[ChunkPos]*Chunk)}
}

func chunkPosOf(x, z int32) ChunkPos {
	return ChunkPos{X: floorDiv(x, 16), Z: floorDiv(z, 16)}
}

// ChunkPosOf locates the chunk column containing the world-space point
// (x, z), flooring each coordinate before dividing by 16 so negative
// positions resolve to the correct column (e.g. x=-0.5 is chunk -1, not 0).
func ChunkPosOf(x, z float64) ChunkPos {
	return chunkPosOf(int32(math.Floor(x)), int32(math.Floor(z)))
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod16(a int32) int {
	m := int(a % 16)
	if m < 0 {
		m += 16
	}
	return m
}

// ChunkAt returns the chunk at cp, creating an empty one on first access.
func (w *World) ChunkAt(cp ChunkPos) *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chunkAtLocked(cp)
}

func (w *World) chunkAtLocked(cp ChunkPos) *Chunk {
	c, ok := w.chunks[cp]
	if !ok {
		c = NewChunk(cp.X, cp.Z)
		w.chunks[cp] = c
	}
	return c
}

// ExistingChunkAt returns the chunk at cp only if it has already been
// materialized (by a Set or LoadSchematic write); ok is false for a column
// that has never been touched, which the caller should treat as all-air
// without allocating a Chunk for it.
func (w *World) ExistingChunkAt(cp ChunkPos) (c *Chunk, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok = w.chunks[cp]
	return
}

// GetBlock reads the block at a world-absolute position.
func (w *World) GetBlock(x, y, z int32) Block {
	if y < 0 || y >= ChunkHeight {
		return Air
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[chunkPosOf(x, z)]
	if !ok {
		return Air
	}
	return c.Get(mod16(x), int(y), mod16(z))
}

// SetBlock writes the block at a world-absolute position, materializing
// the chunk (and section, via Chunk.Set) on demand.
func (w *World) SetBlock(x, y, z int32, b Block) {
	if y < 0 || y >= ChunkHeight {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.chunkAtLocked(chunkPosOf(x, z))
	c.Set(mod16(x), int(y), mod16(z), b)
}

// SchematicSource is the narrow view World needs of a parsed schematic
// (internal/schematic.Data implements it). Declaring the interface here
// rather than importing internal/schematic keeps pkg/world independent of
// the loader that happens to feed it.
type SchematicSource interface {
	Bounds() (width, height, length int)
	Offset() (x, y, z int32)
	At(x, y, z int) Block
}

// LoadSchematic places every non-air block of src into the world, offset
// by src's own Offset field, as spec §6 describes.
func (w *World) LoadSchematic(src SchematicSource) {
	width, height, length := src.Bounds()
	ox, oy, oz := src.Offset()
	for y := 0; y < height; y++ {
		for z := 0; z < length; z++ {
			for x := 0; x < width; x++ {
				b := src.At(x, y, z)
				if b.IsAir() {
					continue
				}
				w.SetBlock(ox+int32(x), oy+int32(y), oz+int32(z), b)
			}
		}
	}
}

// ChunksInSquare lists every ChunkPos in the (2*radius+1)^2 square centered
// on center, the view-distance neighborhood spec §4.H's join/move handlers
// compute (spec scenarios S3, S5).
func ChunksInSquare(center ChunkPos, radius int32) []ChunkPos {
	out := make([]ChunkPos, 0, (2*radius+1)*(2*radius+1))
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			out = append(out, ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
	return out
}

// SquareDelta returns the chunks newly inside to's square but outside
// from's (to load) and the chunks inside from's but outside to's (to
// unload). hadFrom false (the player's initial join) makes every chunk in
// to's square count as newly entered, with nothing to unload.
func SquareDelta(from, to ChunkPos, radius int32, hadFrom bool) (load, unload []ChunkPos) {
	toSet := make(map[ChunkPos]bool)
	for _, cp := range ChunksInSquare(to, radius) {
		toSet[cp] = true
	}
	if !hadFrom {
		for cp := range toSet {
			load = append(load, cp)
		}
		return
	}
	fromSet := make(map[ChunkPos]bool)
	for _, cp := range ChunksInSquare(from, radius) {
		fromSet[cp] = true
	}
	for cp := range toSet {
		if !fromSet[cp] {
			load = append(load, cp)
		}
	}
	for cp := range fromSet {
		if !toSet[cp] {
			unload = append(unload, cp)
		}
	}
	return
}

// EncodeChunk runs the chunk serializer (component F) for one column on a
// given protocol revision, returning the section payload bytes, bitmask,
// and (1.14+) heightmap a ChunkDataPacket needs. A nil chunk (a column
// never touched) serializes as all-empty: bitmask 0, no sections — a cheap
// way to hand a client air outside the populated world.
func EncodeChunk(c *Chunk, proto int32, ids BlockIDFunc) (payload []byte, bitmask int32, heightmap []byte) {
	w := protocol.NewWriter(1024)
	sky, block := LightArrays()
	if c != nil {
		for i := 0; i < SectionsPerChunk; i++ {
			sec := c.Section(i)
			if sec == nil {
				continue
			}
			ser := SerializeSection(sec, proto, ids, ProtocolEra)
			EncodeSection(w, sec, ser)
			w.Bytes_(sky)
			w.Bytes_(block)
		}
	}
	payload = w.Bytes()
	payload = EncodeBiomes(payload, protocol.BiomeEntryCount(proto))
	if c != nil {
		bitmask = c.Bitmask()
	}
	if protocol.HasHeightmap(proto) {
		var hm []int32
		if c != nil {
			hm = Heightmap(c, proto, ids)
		} else {
			hm = make([]int32, 256)
		}
		heightmap = EncodeHeightmap(hm, protocol.BitPackingCrossesLongs(proto))
	}
	return
}
