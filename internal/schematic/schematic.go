// Package schematic parses a WorldEdit-style .schem file (version 2,
// DataVersion 2730) into raw block-placement data, per spec §6
// "Persistent state": the only world input this core accepts is an
// in-memory world loaded from such a file at startup. Grounded on
// original_source/crates/core/src/schematic/mod.rs, which this package's
// Load mirrors field-for-field without carrying over its Rust shape.
package schematic

import (
	"fmt"
	"os"
	"strings"

	"github.com/ironclad-mc/mcserver/pkg/world"
)

// RequiredDataVersion is the only DataVersion this core accepts, matching
// original_source's REQUIRED_DATA_VERSION constant.
const RequiredDataVersion = 2730

// Data is a fully-decoded schematic: dimensions, the placement offset, and
// a dense block grid in (y, z, x) order, the order WorldEdit's BlockData
// varint stream is written in.
type Data struct {
	Width, Height, Length int
	OffsetX, OffsetY, OffsetZ int32
	Blocks                    []world.Block // len == Width*Height*Length
}

// Bounds satisfies world.SchematicSource.
func (d *Data) Bounds() (width, height, length int) { return d.Width, d.Height, d.Length }

// Offset satisfies world.SchematicSource.
func (d *Data) Offset() (x, y, z int32) { return d.OffsetX, d.OffsetY, d.OffsetZ }

// At returns the block at local coordinates (x, y, z) within the
// schematic's own grid.
func (d *Data) At(x, y, z int) world.Block {
	if x < 0 || y < 0 || z < 0 || x >= d.Width || y >= d.Height || z >= d.Length {
		return world.Air
	}
	return d.Blocks[(y*d.Length+z)*d.Width+x]
}

// Load reads and validates a .schem file at path.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	defer f.Close()

	doc, err := decodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc map[string]value) (*Data, error) {
	version, ok := doc["Version"].(int32)
	if !ok || version != 2 {
		return nil, fmt.Errorf("schematic: unsupported schematic version %v", doc["Version"])
	}
	dataVersion, ok := doc["DataVersion"].(int32)
	if !ok {
		return nil, fmt.Errorf("schematic: missing DataVersion")
	}
	if dataVersion != RequiredDataVersion {
		return nil, fmt.Errorf("schematic: DataVersion %d, want %d", dataVersion, RequiredDataVersion)
	}

	width, err := requireShort(doc, "Width")
	if err != nil {
		return nil, err
	}
	height, err := requireShort(doc, "Height")
	if err != nil {
		return nil, err
	}
	length, err := requireShort(doc, "Length")
	if err != nil {
		return nil, err
	}

	var ox, oy, oz int32
	if off, ok := doc["Offset"].([]int32); ok {
		if len(off) != 3 {
			return nil, fmt.Errorf("schematic: Offset must have 3 coords, got %d", len(off))
		}
		ox, oy, oz = off[0], off[1], off[2]
	}

	paletteRaw, ok := doc["Palette"].(map[string]value)
	if !ok {
		return nil, fmt.Errorf("schematic: missing Palette")
	}
	palette := make(map[int32]world.Block, len(paletteRaw))
	for state, idxVal := range paletteRaw {
		idx, ok := idxVal.(int32)
		if !ok {
			return nil, fmt.Errorf("schematic: Palette entry %q has non-int index", state)
		}
		palette[idx] = blockStateName(state)
	}

	blockData, ok := doc["BlockData"].([]byte)
	if !ok {
		return nil, fmt.Errorf("schematic: missing BlockData")
	}

	count := int(width) * int(height) * int(length)
	blocks := make([]world.Block, count)
	pos := 0
	for i := 0; i < count && pos < len(blockData); i++ {
		idx, n := readVarInt(blockData[pos:])
		if n == 0 {
			return nil, fmt.Errorf("schematic: truncated BlockData at entry %d", i)
		}
		pos += n
		b, ok := palette[idx]
		if !ok {
			b = world.Air
		}
		blocks[i] = b
	}

	return &Data{
		Width: int(width), Height: int(height), Length: int(length),
		OffsetX: ox, OffsetY: oy, OffsetZ: oz,
		Blocks: blocks,
	}, nil
}

func requireShort(doc map[string]value, name string) (int16, error) {
	v, ok := doc[name].(int16)
	if !ok {
		return 0, fmt.Errorf("schematic: missing or malformed %s", name)
	}
	return v, nil
}

// blockStateName strips a WorldEdit palette key's blockstate properties
// ("minecraft:oak_log[axis=y]") down to the bare block name, since this
// core's Block type (pkg/world) carries no per-block property state.
func blockStateName(state string) world.Block {
	if i := strings.IndexByte(state, '['); i >= 0 {
		state = state[:i]
	}
	return world.Block(state)
}

// readVarInt decodes one Minecraft-style base-128 varint from b, returning
// the value and the number of bytes consumed (0 if b is exhausted before a
// terminating byte is found). WorldEdit encodes BlockData with the same
// varint scheme the wire protocol uses.
func readVarInt(b []byte) (int32, int) {
	var result int32
	var n int
	for n < len(b) {
		c := b[n]
		result |= int32(c&0x7F) << (7 * n)
		n++
		if c&0x80 == 0 {
			return result, n
		}
		if n >= 5 {
			return 0, 0
		}
	}
	return 0, 0
}
