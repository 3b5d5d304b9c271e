package world

import "testing"

func TestSetBlockGetBlockRoundTrip(t *testing.T) {
	w := NewWorld()
	if got := w.GetBlock(5, 64, -3); got != Air {
		t.Fatalf("untouched world GetBlock = %q, want air", got)
	}

	stone := Block("minecraft:stone")
	w.SetBlock(5, 64, -3, stone)
	if got := w.GetBlock(5, 64, -3); got != stone {
		t.Fatalf("GetBlock after SetBlock = %q, want %q", got, stone)
	}
}

func TestGetBlockOutOfHeightRangeIsAir(t *testing.T) {
	w := NewWorld()
	w.SetBlock(0, -1, 0, Block("minecraft:stone"))
	if got := w.GetBlock(0, -1, 0); got != Air {
		t.Fatalf("SetBlock below y=0 should be a no-op, GetBlock = %q", got)
	}
	if got := w.GetBlock(0, 300, 0); got != Air {
		t.Fatalf("GetBlock above the chunk height should read air, got %q", got)
	}
}

func TestExistingChunkAtDistinguishesUntouchedColumns(t *testing.T) {
	w := NewWorld()
	if _, ok := w.ExistingChunkAt(ChunkPos{X: 1, Z: 1}); ok {
		t.Fatal("a column that was never written should not be materialized")
	}
	w.SetBlock(16, 0, 16, Block("minecraft:stone")) // chunk (1,1)
	if _, ok := w.ExistingChunkAt(ChunkPos{X: 1, Z: 1}); !ok {
		t.Fatal("writing a block should materialize its chunk")
	}
}

func TestChunksInSquareSize(t *testing.T) {
	got := ChunksInSquare(ChunkPos{}, 2)
	want := (2*2 + 1) * (2*2 + 1)
	if len(got) != want {
		t.Fatalf("len = %d, want %d", len(got), want)
	}
}

func TestSquareDeltaInitialJoinLoadsEverything(t *testing.T) {
	load, unload := SquareDelta(ChunkPos{}, ChunkPos{X: 10, Z: 10}, 3, false)
	if len(unload) != 0 {
		t.Fatalf("initial join should never unload, got %d entries", len(unload))
	}
	want := (2*3 + 1) * (2*3 + 1)
	if len(load) != want {
		t.Fatalf("load = %d, want %d", len(load), want)
	}
}

func TestSquareDeltaMovementIsIncremental(t *testing.T) {
	from := ChunkPos{X: 0, Z: 0}
	to := ChunkPos{X: 1, Z: 0}
	load, unload := SquareDelta(from, to, 2, true)

	fromSet := map[ChunkPos]bool{}
	for _, cp := range ChunksInSquare(from, 2) {
		fromSet[cp] = true
	}
	toSet := map[ChunkPos]bool{}
	for _, cp := range ChunksInSquare(to, 2) {
		toSet[cp] = true
	}

	for _, cp := range load {
		if fromSet[cp] {
			t.Errorf("loaded chunk %v was already visible before the move", cp)
		}
		if !toSet[cp] {
			t.Errorf("loaded chunk %v isn't in the new square", cp)
		}
	}
	for _, cp := range unload {
		if toSet[cp] {
			t.Errorf("unloaded chunk %v is still visible after the move", cp)
		}
		if !fromSet[cp] {
			t.Errorf("unloaded chunk %v wasn't visible before the move", cp)
		}
	}
	if len(load) != len(unload) {
		t.Errorf("a one-chunk lateral move should load and unload the same count, got load=%d unload=%d", len(load), len(unload))
	}
}

type fakeSchematic struct {
	w, h, l    int
	ox, oy, oz int32
	blocks     map[[3]int]Block
}

func (f *fakeSchematic) Bounds() (int, int, int)  { return f.w, f.h, f.l }
func (f *fakeSchematic) Offset() (int32, int32, int32) { return f.ox, f.oy, f.oz }
func (f *fakeSchematic) At(x, y, z int) Block {
	if b, ok := f.blocks[[3]int{x, y, z}]; ok {
		return b
	}
	return Air
}

func TestLoadSchematicPlacesOffsetBlocks(t *testing.T) {
	src := &fakeSchematic{
		w: 2, h: 1, l: 2,
		ox: 100, oy: 5, oz: -50,
		blocks: map[[3]int]Block{
			{0, 0, 0}: Block("minecraft:stone"),
			{1, 0, 1}: Block("minecraft:dirt"),
		},
	}
	w := NewWorld()
	w.LoadSchematic(src)

	if got := w.GetBlock(100, 5, -50); got != Block("minecraft:stone") {
		t.Errorf("GetBlock(100,5,-50) = %q, want stone", got)
	}
	if got := w.GetBlock(101, 5, -49); got != Block("minecraft:dirt") {
		t.Errorf("GetBlock(101,5,-49) = %q, want dirt", got)
	}
	if got := w.GetBlock(100, 5, -49); got != Air {
		t.Errorf("untouched schematic cell should stay air, got %q", got)
	}
}
