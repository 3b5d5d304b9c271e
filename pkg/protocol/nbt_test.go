package protocol

import "testing"

func TestNBTWriterCompoundRoundTrip(t *testing.T) {
	w := NewNBTWriter()
	w.RootCompound("root")
	w.Int("x", 5)
	w.EndCompound()

	want := []byte{
		nbtCompound, 0x00, 0x04, 'r', 'o', 'o', 't',
		nbtInt, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x05,
		nbtEnd,
	}
	got := w.Bytes()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (% x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x (% x)", i, got[i], want[i], got)
		}
	}
}

func TestNBTWriterNestedCompoundAndList(t *testing.T) {
	w := NewNBTWriter()
	w.RootCompound("")
	w.Compound("inner")
	w.List("nums", nbtInt, 2)
	w.buf = append(w.buf, 0x00, 0x00, 0x00, 0x01)
	w.buf = append(w.buf, 0x00, 0x00, 0x00, 0x02)
	w.EndCompound() // closes "inner"
	w.EndCompound() // closes root

	got := w.Bytes()
	want := []byte{
		nbtCompound, 0x00, 0x00, // root, unnamed
		nbtCompound, 0x00, 0x05, 'i', 'n', 'n', 'e', 'r',
		nbtList, 0x00, 0x04, 'n', 'u', 'm', 's', nbtInt, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x02,
		nbtEnd,
		nbtEnd,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (% x vs % x)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestNBTWriterLongArrayAndFloatAndString(t *testing.T) {
	w := NewNBTWriter()
	w.RootCompound("")
	w.LongArray("ha", []int64{1, -1})
	w.String("s", "ab")
	w.Byte("b", 7)
	w.EndCompound()

	r := w.Bytes()
	// root header
	off := 0
	expect := func(b byte) {
		t.Helper()
		if r[off] != b {
			t.Fatalf("at %d: got %#x, want %#x (full: % x)", off, r[off], b, r)
		}
		off++
	}
	expect(nbtCompound)
	expect(0x00)
	expect(0x00)
	expect(nbtLongArray)
	expect(0x00)
	expect(0x02)
	expect('h')
	expect('a')
	// count = 2
	expect(0x00)
	expect(0x00)
	expect(0x00)
	expect(0x02)
	// first long = 1
	for _, b := range []byte{0, 0, 0, 0, 0, 0, 0, 1} {
		expect(b)
	}
	// second long = -1 (all bits set)
	for i := 0; i < 8; i++ {
		expect(0xFF)
	}
	expect(nbtString)
	expect(0x00)
	expect(0x01)
	expect('s')
	expect(0x00)
	expect(0x02)
	expect('a')
	expect('b')
	expect(nbtByte)
	expect(0x00)
	expect(0x01)
	expect('b')
	expect(7)
	expect(nbtEnd)
	if off != len(r) {
		t.Fatalf("consumed %d bytes, buffer has %d", off, len(r))
	}
}
