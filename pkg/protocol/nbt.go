package protocol

import (
	"encoding/binary"
	"math"
)

// NBT tag ids, per the well-known Minecraft binary NBT format (spec §4.D
// "nbt" field tag). No NBT library exists anywhere in the retrieval pack
// (original_source uses Rust's serde-based fastnbt, which has no Go
// equivalent here to imitate), so this is a direct, minimal encoder —
// exactly the tags the chunk heightmap and dimension codec need.
const (
	nbtEnd byte = iota
	nbtByte
	nbtShort
	nbtInt
	nbtLong
	nbtFloat
	nbtDouble
	nbtByteArray
	nbtString
	nbtList
	nbtCompound
	nbtIntArray
	nbtLongArray
)

// NBTWriter appends tags to an in-progress compound, in network-order NBT
// binary form (big-endian, length-prefixed names and arrays).
type NBTWriter struct {
	buf []byte
}

func NewNBTWriter() *NBTWriter { return &NBTWriter{} }

func (w *NBTWriter) Bytes() []byte { return w.buf }

func (w *NBTWriter) putU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *NBTWriter) putI32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *NBTWriter) putI64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *NBTWriter) name(n string) {
	w.putU16(uint16(len(n)))
	w.buf = append(w.buf, n...)
}

// RootCompound starts a named top-level compound tag (the usual NBT root).
func (w *NBTWriter) RootCompound(name string) {
	w.buf = append(w.buf, nbtCompound)
	w.name(name)
}

// Compound opens a nested compound tag; pair with EndCompound. Used to
// build the dimension codec's registry-of-registries shape.
func (w *NBTWriter) Compound(name string) {
	w.buf = append(w.buf, nbtCompound)
	w.name(name)
}

// List opens a named list tag of count entries, each of elemType. Callers
// write exactly count values of elemType immediately after, with no
// per-entry name (NBT list entries are anonymous).
func (w *NBTWriter) List(name string, elemType byte, count int) {
	w.buf = append(w.buf, nbtList)
	w.name(name)
	w.buf = append(w.buf, elemType)
	w.putI32(int32(count))
}

func (w *NBTWriter) Long(name string, v int64) {
	w.buf = append(w.buf, nbtLong)
	w.name(name)
	w.putI64(v)
}

func (w *NBTWriter) Float(name string, v float32) {
	w.buf = append(w.buf, nbtFloat)
	w.name(name)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *NBTWriter) Int(name string, v int32) {
	w.buf = append(w.buf, nbtInt)
	w.name(name)
	w.putI32(v)
}

func (w *NBTWriter) String(name, v string) {
	w.buf = append(w.buf, nbtString)
	w.name(name)
	w.putU16(uint16(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *NBTWriter) Byte(name string, v byte) {
	w.buf = append(w.buf, nbtByte)
	w.name(name)
	w.buf = append(w.buf, v)
}

// LongArray writes a named array-of-i64 tag — used for the chunk heightmap
// ("MOTION_BLOCKING") per spec §4.F step 4.
func (w *NBTWriter) LongArray(name string, values []int64) {
	w.buf = append(w.buf, nbtLongArray)
	w.name(name)
	w.putI32(int32(len(values)))
	for _, v := range values {
		w.putI64(v)
	}
}

// EndCompound closes the most recently opened compound.
func (w *NBTWriter) EndCompound() {
	w.buf = append(w.buf, nbtEnd)
}
