// Package varint implements the Minecraft Java protocol's base-128
// variable-length integer encoding for 32- and 64-bit values.
package varint

import (
	"errors"
	"io"
)

// ErrTooLong is returned when a varint exceeds its maximum byte width.
var ErrTooLong = errors.New("varint: value too long")

// MaxVarIntLen and MaxVarLongLen bound the wire width of a VarInt/VarLong.
const (
	MaxVarIntLen  = 5
	MaxVarLongLen = 10
)

// ReadInt32 reads a VarInt from r, returning the value and the number of
// bytes consumed.
func ReadInt32(r io.ByteReader) (int32, int, error) {
	var result int32
	var n int
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, err
		}
		result |= int32(b&0x7F) << (7 * n)
		n++
		if n > MaxVarIntLen {
			return 0, n, ErrTooLong
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, n, nil
}

// ReadInt64 reads a VarLong from r.
func ReadInt64(r io.ByteReader) (int64, int, error) {
	var result int64
	var n int
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, err
		}
		result |= int64(b&0x7F) << (7 * n)
		n++
		if n > MaxVarLongLen {
			return 0, n, ErrTooLong
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, n, nil
}

// PutInt32 encodes value into buf (which must have room for at least
// MaxVarIntLen bytes) and returns the number of bytes written.
func PutInt32(buf []byte, value int32) int {
	uval := uint32(value)
	n := 0
	for {
		if uval&^uint32(0x7F) == 0 {
			buf[n] = byte(uval)
			return n + 1
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// PutInt64 encodes value into buf (room for MaxVarLongLen bytes) and returns
// the number of bytes written.
func PutInt64(buf []byte, value int64) int {
	uval := uint64(value)
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			return n + 1
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// WriteInt32 writes value to w as a VarInt.
func WriteInt32(w io.Writer, value int32) (int, error) {
	var buf [MaxVarIntLen]byte
	n := PutInt32(buf[:], value)
	return w.Write(buf[:n])
}

// WriteInt64 writes value to w as a VarLong.
func WriteInt64(w io.Writer, value int64) (int, error) {
	var buf [MaxVarLongLen]byte
	n := PutInt64(buf[:], value)
	return w.Write(buf[:n])
}

// SizeInt32 returns the number of bytes needed to encode value as a VarInt.
func SizeInt32(value int32) int {
	uval := uint32(value)
	size := 1
	for uval&^uint32(0x7F) != 0 {
		uval >>= 7
		size++
	}
	return size
}

// SizeInt64 returns the number of bytes needed to encode value as a VarLong.
func SizeInt64(value int64) int {
	uval := uint64(value)
	size := 1
	for uval&^uint64(0x7F) != 0 {
		uval >>= 7
		size++
	}
	return size
}

// PutInt32Padded encodes value into exactly width bytes, padding with
// continuation bits so the encoding can be backfilled into a
// previously-reserved fixed-width slot without shifting the bytes after it.
func PutInt32Padded(buf []byte, value int32, width int) {
	uval := uint32(value)
	for i := 0; i < width; i++ {
		if i == width-1 {
			buf[i] = byte(uval & 0x7F)
			continue
		}
		buf[i] = byte(uval&0x7F) | 0x80
		uval >>= 7
	}
}
