package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ironclad-mc/mcserver/pkg/varint"
)

// ErrStringTooLong is a malformed-input error (spec §7): the string
// exceeded either the byte-length or scalar-count bound for its field.
var ErrStringTooLong = fmt.Errorf("protocol: string exceeds max length")

// Reader is a byte-oriented cursor over a decoded packet payload.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) VarInt() (int32, error) {
	v, n, err := varint.ReadInt32(r)
	if err != nil {
		return 0, err
	}
	_ = n
	return v, nil
}

func (r *Reader) VarLong() (int64, error) {
	v, _, err := varint.ReadInt64(r)
	return v, err
}

func (r *Reader) Bool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

func (r *Reader) Int8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) Int64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) Float32() (float32, error) {
	v, err := r.Int32()
	return math.Float32frombits(uint32(v)), err
}

func (r *Reader) Float64() (float64, error) {
	v, err := r.Int64()
	return math.Float64frombits(uint64(v)), err
}

// String reads a varint-length-prefixed UTF-8 string, enforcing the
// byte-length and scalar-count bounds described in spec §4.D.
func (r *Reader) String(maxScalars int) (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > maxScalars*4 {
		return "", ErrStringTooLong
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if utf8.RuneCount(b) > maxScalars {
		return "", ErrStringTooLong
	}
	return string(b), nil
}

func (r *Reader) UUID() (uuid.UUID, error) {
	b, err := r.take(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// Position reads a packed-int64 block position (spec §4.D "bytes").
func (r *Reader) Position() (x, y, z int32, err error) {
	v, err := r.Int64()
	if err != nil {
		return 0, 0, 0, err
	}
	x = int32(v >> 38)
	y = int32((v >> 26) & 0xFFF)
	z = int32(v << 38 >> 38)
	return x, y, z, nil
}

// Rest returns the remainder of the frame — the "rest of frame" bytes
// contract from spec §4.D.
func (r *Reader) Rest() []byte {
	b := r.buf[r.pos:]
	r.pos = len(r.buf)
	return b
}

// Writer builds a packet payload. Apart from String's length check it never
// errors — callers rely on each packet's Size() contract matching the bytes
// actually appended.
type Writer struct {
	buf []byte
}

func NewWriter(sizeHint int) *Writer { return &Writer{buf: make([]byte, 0, sizeHint)} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) VarInt(v int32) {
	var b [varint.MaxVarIntLen]byte
	n := varint.PutInt32(b[:], v)
	w.buf = append(w.buf, b[:n]...)
}

func (w *Writer) VarLong(v int64) {
	var b [varint.MaxVarLongLen]byte
	n := varint.PutInt64(b[:], v)
	w.buf = append(w.buf, b[:n]...)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func (w *Writer) Int8(v int8) { w.WriteByte(byte(v)) }

func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Float32(v float32) { w.Int32(int32(math.Float32bits(v))) }
func (w *Writer) Float64(v float64) { w.Int64(int64(math.Float64bits(v))) }

// String writes a varint-length-prefixed UTF-8 string, enforcing the same
// bound as Reader.String on the way out (spec §4.D "symmetric check on write").
func (w *Writer) String(s string, maxScalars int) error {
	if len(s) > maxScalars*4 || utf8.RuneCountInString(s) > maxScalars {
		return ErrStringTooLong
	}
	w.VarInt(int32(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *Writer) UUID(u uuid.UUID) { w.buf = append(w.buf, u[:]...) }

func (w *Writer) Bytes_(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) Position(x, y, z int32) {
	v := (int64(x&0x3FFFFFF) << 38) | (int64(y&0xFFF) << 26) | int64(z&0x3FFFFFF)
	w.Int64(v)
}

// SizeVarInt mirrors varint.SizeInt32 for Size() implementations.
func SizeVarInt(v int32) int { return varint.SizeInt32(v) }

// SizeString returns the wire size of a length-prefixed string.
func SizeString(s string) int { return SizeVarInt(int32(len(s))) + len(s) }
