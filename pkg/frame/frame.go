// Package frame implements the Minecraft Java protocol's length-prefixed
// packet framing, including the optional zlib compression envelope
// (component B of the protocol core).
//
// Connections in this server are one goroutine per socket doing blocking
// reads (the idiomatic Go mapping of the spec's "cooperative per-connection
// task" — see pkg/server), so Reader.ReadPacket blocks until a full frame
// is available instead of returning Ok(None); the effect at the protocol
// level is identical.
package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/ironclad-mc/mcserver/pkg/varint"
)

// MaxPacketLen is the largest outer frame length a 3-byte VarInt can encode
// without being treated as a protocol error (2^21 - 1).
const MaxPacketLen = 1<<21 - 1

// NoCompression disables the compression envelope entirely.
const NoCompression int32 = -1

var (
	// ErrFrameTooLarge is a wire-integrity error: the outer length exceeded MaxPacketLen.
	ErrFrameTooLarge = errors.New("frame: packet length exceeds 2MiB limit")
	// ErrBadDataLen is a wire-integrity error: data_len is inconsistent with the frame.
	ErrBadDataLen = errors.New("frame: invalid data_len in compressed frame")
)

// Reader deframes a byte stream into whole packet payloads. It owns no
// socket state beyond an io.Reader capable of ByteReader semantics.
type Reader struct {
	br          io.Reader
	byter       io.ByteReader
	threshold   int32 // NoCompression when compression is off
	zr          io.ReadCloser
	zrSupported bool
}

type byteReaderAdapter struct {
	io.Reader
	buf [1]byte
}

func (b *byteReaderAdapter) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.Reader, b.buf[:])
	return b.buf[0], err
}

// NewReader wraps r for frame-at-a-time reads.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{br: r, threshold: NoCompression}
	if byter, ok := r.(io.ByteReader); ok {
		rd.byter = byter
	} else {
		rd.byter = &byteReaderAdapter{Reader: r}
	}
	return rd
}

// SetCompression enables (threshold >= 0) or disables (NoCompression) the
// compression envelope for subsequently-read frames.
func (r *Reader) SetCompression(threshold int32) {
	r.threshold = threshold
}

// ReadPacket reads one complete frame and returns its payload — the bytes
// starting with the packet id VarInt. It blocks until a full frame has
// arrived or the underlying reader errs.
func (r *Reader) ReadPacket() ([]byte, error) {
	length, _, err := varint.ReadInt32(r.byter)
	if err != nil {
		return nil, err
	}
	if length < 0 || length > MaxPacketLen {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return nil, err
	}
	if r.threshold < 0 {
		return body, nil
	}
	return r.decompress(body)
}

func (r *Reader) decompress(body []byte) ([]byte, error) {
	br := bytes.NewReader(body)
	dataLen, n, err := varint.ReadInt32(br)
	if err != nil {
		return nil, err
	}
	rest := body[n:]
	if dataLen == 0 {
		if r.threshold > 0 && int32(len(rest)) >= r.threshold {
			return nil, fmt.Errorf("%w: uncompressed body of %d bytes at threshold %d", ErrBadDataLen, len(rest), r.threshold)
		}
		return rest, nil
	}
	if dataLen < 0 {
		return nil, ErrBadDataLen
	}

	restReader := bytes.NewReader(rest)
	if r.zr == nil {
		zr, err := zlib.NewReader(restReader)
		if err != nil {
			return nil, fmt.Errorf("frame: bad zlib stream: %w", err)
		}
		r.zr = zr
	} else if resetter, ok := r.zr.(zlib.Resetter); ok {
		if err := resetter.Reset(restReader, nil); err != nil {
			return nil, fmt.Errorf("frame: bad zlib stream: %w", err)
		}
	}

	out := make([]byte, dataLen)
	if _, err := io.ReadFull(r.zr, out); err != nil {
		return nil, fmt.Errorf("frame: zlib inflate short: %w", err)
	}
	return out, nil
}

// Writer frames outgoing packets, applying the compression envelope once
// enabled.
type Writer struct {
	bw        io.Writer
	threshold int32
	zw        *zlib.Writer
}

// NewWriter wraps w for frame-at-a-time writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: w, threshold: NoCompression}
}

// SetCompression enables (threshold >= 0) or disables (NoCompression) the
// compression envelope for subsequently-written frames.
func (w *Writer) SetCompression(threshold int32) {
	w.threshold = threshold
}

// WritePacket frames and writes one packet: id followed by payload.
//
// The reserved-width backfill trick described in the spec (reserve 3/6
// bytes up front, backfill after the body is known) is an internal
// streaming optimization; building the frame in memory first and writing it
// in one Write call emits minimal-width varint prefixes instead of padded
// ones (varint.PutInt32Padded), so the bytes differ but the frame decodes to
// the same packet. This is what the teacher's MarshalPacket/WritePacket pair
// already does.
func (w *Writer) WritePacket(id int32, payload []byte) error {
	var idBuf [varint.MaxVarIntLen]byte
	idN := varint.PutInt32(idBuf[:], id)

	bodyLen := idN + len(payload)
	if w.threshold < 0 {
		return w.writeUncompressed(idBuf[:idN], payload, bodyLen)
	}
	return w.writeCompressed(idBuf[:idN], payload, bodyLen)
}

func (w *Writer) writeUncompressed(idBytes, payload []byte, bodyLen int) error {
	var lenBuf [varint.MaxVarIntLen]byte
	lenN := varint.PutInt32(lenBuf[:], int32(bodyLen))

	buf := make([]byte, 0, lenN+bodyLen)
	buf = append(buf, lenBuf[:lenN]...)
	buf = append(buf, idBytes...)
	buf = append(buf, payload...)
	_, err := w.bw.Write(buf)
	return err
}

func (w *Writer) writeCompressed(idBytes, payload []byte, bodyLen int) error {
	if int32(bodyLen) < w.threshold {
		// Below threshold: data_len = 0, body carried raw.
		var dataLenBuf [varint.MaxVarIntLen]byte
		dataLenN := varint.PutInt32(dataLenBuf[:], 0)
		inner := dataLenN + bodyLen

		var outerBuf [varint.MaxVarIntLen]byte
		outerN := varint.PutInt32(outerBuf[:], int32(inner))

		buf := make([]byte, 0, outerN+inner)
		buf = append(buf, outerBuf[:outerN]...)
		buf = append(buf, dataLenBuf[:dataLenN]...)
		buf = append(buf, idBytes...)
		buf = append(buf, payload...)
		_, err := w.bw.Write(buf)
		return err
	}

	var raw bytes.Buffer
	raw.Write(idBytes)
	raw.Write(payload)

	var compressed bytes.Buffer
	if w.zw == nil {
		w.zw = zlib.NewWriter(&compressed)
	} else {
		w.zw.Reset(&compressed)
	}
	if _, err := w.zw.Write(raw.Bytes()); err != nil {
		return err
	}
	if err := w.zw.Close(); err != nil {
		return err
	}

	var dataLenBuf [varint.MaxVarIntLen]byte
	dataLenN := varint.PutInt32(dataLenBuf[:], int32(bodyLen))
	inner := dataLenN + compressed.Len()

	var outerBuf [varint.MaxVarIntLen]byte
	outerN := varint.PutInt32(outerBuf[:], int32(inner))

	buf := make([]byte, 0, outerN+inner)
	buf = append(buf, outerBuf[:outerN]...)
	buf = append(buf, dataLenBuf[:dataLenN]...)
	buf = append(buf, compressed.Bytes()...)
	_, err := w.bw.Write(buf)
	return err
}
