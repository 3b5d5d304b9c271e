package netio

import (
	"context"
	"net"

	"golang.org/x/time/rate"
)

// Conn wraps a raw net.Conn with the stream cipher (component C) and an
// inbound byte-rate limiter. It implements net.Conn so it can be handed
// straight to frame.NewReader/NewWriter.
//
// The rate limiter is grounded in nishisan-dev-n-backup/internal/agent/throttle.go's
// ThrottledWriter, adapted here to the read side: it bounds how fast a
// single connection can feed bytes into the framing layer, which is the
// soft defense the spec's single-packet-mode ~4KiB cap gestures at but
// doesn't generalize to steady-state traffic.
type Conn struct {
	net.Conn
	cipher  StreamCipher
	limiter *rate.Limiter
	ctx     context.Context
}

// DefaultInboundRate and DefaultInboundBurst bound a single connection to a
// generous but finite share of bandwidth; legitimate clients never approach
// these, so it is invisible in practice.
const (
	DefaultInboundRate  = 1 << 20 // 1 MiB/s
	DefaultInboundBurst = 1 << 18 // 256 KiB
)

// NewConn wraps conn with the default inbound rate limit.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		Conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(DefaultInboundRate), DefaultInboundBurst),
		ctx:     context.Background(),
	}
}

// EnableEncryption turns on AES/CFB8 for both directions.
func (c *Conn) EnableEncryption(secret []byte) error {
	return c.cipher.Enable(secret)
}

// Read reads from the underlying connection, throttling and decrypting in
// place.
func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		if werr := c.limiter.WaitN(c.ctx, n); werr != nil {
			return n, werr
		}
		c.cipher.Decrypt(p[:n])
	}
	return n, err
}

// Write encrypts p in place (a private copy) and writes it to the
// underlying connection.
func (c *Conn) Write(p []byte) (int, error) {
	if !c.cipher.Enabled() {
		return c.Conn.Write(p)
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	c.cipher.Encrypt(buf)
	return c.Conn.Write(buf)
}

// ReadByte satisfies io.ByteReader so the varint decoder and frame.Reader
// can pull single bytes off the wire without an extra adapter allocation.
func (c *Conn) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := c.Read(buf[:])
	return buf[0], err
}
