// Package netio wraps a raw net.Conn with the optional AES/CFB8 stream
// cipher (component C) and an inbound rate limiter guarding the framing
// layer against floods of tiny packets.
package netio

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// cfb8 implements AES-128 in CFB8 mode: unlike crypto/cipher's CFB (which
// feeds back a full block), Minecraft's handshake encryption feeds back one
// byte at a time. The standard library doesn't expose this mode, so it's
// hand-rolled directly on top of cipher.Block — the same layering
// dmitrymodder-minewire uses (crypto/aes + crypto/cipher) for its own
// connection cipher, just with GCM instead of a raw block feedback loop.
type cfb8 struct {
	block     cipher.Block
	iv        []byte
	encrypt   bool
	blockSize int
}

func newCFB8(key, iv []byte, encrypt bool) (*cfb8, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("netio: bad AES key: %w", err)
	}
	shiftReg := make([]byte, len(iv))
	copy(shiftReg, iv)
	return &cfb8{block: block, iv: shiftReg, encrypt: encrypt, blockSize: block.BlockSize()}, nil
}

// XORKeyStream encrypts or decrypts src into dst in place, one byte at a
// time, per the CFB8 feedback rule.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, c.blockSize)
	for i, b := range src {
		c.block.Encrypt(tmp, c.iv)
		out := tmp[0] ^ b

		// Shift the feedback register left by one byte, inserting the new
		// ciphertext byte (decrypt) or the just-produced ciphertext byte
		// (encrypt) at the end.
		var feedback byte
		if c.encrypt {
			feedback = out
		} else {
			feedback = b
		}
		copy(c.iv, c.iv[1:])
		c.iv[len(c.iv)-1] = feedback

		dst[i] = out
	}
}

// StreamCipher is the pair of independent encrypt/decrypt streams enabled
// once via Enable; disabling is not supported (spec §4.C).
type StreamCipher struct {
	enc *cfb8
	dec *cfb8
}

// Enable keys both directions with the 16-byte shared secret (used as both
// the AES key and the initial CFB8 register, as Minecraft's handshake
// specifies).
func (s *StreamCipher) Enable(secret []byte) error {
	if len(secret) != 16 {
		return fmt.Errorf("netio: shared secret must be 16 bytes, got %d", len(secret))
	}
	enc, err := newCFB8(secret, secret, true)
	if err != nil {
		return err
	}
	dec, err := newCFB8(secret, secret, false)
	if err != nil {
		return err
	}
	s.enc = enc
	s.dec = dec
	return nil
}

// Enabled reports whether Enable has been called.
func (s *StreamCipher) Enabled() bool {
	return s.enc != nil
}

// Encrypt encrypts p in place.
func (s *StreamCipher) Encrypt(p []byte) {
	if s.enc == nil {
		return
	}
	s.enc.XORKeyStream(p, p)
}

// Decrypt decrypts p in place.
func (s *StreamCipher) Decrypt(p []byte) {
	if s.dec == nil {
		return
	}
	s.dec.XORKeyStream(p, p)
}
