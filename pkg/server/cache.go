package server

import (
	"sync"

	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

// chunkCache memoizes encoded ChunkData packet bytes per (chunk_x, chunk_z,
// protocol), spec §6 "packet-cache surface": the same column is likely to
// be sent to several players on the same protocol, and re-running the
// serializer (component F) every time is wasted work. The critical section
// is strictly compute-or-return, as spec §5's "Shared-resource policy"
// requires.
type chunkCache struct {
	mu      sync.Mutex
	entries map[cacheKey][]byte
}

type cacheKey struct {
	x, z, proto int32
}

func newChunkCache() *chunkCache {
	return &chunkCache{entries: make(map[cacheKey][]byte)}
}

// getOrEncode returns the cached bytes for (x, z, proto), computing and
// storing them via compute on a miss.
func (c *chunkCache) getOrEncode(x, z, proto int32, compute func() []byte) []byte {
	key := cacheKey{x: x, z: z, proto: proto}
	c.mu.Lock()
	if b, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return b
	}
	c.mu.Unlock()

	b := compute()

	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()
	return b
}

// invalidate drops every cached protocol's encoding of (x, z) — the
// invalidation hook spec §6 requires for future world-mutation support.
// Server.InvalidateChunk is its only caller; World.SetBlock does not
// invalidate the cache.
func (c *chunkCache) invalidate(x, z int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.x == x && key.z == z {
			delete(c.entries, key)
		}
	}
}

// rawEncodable adapts pre-encoded packet bytes (as chunkCache stores them)
// to the encodable interface Connection.send expects, so cached chunk
// payloads flow through the same egress path as any freshly-built packet.
type rawEncodable []byte

func (r rawEncodable) Size() int { return len(r) }

func (r rawEncodable) Encode(w *protocol.Writer) error {
	w.Bytes_(r)
	return nil
}
