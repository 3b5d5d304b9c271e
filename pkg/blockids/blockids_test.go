package blockids

import (
	"testing"

	"github.com/ironclad-mc/mcserver/pkg/world"
)

func TestDefaultCatalogCoversEveryRegisteredProtocol(t *testing.T) {
	cat := DefaultCatalog([]int32{47, 477})

	for _, proto := range []int32{47, 477} {
		fn, ok := cat.For(proto)
		if !ok {
			t.Fatalf("protocol %d should have a registered BlockIDFunc", proto)
		}
		id, ok := fn(world.Block("minecraft:stone"))
		if !ok {
			t.Fatalf("protocol %d: minecraft:stone should resolve", proto)
		}
		if id != 2 {
			t.Errorf("protocol %d: stone id = %d, want 2 (index in the fixed vocabulary)", proto, id)
		}
	}
}

func TestDefaultCatalogUnknownBlockMisses(t *testing.T) {
	cat := DefaultCatalog([]int32{47})
	fn, _ := cat.For(47)
	if _, ok := fn(world.Block("minecraft:nonexistent")); ok {
		t.Error("a block outside the fixed vocabulary should not resolve")
	}
}

func TestDefaultCatalogDoesNotRegisterOtherProtocols(t *testing.T) {
	cat := DefaultCatalog([]int32{47})
	if _, ok := cat.For(340); ok {
		t.Error("a protocol not passed to DefaultCatalog should not be registered")
	}
}
