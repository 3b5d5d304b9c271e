package dispatch

import (
	"testing"

	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

func noop(r *protocol.Reader) error { return nil }

func allHandlers() PlayHandlers {
	return PlayHandlers{
		Handshake:             noop,
		StatusRequest:         noop,
		StatusPing:            noop,
		LoginStart:            noop,
		KeepAlive:             noop,
		ChatMessage:           noop,
		PlayerPosition:        noop,
		PlayerLook:            noop,
		PlayerPositionAndLook: noop,
		ClientSettings:        noop,
		PlayerAbilities:       noop,
	}
}

func buildTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable()
	RegisterWireIDs(table)
	RegisterIngress(table, allHandlers())
	return table.Seal()
}

func TestSealDoesNotPanicOnFullRegistration(t *testing.T) {
	buildTable(t)
}

func TestLookupResolvesWildcardIngressIDs(t *testing.T) {
	table := buildTable(t)
	if _, ok := table.Lookup(protocol.Handshake, 47, 0x00); !ok {
		t.Error("handshake id 0x00 should resolve on every protocol via the -1 wildcard")
	}
	if _, ok := table.Lookup(protocol.Handshake, 736, 0x00); !ok {
		t.Error("handshake id 0x00 should resolve on 1.16.1 too")
	}
	if _, ok := table.Lookup(protocol.Status, 340, 0x00); !ok {
		t.Error("status request should resolve via the -1 wildcard")
	}
}

func TestEgressIDPerEra(t *testing.T) {
	table := buildTable(t)

	cases := []struct {
		proto  int32
		wantID int32
	}{
		{47, 0x21},  // 1.8.9 chunk data
		{340, 0x20}, // 1.12.2 chunk data
		{477, 0x22}, // 1.14 chunk data
		{573, 0x22}, // 1.15.2 chunk data
		{736, 0x22}, // 1.16.1 chunk data
	}
	for _, c := range cases {
		id, ok := table.EgressID(KindChunkData, c.proto)
		if !ok {
			t.Errorf("proto %d: KindChunkData not registered", c.proto)
			continue
		}
		if id != c.wantID {
			t.Errorf("proto %d: KindChunkData id = 0x%02X, want 0x%02X", c.proto, id, c.wantID)
		}
	}
}

func TestEgressIDUnavailableBeforeIntroduced(t *testing.T) {
	table := buildTable(t)
	if _, ok := table.EgressID(KindUnloadChunk, 47); ok {
		t.Error("UnloadChunk should not exist on 1.8.9 (pre-1.14)")
	}
	if _, ok := table.EgressID(KindUnloadChunk, 477); !ok {
		t.Error("UnloadChunk should exist from 1.14 on")
	}
}

func TestEgressIDWildcardAppliesToEveryProtocol(t *testing.T) {
	table := buildTable(t)
	for _, proto := range protocol.Supported {
		id, ok := table.EgressID(KindLoginSuccess, proto)
		if !ok || id != idLoginSuccess {
			t.Errorf("proto %d: LoginSuccess = (%d, %v), want (%d, true)", proto, id, ok, idLoginSuccess)
		}
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on a duplicate (phase, protocol, id)")
		}
	}()
	table := NewTable()
	table.Register(protocol.Handshake, -1, 0x00, noop)
	table.Register(protocol.Handshake, -1, 0x00, noop)
}

func TestRegisterPanicsOnWildcardAfterSpecific(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic when a -1 row follows a specific-protocol row for the same (phase, id)")
		}
	}()
	table := NewTable()
	table.Register(protocol.Play, 47, 0x00, noop)
	table.Register(protocol.Play, -1, 0x00, noop)
}

func TestRegisterPanicsOnSpecificAfterWildcard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic when a specific-protocol row follows a -1 row for the same (phase, id)")
		}
	}()
	table := NewTable()
	table.Register(protocol.Play, -1, 0x00, noop)
	table.Register(protocol.Play, 47, 0x00, noop)
}

func TestRegisterAfterSealPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic after Seal")
		}
	}()
	table := NewTable().Seal()
	table.Register(protocol.Handshake, -1, 0x00, noop)
}
