// Package dispatch maps the triple (phase, protocol, packet id) to the
// decode/handle pair that the connection actor runs an inbound packet
// through, and the mirror triple (outgoing packet kind, protocol) to the
// packet id a reply is framed with. Minecraft renumbers packet ids release
// to release, so both tables are keyed per protocol rather than assuming a
// single fixed numbering — the same shape the teacher used a flat switch
// for, generalized across protocol eras instead of one.
package dispatch

import (
	"fmt"

	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

// Kind names an outgoing packet type independent of its per-protocol id,
// so callers can build a packet once and ask the egress table "what id is
// this on protocol N" instead of hardcoding a number at every send site.
type Kind int

const (
	KindStatusResponse Kind = iota
	KindStatusPong
	KindLoginDisconnect
	KindLoginSuccess
	KindSetCompression
	KindJoinGame
	KindServerDifficulty
	KindPlayerAbilities
	KindPlayerPositionAndLook
	KindChatMessage
	KindKeepAlive
	KindChunkData
	KindUnloadChunk
	KindUpdateViewPosition
	KindPlayDisconnect
)

// Handler decodes a packet payload and reacts to it. The phase and
// protocol are already known to the caller (they picked this handler out
// of the table); Handler only needs the reader and whatever session state
// it closes over.
type Handler func(r *protocol.Reader) error

type ingressKey struct {
	Phase    protocol.Phase
	Protocol int32 // -1 matches every protocol, checked after an exact match misses
	ID       int32
}

// phaseID identifies an ingress row's (phase, id) pair regardless of which
// protocol(s) it was registered for — the granularity spec §4.E's
// mutual-exclusivity rule is stated at: a given (phase, id) may carry
// either one -1 "every protocol" row or any number of specific-protocol
// rows, never both.
type phaseID struct {
	Phase protocol.Phase
	ID    int32
}

type egressKey struct {
	Kind     Kind
	Protocol int32
}

// Table is a validated, immutable (phase, protocol, id) -> Handler table
// plus its egress mirror. Build one with NewTable and Register/RegisterAll,
// then call Seal once at startup; Seal panics on a duplicate registration
// the way net/http.ServeMux panics on a duplicate route, because a
// dispatch collision is a programmer error, not a runtime condition to
// recover from.
type Table struct {
	ingress map[ingressKey]Handler
	egress  map[egressKey]int32
	sealed  bool

	wildcardIngress map[phaseID]bool // (phase, id) with a -1 "every protocol" row registered
	specificIngress map[phaseID]bool // (phase, id) with at least one specific-protocol row registered
}

func NewTable() *Table {
	return &Table{
		ingress:         make(map[ingressKey]Handler),
		egress:          make(map[egressKey]int32),
		wildcardIngress: make(map[phaseID]bool),
		specificIngress: make(map[phaseID]bool),
	}
}

// Register adds a handler for one protocol, or for every protocol when
// protocol == -1. Spec §4.E requires the -1 arm be mutually exclusive with
// any explicit version listing for the same (phase, id): registering a -1
// row after a specific-protocol row exists for that (phase, id), or vice
// versa, panics at construction time rather than producing an ambiguous
// table.
func (t *Table) Register(phase protocol.Phase, proto int32, id int32, h Handler) {
	if t.sealed {
		panic("dispatch: Register after Seal")
	}
	key := ingressKey{Phase: phase, Protocol: proto, ID: id}
	if _, exists := t.ingress[key]; exists {
		panic(fmt.Sprintf("dispatch: duplicate ingress registration phase=%v protocol=%d id=%d", phase, proto, id))
	}
	pid := phaseID{Phase: phase, ID: id}
	if proto == -1 {
		if t.specificIngress[pid] {
			panic(fmt.Sprintf("dispatch: -1 registration conflicts with an existing specific-protocol registration phase=%v id=%d", phase, id))
		}
		t.wildcardIngress[pid] = true
	} else {
		if t.wildcardIngress[pid] {
			panic(fmt.Sprintf("dispatch: specific-protocol registration conflicts with an existing -1 registration phase=%v id=%d", phase, id))
		}
		t.specificIngress[pid] = true
	}
	t.ingress[key] = h
}

// RegisterEgress records the wire id a Kind takes on one protocol, or on
// every protocol when proto == -1.
func (t *Table) RegisterEgress(kind Kind, proto int32, id int32) {
	if t.sealed {
		panic("dispatch: RegisterEgress after Seal")
	}
	key := egressKey{Kind: kind, Protocol: proto}
	if existing, exists := t.egress[key]; exists && existing != id {
		panic(fmt.Sprintf("dispatch: conflicting egress registration kind=%d protocol=%d", kind, proto))
	}
	t.egress[key] = id
}

// Seal finishes construction. After Seal, Lookup/EgressID are safe for
// concurrent use by every connection goroutine; Register/RegisterEgress
// are not.
func (t *Table) Seal() *Table {
	t.sealed = true
	return t
}

// Lookup resolves a handler for an inbound packet, preferring an exact
// protocol match over a -1 (all-protocols) registration.
func (t *Table) Lookup(phase protocol.Phase, proto int32, id int32) (Handler, bool) {
	if h, ok := t.ingress[ingressKey{Phase: phase, Protocol: proto, ID: id}]; ok {
		return h, true
	}
	h, ok := t.ingress[ingressKey{Phase: phase, Protocol: -1, ID: id}]
	return h, ok
}

// EgressID resolves the wire id a Kind takes on proto, preferring an exact
// protocol match over a -1 registration.
func (t *Table) EgressID(kind Kind, proto int32) (int32, bool) {
	if id, ok := t.egress[egressKey{Kind: kind, Protocol: proto}]; ok {
		return id, true
	}
	id, ok := t.egress[egressKey{Kind: kind, Protocol: -1}]
	return id, ok
}
