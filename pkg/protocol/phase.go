// Package protocol defines the packet value model (component D): field
// primitives with size/write/read contracts, and the concrete packet types
// recognized in each connection phase.
package protocol

import "github.com/google/uuid"

// Phase is one of the five connection states from spec §3.
type Phase int

const (
	Handshake Phase = iota
	Status
	Login
	Play
	Disconnected
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "Handshake"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// UnknownProtocol is the sentinel protocol value before a handshake arrives.
const UnknownProtocol int32 = -1

// NetworkState is the per-connection state tracked outside of the socket
// itself (spec §3 "NetworkState").
type NetworkState struct {
	Phase         Phase
	Protocol      int32
	PlayerUUID    uuid.UUID
	HasPlayerUUID bool
	LastKeepAlive uint64
}

// NewNetworkState returns the initial state of a freshly-accepted connection.
func NewNetworkState() *NetworkState {
	return &NetworkState{Phase: Handshake, Protocol: UnknownProtocol}
}
