package server

import (
	"github.com/google/uuid"

	"github.com/ironclad-mc/mcserver/pkg/world"
)

// Gamemode values, stable across every protocol in protocol.Supported.
const (
	GamemodeSurvival  byte = 0
	GamemodeCreative  byte = 1
	GamemodeAdventure byte = 2
	GamemodeSpectator byte = 3
)

// AbilityFlags mirrors the bitfield PlayerAbilitiesPacket carries (spec §3
// Player "ability_flags").
type AbilityFlags struct {
	Invulnerable bool
	Flying       bool
	AllowFlying  bool
	CreativeMode bool
}

// Player is the Server actor's record of one logged-in client (spec §3
// "Player"). It is only ever read or mutated from the Server goroutine —
// Connection reaches it only by submitting a closure, never by holding a
// pointer across a goroutine boundary itself.
type Player struct {
	Username string
	UUID     uuid.UUID
	EntityID int32

	Gamemode  byte
	Dimension int32
	Abilities AbilityFlags

	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool

	ViewDistance int32
	Protocol     int32

	// Chunk is the column the player is currently considered centered on,
	// used to compute load/unload deltas on movement (spec §4.H
	// player_update_pos_look).
	Chunk    world.ChunkPos
	HasChunk bool

	// Conn is the only way the Server actor reaches back into this
	// player's connection: a submission handle, never a raw pointer (spec
	// §5 "Connection and Server reference each other only through
	// submission channels").
	Conn ConnHandle
}

// ParseGamemode resolves a human-readable gamemode name to its protocol
// byte, matching the CLI flag and config.yaml spelling this core accepts.
func ParseGamemode(name string) (byte, bool) {
	switch name {
	case "survival":
		return GamemodeSurvival, true
	case "creative":
		return GamemodeCreative, true
	case "adventure":
		return GamemodeAdventure, true
	case "spectator":
		return GamemodeSpectator, true
	default:
		return 0, false
	}
}
