package protocol

import "fmt"

// Supported is the set of protocol revisions this core dispatches for —
// a representative subset of the spec §6 list spanning 1.8.9 through
// 1.16.1, chosen to exercise every era-dependent branch named in the spec
// (raw vs. dimension-codec JoinGame, VarInt vs. Long KeepAlive, chunk
// bit-packing that crosses long boundaries vs. one that doesn't, and the
// arrival of UpdateViewPosition/UnloadChunk in 1.14). Implementers may
// target a subset per spec §6; ingress and egress stay in parity for all of
// them.
var Supported = []int32{47, 340, 477, 498, 573, 736}

func IsSupported(protocol int32) bool {
	for _, p := range Supported {
		if p == protocol {
			return true
		}
	}
	return false
}

// Era boundaries, named after the first protocol id in Supported that
// crosses them.
const (
	v1_12_2 int32 = 340 // KeepAlive/PlayerDigging switch VarInt -> Long/position
	v1_14   int32 = 477 // dimension codec, UpdateViewPosition, UnloadChunk, heightmaps
	v1_15   int32 = 573 // biome array grows to 1024 entries, MAX_BITS 14->15 not yet
	v1_16   int32 = 736 // bit-packed arrays stop crossing long boundaries, MAX_BITS 14->15
)

func KeepAliveIsLong(protocol int32) bool { return protocol >= v1_12_2 }

func HasDimensionCodec(protocol int32) bool { return protocol >= v1_14 }

func HasViewDistanceMechanics(protocol int32) bool { return protocol >= v1_14 }

func HasDedicatedUnloadChunk(protocol int32) bool { return protocol >= v1_14 }

func HasHeightmap(protocol int32) bool { return protocol >= v1_14 }

func BiomeEntryCount(protocol int32) int {
	if protocol >= v1_15 {
		return 1024
	}
	return 256
}

// BitPackingCrossesLongs reports whether packed block-array entries are
// allowed to straddle a long boundary (spec §4.F step 3): true through the
// 1.15 era, false from 1.16 on.
func BitPackingCrossesLongs(protocol int32) bool { return protocol < v1_16 }

// MaxBitsPerEntry is the clamp ceiling for a section's bits-per-entry
// (spec §4.F step 1), which grew as the global palette grew.
func MaxBitsPerEntry(protocol int32) int {
	switch {
	case protocol >= v1_16:
		return 15
	case protocol >= v1_14:
		return 14
	default:
		return 13
	}
}

// versionNames labels each entry of Supported for the status response's
// version.name field (spec §6). Unknown protocols fall back to a numeric
// label rather than failing the status handler.
var versionNames = map[int32]string{
	47:  "1.8.9",
	340: "1.12.2",
	477: "1.14",
	498: "1.14.4",
	573: "1.15.2",
	736: "1.16.1",
}

// VersionName returns the human-readable release name for protocol, or a
// generic "Unknown (protocol N)" label if it isn't one this core dispatches.
func VersionName(protocol int32) string {
	if name, ok := versionNames[protocol]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (protocol %d)", protocol)
}
