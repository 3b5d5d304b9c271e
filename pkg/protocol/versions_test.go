package protocol

import "testing"

func TestIsSupported(t *testing.T) {
	if !IsSupported(477) {
		t.Error("477 (1.14) should be supported")
	}
	if IsSupported(754) {
		t.Error("754 (1.16.5) should not be supported")
	}
}

func TestEraGatedFeatures(t *testing.T) {
	if KeepAliveIsLong(47) {
		t.Error("1.8.9 keep-alive should be a VarInt, not a long")
	}
	if !KeepAliveIsLong(340) {
		t.Error("1.12.2 keep-alive should be a long")
	}

	if HasDimensionCodec(340) {
		t.Error("1.12.2 should not carry a dimension codec")
	}
	if !HasDimensionCodec(477) {
		t.Error("1.14 should carry a dimension codec")
	}

	if HasDedicatedUnloadChunk(340) {
		t.Error("1.12.2 should unload via empty ChunkData, not UnloadChunk")
	}
	if !HasDedicatedUnloadChunk(477) {
		t.Error("1.14 should have a dedicated UnloadChunk packet")
	}
}

func TestBiomeEntryCount(t *testing.T) {
	if got := BiomeEntryCount(477); got != 256 {
		t.Errorf("1.14 biome entry count = %d, want 256", got)
	}
	if got := BiomeEntryCount(573); got != 1024 {
		t.Errorf("1.15.2 biome entry count = %d, want 1024", got)
	}
}

func TestBitPackingCrossesLongs(t *testing.T) {
	if !BitPackingCrossesLongs(573) {
		t.Error("1.15.2 bit-packing should still cross long boundaries")
	}
	if BitPackingCrossesLongs(736) {
		t.Error("1.16.1 bit-packing should no longer cross long boundaries")
	}
}

func TestMaxBitsPerEntry(t *testing.T) {
	if got := MaxBitsPerEntry(47); got != 13 {
		t.Errorf("pre-1.14 MaxBitsPerEntry = %d, want 13", got)
	}
	if got := MaxBitsPerEntry(477); got != 14 {
		t.Errorf("1.14 MaxBitsPerEntry = %d, want 14", got)
	}
	if got := MaxBitsPerEntry(736); got != 15 {
		t.Errorf("1.16.1 MaxBitsPerEntry = %d, want 15", got)
	}
}

func TestVersionName(t *testing.T) {
	if got := VersionName(477); got != "1.14" {
		t.Errorf("VersionName(477) = %q, want 1.14", got)
	}
	if got := VersionName(999); got != "Unknown (protocol 999)" {
		t.Errorf("VersionName(999) = %q, want a fallback label", got)
	}
}
