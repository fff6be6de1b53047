package writer

import "testing"

func TestAllocatorAppendUncompressedPadsTo4Bytes(t *testing.T) {
	a := NewAllocator(true)
	idx := a.Append(KindVertex, 12, "VEC3", false, []byte{1, 2, 3, 4, 5, 6})

	rec := a.Views()[idx]
	if rec.MainLength != 6 {
		t.Fatalf("recorded main length = %d, want 6 (raw length, unpadded)", rec.MainLength)
	}
	if len(a.MainBlob())%4 != 0 {
		t.Fatalf("main blob length %d not 4-byte aligned", len(a.MainBlob()))
	}
	if a.HasFallback() {
		t.Fatalf("uncompressed append should not populate the fallback blob")
	}
}

func TestAllocatorAppendsAreSequentialInMainBlob(t *testing.T) {
	a := NewAllocator(true)
	a.Append(KindVertex, 4, "SCALAR", false, []byte{1, 2, 3, 4})
	idx2 := a.Append(KindVertex, 4, "SCALAR", false, []byte{5, 6, 7, 8})

	rec2 := a.Views()[idx2]
	if rec2.MainOffset != 4 {
		t.Fatalf("second view offset = %d, want 4 (after first view's padded length)", rec2.MainOffset)
	}
}

func TestAllocatorCompressedIndexViewPopulatesFallback(t *testing.T) {
	a := NewAllocator(true)
	raw := []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0}
	idx := a.Append(KindIndex, 4, "SCALAR", true, raw)

	rec := a.Views()[idx]
	if !rec.Compress {
		t.Fatalf("expected Compress flag set")
	}
	if rec.Mode != ModeIndices {
		t.Fatalf("mode = %d, want ModeIndices", rec.Mode)
	}
	if !a.HasFallback() {
		t.Fatalf("compressed view should populate the fallback blob")
	}
	if rec.FallbackLength != len(raw) {
		t.Fatalf("fallback length = %d, want %d (always raw bytes)", rec.FallbackLength, len(raw))
	}
}

func TestAllocatorCompressedVertexViewUsesAttributeMode(t *testing.T) {
	a := NewAllocator(true)
	raw := make([]byte, 24) // 2 vertices * stride 12
	idx := a.Append(KindVertex, 12, "VEC3", true, raw)

	rec := a.Views()[idx]
	if rec.Mode != ModeAttributes {
		t.Fatalf("mode = %d, want ModeAttributes", rec.Mode)
	}
	if rec.Count != 2 {
		t.Fatalf("count = %d, want 2", rec.Count)
	}
}

// TestAllocatorCompressedWithoutFallbackSkipsFallbackBlob covers plain `-c`
// (compression without `-cf`): the compressed view still lands in the main
// blob, but no fallback bytes are recorded since nothing will ever read
// them back out to a sidecar file.
func TestAllocatorCompressedWithoutFallbackSkipsFallbackBlob(t *testing.T) {
	a := NewAllocator(false)
	raw := []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0}
	idx := a.Append(KindIndex, 4, "SCALAR", true, raw)

	rec := a.Views()[idx]
	if !rec.Compress {
		t.Fatalf("expected Compress flag set")
	}
	if a.HasFallback() {
		t.Fatalf("fallback disabled: HasFallback should be false")
	}
	if rec.FallbackLength != 0 {
		t.Fatalf("fallback disabled: FallbackLength = %d, want 0", rec.FallbackLength)
	}
}
