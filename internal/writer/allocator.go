// Package writer implements the writer stage: buffer-view allocation,
// accessor/material/node/mesh/animation/image/camera/light JSON-fragment
// emission, and final glTF document assembly via github.com/qmuntal/gltf.
package writer

import "github.com/flywave/gltfpack/internal/meshopt"

// ViewKind mirrors the data-model's BufferView kind tag.
type ViewKind int

const (
	KindVertex ViewKind = iota
	KindIndex
	KindSkin
	KindTime
	KindKeyframe
	KindImage
)

// CompressionMode mirrors MESHOPT_compression's mode byte.
type CompressionMode int

const (
	ModeAttributes CompressionMode = 0
	ModeIndices    CompressionMode = 1
)

// ViewRecord is a finalized buffer view: its placement in both blobs plus
// the metadata the writer needs to emit its bufferView JSON entry.
type ViewRecord struct {
	Kind     ViewKind
	Stride   int
	Count    int
	Variant  string
	Compress bool
	Mode     CompressionMode

	MainOffset, MainLength       int
	FallbackOffset, FallbackLength int
}

// Allocator accumulates raw buffer-view payloads and produces the packed
// main blob (optionally MESHOPT-compressed) and fallback blob (always raw),
// in append order, 4-byte aligned after every view. fallbackEnabled gates
// whether compressed views also get a raw copy in the fallback blob: plain
// `-c` ships compressed data only (MESHOPT_compression required), while
// `-cf` additionally produces the fallback blob for non-supporting readers.
type Allocator struct {
	main            []byte
	fallback        []byte
	views           []ViewRecord
	fallbackEnabled bool
}

func NewAllocator(fallbackEnabled bool) *Allocator {
	return &Allocator{fallbackEnabled: fallbackEnabled}
}

func pad4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// Append records one buffer-view payload. raw is the uncompressed bytes;
// when compress is true and kind is Index or Vertex, the main blob receives
// the domain codec's compressed bytes while the fallback blob always
// receives raw, uncompressed bytes.
func (a *Allocator) Append(kind ViewKind, stride int, variant string, compress bool, raw []byte) int {
	count := 0
	if stride > 0 {
		count = len(raw) / stride
	}

	rec := ViewRecord{Kind: kind, Stride: stride, Count: count, Variant: variant, Compress: compress}

	mainStart := len(a.main)
	fallbackStart := len(a.fallback)

	var mainBytes []byte
	if compress {
		switch kind {
		case KindIndex:
			rec.Mode = ModeIndices
			mainBytes = meshopt.EncodeIndexBuffer(bytesToUint32(raw, stride), stride)
		default:
			rec.Mode = ModeAttributes
			mainBytes = meshopt.EncodeVertexBuffer(raw, count, stride)
		}
		if a.fallbackEnabled {
			a.fallback = append(a.fallback, raw...)
			a.fallback = pad4(a.fallback)
			rec.FallbackOffset, rec.FallbackLength = fallbackStart, len(raw)
		}
	} else {
		mainBytes = raw
	}

	a.main = append(a.main, mainBytes...)
	a.main = pad4(a.main)
	rec.MainOffset, rec.MainLength = mainStart, len(mainBytes)

	a.views = append(a.views, rec)
	return len(a.views) - 1
}

func bytesToUint32(raw []byte, stride int) []uint32 {
	n := len(raw) / stride
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		v := uint32(0)
		for b := 0; b < stride && b < 4; b++ {
			v |= uint32(raw[i*stride+b]) << uint(8*b)
		}
		out[i] = v
	}
	return out
}

// Views returns every finalized view record in append order.
func (a *Allocator) Views() []ViewRecord { return a.views }

// MainBlob returns the packed (possibly compressed) binary buffer.
func (a *Allocator) MainBlob() []byte { return a.main }

// FallbackBlob returns the packed, always-uncompressed binary buffer. It is
// empty when no view used compression.
func (a *Allocator) FallbackBlob() []byte { return a.fallback }

// HasFallback reports whether any view contributed fallback bytes.
func (a *Allocator) HasFallback() bool { return len(a.fallback) > 0 }
