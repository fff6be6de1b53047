package writer

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/scene"
)

// Document wraps a gltf.Document together with the byte allocator backing
// its buffer views, the state the rest of the writer package's emit
// functions thread through.
type Document struct {
	Doc   *gltf.Document
	Alloc *Allocator

	textureByImage map[uint32]uint32
	basisuImages   map[uint32]bool
}

func NewDocument(fallbackEnabled bool) *Document {
	doc := gltf.NewDocument()
	doc.Buffers = nil
	doc.BufferViews = nil
	doc.Accessors = nil
	doc.Asset.Generator = "gltfpack-go"
	return &Document{Doc: doc, Alloc: NewAllocator(fallbackEnabled)}
}

func float32LE(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func int16LE(v []int16) []byte {
	buf := make([]byte, len(v)*2)
	for i, x := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(x))
	}
	return buf
}

func uint16LE(v []uint16) []byte {
	buf := make([]byte, len(v)*2)
	for i, x := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], x)
	}
	return buf
}

func uint32LE(v []uint32) []byte {
	buf := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], x)
	}
	return buf
}

// viewToBufferView converts a finalized allocator record into the document's
// bufferView JSON entry, attaching MESHOPT_compression metadata when the
// view was compressed. Per the extension's own convention, the outer
// bufferView's buffer/byteOffset/byteLength describe data any glTF reader
// can consume unmodified: when a fallback blob exists that's the raw
// fallback bytes (buffer 1), so non-supporting readers still render;
// without a fallback there's nothing else to point at, so the outer fields
// duplicate the compressed range in buffer 0 (extensionsRequired forces
// every consumer to go through the extension anyway). The extension object
// always carries the compressed range in buffer 0. Returns the new
// bufferView's index.
func (d *Document) viewToBufferView(rec ViewRecord, fallbackBufferIdx *uint32) uint32 {
	bv := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: uint32(rec.MainOffset),
		ByteLength: uint32(rec.MainLength),
	}
	if rec.Stride > 0 && (rec.Kind == KindVertex || rec.Kind == KindSkin) {
		bv.ByteStride = uint32(rec.Stride)
	}
	if rec.Compress {
		ext := map[string]interface{}{
			"buffer":     uint32(0),
			"byteOffset": rec.MainOffset,
			"byteLength": rec.MainLength,
			"byteStride": rec.Stride,
			"count":      rec.Count,
			"mode":       int(rec.Mode),
		}
		if bv.Extensions == nil {
			bv.Extensions = gltf.Extensions{}
		}
		bv.Extensions["MESHOPT_compression"] = ext

		if rec.FallbackLength > 0 {
			bv.Buffer = *fallbackBufferIdx
			bv.ByteOffset = uint32(rec.FallbackOffset)
			bv.ByteLength = uint32(rec.FallbackLength)
		}
	}
	d.Doc.BufferViews = append(d.Doc.BufferViews, bv)
	return uint32(len(d.Doc.BufferViews) - 1)
}

// SetBufferURIs points buffer entries at external files. binName is the
// main blob's URI; pass "" to leave it unset (GLB's implicit buffer-0
// convention, where the main blob travels in the BIN chunk instead).
// fallbackName, when the document has a fallback buffer, always needs a
// URI since neither container form has a second implicit binary chunk.
func (d *Document) SetBufferURIs(binName, fallbackName string) {
	if binName != "" && len(d.Doc.Buffers) > 0 {
		d.Doc.Buffers[0].URI = binName
	}
	if len(d.Doc.Buffers) > 1 {
		d.Doc.Buffers[1].URI = fallbackName
	}
}

// FinalizeBuffers emits the main (and, if used, fallback) buffer JSON
// entries and every bufferView entry recorded by the allocator, in append
// order, per the writer's ordering guarantee.
func (d *Document) FinalizeBuffers() {
	main := &gltf.Buffer{ByteLength: uint32(len(d.Alloc.MainBlob()))}
	d.Doc.Buffers = append(d.Doc.Buffers, main)

	var fallbackIdx uint32
	if d.Alloc.HasFallback() {
		fb := &gltf.Buffer{
			ByteLength: uint32(len(d.Alloc.FallbackBlob())),
			Extensions: gltf.Extensions{"MESHOPT_compression": map[string]interface{}{"fallback": true}},
		}
		d.Doc.Buffers = append(d.Doc.Buffers, fb)
		fallbackIdx = uint32(len(d.Doc.Buffers) - 1)
	}

	for _, rec := range d.Alloc.Views() {
		d.viewToBufferView(rec, &fallbackIdx)
	}
}

// WriteAccessorValue appends one value stream's worth of raw bytes through
// the allocator and returns the accessor index, setting min/max from the
// caller-supplied bounds (already in the quantized domain, if quantized).
func (d *Document) WriteAccessorValue(kind ViewKind, compType gltf.ComponentType, accType gltf.AccessorType,
	count int, stride int, compress bool, raw []byte, min, max []float32) uint32 {

	viewIdx := uint32(d.Alloc.Append(kind, stride, string(accType), compress, raw))
	acc := &gltf.Accessor{
		BufferView:    &viewIdx,
		ComponentType: compType,
		Type:          accType,
		Count:         uint32(count),
	}
	if len(min) > 0 {
		acc.Min = min
		acc.Max = max
	}
	d.Doc.Accessors = append(d.Doc.Accessors, acc)
	return uint32(len(d.Doc.Accessors) - 1)
}

// boundsOf computes per-component min/max over a scene.Value slice's first
// n lanes.
func boundsOf(data []scene.Value, lanes int) (min, max []float32) {
	if len(data) == 0 {
		return nil, nil
	}
	min = make([]float32, lanes)
	max = make([]float32, lanes)
	for i := 0; i < lanes; i++ {
		min[i] = data[0][i]
		max[i] = data[0][i]
	}
	for _, v := range data {
		for i := 0; i < lanes; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}
