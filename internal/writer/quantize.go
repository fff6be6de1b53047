package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
)

// writeQuantizedPositions emits positions as non-normalized signed 16-bit
// integers in the lattice pp describes; the node TRS that reconstructs
// object-space units is emitted separately once per owning mesh node.
func (d *Document) writeQuantizedPositions(data []scene.Value, pp quant.PositionParams, compress bool) uint32 {
	raw := make([]byte, len(data)*6)
	minQ := [3]float32{}
	maxQ := [3]float32{}
	for i, v := range data {
		q := pp.Quantize(v)
		for a := 0; a < 3; a++ {
			qv := int16(q[a])
			off := i*6 + a*2
			raw[off] = byte(qv)
			raw[off+1] = byte(uint16(qv) >> 8)
			fv := float32(qv)
			if i == 0 || fv < minQ[a] {
				minQ[a] = fv
			}
			if i == 0 || fv > maxQ[a] {
				maxQ[a] = fv
			}
		}
	}
	minS, maxS := minQ[:], maxQ[:]
	if len(data) == 0 {
		minS, maxS = nil, nil
	}
	return d.WriteAccessorValue(KindVertex, gltf.ComponentShort, gltf.AccessorVec3, len(data), 6, compress, raw, minS, maxS)
}

// writeQuantizedTexcoord emits UVs as non-normalized unsigned 16-bit
// integers; a KHR_texture_transform on the referencing material reconstructs
// the original range.
func (d *Document) writeQuantizedTexcoord(data []scene.Value, tp quant.TexcoordParams, compress bool) uint32 {
	raw := make([]byte, len(data)*4)
	for i, v := range data {
		q := tp.Quantize(v)
		for a := 0; a < 2; a++ {
			off := i*4 + a*2
			qv := uint16(q[a])
			raw[off] = byte(qv)
			raw[off+1] = byte(qv >> 8)
		}
	}
	return d.WriteAccessorValue(KindVertex, gltf.ComponentUshort, gltf.AccessorVec2, len(data), 4, compress, raw, nil, nil)
}

// writeQuantizedNormal octahedral-encodes each normal/tangent to two signed
// bits-wide components, normalized so shaders decode them as [-1,1]
// directly (a bit width narrower than the 8- or 16-bit component is shifted
// up to fill it); tangent additionally stores its handedness sign in a
// third lane.
func (d *Document) writeQuantizedNormal(data []scene.Value, bits int, isTangent, compress bool) uint32 {
	lanes := 2
	if isTangent {
		lanes = 3
	}
	stride := 1
	componentType := gltf.ComponentByte
	shift := 8 - bits
	if bits > 8 {
		stride = 2
		componentType = gltf.ComponentShort
		shift = 16 - bits
	}

	raw := make([]byte, len(data)*lanes*stride)
	for i, v := range data {
		ox, oy := quant.EncodeOctahedral(v[0], v[1], v[2])
		qx := quant.QuantizeOctahedralComponent(ox, bits)
		qy := quant.QuantizeOctahedralComponent(oy, bits)
		if shift > 0 {
			qx, qy = qx<<uint(shift), qy<<uint(shift)
		}
		base := i * lanes * stride
		writeSignedComponent(raw, base, qx, stride)
		writeSignedComponent(raw, base+stride, qy, stride)
		if isTangent {
			sign := int32(1)
			if v[3] < 0 {
				sign = -1
			}
			writeSignedComponent(raw, base+2*stride, sign, stride)
		}
	}

	acc := &gltf.Accessor{
		ComponentType: componentType,
		Type:          accessorType(lanes),
		Normalized:    true,
	}
	viewIdx := uint32(d.Alloc.Append(KindVertex, lanes*stride, "normal", compress, raw))
	acc.BufferView = &viewIdx
	acc.Count = uint32(len(data))
	d.Doc.Accessors = append(d.Doc.Accessors, acc)
	return uint32(len(d.Doc.Accessors) - 1)
}

func writeSignedComponent(buf []byte, off int, v int32, stride int) {
	if stride == 1 {
		buf[off] = byte(int8(v))
		return
	}
	uv := uint16(int16(v))
	buf[off] = byte(uv)
	buf[off+1] = byte(uv >> 8)
}
