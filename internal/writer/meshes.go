package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
)

var semanticKey = map[scene.Semantic]string{
	scene.Position: gltf.POSITION,
	scene.Normal:   gltf.NORMAL,
	scene.Tangent:  gltf.TANGENT,
	scene.Texcoord: gltf.TEXCOORD_0,
	scene.Color:    gltf.COLOR_0,
	scene.Joints:   gltf.JOINTS_0,
	scene.Weights:  gltf.WEIGHTS_0,
}

func attributeName(s *scene.Stream) string {
	base, ok := semanticKey[s.Semantic]
	if !ok {
		return ""
	}
	if s.Semantic == scene.Texcoord || s.Semantic == scene.Joints || s.Semantic == scene.Weights || s.Semantic == scene.Color {
		// base already carries the _0 suffix; bump the trailing digit for
		// additional sets rather than string-building a new suffix, since
		// every semantic using a set index follows the same "_0" pattern.
		return base[:len(base)-1] + itoa(s.Index)
	}
	return base
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	digits := []byte{}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

// PrimParams bundles the quantization parameters a primitive's writer needs:
// global position params, the owning material's UV params, and shared
// normal/color bit widths.
type PrimParams struct {
	Position   quant.PositionParams
	Texcoord   quant.TexcoordParams
	NormalBits int
	NoQuantize bool
	Compress   bool
}

// WritePrimitive emits one primitive's accessors and returns the
// gltf.Primitive referencing them, quantizing position/normal/tangent/
// texcoord streams per pp unless pp.NoQuantize is set.
func (d *Document) WritePrimitive(p *scene.Primitive, pp PrimParams, materialRemap int) *gltf.Primitive {
	out := &gltf.Primitive{Attributes: map[string]uint32{}}
	if p.Topology == scene.Points {
		out.Mode = gltf.PrimitivePoints
	} else {
		out.Mode = gltf.PrimitiveTriangles
	}

	for i := range p.Streams {
		s := &p.Streams[i]
		if s.TargetIndex != 0 {
			continue
		}
		name := attributeName(s)
		if name == "" {
			continue
		}
		acc := d.writeAttributeAccessor(s, pp)
		out.Attributes[name] = acc
	}

	if targets := d.writeMorphTargets(p, pp.Compress); len(targets) > 0 {
		out.Targets = targets
	}

	if len(p.Indices) > 0 {
		stride := 4
		compType := gltf.ComponentUint
		if p.VertexCount() <= 65535 {
			stride, compType = 2, gltf.ComponentUshort
		}
		raw := encodeIndices(p.Indices, stride)
		acc := d.WriteAccessorValue(KindIndex, compType, gltf.AccessorScalar, len(p.Indices), stride, pp.compress(), raw, nil, nil)
		out.Indices = gltf.Index(acc)
	}

	if materialRemap >= 0 {
		out.Material = gltf.Index(uint32(materialRemap))
	}
	if p.Extras != nil {
		out.Extras = p.Extras
	}
	return out
}

func (pp PrimParams) compress() bool { return pp.Compress }

func encodeIndices(indices []uint32, stride int) []byte {
	out := make([]byte, len(indices)*stride)
	for i, v := range indices {
		if stride == 2 {
			out[i*2] = byte(v)
			out[i*2+1] = byte(v >> 8)
		} else {
			out[i*4] = byte(v)
			out[i*4+1] = byte(v >> 8)
			out[i*4+2] = byte(v >> 16)
			out[i*4+3] = byte(v >> 24)
		}
	}
	return out
}

func lanesFor(sem scene.Semantic) int {
	switch sem {
	case scene.Position, scene.Normal:
		return 3
	case scene.Tangent, scene.Weights, scene.Color:
		return 4
	case scene.Texcoord:
		return 2
	case scene.Joints:
		return 4
	default:
		return 4
	}
}

func accessorType(lanes int) gltf.AccessorType {
	switch lanes {
	case 2:
		return gltf.AccessorVec2
	case 3:
		return gltf.AccessorVec3
	case 4:
		return gltf.AccessorVec4
	default:
		return gltf.AccessorScalar
	}
}

func (d *Document) writeAttributeAccessor(s *scene.Stream, pp PrimParams) uint32 {
	lanes := lanesFor(s.Semantic)
	data := s.Data

	if pp.NoQuantize {
		raw := make([]byte, 0, len(data)*lanes*4)
		for _, v := range data {
			raw = append(raw, float32LE(v[:lanes])...)
		}
		min, max := boundsOf(data, lanes)
		return d.WriteAccessorValue(KindVertex, gltf.ComponentFloat, accessorType(lanes), len(data), lanes*4, pp.Compress, raw, min, max)
	}

	switch s.Semantic {
	case scene.Position:
		return d.writeQuantizedPositions(data, pp.Position, pp.Compress)
	case scene.Texcoord:
		return d.writeQuantizedTexcoord(data, pp.Texcoord, pp.Compress)
	case scene.Normal:
		return d.writeQuantizedNormal(data, pp.NormalBits, false, pp.Compress)
	case scene.Tangent:
		return d.writeQuantizedNormal(data, pp.NormalBits, true, pp.Compress)
	case scene.Joints:
		return d.writeJoints(data, pp.Compress)
	case scene.Weights:
		return d.writeWeights(data, pp.Compress)
	default:
		raw := make([]byte, 0, len(data)*lanes*4)
		for _, v := range data {
			raw = append(raw, float32LE(v[:lanes])...)
		}
		min, max := boundsOf(data, lanes)
		return d.WriteAccessorValue(KindVertex, gltf.ComponentFloat, accessorType(lanes), len(data), lanes*4, pp.Compress, raw, min, max)
	}
}

func (d *Document) writeJoints(data []scene.Value, compress bool) uint32 {
	raw := make([]byte, len(data)*4*2)
	for i, v := range data {
		for l := 0; l < 4; l++ {
			off := i*8 + l*2
			val := uint16(v[l])
			raw[off] = byte(val)
			raw[off+1] = byte(val >> 8)
		}
	}
	return d.WriteAccessorValue(KindVertex, gltf.ComponentUshort, gltf.AccessorVec4, len(data), 8, compress, raw, nil, nil)
}

func (d *Document) writeWeights(data []scene.Value, compress bool) uint32 {
	raw := make([]byte, 0, len(data)*16)
	for _, v := range data {
		raw = append(raw, float32LE(v[:4])...)
	}
	return d.WriteAccessorValue(KindVertex, gltf.ComponentFloat, gltf.AccessorVec4, len(data), 16, compress, raw, nil, nil)
}

// writeMorphTargets emits one accessor per morph target's position/normal/
// tangent deltas and returns the glTF targets array.
func (d *Document) writeMorphTargets(p *scene.Primitive, compress bool) []map[string]uint32 {
	if p.TargetCount == 0 {
		return nil
	}
	targets := make([]map[string]uint32, p.TargetCount)
	for k := 0; k < p.TargetCount; k++ {
		targets[k] = map[string]uint32{}
		for i := range p.Streams {
			s := &p.Streams[i]
			if s.TargetIndex != k+1 {
				continue
			}
			name := attributeName(s)
			if name == "" {
				continue
			}
			lanes := lanesFor(s.Semantic)
			raw := make([]byte, 0, len(s.Data)*lanes*4)
			for _, v := range s.Data {
				raw = append(raw, float32LE(v[:lanes])...)
			}
			min, max := boundsOf(s.Data, lanes)
			acc := d.WriteAccessorValue(KindVertex, gltf.ComponentFloat, accessorType(lanes), len(s.Data), lanes*4, compress, raw, min, max)
			targets[k][name] = acc
		}
	}
	return targets
}
