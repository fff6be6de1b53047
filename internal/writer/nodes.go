package writer

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
)

// WriteNode emits n's JSON fragment. When posParams is non-nil, the node
// owns a quantized mesh: the dequantization affine (q -> offset + scale*q)
// is composed with the node's own transform into a single matrix, so a
// plain glTF reader applying only standard TRS/matrix semantics reproduces
// the original geometry regardless of the node's own rotation.
func (d *Document) WriteNode(n *scene.Node, posParams *quant.PositionParams) *gltf.Node {
	out := &gltf.Node{Name: n.Name}

	switch {
	case posParams != nil:
		m := scene.MulMat(n.Transform.ToMat(), dequantMat(*posParams))
		out.Matrix = toFloat32Matrix(scene.MatToArray(m))
	case n.Transform.HasMatrix:
		out.Matrix = toFloat32Matrix(n.Transform.Matrix)
	default:
		t, r, s := n.Transform.Translation, n.Transform.Rotation, n.Transform.Scale
		out.Translation = [3]float32{float32(t[0]), float32(t[1]), float32(t[2])}
		out.Rotation = [4]float32{float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])}
		out.Scale = [3]float32{float32(s[0]), float32(s[1]), float32(s[2])}
	}

	if n.Extras != nil {
		out.Extras = n.Extras
	}
	return out
}

// dequantMat is the affine map q -> offset + scale*q a quantized position
// stream must be composed with, built as a go3d matrix via dmat.Compose (an
// identity rotation, uniform scale, and the plan's offset as translation) so
// it can be folded into a node's own transform via matrix multiplication.
func dequantMat(pp quant.PositionParams) *dmat.T {
	offset := dvec3.T{float64(pp.Offset[0]), float64(pp.Offset[1]), float64(pp.Offset[2])}
	scale := dvec3.T{float64(pp.Scale), float64(pp.Scale), float64(pp.Scale)}
	rot := quaternion.T{0, 0, 0, 1}
	return dmat.Compose(&offset, &rot, &scale)
}

func toFloat32Matrix(m [16]float64) [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
