package writer

import (
	"testing"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
)

func TestWriteNodeTRSPassthroughWithoutQuantization(t *testing.T) {
	n := &scene.Node{
		Name:      "Hip",
		Transform: scene.IdentityTransform(),
	}
	n.Transform.Translation[0] = 2

	out := NewDocument(false).WriteNode(n, nil)
	if out.Name != "Hip" {
		t.Fatalf("name = %q, want Hip", out.Name)
	}
	if out.Translation[0] != 2 {
		t.Fatalf("translation.x = %g, want 2", out.Translation[0])
	}
	if out.Scale[0] != 1 {
		t.Fatalf("scale.x = %g, want 1 (identity)", out.Scale[0])
	}
}

func TestWriteNodeMatrixPassthroughWhenNoQuantization(t *testing.T) {
	n := &scene.Node{
		Transform: scene.Transform{
			HasMatrix: true,
			Matrix:    [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1},
		},
	}
	out := NewDocument(false).WriteNode(n, nil)
	if out.Matrix[12] != 5 || out.Matrix[13] != 6 || out.Matrix[14] != 7 {
		t.Fatalf("matrix translation = %v, want (5,6,7)", out.Matrix)
	}
}

func TestWriteNodeBakesQuantizationOffsetAndScale(t *testing.T) {
	n := &scene.Node{Transform: scene.IdentityTransform()}
	pp := quant.PositionParams{Offset: [3]float32{1, 2, 3}, Scale: 2}

	out := NewDocument(false).WriteNode(n, &pp)
	want := [16]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 1, 2, 3, 1}
	if out.Matrix != want {
		t.Fatalf("matrix = %v, want %v (dequant scale/offset baked in, node is identity)", out.Matrix, want)
	}
}

// TestWriteNodeBakesQuantizationUnderRotation covers the case a per-TRS bake
// gets wrong: a rotated owning node must rotate the quantization offset too,
// not add it in world axes after the node's own rotation.
func TestWriteNodeBakesQuantizationUnderRotation(t *testing.T) {
	// 90 degree rotation about Z: x,y,z,w
	n := &scene.Node{Transform: scene.Transform{
		Rotation: [4]float64{0, 0, 0.7071067811865476, 0.7071067811865476},
		Scale:    [3]float64{1, 1, 1},
	}}
	pp := quant.PositionParams{Offset: [3]float32{1, 0, 0}, Scale: 1}

	out := NewDocument(false).WriteNode(n, &pp)
	// R*(offset) for a 90deg Z rotation of (1,0,0) is (0,1,0), not (1,0,0).
	if out.Matrix[12] > 0.01 || out.Matrix[13] < 0.99 || out.Matrix[14] > 0.01 {
		t.Fatalf("baked translation = (%g,%g,%g), want ~(0,1,0) (offset rotated by node)",
			out.Matrix[12], out.Matrix[13], out.Matrix[14])
	}
}

// TestWriteNodeMatrixNodeBakesQuantization covers the matrix-transform-node
// path: HasMatrix nodes must not fall through to the zero-valued TRS fields
// when they own a quantized mesh.
func TestWriteNodeMatrixNodeBakesQuantization(t *testing.T) {
	n := &scene.Node{Transform: scene.Transform{
		HasMatrix: true,
		Matrix:    [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1},
	}}
	pp := quant.PositionParams{Offset: [3]float32{1, 2, 3}, Scale: 2}

	out := NewDocument(false).WriteNode(n, &pp)
	want := [16]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 6, 8, 10, 1}
	if out.Matrix != want {
		t.Fatalf("matrix = %v, want %v (node matrix composed with dequant affine)", out.Matrix, want)
	}
}
