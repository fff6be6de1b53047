package transform

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func TestDropDegenerateTrianglesRemovesRepeatedIndex(t *testing.T) {
	p := &scene.Primitive{
		Topology: scene.Triangles,
		Indices:  []uint32{0, 1, 2, 3, 3, 4, 5, 6, 7},
	}
	DropDegenerateTriangles(p)
	want := []uint32{0, 1, 2, 5, 6, 7}
	if len(p.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", p.Indices, want)
	}
	for i := range want {
		if p.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", p.Indices, want)
		}
	}
}

func TestDropDegenerateTrianglesIgnoresPoints(t *testing.T) {
	p := &scene.Primitive{
		Topology: scene.Points,
		Indices:  []uint32{0, 0, 0},
	}
	DropDegenerateTriangles(p)
	if len(p.Indices) != 3 {
		t.Fatalf("points primitive indices mutated: %v", p.Indices)
	}
}
