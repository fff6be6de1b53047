package transform

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func samplePrim(node int) *scene.Primitive {
	return &scene.Primitive{
		Node:     node,
		Material: 0,
		Skin:     -1,
		Topology: scene.Triangles,
		Indices:  []uint32{0, 1, 2},
		Streams: []scene.Stream{
			{Semantic: scene.Position, Data: []scene.Value{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}}},
		},
	}
}

func TestCanMergeSameDetachedPrimitives(t *testing.T) {
	sc := &scene.Scene{}
	a, b := samplePrim(-1), samplePrim(-1)
	if !CanMerge(sc, a, b, false) {
		t.Fatalf("expected two detached, schema-identical primitives to be mergeable")
	}
}

func TestCanMergeRejectsDifferentMaterial(t *testing.T) {
	sc := &scene.Scene{}
	a, b := samplePrim(-1), samplePrim(-1)
	b.Material = 1
	if CanMerge(sc, a, b, false) {
		t.Fatalf("primitives with different materials should not merge")
	}
}

func TestCanMergeRejectsDifferentStreamSchema(t *testing.T) {
	sc := &scene.Scene{}
	a, b := samplePrim(-1), samplePrim(-1)
	b.Streams = append(b.Streams, scene.Stream{Semantic: scene.Normal, Data: make([]scene.Value, 3)})
	if CanMerge(sc, a, b, false) {
		t.Fatalf("primitives with different stream schemas should not merge")
	}
}

func TestCanMergeSiblingsUnderIdentityTransform(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
		},
	}
	a, b := samplePrim(1), samplePrim(2)
	if !CanMerge(sc, a, b, false) {
		t.Fatalf("expected sibling primitives under identity transforms to merge")
	}
}

func TestCanMergeRejectsSiblingsWithNonIdentityTransform(t *testing.T) {
	tr := scene.IdentityTransform()
	tr.Translation[0] = 5
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: tr},
			{Parent: 0, Transform: scene.IdentityTransform()},
		},
	}
	a, b := samplePrim(1), samplePrim(2)
	if CanMerge(sc, a, b, false) {
		t.Fatalf("sibling with a non-identity local transform should not be merge-eligible")
	}
}

func TestCanMergeRejectsNamedNodesWhenKeepNamed(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform(), Name: "Important"},
			{Parent: 0, Transform: scene.IdentityTransform()},
		},
	}
	a, b := samplePrim(1), samplePrim(2)
	if CanMerge(sc, a, b, true) {
		t.Fatalf("named node should block merge under keepNamed")
	}
	if !CanMerge(sc, a, b, false) {
		t.Fatalf("named node should not block merge when keepNamed is false")
	}
}

func TestMergeConcatenatesAndOffsetsIndices(t *testing.T) {
	a, b := samplePrim(-1), samplePrim(-1)
	Merge(a, b)

	if a.VertexCount() != 6 {
		t.Fatalf("merged vertex count = %d, want 6", a.VertexCount())
	}
	if len(a.Indices) != 6 {
		t.Fatalf("merged index count = %d, want 6", len(a.Indices))
	}
	// b's indices {0,1,2} should be offset by a's original vertex count (3).
	want := []uint32{0, 1, 2, 3, 4, 5}
	for i, idx := range a.Indices {
		if idx != want[i] {
			t.Fatalf("merged indices = %v, want %v", a.Indices, want)
		}
	}
	if b.Streams != nil || b.Indices != nil {
		t.Fatalf("b was not cleared after merge")
	}
}

func TestMergeAllFoldsCompatibleSiblingsIntoOne(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
		},
	}
	prims := []*scene.Primitive{samplePrim(1), samplePrim(2), samplePrim(-1)}
	prims[2].Material = 1 // incompatible with the other two

	out := MergeAll(sc, prims, false)
	if len(out) != 2 {
		t.Fatalf("surviving primitives = %d, want 2 (two siblings folded, one left standalone)", len(out))
	}
	if out[0].VertexCount() != 6 {
		t.Fatalf("folded primitive vertex count = %d, want 6", out[0].VertexCount())
	}
}
