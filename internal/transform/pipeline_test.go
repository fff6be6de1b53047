package transform

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
	"github.com/flywave/gltfpack/internal/settings"
)

func TestRunDropsEmptyPrimitivesAndMergesSiblings(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
			{Parent: 0, Transform: scene.IdentityTransform()},
		},
		Materials: []scene.Material{{Normal: scene.TextureRef{Image: -1}}},
		Primitives: []scene.Primitive{
			*samplePrim(1),
			*samplePrim(2),
			{Topology: scene.Triangles, Material: -1, Skin: -1, Node: -1}, // empty, should be dropped
		},
	}
	st := settings.Default()
	out := Run(sc, &st)

	if len(out) != 1 {
		t.Fatalf("surviving primitives = %d, want 1 (two siblings merged, empty one dropped)", len(out))
	}
	if out[0].VertexCount() == 0 {
		t.Fatalf("surviving primitive has no vertices")
	}
}

func TestRunAppliesSimplificationWhenRatioBelowOne(t *testing.T) {
	sc := &scene.Scene{
		Primitives: []scene.Primitive{*gridMesh(8)},
	}
	sc.Primitives[0].Material = -1
	sc.Primitives[0].Skin = -1
	sc.Primitives[0].Node = -1

	st := settings.Default()
	st.SimplifyRatio = 0.3
	before := len(sc.Primitives[0].Indices)

	out := Run(sc, &st)
	if len(out) != 1 {
		t.Fatalf("expected one surviving primitive, got %d", len(out))
	}
	if len(out[0].Indices) >= before {
		t.Fatalf("simplification did not reduce index count: %d -> %d", before, len(out[0].Indices))
	}
}

func TestRunSortsPointCloudsInsteadOfReindexing(t *testing.T) {
	pos := []scene.Value{{3, 3, 3, 0}, {0, 0, 0, 0}, {1, 1, 1, 0}}
	sc := &scene.Scene{
		Primitives: []scene.Primitive{
			{
				Topology: scene.Points,
				Material: -1,
				Skin:     -1,
				Node:     -1,
				Streams:  []scene.Stream{{Semantic: scene.Position, Data: pos}},
			},
		},
	}
	st := settings.Default()
	out := Run(sc, &st)
	if len(out) != 1 {
		t.Fatalf("surviving primitives = %d, want 1", len(out))
	}
	if out[0].VertexCount() != 3 {
		t.Fatalf("point cloud vertex count changed: %d", out[0].VertexCount())
	}
	got := out[0].Stream(scene.Position, 0, 0).Data
	if got[0] != (scene.Value{0, 0, 0, 0}) || got[2] != (scene.Value{3, 3, 3, 0}) {
		t.Fatalf("point cloud not in Morton order: %v", got)
	}
}
