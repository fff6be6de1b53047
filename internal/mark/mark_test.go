package mark

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func TestMarkMaterialsAndImagesKeepsOnlyReferenced(t *testing.T) {
	sc := &scene.Scene{
		Materials: []scene.Material{
			{BaseColor: scene.TextureRef{Image: 0}, Normal: scene.TextureRef{Image: -1}, MetallicRough: scene.TextureRef{Image: -1}, Occlusion: scene.TextureRef{Image: -1}, Emissive: scene.TextureRef{Image: -1}, Diffuse: scene.TextureRef{Image: -1}, SpecularGlossiness: scene.TextureRef{Image: -1}, Clearcoat: scene.TextureRef{Image: -1}, ClearcoatRoughnessTex: scene.TextureRef{Image: -1}, ClearcoatNormal: scene.TextureRef{Image: -1}},
			{BaseColor: scene.TextureRef{Image: 1}, Normal: scene.TextureRef{Image: -1}, MetallicRough: scene.TextureRef{Image: -1}, Occlusion: scene.TextureRef{Image: -1}, Emissive: scene.TextureRef{Image: -1}, Diffuse: scene.TextureRef{Image: -1}, SpecularGlossiness: scene.TextureRef{Image: -1}, Clearcoat: scene.TextureRef{Image: -1}, ClearcoatRoughnessTex: scene.TextureRef{Image: -1}, ClearcoatNormal: scene.TextureRef{Image: -1}},
		},
		Images: []scene.Image{{}, {}},
	}
	info := scene.NewInfo(sc)
	prims := []*scene.Primitive{{Material: 0}}

	MarkMaterialsAndImages(sc, prims, info)

	if !info.Materials[0].Keep {
		t.Error("material 0 should be kept (referenced by a primitive)")
	}
	if info.Materials[1].Keep {
		t.Error("material 1 should not be kept (unreferenced)")
	}
	if !info.Images[0].Keep {
		t.Error("image 0 should be kept (referenced by kept material 0)")
	}
	if info.Images[1].Keep {
		t.Error("image 1 should not be kept (only referenced by unreferenced material 1)")
	}
}

func TestMarkNodesPropagatesToAncestors(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1},    // 0: root, not directly referenced
			{Parent: 0},     // 1: middle, not directly referenced
			{Parent: 1},     // 2: leaf, owns a kept primitive
			{Parent: -1},    // 3: unrelated root, should stay unkept
		},
	}
	info := scene.NewInfo(sc)
	prims := []*scene.Primitive{{Node: 2, Skin: -1}}

	MarkNodes(sc, prims, nil, info, false)

	for _, i := range []int{0, 1, 2} {
		if !info.Nodes[i].Keep {
			t.Errorf("node %d should be kept via ancestor propagation", i)
		}
	}
	if info.Nodes[3].Keep {
		t.Error("unrelated node should not be kept")
	}
}

func TestMarkNodesKeepsSkinJointsAndAnimationTargets(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{{Parent: -1}, {Parent: -1}, {Parent: -1}},
		Skins: []scene.Skin{{Joints: []int{1}}},
	}
	info := scene.NewInfo(sc)
	prims := []*scene.Primitive{{Node: -1, Skin: 0}}
	anims := []scene.Animation{{Tracks: []scene.Track{{TargetNode: 2}}}}

	MarkNodes(sc, prims, anims, info, false)

	if !info.Nodes[1].Keep {
		t.Error("skin joint node should be kept")
	}
	if !info.Nodes[2].Keep {
		t.Error("animation target node should be kept")
	}
	if info.Nodes[0].Keep {
		t.Error("unrelated node should not be kept")
	}
}

func TestMarkNodesKeepNamedOverride(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{{Parent: -1, Name: "Pivot"}},
	}
	info := scene.NewInfo(sc)
	MarkNodes(sc, nil, nil, info, true)
	if !info.Nodes[0].Keep {
		t.Error("named node should be kept when keepNamed is set")
	}
}

func TestPruneAndReparentComposesTransformIntoSurvivingChild(t *testing.T) {
	mid := scene.IdentityTransform()
	mid.Translation[0] = 5
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform(), Children: []int{1}}, // 0: kept root
			{Parent: 0, Transform: mid, Children: []int{2}},                       // 1: pruned middle
			{Parent: 1, Transform: scene.IdentityTransform()},                     // 2: kept leaf
		},
	}
	info := scene.NewInfo(sc)
	info.Nodes[0].Keep = true
	info.Nodes[1].Keep = false
	info.Nodes[2].Keep = true
	prims := []*scene.Primitive{{Node: 2}}

	PruneAndReparent(sc, prims, nil, info)

	if sc.Nodes[2].Parent != 0 {
		t.Fatalf("leaf reparented to %d, want 0 (pruned node's kept ancestor)", sc.Nodes[2].Parent)
	}
	if !sc.Nodes[2].Transform.HasMatrix {
		t.Fatalf("leaf transform should have been composed into a matrix")
	}
	if sc.Nodes[2].Transform.Matrix[12] != 5 {
		t.Fatalf("composed matrix translation = %v, want x=5 folded in from pruned parent", sc.Nodes[2].Transform.Matrix)
	}
	if prims[0].Node != 2 {
		t.Fatalf("primitive node reference changed unexpectedly: %d", prims[0].Node)
	}

	found := false
	for _, c := range sc.Nodes[0].Children {
		if c == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("root's children list not rewired to include reparented leaf: %v", sc.Nodes[0].Children)
	}
}

// TestPruneAndReparentComposesThroughAChainOfPrunedNodesRegardlessOfIndexOrder
// covers a chain of two pruned nodes A -> B where B's node index is lower
// than A's, legal in glTF since node array order is arbitrary. A naive
// composition pass that folds transforms in raw array index order visits B
// before A and permanently drops A's translation from B's child.
func TestPruneAndReparentComposesThroughAChainOfPrunedNodesRegardlessOfIndexOrder(t *testing.T) {
	a := scene.IdentityTransform()
	a.Translation[0] = 5
	b := scene.IdentityTransform()
	b.Translation[1] = 2
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Transform: scene.IdentityTransform(), Children: []int{2}}, // 0: kept root
			{Parent: 2, Transform: b, Children: []int{}},                          // 1: pruned B, child of A
			{Parent: 0, Transform: a, Children: []int{1}},                         // 2: pruned A, child of root
			{Parent: 1, Transform: scene.IdentityTransform()},                     // 3: kept leaf, child of B
		},
	}
	// leaf (3) is B's (1) child, but B's array index (1) precedes A's (2).
	sc.Nodes[1].Children = []int{3}

	info := scene.NewInfo(sc)
	info.Nodes[0].Keep = true
	info.Nodes[1].Keep = false
	info.Nodes[2].Keep = false
	info.Nodes[3].Keep = true
	prims := []*scene.Primitive{{Node: 3}}

	PruneAndReparent(sc, prims, nil, info)

	if sc.Nodes[3].Parent != 0 {
		t.Fatalf("leaf reparented to %d, want 0", sc.Nodes[3].Parent)
	}
	if !sc.Nodes[3].Transform.HasMatrix {
		t.Fatalf("leaf transform should have been composed into a matrix")
	}
	if sc.Nodes[3].Transform.Matrix[12] != 5 || sc.Nodes[3].Transform.Matrix[13] != 2 {
		t.Fatalf("composed matrix translation = %v, want (5,2,0) folded in from both pruned ancestors",
			sc.Nodes[3].Transform.Matrix)
	}
}

func TestPruneAndReparentRewritesPrimitiveAndTrackNodeRefs(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Children: []int{1}}, // 0: kept
			{Parent: 0},                      // 1: pruned, primitive/track point here
		},
	}
	info := scene.NewInfo(sc)
	info.Nodes[0].Keep = true
	info.Nodes[1].Keep = false
	prims := []*scene.Primitive{{Node: 1}}
	anims := []scene.Animation{{Tracks: []scene.Track{{TargetNode: 1}}}}

	PruneAndReparent(sc, prims, anims, info)

	if prims[0].Node != 0 {
		t.Fatalf("primitive node ref = %d, want 0 (resolved to kept ancestor)", prims[0].Node)
	}
	if anims[0].Tracks[0].TargetNode != 0 {
		t.Fatalf("track target node = %d, want 0", anims[0].Tracks[0].TargetNode)
	}
}

func TestAssignOutputIndicesConsecutiveInTraversalOrder(t *testing.T) {
	sc := &scene.Scene{
		Nodes: []scene.Node{
			{Parent: -1, Children: []int{1, 2}},
			{Parent: 0},
			{Parent: 0},
		},
		RootNodes: []int{0},
		Materials: []scene.Material{{}, {}},
		Images:    []scene.Image{{}},
	}
	info := scene.NewInfo(sc)
	info.Nodes[0].Keep = true
	info.Nodes[1].Keep = true
	info.Nodes[2].Keep = false
	info.Materials[1].Keep = true
	info.Images[0].Keep = true

	AssignOutputIndices(sc, info)

	if info.Nodes[0].Remap != 0 {
		t.Errorf("root remap = %d, want 0", info.Nodes[0].Remap)
	}
	if info.Nodes[1].Remap != 1 {
		t.Errorf("child remap = %d, want 1", info.Nodes[1].Remap)
	}
	if info.Nodes[2].Remap != -1 {
		t.Errorf("unkept node remap = %d, want -1 (untouched)", info.Nodes[2].Remap)
	}
	if info.Materials[1].Remap != 0 {
		t.Errorf("kept material remap = %d, want 0", info.Materials[1].Remap)
	}
	if info.Images[0].Remap != 0 {
		t.Errorf("kept image remap = %d, want 0", info.Images[0].Remap)
	}
}
