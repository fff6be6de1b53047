package transform

import "github.com/flywave/gltfpack/internal/scene"

func isIdentityTransform(t *scene.Transform) bool {
	if t.HasMatrix {
		ident := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
		return t.Matrix == ident
	}
	for a := 0; a < 3; a++ {
		if t.Translation[a] != 0 || t.Scale[a] != 1 {
			return false
		}
	}
	return t.Rotation == [4]float64{0, 0, 0, 1}
}

// sameOwner implements the merge rule's owning-node disjunct, preserving its
// observed OR-combination rather than the stricter rule one might expect:
// two primitives merge across nodes when both are detached, or when they sit
// on sibling nodes under the same parent with no local transform of their
// own and, under the keep-named policy, no name that folding would discard.
func sameOwner(sc *scene.Scene, a, b *scene.Primitive, keepNamed bool) bool {
	if a.Node == b.Node {
		return true
	}
	if a.Node == -1 && b.Node == -1 {
		return true
	}
	if a.Node == -1 || b.Node == -1 {
		return false
	}
	na, nb := &sc.Nodes[a.Node], &sc.Nodes[b.Node]
	if na.Parent != nb.Parent {
		return false
	}
	if !isIdentityTransform(&na.Transform) || !isIdentityTransform(&nb.Transform) {
		return false
	}
	if keepNamed && (na.Name != "" || nb.Name != "") {
		return false
	}
	return true
}

func sameStreamSchema(a, b *scene.Primitive) bool {
	if len(a.Streams) != len(b.Streams) {
		return false
	}
	for i := range a.Streams {
		sa, sb := &a.Streams[i], &b.Streams[i]
		if sa.Semantic != sb.Semantic || sa.Index != sb.Index || sa.TargetIndex != sb.TargetIndex {
			return false
		}
	}
	return true
}

func sameMorphTargets(a, b *scene.Primitive) bool {
	if a.TargetCount != b.TargetCount {
		return false
	}
	if len(a.TargetNames) != len(b.TargetNames) || len(a.TargetWeights) != len(b.TargetWeights) {
		return false
	}
	for i := range a.TargetNames {
		if a.TargetNames[i] != b.TargetNames[i] {
			return false
		}
	}
	for i := range a.TargetWeights {
		if a.TargetWeights[i] != b.TargetWeights[i] {
			return false
		}
	}
	return true
}

// CanMerge reports whether primitives a and b satisfy every merge
// precondition.
func CanMerge(sc *scene.Scene, a, b *scene.Primitive, keepNamed bool) bool {
	return sameOwner(sc, a, b, keepNamed) &&
		a.Material == b.Material &&
		a.Skin == b.Skin &&
		a.Topology == b.Topology &&
		sameMorphTargets(a, b) &&
		(len(a.Indices) > 0) == (len(b.Indices) > 0) &&
		sameStreamSchema(a, b)
}

// Merge appends b's data onto a in place: every stream is concatenated, and
// b's indices are offset by a's pre-merge vertex count before being
// appended. b is left with no streams and no indices, a signal to the
// caller to drop it from the scene's primitive list.
func Merge(a, b *scene.Primitive) {
	base := uint32(a.VertexCount())
	for i := range a.Streams {
		a.Streams[i].Data = append(a.Streams[i].Data, b.Streams[i].Data...)
	}
	for _, idx := range b.Indices {
		a.Indices = append(a.Indices, idx+base)
	}
	b.Streams = nil
	b.Indices = nil
}

// MergeAll greedily folds every primitive list entry into the first
// compatible predecessor it can merge with, returning the surviving
// primitives in their original relative order. Primitives emptied by Merge
// are dropped.
func MergeAll(sc *scene.Scene, prims []*scene.Primitive, keepNamed bool) []*scene.Primitive {
	merged := make([]bool, len(prims))
	for i := 0; i < len(prims); i++ {
		if merged[i] {
			continue
		}
		for j := i + 1; j < len(prims); j++ {
			if merged[j] {
				continue
			}
			if CanMerge(sc, prims[i], prims[j], keepNamed) {
				Merge(prims[i], prims[j])
				merged[j] = true
			}
		}
	}
	out := make([]*scene.Primitive, 0, len(prims))
	for i, p := range prims {
		if !merged[i] {
			out = append(out, p)
		}
	}
	return out
}
