// Package transform implements the mesh transformer: stream filtering, bone
// influence reduction, reindexing, degenerate-triangle removal, simplification
// and vertex-cache optimization dispatch, and primitive merging. Every stage
// is a pure function (primitive, settings) -> primitive', threaded through by
// the driver rather than expressed as methods on a stateful transformer
// object, per the teacher's free-function idiom.
package transform

import (
	"github.com/flywave/gltfpack/internal/scene"
)

const (
	colorComponentWhiteEpsilon = 0.01
	colorOverallWhiteFraction  = 0.99
	morphDeltaEpsilon          = 0.01
)

// usedTexcoordSets returns the set of texcoord indices referenced by any of
// mat's textures.
func usedTexcoordSets(mat *scene.Material) map[int]bool {
	used := map[int]bool{}
	add := func(ref scene.TextureRef) {
		if ref.Image >= 0 {
			used[ref.TexcoordSet] = true
		}
	}
	add(mat.BaseColor)
	add(mat.MetallicRough)
	add(mat.Normal)
	add(mat.Occlusion)
	add(mat.Emissive)
	add(mat.Diffuse)
	add(mat.SpecularGlossiness)
	add(mat.Clearcoat)
	add(mat.ClearcoatRoughnessTex)
	add(mat.ClearcoatNormal)
	return used
}

// FilterStreams drops streams the spec identifies as redundant: unreferenced
// UV sets, tangents without a normal map, joints/weights without a skin,
// near-white color streams, and morph-target normal/tangent deltas that are
// everywhere below threshold. mat may be nil for an unmaterialed primitive,
// in which case every texcoord/tangent stream is dropped (nothing can
// reference them).
func FilterStreams(p *scene.Primitive, mat *scene.Material) {
	var usedUV map[int]bool
	hasNormalMap := false
	if mat != nil {
		usedUV = usedTexcoordSets(mat)
		hasNormalMap = mat.Normal.Image >= 0
	} else {
		usedUV = map[int]bool{}
	}

	kept := p.Streams[:0]
	for _, s := range p.Streams {
		switch s.Semantic {
		case scene.Texcoord:
			if !usedUV[s.Index] {
				continue
			}
		case scene.Tangent:
			if !hasNormalMap {
				continue
			}
		case scene.Joints, scene.Weights:
			if p.Skin < 0 {
				continue
			}
		case scene.Color:
			if s.TargetIndex == 0 && isNearWhite(&s) {
				continue
			}
		}
		kept = append(kept, s)
	}
	p.Streams = kept

	dropNegligibleMorphDeltas(p, scene.Normal)
	dropNegligibleMorphDeltas(p, scene.Tangent)
}

func isNearWhite(s *scene.Stream) bool {
	if len(s.Data) == 0 {
		return true
	}
	within := 0
	for _, v := range s.Data {
		if abs32(v[0]-1) <= colorComponentWhiteEpsilon &&
			abs32(v[1]-1) <= colorComponentWhiteEpsilon &&
			abs32(v[2]-1) <= colorComponentWhiteEpsilon {
			within++
		}
	}
	return float64(within)/float64(len(s.Data)) >= colorOverallWhiteFraction
}

// dropNegligibleMorphDeltas removes every morph-target stream of the given
// semantic when the maximum absolute delta across all targets (and all
// vertices, all lanes) is below morphDeltaEpsilon.
func dropNegligibleMorphDeltas(p *scene.Primitive, sem scene.Semantic) {
	maxAbs := float32(0)
	hasAny := false
	for _, s := range p.Streams {
		if s.Semantic != sem || s.TargetIndex == 0 {
			continue
		}
		hasAny = true
		for _, v := range s.Data {
			for _, lane := range v {
				if abs32(lane) > maxAbs {
					maxAbs = abs32(lane)
				}
			}
		}
	}
	if !hasAny || maxAbs >= morphDeltaEpsilon {
		return
	}
	kept := p.Streams[:0]
	for _, s := range p.Streams {
		if s.Semantic == sem && s.TargetIndex != 0 {
			continue
		}
		kept = append(kept, s)
	}
	p.Streams = kept
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
