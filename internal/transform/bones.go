package transform

import (
	"sort"

	"github.com/flywave/gltfpack/internal/scene"
)

type boneInfluence struct {
	joint  int
	weight float32
}

// weightRepresentabilityThreshold is the smallest weight a 255-level
// quantized weight channel can represent; influences below it are dropped
// before ranking rather than kept and rounded to zero.
const weightRepresentabilityThreshold = 0.5 / 255

// ReduceBoneInfluences collapses every JOINTS_k/WEIGHTS_k stream pair on p
// into a single JOINTS_0/WEIGHTS_0 pair holding at most 4 influences per
// vertex: the 4 heaviest by weight, re-sorted by joint index ascending and
// zero-padded, matching the glTF convention that unused influence slots carry
// joint 0 with weight 0.
func ReduceBoneInfluences(p *scene.Primitive) {
	joints, weights := collectInfluenceStreams(p)
	if len(joints) == 0 {
		return
	}

	n := p.VertexCount()
	outJoints := make([]scene.Value, n)
	outWeights := make([]scene.Value, n)

	for v := 0; v < n; v++ {
		influences := make([]boneInfluence, 0, len(joints)*4)
		for g := range joints {
			jv := joints[g].Data[v]
			wv := weights[g].Data[v]
			for lane := 0; lane < 4; lane++ {
				if wv[lane] > weightRepresentabilityThreshold {
					influences = append(influences, boneInfluence{int(jv[lane] + 0.5), wv[lane]})
				}
			}
		}
		sort.Slice(influences, func(a, b int) bool { return influences[a].weight > influences[b].weight })
		if len(influences) > 4 {
			influences = influences[:4]
		}
		sort.Slice(influences, func(a, b int) bool { return influences[a].joint < influences[b].joint })

		var jout, wout scene.Value
		for lane, inf := range influences {
			jout[lane] = float32(inf.joint)
			wout[lane] = inf.weight
		}
		outJoints[v] = jout
		outWeights[v] = wout
	}

	kept := p.Streams[:0]
	for _, s := range p.Streams {
		if s.Semantic == scene.Joints || s.Semantic == scene.Weights {
			continue
		}
		kept = append(kept, s)
	}
	kept = append(kept,
		scene.Stream{Semantic: scene.Joints, Index: 0, Data: outJoints},
		scene.Stream{Semantic: scene.Weights, Index: 0, Data: outWeights},
	)
	p.Streams = kept
}

// maxInfluenceGroups bounds the JOINTS_k/WEIGHTS_k groups collected per
// vertex: 8 groups of 4 lanes each covers every influence a glTF asset can
// plausibly carry, and keeps the per-vertex candidate list collectInfluenceStreams
// feeds into the top-4 ranking bounded regardless of how many groups a
// malformed input declares.
const maxInfluenceGroups = 8

// collectInfluenceStreams pairs JOINTS_k with WEIGHTS_k by group index,
// dropping any group missing its counterpart, up to maxInfluenceGroups
// groups ordered by ascending group index.
func collectInfluenceStreams(p *scene.Primitive) (joints, weights []*scene.Stream) {
	jointByGroup := map[int]*scene.Stream{}
	weightByGroup := map[int]*scene.Stream{}
	for i := range p.Streams {
		s := &p.Streams[i]
		if s.TargetIndex != 0 {
			continue
		}
		switch s.Semantic {
		case scene.Joints:
			jointByGroup[s.Index] = s
		case scene.Weights:
			weightByGroup[s.Index] = s
		}
	}
	groups := make([]int, 0, len(jointByGroup))
	for g := range jointByGroup {
		if _, ok := weightByGroup[g]; ok {
			groups = append(groups, g)
		}
	}
	sort.Ints(groups)
	if len(groups) > maxInfluenceGroups {
		groups = groups[:maxInfluenceGroups]
	}
	for _, g := range groups {
		joints = append(joints, jointByGroup[g])
		weights = append(weights, weightByGroup[g])
	}
	return joints, weights
}
