package anim

import "github.com/flywave/gltfpack/internal/scene"

const (
	translationConstEpsilon = 1e-5
	rotationConstDot        = 1 - 1e-5
	weightsConstEpsilon     = 1e-3
)

// IsConstant reports whether every sample in t's output is indistinguishable
// from the first sample, using the epsilon appropriate to the track's path.
func IsConstant(t *scene.Track) bool {
	n := len(t.Input)
	if n <= 1 {
		return true
	}
	first := t.Output[0:t.Components]
	for i := 1; i < n; i++ {
		sample := t.Output[i*t.Components : (i+1)*t.Components]
		if !sampleEqual(t.Path, first, sample) {
			return false
		}
	}
	return true
}

func sampleEqual(path scene.TargetPath, a, b []float32) bool {
	switch path {
	case scene.PathRotation:
		dot := float64(a[0])*float64(b[0]) + float64(a[1])*float64(b[1]) +
			float64(a[2])*float64(b[2]) + float64(a[3])*float64(b[3])
		if dot < 0 {
			dot = -dot
		}
		return dot >= rotationConstDot
	case scene.PathWeights:
		for i := range a {
			if abs32(a[i]-b[i]) >= weightsConstEpsilon {
				return false
			}
		}
		return true
	default: // translation, scale
		for i := range a {
			if abs32(a[i]-b[i]) >= translationConstEpsilon {
				return false
			}
		}
		return true
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// restPoseEqual reports whether a track's constant value matches node's
// rest-pose transform on the same path, the condition under which the
// track can be dropped entirely rather than kept as a single sample.
func restPoseEqual(t *scene.Track, node *scene.Node) bool {
	first := t.Output[0:t.Components]
	switch t.Path {
	case scene.PathTranslation:
		for i := 0; i < 3; i++ {
			if abs32(first[i]-float32(node.Transform.Translation[i])) >= translationConstEpsilon {
				return false
			}
		}
		return true
	case scene.PathScale:
		for i := 0; i < 3; i++ {
			if abs32(first[i]-float32(node.Transform.Scale[i])) >= translationConstEpsilon {
				return false
			}
		}
		return true
	case scene.PathRotation:
		rest := [4]float32{
			float32(node.Transform.Rotation[0]), float32(node.Transform.Rotation[1]),
			float32(node.Transform.Rotation[2]), float32(node.Transform.Rotation[3]),
		}
		return sampleEqual(scene.PathRotation, first, rest[:])
	default: // weights: no single rest pose to compare, never eligible for drop
		return false
	}
}

// EliminateConstants collapses every track in a that is constant to a
// single sample, then drops tracks whose constant value matches the
// target node's rest pose unless keepConstant is set.
func EliminateConstants(a *scene.Animation, sc *scene.Scene, keepConstant bool) {
	kept := a.Tracks[:0]
	for _, t := range a.Tracks {
		if len(t.Input) > 0 && IsConstant(&t) {
			t.Input = t.Input[:1]
			t.Output = t.Output[:t.Components]
			t.Interpolation = scene.Step

			if !keepConstant && t.TargetNode >= 0 && t.TargetNode < len(sc.Nodes) {
				if restPoseEqual(&t, &sc.Nodes[t.TargetNode]) {
					continue
				}
			}
		}
		kept = append(kept, t)
	}
	a.Tracks = kept
}
