package anim

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func approxEqual32(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestTimeRangeAcrossTracks(t *testing.T) {
	a := &scene.Animation{
		Tracks: []scene.Track{
			{Input: []float32{0, 1, 2}},
			{Input: []float32{0.5, 3}},
		},
	}
	start, end := TimeRange(a)
	if start != 0 || end != 3 {
		t.Fatalf("range = (%g,%g), want (0,3)", start, end)
	}
}

func TestTimeRangeEmptyAnimation(t *testing.T) {
	start, end := TimeRange(&scene.Animation{})
	if start != 0 || end != 0 {
		t.Fatalf("range = (%g,%g), want (0,0)", start, end)
	}
}

func TestResampleLinearTrackInterpolatesBetweenKeyframes(t *testing.T) {
	a := &scene.Animation{
		Tracks: []scene.Track{
			{
				Path: scene.PathTranslation, Components: 3, Interpolation: scene.Linear,
				Input:  []float32{0, 2},
				Output: []float32{0, 0, 0, 2, 2, 2},
			},
		},
	}
	Resample(a, 0, 2, 2) // 2Hz over [0,2] -> samples at 0, 0.5, 1, 1.5, 2
	out := a.Tracks[0].Output
	n := len(a.Tracks[0].Input)
	if n != 5 {
		t.Fatalf("sample count = %d, want 5", n)
	}
	mid := out[2*3 : 2*3+3] // sample at t=1.0, halfway
	if !approxEqual32(mid[0], 1, 1e-4) {
		t.Fatalf("midpoint interpolation = %v, want ~1", mid)
	}
}

func TestResampleStepTrackHoldsValue(t *testing.T) {
	a := &scene.Animation{
		Tracks: []scene.Track{
			{
				Path: scene.PathTranslation, Components: 3, Interpolation: scene.Step,
				Input:  []float32{0, 1},
				Output: []float32{0, 0, 0, 5, 5, 5},
			},
		},
	}
	Resample(a, 0, 1, 4)
	out := a.Tracks[0].Output
	// any sample strictly before t=1 should hold the first keyframe's value.
	if out[0] != 0 || out[1] != 0 || out[2] != 0 {
		t.Fatalf("step sample at t=0 = %v, want (0,0,0)", out[0:3])
	}
}

func TestResampleRotationUsesSlerpAndStaysUnitLength(t *testing.T) {
	a := &scene.Animation{
		Tracks: []scene.Track{
			{
				Path: scene.PathRotation, Components: 4, Interpolation: scene.Linear,
				Input:  []float32{0, 1},
				Output: []float32{0, 0, 0, 1, 0.7071068, 0, 0, 0.7071068},
			},
		},
	}
	Resample(a, 0, 1, 2)
	out := a.Tracks[0].Output
	for i := 0; i < len(out)/4; i++ {
		q := out[i*4 : i*4+4]
		lenSq := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
		if !approxEqual32(lenSq, 1, 1e-3) {
			t.Errorf("sample %d not unit length: |q|^2 = %g", i, lenSq)
		}
	}
}

func TestResampleCubicSplineHermiteAtKeyframeMatchesValue(t *testing.T) {
	// three-component cubic spline track with zero tangents: value at the
	// keyframes themselves must equal the stored value regardless of tangent.
	a := &scene.Animation{
		Tracks: []scene.Track{
			{
				Path: scene.PathScale, Components: 3, Interpolation: scene.CubicSpline,
				Input: []float32{0, 1},
				// each sample is [inTangent(3), value(3), outTangent(3)]
				Output: []float32{
					0, 0, 0, 1, 1, 1, 0, 0, 0,
					0, 0, 0, 2, 2, 2, 0, 0, 0,
				},
			},
		},
	}
	Resample(a, 0, 1, 1) // samples at exactly t=0 and t=1
	out := a.Tracks[0].Output
	if !approxEqual32(out[0], 1, 1e-4) {
		t.Fatalf("value at t=0 = %v, want 1", out[0:3])
	}
	last := out[len(out)-3:]
	if !approxEqual32(last[0], 2, 1e-4) {
		t.Fatalf("value at t=1 = %v, want 2", last)
	}
}

func TestKeyframeBracketClampsBeyondRange(t *testing.T) {
	input := []float32{0, 1, 2}
	if i0, i1, frac := keyframeBracket(input, -1); i0 != 0 || i1 != 0 || frac != 0 {
		t.Fatalf("before range = (%d,%d,%g), want (0,0,0)", i0, i1, frac)
	}
	if i0, i1, _ := keyframeBracket(input, 5); i0 != 2 || i1 != 2 {
		t.Fatalf("after range = (%d,%d), want (2,2)", i0, i1)
	}
}
