// Package anim implements the animation processor: resampling every track
// to a uniform rate and eliminating tracks that carry no information beyond
// a single constant value.
package anim

import (
	"github.com/flywave/go3d/float64/quaternion"

	"github.com/flywave/gltfpack/internal/scene"
)

// TimeRange returns the common [start, end] time base across every track in
// a, or (0, 0) if a has no tracks.
func TimeRange(a *scene.Animation) (start, end float32) {
	first := true
	for _, t := range a.Tracks {
		if len(t.Input) == 0 {
			continue
		}
		s, e := t.Input[0], t.Input[len(t.Input)-1]
		if first {
			start, end = s, e
			first = false
			continue
		}
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	return start, end
}

// Resample rewrites every track in a to a shared uniform time base running
// from start to end at rate samples per second, sampling each track with its
// own declared interpolation (linear with slerp for rotations, step held,
// cubic spline evaluated with the glTF in/out-tangent convention) and
// re-emitting every track as linear, except step tracks which stay step.
func Resample(a *scene.Animation, start, end, rate float32) {
	if rate <= 0 {
		rate = 30
	}
	step := 1 / rate
	n := int((end-start)/step) + 1
	if n < 1 {
		n = 1
	}
	times := make([]float32, n)
	for i := range times {
		times[i] = start + float32(i)*step
	}
	if n > 0 {
		times[n-1] = end
	}

	for i := range a.Tracks {
		t := &a.Tracks[i]
		resampleTrack(t, times)
	}
}

func resampleTrack(t *scene.Track, times []float32) {
	if t.Interpolation == scene.Step {
		out := make([]float32, len(times)*t.Components)
		for i, tm := range times {
			v := sampleStep(t, tm)
			copy(out[i*t.Components:], v)
		}
		t.Input = times
		t.Output = out
		return
	}

	out := make([]float32, len(times)*t.Components)
	for i, tm := range times {
		var v []float32
		if t.Path == scene.PathRotation {
			v = sampleRotation(t, tm)
		} else {
			v = sampleLinearOrSpline(t, tm)
		}
		copy(out[i*t.Components:], v)
	}
	t.Input = times
	t.Output = out
	t.Interpolation = scene.Linear
}

// keyframeBracket locates the pair of input samples bracketing tm, returning
// their indices and the linear interpolation factor between them.
func keyframeBracket(input []float32, tm float32) (i0, i1 int, frac float32) {
	if len(input) == 1 {
		return 0, 0, 0
	}
	if tm <= input[0] {
		return 0, 0, 0
	}
	if tm >= input[len(input)-1] {
		last := len(input) - 1
		return last, last, 0
	}
	for i := 1; i < len(input); i++ {
		if input[i] >= tm {
			span := input[i] - input[i-1]
			if span <= 0 {
				return i - 1, i, 0
			}
			return i - 1, i, (tm - input[i-1]) / span
		}
	}
	last := len(input) - 1
	return last, last, 0
}

func sampleStep(t *scene.Track, tm float32) []float32 {
	i0, _, _ := keyframeBracket(t.Input, tm)
	return t.Output[i0*t.Components : (i0+1)*t.Components]
}

func sampleLinearOrSpline(t *scene.Track, tm float32) []float32 {
	i0, i1, frac := keyframeBracket(t.Input, tm)
	out := make([]float32, t.Components)
	if t.Interpolation != scene.CubicSpline {
		a := t.Output[i0*t.Components : (i0+1)*t.Components]
		b := t.Output[i1*t.Components : (i1+1)*t.Components]
		for c := range out {
			out[c] = a[c] + (b[c]-a[c])*frac
		}
		return out
	}

	// Cubic spline: each sample occupies 3*Components (in-tangent, value,
	// out-tangent), per glTF's convention.
	stride := t.Components * 3
	span := t.Input[i1] - t.Input[i0]
	if i0 == i1 {
		span = 0
	}
	for c := 0; c < t.Components; c++ {
		v0 := t.Output[i0*stride+t.Components+c]
		outTan0 := t.Output[i0*stride+2*t.Components+c] * span
		inTan1 := t.Output[i1*stride+c] * span
		v1 := t.Output[i1*stride+t.Components+c]
		out[c] = hermite(v0, outTan0, v1, inTan1, frac)
	}
	return out
}

func hermite(p0, m0, p1, m1, t float32) float32 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*p0 + h10*m0 + h01*p1 + h11*m1
}

func sampleRotation(t *scene.Track, tm float32) []float32 {
	i0, i1, frac := keyframeBracket(t.Input, tm)
	if t.Interpolation == scene.CubicSpline {
		return sampleLinearOrSpline(t, tm)
	}
	a := t.Output[i0*4 : i0*4+4]
	b := t.Output[i1*4 : i1*4+4]
	return slerp(a, b, frac)
}

func slerp(a, b []float32, t float32) []float32 {
	qa := quaternion.T{float64(a[0]), float64(a[1]), float64(a[2]), float64(a[3])}
	qb := quaternion.T{float64(b[0]), float64(b[1]), float64(b[2]), float64(b[3])}
	q := quaternion.Slerp(&qa, &qb, float64(t))
	q.Normalize()
	return []float32{float32(q[0]), float32(q[1]), float32(q[2]), float32(q[3])}
}
