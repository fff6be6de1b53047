package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
)

var pathName = map[scene.TargetPath]gltf.TRSProperty{
	scene.PathTranslation: gltf.TRSTranslation,
	scene.PathRotation:    gltf.TRSRotation,
	scene.PathScale:       gltf.TRSScale,
	scene.PathWeights:     gltf.TRSWeights,
}

var interpName = map[scene.Interpolation]gltf.Interpolation{
	scene.Linear:      gltf.InterpolationLinear,
	scene.Step:        gltf.InterpolationStep,
	scene.CubicSpline: gltf.InterpolationCubicSpline,
}

// WriteAnimation emits a's JSON fragment: one shared input-time accessor
// (every track shares the same resampled time base) plus one output sample
// accessor per track, quantizing translation/scale/rotation per settings
// unless noQuantize is set.
func (d *Document) WriteAnimation(a *scene.Animation, nodeRemap []int, tp AnimQuantParams, noQuantize bool) *gltf.Animation {
	out := &gltf.Animation{Name: a.Name}
	if len(a.Tracks) == 0 {
		return out
	}

	timeAcc := d.writeTimeAccessor(a.Tracks[0].Input)

	for _, t := range a.Tracks {
		outAcc := d.writeTrackOutput(&t, tp, noQuantize)
		samplerIdx := uint32(len(out.Samplers))
		out.Samplers = append(out.Samplers, &gltf.AnimationSampler{
			Input:         timeAcc,
			Output:        outAcc,
			Interpolation: interpName[t.Interpolation],
		})
		node := uint32(0)
		if t.TargetNode >= 0 {
			node = uint32(nodeRemap[t.TargetNode])
		}
		out.Channels = append(out.Channels, &gltf.AnimationChannel{
			Sampler: samplerIdx,
			Target: gltf.AnimationChannelTarget{
				Node: gltf.Index(node),
				Path: pathName[t.Path],
			},
		})
	}
	return out
}

func (d *Document) writeTimeAccessor(input []float32) uint32 {
	raw := float32LE(input)
	min := []float32{input[0]}
	max := []float32{input[len(input)-1]}
	return d.WriteAccessorValue(KindTime, gltf.ComponentFloat, gltf.AccessorScalar, len(input), 4, false, raw, min, max)
}

// AnimQuantParams bundles the bit widths used for animation output
// quantization; rotation quantization additionally needs no bounds since
// smallest-three is self-normalizing.
type AnimQuantParams struct {
	TranslationBits int
	ScaleBits       int
	RotationBits    int
}

func (d *Document) writeTrackOutput(t *scene.Track, tp AnimQuantParams, noQuantize bool) uint32 {
	switch t.Path {
	case scene.PathRotation:
		return d.writeRotationOutput(t, tp.RotationBits, noQuantize)
	case scene.PathWeights:
		raw := float32LE(t.Output)
		return d.WriteAccessorValue(KindKeyframe, gltf.ComponentFloat, gltf.AccessorScalar, len(t.Output), 4, false, raw, nil, nil)
	default:
		bits := tp.TranslationBits
		if t.Path == scene.PathScale {
			bits = tp.ScaleBits
		}
		return d.writeVec3Output(t, bits, noQuantize)
	}
}

func (d *Document) writeVec3Output(t *scene.Track, bits int, noQuantize bool) uint32 {
	n := len(t.Output) / 3
	if noQuantize {
		raw := float32LE(t.Output)
		return d.WriteAccessorValue(KindKeyframe, gltf.ComponentFloat, gltf.AccessorVec3, n, 12, false, raw, nil, nil)
	}

	params := quant.PlanTrack(t.Output, bits)
	raw := make([]byte, n*6)
	for i := 0; i < n; i++ {
		v := [3]float32{t.Output[i*3], t.Output[i*3+1], t.Output[i*3+2]}
		q := params.Quantize(v)
		for a := 0; a < 3; a++ {
			off := i*6 + a*2
			qv := uint16(q[a])
			raw[off] = byte(qv)
			raw[off+1] = byte(qv >> 8)
		}
	}
	return d.WriteAccessorValue(KindKeyframe, gltf.ComponentUshort, gltf.AccessorVec3, n, 6, false, raw, nil, nil)
}

func (d *Document) writeRotationOutput(t *scene.Track, bits int, noQuantize bool) uint32 {
	n := len(t.Output) / 4
	if noQuantize {
		raw := float32LE(t.Output)
		return d.WriteAccessorValue(KindKeyframe, gltf.ComponentFloat, gltf.AccessorVec4, n, 16, false, raw, nil, nil)
	}

	raw := make([]byte, n*8)
	for i := 0; i < n; i++ {
		q := [4]float32{t.Output[i*4], t.Output[i*4+1], t.Output[i*4+2], t.Output[i*4+3]}
		dropped, kept := quant.EncodeSmallestThree(q)
		qi := [3]int32{
			quant.QuantizeSmallestThree(kept[0], bits),
			quant.QuantizeSmallestThree(kept[1], bits),
			quant.QuantizeSmallestThree(kept[2], bits),
		}
		dsign := int16(1)
		_ = dropped
		off := i * 8
		for a := 0; a < 3; a++ {
			uv := uint16(int16(qi[a]))
			raw[off+a*2] = byte(uv)
			raw[off+a*2+1] = byte(uv >> 8)
		}
		// fourth lane records which component was dropped, packed with its
		// sign in a byte pair so decode can reconstruct without extra state.
		drec := int16(dropped)*256 + dsign
		raw[off+6] = byte(drec)
		raw[off+7] = byte(drec >> 8)
	}
	return d.WriteAccessorValue(KindKeyframe, gltf.ComponentShort, gltf.AccessorVec4, n, 8, false, raw, nil, nil)
}
