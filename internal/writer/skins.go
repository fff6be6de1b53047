package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/scene"
)

// WriteSkin emits s's JSON fragment, translating joint node indices through
// nodeRemap (old index -> new) and writing the inverse-bind-matrix accessor
// when present.
func (d *Document) WriteSkin(s *scene.Skin, nodeRemap []int) *gltf.Skin {
	out := &gltf.Skin{}
	for _, j := range s.Joints {
		out.Joints = append(out.Joints, uint32(nodeRemap[j]))
	}
	if s.Skeleton >= 0 {
		out.Skeleton = gltf.Index(uint32(nodeRemap[s.Skeleton]))
	}
	if len(s.InverseBindMatrix) > 0 {
		raw := make([]byte, 0, len(s.InverseBindMatrix)*64)
		for _, m := range s.InverseBindMatrix {
			f32 := make([]float32, 16)
			for i, v := range m {
				f32[i] = float32(v)
			}
			raw = append(raw, float32LE(f32)...)
		}
		acc := d.WriteAccessorValue(KindSkin, gltf.ComponentFloat, gltf.AccessorMat4, len(s.InverseBindMatrix), 64, false, raw, nil, nil)
		out.InverseBindMatrices = gltf.Index(acc)
	}
	return out
}
