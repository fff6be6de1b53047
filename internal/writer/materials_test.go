package writer

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/scene"
)

func noScale(int) ([2]float64, [2]float64) { return [2]float64{}, [2]float64{1, 1} }

func TestWriteMaterialBasicPBR(t *testing.T) {
	d := NewDocument(false)
	mat := &scene.Material{
		Name:            "Body",
		BaseColorFactor: [4]float32{1, 0, 0, 1},
		MetallicFactor:  0.5,
		RoughnessFactor: 0.8,
		BaseColor:       scene.TextureRef{Image: -1},
		MetallicRough:   scene.TextureRef{Image: -1},
		Normal:          scene.TextureRef{Image: -1},
		Occlusion:       scene.TextureRef{Image: -1},
		Emissive:        scene.TextureRef{Image: -1},
		AlphaMode:       "OPAQUE",
	}
	idx := d.WriteMaterial(mat, nil, noScale)

	m := d.Doc.Materials[idx]
	if m.Name != "Body" {
		t.Fatalf("name = %q, want Body", m.Name)
	}
	if m.PBRMetallicRoughness.BaseColorTexture != nil {
		t.Fatalf("expected no base color texture when Image == -1")
	}
	if m.AlphaMode != gltf.AlphaOpaque {
		t.Fatalf("alpha mode = %v, want opaque", m.AlphaMode)
	}
}

func TestWriteMaterialCreatesTextureAndSamplerOnce(t *testing.T) {
	d := NewDocument(false)
	mat := &scene.Material{
		BaseColor:     scene.TextureRef{Image: 0, TexcoordSet: 0},
		MetallicRough: scene.TextureRef{Image: 0, TexcoordSet: 0},
		Normal:        scene.TextureRef{Image: -1},
		Occlusion:     scene.TextureRef{Image: -1},
		Emissive:      scene.TextureRef{Image: -1},
	}
	imageRemap := []int{0}
	d.WriteMaterial(mat, imageRemap, noScale)

	if len(d.Doc.Samplers) != 1 {
		t.Fatalf("samplers = %d, want 1 (shared default sampler)", len(d.Doc.Samplers))
	}
	if len(d.Doc.Textures) != 1 {
		t.Fatalf("textures = %d, want 1 (both refs share the same image)", len(d.Doc.Textures))
	}
}

func TestWriteMaterialBasisuTextureUsesExtension(t *testing.T) {
	d := NewDocument(false)
	d.basisuImages = map[uint32]bool{0: true}
	mat := &scene.Material{
		BaseColor:     scene.TextureRef{Image: 0},
		MetallicRough: scene.TextureRef{Image: -1},
		Normal:        scene.TextureRef{Image: -1},
		Occlusion:     scene.TextureRef{Image: -1},
		Emissive:      scene.TextureRef{Image: -1},
	}
	d.WriteMaterial(mat, []int{0}, noScale)

	tex := d.Doc.Textures[0]
	if tex.Source != nil {
		t.Fatalf("basisu texture should not set Source directly")
	}
	if _, ok := tex.Extensions["KHR_texture_basisu"]; !ok {
		t.Fatalf("basisu texture missing KHR_texture_basisu extension")
	}
	found := false
	for _, e := range d.Doc.ExtensionsUsed {
		if e == "KHR_texture_basisu" {
			found = true
		}
	}
	if !found {
		t.Fatalf("KHR_texture_basisu not recorded in extensionsUsed")
	}
}

func TestWriteMaterialUnlitExtension(t *testing.T) {
	d := NewDocument(false)
	mat := &scene.Material{
		Unlit:         true,
		BaseColor:     scene.TextureRef{Image: -1},
		MetallicRough: scene.TextureRef{Image: -1},
		Normal:        scene.TextureRef{Image: -1},
		Occlusion:     scene.TextureRef{Image: -1},
		Emissive:      scene.TextureRef{Image: -1},
	}
	idx := d.WriteMaterial(mat, nil, noScale)
	m := d.Doc.Materials[idx]
	if _, ok := m.Extensions["KHR_materials_unlit"]; !ok {
		t.Fatalf("missing KHR_materials_unlit extension")
	}
}

func TestWriteMaterialSpecularGlossinessExtension(t *testing.T) {
	d := NewDocument(false)
	mat := &scene.Material{
		HasSpecularGlossiness: true,
		DiffuseFactor:         [4]float32{1, 1, 1, 1},
		SpecularFactor:        [3]float32{1, 1, 1},
		GlossinessFactor:      0.5,
		Diffuse:               scene.TextureRef{Image: -1},
		SpecularGlossiness:    scene.TextureRef{Image: -1},
		BaseColor:             scene.TextureRef{Image: -1},
		MetallicRough:         scene.TextureRef{Image: -1},
		Normal:                scene.TextureRef{Image: -1},
		Occlusion:             scene.TextureRef{Image: -1},
		Emissive:              scene.TextureRef{Image: -1},
	}
	idx := d.WriteMaterial(mat, nil, noScale)
	m := d.Doc.Materials[idx]
	ext, ok := m.Extensions["KHR_materials_pbrSpecularGlossiness"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing KHR_materials_pbrSpecularGlossiness extension")
	}
	if ext["glossinessFactor"] != float32(0.5) {
		t.Fatalf("glossinessFactor = %v, want 0.5", ext["glossinessFactor"])
	}
}

func TestWriteMaterialClearcoatExtension(t *testing.T) {
	d := NewDocument(false)
	mat := &scene.Material{
		HasClearcoat:       true,
		ClearcoatFactor:    1,
		ClearcoatRoughness: 0.3,
		Clearcoat:          scene.TextureRef{Image: -1},
		ClearcoatRoughnessTex: scene.TextureRef{Image: -1},
		ClearcoatNormal:       scene.TextureRef{Image: -1},
		BaseColor:             scene.TextureRef{Image: -1},
		MetallicRough:         scene.TextureRef{Image: -1},
		Normal:                scene.TextureRef{Image: -1},
		Occlusion:             scene.TextureRef{Image: -1},
		Emissive:              scene.TextureRef{Image: -1},
	}
	idx := d.WriteMaterial(mat, nil, noScale)
	m := d.Doc.Materials[idx]
	if _, ok := m.Extensions["KHR_materials_clearcoat"]; !ok {
		t.Fatalf("missing KHR_materials_clearcoat extension")
	}
}
