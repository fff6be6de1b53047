package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/scene"
)

func textureRef(d *Document, imageRemap []int, ref scene.TextureRef, texcoordScale func(set int) (offset, scale [2]float64)) *gltf.TextureInfo {
	if ref.Image < 0 || imageRemap[ref.Image] < 0 {
		return nil
	}
	tex := d.textureFor(uint32(imageRemap[ref.Image]))
	info := &gltf.TextureInfo{Index: tex, TexCoord: uint32(ref.TexcoordSet)}

	if texcoordScale != nil {
		offset, scale := texcoordScale(ref.TexcoordSet)
		info.Extensions = gltf.Extensions{
			"KHR_texture_transform": map[string]interface{}{
				"offset": [2]float64{offset[0], offset[1]},
				"scale":  [2]float64{scale[0], scale[1]},
			},
		}
		d.useExtension("KHR_texture_transform")
	}
	return info
}

// textureFor returns (creating if needed) the texture index sourcing image
// imgIdx through a shared default sampler.
func (d *Document) textureFor(imgIdx uint32) *uint32 {
	if d.textureByImage == nil {
		d.textureByImage = map[uint32]uint32{}
	}
	if idx, ok := d.textureByImage[imgIdx]; ok {
		return gltf.Index(idx)
	}
	if len(d.Doc.Samplers) == 0 {
		d.Doc.Samplers = append(d.Doc.Samplers, &gltf.Sampler{})
	}
	tex := &gltf.Texture{Sampler: gltf.Index(0)}
	if d.basisuImages[imgIdx] {
		tex.Extensions = gltf.Extensions{
			"KHR_texture_basisu": map[string]interface{}{"source": imgIdx},
		}
		d.useExtension("KHR_texture_basisu")
	} else {
		tex.Source = gltf.Index(imgIdx)
	}
	d.Doc.Textures = append(d.Doc.Textures, tex)
	idx := uint32(len(d.Doc.Textures) - 1)
	d.textureByImage[imgIdx] = idx
	return gltf.Index(idx)
}

// WriteMaterial emits mat's JSON fragment, resolving texture references
// through imageRemap (old image index -> new, or -1 if dropped) and
// attaching the per-material UV transform from texcoordScale.
func (d *Document) WriteMaterial(mat *scene.Material, imageRemap []int, texcoordScale func(int) ([2]float64, [2]float64)) uint32 {
	m := &gltf.Material{
		Name:        mat.Name,
		AlphaMode:   alphaMode(mat.AlphaMode),
		AlphaCutoff: gltf.Float(mat.AlphaCutoff),
		DoubleSided: mat.DoubleSided,
	}
	m.EmissiveFactor = mat.EmissiveFactor

	var tcScale func(set int) (offset, scale [2]float64)
	if texcoordScale != nil {
		tcScale = func(set int) (offset, scale [2]float64) { return texcoordScale(set) }
	}

	m.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{
		BaseColorFactor: &mat.BaseColorFactor,
		MetallicFactor:  gltf.Float(mat.MetallicFactor),
		RoughnessFactor: gltf.Float(mat.RoughnessFactor),
		BaseColorTexture:         textureRef(d, imageRemap, mat.BaseColor, tcScale),
		MetallicRoughnessTexture: textureRef(d, imageRemap, mat.MetallicRough, tcScale),
	}
	if ref := textureRef(d, imageRemap, mat.Normal, tcScale); ref != nil {
		m.NormalTexture = &gltf.NormalTexture{Index: ref.Index, TexCoord: ref.TexCoord, Extensions: ref.Extensions}
	}
	if ref := textureRef(d, imageRemap, mat.Occlusion, tcScale); ref != nil {
		m.OcclusionTexture = &gltf.OcclusionTexture{Index: ref.Index, TexCoord: ref.TexCoord, Extensions: ref.Extensions}
	}
	m.EmissiveTexture = textureRef(d, imageRemap, mat.Emissive, tcScale)

	if mat.Unlit {
		if m.Extensions == nil {
			m.Extensions = gltf.Extensions{}
		}
		m.Extensions["KHR_materials_unlit"] = map[string]interface{}{}
		d.useExtension("KHR_materials_unlit")
	}

	if mat.HasSpecularGlossiness {
		if m.Extensions == nil {
			m.Extensions = gltf.Extensions{}
		}
		ext := map[string]interface{}{
			"diffuseFactor":    mat.DiffuseFactor,
			"specularFactor":   mat.SpecularFactor,
			"glossinessFactor": mat.GlossinessFactor,
		}
		if ref := textureRef(d, imageRemap, mat.Diffuse, tcScale); ref != nil {
			ext["diffuseTexture"] = ref
		}
		if ref := textureRef(d, imageRemap, mat.SpecularGlossiness, tcScale); ref != nil {
			ext["specularGlossinessTexture"] = ref
		}
		m.Extensions["KHR_materials_pbrSpecularGlossiness"] = ext
		d.useExtension("KHR_materials_pbrSpecularGlossiness")
	}

	if mat.HasClearcoat {
		if m.Extensions == nil {
			m.Extensions = gltf.Extensions{}
		}
		ext := map[string]interface{}{
			"clearcoatFactor":          mat.ClearcoatFactor,
			"clearcoatRoughnessFactor": mat.ClearcoatRoughness,
		}
		if ref := textureRef(d, imageRemap, mat.Clearcoat, tcScale); ref != nil {
			ext["clearcoatTexture"] = ref
		}
		if ref := textureRef(d, imageRemap, mat.ClearcoatRoughnessTex, tcScale); ref != nil {
			ext["clearcoatRoughnessTexture"] = ref
		}
		if ref := textureRef(d, imageRemap, mat.ClearcoatNormal, tcScale); ref != nil {
			ext["clearcoatNormalTexture"] = ref
		}
		m.Extensions["KHR_materials_clearcoat"] = ext
		d.useExtension("KHR_materials_clearcoat")
	}

	if mat.Extras != nil {
		m.Extras = mat.Extras
	}

	d.Doc.Materials = append(d.Doc.Materials, m)
	return uint32(len(d.Doc.Materials) - 1)
}

func alphaMode(s string) gltf.AlphaMode {
	switch s {
	case "BLEND":
		return gltf.AlphaBlend
	case "MASK":
		return gltf.AlphaMask
	default:
		return gltf.AlphaOpaque
	}
}

func (d *Document) useExtension(name string) {
	for _, e := range d.Doc.ExtensionsUsed {
		if e == name {
			return
		}
	}
	d.Doc.ExtensionsUsed = append(d.Doc.ExtensionsUsed, name)
}

// useRequiredExtension marks name as both used and required: a conformant
// reader must understand it to load the asset at all (KHR_mesh_quantization,
// and MESHOPT_compression unless a fallback buffer is present).
func (d *Document) useRequiredExtension(name string) {
	d.useExtension(name)
	for _, e := range d.Doc.ExtensionsRequired {
		if e == name {
			return
		}
	}
	d.Doc.ExtensionsRequired = append(d.Doc.ExtensionsRequired, name)
}
