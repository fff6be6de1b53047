// Package parse builds an internal/scene.Scene from an input file, one
// front end per supported format: glTF/GLB via qmuntal/gltf, and Wavefront
// OBJ via flywave/go-obj.
package parse

import (
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/flywave/gltfpack/internal/errs"
	"github.com/flywave/gltfpack/internal/scene"
)

// GLTF parses a .gltf or .glb file into a Scene.
func GLTF(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileNotFound, err, "open gltf")
	}
	return fromDocument(doc)
}

type gltfBuilder struct {
	doc       *gltf.Document
	sc        *scene.Scene
	parentMap map[int]int
	// nodePrims is not populated: mesh ownership is written to each
	// Primitive.Node, and EXT_mesh_gpu_instancing meshes become Scene.Instances.
	nodePrims map[int][]int
}

func fromDocument(doc *gltf.Document) (*scene.Scene, error) {
	if len(doc.Scenes) == 0 {
		return nil, errs.New(errs.InvalidScene, "no scenes in document")
	}
	b := &gltfBuilder{doc: doc, sc: &scene.Scene{}, parentMap: map[int]int{}}

	for i := range doc.Materials {
		m, err := b.material(i)
		if err != nil {
			return nil, err
		}
		b.sc.Materials = append(b.sc.Materials, *m)
	}
	for i := range doc.Images {
		img, err := b.image(i)
		if err != nil {
			return nil, err
		}
		b.sc.Images = append(b.sc.Images, *img)
	}

	b.buildParents()

	for i, nd := range doc.Nodes {
		n := scene.Node{
			Name:      nd.Name,
			Transform: nodeTransform(nd),
			Parent:    -1,
			Mesh:      -1,
			Skin:      -1,
			Camera:    -1,
			Light:     -1,
		}
		if p, ok := b.parentMap[i]; ok {
			n.Parent = p
		}
		if nd.Skin != nil {
			n.Skin = int(*nd.Skin)
		}
		if nd.Camera != nil {
			n.Camera = int(*nd.Camera)
		}
		if ext, ok := nd.Extensions["KHR_lights_punctual"]; ok {
			n.Light = lightIndex(ext)
		}
		if nd.Extras != nil {
			if raw, err := json.Marshal(nd.Extras); err == nil {
				n.Extras = raw
			}
		}
		b.sc.Nodes = append(b.sc.Nodes, n)
	}
	for i, nd := range doc.Nodes {
		for _, c := range nd.Children {
			b.sc.Nodes[i].Children = append(b.sc.Nodes[i].Children, int(c))
		}
	}

	for i := range doc.Skins {
		sk, err := b.skin(i)
		if err != nil {
			return nil, err
		}
		b.sc.Skins = append(b.sc.Skins, *sk)
	}
	for i := range doc.Cameras {
		b.sc.Cameras = append(b.sc.Cameras, camera(doc.Cameras[i]))
	}
	if raw, ok := doc.Extensions["KHR_lights_punctual"]; ok {
		lights, err := parseLights(raw)
		if err != nil {
			return nil, err
		}
		b.sc.Lights = lights
	}

	instancedMesh := map[int]bool{}
	for _, nd := range doc.Nodes {
		if nd.Mesh == nil {
			continue
		}
		if _, ok := nd.Extensions["EXT_mesh_gpu_instancing"]; ok {
			instancedMesh[int(*nd.Mesh)] = true
		}
	}

	meshPrimStart := map[int]int{}
	for mi := range doc.Meshes {
		meshPrimStart[mi] = len(b.sc.Primitives)
		prims, err := b.mesh(mi)
		if err != nil {
			return nil, err
		}
		b.sc.Primitives = append(b.sc.Primitives, prims...)
	}

	for ni, nd := range doc.Nodes {
		if nd.Mesh == nil {
			continue
		}
		mi := int(*nd.Mesh)
		start := meshPrimStart[mi]
		count := len(doc.Meshes[mi].Primitives)
		if instancedMesh[mi] {
			continue
		}
		for k := 0; k < count; k++ {
			b.sc.Primitives[start+k].Node = ni
		}
		b.sc.Nodes[ni].Mesh = mi
	}

	for mi, isInst := range instancedMesh {
		if !isInst {
			continue
		}
		start := meshPrimStart[mi]
		count := len(doc.Meshes[mi].Primitives)
		var primIdx []int
		for k := 0; k < count; k++ {
			primIdx = append(primIdx, start+k)
		}
		var nodes []int
		for ni, nd := range doc.Nodes {
			if nd.Mesh != nil && int(*nd.Mesh) == mi {
				nodes = append(nodes, ni)
			}
		}
		b.sc.Instances = append(b.sc.Instances, scene.InstanceGroup{MeshPrimitives: primIdx, Nodes: nodes})
	}

	for i := range doc.Animations {
		a, err := b.animation(i)
		if err != nil {
			return nil, err
		}
		b.sc.Animations = append(b.sc.Animations, *a)
	}

	for _, r := range doc.Scenes[0].Nodes {
		b.sc.RootNodes = append(b.sc.RootNodes, int(r))
	}
	if doc.Extras != nil {
		if raw, err := json.Marshal(doc.Extras); err == nil {
			b.sc.Extras = raw
		}
	}

	return b.sc, nil
}

func (b *gltfBuilder) buildParents() {
	for i, nd := range b.doc.Nodes {
		for _, c := range nd.Children {
			b.parentMap[int(c)] = i
		}
	}
}

func nodeTransform(nd *gltf.Node) scene.Transform {
	if nd.Matrix != [16]float32{} {
		var m [16]float64
		for i, v := range nd.Matrix {
			m[i] = float64(v)
		}
		return scene.Transform{HasMatrix: true, Matrix: m}
	}
	t := scene.IdentityTransform()
	if nd.Translation != [3]float32{} {
		t.Translation = toVec3d(nd.Translation)
	}
	if nd.Scale != [3]float32{} {
		t.Scale = toVec3d(nd.Scale)
	} else {
		t.Scale = [3]float64{1, 1, 1}
	}
	if nd.Rotation != [4]float32{} {
		for i, v := range nd.Rotation {
			t.Rotation[i] = float64(v)
		}
	}
	return t
}

func toVec3d(v [3]float32) [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (b *gltfBuilder) mesh(mi int) ([]scene.Primitive, error) {
	mh := b.doc.Meshes[mi]
	var out []scene.Primitive
	for _, ps := range mh.Primitives {
		p := scene.Primitive{Material: -1, Skin: -1, Node: -1, Topology: scene.Triangles}
		if ps.Mode == gltf.PrimitivePoints {
			p.Topology = scene.Points
		}
		if ps.Material != nil {
			p.Material = int(*ps.Material)
		}
		if ps.Indices != nil {
			idx, err := modeler.ReadIndices(b.doc, b.doc.Accessors[*ps.Indices], nil)
			if err != nil {
				return nil, errs.Wrap(errs.InvalidScene, err, "read indices")
			}
			p.Indices = idx
		}
		if err := b.readAttributes(&p, ps.Attributes, 0); err != nil {
			return nil, err
		}
		p.TargetCount = len(ps.Targets)
		for ti, target := range ps.Targets {
			if err := b.readAttributes(&p, target, ti+1); err != nil {
				return nil, err
			}
		}
		p.TargetWeights = append(p.TargetWeights, mh.Weights...)
		if ps.Extras != nil {
			if raw, err := json.Marshal(ps.Extras); err == nil {
				p.Extras = raw
			}
		}
		if p.Indices == nil && len(p.Streams) > 0 {
			p.Indices = sequentialIndices(p.VertexCount())
		}
		out = append(out, p)
	}
	return out, nil
}

func sequentialIndices(n int) []uint32 {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

func (b *gltfBuilder) readAttributes(p *scene.Primitive, attrs map[string]uint32, target int) error {
	read := func(sem scene.Semantic, index int, accIdx uint32, lanes int) error {
		data, err := readValues(b.doc, b.doc.Accessors[accIdx], lanes)
		if err != nil {
			return err
		}
		p.Streams = append(p.Streams, scene.Stream{Semantic: sem, Index: index, TargetIndex: target, Data: data})
		return nil
	}
	if acc, ok := attrs["POSITION"]; ok {
		if err := read(scene.Position, 0, acc, 3); err != nil {
			return err
		}
	}
	if acc, ok := attrs["NORMAL"]; ok {
		if err := read(scene.Normal, 0, acc, 3); err != nil {
			return err
		}
	}
	if acc, ok := attrs["TANGENT"]; ok {
		if err := read(scene.Tangent, 0, acc, 4); err != nil {
			return err
		}
	}
	for set := 0; ; set++ {
		key := "TEXCOORD_" + itoa(set)
		acc, ok := attrs[key]
		if !ok {
			break
		}
		if err := read(scene.Texcoord, set, acc, 2); err != nil {
			return err
		}
	}
	for set := 0; ; set++ {
		key := "COLOR_" + itoa(set)
		acc, ok := attrs[key]
		if !ok {
			break
		}
		if err := read(scene.Color, set, acc, 4); err != nil {
			return err
		}
	}
	for set := 0; ; set++ {
		key := "JOINTS_" + itoa(set)
		acc, ok := attrs[key]
		if !ok {
			break
		}
		if err := read(scene.Joints, set, acc, 4); err != nil {
			return err
		}
	}
	for set := 0; ; set++ {
		key := "WEIGHTS_" + itoa(set)
		acc, ok := attrs[key]
		if !ok {
			break
		}
		if err := read(scene.Weights, set, acc, 4); err != nil {
			return err
		}
	}
	return nil
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	digits := []byte{}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

// readValues reads an accessor's raw components through modeler and widens
// them into the pipeline's 4-wide scene.Value, filling unused lanes with 0,
// except that a 3-component value read into 4 lanes (a VEC3 COLOR_n) gets
// an alpha of 1.
func readValues(doc *gltf.Document, acc *gltf.Accessor, lanes int) ([]scene.Value, error) {
	raw, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidScene, err, "read accessor")
	}
	out := make([]scene.Value, acc.Count)
	switch v := raw.(type) {
	case [][3]float32:
		w := float32(0)
		if lanes == 4 {
			w = 1
		}
		for i, c := range v {
			out[i] = scene.Value{c[0], c[1], c[2], w}
		}
	case [][4]float32:
		for i, c := range v {
			out[i] = scene.Value{c[0], c[1], c[2], c[3]}
		}
	case [][2]float32:
		for i, c := range v {
			out[i] = scene.Value{c[0], c[1], 0, 0}
		}
	case [][4]uint16:
		for i, c := range v {
			out[i] = scene.Value{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
	case [][4]uint8:
		for i, c := range v {
			out[i] = scene.Value{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
	default:
		return nil, errs.New(errs.UnsupportedExtension, fmt.Sprintf("unsupported accessor layout for %d lanes", lanes))
	}
	return out, nil
}

func (b *gltfBuilder) material(mi int) (*scene.Material, error) {
	mt := b.doc.Materials[mi]
	m := &scene.Material{Name: mt.Name, AlphaMode: string(mt.AlphaMode), AlphaCutoff: 0.5, DoubleSided: mt.DoubleSided}
	if mt.AlphaCutoff != nil {
		m.AlphaCutoff = *mt.AlphaCutoff
	}
	m.BaseColorFactor = [4]float32{1, 1, 1, 1}
	m.MetallicFactor = 1
	m.RoughnessFactor = 1
	if mt.PBRMetallicRoughness != nil {
		pbr := mt.PBRMetallicRoughness
		if pbr.BaseColorFactor != nil {
			m.BaseColorFactor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			m.MetallicFactor = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			m.RoughnessFactor = *pbr.RoughnessFactor
		}
		m.BaseColor = b.textureRefOf(pbr.BaseColorTexture)
		m.MetallicRough = b.textureRefOf(pbr.MetallicRoughnessTexture)
	}
	if mt.NormalTexture != nil && mt.NormalTexture.Index != nil {
		m.Normal = scene.TextureRef{Image: imageOfTexture(b.doc, *mt.NormalTexture.Index), TexcoordSet: int(mt.NormalTexture.TexCoord)}
	}
	if mt.OcclusionTexture != nil && mt.OcclusionTexture.Index != nil {
		m.Occlusion = scene.TextureRef{Image: imageOfTexture(b.doc, *mt.OcclusionTexture.Index), TexcoordSet: int(mt.OcclusionTexture.TexCoord)}
	}
	if mt.EmissiveTexture != nil {
		m.Emissive = b.textureRefOf(mt.EmissiveTexture)
	}
	m.EmissiveFactor = mt.EmissiveFactor
	if _, ok := mt.Extensions["KHR_materials_unlit"]; ok {
		m.Unlit = true
	}
	if raw, ok := mt.Extensions["KHR_materials_pbrSpecularGlossiness"]; ok {
		if err := b.parseSpecularGlossiness(raw, m); err != nil {
			return nil, err
		}
	}
	if raw, ok := mt.Extensions["KHR_materials_clearcoat"]; ok {
		if err := b.parseClearcoat(raw, m); err != nil {
			return nil, err
		}
	}
	if mt.Extras != nil {
		if raw, err := json.Marshal(mt.Extras); err == nil {
			m.Extras = raw
		}
	}
	return m, nil
}

func (b *gltfBuilder) textureRefOf(ti *gltf.TextureInfo) scene.TextureRef {
	if ti == nil {
		return scene.TextureRef{Image: -1}
	}
	ref := scene.TextureRef{TexcoordSet: int(ti.TexCoord)}
	ref.Image = imageOfTexture(b.doc, ti.Index)
	if raw, ok := ti.Extensions["KHR_texture_transform"]; ok {
		if m, ok := raw.(map[string]interface{}); ok {
			ref.HasTransform = true
			if off, ok := m["offset"].([]interface{}); ok && len(off) == 2 {
				ref.Offset = [2]float64{toF64(off[0]), toF64(off[1])}
			}
			if sc, ok := m["scale"].([]interface{}); ok && len(sc) == 2 {
				ref.Scale = [2]float64{toF64(sc[0]), toF64(sc[1])}
			}
		}
	}
	return ref
}

func toF64(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

func imageOfTexture(doc *gltf.Document, texIdx uint32) int {
	if doc == nil || int(texIdx) >= len(doc.Textures) {
		return -1
	}
	tex := doc.Textures[texIdx]
	if tex.Source == nil {
		return -1
	}
	return int(*tex.Source)
}

func (b *gltfBuilder) image(ii int) (*scene.Image, error) {
	img := b.doc.Images[ii]
	out := &scene.Image{MimeType: img.MimeType, URI: img.URI}
	if img.BufferView != nil {
		bv := b.doc.BufferViews[*img.BufferView]
		buf := b.doc.Buffers[bv.Buffer]
		out.Data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	}
	return out, nil
}

func (b *gltfBuilder) skin(si int) (*scene.Skin, error) {
	sk := b.doc.Skins[si]
	out := &scene.Skin{Skeleton: -1}
	for _, j := range sk.Joints {
		out.Joints = append(out.Joints, int(j))
	}
	if sk.Skeleton != nil {
		out.Skeleton = int(*sk.Skeleton)
	}
	if sk.InverseBindMatrices != nil {
		raw, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[*sk.InverseBindMatrices], nil)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidScene, err, "read inverse bind matrices")
		}
		mats, ok := raw.([][16]float32)
		if !ok {
			return nil, errs.New(errs.InvalidScene, "inverse bind matrices not mat4")
		}
		for _, m := range mats {
			var md [16]float64
			for i, v := range m {
				md[i] = float64(v)
			}
			out.InverseBindMatrix = append(out.InverseBindMatrix, md)
		}
	}
	return out, nil
}

func camera(c *gltf.Camera) scene.Camera {
	out := scene.Camera{Name: c.Name}
	if c.Orthographic != nil {
		out.Orthographic = true
		out.Xmag = float64(c.Orthographic.Xmag)
		out.Ymag = float64(c.Orthographic.Ymag)
		out.Znear = float64(c.Orthographic.Znear)
		out.Zfar = float64(c.Orthographic.Zfar)
	} else if c.Perspective != nil {
		out.Yfov = float64(c.Perspective.Yfov)
		out.Znear = float64(c.Perspective.Znear)
		if c.Perspective.Zfar != nil {
			out.Zfar = float64(*c.Perspective.Zfar)
		}
		if c.Perspective.AspectRatio != nil {
			out.Aspect = float64(*c.Perspective.AspectRatio)
		}
	}
	return out
}

func parseLights(raw interface{}) ([]scene.Light, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Lights []struct {
			Name      string     `json:"name"`
			Type      string     `json:"type"`
			Color     [3]float32 `json:"color"`
			Intensity float32    `json:"intensity"`
			Range     float64    `json:"range"`
			Spot      struct {
				InnerConeAngle float64 `json:"innerConeAngle"`
				OuterConeAngle float64 `json:"outerConeAngle"`
			} `json:"spot"`
		} `json:"lights"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, errs.Wrap(errs.InvalidJSON, err, "parse KHR_lights_punctual")
	}
	out := make([]scene.Light, len(wrapper.Lights))
	for i, l := range wrapper.Lights {
		lt := scene.LightDirectional
		switch l.Type {
		case "point":
			lt = scene.LightPoint
		case "spot":
			lt = scene.LightSpot
		}
		color := l.Color
		if color == [3]float32{} {
			color = [3]float32{1, 1, 1}
		}
		intensity := l.Intensity
		if intensity == 0 {
			intensity = 1
		}
		out[i] = scene.Light{
			Name: l.Name, Type: lt, Color: color, Intensity: intensity,
			Range: l.Range, InnerCone: l.Spot.InnerConeAngle, OuterCone: l.Spot.OuterConeAngle,
		}
	}
	return out, nil
}

func lightIndex(raw interface{}) int {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return -1
	}
	if v, ok := m["light"].(float64); ok {
		return int(v)
	}
	return -1
}

func (b *gltfBuilder) parseSpecularGlossiness(raw interface{}, m *scene.Material) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var sg struct {
		DiffuseFactor            *[4]float32      `json:"diffuseFactor"`
		SpecularFactor           *[3]float32      `json:"specularFactor"`
		GlossinessFactor         *float32         `json:"glossinessFactor"`
		DiffuseTexture           *gltf.TextureInfo `json:"diffuseTexture"`
		SpecularGlossinessTexture *gltf.TextureInfo `json:"specularGlossinessTexture"`
	}
	if err := json.Unmarshal(data, &sg); err != nil {
		return errs.Wrap(errs.InvalidJSON, err, "parse KHR_materials_pbrSpecularGlossiness")
	}
	m.HasSpecularGlossiness = true
	m.DiffuseFactor = [4]float32{1, 1, 1, 1}
	m.SpecularFactor = [3]float32{1, 1, 1}
	m.GlossinessFactor = 1
	if sg.DiffuseFactor != nil {
		m.DiffuseFactor = *sg.DiffuseFactor
	}
	if sg.SpecularFactor != nil {
		m.SpecularFactor = *sg.SpecularFactor
	}
	if sg.GlossinessFactor != nil {
		m.GlossinessFactor = *sg.GlossinessFactor
	}
	m.Diffuse = b.textureRefOf(sg.DiffuseTexture)
	m.SpecularGlossiness = b.textureRefOf(sg.SpecularGlossinessTexture)
	return nil
}

func (b *gltfBuilder) parseClearcoat(raw interface{}, m *scene.Material) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var cc struct {
		ClearcoatFactor          *float32          `json:"clearcoatFactor"`
		ClearcoatRoughnessFactor *float32          `json:"clearcoatRoughnessFactor"`
		ClearcoatTexture         *gltf.TextureInfo `json:"clearcoatTexture"`
		ClearcoatRoughnessTexture *gltf.TextureInfo `json:"clearcoatRoughnessTexture"`
		ClearcoatNormalTexture   *gltf.TextureInfo `json:"clearcoatNormalTexture"`
	}
	if err := json.Unmarshal(data, &cc); err != nil {
		return errs.Wrap(errs.InvalidJSON, err, "parse KHR_materials_clearcoat")
	}
	m.HasClearcoat = true
	if cc.ClearcoatFactor != nil {
		m.ClearcoatFactor = *cc.ClearcoatFactor
	}
	if cc.ClearcoatRoughnessFactor != nil {
		m.ClearcoatRoughness = *cc.ClearcoatRoughnessFactor
	}
	m.Clearcoat = b.textureRefOf(cc.ClearcoatTexture)
	m.ClearcoatRoughnessTex = b.textureRefOf(cc.ClearcoatRoughnessTexture)
	m.ClearcoatNormal = b.textureRefOf(cc.ClearcoatNormalTexture)
	return nil
}

func (b *gltfBuilder) animation(ai int) (*scene.Animation, error) {
	a := b.doc.Animations[ai]
	out := &scene.Animation{Name: a.Name}
	for _, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		sampler := a.Samplers[*ch.Sampler]
		input, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[sampler.Input], nil)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidScene, err, "read animation input")
		}
		times, ok := input.([]float32)
		if !ok {
			return nil, errs.New(errs.InvalidScene, "animation input not scalar")
		}
		path, comps := trackPath(ch.Target.Path)
		raw, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[sampler.Output], nil)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidScene, err, "read animation output")
		}
		output, err := flattenOutput(raw, comps)
		if err != nil {
			return nil, err
		}
		interp := scene.Linear
		switch sampler.Interpolation {
		case gltf.InterpolationStep:
			interp = scene.Step
		case gltf.InterpolationCubicSpline:
			interp = scene.CubicSpline
		}
		if path == scene.PathWeights && len(times) > 0 {
			// One weight per morph target per keyframe (three values per
			// keyframe for cubic spline: in-tangent, value, out-tangent).
			perKey := len(output) / len(times)
			if interp == scene.CubicSpline {
				perKey /= 3
			}
			if perKey > 0 {
				comps = perKey
			}
		}
		out.Tracks = append(out.Tracks, scene.Track{
			TargetNode: int(*ch.Target.Node), Path: path, Interpolation: interp,
			Components: comps, Input: times, Output: output,
		})
	}
	return out, nil
}

func trackPath(p gltf.TRSProperty) (scene.TargetPath, int) {
	switch p {
	case gltf.TRSRotation:
		return scene.PathRotation, 4
	case gltf.TRSScale:
		return scene.PathScale, 3
	case gltf.TRSWeights:
		return scene.PathWeights, 1
	default:
		return scene.PathTranslation, 3
	}
}

func flattenOutput(raw interface{}, comps int) ([]float32, error) {
	switch v := raw.(type) {
	case []float32:
		return v, nil
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, c := range v {
			out = append(out, c[0], c[1], c[2])
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, c := range v {
			out = append(out, c[0], c[1], c[2], c[3])
		}
		return out, nil
	default:
		return nil, errs.New(errs.InvalidScene, "unsupported animation output layout")
	}
}
