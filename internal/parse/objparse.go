package parse

import (
	"os"
	"path/filepath"

	gobj "github.com/flywave/go-obj"
	"github.com/flywave/go3d/vec3"

	"github.com/flywave/gltfpack/internal/errs"
	"github.com/flywave/gltfpack/internal/scene"
	"github.com/flywave/gltfpack/internal/texture"
)

// OBJ parses a Wavefront .obj (plus its sibling .mtl, if referenced) into a
// Scene: one root node holding one primitive per material group, faces
// fan-triangulated, one vertex emitted per face corner with no deduplication
// (the mesh transformer's Reindex pass coalesces identical vertices).
func OBJ(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.FileNotFound, err, "open obj")
	}
	defer file.Close()

	reader := &gobj.ObjReader{}
	if err := reader.Read(file); err != nil {
		return nil, errs.Wrap(errs.InvalidScene, err, "read obj")
	}

	dir := filepath.Dir(path)
	materials := loadMaterials(reader, dir)

	sc := &scene.Scene{}
	sc.Nodes = append(sc.Nodes, scene.Node{
		Name:      filepath.Base(path),
		Transform: scene.IdentityTransform(),
		Parent:    -1,
		Mesh:      -1, Skin: -1, Camera: -1, Light: -1,
	})
	sc.RootNodes = []int{0}

	groups := map[string][][3]gobj.FaceCorner{}
	var order []string
	for _, face := range reader.F {
		name := face.Material
		if name == "" {
			name = "default"
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		for _, tri := range triangulate(face.Corners) {
			groups[name] = append(groups[name], tri)
		}
	}
	if len(order) == 0 {
		return sc, nil
	}

	materialIndex := map[string]int{}
	imageByPath := map[string]int{}

	for _, name := range order {
		tris := groups[name]
		p := scene.Primitive{Topology: scene.Triangles, Skin: -1, Node: 0}

		var positions, normals, texcoords []scene.Value
		for _, tri := range tris {
			var facePos [3]scene.Value
			for i, c := range tri {
				facePos[i] = cornerPosition(reader, c)
			}
			normal := faceNormal(facePos)
			for _, c := range tri {
				positions = append(positions, cornerPosition(reader, c))
				texcoords = append(texcoords, cornerTexcoord(reader, c))
				if c.NormalIndex >= 0 && c.NormalIndex < len(reader.VN) {
					normals = append(normals, scene.Vec3ToValue(reader.VN[c.NormalIndex]))
				} else {
					normals = append(normals, normal)
				}
			}
		}
		p.Streams = append(p.Streams,
			scene.Stream{Semantic: scene.Position, Data: positions},
			scene.Stream{Semantic: scene.Normal, Data: normals},
			scene.Stream{Semantic: scene.Texcoord, Data: texcoords},
		)
		p.Indices = sequentialIndices(len(positions))

		matIdx, ok := materialIndex[name]
		if !ok {
			mat := materialFor(name, materials[name], dir, sc, imageByPath)
			sc.Materials = append(sc.Materials, mat)
			matIdx = len(sc.Materials) - 1
			materialIndex[name] = matIdx
		}
		p.Material = matIdx
		sc.Primitives = append(sc.Primitives, p)
	}

	return sc, nil
}

func loadMaterials(reader *gobj.ObjReader, dir string) map[string]*gobj.Material {
	if reader.MTL == "" {
		return nil
	}
	path := reader.MTL
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	mats, err := gobj.ReadMaterials(path)
	if err != nil {
		return nil
	}
	return mats
}

func triangulate(corners []gobj.FaceCorner) [][3]gobj.FaceCorner {
	if len(corners) < 3 {
		return nil
	}
	var tris [][3]gobj.FaceCorner
	for i := 1; i < len(corners)-1; i++ {
		tris = append(tris, [3]gobj.FaceCorner{corners[0], corners[i], corners[i+1]})
	}
	return tris
}

func cornerPosition(reader *gobj.ObjReader, c gobj.FaceCorner) scene.Value {
	if c.VertexIndex >= 0 && c.VertexIndex < len(reader.V) {
		return scene.Vec3ToValue(reader.V[c.VertexIndex])
	}
	return scene.Value{}
}

func cornerTexcoord(reader *gobj.ObjReader, c gobj.FaceCorner) scene.Value {
	if c.TexCoordIndex >= 0 && c.TexCoordIndex < len(reader.VT) {
		return scene.Vec2ToValue(reader.VT[c.TexCoordIndex])
	}
	return scene.Value{}
}

func faceNormal(p [3]scene.Value) scene.Value {
	e1 := vec3.T{p[1][0] - p[0][0], p[1][1] - p[0][1], p[1][2] - p[0][2]}
	e2 := vec3.T{p[2][0] - p[0][0], p[2][1] - p[0][1], p[2][2] - p[0][2]}
	n := vec3.Cross(&e1, &e2)
	length := n.Length()
	if length == 0 {
		return scene.Value{0, 1, 0, 0}
	}
	return scene.Value{n[0] / length, n[1] / length, n[2] / length, 0}
}

// materialFor converts a go-obj MTL entry into a scene.Material, embedding
// any referenced texture files as Images.
func materialFor(name string, m *gobj.Material, dir string, sc *scene.Scene, imageByPath map[string]int) scene.Material {
	out := scene.Material{
		Name:            name,
		BaseColorFactor: [4]float32{0.8, 0.8, 0.8, 1},
		MetallicFactor:  0,
		RoughnessFactor: 1,
		AlphaMode:       "OPAQUE",
		AlphaCutoff:     0.5,
		BaseColor:       scene.TextureRef{Image: -1},
		MetallicRough:   scene.TextureRef{Image: -1},
		Normal:          scene.TextureRef{Image: -1},
		Occlusion:       scene.TextureRef{Image: -1},
		Emissive:        scene.TextureRef{Image: -1},
	}
	if m == nil {
		return out
	}
	if len(m.Diffuse) >= 3 {
		out.BaseColorFactor = [4]float32{m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], 1}
	}
	out.AlphaCutoff = 0.5
	if m.Opacity > 0 {
		out.BaseColorFactor[3] = float32(m.Opacity)
		if m.Opacity < 1 {
			out.AlphaMode = "BLEND"
		}
	}
	if len(m.Emissive) >= 3 {
		out.EmissiveFactor = [3]float32{m.Emissive[0], m.Emissive[1], m.Emissive[2]}
	}
	if m.Metallic > 0 || m.Roughness > 0 {
		out.MetallicFactor = m.Metallic
		out.RoughnessFactor = m.Roughness
	} else if m.Shininess > 0 {
		out.RoughnessFactor = shininessToRoughness(m.Shininess)
	}
	imageIdx := func(texPath string) int {
		if texPath == "" {
			return -1
		}
		full := resolveTexturePath(dir, texPath)
		if idx, ok := imageByPath[full]; ok {
			return idx
		}
		img, err := texture.Load(full)
		if err != nil {
			return -1
		}
		sc.Images = append(sc.Images, *img)
		idx := len(sc.Images) - 1
		imageByPath[full] = idx
		return idx
	}
	if idx := imageIdx(m.DiffuseTexture); idx >= 0 {
		out.BaseColor = scene.TextureRef{Image: idx}
	}
	if idx := imageIdx(m.BumpTexture); idx >= 0 {
		out.Normal = scene.TextureRef{Image: idx}
	}
	if idx := imageIdx(m.EmissiveTexture); idx >= 0 {
		out.Emissive = scene.TextureRef{Image: idx}
	}
	return out
}

func resolveTexturePath(dir, texPath string) string {
	full := filepath.Join(dir, texPath)
	if _, err := os.Stat(full); err == nil {
		return full
	}
	return filepath.Join(dir, filepath.Base(texPath))
}

// shininessToRoughness approximates a Phong specular exponent as a PBR
// roughness value, since OBJ/MTL has no direct equivalent.
func shininessToRoughness(shininess float64) float32 {
	r := 1 / (1 + shininess/64)
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}
	return float32(r)
}
