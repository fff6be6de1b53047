package writer

import (
	"github.com/qmuntal/gltf"

	"github.com/flywave/gltfpack/internal/quant"
	"github.com/flywave/gltfpack/internal/scene"
	"github.com/flywave/gltfpack/internal/settings"
)

// meshGroupKey identifies the (node, skin, morph-set) tuple primitives must
// share to land in one output gltf.Mesh, per the writer's grouping rule.
type meshGroupKey struct {
	node int
	skin int
	targetCount int
}

// Assemble builds the complete gltf.Document for sc's kept entities,
// quantizing attributes per st unless st.NoQuantize is set. prims is the
// mesh transformer's surviving primitive list; animations have already
// passed through the animation processor.
func Assemble(sc *scene.Scene, info *scene.Info, prims []*scene.Primitive, animations []scene.Animation, st *settings.Settings) (*Document, []byte) {
	d := NewDocument(st.CompressBuffers && st.CompressFallback)

	nodeRemap := make([]int, len(sc.Nodes))
	for i := range nodeRemap {
		nodeRemap[i] = info.Nodes[i].Remap
	}
	imageRemap := make([]int, len(sc.Images))
	for i := range imageRemap {
		imageRemap[i] = info.Images[i].Remap
	}

	posParams := planGlobalPositions(prims, st.TexturePositionBits)
	texParamsByMaterial := planMaterialTexcoords(sc, prims, st.TextureUVBits)

	materialRemap := make([]int, len(sc.Materials))
	for i := range materialRemap {
		materialRemap[i] = -1
	}
	for i := range sc.Materials {
		if !info.Materials[i].Keep {
			continue
		}
		var scaleFn func(int) ([2]float64, [2]float64)
		if !st.NoQuantize {
			tp := texParamsByMaterial[i]
			scaleFn = func(set int) ([2]float64, [2]float64) {
				return [2]float64{float64(tp.Offset[0]), float64(tp.Offset[1])}, [2]float64{float64(tp.Scale[0]), float64(tp.Scale[1])}
			}
		}
		idx := d.WriteMaterial(&sc.Materials[i], imageRemap, scaleFn)
		materialRemap[i] = int(idx)
	}

	for i := range sc.Images {
		if !info.Images[i].Keep {
			continue
		}
		img := &sc.Images[i]
		basisu := st.TextureEncode && img.MimeType == "image/ktx2"
		idx := d.WriteImage(img.Data, img.MimeType, basisu)
		_ = idx
	}

	// EXT_mesh_gpu_instancing base meshes are emitted once and attached to
	// every instance node below, so their primitives are excluded from the
	// ordinary node-owned grouping here.
	instancedPrims := map[*scene.Primitive]bool{}
	for _, ig := range sc.Instances {
		for _, idx := range ig.MeshPrimitives {
			instancedPrims[&sc.Primitives[idx]] = true
		}
	}

	groups := map[meshGroupKey][]*scene.Primitive{}
	var order []meshGroupKey
	for _, p := range prims {
		if instancedPrims[p] {
			continue
		}
		skin := p.Skin
		key := meshGroupKey{node: p.Node, skin: skin, targetCount: p.TargetCount}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	meshByNode := map[int]uint32{}
	for _, key := range order {
		group := groups[key]
		mesh := &gltf.Mesh{}
		if len(group[0].TargetWeights) > 0 {
			weights := make([]float32, len(group[0].TargetWeights))
			copy(weights, group[0].TargetWeights)
			mesh.Weights = weights
		}
		pp := PrimParams{Position: posParams, NormalBits: st.NormalBits, NoQuantize: st.NoQuantize, Compress: st.CompressBuffers}
		for _, p := range group {
			pp.Texcoord = texcoordFor(texParamsByMaterial, p.Material, st.TextureUVBits)
			mesh.Primitives = append(mesh.Primitives, d.WritePrimitive(p, pp, remapForMaterial(materialRemap, p.Material)))
		}
		d.Doc.Meshes = append(d.Doc.Meshes, mesh)
		if key.node >= 0 {
			meshByNode[key.node] = uint32(len(d.Doc.Meshes) - 1)
		}
	}

	// EXT_mesh_gpu_instancing groups: primitives detached from any single
	// node (shared across every instance) get one mesh definition, attached
	// to every surviving instance node below rather than folded into the
	// node==-1 "detached" group above.
	for _, ig := range sc.Instances {
		var group []*scene.Primitive
		for _, idx := range ig.MeshPrimitives {
			for _, p := range prims {
				if p == &sc.Primitives[idx] {
					group = append(group, p)
					break
				}
			}
		}
		if len(group) == 0 {
			continue
		}
		mesh := &gltf.Mesh{}
		pp := PrimParams{Position: posParams, NormalBits: st.NormalBits, NoQuantize: st.NoQuantize, Compress: st.CompressBuffers}
		for _, p := range group {
			pp.Texcoord = texcoordFor(texParamsByMaterial, p.Material, st.TextureUVBits)
			mesh.Primitives = append(mesh.Primitives, d.WritePrimitive(p, pp, remapForMaterial(materialRemap, p.Material)))
		}
		d.Doc.Meshes = append(d.Doc.Meshes, mesh)
		meshIdx := uint32(len(d.Doc.Meshes) - 1)
		for _, n := range ig.Nodes {
			if info.Nodes[n].Keep {
				meshByNode[n] = meshIdx
			}
		}
	}

	skinRemap := make([]int, len(sc.Skins))
	for i := range sc.Skins {
		skinRemap[i] = -1
	}
	for i := range sc.Skins {
		if !skinUsed(prims, i) {
			continue
		}
		out := d.WriteSkin(&sc.Skins[i], nodeRemap)
		d.Doc.Skins = append(d.Doc.Skins, out)
		skinRemap[i] = len(d.Doc.Skins) - 1
	}

	cameraByNode := map[int]uint32{}
	for i := range sc.Nodes {
		if sc.Nodes[i].Camera >= 0 && info.Nodes[i].Keep {
			cameraByNode[i] = d.WriteCamera(&sc.Cameras[sc.Nodes[i].Camera])
		}
	}
	lightByNode := map[int]uint32{}
	for i := range sc.Nodes {
		if sc.Nodes[i].Light >= 0 && info.Nodes[i].Keep {
			lightByNode[i] = d.WriteLight(&sc.Lights[sc.Nodes[i].Light])
		}
	}

	outNodes := make([]*gltf.Node, countKept(info))
	for i := range sc.Nodes {
		if !info.Nodes[i].Keep {
			continue
		}
		var pp *quant.PositionParams
		if mIdx, ok := meshByNode[i]; ok && !st.NoQuantize {
			pp = &posParams
			_ = mIdx
		}
		node := d.WriteNode(&sc.Nodes[i], pp)
		if mIdx, ok := meshByNode[i]; ok {
			node.Mesh = gltf.Index(mIdx)
		}
		if sc.Nodes[i].Skin >= 0 && skinRemap[sc.Nodes[i].Skin] >= 0 {
			node.Skin = gltf.Index(uint32(skinRemap[sc.Nodes[i].Skin]))
		}
		if cam, ok := cameraByNode[i]; ok {
			node.Camera = gltf.Index(cam)
		}
		if lightIdx, ok := lightByNode[i]; ok {
			AttachLight(node, lightIdx)
		}
		for _, c := range sc.Nodes[i].Children {
			if info.Nodes[c].Keep {
				node.Children = append(node.Children, uint32(nodeRemap[c]))
			}
		}
		outNodes[nodeRemap[i]] = node
	}
	d.Doc.Nodes = outNodes

	var rootOut []uint32
	for _, r := range sc.RootNodes {
		if info.Nodes[r].Keep {
			rootOut = append(rootOut, uint32(nodeRemap[r]))
		}
	}
	d.Doc.Scenes = []*gltf.Scene{{Nodes: rootOut}}
	d.Doc.Scene = gltf.Index(0)

	tp := AnimQuantParams{TranslationBits: st.AnimTranslationBits, ScaleBits: st.AnimScaleBits, RotationBits: st.AnimRotationBits}
	for i := range animations {
		d.Doc.Animations = append(d.Doc.Animations, d.WriteAnimation(&animations[i], nodeRemap, tp, st.NoQuantize))
	}

	if sc.Extras != nil && st.KeepExtras {
		d.Doc.Extras = sc.Extras
	}

	if !st.NoQuantize && len(d.Doc.Meshes) > 0 {
		d.useRequiredExtension("KHR_mesh_quantization")
	}
	if st.CompressBuffers {
		if st.CompressFallback {
			d.useExtension("MESHOPT_compression")
		} else {
			d.useRequiredExtension("MESHOPT_compression")
		}
	}

	d.FinalizeBuffers()
	return d, d.Alloc.FallbackBlob()
}

// remapForMaterial resolves a primitive's output material index, tolerating
// the "no material" sentinel -1 rather than indexing materialRemap with it.
func remapForMaterial(materialRemap []int, m int) int {
	if m < 0 {
		return -1
	}
	return materialRemap[m]
}

// texcoordFor resolves a primitive's UV quantization params, falling back to
// the identity transform for primitives with no bound material.
func texcoordFor(texParamsByMaterial []quant.TexcoordParams, m, bits int) quant.TexcoordParams {
	if m < 0 {
		return quant.DefaultTexcoordParams(bits)
	}
	return texParamsByMaterial[m]
}

func countKept(info *scene.Info) int {
	n := 0
	for _, ni := range info.Nodes {
		if ni.Keep {
			n++
		}
	}
	return n
}

func skinUsed(prims []*scene.Primitive, skinIdx int) bool {
	for _, p := range prims {
		if p.Skin == skinIdx {
			return true
		}
	}
	return false
}

func planGlobalPositions(prims []*scene.Primitive, bits int) quant.PositionParams {
	var sets [][]scene.Value
	for _, p := range prims {
		if s := p.Stream(scene.Position, 0, 0); s != nil {
			sets = append(sets, s.Data)
		}
	}
	return quant.PlanPositions(sets, bits)
}

func planMaterialTexcoords(sc *scene.Scene, prims []*scene.Primitive, bits int) []quant.TexcoordParams {
	byMaterial := map[int][][]scene.Value{}
	for _, p := range prims {
		if p.Material < 0 {
			continue
		}
		if s := p.Stream(scene.Texcoord, 0, 0); s != nil {
			byMaterial[p.Material] = append(byMaterial[p.Material], s.Data)
		}
	}
	out := make([]quant.TexcoordParams, len(sc.Materials))
	for i := range sc.Materials {
		out[i] = quant.PlanTexcoord(byMaterial[i], bits)
	}
	return out
}
