// Package mark implements the scene marker: reachability-based keep-flags
// for nodes, materials, and images, ancestor reparenting of pruned nodes,
// and consecutive output-index assignment.
package mark

import "github.com/flywave/gltfpack/internal/scene"

// MarkMaterialsAndImages computes keep-flags for every material and image referenced,
// directly or transitively, by a primitive in prims, writing them into
// info.
func MarkMaterialsAndImages(sc *scene.Scene, prims []*scene.Primitive, info *scene.Info) {
	for _, p := range prims {
		if p.Material >= 0 {
			info.Materials[p.Material].Keep = true
		}
	}
	for i := range sc.Materials {
		if !info.Materials[i].Keep {
			continue
		}
		for _, img := range materialImages(&sc.Materials[i]) {
			if img >= 0 {
				info.Images[img].Keep = true
			}
		}
	}
}

func materialImages(m *scene.Material) []int {
	return []int{
		m.BaseColor.Image, m.MetallicRough.Image, m.Normal.Image,
		m.Occlusion.Image, m.Emissive.Image, m.Diffuse.Image,
		m.SpecularGlossiness.Image, m.Clearcoat.Image,
		m.ClearcoatRoughnessTex.Image, m.ClearcoatNormal.Image,
	}
}

// MarkNodes computes each node's keep-flag per the reachability rule: a node
// is kept if it owns a kept primitive, is a joint of a kept skin, is an
// animation target of a surviving track, is an ancestor of a kept node, or
// keepNamed is set and it has a non-empty name.
func MarkNodes(sc *scene.Scene, prims []*scene.Primitive, animations []scene.Animation, info *scene.Info, keepNamed bool) {
	keep := make([]bool, len(sc.Nodes))

	for _, p := range prims {
		if p.Node >= 0 {
			keep[p.Node] = true
		}
	}
	for i, skin := range sc.Skins {
		if !skinKept(sc, prims, i) {
			continue
		}
		for _, j := range skin.Joints {
			keep[j] = true
		}
	}
	for _, a := range animations {
		for _, t := range a.Tracks {
			if t.TargetNode >= 0 {
				keep[t.TargetNode] = true
			}
		}
	}
	if len(sc.Instances) > 0 {
		survived := make(map[*scene.Primitive]bool, len(prims))
		for _, p := range prims {
			survived[p] = true
		}
		for _, ig := range sc.Instances {
			alive := false
			for _, idx := range ig.MeshPrimitives {
				if survived[&sc.Primitives[idx]] {
					alive = true
					break
				}
			}
			if !alive {
				continue
			}
			for _, n := range ig.Nodes {
				keep[n] = true
			}
		}
	}
	if keepNamed {
		for i := range sc.Nodes {
			if sc.Nodes[i].Name != "" {
				keep[i] = true
			}
		}
	}

	// Propagate to ancestors: a node with a kept descendant is kept too.
	changed := true
	for changed {
		changed = false
		for i := range sc.Nodes {
			if !keep[i] {
				continue
			}
			p := sc.Nodes[i].Parent
			if p >= 0 && !keep[p] {
				keep[p] = true
				changed = true
			}
		}
	}

	for i, k := range keep {
		info.Nodes[i].Keep = k
	}
}

func skinKept(sc *scene.Scene, prims []*scene.Primitive, skinIdx int) bool {
	for _, p := range prims {
		if p.Skin == skinIdx {
			return true
		}
	}
	return false
}

// PruneAndReparent removes every node whose keep-flag is false, composing
// its local transform into each surviving child's local transform and
// reattaching the children to the pruned node's own (kept) ancestor. It
// must run after MarkNodes. Primitive and track node references are
// rewritten in place to the new attachment point.
func PruneAndReparent(sc *scene.Scene, prims []*scene.Primitive, animations []scene.Animation, info *scene.Info) {
	effectiveParent := make([]int, len(sc.Nodes))
	for i := range sc.Nodes {
		effectiveParent[i] = i
	}

	// Process in an order where a node's parent has already been resolved:
	// a simple fixed-point pass suffices since parent indices always
	// precede in a well-formed traversal order, but we don't assume that.
	resolved := make([]bool, len(sc.Nodes))
	var resolve func(i int) int
	resolve = func(i int) int {
		if resolved[i] {
			return effectiveParent[i]
		}
		resolved[i] = true
		if info.Nodes[i].Keep {
			effectiveParent[i] = i
			return i
		}
		p := sc.Nodes[i].Parent
		if p < 0 {
			effectiveParent[i] = -1
			return -1
		}
		anchor := resolve(p)
		effectiveParent[i] = anchor
		return anchor
	}
	for i := range sc.Nodes {
		resolve(i)
	}

	// A pruned node's own transform may itself need folding with a pruned
	// ancestor's before it can be composed into its children (a chain of two
	// or more pruned nodes), so composedTransform resolves that chain
	// on demand rather than relying on sc.Nodes being visited in any
	// particular order, mirroring resolve's memoization above.
	composed := make([]scene.Transform, len(sc.Nodes))
	composedResolved := make([]bool, len(sc.Nodes))
	var composedTransform func(i int) *scene.Transform
	composedTransform = func(i int) *scene.Transform {
		if composedResolved[i] {
			return &composed[i]
		}
		composedResolved[i] = true
		t := sc.Nodes[i].Transform
		p := sc.Nodes[i].Parent
		if p >= 0 && !info.Nodes[p].Keep {
			m := ComposeIntoMatrix(composedTransform(p), &t)
			t = scene.Transform{HasMatrix: true, Matrix: m}
		}
		composed[i] = t
		return &composed[i]
	}

	for i := range sc.Nodes {
		if info.Nodes[i].Keep {
			continue
		}
		pt := composedTransform(i)
		for _, childIdx := range sc.Nodes[i].Children {
			m := ComposeIntoMatrix(pt, &sc.Nodes[childIdx].Transform)
			sc.Nodes[childIdx].Transform = scene.Transform{HasMatrix: true, Matrix: m}
			sc.Nodes[childIdx].Parent = effectiveParent[i]
		}
	}

	rewireChildren(sc, info)

	for _, p := range prims {
		if p.Node >= 0 {
			p.Node = resolveAnchor(sc, info, p.Node)
		}
	}
	for i := range animations {
		for j := range animations[i].Tracks {
			t := &animations[i].Tracks[j]
			if t.TargetNode >= 0 {
				t.TargetNode = resolveAnchor(sc, info, t.TargetNode)
			}
		}
	}
}

func resolveAnchor(sc *scene.Scene, info *scene.Info, node int) int {
	for node >= 0 && !info.Nodes[node].Keep {
		node = sc.Nodes[node].Parent
	}
	return node
}

// rewireChildren rebuilds every surviving node's Children list from the
// current Parent pointers, since PruneAndReparent only updated Parent.
func rewireChildren(sc *scene.Scene, info *scene.Info) {
	for i := range sc.Nodes {
		if info.Nodes[i].Keep {
			sc.Nodes[i].Children = nil
		}
	}
	for i := range sc.Nodes {
		if !info.Nodes[i].Keep {
			continue
		}
		p := sc.Nodes[i].Parent
		if p >= 0 && info.Nodes[p].Keep {
			sc.Nodes[p].Children = append(sc.Nodes[p].Children, i)
		}
	}
}

// AssignOutputIndices walks root to leaf in traversal order over kept nodes,
// and in table order for materials and images, assigning consecutive output
// indices into each info record's Remap field.
func AssignOutputIndices(sc *scene.Scene, info *scene.Info) {
	next := 0
	var visit func(i int)
	visit = func(i int) {
		if !info.Nodes[i].Keep {
			return
		}
		info.Nodes[i].Remap = next
		next++
		for _, c := range sc.Nodes[i].Children {
			visit(c)
		}
	}
	for _, r := range sc.RootNodes {
		visit(r)
	}
	// Any kept node unreachable from RootNodes (shouldn't occur in a
	// well-formed scene, but the parser's root list may be incomplete)
	// still receives an index so nothing is silently dropped from output.
	for i := range sc.Nodes {
		if info.Nodes[i].Keep && info.Nodes[i].Remap < 0 {
			info.Nodes[i].Remap = next
			next++
		}
	}

	next = 0
	for i := range sc.Materials {
		if info.Materials[i].Keep {
			info.Materials[i].Remap = next
			next++
		}
	}
	next = 0
	for i := range sc.Images {
		if info.Images[i].Keep {
			info.Images[i].Remap = next
			next++
		}
	}
}
