package transform

import (
	"github.com/flywave/gltfpack/internal/attrib"
	"github.com/flywave/gltfpack/internal/scene"
	"github.com/flywave/gltfpack/internal/settings"
)

// Run applies the mesh transformer's full stage sequence to every primitive
// in sc, in the order the component design lays out: filter streams, filter
// bones, reindex, filter degenerate triangles, simplify, vertex-cache
// optimize (triangles) or simplify-points + Morton sort (points), and
// finally merge. It mutates sc.Primitives in place and returns the
// surviving slice with emptied primitives dropped.
func Run(sc *scene.Scene, st *settings.Settings) []*scene.Primitive {
	live := make([]*scene.Primitive, 0, len(sc.Primitives))
	for i := range sc.Primitives {
		p := &sc.Primitives[i]

		var mat *scene.Material
		if p.Material >= 0 {
			mat = &sc.Materials[p.Material]
		}
		FilterStreams(p, mat)
		ReduceBoneInfluences(p)

		switch p.Topology {
		case scene.Triangles:
			Reindex(p)
			DropDegenerateTriangles(p)
			if st.SimplifyRatio < 1 {
				SimplifyMesh(p, st.SimplifyRatio, st.SimplifyAggressive)
			}
			OptimizeCache(p, st.CompressMore)
			OptimizeFetch(p)
		case scene.Points:
			if st.SimplifyRatio < 1 {
				SimplifyPointCloud(p, st.SimplifyRatio)
			}
			sortPoints(p)
		}

		if p.VertexCount() > 0 {
			live = append(live, p)
		}
	}

	return MergeAll(sc, live, st.KeepNodes)
}

// sortPoints applies a Morton-order spatial remap to a Points primitive's
// vertex data, the ordering stage the component design substitutes for
// reindex/vertex-cache optimization on point clouds.
func sortPoints(p *scene.Primitive) {
	s := p.Stream(scene.Position, 0, 0)
	if s == nil {
		return
	}
	positions := make([][3]float32, len(s.Data))
	for i, v := range s.Data {
		positions[i] = [3]float32{v[0], v[1], v[2]}
	}
	order := attrib.MortonOrder(positions)
	for i := range p.Streams {
		p.Streams[i].Data = attrib.ApplyOrder(p.Streams[i].Data, order)
	}
}
