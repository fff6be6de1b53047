package transform

import (
	"github.com/flywave/gltfpack/internal/attrib"
	"github.com/flywave/gltfpack/internal/scene"
)

// Reindex deduplicates p's vertices by exact attribute equality across its
// non-morph streams and rewrites the index buffer and every stream
// (including morph targets) accordingly. It is a no-op for primitives that
// are already fully indexed and deduplicated.
func Reindex(p *scene.Primitive) {
	n := p.VertexCount()
	if n == 0 {
		return
	}

	var baseStreams []int
	for i, s := range p.Streams {
		if s.TargetIndex == 0 {
			baseStreams = append(baseStreams, i)
		}
	}

	rows := make([]attrib.Value, len(baseStreams))
	keys := make([]attrib.VertexKey, n)
	for v := 0; v < n; v++ {
		for i, si := range baseStreams {
			rows[i] = p.Streams[si].Data[v]
		}
		keys[v] = attrib.BuildKey(rows)
	}

	remap, uniqueCount := attrib.GenerateVertexRemap(keys)
	if uniqueCount == n {
		return
	}

	p.Indices = attrib.RemapIndices(p.Indices, remap)
	for i := range p.Streams {
		p.Streams[i].Data = attrib.RemapAttribute(p.Streams[i].Data, remap, uniqueCount)
	}
}

// OptimizeFetch reorders p's vertex data to follow the order indices first
// reference each vertex, improving cache locality of sequential GPU vertex
// fetches after vertex-cache optimization has fixed the index order.
func OptimizeFetch(p *scene.Primitive) {
	n := p.VertexCount()
	if n == 0 {
		return
	}
	newIndex, visitOrder := attrib.FetchRemap(p.Indices, n)
	p.Indices = attrib.ApplyFetchRemap(p.Indices, newIndex)
	for i := range p.Streams {
		p.Streams[i].Data = attrib.GatherByVisitOrder(p.Streams[i].Data, visitOrder)
	}
}

// OptimizeCache reorders p's index buffer for GPU vertex-cache locality
// without touching vertex data, using a Tipsify-style simulation.
// stripFriendly biases the result toward triangle-strip-like traversal, used
// for the -cc "compress more" profile.
func OptimizeCache(p *scene.Primitive, stripFriendly bool) {
	p.Indices = attrib.OptimizeVertexCache(p.Indices, p.VertexCount(), stripFriendly)
}
