// Package stats collects the run statistics -v/-vv print: input/output
// triangle and vertex counts, byte totals, and compression ratios.
package stats

import "github.com/flywave/gltfpack/internal/scene"

// Stats accumulates before/after counters the driver prints in verbose mode.
type Stats struct {
	InputTriangles  int
	InputVertices   int
	OutputTriangles int
	OutputVertices  int

	InputBytes      int64
	OutputJSONBytes int64
	OutputBinBytes  int64
	FallbackBytes   int64
}

// CountInput tallies sc's triangle and vertex totals before the mesh
// transformer runs.
func CountInput(sc *scene.Scene) Stats {
	var s Stats
	for i := range sc.Primitives {
		p := &sc.Primitives[i]
		s.InputVertices += p.VertexCount()
		if p.Topology == scene.Triangles {
			s.InputTriangles += len(p.Indices) / 3
		}
	}
	return s
}

// CountOutput fills in prims's post-transform totals.
func (s *Stats) CountOutput(prims []*scene.Primitive) {
	for _, p := range prims {
		s.OutputVertices += p.VertexCount()
		if p.Topology == scene.Triangles {
			s.OutputTriangles += len(p.Indices) / 3
		}
	}
}

// CompressionRatio returns OutputBinBytes+OutputJSONBytes as a fraction of
// InputBytes, or 0 if InputBytes is unset.
func (s *Stats) CompressionRatio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.OutputBinBytes+s.OutputJSONBytes) / float64(s.InputBytes)
}
