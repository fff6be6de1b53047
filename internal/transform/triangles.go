package transform

import "github.com/flywave/gltfpack/internal/scene"

// DropDegenerateTriangles removes any triangle referencing the same vertex
// index twice or more. It only applies to Triangles-topology primitives;
// Points primitives have no index-triple notion of degeneracy.
func DropDegenerateTriangles(p *scene.Primitive) {
	if p.Topology != scene.Triangles {
		return
	}
	out := p.Indices[:0]
	for i := 0; i+3 <= len(p.Indices); i += 3 {
		a, b, c := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
		if a == b || b == c || a == c {
			continue
		}
		out = append(out, a, b, c)
	}
	p.Indices = out
}
