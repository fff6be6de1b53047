package transform

import (
	"github.com/flywave/gltfpack/internal/attrib"
	"github.com/flywave/gltfpack/internal/scene"
)

func positionsOf(p *scene.Primitive) [][3]float32 {
	s := p.Stream(scene.Position, 0, 0)
	if s == nil {
		return nil
	}
	out := make([][3]float32, len(s.Data))
	for i, v := range s.Data {
		out[i] = [3]float32{v[0], v[1], v[2]}
	}
	return out
}

// simplifyTargetError is the fixed quadric-error target the precise pass
// aims for; it is not user-configurable, only the simplification ratio is.
const simplifyTargetError = 1e-2

// simplifyStallSlack is how many indices above the target the precise pass
// may stall at before the aggressive fallback kicks in.
const simplifyStallSlack = 150

// SimplifyMesh reduces p's triangle count toward targetRatio of its current
// index count using the quadric-error-metric edge collapse, falling back to
// the grid-snap sloppy simplifier when aggressive is set and the precise
// pass stalls more than simplifyStallSlack indices above the target. It
// rewrites p.Indices in place and returns the achieved error in position
// units (not normalized by the mesh's extent).
func SimplifyMesh(p *scene.Primitive, targetRatio float64, aggressive bool) (achievedError float64, reachedTarget bool) {
	if p.Topology != scene.Triangles || len(p.Indices) == 0 {
		return 0, true
	}
	targetCount := int(float64(len(p.Indices))*targetRatio/3) * 3
	if targetCount >= len(p.Indices) {
		return 0, true
	}
	if targetCount < 3 {
		targetCount = 3
	}

	positions := positionsOf(p)
	result, err, reached := attrib.SimplifyPrecise(positions, p.Indices, targetCount, simplifyTargetError)
	if !reached && aggressive && len(result)-targetCount > simplifyStallSlack {
		result = attrib.SimplifySloppy(positions, p.Indices, targetCount)
		reached = true
		err = simplifyTargetError
	}
	p.Indices = result
	return err, reached
}

// SimplifyPointCloud reduces a Points primitive's vertex count toward
// targetRatio of its current count via grid-bucketed subsampling, rewriting
// every stream and dropping the (unused, for Points) index buffer.
func SimplifyPointCloud(p *scene.Primitive, targetRatio float64) {
	if p.Topology != scene.Points {
		return
	}
	targetCount := int(float64(p.VertexCount()) * targetRatio)
	if targetCount >= p.VertexCount() {
		return
	}
	positions := positionsOf(p)
	keep := attrib.SimplifyPoints(positions, targetCount)

	for i := range p.Streams {
		data := p.Streams[i].Data
		out := make([]scene.Value, len(keep))
		for j, idx := range keep {
			out[j] = data[idx]
		}
		p.Streams[i].Data = out
	}
	p.Indices = nil
}
