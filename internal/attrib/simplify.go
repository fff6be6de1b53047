package attrib

import (
	"container/heap"
	"math"
)

// quadric is the symmetric 4x4 error matrix of Garland-Heckbert's quadric
// error metric, stored as its upper triangle.
type quadric struct {
	a00, a01, a02, a03 float64
	a11, a12, a13      float64
	a22, a23           float64
	a33                float64
}

func planeQuadric(p0, p1, p2 [3]float32) quadric {
	ux, uy, uz := float64(p1[0]-p0[0]), float64(p1[1]-p0[1]), float64(p1[2]-p0[2])
	vx, vy, vz := float64(p2[0]-p0[0]), float64(p2[1]-p0[1]), float64(p2[2]-p0[2])

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length < 1e-12 {
		return quadric{}
	}
	nx, ny, nz = nx/length, ny/length, nz/length
	d := -(nx*float64(p0[0]) + ny*float64(p0[1]) + nz*float64(p0[2]))

	return quadric{
		a00: nx * nx, a01: nx * ny, a02: nx * nz, a03: nx * d,
		a11: ny * ny, a12: ny * nz, a13: ny * d,
		a22: nz * nz, a23: nz * d,
		a33: d * d,
	}
}

func (q quadric) add(o quadric) quadric {
	return quadric{
		a00: q.a00 + o.a00, a01: q.a01 + o.a01, a02: q.a02 + o.a02, a03: q.a03 + o.a03,
		a11: q.a11 + o.a11, a12: q.a12 + o.a12, a13: q.a13 + o.a13,
		a22: q.a22 + o.a22, a23: q.a23 + o.a23,
		a33: q.a33 + o.a33,
	}
}

func (q quadric) eval(x, y, z float64) float64 {
	return x*x*q.a00 + 2*x*y*q.a01 + 2*x*z*q.a02 + 2*x*q.a03 +
		y*y*q.a11 + 2*y*z*q.a12 + 2*y*q.a13 +
		z*z*q.a22 + 2*z*q.a23 +
		q.a33
}

type edgeItem struct {
	v0, v1 int
	cost   float64
}

type edgeHeap []edgeItem

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(edgeItem)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SimplifyPrecise collapses edges by ascending quadric-error cost until the
// index count reaches targetIndexCount or every remaining edge would exceed
// targetError, whichever comes first. It returns the simplified index
// buffer (referencing the original vertex array; unreferenced vertices are
// left in place for a later fetch-optimize pass to drop) and the square root
// of the last collapse's quadric cost (the simplifier's achieved error), plus whether
// the target was actually reached.
func SimplifyPrecise(positions [][3]float32, indices []uint32, targetIndexCount int, targetError float64) (result []uint32, achievedError float64, reachedTarget bool) {
	vertexCount := len(positions)
	triCount := len(indices) / 3
	if triCount == 0 || targetIndexCount >= len(indices) {
		return append([]uint32(nil), indices...), 0, true
	}

	quadrics := make([]quadric, vertexCount)
	vertexTris := make([][]int, vertexCount)
	for t := 0; t < triCount; t++ {
		a, b, c := int(indices[t*3]), int(indices[t*3+1]), int(indices[t*3+2])
		q := planeQuadric(positions[a], positions[b], positions[c])
		quadrics[a] = quadrics[a].add(q)
		quadrics[b] = quadrics[b].add(q)
		quadrics[c] = quadrics[c].add(q)
		vertexTris[a] = append(vertexTris[a], t)
		vertexTris[b] = append(vertexTris[b], t)
		vertexTris[c] = append(vertexTris[c], t)
	}

	parent := make([]int, vertexCount)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(v int) int {
		for parent[v] != v {
			v = parent[v]
		}
		return v
	}

	type edgeKey [2]int
	seen := make(map[edgeKey]bool)
	h := &edgeHeap{}
	addEdge := func(a, b int) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		k := edgeKey{a, b}
		if seen[k] {
			return
		}
		seen[k] = true
		mx := (float64(positions[a][0]) + float64(positions[b][0])) / 2
		my := (float64(positions[a][1]) + float64(positions[b][1])) / 2
		mz := (float64(positions[a][2]) + float64(positions[b][2])) / 2
		cost := quadrics[a].add(quadrics[b]).eval(mx, my, mz)
		heap.Push(h, edgeItem{v0: a, v1: b, cost: cost})
	}
	for t := 0; t < triCount; t++ {
		a, b, c := int(indices[t*3]), int(indices[t*3+1]), int(indices[t*3+2])
		addEdge(a, b)
		addEdge(b, c)
		addEdge(c, a)
	}

	triAlive := make([]bool, triCount)
	for i := range triAlive {
		triAlive[i] = true
	}
	liveTriCount := triCount

	targetErrSq := targetError * targetError

	for liveTriCount*3 > targetIndexCount && h.Len() > 0 {
		item := heap.Pop(h).(edgeItem)
		a, b := find(item.v0), find(item.v1)
		if a == b {
			continue
		}
		if item.cost > targetErrSq {
			break
		}
		quadrics[a] = quadrics[a].add(quadrics[b])
		parent[b] = a
		achievedError = item.cost
		for _, t := range vertexTris[b] {
			if !triAlive[t] {
				continue
			}
			ra := find(int(indices[t*3]))
			rb := find(int(indices[t*3+1]))
			rc := find(int(indices[t*3+2]))
			if ra == rb || rb == rc || ra == rc {
				triAlive[t] = false
				liveTriCount--
			}
		}
		for _, t := range vertexTris[a] {
			if !triAlive[t] {
				continue
			}
			ra := find(int(indices[t*3]))
			rb := find(int(indices[t*3+1]))
			rc := find(int(indices[t*3+2]))
			if ra == rb || rb == rc || ra == rc {
				triAlive[t] = false
				liveTriCount--
			}
		}
	}

	result = make([]uint32, 0, liveTriCount*3)
	for t := 0; t < triCount; t++ {
		if !triAlive[t] {
			continue
		}
		result = append(result,
			uint32(find(int(indices[t*3]))),
			uint32(find(int(indices[t*3+1]))),
			uint32(find(int(indices[t*3+2]))),
		)
	}
	reachedTarget = liveTriCount*3 <= targetIndexCount
	return result, math.Sqrt(achievedError), reachedTarget
}

// SimplifySloppy snaps vertices to a uniform grid and drops one triangle per
// degenerate collapse until targetIndexCount is reached, guaranteeing (unlike
// SimplifyPrecise) that the target is always met regardless of error,
// matching the spec's aggressive-mode fallback.
func SimplifySloppy(positions [][3]float32, indices []uint32, targetIndexCount int) []uint32 {
	n := len(positions)
	if n == 0 || targetIndexCount >= len(indices) {
		return append([]uint32(nil), indices...)
	}

	lo, hi := 1, 4096
	var best []uint32
	for iter := 0; iter < 20 && lo <= hi; iter++ {
		cells := (lo + hi) / 2
		collapsed := snapCollapse(positions, indices, cells)
		if len(collapsed) <= targetIndexCount {
			best = collapsed
			hi = cells - 1
		} else {
			lo = cells + 1
		}
	}
	if best == nil {
		best = snapCollapse(positions, indices, 1)
	}
	if len(best) > targetIndexCount {
		// Grid search overshot (sparse geometry); hard-trim full triangles.
		keep := (targetIndexCount / 3) * 3
		best = best[:keep]
	}
	return best
}

func snapCollapse(positions [][3]float32, indices []uint32, cellsPerAxis int) []uint32 {
	min := positions[0]
	max := positions[0]
	for _, p := range positions {
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	var extent [3]float32
	for a := 0; a < 3; a++ {
		extent[a] = max[a] - min[a]
		if extent[a] <= 0 {
			extent[a] = 1
		}
	}

	cellOf := make([]int64, len(positions))
	for i, p := range positions {
		cx := int64(float64(p[0]-min[0]) / float64(extent[0]) * float64(cellsPerAxis))
		cy := int64(float64(p[1]-min[1]) / float64(extent[1]) * float64(cellsPerAxis))
		cz := int64(float64(p[2]-min[2]) / float64(extent[2]) * float64(cellsPerAxis))
		cellOf[i] = cx + cy*int64(cellsPerAxis+1) + cz*int64(cellsPerAxis+1)*int64(cellsPerAxis+1)
	}

	cellRep := make(map[int64]int)
	remap := make([]int, len(positions))
	for i, c := range cellOf {
		if rep, ok := cellRep[c]; ok {
			remap[i] = rep
		} else {
			cellRep[c] = i
			remap[i] = i
		}
	}

	out := make([]uint32, 0, len(indices))
	for t := 0; t+2 < len(indices); t += 3 {
		a := remap[indices[t]]
		b := remap[indices[t+1]]
		c := remap[indices[t+2]]
		if a == b || b == c || a == c {
			continue
		}
		out = append(out, uint32(a), uint32(b), uint32(c))
	}
	return out
}
