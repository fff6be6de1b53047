package attrib

// SimplifyPoints reduces a point cloud to targetCount points using a
// grid-bucketed reservoir: positions are grouped into a uniform 3D grid
// sized so the expected occupied-cell count matches targetCount, one point
// survives per occupied cell, and any shortfall against targetCount is
// topped up by a deterministic stride over the remaining points. This keeps
// the result's spatial distribution close to the source's instead of a
// purely first-N or random subsample.
func SimplifyPoints(positions [][3]float32, targetCount int) []int {
	n := len(positions)
	if targetCount >= n || targetCount <= 0 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		if targetCount > 0 && targetCount < n {
			return order[:targetCount]
		}
		return order
	}

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

	// Choose a per-axis resolution so gridRes^3 is roughly 2x targetCount:
	// oversampling cells keeps near-empty regions from being starved by
	// dense regions sharing the same coarse cell.
	gridRes := 1
	for gridRes*gridRes*gridRes < targetCount*2 {
		gridRes++
	}

	type cellKey int64
	cellOf := func(p [3]float32) cellKey {
		cx := int64(float64(p[0]-min[0]) / float64(extent[0]) * float64(gridRes-1))
		cy := int64(float64(p[1]-min[1]) / float64(extent[1]) * float64(gridRes-1))
		cz := int64(float64(p[2]-min[2]) / float64(extent[2]) * float64(gridRes-1))
		return cellKey(cx + cy*int64(gridRes) + cz*int64(gridRes)*int64(gridRes))
	}

	picked := make(map[cellKey]int, targetCount)
	for i, p := range positions {
		picked[cellOf(p)] = i
	}

	result := make([]int, 0, targetCount)
	taken := make([]bool, n)
	for _, idx := range picked {
		result = append(result, idx)
		taken[idx] = true
		if len(result) == targetCount {
			return result
		}
	}

	// Top up with a deterministic stride over the untaken remainder so the
	// result still reaches exactly targetCount.
	stride := n / (targetCount - len(result) + 1)
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < n && len(result) < targetCount; i += stride {
		if !taken[i] {
			result = append(result, i)
			taken[i] = true
		}
	}
	for i := 0; i < n && len(result) < targetCount; i++ {
		if !taken[i] {
			result = append(result, i)
			taken[i] = true
		}
	}
	return result
}
