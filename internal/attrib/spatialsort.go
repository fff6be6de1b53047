package attrib

import "sort"

// morton3 interleaves the low 10 bits of three unsigned coordinates into a
// 30-bit Morton (Z-order) code, giving points that are close in 3-space
// nearby codes most of the time.
func morton3(x, y, z uint32) uint64 {
	spread := func(v uint32) uint64 {
		v &= 0x3FF
		r := uint64(v)
		r = (r | (r << 16)) & 0x030000FF
		r = (r | (r << 8)) & 0x0300F00F
		r = (r | (r << 4)) & 0x030C30C3
		r = (r | (r << 2)) & 0x09249249
		return r
	}
	return spread(x) | (spread(y) << 1) | (spread(z) << 2)
}

// MortonOrder returns a permutation of [0,len(positions)) sorted by the
// points' Morton code within their shared bounding box, quantized to 10 bits
// per axis (1024 cells), giving a spatially coherent vertex order used by
// the point-cloud path in place of reindex/vertex-cache optimization.
func MortonOrder(positions [][3]float32) []int {
	n := len(positions)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n == 0 {
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

	codes := make([]uint64, n)
	for i, p := range positions {
		qx := uint32(((p[0] - min[0]) / extent[0]) * 1023)
		qy := uint32(((p[1] - min[1]) / extent[1]) * 1023)
		qz := uint32(((p[2] - min[2]) / extent[2]) * 1023)
		codes[i] = morton3(qx, qy, qz)
	}

	sort.Slice(order, func(a, b int) bool { return codes[order[a]] < codes[order[b]] })
	return order
}

// ApplyOrder permutes data according to order, where order[newSlot] =
// oldSlot (the same convention as GatherByVisitOrder).
func ApplyOrder(data []Value, order []int) []Value {
	out := make([]Value, len(order))
	for newSlot, oldSlot := range order {
		out[newSlot] = data[oldSlot]
	}
	return out
}
