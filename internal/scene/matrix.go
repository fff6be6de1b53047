package scene

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

// ToMat expands t to its go3d matrix, composing TRS in T*R*S order via
// dmat.Compose when t isn't already a raw matrix. Mirrors the teacher's
// gltf_to_mst.go toMat.
func (t *Transform) ToMat() *dmat.T {
	if t.HasMatrix {
		return arrayToMat(t.Matrix)
	}
	tra := t.Translation
	rot := quaternion.T{t.Rotation[0], t.Rotation[1], t.Rotation[2], t.Rotation[3]}
	scl := t.Scale
	return dmat.Compose(&tra, &rot, &scl)
}

// arrayToMat rebuilds a go3d matrix from a's glTF column-major layout: each
// group of 4 elements is already one column of m, so no transpose is needed
// (unlike dae_to_mst.go's arryToMat, which corrects COLLADA's row-major
// source data).
func arrayToMat(a [16]float64) *dmat.T {
	m := &dmat.T{}
	m[0] = dvec4.T{a[0], a[1], a[2], a[3]}
	m[1] = dvec4.T{a[4], a[5], a[6], a[7]}
	m[2] = dvec4.T{a[8], a[9], a[10], a[11]}
	m[3] = dvec4.T{a[12], a[13], a[14], a[15]}
	return m
}

// MatToArray flattens m back to glTF's column-major [16]float64 layout, the
// inverse of arrayToMat.
func MatToArray(m *dmat.T) [16]float64 {
	return [16]float64{
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
		m[2][0], m[2][1], m[2][2], m[2][3],
		m[3][0], m[3][1], m[3][2], m[3][3],
	}
}

// MulMat multiplies two go3d matrices, a*b, the way gltf_to_mst.go's toMat
// folds a node's ancestor matrix into its own local matrix via
// mat2.AssignMul(&mat, mt).
func MulMat(a, b *dmat.T) *dmat.T {
	out := dmat.Ident
	out.AssignMul(a, b)
	return &out
}
