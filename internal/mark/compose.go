package mark

import "github.com/flywave/gltfpack/internal/scene"

// ComposeIntoMatrix folds parent's local transform into child's, returning
// the matrix child should adopt once parent is pruned from the graph and
// child is reparented to parent's own parent. Matches gltf_to_mst.go's
// toMat, which folds an ancestor's already-composed matrix into a node's own
// local matrix via dmat.Compose and AssignMul.
func ComposeIntoMatrix(parent, child *scene.Transform) [16]float64 {
	return scene.MatToArray(scene.MulMat(parent.ToMat(), child.ToMat()))
}
