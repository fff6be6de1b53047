package scene

// NodeInfo is the per-node auxiliary record the pipeline computes without
// mutating the parsed Node itself. Indexed in parallel with Scene.Nodes.
type NodeInfo struct {
	Keep      bool
	Animated  bool
	Remap     int // output index once kept; -1 until assigned
	OutMeshes []int
}

// MaterialInfo is the per-material auxiliary record.
type MaterialInfo struct {
	Keep        bool
	Remap       int
	UVOffset    [2]float64
	UVScale     [2]float64
	UVBoundsSet bool
}

// MeshInfo is the per-primitive auxiliary record.
type MeshInfo struct {
	Keep  bool
	Remap int
}

// ImageInfo is the per-image auxiliary record.
type ImageInfo struct {
	Keep  bool
	Remap int
}

// Info bundles every parallel table the pipeline threads alongside a Scene.
// Constructed once after parsing and never resized afterward except by
// NewInfo itself.
type Info struct {
	Nodes     []NodeInfo
	Materials []MaterialInfo
	Meshes    []MeshInfo
	Images    []ImageInfo
}

// NewInfo allocates parallel tables sized to s's entity tables, with Remap
// fields pre-set to -1 (not-yet-assigned).
func NewInfo(s *Scene) *Info {
	info := &Info{
		Nodes:     make([]NodeInfo, len(s.Nodes)),
		Materials: make([]MaterialInfo, len(s.Materials)),
		Meshes:    make([]MeshInfo, len(s.Primitives)),
		Images:    make([]ImageInfo, len(s.Images)),
	}
	for i := range info.Nodes {
		info.Nodes[i].Remap = -1
	}
	for i := range info.Materials {
		info.Materials[i].Remap = -1
		info.Materials[i].UVScale = [2]float64{1, 1}
	}
	for i := range info.Meshes {
		info.Meshes[i].Remap = -1
	}
	for i := range info.Images {
		info.Images[i].Remap = -1
	}
	return info
}
