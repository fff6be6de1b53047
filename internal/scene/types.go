// Package scene holds the in-memory representation the pipeline operates on:
// nodes, primitives (meshes), materials, images, skins and animations, plus
// the parallel per-entity info tables the later stages populate.
package scene

import (
	"encoding/json"

	"github.com/flywave/gltfpack/internal/attrib"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// Semantic identifies the kind of data carried by a Stream.
type Semantic int

const (
	Position Semantic = iota
	Normal
	Tangent
	Texcoord
	Color
	Joints
	Weights
)

// Topology is the draw mode of a Primitive.
type Topology int

const (
	Triangles Topology = iota
	Points
)

// Value is a 4-wide attribute lane. Unused lanes hold 0, except where the
// semantic's identity element is 1 (e.g. an unused weight/alpha lane). It is
// an alias of attrib.Value so every stream-level algorithm in internal/attrib
// operates directly on Stream.Data without a conversion pass.
type Value = attrib.Value

// Stream is one attribute table for a single primitive.
type Stream struct {
	Semantic    Semantic
	Index       int // semantic index: UV set number, joint group number, ...
	TargetIndex int // 0 = base mesh, k+1 = k-th morph target
	Data        []Value
}

// Len returns the stream's vertex count.
func (s *Stream) Len() int { return len(s.Data) }

// Primitive is a draw unit: a topology, an index buffer, attribute streams,
// and references (by index) to material/skin/node.
type Primitive struct {
	Streams  []Stream
	Indices  []uint32
	Topology Topology

	Material int // -1 if none
	Skin     int // -1 if none
	Node     int // -1 if detached

	TargetCount   int
	TargetWeights []float32
	TargetNames   []string

	Extras json.RawMessage
}

// VertexCount returns the primitive's vertex count, taken from the first
// stream (all streams of a primitive share length per the data-model
// invariant).
func (p *Primitive) VertexCount() int {
	if len(p.Streams) == 0 {
		return 0
	}
	return p.Streams[0].Len()
}

// Stream returns the stream matching (semantic, index, targetIndex), or nil.
func (p *Primitive) Stream(sem Semantic, index, target int) *Stream {
	for i := range p.Streams {
		s := &p.Streams[i]
		if s.Semantic == sem && s.Index == index && s.TargetIndex == target {
			return s
		}
	}
	return nil
}

// Transform is a node's local transform, either TRS or a raw matrix.
type Transform struct {
	HasMatrix   bool
	Matrix      [16]float64 // column-major, glTF convention; valid iff HasMatrix
	Translation vec3d.T
	Rotation    [4]float64 // x,y,z,w
	Scale       vec3d.T
}

// IdentityTransform returns the identity TRS transform.
func IdentityTransform() Transform {
	return Transform{
		Scale:    vec3d.T{1, 1, 1},
		Rotation: [4]float64{0, 0, 0, 1},
	}
}

// Node is an entity in the scene graph.
type Node struct {
	Name      string
	Transform Transform
	Parent    int // -1 if root
	Children  []int
	Mesh      int // -1 if none; index into Scene.Primitives groups pre-marker
	Skin      int // -1 if none
	Camera    int // -1 if none
	Light     int // -1 if none
	Extras    json.RawMessage
}

// TextureRef is a material's reference to an image via a texcoord set.
type TextureRef struct {
	Image       int // -1 if unset
	TexcoordSet int
	Offset      [2]float64
	Scale       [2]float64
	HasTransform bool
}

// Material carries PBR parameters and texture references.
type Material struct {
	Name string

	BaseColorFactor [4]float32
	BaseColor       TextureRef
	MetallicFactor  float32
	RoughnessFactor float32
	MetallicRough   TextureRef

	Normal   TextureRef
	Occlusion TextureRef
	Emissive  TextureRef
	EmissiveFactor [3]float32

	Unlit bool

	HasSpecularGlossiness bool
	DiffuseFactor         [4]float32
	SpecularFactor        [3]float32
	GlossinessFactor      float32
	Diffuse               TextureRef
	SpecularGlossiness    TextureRef

	HasClearcoat          bool
	ClearcoatFactor       float32
	ClearcoatRoughness    float32
	Clearcoat             TextureRef
	ClearcoatRoughnessTex TextureRef
	ClearcoatNormal       TextureRef

	AlphaMode   string
	AlphaCutoff float32
	DoubleSided bool

	Extras json.RawMessage
}

// Image is a texture source: either a URI or embedded bytes.
type Image struct {
	URI      string
	MimeType string
	Data     []byte // embedded bytes, if URI == ""

	SRGB      bool
	NormalMap bool
}

// Skin is a set of joint nodes plus inverse-bind matrices.
type Skin struct {
	Joints             []int
	InverseBindMatrix  [][16]float64
	Skeleton           int // root joint node, -1 if unset
}

// Interpolation is an animation track's sampling mode.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

// TargetPath identifies what an animation track drives.
type TargetPath int

const (
	PathTranslation TargetPath = iota
	PathRotation
	PathScale
	PathWeights
)

// Track is one animated channel.
type Track struct {
	TargetNode    int
	Path          TargetPath
	Interpolation Interpolation
	Components    int // 3 for T/S, 4 for rotation, N for weights
	Input         []float32
	Output        []float32 // len = len(Input)*Components*(cubic?3:1)
}

// Animation is a named set of tracks.
type Animation struct {
	Name   string
	Tracks []Track
}

// Camera mirrors glTF's camera object; gltfpack does not transform it.
type Camera struct {
	Name        string
	Orthographic bool
	Yfov, Aspect, Znear, Zfar float64
	Xmag, Ymag                float64
}

// LightType mirrors KHR_lights_punctual's light kinds.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// Light mirrors a KHR_lights_punctual light; gltfpack passes it through.
type Light struct {
	Name      string
	Type      LightType
	Color     [3]float32
	Intensity float32
	Range     float64
	InnerCone float64
	OuterCone float64
}

// InstanceGroup records EXT_mesh_gpu_instancing data: a base mesh plus the
// per-instance node list, supplementing spec.md with the original
// implementation's instancing support. The extension's own per-instance
// transform attributes are not recorded; each instance is placed by its
// node's transform only.
type InstanceGroup struct {
	MeshPrimitives []int // indices into Scene.Primitives sharing this base mesh
	Nodes          []int // node indices, one per instance
}

// Scene owns every entity table. Cross references are plain integer indices,
// never owning edges, so the graph cannot form reference cycles.
type Scene struct {
	Nodes      []Node
	Primitives []Primitive
	Materials  []Material
	Images     []Image
	Skins      []Skin
	Animations []Animation
	Cameras    []Camera
	Lights     []Light
	Instances  []InstanceGroup

	RootNodes []int

	Extras json.RawMessage // scene-level extras, when -ke is set
}

// Vec3ToValue converts a go3d float32 vec3 to a Value's first 3 lanes.
func Vec3ToValue(v vec3.T) Value { return Value{v[0], v[1], v[2], 0} }

// Vec2ToValue converts a go3d float32 vec2 into a Value's first 2 lanes.
func Vec2ToValue(v vec2.T) Value { return Value{v[0], v[1], 0, 0} }
