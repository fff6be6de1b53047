package writer

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func TestWriteSkinRemapsJointIndices(t *testing.T) {
	s := &scene.Skin{Joints: []int{2, 5}, Skeleton: -1}
	remap := []int{0, 0, 10, 0, 0, 20}

	out := NewDocument(false).WriteSkin(s, remap)
	if len(out.Joints) != 2 || out.Joints[0] != 10 || out.Joints[1] != 20 {
		t.Fatalf("remapped joints = %v, want [10 20]", out.Joints)
	}
	if out.Skeleton != nil {
		t.Fatalf("skeleton should be unset when Skeleton == -1")
	}
}

func TestWriteSkinEmitsInverseBindAccessorWhenPresent(t *testing.T) {
	ident := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	s := &scene.Skin{
		Joints:            []int{0},
		Skeleton:          -1,
		InverseBindMatrix: [][16]float64{ident},
	}
	d := NewDocument(false)
	out := d.WriteSkin(s, []int{0})
	if out.InverseBindMatrices == nil {
		t.Fatalf("expected an inverse-bind-matrix accessor reference")
	}
	if len(d.Doc.Accessors) != 1 {
		t.Fatalf("accessors = %d, want 1", len(d.Doc.Accessors))
	}
}

func TestWriteSkinRemapsSkeletonRoot(t *testing.T) {
	s := &scene.Skin{Joints: []int{0}, Skeleton: 1}
	out := NewDocument(false).WriteSkin(s, []int{5, 7})
	if out.Skeleton == nil || *out.Skeleton != 7 {
		t.Fatalf("skeleton remap incorrect: %v", out.Skeleton)
	}
}
