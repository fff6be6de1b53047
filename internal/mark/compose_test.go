package mark

import (
	"testing"

	"github.com/flywave/gltfpack/internal/scene"
)

func TestComposeIntoMatrixIdentityParentPassesChildThrough(t *testing.T) {
	parent := scene.IdentityTransform()
	child := scene.IdentityTransform()
	child.Translation[1] = 3

	m := ComposeIntoMatrix(&parent, &child)
	if m[13] != 3 {
		t.Fatalf("composed translation y = %g, want 3", m[13])
	}
}

func TestComposeIntoMatrixAppliesParentScaleToChildTranslation(t *testing.T) {
	parent := scene.IdentityTransform()
	parent.Scale = [3]float64{2, 2, 2}
	child := scene.IdentityTransform()
	child.Translation[0] = 1

	m := ComposeIntoMatrix(&parent, &child)
	if m[12] != 2 {
		t.Fatalf("composed translation x = %g, want 2 (parent scale applied)", m[12])
	}
}

func TestComposeIntoMatrixRawMatrixParentUsedVerbatim(t *testing.T) {
	parent := scene.Transform{
		HasMatrix: true,
		Matrix:    [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 7, 8, 9, 1},
	}
	child := scene.IdentityTransform()

	m := ComposeIntoMatrix(&parent, &child)
	if m[12] != 7 || m[13] != 8 || m[14] != 9 {
		t.Fatalf("composed translation = (%g,%g,%g), want (7,8,9)", m[12], m[13], m[14])
	}
}
