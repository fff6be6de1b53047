package quant

import "testing"

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestOctahedralRoundTripAxes(t *testing.T) {
	cases := [][3]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{0.57735, 0.57735, 0.57735},
		{0.57735, -0.57735, -0.57735},
	}
	for _, c := range cases {
		ox, oy := EncodeOctahedral(c[0], c[1], c[2])
		x, y, z := DecodeOctahedral(ox, oy)
		if !approxEqual(x, c[0], 1e-4) || !approxEqual(y, c[1], 1e-4) || !approxEqual(z, c[2], 1e-4) {
			t.Errorf("roundtrip %v -> (%g,%g) -> (%g,%g,%g)", c, ox, oy, x, y, z)
		}
	}
}

func TestQuantizeOctahedralComponentClampsToRange(t *testing.T) {
	bits := 8
	levels := int32(1)<<uint(bits-1) - 1
	if q := QuantizeOctahedralComponent(2.0, bits); q != levels {
		t.Fatalf("QuantizeOctahedralComponent(2.0) = %d, want %d", q, levels)
	}
	if q := QuantizeOctahedralComponent(-2.0, bits); q != -levels {
		t.Fatalf("QuantizeOctahedralComponent(-2.0) = %d, want %d", q, -levels)
	}
}

func TestQuantizeDequantizeOctahedralComponent(t *testing.T) {
	bits := 12
	for _, v := range []float32{-1, -0.5, 0, 0.25, 0.9} {
		q := QuantizeOctahedralComponent(v, bits)
		back := DequantizeOctahedralComponent(q, bits)
		if !approxEqual(back, v, 1e-3) {
			t.Errorf("dequantize(quantize(%g)) = %g", v, back)
		}
	}
}
