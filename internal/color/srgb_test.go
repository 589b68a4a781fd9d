package color

import (
	"math"
	"testing"
)

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  float32
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.04045, 0.04045 / 12.92},
		{"just above threshold", 0.04046, float32(math.Pow((0.04046+0.055)/1.055, 2.4))},
		{"mid gray", 0.5, float32(math.Pow((0.5+0.055)/1.055, 2.4))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SRGBToLinear(tt.input); !floatNear(got, tt.want, 1e-5) {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLinearToSRGBEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  float32
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.0031308, 0.0031308 * 12.92},
		{"mid gray linear", 0.21404, float32(1.055*math.Pow(0.21404, 1.0/2.4) - 0.055)},
		{"negative clamps", -1, 0},
		{"overbright clamps", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinearToSRGB(tt.input); !floatNear(got, tt.want, 1e-5) {
				t.Errorf("LinearToSRGB(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Every 8-bit sRGB code must survive decode and re-encode exactly.
func TestSRGB8RoundTrip(t *testing.T) {
	for i := range 256 {
		lin := DecodeSRGB(float32(i) / 255)
		if got := EncodeUnorm8(lin, true); got != uint8(i) {
			t.Errorf("code %d: decode %v, encode %d", i, lin, got)
		}
	}
}

func TestDecodeSRGBMatchesFormula(t *testing.T) {
	for i := range 256 {
		s := float32(i) / 255
		if got, want := DecodeSRGB(s), SRGBToLinear(s); got != want {
			t.Errorf("code %d: DecodeSRGB = %v, SRGBToLinear = %v", i, got, want)
		}
	}
	// Values between codes, and outside [0,1], take the formula.
	for _, s := range []float32{0.3, 0.50001, 0.001, -0.1, 1.5} {
		if got, want := DecodeSRGB(s), SRGBToLinear(s); got != want {
			t.Errorf("DecodeSRGB(%v) = %v, want %v", s, got, want)
		}
	}
}

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{-0.2, 0},
		{1.7, 255},
		{float32(math.NaN()), 0},
		{100.0 / 255, 100},
	}
	for _, tt := range tests {
		if got := Unorm8(tt.in); got != tt.want {
			t.Errorf("Unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeUnorm8Linear(t *testing.T) {
	for i := range 256 {
		v := float32(i) / 255
		if got := EncodeUnorm8(v, false); got != uint8(i) {
			t.Errorf("EncodeUnorm8(%v, false) = %d, want %d", v, got, i)
		}
	}
}
