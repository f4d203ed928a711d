package colorspace

import (
	"math"
	"testing"

	"github.com/weaming/x3f-dng/matrix"
)

func TestSRGBGamma(t *testing.T) {
	tests := []struct {
		linear, want float64
	}{
		{0, 0},
		{0.001, 0.01292},
		{0.0031308, 0.0031308 * 12.92},
		{0.18, 0.46135612950044164},
		{1, 1},
	}
	for _, tt := range tests {
		if got := SRGBGamma(tt.linear); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SRGBGamma(%v) = %v, want %v", tt.linear, got, tt.want)
		}
	}
}

func TestXYZToSRGBInvertsSRGBToXYZ(t *testing.T) {
	m := XYZToSRGB.Multiply(matrix.SRGBToXYZ)
	id := matrix.Identity3x3()
	for i := range m {
		if math.Abs(m[i]-id[i]) > 1e-4 {
			t.Fatalf("XYZToSRGB × SRGBToXYZ = %v", m)
		}
	}
}

func TestConvertToUint8Clamps(t *testing.T) {
	got := ConvertToUint8(matrix.Vector3{-0.5, 0.5, 2})
	if got != [3]uint8{0, 128, 255} {
		t.Errorf("ConvertToUint8 = %v", got)
	}
}

func TestGetRGBToXYZMatrix(t *testing.T) {
	if GetRGBToXYZMatrix(WorkingSpace) != matrix.AdobeRGBToXYZ {
		t.Error("working space should be Adobe RGB")
	}
	if GetRGBToXYZMatrix(ColorSpaceSRGB) != matrix.SRGBToXYZ {
		t.Error("sRGB matrix mismatch")
	}
	if GetRGBToXYZMatrix(ColorSpaceNone) != matrix.Identity3x3() {
		t.Error("none should be identity")
	}
}
