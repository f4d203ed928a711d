package colorspace

import (
	"math"

	"github.com/weaming/x3f-dng/matrix"
)

// SRGBGamma sRGB gamma 曲线（精确版本）
func SRGBGamma(linear float64) float64 {
	if linear <= 0.0031308 {
		return 12.92 * linear
	}
	return 1.055*math.Pow(linear, 1.0/2.4) - 0.055
}

// ApplySRGBGamma 对 RGB 向量应用 sRGB gamma 曲线
func ApplySRGBGamma(rgb matrix.Vector3) matrix.Vector3 {
	return matrix.Vector3{
		SRGBGamma(rgb[0]),
		SRGBGamma(rgb[1]),
		SRGBGamma(rgb[2]),
	}
}

// NormalizeToRange 将值从 [black, white] 归一化到 [0, 1]
func NormalizeToRange(value, black, white float64) float64 {
	if white <= black {
		return 0
	}
	result := (value - black) / (white - black)
	if result < 0 {
		return 0
	}
	if result > 1 {
		return 1
	}
	return result
}

// ConvertToUint8 将浮点 RGB 转换为 8-bit 整数
func ConvertToUint8(rgb matrix.Vector3) [3]uint8 {
	return [3]uint8{
		uint8(math.Min(255, math.Max(0, rgb[0]*255+0.5))),
		uint8(math.Min(255, math.Max(0, rgb[1]*255+0.5))),
		uint8(math.Min(255, math.Max(0, rgb[2]*255+0.5))),
	}
}
