package colorspace

import "github.com/weaming/x3f-dng/matrix"

// XYZ (D65) 到 sRGB 的转换矩阵
var XYZToSRGB = matrix.Matrix3x3{
	3.2404542, -1.5371385, -0.4985314,
	-0.9692660, 1.8760108, 0.0415560,
	0.0556434, -0.2040259, 1.0572252,
}

// ColorSpace 色彩空间类型
type ColorSpace int

const (
	// ColorSpaceNone 无色彩转换
	ColorSpaceNone ColorSpace = iota
	// ColorSpaceSRGB sRGB 色彩空间
	ColorSpaceSRGB
	// ColorSpaceAdobeRGB Adobe RGB 色彩空间
	ColorSpaceAdobeRGB
)

// WorkingSpace 不做色彩转换的 profile 假定的工作色彩空间
const WorkingSpace = ColorSpaceAdobeRGB

// GetRGBToXYZMatrix 获取 RGB → XYZ (D65) 转换矩阵
func GetRGBToXYZMatrix(cs ColorSpace) matrix.Matrix3x3 {
	switch cs {
	case ColorSpaceSRGB:
		return matrix.SRGBToXYZ
	case ColorSpaceAdobeRGB:
		return matrix.AdobeRGBToXYZ
	default:
		return matrix.Identity3x3()
	}
}
