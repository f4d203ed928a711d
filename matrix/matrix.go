package matrix

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular 矩阵不可逆（或病态到无法得到可信的逆）
var ErrSingular = errors.New("matrix: singular 3x3 matrix")

// Matrix3x3 表示 3x3 矩阵（行优先存储）
type Matrix3x3 [9]float64

// Vector3 表示 3x1 向量
type Vector3 [3]float64

// Multiply3x3 计算两个 3x3 矩阵相乘 (a × b)
func Multiply3x3(a, b Matrix3x3) Matrix3x3 {
	var c Matrix3x3
	c[0] = a[0]*b[0] + a[1]*b[3] + a[2]*b[6]
	c[1] = a[0]*b[1] + a[1]*b[4] + a[2]*b[7]
	c[2] = a[0]*b[2] + a[1]*b[5] + a[2]*b[8]

	c[3] = a[3]*b[0] + a[4]*b[3] + a[5]*b[6]
	c[4] = a[3]*b[1] + a[4]*b[4] + a[5]*b[7]
	c[5] = a[3]*b[2] + a[4]*b[5] + a[5]*b[8]

	c[6] = a[6]*b[0] + a[7]*b[3] + a[8]*b[6]
	c[7] = a[6]*b[1] + a[7]*b[4] + a[8]*b[7]
	c[8] = a[6]*b[2] + a[7]*b[5] + a[8]*b[8]
	return c
}

// Multiply 矩阵乘法 (m × other)
func (m Matrix3x3) Multiply(other Matrix3x3) Matrix3x3 {
	return Multiply3x3(m, other)
}

// Apply 应用矩阵到向量 (m × v)
func (m Matrix3x3) Apply(v Vector3) Vector3 {
	return Vector3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Inverse 计算矩阵的逆
// 奇异或病态矩阵返回 ErrSingular，不会退化为单位矩阵
func (m Matrix3x3) Inverse() (Matrix3x3, error) {
	a := mat.NewDense(3, 3, m[:])

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Matrix3x3{}, ErrSingular
	}

	var result Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i*3+j] = inv.At(i, j)
		}
	}
	return result, nil
}

// Scale 缩放矩阵的所有元素
func (m Matrix3x3) Scale(s float64) Matrix3x3 {
	var result Matrix3x3
	for i := 0; i < 9; i++ {
		result[i] = m[i] * s
	}
	return result
}

// Float32 转为 float32，DNG 标签写入前的精度
func (m Matrix3x3) Float32() [9]float32 {
	var out [9]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Identity3x3 返回 3x3 单位矩阵
func Identity3x3() Matrix3x3 {
	return Matrix3x3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Ones3x3 返回全 1 矩阵
func Ones3x3() Matrix3x3 {
	return Matrix3x3{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	}
}

// Diagonal3x3 从向量创建对角矩阵
func Diagonal3x3(v Vector3) Matrix3x3 {
	return Matrix3x3{
		v[0], 0, 0,
		0, v[1], 0,
		0, 0, v[2],
	}
}

// Invert 逐分量求倒数
func (v Vector3) Invert() Vector3 {
	return Vector3{
		1.0 / v[0],
		1.0 / v[1],
		1.0 / v[2],
	}
}

// Scale 缩放向量
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

// ComponentMul 逐分量乘法
func (v Vector3) ComponentMul(other Vector3) Vector3 {
	return Vector3{v[0] * other[0], v[1] * other[1], v[2] * other[2]}
}

// SRGBToXYZ sRGB 到 XYZ (D65) 的转换矩阵
var SRGBToXYZ = Matrix3x3{
	0.4124564, 0.3575761, 0.1804375,
	0.2126729, 0.7151522, 0.0721750,
	0.0193339, 0.1191920, 0.9503041,
}

// AdobeRGBToXYZ Adobe RGB 到 XYZ (D65) 的转换矩阵
var AdobeRGBToXYZ = Matrix3x3{
	0.5767309, 0.1855540, 0.1881852,
	0.2973769, 0.6273491, 0.0752741,
	0.0270343, 0.0706872, 0.9911085,
}

// BradfordD65ToD50 Bradford 色彩适应矩阵 (D65 -> D50)
var BradfordD65ToD50 = Matrix3x3{
	+1.0478112, +0.0228866, -0.0501270,
	+0.0295424, +0.9904844, -0.0170491,
	-0.0092345, +0.0150436, +0.7521316,
}

// D50WhitePoint D50 参考白的 XYZ
var D50WhitePoint = Vector3{0.96422, 1.00000, 0.82521}
