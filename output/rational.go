package output

// 矩阵和向量标签的最大分母，与 libtiff 的行为接近
// 避免过大的分子/分母导致精度损失
const maxRationalDenom = 67108864 // 2^26

// BlackLevel 固定分母 (16.16 定点格式)
const blackLevelDenom = 65536

// 使用连分数算法将浮点数转换为有理数
func floatToRational(value float64, maxDenom int64) (num int64, denom int64) {
	if value == 0 {
		return 0, 1
	}

	sign := int64(1)
	if value < 0 {
		sign = -1
		value = -value
	}

	z := value
	n0, d0 := int64(0), int64(1)
	n1, d1 := int64(1), int64(0)

	for i := 0; i < 50; i++ {
		a := int64(z)
		n2 := n1*a + n0
		d2 := d1*a + d0

		if d2 > maxDenom || n2 > 1<<31-1 {
			break
		}

		n0, d0 = n1, d1
		n1, d1 = n2, d2

		if z == float64(a) {
			break
		}
		z = 1.0 / (z - float64(a))
	}

	if d1 == 0 {
		// 超出 32 位范围
		return sign * (1<<31 - 1), 1
	}
	return sign * n1, d1
}
