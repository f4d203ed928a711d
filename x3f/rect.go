package x3f

// ScaleRect 将 CAMF 矩形裁剪到 KeepImageArea 内，转换为相对坐标
// rescale=true 时，坐标会从 KeepImageArea 的分辨率缩放到 cols × rows
func ScaleRect(r, keep Rect, rows, cols uint32, rescale bool) (Rect, bool) {
	if r.X1 < r.X0 || r.Y1 < r.Y0 || keep.X1 < keep.X0 || keep.Y1 < keep.Y0 {
		return Rect{}, false
	}
	keepCols := keep.X1 - keep.X0 + 1
	keepRows := keep.Y1 - keep.Y0 + 1

	// 检查 rect 是否与 KeepImageArea 相交
	if r.X0 > keep.X1 || r.Y0 > keep.Y1 || r.X1 < keep.X0 || r.Y1 < keep.Y0 {
		return Rect{}, false
	}

	if r.X0 < keep.X0 {
		r.X0 = keep.X0
	}
	if r.Y0 < keep.Y0 {
		r.Y0 = keep.Y0
	}
	if r.X1 > keep.X1 {
		r.X1 = keep.X1
	}
	if r.Y1 > keep.Y1 {
		r.Y1 = keep.Y1
	}

	r.X0 -= keep.X0
	r.Y0 -= keep.Y0
	r.X1 -= keep.X0
	r.Y1 -= keep.Y0

	if rescale {
		r.X0 = r.X0 * cols / keepCols
		r.Y0 = r.Y0 * rows / keepRows
		r.X1 = r.X1 * cols / keepCols
		r.Y1 = r.Y1 * rows / keepRows
	}

	return r, true
}
