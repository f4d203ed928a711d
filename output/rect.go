package output

import "github.com/weaming/x3f-dng/x3f"

// DNGRect DNG 坐标系下的矩形：上/左包含，下/右不包含
type DNGRect struct {
	Top, Left, Bottom, Right uint32
}

// ToDNGRect 将 Sigma 的矩形（两端包含）转换为 Adobe 的表示
func ToDNGRect(r x3f.Rect) DNGRect {
	return DNGRect{
		Top:    r.Y0,
		Left:   r.X0,
		Bottom: r.Y1 + 1,
		Right:  r.X1 + 1,
	}
}

// CAMFRectAsDNGRect 查询 CAMF 矩形（相对 image）并转换为 DNG 矩形
func CAMFRectAsDNGRect(camf x3f.CAMF, name string, image *x3f.Area16, rescale bool) (DNGRect, bool) {
	r, ok := camf.CAMFRect(name, image.Rows, image.Columns, rescale)
	if !ok {
		return DNGRect{}, false
	}
	return ToDNGRect(r), true
}

// Height 行数
func (r DNGRect) Height() uint32 {
	return r.Bottom - r.Top
}

// Width 列数
func (r DNGRect) Width() uint32 {
	return r.Right - r.Left
}

// Longs ActiveArea 标签的顺序: top, left, bottom, right
func (r DNGRect) Longs() []uint32 {
	return []uint32{r.Top, r.Left, r.Bottom, r.Right}
}

// DefaultUserCrop 在 active area 内居中裁剪出缩略图的宽高比
// 返回相对 active area 的比例 (top, left, bottom, right)
func (r DNGRect) DefaultUserCrop(thumbCols, thumbRows uint32) [4]float64 {
	aspect := float64(thumbCols) / float64(thumbRows)
	width := float64(r.Width())
	height := float64(r.Height())

	cropWidth, cropHeight := width, height
	if aspect > width/height {
		// 受宽度限制
		cropHeight = width / aspect
	} else {
		cropWidth = height * aspect
	}

	x := (width - cropWidth) / 2
	y := (height - cropHeight) / 2
	return [4]float64{
		y / height,
		x / width,
		(y + cropHeight) / height,
		(x + cropWidth) / width,
	}
}
