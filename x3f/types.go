package x3f

import "github.com/weaming/x3f-dng/matrix"

// Rect 传感器坐标系下的矩形 (x=列, y=行，两端都包含)
type Rect struct {
	X0, Y0, X1, Y1 uint32
}

// Area8 represents 8-bit image area
type Area8 struct {
	Data      []uint8
	Rows      uint32
	Columns   uint32
	Channels  uint32
	RowStride uint32 // 每行的元素个数
}

// Row 返回第 row 行的像素数据
func (a *Area8) Row(row uint32) []uint8 {
	start := row * a.RowStride
	return a.Data[start : start+a.Columns*a.Channels]
}

// Area16 represents 16-bit image area
type Area16 struct {
	Data      []uint16
	Rows      uint32
	Columns   uint32
	Channels  uint32
	RowStride uint32 // 每行的元素个数
}

// NewArea16 分配一块紧密排列的 16-bit 图像
func NewArea16(rows, columns, channels uint32) *Area16 {
	return &Area16{
		Data:      make([]uint16, rows*columns*channels),
		Rows:      rows,
		Columns:   columns,
		Channels:  channels,
		RowStride: columns * channels,
	}
}

// Row 返回第 row 行的像素数据
func (a *Area16) Row(row uint32) []uint16 {
	start := row * a.RowStride
	return a.Data[start : start+a.Columns*a.Channels]
}

// ImageLevels represents black and white levels for image
type ImageLevels struct {
	Black matrix.Vector3
	White [3]uint32
}

// SpatialGainCorrection 一个通道平面子网格的空间增益校正
type SpatialGainCorrection struct {
	Channel   uint32 // 起始通道
	Channels  uint32 // 通道数
	RowPitch  uint32
	ColPitch  uint32
	RowOffset uint32
	ColOffset uint32
	Rows      uint32
	Cols      uint32
	Gain      []float64 // rows × cols × channels，行优先
}

// ImageOptions 图像解码流水线的配置
type ImageOptions struct {
	Crop             bool
	FixBad           bool
	Denoise          bool
	ApplySpatialGain bool
	WhiteBalance     string
}
