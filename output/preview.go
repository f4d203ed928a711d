package output

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/weaming/x3f-dng/colorspace"
	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/x3f"
)

// DefaultPreviewWidth 预览图的最大宽度
const DefaultPreviewWidth = 300

// calculateReduction 计算缩放因子，向上取整
func calculateReduction(width, maxWidth uint32) uint32 {
	reduction := (width + maxWidth - 1) / maxWidth
	if reduction < 1 {
		return 1
	}
	return reduction
}

// buildConversionMatrix 传感器 -> 线性 sRGB，包含白平衡增益和 ISO 缩放
func buildConversionMatrix(src x3f.Source, wb string) (matrix.Matrix3x3, error) {
	bmtToXYZ, ok := src.BMTToXYZ(wb)
	if !ok {
		return matrix.Matrix3x3{}, fmt.Errorf("%w: 无法获取白平衡 '%s' 的 bmt_to_xyz", ErrArgument, wb)
	}
	gain, ok := src.WhiteBalanceGain(wb)
	if !ok {
		return matrix.Matrix3x3{}, fmt.Errorf("%w: 无法获取白平衡增益: %s", ErrArgument, wb)
	}

	rawToXYZ := bmtToXYZ.Multiply(matrix.Diagonal3x3(gain))
	return colorspace.XYZToSRGB.Multiply(rawToXYZ).Scale(isoScaling(src)), nil
}

// isoScaling CaptureISO / SensorISO
func isoScaling(camf x3f.CAMF) float64 {
	sensorISO, ok1 := camf.CAMFFloat("SensorISO")
	captureISO, ok2 := camf.CAMFFloat("CaptureISO")
	if ok1 && ok2 && sensorISO > 0 {
		return captureISO / sensorISO
	}
	return 1.0
}

// MakePreview 从全分辨率 16-bit 传感器图像生成 8-bit sRGB 预览图
func MakePreview(img *x3f.Area16, levels x3f.ImageLevels, src x3f.Source, wb string, maxWidth uint32) (*x3f.Area8, error) {
	if img.Channels != 3 {
		return nil, fmt.Errorf("%w: 预览图需要 3 通道图像, 实际 %d", ErrArgument, img.Channels)
	}
	if maxWidth == 0 {
		maxWidth = DefaultPreviewWidth
	}
	conv, err := buildConversionMatrix(src, wb)
	if err != nil {
		return nil, err
	}

	reduction := calculateReduction(img.Columns, maxWidth)
	cols := max(img.Columns/reduction, 1)
	rows := max(img.Rows/reduction, 1)

	scaled := image.NewRGBA64(image.Rect(0, 0, int(cols), int(rows)))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), area16Image{img}, image.Rect(0, 0, int(img.Columns), int(img.Rows)), draw.Src, nil)

	preview := &x3f.Area8{
		Data:      make([]uint8, rows*cols*3),
		Rows:      rows,
		Columns:   cols,
		Channels:  3,
		RowStride: cols * 3,
	}
	for y := uint32(0); y < rows; y++ {
		row := preview.Row(y)
		for x := uint32(0); x < cols; x++ {
			c := scaled.RGBA64At(int(x), int(y))
			input := matrix.Vector3{float64(c.R), float64(c.G), float64(c.B)}

			var normalized matrix.Vector3
			for i := range normalized {
				normalized[i] = colorspace.NormalizeToRange(input[i], levels.Black[i], float64(levels.White[i]))
			}

			rgb := colorspace.ApplySRGBGamma(conv.Apply(normalized))
			rgb8 := colorspace.ConvertToUint8(rgb)
			copy(row[x*3:x*3+3], rgb8[:])
		}
	}
	return preview, nil
}

// area16Image 将 3 通道 Area16 包装为 image.Image，供 x/image/draw 缩放
type area16Image struct {
	a *x3f.Area16
}

func (m area16Image) ColorModel() color.Model {
	return color.RGBA64Model
}

func (m area16Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.a.Columns), int(m.a.Rows))
}

func (m area16Image) At(x, y int) color.Color {
	return m.RGBA64At(x, y)
}

func (m area16Image) RGBA64At(x, y int) color.RGBA64 {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA64{}
	}
	p := m.a.Row(uint32(y))[x*3:]
	return color.RGBA64{R: p[0], G: p[1], B: p[2], A: 0xffff}
}
