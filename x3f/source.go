package x3f

import "github.com/weaming/x3f-dng/matrix"

// CAMF 相机标定元数据查询，找不到时返回 ok=false
type CAMF interface {
	// CAMFRect 返回 name 对应的矩形，rescale 时缩放到 rows × cols 的解码图像
	CAMFRect(name string, rows, cols uint32, rescale bool) (Rect, bool)
	CAMFFloat(name string) (float64, bool)
	CAMFText(name string) (string, bool)
	CAMFUint32(name string) (uint32, bool)
	Property(name string) (string, bool)
}

// ColorSource 按白平衡提供色彩标定数据
type ColorSource interface {
	// BMTToXYZ 传感器 (BMT) 空间到 XYZ (D65) 的矩阵
	BMTToXYZ(wb string) (matrix.Matrix3x3, bool)
	// WhiteBalanceGain 各通道白平衡增益
	WhiteBalanceGain(wb string) (matrix.Vector3, bool)
}

// Source DNG 输出需要的全部外部数据
type Source interface {
	CAMF
	ColorSource

	// WhiteBalance 相机记录的白平衡
	WhiteBalance() string
	// Image 解码后的全分辨率图像及其黑白电平
	Image(opts ImageOptions) (*Area16, ImageLevels, error)
	// SpatialGain 白平衡对应的空间增益网格，可能为空
	SpatialGain(wb string) []SpatialGainCorrection
	// ThumbnailSize 内嵌 JPEG 缩略图尺寸
	ThumbnailSize() (columns, rows uint32, ok bool)
}
