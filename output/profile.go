package output

import (
	"fmt"

	"github.com/weaming/x3f-dng/colorspace"
	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/x3f"
)

// ProfileKind camera profile 的渲染方式
type ProfileKind int

const (
	// ProfileStandard 使用白平衡对应的 bmt_to_xyz
	ProfileStandard ProfileKind = iota
	// ProfileGrayscale 按 Mix 权重混合为亮度
	ProfileGrayscale
	// ProfilePassThrough 不做色彩转换，把数据当作工作空间 RGB
	ProfilePassThrough
	// ProfileCalibrated 固定的标定矩阵
	ProfileCalibrated
)

func (k ProfileKind) String() string {
	switch k {
	case ProfileStandard:
		return "standard"
	case ProfileGrayscale:
		return "grayscale"
	case ProfilePassThrough:
		return "pass-through"
	case ProfileCalibrated:
		return "calibrated"
	default:
		return fmt.Sprintf("ProfileKind(%d)", int(k))
	}
}

// CameraProfile 一个可嵌入 DNG 的色彩配置
type CameraProfile struct {
	Name       string
	Kind       ProfileKind
	Mix        matrix.Vector3  // ProfileGrayscale 的通道权重
	Calibrated ResolvedProfile // ProfileCalibrated 的矩阵
}

// ResolvedProfile 某个白平衡下 profile 的 DNG 矩阵
type ResolvedProfile struct {
	ColorMatrix1   matrix.Matrix3x3 // XYZ -> 传感器
	ForwardMatrix1 matrix.Matrix3x3 // 传感器 -> XYZ (D50)
}

// DefaultCameraProfiles 嵌入模式下的 profile，第一个是主 profile
var DefaultCameraProfiles = []CameraProfile{
	{Name: "Default", Kind: ProfileStandard},
	{Name: "Grayscale", Kind: ProfileGrayscale, Mix: matrix.Vector3{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0}},
	{Name: "Grayscale (red filter)", Kind: ProfileGrayscale, Mix: matrix.Vector3{2.0, -1.0, 0.0}},
	{Name: "Grayscale (blue filter)", Kind: ProfileGrayscale, Mix: matrix.Vector3{0.0, -1.0, 2.0}},
	{Name: "Unconverted", Kind: ProfilePassThrough},
}

// sensorToXYZ 传感器空间 -> XYZ (D65)
func (p CameraProfile) sensorToXYZ(src x3f.ColorSource, wb string) (matrix.Matrix3x3, error) {
	switch p.Kind {
	case ProfileStandard:
		m, ok := src.BMTToXYZ(wb)
		if !ok {
			return matrix.Matrix3x3{}, fmt.Errorf("%w: 无法获取白平衡 '%s' 的 bmt_to_xyz", ErrArgument, wb)
		}
		return m, nil
	case ProfileGrayscale, ProfilePassThrough:
		// 假定工作空间为 Adobe RGB
		return colorspace.GetRGBToXYZMatrix(colorspace.WorkingSpace), nil
	default:
		return matrix.Matrix3x3{}, fmt.Errorf("%w: profile '%s' 没有传感器矩阵", ErrArgument, p.Name)
	}
}

// Resolve 计算 profile 在白平衡 wb 下的 ColorMatrix1 和 ForwardMatrix1
func Resolve(p CameraProfile, src x3f.ColorSource, wb string) (ResolvedProfile, error) {
	if p.Kind == ProfileCalibrated {
		return p.Calibrated, nil
	}

	bmtToXYZ, err := p.sensorToXYZ(src, wb)
	if err != nil {
		return ResolvedProfile{}, err
	}

	xyzToBMT, err := bmtToXYZ.Inverse()
	if err != nil {
		return ResolvedProfile{}, fmt.Errorf("%w: profile '%s': %v", ErrArgument, p.Name, err)
	}

	var forward matrix.Matrix3x3
	if p.Kind == ProfileGrayscale {
		// 每个输出通道得到相同的混合亮度，再缩放到 D50 白点
		grayscale := matrix.Ones3x3().Multiply(matrix.Diagonal3x3(p.Mix))
		forward = matrix.Diagonal3x3(matrix.D50WhitePoint).Multiply(grayscale)
	} else {
		forward = matrix.BradfordD65ToD50.Multiply(bmtToXYZ)
	}

	return ResolvedProfile{
		ColorMatrix1:   xyzToBMT,
		ForwardMatrix1: forward,
	}, nil
}

// WriteProfileTags 将 profile 写入 IFD
func WriteProfileTags(dir *IFDWriter, name string, r ResolvedProfile) {
	dir.AddMatrix(TagColorMatrix1, r.ColorMatrix1)
	dir.AddMatrix(TagForwardMatrix1, r.ForwardMatrix1)
	dir.AddShort(TagCalibrationIllum1, LightSourceD65)
	dir.AddASCII(TagProfileName, name)
	// 不让 raw 转换软件裁剪暗部
	dir.AddLong(TagDefaultBlackRender, BlackRenderNone)
}
