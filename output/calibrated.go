package output

import (
	"fmt"

	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/x3f"
)

// CalibratedProfileName 标定模式下唯一 profile 的名称
const CalibratedProfileName = "Calibrated"

// Merrill 系列 (SD1 Merrill, DP1/2/3 Merrill)
var merrillCalibration = ResolvedProfile{
	ColorMatrix1: matrix.Matrix3x3{
		1.1050, -0.3443, -0.0837,
		-0.2237, 1.0760, 0.1477,
		0.0436, 0.0614, 0.6674,
	},
	ForwardMatrix1: matrix.Matrix3x3{
		0.6607, 0.2291, 0.0744,
		0.2540, 0.8514, -0.1054,
		0.0092, -0.1635, 0.9795,
	},
}

// Quattro 系列 (dp0/1/2/3 Quattro)
var quattroCalibration = ResolvedProfile{
	ColorMatrix1: matrix.Matrix3x3{
		1.0430, -0.3092, -0.1102,
		-0.2803, 1.1247, 0.1619,
		-0.0166, 0.1221, 0.6608,
	},
	ForwardMatrix1: matrix.Matrix3x3{
		0.6813, 0.1870, 0.0959,
		0.2745, 0.8072, -0.0817,
		0.0236, -0.1904, 0.9920,
	},
}

// sd Quattro / sd Quattro H
var sdQuattroCalibration = ResolvedProfile{
	ColorMatrix1: matrix.Matrix3x3{
		1.0217, -0.2986, -0.1019,
		-0.2911, 1.1385, 0.1526,
		-0.0204, 0.1302, 0.6655,
	},
	ForwardMatrix1: matrix.Matrix3x3{
		0.6902, 0.1781, 0.0959,
		0.2801, 0.8036, -0.0837,
		0.0251, -0.1950, 0.9951,
	},
}

var calibrations = map[x3f.CameraModel]ResolvedProfile{
	x3f.CameraSD1Merrill: merrillCalibration,
	x3f.CameraDP1Merrill: merrillCalibration,
	x3f.CameraDP2Merrill: merrillCalibration,
	x3f.CameraDP3Merrill: merrillCalibration,
	x3f.CameraDP0Quattro: quattroCalibration,
	x3f.CameraDP1Quattro: quattroCalibration,
	x3f.CameraDP2Quattro: quattroCalibration,
	x3f.CameraDP3Quattro: quattroCalibration,
	x3f.CameraSDQuattro:  sdQuattroCalibration,
	x3f.CameraSDQuattroH: sdQuattroCalibration,
}

// CalibratedProfile 返回相机型号对应的固定矩阵 profile，overrides 优先
func CalibratedProfile(model x3f.CameraModel, overrides map[x3f.CameraModel]ResolvedProfile) (CameraProfile, error) {
	r, ok := overrides[model]
	if !ok {
		r, ok = calibrations[model]
	}
	if !ok {
		return CameraProfile{}, fmt.Errorf("%w: 没有 %s 的标定矩阵", ErrArgument, model)
	}
	return CameraProfile{
		Name:       CalibratedProfileName,
		Kind:       ProfileCalibrated,
		Calibrated: r,
	}, nil
}
