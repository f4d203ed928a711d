package x3f

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCamera 无法识别相机型号
var ErrUnknownCamera = errors.New("unknown camera model")

// CameraModel 已知的相机型号
type CameraModel int

const (
	CameraUnknown CameraModel = iota
	CameraSD1Merrill
	CameraDP1Merrill
	CameraDP2Merrill
	CameraDP3Merrill
	CameraDP0Quattro
	CameraDP1Quattro
	CameraDP2Quattro
	CameraDP3Quattro
	CameraSDQuattro
	CameraSDQuattroH
)

type cameraIdentity struct {
	model CameraModel
	name  string // CAMMODEL 属性
	id    uint32 // CAMF CAMERAID
}

var knownCameras = []cameraIdentity{
	{CameraSD1Merrill, "SIGMA SD1 Merrill", CameraIDSD1M},
	{CameraDP1Merrill, "SIGMA DP1 Merrill", CameraIDDP1M},
	{CameraDP2Merrill, "SIGMA DP2 Merrill", CameraIDDP2M},
	{CameraDP3Merrill, "SIGMA DP3 Merrill", CameraIDDP3M},
	{CameraDP0Quattro, "SIGMA dp0 Quattro", CameraIDDP0Q},
	{CameraDP1Quattro, "SIGMA dp1 Quattro", CameraIDDP1Q},
	{CameraDP2Quattro, "SIGMA dp2 Quattro", CameraIDDP2Q},
	{CameraDP3Quattro, "SIGMA dp3 Quattro", CameraIDDP3Q},
	{CameraSDQuattro, "SIGMA sd Quattro", CameraIDSDQ},
	{CameraSDQuattroH, "SIGMA sd Quattro H", CameraIDSDQH},
}

func (m CameraModel) String() string {
	for _, c := range knownCameras {
		if c.model == m {
			return c.name
		}
	}
	return "unknown"
}

// ParseCameraModel 按名称查找型号（不区分大小写，可省略 "SIGMA " 前缀）
func ParseCameraModel(name string) (CameraModel, bool) {
	n := normalizeModelName(name)
	for _, c := range knownCameras {
		if normalizeModelName(c.name) == n {
			return c.model, true
		}
	}
	return CameraUnknown, false
}

func normalizeModelName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(n, "sigma ")
}

// IdentifyCamera 由型号字符串和相机 ID 两个独立标识确定型号
// 两者都存在时必须一致
func IdentifyCamera(name string, hasName bool, id uint32, hasID bool) (CameraModel, error) {
	byName, byID := CameraUnknown, CameraUnknown
	if hasName {
		byName, _ = ParseCameraModel(name)
	}
	if hasID {
		for _, c := range knownCameras {
			if c.id == id {
				byID = c.model
				break
			}
		}
	}

	switch {
	case byName != CameraUnknown && byID != CameraUnknown && byName != byID:
		return CameraUnknown, fmt.Errorf("%w: model %q does not match camera id %d", ErrUnknownCamera, name, id)
	case byName != CameraUnknown:
		return byName, nil
	case byID != CameraUnknown:
		return byID, nil
	default:
		return CameraUnknown, fmt.Errorf("%w: model %q, camera id %d", ErrUnknownCamera, name, id)
	}
}

// DetectCamera 从 CAMMODEL 属性和 CAMF CAMERAID 识别相机
func DetectCamera(camf CAMF) (CameraModel, error) {
	name, hasName := camf.Property("CAMMODEL")
	id, hasID := camf.CAMFUint32("CAMERAID")
	return IdentifyCamera(name, hasName, id, hasID)
}
