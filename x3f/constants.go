package x3f

// Version x3f-dng 版本号
const Version = "0.3.0"

// Camera IDs (CAMF "CAMERAID")
const (
	CameraIDSD1M uint32 = 76
	CameraIDDP1M uint32 = 77
	CameraIDDP2M uint32 = 78
	CameraIDDP3M uint32 = 79
	CameraIDDP1Q uint32 = 80
	CameraIDDP2Q uint32 = 81
	CameraIDDP3Q uint32 = 82
	CameraIDDP0Q uint32 = 83
	CameraIDSDQ  uint32 = 0x0F // 15 - Sigma sd Quattro
	CameraIDSDQH uint32 = 0x10 // 16 - Sigma sd Quattro H
)

// White balance presets
const (
	WBAuto         = "Auto"
	WBSunlight     = "Sunlight"
	WBShadow       = "Shadow"
	WBOvercast     = "Overcast"
	WBIncandescent = "Incandescent"
	WBFlorescent   = "Florescent"
	WBFlash        = "Flash"
	WBCustom       = "Custom"
	WBColorTemp    = "ColorTemp"
	WBAutoLSP      = "AutoLSP"
	WBDaylight     = "Daylight"
)

// WBD65 作为 D65 参考的白平衡预设
const WBD65 = WBOvercast

// WhiteBalanceFromCode 将 CAMF "WhiteBalance" 数值转为预设名称
func WhiteBalanceFromCode(code uint32) string {
	switch code {
	case 1:
		return WBAuto
	case 2:
		return WBSunlight
	case 3:
		return WBShadow
	case 4:
		return WBOvercast
	case 5:
		return WBIncandescent
	case 6:
		return WBFlorescent
	case 7:
		return WBFlash
	case 8:
		return WBCustom
	case 11:
		return WBColorTemp
	case 12:
		return WBAutoLSP
	default:
		return WBAuto
	}
}
