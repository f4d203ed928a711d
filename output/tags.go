package output

// TIFF 标签
const (
	TagNewSubfileType       = 254
	TagImageWidth           = 256
	TagImageLength          = 257
	TagBitsPerSample        = 258
	TagCompression          = 259
	TagPhotometricInterpret = 262
	TagImageDescription     = 270
	TagMake                 = 271
	TagModel                = 272
	TagStripOffsets         = 273
	TagOrientation          = 274
	TagSamplesPerPixel      = 277
	TagRowsPerStrip         = 278
	TagStripByteCounts      = 279
	TagPlanarConfiguration  = 284
	TagSoftware             = 305
	TagSubIFDs              = 330
)

// DNG 标签
const (
	TagDNGVersion          = 50706
	TagDNGBackwardVersion  = 50707
	TagUniqueCameraModel   = 50708
	TagCFAPlaneColor       = 50710
	TagBlackLevelRepeatDim = 50713
	TagBlackLevel          = 50714
	TagWhiteLevel          = 50717
	TagDefaultScale        = 50718
	TagColorMatrix1        = 50721
	TagCameraCalibration1  = 50723
	TagAsShotNeutral       = 50728
	TagBaselineExposure    = 50730
	TagLinearResponseLimit = 50734
	TagChromaBlurRadius    = 50737
	TagAntiAliasStrength   = 50738
	TagCalibrationIllum1   = 50778
	TagRawDataUniqueID     = 50781
	TagActiveArea          = 50829
	TagExtraCameraProfiles = 50933
	TagAsShotProfileName   = 50934
	TagProfileName         = 50936
	TagForwardMatrix1      = 50964
	TagOpcodeList2         = 51009
	TagDefaultBlackRender  = 51110
	TagDefaultUserCrop     = 51125
)

// TIFF 数据类型
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
	TypeSRational = 10
)

// Photometric Interpretation 值
const (
	PhotometricRGB       = 2
	PhotometricLinearRaw = 34892
)

// Compression 值
const (
	CompressionNone         = 1
	CompressionAdobeDeflate = 8
)

// NewSubfileType 值
const (
	SubfileFullResolution = 0
	SubfileReducedImage   = 1
)

// DNG 光源类型
const (
	LightSourceD65 = 21
)

// DefaultBlackRender: 不裁剪暗部
const BlackRenderNone = 1

// DNG Opcode 相关常量
const (
	OpcodeGainMapID      = 9          // DNG Opcode ID for GainMap
	OpcodeGainMapVersion = 0x01030000 // DNG Opcode version 1.3.0.0
)

// 嵌入 camera profile 的魔数 (Big Endian)
var profileMagic = []byte{'M', 'M', 'C', 'R'}
