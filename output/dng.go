package output

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/x3f"
)

var debug = x3f.Debug

// RawRowsPerStrip RAW 图像每个条带的行数
const RawRowsPerStrip = 32

// ProfileIntent 嵌入哪些色彩配置
type ProfileIntent int

const (
	// IntentEmbed 嵌入全部 DefaultCameraProfiles
	IntentEmbed ProfileIntent = iota
	// IntentCalibrated 只写入相机型号对应的固定标定矩阵，不生成预览图
	IntentCalibrated
	// IntentNone 不写入色彩配置
	IntentNone
)

func (i ProfileIntent) String() string {
	switch i {
	case IntentEmbed:
		return "embed"
	case IntentCalibrated:
		return "calibrated"
	case IntentNone:
		return "none"
	default:
		return fmt.Sprintf("ProfileIntent(%d)", int(i))
	}
}

// ParseProfileIntent 解析 embed / calibrated / none
func ParseProfileIntent(name string) (ProfileIntent, error) {
	switch strings.ToLower(name) {
	case "", "embed":
		return IntentEmbed, nil
	case "calibrated":
		return IntentCalibrated, nil
	case "none":
		return IntentNone, nil
	default:
		return IntentEmbed, fmt.Errorf("%w: 未知的 profile 模式 '%s'", ErrArgument, name)
	}
}

// DNGOptions DNG 输出选项
type DNGOptions struct {
	WhiteBalance     string // 空表示使用相机记录的白平衡
	FixBad           bool
	Denoise          bool
	ApplySpatialGain bool
	Compress         bool
	Intent           ProfileIntent
	// Profiles 替换 IntentEmbed 的 DefaultCameraProfiles
	Profiles []CameraProfile
	// Calibrated 覆盖内置的标定矩阵
	Calibrated   map[x3f.CameraModel]ResolvedProfile
	PreviewWidth uint32
}

// ExportDNG 将 src 写为 DNG 文件；失败时删除不完整的输出
func ExportDNG(src x3f.Source, filename string, opts DNGOptions, logger *x3f.Logger) error {
	c, err := CreateContainer(filename)
	if err != nil {
		return err
	}

	err = WriteDNG(c, src, filepath.Base(filename), opts, logger)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filename)
		return err
	}
	return nil
}

// WriteDNG 在 c 中写入完整的 DNG，name 参与 RawDataUniqueID 的计算
// 写入顺序: 预览图数据, RAW 数据, RAW IFD, IFD0 与额外 profile
func WriteDNG(c *Container, src x3f.Source, name string, opts DNGOptions, logger *x3f.Logger) error {
	wb := opts.WhiteBalance
	if wb == "" {
		wb = src.WhiteBalance()
	}

	profiles, err := profilesFor(src, opts)
	if err != nil {
		return err
	}

	logger.Step("解码图像", wb)
	img, levels, err := src.Image(x3f.ImageOptions{
		FixBad:           opts.FixBad,
		Denoise:          opts.Denoise,
		ApplySpatialGain: opts.ApplySpatialGain,
		WhiteBalance:     wb,
	})
	if err != nil {
		return fmt.Errorf("%w: 无法获取图像: %v", ErrArgument, err)
	}
	if img.Channels != 3 {
		return fmt.Errorf("%w: 需要 3 通道图像, 实际 %d", ErrArgument, img.Channels)
	}
	logger.Done(fmt.Sprintf("%dx%d", img.Columns, img.Rows))

	root := NewIFDWriter(c.Order())
	raw := root
	if opts.Intent != IntentCalibrated {
		logger.Step("生成预览图")
		preview, err := MakePreview(img, levels, src, wb, opts.PreviewWidth)
		if err != nil {
			return err
		}
		if err := writePreview(c, root, preview); err != nil {
			return err
		}
		logger.Done(fmt.Sprintf("%dx%d", preview.Columns, preview.Rows))
		raw = NewIFDWriter(c.Order())
	}

	if err := writeRootTags(root, src, name, wb, opts); err != nil {
		return err
	}

	logger.Step("写入 RAW 数据")
	if err := writeRaw(c, raw, src, img, levels, wb, opts, logger); err != nil {
		return err
	}
	logger.Done(fmt.Sprintf("%d 条带", (img.Rows+RawRowsPerStrip-1)/RawRowsPerStrip))

	if raw != root {
		rawOffset, err := c.WriteDirectory(raw)
		if err != nil {
			return err
		}
		root.AddLong(TagSubIFDs, rawOffset)
	}

	logger.Step("写入 Camera Profiles", len(profiles))
	var rootOffset uint32
	if len(profiles) == 0 {
		rootOffset, err = c.WriteDirectory(root)
	} else {
		rootOffset, err = WriteCameraProfiles(c, root, src, wb, profiles)
	}
	if err != nil {
		return err
	}
	c.SetRoot(rootOffset)
	logger.Done(opts.Intent.String())
	return nil
}

// profilesFor 按 intent 选择 profile
func profilesFor(src x3f.Source, opts DNGOptions) ([]CameraProfile, error) {
	switch opts.Intent {
	case IntentEmbed:
		if len(opts.Profiles) > 0 {
			return opts.Profiles, nil
		}
		return DefaultCameraProfiles, nil
	case IntentCalibrated:
		model, err := x3f.DetectCamera(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArgument, err)
		}
		p, err := CalibratedProfile(model, opts.Calibrated)
		if err != nil {
			return nil, err
		}
		return []CameraProfile{p}, nil
	case IntentNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: 未知的 profile 模式 %d", ErrArgument, opts.Intent)
	}
}

// writePreview 写入 8-bit 预览图数据，并在 root 中添加 reduced image 标签
func writePreview(c *Container, root *IFDWriter, preview *x3f.Area8) error {
	offsets, counts, err := c.WriteStrips(preview.Rows, preview.Rows, false, func(i uint32) []byte {
		return preview.Row(i)
	})
	if err != nil {
		return err
	}

	root.AddLong(TagNewSubfileType, SubfileReducedImage)
	root.AddLong(TagImageWidth, preview.Columns)
	root.AddLong(TagImageLength, preview.Rows)
	root.AddShorts(TagBitsPerSample, []uint16{8, 8, 8})
	root.AddShort(TagCompression, CompressionNone)
	root.AddShort(TagPhotometricInterpret, PhotometricRGB)
	root.AddLongs(TagStripOffsets, offsets)
	root.AddShort(TagOrientation, 1)
	root.AddShort(TagSamplesPerPixel, 3)
	root.AddLong(TagRowsPerStrip, preview.Rows)
	root.AddLongs(TagStripByteCounts, counts)
	root.AddShort(TagPlanarConfiguration, 1)
	return nil
}

// writeRootTags IFD0 的相机、版本、曝光和白平衡标签
func writeRootTags(root *IFDWriter, src x3f.Source, name, wb string, opts DNGOptions) error {
	root.AddBytes(TagDNGVersion, []byte{1, 4, 0, 0})
	if opts.Compress {
		root.AddBytes(TagDNGBackwardVersion, []byte{1, 4, 0, 0})
	} else {
		root.AddBytes(TagDNGBackwardVersion, []byte{1, 3, 0, 0})
	}

	maker, model := cameraNames(src)
	root.AddASCII(TagMake, maker)
	root.AddASCII(TagModel, model)
	root.AddASCII(TagUniqueCameraModel, maker+" "+model)
	root.AddASCII(TagSoftware, "x3f-dng "+x3f.Version)

	id := rawDataUniqueID(src, name, model)
	root.AddBytes(TagRawDataUniqueID, id[:])

	if sensorISO, ok := src.CAMFFloat("SensorISO"); ok && sensorISO > 0 {
		if captureISO, ok := src.CAMFFloat("CaptureISO"); ok && captureISO > 0 {
			root.AddSRational(TagBaselineExposure, math.Log2(captureISO/sensorISO))
		}
	}

	gain, ok := src.WhiteBalanceGain(wb)
	if !ok {
		return fmt.Errorf("%w: 无法获取白平衡增益: %s", ErrArgument, wb)
	}
	root.AddVector(TagAsShotNeutral, gain.Invert())

	if opts.Intent == IntentEmbed {
		gainD65, ok := src.WhiteBalanceGain(x3f.WBD65)
		if !ok {
			return fmt.Errorf("%w: 无法获取白平衡增益: %s", ErrArgument, x3f.WBD65)
		}
		root.AddMatrix(TagCameraCalibration1, matrix.Diagonal3x3(gainD65.Invert()))
	}
	return nil
}

// cameraNames 相机厂商和型号
func cameraNames(src x3f.Source) (string, string) {
	maker, ok := src.CAMFText("Make")
	if !ok || maker == "" {
		maker = "SIGMA"
	}

	if model, ok := src.CAMFText("Model"); ok && model != "" {
		return maker, model
	}
	if model, ok := src.Property("CAMMODEL"); ok && model != "" {
		return maker, strings.TrimSpace(strings.TrimPrefix(model, maker))
	}
	if m, err := x3f.DetectCamera(src); err == nil {
		return maker, strings.TrimPrefix(m.String(), "SIGMA ")
	}
	return maker, "unknown"
}

// rawDataUniqueID 由输出文件名和拍摄标识生成的 16 字节 ID
func rawDataUniqueID(src x3f.Source, name, model string) uuid.UUID {
	parts := []string{name, model}
	for _, key := range []string{"CAMSERIAL", "TIME"} {
		if v, ok := src.Property(key); ok {
			parts = append(parts, v)
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00")))
}

// writeRaw 写入全分辨率 RAW 数据，并在 raw 中添加对应的标签
func writeRaw(c *Container, raw *IFDWriter, src x3f.Source, img *x3f.Area16, levels x3f.ImageLevels, wb string, opts DNGOptions, logger *x3f.Logger) error {
	raw.AddLong(TagNewSubfileType, SubfileFullResolution)
	raw.AddLong(TagImageWidth, img.Columns)
	raw.AddLong(TagImageLength, img.Rows)
	raw.AddShorts(TagBitsPerSample, []uint16{16, 16, 16})
	if opts.Compress {
		raw.AddShort(TagCompression, CompressionAdobeDeflate)
	} else {
		raw.AddShort(TagCompression, CompressionNone)
	}
	raw.AddShort(TagPhotometricInterpret, PhotometricLinearRaw)
	raw.AddShort(TagSamplesPerPixel, 3)
	raw.AddLong(TagRowsPerStrip, RawRowsPerStrip)
	raw.AddShort(TagPlanarConfiguration, 1)

	// 阻止 DNG 处理软件进一步进行色度降噪
	raw.AddRational(TagChromaBlurRadius, 0)
	raw.AddBytes(TagCFAPlaneColor, []byte{0, 1, 2})
	raw.AddRationals(TagDefaultScale, []float64{1, 1})
	raw.AddRational(TagLinearResponseLimit, 1)
	raw.AddRational(TagAntiAliasStrength, 0)

	black := make([][2]uint32, 3)
	for i := range black {
		b := math.Max(0, float64(float32(levels.Black[i])))
		black[i] = [2]uint32{uint32(b * blackLevelDenom), blackLevelDenom}
	}
	raw.AddRationalFraction(TagBlackLevel, black)
	raw.AddLongs(TagWhiteLevel, levels.White[:])
	raw.AddShorts(TagBlackLevelRepeatDim, []uint16{1, 1})

	active, hasActive := CAMFRectAsDNGRect(src, "ActiveImageArea", img, true)

	if opts.ApplySpatialGain {
		if err := writeSpatialGain(raw, src, img, wb, active, hasActive); err != nil {
			logger.Warn("无法获取空间增益: %v", err)
		}
	}

	if hasActive {
		raw.AddLongs(TagActiveArea, active.Longs())
		if cols, rows, ok := src.ThumbnailSize(); ok {
			crop := active.DefaultUserCrop(cols, rows)
			raw.AddRationals(TagDefaultUserCrop, crop[:])
			debug("DefaultUserCrop %dx%d: %v", cols, rows, crop)
		}
	} else {
		logger.Warn("无法获取 ActiveImageArea")
	}

	order := c.Order()
	buf := make([]byte, img.Columns*img.Channels*2)
	offsets, counts, err := c.WriteStrips(img.Rows, RawRowsPerStrip, opts.Compress, func(i uint32) []byte {
		for j, v := range img.Row(i) {
			order.PutUint16(buf[j*2:], v)
		}
		return buf
	})
	if err != nil {
		return err
	}
	raw.AddLongs(TagStripOffsets, offsets)
	raw.AddLongs(TagStripByteCounts, counts)
	return nil
}

// writeSpatialGain 编码 OpcodeList2
func writeSpatialGain(raw *IFDWriter, src x3f.Source, img *x3f.Area16, wb string, active DNGRect, hasActive bool) error {
	if !hasActive {
		return errors.New("无法获取 ActiveImageArea")
	}
	data, err := EncodeGainMaps(src.SpatialGain(wb), active, img.Rows, img.Columns)
	if err != nil {
		return err
	}
	raw.AddUndefined(TagOpcodeList2, data)
	return nil
}
