package x3f

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
	"gopkg.in/yaml.v3"

	"github.com/weaming/x3f-dng/matrix"
)

// Bundle 以 YAML 描述的已解码图像和 CAMF 标定数据
// 图像平面是一张 16-bit RGB TIFF，位于 BMT 传感器空间
type Bundle struct {
	doc   BundleDoc
	dir   string
	image *Area16
}

// BundleDoc bundle 文件的内容
type BundleDoc struct {
	Image             string                     `yaml:"image"`
	WhiteBalance      string                     `yaml:"white_balance"`
	Levels            LevelsDoc                  `yaml:"levels"`
	Properties        map[string]string          `yaml:"properties"`
	Floats            map[string]float64         `yaml:"floats"`
	Texts             map[string]string          `yaml:"texts"`
	Unsigned          map[string]uint32          `yaml:"unsigned"`
	Rects             map[string][]uint32        `yaml:"rects"`
	Vectors           map[string][]float64       `yaml:"vectors"`
	WhiteBalances     map[string]WhiteBalanceDoc `yaml:"white_balances"`
	SpatialGainTables map[string][]GainDoc       `yaml:"spatial_gain_tables"`
	SpatialGain       []GainDoc                  `yaml:"spatial_gain"`
	Thumbnail         *ThumbnailDoc              `yaml:"thumbnail"`
}

// LevelsDoc 黑白电平
type LevelsDoc struct {
	Black []float64 `yaml:"black"`
	White []uint32  `yaml:"white"`
}

// WhiteBalanceDoc 单个白平衡预设的标定数据
type WhiteBalanceDoc struct {
	// ColorCorrection 与 sRGB→XYZ 相乘得到 bmt_to_xyz
	ColorCorrection []float64 `yaml:"color_correction"`
	// BMTToXYZ 直接给出 bmt_to_xyz，优先于 ColorCorrection
	BMTToXYZ []float64 `yaml:"bmt_to_xyz"`
	Gain     []float64 `yaml:"gain"`
}

// GainDoc 一个空间增益网格
type GainDoc struct {
	Channel   uint32    `yaml:"channel"`
	Channels  uint32    `yaml:"channels"`
	RowPitch  uint32    `yaml:"row_pitch"`
	ColPitch  uint32    `yaml:"col_pitch"`
	RowOffset uint32    `yaml:"row_offset"`
	ColOffset uint32    `yaml:"col_offset"`
	Rows      uint32    `yaml:"rows"`
	Cols      uint32    `yaml:"cols"`
	Gain      []float64 `yaml:"gain"`
}

// ThumbnailDoc 内嵌 JPEG 缩略图尺寸
type ThumbnailDoc struct {
	Columns uint32 `yaml:"columns"`
	Rows    uint32 `yaml:"rows"`
}

// 白平衡增益的附加修正因子
var gainFactors = []string{"SensorAdjustmentGainFact", "TempGainFact", "FNumberGainFact"}

// OpenBundle 读取 bundle 文件，图像路径相对于 bundle 所在目录
func OpenBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 bundle 失败: %w", err)
	}
	b, err := ParseBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.dir = filepath.Dir(path)
	return b, nil
}

// ParseBundle 解析 YAML 内容
func ParseBundle(data []byte) (*Bundle, error) {
	var doc BundleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析 bundle 失败: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &Bundle{doc: doc}, nil
}

// NewBundle 用已解码的图像构造 bundle
func NewBundle(doc BundleDoc, img *Area16) (*Bundle, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &Bundle{doc: doc, image: img}, nil
}

func (d *BundleDoc) validate() error {
	for name, r := range d.Rects {
		if len(r) != 4 {
			return fmt.Errorf("rect %s: 需要 4 个坐标, 实际 %d", name, len(r))
		}
	}
	for name, v := range d.Vectors {
		if len(v) != 3 {
			return fmt.Errorf("vector %s: 需要 3 个元素, 实际 %d", name, len(v))
		}
	}
	for name, wb := range d.WhiteBalances {
		if wb.ColorCorrection != nil && len(wb.ColorCorrection) != 9 {
			return fmt.Errorf("white balance %s: color_correction 需要 9 个元素", name)
		}
		if wb.BMTToXYZ != nil && len(wb.BMTToXYZ) != 9 {
			return fmt.Errorf("white balance %s: bmt_to_xyz 需要 9 个元素", name)
		}
		if wb.Gain != nil && len(wb.Gain) != 3 {
			return fmt.Errorf("white balance %s: gain 需要 3 个元素", name)
		}
	}
	if d.Levels.Black != nil && len(d.Levels.Black) != 3 {
		return fmt.Errorf("levels.black 需要 3 个元素")
	}
	if d.Levels.White != nil && len(d.Levels.White) != 3 {
		return fmt.Errorf("levels.white 需要 3 个元素")
	}
	return nil
}

// Doc 返回 bundle 内容
func (b *Bundle) Doc() BundleDoc {
	return b.doc
}

// WhiteBalance 相机记录的白平衡
func (b *Bundle) WhiteBalance() string {
	if b.doc.WhiteBalance != "" {
		return b.doc.WhiteBalance
	}
	if code, ok := b.CAMFUint32("WhiteBalance"); ok {
		return WhiteBalanceFromCode(code)
	}
	return WBAuto
}

func (b *Bundle) whiteBalance(wb string) (WhiteBalanceDoc, bool) {
	doc, ok := b.doc.WhiteBalances[wb]
	if !ok && wb == WBDaylight {
		// SD1 的 Workaround: Daylight -> Sunlight
		doc, ok = b.doc.WhiteBalances[WBSunlight]
	}
	return doc, ok
}

// BMTToXYZ bmt_to_xyz = sRGB_to_XYZ × ColorCorrections
func (b *Bundle) BMTToXYZ(wb string) (matrix.Matrix3x3, bool) {
	doc, ok := b.whiteBalance(wb)
	if !ok {
		debug("BMTToXYZ: 白平衡 '%s' 不存在", wb)
		return matrix.Matrix3x3{}, false
	}

	var m matrix.Matrix3x3
	switch {
	case doc.BMTToXYZ != nil:
		copy(m[:], doc.BMTToXYZ)
		return m, true
	case doc.ColorCorrection != nil:
		var cc matrix.Matrix3x3
		copy(cc[:], doc.ColorCorrection)
		return matrix.SRGBToXYZ.Multiply(cc), true
	default:
		return matrix.Matrix3x3{}, false
	}
}

// WhiteBalanceGain 白平衡增益，乘上传感器、温度和光圈修正因子
func (b *Bundle) WhiteBalanceGain(wb string) (matrix.Vector3, bool) {
	doc, ok := b.whiteBalance(wb)
	if !ok || doc.Gain == nil {
		return matrix.Vector3{}, false
	}

	gain := matrix.Vector3{doc.Gain[0], doc.Gain[1], doc.Gain[2]}
	for _, name := range gainFactors {
		if fact, ok := b.doc.Vectors[name]; ok {
			gain = gain.ComponentMul(matrix.Vector3{fact[0], fact[1], fact[2]})
		}
	}
	return gain, true
}

// CAMFRect 查询矩形并缩放到解码图像
func (b *Bundle) CAMFRect(name string, rows, cols uint32, rescale bool) (Rect, bool) {
	r, ok := b.rect(name)
	if !ok {
		return Rect{}, false
	}
	keep, ok := b.rect("KeepImageArea")
	if !ok {
		if cols == 0 || rows == 0 {
			return Rect{}, false
		}
		keep = Rect{0, 0, cols - 1, rows - 1}
	}
	return ScaleRect(r, keep, rows, cols, rescale)
}

func (b *Bundle) rect(name string) (Rect, bool) {
	v, ok := b.doc.Rects[name]
	if !ok {
		return Rect{}, false
	}
	return Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, true
}

// CAMFFloat 查询浮点数
func (b *Bundle) CAMFFloat(name string) (float64, bool) {
	v, ok := b.doc.Floats[name]
	return v, ok
}

// CAMFText 查询文本
func (b *Bundle) CAMFText(name string) (string, bool) {
	v, ok := b.doc.Texts[name]
	return v, ok
}

// CAMFUint32 查询无符号整数
func (b *Bundle) CAMFUint32(name string) (uint32, bool) {
	v, ok := b.doc.Unsigned[name]
	return v, ok
}

// Property 查询 PROP 段属性
func (b *Bundle) Property(name string) (string, bool) {
	v, ok := b.doc.Properties[name]
	return v, ok
}

// ThumbnailSize 内嵌 JPEG 缩略图尺寸
func (b *Bundle) ThumbnailSize() (uint32, uint32, bool) {
	t := b.doc.Thumbnail
	if t == nil || t.Columns == 0 || t.Rows == 0 {
		return 0, 0, false
	}
	return t.Columns, t.Rows, true
}

// SpatialGain 优先使用白平衡对应的表，否则使用通用的 SpatialGain
func (b *Bundle) SpatialGain(wb string) []SpatialGainCorrection {
	docs, ok := b.doc.SpatialGainTables[wb]
	if !ok {
		docs = b.doc.SpatialGain
	}

	result := make([]SpatialGainCorrection, 0, len(docs))
	for _, g := range docs {
		gain := make([]float64, len(g.Gain))
		copy(gain, g.Gain)
		result = append(result, SpatialGainCorrection{
			Channel:   g.Channel,
			Channels:  g.Channels,
			RowPitch:  g.RowPitch,
			ColPitch:  g.ColPitch,
			RowOffset: g.RowOffset,
			ColOffset: g.ColOffset,
			Rows:      g.Rows,
			Cols:      g.Cols,
			Gain:      gain,
		})
	}
	return result
}

// Image 返回解码后的图像；bundle 保存的是已处理的数据，
// 坏点修复、降噪和空间增益选项不会再次应用
func (b *Bundle) Image(opts ImageOptions) (*Area16, ImageLevels, error) {
	if b.image == nil {
		img, err := b.loadImage()
		if err != nil {
			return nil, ImageLevels{}, err
		}
		b.image = img
	}

	levels := b.levels()
	img := b.image
	if opts.Crop {
		r, ok := b.CAMFRect("ActiveImageArea", img.Rows, img.Columns, true)
		if !ok {
			return nil, ImageLevels{}, fmt.Errorf("无法获取 ActiveImageArea")
		}
		img = cropArea(img, r)
	}

	// 返回副本，调用方可以自由修改
	out := NewArea16(img.Rows, img.Columns, img.Channels)
	for row := uint32(0); row < img.Rows; row++ {
		copy(out.Row(row), img.Row(row))
	}
	return out, levels, nil
}

func (b *Bundle) levels() ImageLevels {
	levels := ImageLevels{White: [3]uint32{65535, 65535, 65535}}
	if b.doc.Levels.Black != nil {
		copy(levels.Black[:], b.doc.Levels.Black)
	}
	if b.doc.Levels.White != nil {
		copy(levels.White[:], b.doc.Levels.White)
	}
	return levels
}

func (b *Bundle) loadImage() (*Area16, error) {
	if b.doc.Image == "" {
		return nil, fmt.Errorf("bundle 没有指定图像")
	}
	path := b.doc.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开图像: %w", err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("无法解码图像 %s: %w", path, err)
	}
	return areaFromImage(img), nil
}

// areaFromImage 将 16-bit TIFF 图像转换为 3 通道 Area16
func areaFromImage(img image.Image) *Area16 {
	bounds := img.Bounds()
	area := NewArea16(uint32(bounds.Dy()), uint32(bounds.Dx()), 3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := area.Row(uint32(y - bounds.Min.Y))
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := (x - bounds.Min.X) * 3
			switch src := img.(type) {
			case *image.RGBA64:
				c := src.RGBA64At(x, y)
				row[i], row[i+1], row[i+2] = c.R, c.G, c.B
			case *image.NRGBA64:
				c := src.NRGBA64At(x, y)
				row[i], row[i+1], row[i+2] = c.R, c.G, c.B
			default:
				r, g, b, _ := img.At(x, y).RGBA()
				row[i], row[i+1], row[i+2] = uint16(r), uint16(g), uint16(b)
			}
		}
	}
	return area
}

func cropArea(img *Area16, r Rect) *Area16 {
	cols := r.X1 - r.X0 + 1
	rows := r.Y1 - r.Y0 + 1
	out := NewArea16(rows, cols, img.Channels)
	for row := uint32(0); row < rows; row++ {
		src := img.Row(r.Y0 + row)
		copy(out.Row(row), src[r.X0*img.Channels:(r.X0+cols)*img.Channels])
	}
	return out
}
