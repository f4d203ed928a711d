package output

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"testing"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/weaming/x3f-dng/x3f"
)

// testDoc 一个可以完整转换的 bundle: sRGB 传感器, Overcast 白平衡
func testDoc() x3f.BundleDoc {
	return x3f.BundleDoc{
		WhiteBalance: x3f.WBOvercast,
		Levels: x3f.LevelsDoc{
			Black: []float64{16.5, 16.5, 16.5},
			White: []uint32{4095, 4095, 4095},
		},
		Properties: map[string]string{
			"CAMMODEL":  "SIGMA DP2 Merrill",
			"CAMSERIAL": "1234567",
		},
		Floats:   map[string]float64{"SensorISO": 100, "CaptureISO": 200},
		Unsigned: map[string]uint32{"CAMERAID": x3f.CameraIDDP2M},
		WhiteBalances: map[string]x3f.WhiteBalanceDoc{
			x3f.WBOvercast: {
				ColorCorrection: []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
				Gain:            []float64{2, 1, 4},
			},
			x3f.WBSunlight: {
				ColorCorrection: []float64{1.1, -0.1, 0, 0, 1, 0, 0, -0.1, 1.1},
				Gain:            []float64{1.5, 1, 2},
			},
		},
	}
}

// testImage rows × cols 的渐变图像
func testImage(rows, cols uint32) *x3f.Area16 {
	img := x3f.NewArea16(rows, cols, 3)
	for i := range img.Data {
		img.Data[i] = uint16(i * 37 % 4096)
	}
	return img
}

func testSource(t *testing.T, doc x3f.BundleDoc, rows, cols uint32) *x3f.Bundle {
	t.Helper()
	b, err := x3f.NewBundle(doc, testImage(rows, cols))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func testLogger() *x3f.Logger {
	return x3f.NewLoggerTo(io.Discard)
}

// dngFile 读回的 DNG
type dngFile struct {
	data []byte
	tif  *tiff.Tiff
}

func readDNG(t *testing.T, path string) *dngFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tif, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return &dngFile{data: data, tif: tif}
}

// dirAt 解码 offset 处的 IFD，base 是值偏移的起点
func dirAt(t *testing.T, data []byte, base, offset int64, order binary.ByteOrder) *tiff.Dir {
	t.Helper()
	r := io.NewSectionReader(bytes.NewReader(data), base, int64(len(data))-base)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	dir, _, err := tiff.DecodeDir(r, order)
	if err != nil {
		t.Fatalf("decode dir @%d: %v", base+offset, err)
	}
	return dir
}

func findTag(dir *tiff.Dir, id uint16) *tiff.Tag {
	for _, tag := range dir.Tags {
		if tag.Id == id {
			return tag
		}
	}
	return nil
}

func mustTag(t *testing.T, dir *tiff.Dir, id uint16) *tiff.Tag {
	t.Helper()
	tag := findTag(dir, id)
	if tag == nil {
		t.Fatalf("tag %d missing", id)
	}
	return tag
}

func tagInt(t *testing.T, tag *tiff.Tag, i int) int {
	t.Helper()
	v, err := tag.Int(i)
	if err != nil {
		t.Fatalf("tag %d[%d]: %v", tag.Id, i, err)
	}
	return v
}

func tagString(t *testing.T, tag *tiff.Tag) string {
	t.Helper()
	s, err := tag.StringVal()
	if err != nil {
		t.Fatalf("tag %d: %v", tag.Id, err)
	}
	return s
}

func tagFloat(t *testing.T, tag *tiff.Tag, i int) float64 {
	t.Helper()
	num, den, err := tag.Rat2(i)
	if err != nil {
		t.Fatalf("tag %d[%d]: %v", tag.Id, i, err)
	}
	return float64(num) / float64(den)
}
