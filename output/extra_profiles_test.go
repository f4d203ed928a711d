package output

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/x3f"
)

func TestWriteCameraProfilesSplices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.dng")
	c, err := CreateContainer(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Append([]byte{0xff, 0xff, 0xff}); err != nil {
		t.Fatal(err)
	}

	src := fixedColor{bmt: matrix.SRGBToXYZ, gain: matrix.Vector3{1, 1, 1}, ok: true}
	dir := NewIFDWriter(c.Order())
	dir.AddShort(TagOrientation, 1)

	dirOffset, err := WriteCameraProfiles(c, dir, src, x3f.WBAuto, DefaultCameraProfiles)
	if err != nil {
		t.Fatal(err)
	}
	c.SetRoot(dirOffset)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	f := readDNG(t, path)
	root := f.tif.Dirs[0]
	if got := tagString(t, mustTag(t, root, TagAsShotProfileName)); got != "Default" {
		t.Errorf("AsShotProfileName = %q", got)
	}
	if got := tagString(t, mustTag(t, root, TagProfileName)); got != "Default" {
		t.Errorf("ProfileName = %q", got)
	}
	if got := tagInt(t, mustTag(t, root, TagDefaultBlackRender), 0); got != BlackRenderNone {
		t.Errorf("DefaultBlackRender = %d", got)
	}

	extra := mustTag(t, root, TagExtraCameraProfiles)
	if int(extra.Count) != len(DefaultCameraProfiles)-1 {
		t.Fatalf("ExtraCameraProfiles count = %d", extra.Count)
	}

	prev := int64(dirOffset) + int64(dir.Size())
	for i := 0; i < int(extra.Count); i++ {
		offset := int64(tagInt(t, extra, i))
		if offset%2 != 0 {
			t.Errorf("profile %d offset %d not even", i, offset)
		}
		if offset < prev {
			t.Errorf("profile %d offset %d before %d", i, offset, prev)
		}
		if string(f.data[offset:offset+4]) != "MMCR" {
			t.Errorf("profile %d signature = %q", i, f.data[offset:offset+4])
		}
		if ifd := binary.BigEndian.Uint32(f.data[offset+4:]); ifd != 8 {
			t.Errorf("profile %d IFD offset = %d", i, ifd)
		}

		sub := dirAt(t, f.data, offset, 8, binary.BigEndian)
		want := DefaultCameraProfiles[i+1].Name
		if got := tagString(t, mustTag(t, sub, TagProfileName)); got != want {
			t.Errorf("profile %d name = %q, want %q", i, got, want)
		}
		mustTag(t, sub, TagColorMatrix1)
		mustTag(t, sub, TagForwardMatrix1)
		if findTag(sub, TagAsShotProfileName) != nil {
			t.Errorf("profile %d should not carry AsShotProfileName", i)
		}
		prev = offset + 4
	}
}

func TestWriteCameraProfilesSingle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.dng")
	c, err := CreateContainer(path)
	if err != nil {
		t.Fatal(err)
	}
	src := fixedColor{bmt: matrix.SRGBToXYZ, ok: true}
	dir := NewIFDWriter(c.Order())
	offset, err := WriteCameraProfiles(c, dir, src, x3f.WBAuto, DefaultCameraProfiles[:1])
	if err != nil {
		t.Fatal(err)
	}
	c.SetRoot(offset)
	c.Close()

	f := readDNG(t, path)
	if findTag(f.tif.Dirs[0], TagExtraCameraProfiles) != nil {
		t.Error("single profile should not write ExtraCameraProfiles")
	}
	if uint32(len(f.data)) != offset+dir.Size() {
		t.Errorf("file size = %d, want %d", len(f.data), offset+dir.Size())
	}
}

func TestWriteCameraProfilesFailures(t *testing.T) {
	singular := []CameraProfile{
		{Name: "Gray", Kind: ProfileGrayscale, Mix: matrix.Vector3{1, 1, 1}},
		{Name: "Broken", Kind: ProfileStandard},
	}

	tests := []struct {
		name     string
		src      fixedColor
		profiles []CameraProfile
	}{
		{"primary unresolved", fixedColor{}, DefaultCameraProfiles},
		{"primary singular", fixedColor{bmt: matrix.Ones3x3(), ok: true}, DefaultCameraProfiles},
		{"extra singular", fixedColor{bmt: matrix.Matrix3x3{}, ok: true}, singular},
		{"empty", fixedColor{bmt: matrix.SRGBToXYZ, ok: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fail.dng")
			c, err := CreateContainer(path)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			before := c.Offset()
			_, err = WriteCameraProfiles(c, NewIFDWriter(c.Order()), tt.src, x3f.WBAuto, tt.profiles)
			if !errors.Is(err, ErrArgument) {
				t.Errorf("error = %v, want ErrArgument", err)
			}
			if StatusOf(err) != StatusArgumentError {
				t.Errorf("StatusOf = %v", StatusOf(err))
			}
			if c.Offset() != before {
				t.Errorf("container grew from %d to %d on failure", before, c.Offset())
			}
		})
	}
}

func TestWriteCameraProfilesOutfileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.dng")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewContainer(file, binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	file.Close()

	src := fixedColor{bmt: matrix.SRGBToXYZ, ok: true}
	_, err = WriteCameraProfiles(c, NewIFDWriter(c.Order()), src, x3f.WBAuto, DefaultCameraProfiles)
	if !errors.Is(err, ErrOutfile) {
		t.Errorf("error = %v, want ErrOutfile", err)
	}
}
