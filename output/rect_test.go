package output

import (
	"math"
	"testing"

	"github.com/weaming/x3f-dng/x3f"
)

func TestToDNGRect(t *testing.T) {
	got := ToDNGRect(x3f.Rect{X0: 20, Y0: 10, X1: 220, Y1: 110})
	want := DNGRect{Top: 10, Left: 20, Bottom: 111, Right: 221}
	if got != want {
		t.Errorf("ToDNGRect = %+v, want %+v", got, want)
	}
	if got.Width() != 201 || got.Height() != 101 {
		t.Errorf("size = %dx%d", got.Width(), got.Height())
	}
	if l := got.Longs(); l[0] != 10 || l[1] != 20 || l[2] != 111 || l[3] != 221 {
		t.Errorf("Longs = %v", l)
	}
}

func TestCAMFRectAsDNGRect(t *testing.T) {
	doc := testDoc()
	doc.Rects = map[string][]uint32{"ActiveImageArea": {1, 2, 6, 5}}
	src := testSource(t, doc, 8, 8)
	img, _, err := src.Image(x3f.ImageOptions{})
	if err != nil {
		t.Fatal(err)
	}

	r, ok := CAMFRectAsDNGRect(src, "ActiveImageArea", img, true)
	if !ok || r != (DNGRect{Top: 2, Left: 1, Bottom: 6, Right: 7}) {
		t.Errorf("CAMFRectAsDNGRect = %+v, %v", r, ok)
	}
	if _, ok := CAMFRectAsDNGRect(src, "DarkShieldTop", img, true); ok {
		t.Error("missing rect should fail")
	}
}

func TestDefaultUserCrop(t *testing.T) {
	active := DNGRect{Top: 0, Left: 0, Bottom: 100, Right: 200}

	tests := []struct {
		name       string
		cols, rows uint32
		want       [4]float64
	}{
		{"same aspect", 400, 200, [4]float64{0, 0, 1, 1}},
		{"narrower", 100, 100, [4]float64{0, 0.25, 1, 0.75}},
		{"wider", 400, 100, [4]float64{0.25, 0, 0.75, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := active.DefaultUserCrop(tt.cols, tt.rows)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("DefaultUserCrop = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
