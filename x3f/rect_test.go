package x3f

import "testing"

func TestScaleRect(t *testing.T) {
	keep := Rect{X0: 10, Y0: 10, X1: 209, Y1: 109} // 200 × 100

	tests := []struct {
		name    string
		r       Rect
		rows    uint32
		cols    uint32
		rescale bool
		want    Rect
		ok      bool
	}{
		{"inside", Rect{20, 30, 109, 59}, 100, 200, false, Rect{10, 20, 99, 49}, true},
		{"clipped", Rect{0, 0, 500, 500}, 100, 200, false, Rect{0, 0, 199, 99}, true},
		{"rescaled half", Rect{10, 10, 209, 109}, 50, 100, true, Rect{0, 0, 99, 49}, true},
		{"outside", Rect{300, 300, 400, 400}, 100, 200, false, Rect{}, false},
		{"inverted x", Rect{100, 20, 50, 59}, 100, 200, true, Rect{}, false},
		{"inverted y", Rect{20, 59, 109, 30}, 100, 200, false, Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScaleRect(tt.r, keep, tt.rows, tt.cols, tt.rescale)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ScaleRect = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScaleRectInvertedKeep(t *testing.T) {
	if _, ok := ScaleRect(Rect{0, 0, 10, 10}, Rect{20, 0, 10, 10}, 10, 10, true); ok {
		t.Error("inverted KeepImageArea accepted")
	}
}
