package output

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/weaming/x3f-dng/x3f"
)

func gainGrid(channel, channels, rows, cols uint32) x3f.SpatialGainCorrection {
	gain := make([]float64, rows*cols*channels)
	for i := range gain {
		gain[i] = 1 + float64(i)/100
	}
	return x3f.SpatialGainCorrection{
		Channel:  channel,
		Channels: channels,
		RowPitch: 1,
		ColPitch: 1,
		Rows:     rows,
		Cols:     cols,
		Gain:     gain,
	}
}

func TestOpcodeListSize(t *testing.T) {
	corr := []x3f.SpatialGainCorrection{
		gainGrid(0, 1, 2, 2),
		gainGrid(1, 1, 3, 5),
		gainGrid(0, 3, 4, 4),
	}
	want := 4 + (92 + 2*2*1*4) + (92 + 3*5*1*4) + (92 + 4*4*3*4)
	if got := OpcodeListSize(corr); got != want {
		t.Errorf("OpcodeListSize = %d, want %d", got, want)
	}

	data, err := EncodeGainMaps(corr, DNGRect{0, 0, 100, 100}, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != want {
		t.Errorf("len = %d, want %d", len(data), want)
	}
	if n := binary.BigEndian.Uint32(data); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestEncodeGainMapsLayout(t *testing.T) {
	c := gainGrid(2, 1, 3, 5)
	c.RowOffset, c.ColOffset = 4, 6
	c.RowPitch, c.ColPitch = 2, 3
	active := DNGRect{Top: 10, Left: 20, Bottom: 110, Right: 220}

	data, err := EncodeGainMaps([]x3f.SpatialGainCorrection{c}, active, 120, 240)
	if err != nil {
		t.Fatal(err)
	}

	be := binary.BigEndian
	p := data[4:]
	u32 := func(off int) uint32 { return be.Uint32(p[off:]) }
	f64 := func(off int) float64 { return math.Float64frombits(be.Uint64(p[off:])) }

	fields := []struct {
		name string
		off  int
		want uint32
	}{
		{"id", 0, OpcodeGainMapID},
		{"version", 4, OpcodeGainMapVersion},
		{"flags", 8, 0},
		{"parsize", 12, 76 + 15*4},
		{"top", 16, 4},
		{"left", 20, 6},
		{"bottom", 24, 100},
		{"right", 28, 200},
		{"plane", 32, 2},
		{"planes", 36, 1},
		{"row pitch", 40, 2},
		{"col pitch", 44, 3},
		{"points v", 48, 3},
		{"points h", 52, 5},
		{"map planes", 88, 1},
	}
	for _, f := range fields {
		if got := u32(f.off); got != f.want {
			t.Errorf("%s = %d, want %d", f.name, got, f.want)
		}
	}

	floats := []struct {
		name string
		off  int
		want float64
	}{
		{"spacing v", 56, (120.0 / 100.0) / 2},
		{"spacing h", 64, (240.0 / 200.0) / 4},
		{"origin v", 72, -10.0 / 100.0},
		{"origin h", 80, -20.0 / 200.0},
	}
	for _, f := range floats {
		if got := f64(f.off); got != f.want {
			t.Errorf("%s = %v, want %v", f.name, got, f.want)
		}
	}

	for j, g := range c.Gain {
		got := math.Float32frombits(be.Uint32(p[92+j*4:]))
		if got != float32(g) {
			t.Errorf("gain[%d] = %v, want %v", j, got, float32(g))
		}
	}
}

func TestEncodeGainMapsErrors(t *testing.T) {
	active := DNGRect{0, 0, 10, 10}

	if _, err := EncodeGainMaps(nil, active, 10, 10); !errors.Is(err, ErrNoSpatialGain) {
		t.Errorf("no grids: %v", err)
	}

	for _, size := range [][2]uint32{{1, 4}, {4, 1}, {1, 1}, {0, 3}} {
		corr := []x3f.SpatialGainCorrection{gainGrid(0, 1, 2, 2), gainGrid(0, 1, size[0], size[1])}
		if _, err := EncodeGainMaps(corr, active, 10, 10); !errors.Is(err, ErrDegenerateGrid) {
			t.Errorf("%dx%d grid: %v, want ErrDegenerateGrid", size[0], size[1], err)
		}
	}

	short := gainGrid(0, 3, 2, 2)
	short.Gain = short.Gain[:5]
	if _, err := EncodeGainMaps([]x3f.SpatialGainCorrection{short}, active, 10, 10); !errors.Is(err, ErrArgument) {
		t.Errorf("short gain: %v", err)
	}

	if _, err := EncodeGainMaps([]x3f.SpatialGainCorrection{gainGrid(0, 1, 2, 2)}, DNGRect{5, 5, 5, 9}, 10, 10); !errors.Is(err, ErrArgument) {
		t.Errorf("empty active area: %v", err)
	}

	tests := []struct {
		name string
		grid x3f.SpatialGainCorrection
	}{
		{"no planes", gainGrid(0, 0, 2, 2)},
		{"plane overflow", gainGrid(2, 3, 2, 2)},
		{"plane offset overflow", gainGrid(3, 1, 2, 2)},
		// 65536*65536 在 uint32 下回绕为 0
		{"huge grid", x3f.SpatialGainCorrection{Channels: 1, Rows: 65536, Cols: 65536}},
	}
	for _, tt := range tests {
		if _, err := EncodeGainMaps([]x3f.SpatialGainCorrection{tt.grid}, DNGRect{0, 0, 4, 4}, 4, 4); !errors.Is(err, ErrArgument) {
			t.Errorf("%s: %v, want ErrArgument", tt.name, err)
		}
	}
}
