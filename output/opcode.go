package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/weaming/x3f-dng/x3f"
)

var (
	// ErrNoSpatialGain 当前白平衡没有空间增益数据
	ErrNoSpatialGain = errors.New("no spatial gain")
	// ErrDegenerateGrid 增益网格在某个方向少于 2 个点
	ErrDegenerateGrid = errors.New("spatial gain grid needs at least 2x2 points")
)

const (
	opcodeListHeaderSize = 4
	opcodeHeaderSize     = 16 // id, ver, flags, parsize
	// GainMap 的固定参数:
	// Top, Left, Bottom, Right, Plane, Planes, RowPitch, ColPitch,
	// MapPointsV, MapPointsH (10 × uint32), MapSpacingV/H, MapOriginV/H (4 × float64),
	// MapPlanes (uint32)
	gainMapParamSize = 10*4 + 4*8 + 4
	gainMapFixedSize = opcodeHeaderSize + gainMapParamSize
)

// OpcodeListSize OpcodeList2 的字节数
func OpcodeListSize(corr []x3f.SpatialGainCorrection) int {
	size := opcodeListHeaderSize
	for _, c := range corr {
		size += gainMapFixedSize + gridPoints(c)*4
	}
	return size
}

func gridPoints(c x3f.SpatialGainCorrection) int {
	return int(c.Rows) * int(c.Cols) * int(c.Channels)
}

// EncodeGainMaps 将空间增益网格编码为 OpcodeList2 (全部 Big Endian)
// X3F 的空间增益相对整幅图像，而 OpcodeList2 在裁剪到 active 之后应用
func EncodeGainMaps(corr []x3f.SpatialGainCorrection, active DNGRect, imageRows, imageCols uint32) ([]byte, error) {
	if len(corr) == 0 {
		return nil, ErrNoSpatialGain
	}
	if active.Bottom <= active.Top || active.Right <= active.Left {
		return nil, fmt.Errorf("%w: active area %+v 为空", ErrArgument, active)
	}
	for i, c := range corr {
		if c.Rows < 2 || c.Cols < 2 {
			return nil, fmt.Errorf("%w: 网格 %d 为 %dx%d", ErrDegenerateGrid, i, c.Rows, c.Cols)
		}
		if c.Channels == 0 || uint64(c.Channel)+uint64(c.Channels) > 3 {
			return nil, fmt.Errorf("%w: 网格 %d 的通道 %d+%d 超出范围", ErrArgument, i, c.Channel, c.Channels)
		}
		if n := gridPoints(c); len(c.Gain) != n {
			return nil, fmt.Errorf("%w: 网格 %d 有 %d 个增益值, 应为 %d", ErrArgument, i, len(c.Gain), n)
		}
	}

	height := float64(active.Height())
	width := float64(active.Width())
	originV := -float64(active.Top) / height
	originH := -float64(active.Left) / width
	scaleV := float64(imageRows) / height
	scaleH := float64(imageCols) / width

	buf := make([]byte, OpcodeListSize(corr))
	be := binary.BigEndian
	be.PutUint32(buf, uint32(len(corr)))
	p := buf[opcodeListHeaderSize:]

	for _, c := range corr {
		n := len(c.Gain)

		be.PutUint32(p[0:], OpcodeGainMapID)
		be.PutUint32(p[4:], OpcodeGainMapVersion)
		be.PutUint32(p[8:], 0)
		be.PutUint32(p[12:], uint32(gainMapParamSize+n*4))

		be.PutUint32(p[16:], c.RowOffset)     // Top
		be.PutUint32(p[20:], c.ColOffset)     // Left
		be.PutUint32(p[24:], active.Height()) // Bottom
		be.PutUint32(p[28:], active.Width())  // Right
		be.PutUint32(p[32:], c.Channel)       // Plane
		be.PutUint32(p[36:], c.Channels)      // Planes
		be.PutUint32(p[40:], c.RowPitch)
		be.PutUint32(p[44:], c.ColPitch)
		be.PutUint32(p[48:], c.Rows) // MapPointsV
		be.PutUint32(p[52:], c.Cols) // MapPointsH

		be.PutUint64(p[56:], math.Float64bits(scaleV/float64(c.Rows-1)))
		be.PutUint64(p[64:], math.Float64bits(scaleH/float64(c.Cols-1)))
		be.PutUint64(p[72:], math.Float64bits(originV))
		be.PutUint64(p[80:], math.Float64bits(originH))
		be.PutUint32(p[88:], c.Channels) // MapPlanes

		g := p[gainMapFixedSize:]
		for j, v := range c.Gain {
			be.PutUint32(g[j*4:], math.Float32bits(float32(v)))
		}
		p = p[gainMapFixedSize+n*4:]
	}

	return buf, nil
}
