package output

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/weaming/x3f-dng/matrix"
)

const ifdEntryLen = 12

// IFDWriter 一个 IFD 的标签集合
// 值在 Add 时按字节序编码；同一标签再次 Add 会覆盖之前的值
// Encode 时自动判断内联，超过 4 字节的值放入紧跟 IFD 的 pointer area
type IFDWriter struct {
	order   binary.ByteOrder
	entries map[uint16]*TagEntry
}

// TagEntry IFD 标签条目
type TagEntry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte // 已按字节序编码的值
}

// NewIFDWriter 创建新的 IFD 写入器
func NewIFDWriter(order binary.ByteOrder) *IFDWriter {
	return &IFDWriter{
		order:   order,
		entries: make(map[uint16]*TagEntry),
	}
}

// Order 字节序
func (w *IFDWriter) Order() binary.ByteOrder {
	return w.order
}

// Len 标签数量
func (w *IFDWriter) Len() int {
	return len(w.entries)
}

// Entry 查询已设置的标签
func (w *IFDWriter) Entry(tag uint16) (*TagEntry, bool) {
	e, ok := w.entries[tag]
	return e, ok
}

func (w *IFDWriter) set(tag, typ uint16, count uint32, data []byte) {
	w.entries[tag] = &TagEntry{Tag: tag, Type: typ, Count: count, Data: data}
}

// AddShort 添加 SHORT 类型标签
func (w *IFDWriter) AddShort(tag uint16, value uint16) {
	w.AddShorts(tag, []uint16{value})
}

// AddShorts 添加 SHORT 数组
func (w *IFDWriter) AddShorts(tag uint16, values []uint16) {
	data := make([]byte, len(values)*2)
	for i, v := range values {
		w.order.PutUint16(data[i*2:], v)
	}
	w.set(tag, TypeShort, uint32(len(values)), data)
}

// AddLong 添加 LONG 类型标签
func (w *IFDWriter) AddLong(tag uint16, value uint32) {
	w.AddLongs(tag, []uint32{value})
}

// AddLongs 添加 LONG 数组
func (w *IFDWriter) AddLongs(tag uint16, values []uint32) {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		w.order.PutUint32(data[i*4:], v)
	}
	w.set(tag, TypeLong, uint32(len(values)), data)
}

// AddBytes 添加 BYTE 数组
func (w *IFDWriter) AddBytes(tag uint16, values []byte) {
	data := make([]byte, len(values))
	copy(data, values)
	w.set(tag, TypeByte, uint32(len(values)), data)
}

// AddUndefined 添加 UNDEFINED 类型数据
func (w *IFDWriter) AddUndefined(tag uint16, values []byte) {
	data := make([]byte, len(values))
	copy(data, values)
	w.set(tag, TypeUndefined, uint32(len(values)), data)
}

// AddASCII 添加以 NUL 结尾的 ASCII 字符串
func (w *IFDWriter) AddASCII(tag uint16, str string) {
	data := make([]byte, len(str)+1)
	copy(data, str)
	w.set(tag, TypeASCII, uint32(len(data)), data)
}

// AddRationalFraction 添加给定分子/分母的 RATIONAL 数组
func (w *IFDWriter) AddRationalFraction(tag uint16, values [][2]uint32) {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		w.order.PutUint32(data[i*8:], v[0])
		w.order.PutUint32(data[i*8+4:], v[1])
	}
	w.set(tag, TypeRational, uint32(len(values)), data)
}

// AddRational 从浮点数添加 RATIONAL
func (w *IFDWriter) AddRational(tag uint16, value float64) {
	w.AddRationals(tag, []float64{value})
}

// AddRationals 从浮点数数组添加 RATIONAL 数组，负数截断为 0
func (w *IFDWriter) AddRationals(tag uint16, values []float64) {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		num, denom := floatToRational(v, maxRationalDenom)
		w.order.PutUint32(data[i*8:], uint32(num))
		w.order.PutUint32(data[i*8+4:], uint32(denom))
	}
	w.set(tag, TypeRational, uint32(len(values)), data)
}

// AddSRational 从浮点数添加 SRATIONAL
func (w *IFDWriter) AddSRational(tag uint16, value float64) {
	w.AddSRationals(tag, []float64{value})
}

// AddSRationals 从浮点数数组添加 SRATIONAL 数组
func (w *IFDWriter) AddSRationals(tag uint16, values []float64) {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		num, denom := floatToRational(v, maxRationalDenom)
		w.order.PutUint32(data[i*8:], uint32(int32(num)))
		w.order.PutUint32(data[i*8+4:], uint32(int32(denom)))
	}
	w.set(tag, TypeSRational, uint32(len(values)), data)
}

// AddMatrix 以 SRATIONAL×9 写入矩阵，先收窄为 float32
func (w *IFDWriter) AddMatrix(tag uint16, m matrix.Matrix3x3) {
	f := m.Float32()
	values := make([]float64, len(f))
	for i, v := range f {
		values[i] = float64(v)
	}
	w.AddSRationals(tag, values)
}

// AddVector 以 RATIONAL×3 写入向量，先收窄为 float32
func (w *IFDWriter) AddVector(tag uint16, v matrix.Vector3) {
	w.AddRationals(tag, []float64{
		float64(float32(v[0])),
		float64(float32(v[1])),
		float64(float32(v[2])),
	})
}

func (w *IFDWriter) sorted() []*TagEntry {
	entries := make([]*TagEntry, 0, len(w.entries))
	for _, e := range w.entries {
		entries = append(entries, e)
	}
	// 按 tag 升序排序
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Tag < entries[j].Tag
	})
	return entries
}

// 外部数据按字对齐
func paddedLen(n int) int {
	return (n + 1) &^ 1
}

// Size 编码后 IFD 加 pointer area 的字节数
func (w *IFDWriter) Size() uint32 {
	size := 2 + len(w.entries)*ifdEntryLen + 4
	for _, e := range w.entries {
		if len(e.Data) > 4 {
			size += paddedLen(len(e.Data))
		}
	}
	return uint32(size)
}

// Encode 编码 IFD，start 是 IFD 在文件中的偏移（必须是偶数）
// 布局: 条目数 | 条目 | next IFD = 0 | pointer area
func (w *IFDWriter) Encode(start uint32) ([]byte, error) {
	if start%2 != 0 {
		return nil, fmt.Errorf("IFD 偏移 %d 未对齐", start)
	}
	if uint64(start)+uint64(w.Size()) > 1<<32-1 {
		return nil, fmt.Errorf("IFD 超出 32 位偏移范围")
	}

	entries := w.sorted()
	dirLen := 2 + len(entries)*ifdEntryLen + 4

	buf := make([]byte, dirLen, w.Size())
	w.order.PutUint16(buf[0:2], uint16(len(entries)))

	for i, e := range entries {
		p := buf[2+i*ifdEntryLen:]
		w.order.PutUint16(p[0:2], e.Tag)
		w.order.PutUint16(p[2:4], e.Type)
		w.order.PutUint32(p[4:8], e.Count)

		if len(e.Data) <= 4 {
			// 内联: 直接写入 value 字段，左对齐
			copy(p[8:12], e.Data)
			continue
		}
		w.order.PutUint32(p[8:12], start+uint32(len(buf)))
		buf = append(buf, e.Data...)
		if len(e.Data)%2 != 0 {
			buf = append(buf, 0)
		}
	}
	// next IFD offset 已经是 0
	return buf, nil
}

// EncodeSingleDirectory 生成只含一个 IFD 的完整 TIFF
// 字节序与 ifd 一致，IFD 紧跟 8 字节文件头
func EncodeSingleDirectory(ifd *IFDWriter) ([]byte, error) {
	header := make([]byte, 8)
	if ifd.order == binary.BigEndian {
		copy(header, "MM")
	} else {
		copy(header, "II")
	}
	ifd.order.PutUint16(header[2:4], 42)
	ifd.order.PutUint32(header[4:8], 8)

	dir, err := ifd.Encode(8)
	if err != nil {
		return nil, err
	}
	return append(header, dir...), nil
}
