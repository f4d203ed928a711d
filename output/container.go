package output

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Container 顺序写入的 TIFF/DNG 文件
// 自己记录文件末尾偏移，数据先写，IFD 最后写，Close 时回填文件头的 IFD0 指针
type Container struct {
	w      io.WriteSeeker
	closer io.Closer
	order  binary.ByteOrder
	end    uint32
	root   uint32
	closed bool
}

// CreateContainer 创建 Little Endian 的 DNG 输出文件
func CreateContainer(filename string) (*Container, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutfile, err)
	}
	c, err := NewContainer(file, binary.LittleEndian)
	if err != nil {
		file.Close()
		return nil, err
	}
	c.closer = file
	return c, nil
}

// NewContainer 在 w 上开始一个 TIFF 文件，写入文件头（IFD0 指针待回填）
func NewContainer(w io.WriteSeeker, order binary.ByteOrder) (*Container, error) {
	c := &Container{w: w, order: order}

	header := make([]byte, 8)
	if order == binary.BigEndian {
		copy(header, "MM")
	} else {
		copy(header, "II")
	}
	order.PutUint16(header[2:4], 42)
	if err := c.write(header); err != nil {
		return nil, err
	}
	return c, nil
}

// Order 字节序
func (c *Container) Order() binary.ByteOrder {
	return c.order
}

// Offset 当前文件末尾偏移
func (c *Container) Offset() uint32 {
	return c.end
}

func (c *Container) write(p []byte) error {
	if uint64(c.end)+uint64(len(p)) > 1<<32-1 {
		return fmt.Errorf("%w: 文件超出 4GB", ErrOutfile)
	}
	n, err := c.w.Write(p)
	c.end += uint32(n)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutfile, err)
	}
	return nil
}

// align 将文件末尾补齐到偶数偏移
func (c *Container) align() error {
	if c.end%2 == 0 {
		return nil
	}
	return c.write([]byte{0})
}

// Append 在 2 字节对齐的位置追加数据，返回起始偏移
func (c *Container) Append(data []byte) (uint32, error) {
	if err := c.align(); err != nil {
		return 0, err
	}
	offset := c.end
	return offset, c.write(data)
}

// AppendProfile 拼接一个单 IFD 的 Big Endian TIFF
// 用 "MMCR" 替换它 4 字节的 TIFF 魔数，返回起始偏移（偶数）
func (c *Container) AppendProfile(sub []byte) (uint32, error) {
	if len(sub) < 8 {
		return 0, fmt.Errorf("camera profile 数据过短: %d 字节", len(sub))
	}
	if err := c.align(); err != nil {
		return 0, err
	}
	offset := c.end
	if err := c.write(profileMagic); err != nil {
		return 0, err
	}
	return offset, c.write(sub[4:])
}

// Reserve 预留 n 字节（填 0），返回起始偏移
func (c *Container) Reserve(n uint32) (uint32, error) {
	if err := c.align(); err != nil {
		return 0, err
	}
	offset := c.end
	return offset, c.write(make([]byte, n))
}

// WriteDirectory 在文件末尾写入 IFD，返回其偏移
func (c *Container) WriteDirectory(ifd *IFDWriter) (uint32, error) {
	if err := c.align(); err != nil {
		return 0, err
	}
	offset := c.end
	data, err := ifd.Encode(offset)
	if err != nil {
		return 0, err
	}
	return offset, c.write(data)
}

// WriteDirectoryAt 将 IFD 写入之前 Reserve 的位置
func (c *Container) WriteDirectoryAt(ifd *IFDWriter, offset, reserved uint32) error {
	data, err := ifd.Encode(offset)
	if err != nil {
		return err
	}
	if uint32(len(data)) != reserved {
		return fmt.Errorf("IFD 大小 %d 与预留的 %d 不一致", len(data), reserved)
	}
	return c.writeAt(data, offset)
}

func (c *Container) writeAt(p []byte, offset uint32) error {
	if _, err := c.w.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrOutfile, err)
	}
	if _, err := c.w.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrOutfile, err)
	}
	if _, err := c.w.Seek(int64(c.end), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrOutfile, err)
	}
	return nil
}

// WriteStrips 按条带写入图像数据
// row 返回第 i 行的字节；compress 时每个条带使用 Adobe Deflate (zlib)
// 返回 StripOffsets 和 StripByteCounts
func (c *Container) WriteStrips(rows, rowsPerStrip uint32, compress bool, row func(i uint32) []byte) ([]uint32, []uint32, error) {
	if rowsPerStrip == 0 {
		rowsPerStrip = rows
	}
	numStrips := (rows + rowsPerStrip - 1) / rowsPerStrip
	offsets := make([]uint32, 0, numStrips)
	counts := make([]uint32, 0, numStrips)

	var strip bytes.Buffer
	for s := uint32(0); s < numStrips; s++ {
		strip.Reset()
		first := s * rowsPerStrip
		last := first + rowsPerStrip
		if last > rows {
			last = rows
		}

		if compress {
			zw := zlib.NewWriter(&strip)
			for i := first; i < last; i++ {
				if _, err := zw.Write(row(i)); err != nil {
					return nil, nil, fmt.Errorf("%w: 压缩失败: %v", ErrOutfile, err)
				}
			}
			if err := zw.Close(); err != nil {
				return nil, nil, fmt.Errorf("%w: 压缩失败: %v", ErrOutfile, err)
			}
		} else {
			for i := first; i < last; i++ {
				strip.Write(row(i))
			}
		}

		offset, err := c.Append(strip.Bytes())
		if err != nil {
			return nil, nil, err
		}
		offsets = append(offsets, offset)
		counts = append(counts, uint32(strip.Len()))
	}
	return offsets, counts, nil
}

// SetRoot 设置 IFD0 偏移
func (c *Container) SetRoot(offset uint32) {
	c.root = offset
}

// Close 回填文件头中的 IFD0 指针并关闭底层文件；可重复调用
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	if c.root != 0 {
		ptr := make([]byte, 4)
		c.order.PutUint32(ptr, c.root)
		err = c.writeAt(ptr, 4)
	}
	if c.closer != nil {
		if cerr := c.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrOutfile, cerr)
		}
	}
	return err
}
