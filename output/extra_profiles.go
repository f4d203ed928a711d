package output

import (
	"encoding/binary"
	"fmt"

	"github.com/weaming/x3f-dng/x3f"
)

// WriteCameraProfiles 将 profiles[0] 写入主 IFD dir，其余的作为额外 camera profile 拼接
// dir 之后不再修改：它在这里写入文件，返回其偏移
//
// 每个额外 profile 是一个独立的 Big Endian 单 IFD TIFF，
// 以 "MMCR" 开头放在 2 字节对齐的位置，偏移记录在 ExtraCameraProfiles
func WriteCameraProfiles(c *Container, dir *IFDWriter, src x3f.ColorSource, wb string, profiles []CameraProfile) (uint32, error) {
	if len(profiles) == 0 {
		return 0, fmt.Errorf("%w: 没有 camera profile", ErrArgument)
	}

	primary, err := Resolve(profiles[0], src, wb)
	if err != nil {
		return 0, err
	}
	WriteProfileTags(dir, profiles[0].Name, primary)
	dir.AddASCII(TagAsShotProfileName, profiles[0].Name)

	if len(profiles) == 1 {
		return c.WriteDirectory(dir)
	}

	// 先生成全部 profile，失败时不写入任何数据
	extras := make([][]byte, 0, len(profiles)-1)
	for _, p := range profiles[1:] {
		data, err := encodeCameraProfile(p, src, wb)
		if err != nil {
			return 0, err
		}
		extras = append(extras, data)
	}

	// 主 IFD 在前，额外 profile 依次追加在它之后
	dir.AddLongs(TagExtraCameraProfiles, make([]uint32, len(extras)))
	size := dir.Size()
	dirOffset, err := c.Reserve(size)
	if err != nil {
		return 0, err
	}

	offsets := make([]uint32, 0, len(extras))
	for i, data := range extras {
		offset, err := c.AppendProfile(data)
		if err != nil {
			return 0, fmt.Errorf("无法写入 profile '%s': %w", profiles[i+1].Name, err)
		}
		debug("profile '%s' @ %d (%d 字节)", profiles[i+1].Name, offset, len(data))
		offsets = append(offsets, offset)
	}

	dir.AddLongs(TagExtraCameraProfiles, offsets)
	if err := c.WriteDirectoryAt(dir, dirOffset, size); err != nil {
		return 0, err
	}
	return dirOffset, nil
}

// encodeCameraProfile 生成单个 camera profile 的 Big Endian TIFF
func encodeCameraProfile(p CameraProfile, src x3f.ColorSource, wb string) ([]byte, error) {
	r, err := Resolve(p, src, wb)
	if err != nil {
		return nil, fmt.Errorf("无法生成 profile '%s': %w", p.Name, err)
	}
	ifd := NewIFDWriter(binary.BigEndian)
	WriteProfileTags(ifd, p.Name, r)
	return EncodeSingleDirectory(ifd)
}
