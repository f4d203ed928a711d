package output

import "errors"

var (
	// ErrOutfile 无法创建或写入输出文件
	ErrOutfile = errors.New("output file error")
	// ErrArgument 参数或标定数据不可用（白平衡、矩阵、图像、相机型号）
	ErrArgument = errors.New("argument error")
)

// Status 转换结果分类
type Status int

const (
	StatusOK Status = iota
	StatusArgumentError
	StatusOutfileError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusArgumentError:
		return "argument error"
	case StatusOutfileError:
		return "outfile error"
	default:
		return "unknown"
	}
}

// StatusOf 将错误映射为结果分类；未分类的错误视为参数错误
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrOutfile):
		return StatusOutfileError
	default:
		return StatusArgumentError
	}
}
