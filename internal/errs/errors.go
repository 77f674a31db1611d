package errs

import (
	"errors"
	"fmt"
)

// 错误分类，调用方通过 errors.Is 判定处理策略：
//   - ErrDecode:      二进制数据过短/格式错误，丢弃当前单元
//   - ErrLookup:      远端账户或接口不可达，丢弃当前操作
//   - ErrBuild:       地址派生或 payload 组装失败，只放弃本次触发
//   - ErrStartup:     配置缺失或启动价格获取失败，进程直接退出
//   - ErrStreamEnded: 订阅流关闭，所属任务正常结束
var (
	ErrDecode      = errors.New("decode error")
	ErrLookup      = errors.New("lookup error")
	ErrBuild       = errors.New("build error")
	ErrStartup     = errors.New("startup error")
	ErrStreamEnded = errors.New("stream ended")
)

func Decodef(format string, args ...any) error {
	return wrapf(ErrDecode, format, args...)
}

func Lookupf(format string, args ...any) error {
	return wrapf(ErrLookup, format, args...)
}

func Buildf(format string, args ...any) error {
	return wrapf(ErrBuild, format, args...)
}

func Startupf(format string, args ...any) error {
	return wrapf(ErrStartup, format, args...)
}

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w", kind, fmt.Errorf(format, args...))
}
