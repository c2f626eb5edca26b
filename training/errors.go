package training

import "errors"

var (
	// ErrExpected 业务上预期的错误标签
	ErrExpected = errors.New("training: expected error")

	// ErrNotImplemented 占位错误：出现在调用方说明实现不完整
	ErrNotImplemented = errors.New("training: not implemented")
)

// IsFatal 错误是否应当视为致命（不可恢复）
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}
