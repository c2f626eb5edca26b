// Error types for rxlite
// 错误类型：空序列、多元素、用户函数panic、契约违规
package rxlite

import (
	"errors"
	"fmt"
)

// ============================================================================
// 哨兵错误
// ============================================================================

var (
	// ErrEmptySequence 要求恰好一个值，但序列没有发射任何值
	ErrEmptySequence = errors.New("rxlite: sequence contains no elements")

	// ErrMoreThanOneElement 要求恰好一个值，但序列发射了多个值
	ErrMoreThanOneElement = errors.New("rxlite: sequence contains more than one element")

	// ErrContractViolation 生产过程违反了基数契约
	ErrContractViolation = errors.New("rxlite: contract violation")
)

// ============================================================================
// 错误类型
// ============================================================================

// NoSuchElementError 没有元素错误，errors.Is(err, ErrEmptySequence) 成立
type NoSuchElementError struct {
	Op string
}

func (e *NoSuchElementError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrEmptySequence)
}

// Is 与 ErrEmptySequence 匹配
func (e *NoSuchElementError) Is(target error) bool {
	return target == ErrEmptySequence
}

// NewNoSuchElementError 创建没有元素错误
func NewNoSuchElementError(op string) *NoSuchElementError {
	return &NoSuchElementError{Op: op}
}

// PanicError 用户函数在发射期间panic，且panic值不是error
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("rxlite: user function panicked: %v", e.Value)
}

// ContractViolationError 描述一次契约违规，例如Single同时调用了Success和Error
type ContractViolationError struct {
	Op     string
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContractViolation, e.Op, e.Reason)
}

// Unwrap 返回 ErrContractViolation
func (e *ContractViolationError) Unwrap() error {
	return ErrContractViolation
}

// panicToError panic值为error时原样返回，否则包装为PanicError
func panicToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r}
}
