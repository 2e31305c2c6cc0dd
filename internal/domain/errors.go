package domain

import (
	"fmt"
	"strings"
)

// ValidationError 入参非法：在任何存储调用发生之前拒绝整个请求。
// Invalid/Allowed 带上具体的非法值与允许集合，方便调用方自查。
type ValidationError struct {
	Msg     string
	Invalid []string
	Allowed []string
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if len(e.Invalid) > 0 {
		msg += ": " + strings.Join(e.Invalid, ", ")
	}
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(". Allowed: %s", strings.Join(e.Allowed, ", "))
	}
	return msg
}

func NewValidationError(msg string, invalid, allowed []string) *ValidationError {
	return &ValidationError{Msg: msg, Invalid: invalid, Allowed: allowed}
}

// ConflictError 唯一约束冲突（重复 email 等），区别于一般失败。
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError 按主键定位的操作没有命中记录。
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }
