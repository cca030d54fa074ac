package service

import (
	"errors"
	"fmt"
)

// 业务错误分类，handler 据此映射 HTTP 状态码：
// ValidationError -> 400, ConflictError -> 409, NotFoundError -> 404

// ValidationError 参数/业务规则校验失败，未产生任何状态变更
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建校验错误
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError 状态冲突，如单元已被占用、修改不可变交易
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError 创建冲突错误
func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 目标记录不存在
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsConflict 判断是否为冲突错误
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
