package model

import (
	"errors"
	"strings"
)

// 领域层哨兵错误
var (
	// ErrNotFound 文章不存在
	ErrNotFound = errors.New("article not found")
	// ErrInvalidID 文章ID格式错误
	ErrInvalidID = errors.New("invalid article id")
	// ErrValidation 校验失败，ValidationError 会解包为该错误
	ErrValidation = errors.New("validation failed")
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 校验错误，每个非法字段对应一条信息
type ValidationError struct {
	Fields []FieldError
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages(), "; ")
}

// Unwrap 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Messages 返回全部字段错误信息
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// HasField 是否包含指定字段的错误
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
