package main

import (
	"errors"
	"fmt"
)

// Code 是机器可读的错误类别。
type Code string

const (
	CodeInvalidConfig Code = "INVALID_CONFIG"
	CodeFileNotFound  Code = "FILE_NOT_FOUND"
	CodeDecode        Code = "DECODE_FAILED"
	CodeEncode        Code = "ENCODE_FAILED"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Fault 是带类别的错误，Cause 为可选的底层错误。
type Fault struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Fault) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Fault) Unwrap() error {
	return e.Cause
}

// Is 按类别比较，使 errors.Is(err, &Fault{Code: CodeDecode}) 可用。
func (e *Fault) Is(target error) bool {
	var t *Fault
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func newFault(code Code, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapFault(code Code, cause error, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// hasCode 判断错误链中是否包含指定类别的 Fault。
func hasCode(err error, code Code) bool {
	return errors.Is(err, &Fault{Code: code})
}
