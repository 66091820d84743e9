package errors

import perrors "github.com/pingcap/errors"

const (
	ErrCodeInvalidRangeSyntax = 4000
	ErrCodeInvalidRangeBounds = 4001
	ErrCodeInvalidArgument    = 4100
	ErrCodeStore              = 5000
	ErrCodeCommand            = 6000
	ErrCodeSMB                = 7000
)

// Error 携带错误码的错误类型
type Error struct {
	Code uint16
	error
}

func NewError(code uint16, err error) error {
	return &Error{
		Code:  code,
		error: err,
	}
}

func NewErrorMessage(code uint16, message string) error {
	return &Error{
		Code:  code,
		error: perrors.New(message),
	}
}

// Code 沿 Cause 链查找错误码，未携带错误码时返回 0
func Code(err error) uint16 {
	if err == nil {
		return 0
	}
	if e, ok := perrors.Cause(err).(*Error); ok {
		return e.Code
	}
	return 0
}
