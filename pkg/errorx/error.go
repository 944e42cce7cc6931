package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// IsCode reports whether err is an errorx Error carrying the given code.
func IsCode(err error, code Code) bool {
	var xerr Error
	if !errors.As(err, &xerr) {
		return false
	}

	return xerr.Code == code
}
