package errorc

import (
	"fmt"
	"net/http"
)

type Error struct {
	*ErrorCode
	Msg      string
	Cause    error
	Stack    string `json:"-"`
	Entry    string `json:"-"`
	FileName string `json:"-"`
	Line     int    `json:"-"`
	FuncName string `json:"-"`
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ErrorCode struct {
	Code int
	Name string
}

func (c *ErrorCode) String() string {
	return fmt.Sprintf("%d: %s", c.Code, c.Name)
}

// HTTPStatus 非标准 HTTP 码的错误统一返回 500
func (c *ErrorCode) HTTPStatus() int {
	if c == nil || http.StatusText(c.Code) == "" || c.Code == http.StatusNotImplemented {
		return http.StatusInternalServerError
	}
	return c.Code
}

var (
	ErrorCodeUnknown    = &ErrorCode{500, "Unknown"}
	ErrorCodeDB         = &ErrorCode{501, "DB"}
	ErrorCodeThird      = &ErrorCode{502, "Third"}
	ErrorCodeValid      = &ErrorCode{400, "ValidWithCtx"}
	ErrorCodeConfig     = &ErrorCode{400, "Config"}
	ErrorCodeNoAuth     = &ErrorCode{401, "Unauthenticated"}
	ErrorCodeNotFound   = &ErrorCode{404, "NotFound"}
	ErrorCodeParse      = &ErrorCode{422, "Parse"}
	ErrorCodeInternal   = &ErrorCode{500, "Internal"}
	ErrorCodeConnection = &ErrorCode{504, "Connection"}
)
