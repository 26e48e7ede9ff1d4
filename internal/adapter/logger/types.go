// internal/adapter/logger/types.go
package logger

import "fmt"

// ErrorInfo is attached under the "error" key of error entries.
type ErrorInfo struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// newErrorInfo records the %+v form of err as the stack, which carries the
// call stack for errors created or wrapped with github.com/pkg/errors.
func newErrorInfo(err error) ErrorInfo {
	return ErrorInfo{Msg: err.Error(), Stack: fmt.Sprintf("%+v", err)}
}
