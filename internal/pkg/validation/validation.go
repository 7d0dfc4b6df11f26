// Package validation 提供请求参数校验失败时使用的错误类型。
// 错误信息会原样返回给调用方，所以应当是面向用户的文案。
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid 是所有校验错误的哨兵，可用 errors.Is 判断。
var ErrInvalid = errors.New("invalid input")

// Error 携带面向用户的校验信息。
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return target == ErrInvalid }

func New(message string) error {
	return &Error{Message: message}
}

func Errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Required 检查成对传入的 (字段名, 值)，返回第一个为空的字段对应的错误。
func Required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return Errorf("%s is required", strings.Join(missing, ", "))
	}
	return nil
}
