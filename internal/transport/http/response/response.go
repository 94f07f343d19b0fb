package response

import (
	"errors"

	"developer-directory/internal/apperr"
)

// Body 失败响应；errors 只在校验错误时出现
type Body struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Error 失败响应
func Error(msg string) Body { return Body{Message: msg} }

// OK 仅含消息的成功响应
func OK(msg string) Body { return Body{Success: true, Message: msg} }

// FromError 按错误类别生成状态码与响应体；内部错误不外泄原因
func FromError(err error) (int, Body) {
	status := StatusOf(err)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		return status, Error(MsgServerError)
	}
	return status, Body{Message: ae.Msg, Errors: ae.Details}
}
