package response

import (
	"net/http"

	"developer-directory/internal/apperr"
)

const (
	MsgServerError = "Internal Server Error"
	// MsgNoToken 受保护路由未带令牌
	MsgNoToken = "No authentication token, access denied"
)

// KindStatus 业务错误类别 -> HTTP 状态码（集中管理）
// 重复注册按接口约定返回 400
var KindStatus = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindConflict:   http.StatusBadRequest,
	apperr.KindAuth:       http.StatusUnauthorized,
	apperr.KindNotFound:   http.StatusNotFound,
	apperr.KindInternal:   http.StatusInternalServerError,
}

func StatusOf(err error) int {
	if s, ok := KindStatus[apperr.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
