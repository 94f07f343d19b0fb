package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError 非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// FormatError 把服务端错误体归一成一句话：
// message → errors 列表（", " 连接）→ error → 整个 body；无 body 时用 "<fallback> (<status>)"
func FormatError(body any, fallback string, status int) string {
	switch b := body.(type) {
	case nil:
	case string:
		if b != "" {
			return b
		}
	case map[string]any:
		if m, ok := b["message"].(string); ok && m != "" {
			return m
		}
		if errs, ok := b["errors"].([]any); ok {
			// 列表拼出空串时回落到 "<fallback> (<status>)"
			parts := make([]string, 0, len(errs))
			for _, e := range errs {
				if e == nil {
					parts = append(parts, "")
					continue
				}
				parts = append(parts, fmt.Sprint(e))
			}
			if joined := strings.Join(parts, ", "); joined != "" {
				return joined
			}
			break
		}
		if e, ok := b["error"].(string); ok && e != "" {
			return e
		}
		return marshal(b)
	default:
		return marshal(b)
	}
	return fmt.Sprintf("%s (%d)", fallback, status)
}

func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
