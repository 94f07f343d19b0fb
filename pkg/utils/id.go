package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IDLen 记录主键长度：去掉横线的 UUID（32 位小写 hex）
const IDLen = 32

func NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// IsID 判断是否为合法的记录主键
func IsID(s string) bool {
	if len(s) != IDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
