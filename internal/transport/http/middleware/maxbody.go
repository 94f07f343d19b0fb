package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "developer-directory/internal/transport/http/response"
)

// DefaultMaxBody 与 JSON 解析上限一致
const DefaultMaxBody = 10 << 20

// MaxBodyBytes 限制请求体大小；超限在绑定时报 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error("Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
