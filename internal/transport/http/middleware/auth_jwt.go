package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"developer-directory/internal/core/auth"
	"developer-directory/internal/domain"
	"developer-directory/internal/transport/http/ez"
	resp "developer-directory/internal/transport/http/response"
)

const (
	msgTokenMissing = "Token missing"
	msgInvalidToken = "Token is invalid or expired"
)

// TokenVerifier 由 service.AuthService 实现
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// AuthJWT 支持 "Bearer <t>" 与裸 token 两种写法
func AuthJWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := strings.TrimSpace(c.GetHeader("Authorization"))
		if ah == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.MsgNoToken))
			return
		}
		tok := ah
		if rest, ok := strings.CutPrefix(ah, "Bearer"); ok && (rest == "" || rest[0] == ' ') {
			tok = strings.TrimSpace(rest)
		}
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(msgTokenMissing))
			return
		}
		id, err := v.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(msgInvalidToken))
			return
		}
		c.Set(ez.KeyIdentity, id)
		c.Set(ez.KeyUserID, id.ID)
		c.Set(ez.KeyToken, tok)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
