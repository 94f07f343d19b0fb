// Package ez 动作式路由注册：一个 Action 描述一条接口（绑定、鉴权、处理、出错映射）
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"developer-directory/internal/apperr"
	"developer-directory/internal/domain"
	resp "developer-directory/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

const (
	KeyIdentity = "identity"
	KeyUserID   = "userId"
	KeyToken    = "token"
)

const (
	msgBadBody      = "Invalid request body"
	msgBadQuery     = "Invalid query parameters"
	msgBodyTooLarge = "Request body too large"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 在当前分组下派生子分组
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/developers/:id"
	Binder  Binder
	Status  int  // 成功状态码，默认 200
	Auth    bool // 是否要求已通过 AuthJWT
	Handler func(c *gin.Context, in *I) (O, error)
}

// IdentityOf 读取 AuthJWT 写入的身份
func IdentityOf(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth {
			if _, ok := IdentityOf(c); !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.MsgNoToken))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			writeBindError(c, e.log, a.Binder, bindErr)
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			writeError(c, e.log, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func writeBindError(c *gin.Context, l *zap.Logger, b Binder, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(msgBodyTooLarge))
		return
	}
	l.Debug("bind failed", zap.String("path", c.FullPath()), zap.Error(err))
	msg := msgBadBody
	if b == BindQuery {
		msg = msgBadQuery
	}
	writeError(c, l, apperr.BadRequest(msg))
}

func writeError(c *gin.Context, l *zap.Logger, err error) {
	status, body := resp.FromError(err)
	if status >= http.StatusInternalServerError {
		l.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}
