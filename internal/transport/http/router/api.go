package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"developer-directory/internal/service"
	"developer-directory/internal/transport/http/ez"
	mdw "developer-directory/internal/transport/http/middleware"
)

// Deps 用户端引擎依赖
type Deps struct {
	Auth              *service.AuthService
	Developers        *service.DeveloperService
	CorsOrigin        string // "*" 或逗号分隔的来源列表
	ProtectDevelopers bool
	RequestTimeout    time.Duration
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		corsMiddleware(d.CorsOrigin),
		mdw.RateLimit(rate.Limit(200), 400),
		mdw.ConcurrencyLimit(300, 2*time.Second),
		mdw.MaxBodyBytes(mdw.DefaultMaxBody),
		mdw.Timeout(timeout),
		mdw.Metrics(),
		mdw.AccessLog(l, "/health"),
	)

	// 健康检查
	root := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Developer Directory API is running!"})
	}
	r.GET("/", root)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	var reg Registry
	reg.Register(
		&authModule{svc: d.Auth, rps: 5, burst: 20},
		&developersModule{svc: d.Developers, auth: d.Auth, protect: d.ProtectDevelopers},
	)

	// 前端直接请求根路径；/api/v1 为带版本的同一套接口
	reg.MountAll(ez.New(&r.RouterGroup, l))
	reg.MountAll(ez.New(r.Group("/api/v1"), l))

	return r
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", mdw.KeyRequestID},
		ExposeHeaders: []string{mdw.KeyRequestID},
		MaxAge:        12 * time.Hour,
	}
	origin = strings.TrimSpace(origin)
	if origin == "" || origin == "*" {
		// 通配来源不能带凭证
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}
	for _, o := range strings.Split(origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
