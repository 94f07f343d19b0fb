package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mdw "developer-directory/internal/transport/http/middleware"
)

// HealthCheck 运维端口 /health 的依赖探测（DB、Redis）
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewAdminEngine 运维引擎：/health、/metrics；只监听内网地址
func NewAdminEngine(l *zap.Logger, checks ...HealthCheck) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.Timeout(5*time.Second),
	)

	r.GET("/health", func(c *gin.Context) {
		failed := gin.H{}
		for _, hc := range checks {
			if err := hc.Check(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.String("check", hc.Name), zap.Error(err))
				failed[hc.Name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0, "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
