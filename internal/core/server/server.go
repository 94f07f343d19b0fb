package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"developer-directory/internal/core/logger"
)

type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// BuildServer http.Server 的错误日志接入 zap
func BuildServer(addr string, handler http.Handler, to Timeouts, l *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       to.Read,
		ReadHeaderTimeout: to.Read,
		WriteTimeout:      to.Write,
		IdleTimeout:       to.Idle,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
	if l != nil {
		if el, err := logger.ToStdLogger(l.Named("http"), zapcore.WarnLevel); err == nil {
			srv.ErrorLog = el
		}
	}
	return srv
}

// Run 同时运行多个 server；ctx 取消后优雅关闭，任一启动失败则全部关闭
func Run(ctx context.Context, l *zap.Logger, grace time.Duration, srvs ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range srvs {
		srv := srv
		g.Go(func() error {
			l.Info("http starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		var errs []error
		for _, srv := range srvs {
			if err := srv.Shutdown(sctx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

func Addr(host string, port int) string { return net.JoinHostPort(host, strconv.Itoa(port)) }

// HumanURL 启动日志里可点击的地址
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + Addr(host, port)
}
