package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"developer-directory/internal/core/auth"
	"developer-directory/internal/core/cache"
	"developer-directory/internal/core/config"
	"developer-directory/internal/core/database"
	"developer-directory/internal/core/logger"
	"developer-directory/internal/core/server"
	"developer-directory/internal/domain"
	"developer-directory/internal/feature/developer"
	"developer-directory/internal/feature/user"
	"developer-directory/internal/repo"
	"developer-directory/internal/service"
	"developer-directory/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.App.Name, cfg.Log)
	defer cleanup()

	// 标准库 log 与 gin 的输出统一进 zap
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("developer directory stopped with error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	log.Info("developer directory stopped gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, append(developer.Models(), &user.UserModel{})...); err != nil {
			return err
		}
		log.Info("automigrate done")
	}

	checks := []router.HealthCheck{{Name: "db", Check: func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}}}

	var developers domain.DeveloperRepository = repo.NewDeveloperRepo(db)
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.Ping(pctx); err != nil {
			// 缓存读失败会回源，不阻止启动
			log.Warn("redis unreachable, reads fall back to db", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		developers = repo.NewCachedDeveloperRepo(developers, c, time.Duration(cfg.Redis.TTLSec)*time.Second, log)
		checks = append(checks, router.HealthCheck{Name: "redis", Check: c.Ping})
		log.Info("developer cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	if cfg.JWT.Secret == config.DevJWTSecret {
		log.Warn("using the development jwt secret; set JWT_SECRET outside local dev")
	}

	api := router.NewAPIEngine(log, router.Deps{
		Auth:              service.NewAuthService(repo.NewUserRepo(db), jwter, log),
		Developers:        service.NewDeveloperService(developers, log),
		CorsOrigin:        cfg.App.CorsOrigin,
		ProtectDevelopers: cfg.App.ProtectDevelopers,
	})
	ops := router.NewAdminEngine(log, checks...)

	httpCfg := cfg.App.HTTP
	apiSrv := server.BuildServer(server.Addr(httpCfg.Host, httpCfg.Port), api, server.Timeouts{
		Read:  time.Duration(httpCfg.ReadTimeoutSec) * time.Second,
		Write: time.Duration(httpCfg.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(httpCfg.IdleTimeoutSec) * time.Second,
	}, log)
	opsSrv := server.BuildServer(server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), ops, server.Timeouts{
		Read: 5 * time.Second, Write: 10 * time.Second, Idle: 60 * time.Second,
	}, log)

	// 启动日志
	apiURL := server.HumanURL(httpCfg.Host, httpCfg.Port)
	opsURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("developer directory starting",
		zap.String("open", apiURL),
		zap.String("api_v1", apiURL+"/api/v1"),
		zap.String("health", opsURL+"/health"),
		zap.String("metrics", opsURL+"/metrics"),
		zap.Bool("protect_developers", cfg.App.ProtectDevelopers),
	)

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, log, 10*time.Second, apiSrv, opsSrv)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
