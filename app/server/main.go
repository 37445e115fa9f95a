package main

import (
	"context"
	"fmt"
	"log"
	"portfolio-backend/app/server/apidocs"
	"portfolio-backend/app/server/handlers"
	"portfolio-backend/app/server/inits"
	"portfolio-backend/app/server/jwt"
	"portfolio-backend/app/server/middlewares"
	"portfolio-backend/app/server/projects"
	"portfolio-backend/app/server/resume"
	"portfolio-backend/app/server/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	ctx := context.Background()

	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接，未配置时不使用缓存
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	} else if rdb == nil {
		l.Info("redis not configured, cache disabled")
	}

	// 初始化简历存储
	store, err := inits.Storage(ctx, cfg)
	if err != nil {
		l.Fatal("error initializing storage", zap.Error(err))
	}
	if local, ok := store.(*storage.Local); ok {
		l.Info("using local storage", zap.String("dir", local.Dir()))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, j,
		resume.NewManager(l, db, store),
		projects.NewRepository(db),
	)

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.System.CORSOrigins,
	}))

	// 绑定 echo 服务
	e.GET("/healthz", handlerApp.HealthCheck)
	handlerApp.Register(e.Group(cfg.System.APIPrefix), handlers.RouteOptions{
		Guard: middlewares.AdminAuth(j, l),
		LoginLimiter: middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(cfg.System.LoginRateLimit),
		)),
	})

	// 添加 API 文档
	if !cfg.System.IsProd {
		if apiJSON, err := apidocs.Load(ctx, cfg.System.APIPrefix); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api", apiJSON))
		}
	}

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
