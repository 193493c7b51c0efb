package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/ai"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/config"
	"github.com/suPer8Hu/brand-assistant/internal/db"
	"github.com/suPer8Hu/brand-assistant/internal/httpapi"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"github.com/suPer8Hu/brand-assistant/internal/store/rabbitmq"
	"github.com/suPer8Hu/brand-assistant/internal/store/redisstore"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("db connect failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	ctx := context.Background()

	reg := prompts.Default()
	provider, err := ai.NewDefaultRegistry(cfg).Get(ctx, cfg.AIProvider, cfg.AIModel)
	if err != nil {
		logger.Fatal("ai provider init failed", zap.String("provider", cfg.AIProvider), zap.Error(err))
	}

	// turn lock: redis when shared across instances, in-process otherwise
	var locker chat.TurnLocker
	if cfg.RedisAddr != "" {
		rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rds.Ping(pctx)
		cancel()
		if err != nil {
			logger.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rds.Close()
		locker = redisstore.NewTurnLocker(rds, cfg.TurnLockTTL)
	}

	svc := chat.NewService(chat.NewRepo(gdb), chat.NewGateway(provider, reg), reg, locker)

	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitTitleQueue)
		if err != nil {
			logger.Fatal("rabbit publisher init failed", zap.Error(err))
		}
		defer pub.Close()
		svc.SetTitleQueue(pub)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(gdb, cfg, svc, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server started",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("ai_provider", cfg.AIProvider),
			zap.String("ai_model", cfg.AIModel),
			zap.Bool("redis_lock", cfg.RedisAddr != ""),
			zap.Bool("title_queue", cfg.RabbitURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}
