package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-session-safety/internal/config"
	"wisefido-session-safety/internal/database"
	"wisefido-session-safety/internal/detector"
	"wisefido-session-safety/internal/httpapi"
	"wisefido-session-safety/internal/lexicon"
	"wisefido-session-safety/internal/logger"
	"wisefido-session-safety/internal/redisutil"
	"wisefido-session-safety/internal/repository"
	"wisefido-session-safety/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-session-safety")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 数据库连接
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 4. Redis（可选：未启用时风险事件不发布）
	var redisClient *redisutil.Client
	if cfg.Redis.Enabled {
		redisClient = redisutil.NewRedisClient(&cfg.Redis)
		if err := redisutil.Ping(context.Background(), redisClient); err != nil {
			log.Warn("Redis unavailable, risk event publishing disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	// 5. 词库与检测器
	lex, err := lexicon.Load(cfg.Safety.LexiconPath)
	if err != nil {
		log.Fatal("Failed to load crisis lexicon",
			zap.String("path", cfg.Safety.LexiconPath),
			zap.Error(err))
	}
	det := detector.New(lex)

	// 6. 仓库层
	segmentsRepo := repository.NewPostgresTranscriptSegmentsRepository(db, log)
	risksRepo := repository.NewPostgresRiskEventsRepository(db, log)
	sessionsRepo := repository.NewPostgresSessionsRepository(db, log)
	recordingsRepo := repository.NewPostgresRecordingsRepository(db, log)

	// 7. 服务层
	notifier := service.NewRiskNotifier(redisClient, cfg.Safety.RiskStream, log)
	asrClient := service.NewASRClient(cfg.ASR.BaseURL, log)

	ingestService := service.NewIngestService(segmentsRepo, det, notifier, asrClient, log)
	transcriptService := service.NewTranscriptService(segmentsRepo, risksRepo, log)
	riskFeedService := service.NewRiskFeedService(risksRepo, sessionsRepo, cfg.Safety.FeedRecentLimit,
		time.Duration(cfg.Safety.FeedWindowHours)*time.Hour, log)
	recordingService := service.NewRecordingService(recordingsRepo, log)

	// 8. HTTP 路由
	router := httpapi.NewRouter(log)
	router.RegisterSafetyRoutes(
		httpapi.NewTranscriptHandler(ingestService, transcriptService, log),
		httpapi.NewRiskFeedHandler(riskFeedService, log),
		httpapi.NewRecordingHandler(recordingService, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// 9. 等待信号（优雅关闭）
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		log.Error("HTTP server error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)

	log.Info("Session safety service stopped")
}
