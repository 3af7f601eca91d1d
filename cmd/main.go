package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"gitlab.com/gradepro.net/internal/adapter/crypto"
	"gitlab.com/gradepro.net/internal/adapter/docx"
	"gitlab.com/gradepro.net/internal/adapter/gemini"
	"gitlab.com/gradepro.net/internal/adapter/logging"
	"gitlab.com/gradepro.net/internal/adapter/pdfdoc"
	"gitlab.com/gradepro.net/internal/adapter/raster"
	"gitlab.com/gradepro.net/internal/adapter/redis/changeport"
	"gitlab.com/gradepro.net/internal/config"
	auth2 "gitlab.com/gradepro.net/internal/core/services/auth"
	"gitlab.com/gradepro.net/internal/core/services/export"
	"gitlab.com/gradepro.net/internal/core/services/extract"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/core/services/submission"
	logger2 "gitlab.com/gradepro.net/internal/global/logger"
	http2 "gitlab.com/gradepro.net/internal/http"
)

const changeQueueSize = 64

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger2.Init(logging.NewZapLoggerWithLevel(sysCfg.LogLevel, sysCfg.DebugMode))
	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting grading service", "service", sysCfg.HTTPConfig.ServiceName)

	if sysCfg.BackendConfig.ApiKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; every grading call will fail")
	}

	ctxBg, stopBg := context.WithCancel(context.Background())
	defer stopBg()

	// SECONDARY PORTS
	submissionStore := store.NewSubmissionStore(logger)
	redisClient, forwarder := setupChangeFeed(ctxBg, sysCfg.RedisConfig, submissionStore, logger)
	backend := gemini.NewClient(sysCfg.BackendConfig, logger)
	surfaces, err := raster.NewFactory(sysCfg.ReportConfig)
	if err != nil {
		logger.Error("Failed to load report fonts", "error", err)
		os.Exit(1)
	}
	assembler := pdfdoc.NewAssembler("Grading Report", sysCfg.ReportConfig.Brand)

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	//services
	extractSvc := extract.NewExtractService(docx.NewExtractor(), logger, sysCfg.OrchestratorCfg.ExtractParallel)
	configs := grading.NewConfigHolder(sysCfg.DefaultsConfig.Initial(), sysCfg.DefaultsConfig.Models)
	gradingSvc := grading.NewGradingService(submissionStore, backend, extractSvc, configs, sysCfg.OrchestratorCfg, logger)
	submissionSvc := submission.NewSubmissionService(submissionStore, extractSvc, logger)
	reportExporter := export.NewReportExporter(surfaces, assembler, sysCfg.ReportConfig, logger)
	exportSvc := export.NewExportService(submissionStore, reportExporter, logger)
	authSvc, err := auth2.NewLocalAuthService(ctxBg, sysCfg.CredentialConfig, jwtProvider, logger)
	if err != nil {
		logger.Error("Failed to set up auth", "error", err)
		os.Exit(1)
	}
	serviceProvider := http2.NewServiceProvider(submissionSvc, gradingSvc, configs, exportSvc, authSvc)

	//server
	httpServer := http2.NewServer(sysCfg.HTTPConfig, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	httpServer.Stop(ctx)
	gradingSvc.Close()
	stopBg()
	if forwarder != nil {
		forwarder.Wait()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}

	logger.Info("successfully shutdown server")
}

// setupChangeFeed publishes store changes to Redis when REDIS_ADDR is set.
// An unreachable Redis is logged and the service keeps running without the feed.
func setupChangeFeed(ctx context.Context, cfg *config.RedisConfig, submissions *store.SubmissionStore, logger *logging.ZapLogger) (*redis.Client, *store.ChangeForwarder) {
	if !cfg.Enabled() {
		return nil, nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, change feed disabled", "addr", cfg.Url, "error", err)
		_ = redisClient.Close()
		return nil, nil
	}

	publisher := changeport.NewChangePublisher(redisClient, cfg.Channel, logger)
	forwarder := store.NewChangeForwarder(publisher, logger, changeQueueSize)
	submissions.Subscribe(forwarder.Observe)
	forwarder.Run(ctx)
	logger.Info("Publishing submission changes", "addr", cfg.Url, "channel", cfg.Channel)
	return redisClient, forwarder
}

// InitReader loads <env>.env when an environment name is passed, otherwise .env if present
func InitReader() {
	if len(os.Args) < 2 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Error loading .env file: %v", err)
		}
		return
	}
	environment := os.Args[1]
	if err := godotenv.Load(fmt.Sprintf("%s.env", environment)); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
