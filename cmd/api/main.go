package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citimaster/booking-platform/cmd/mainconfig"
	"github.com/citimaster/booking-platform/internal/api/router"
	"github.com/citimaster/booking-platform/internal/app/bootstrap"
	appconfig "github.com/citimaster/booking-platform/internal/config"
	"github.com/citimaster/booking-platform/internal/conversation"
	"github.com/citimaster/booking-platform/internal/http/handlers"
	"github.com/citimaster/booking-platform/internal/messaging"
	"github.com/citimaster/booking-platform/internal/observability/metrics"
	"github.com/citimaster/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := bootstrap.BuildDatabasePool(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}
	repos := bootstrap.BuildRepositories(pool, logger)

	conversationMetrics := metrics.NewConversationMetrics(nil)

	// Queue wiring: SQS in deployment, an in-process queue and worker
	// for single-binary local runs.
	var publisher *conversation.Publisher
	var worker *conversation.Worker
	if cfg.UseMemoryQueue {
		queue := conversation.NewMemoryQueue(256)
		publisher = conversation.NewPublisher(queue, logger)

		redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, false)
		if redisClient == nil {
			logger.Error("REDIS_ADDR is required when USE_MEMORY_QUEUE is set")
			os.Exit(1)
		}
		sessions := bootstrap.BuildSessionStore(redisClient, cfg.SessionTTL)

		bridge, closeBridge, err := bootstrap.BuildIntentBridge(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to build intent bridge", "error", err)
			os.Exit(1)
		}
		defer func() { _ = closeBridge() }()

		engine := bootstrap.BuildEngine(bridge, repos.Vendors, cfg, logger)
		messenger := messaging.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIVersion, logger)

		processorCfg := conversation.ProcessorConfig{
			Sessions:  sessions,
			Engine:    engine,
			Messenger: messenger,
			Customers: repos.Customers,
			Leads:     repos.Leads,
			Callbacks: repos.Callbacks,
			Metrics:   conversationMetrics,
			Logger:    logger,
		}
		if repos.Messages != nil {
			processorCfg.Messages = repos.Messages
		}
		processor := conversation.NewProcessor(processorCfg)

		worker = conversation.NewWorker(processor, queue, logger,
			conversation.WithWorkerCount(cfg.WorkerCount),
		)
		worker.Start(ctx)
		logger.Info("in-process conversation worker started", "workers", cfg.WorkerCount)
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue := conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.ConversationQueueURL)
		publisher = conversation.NewPublisher(queue, logger)
	}

	webhookCfg := messaging.WebhookHandlerConfig{
		VerifyToken: cfg.WhatsAppVerifyToken,
		Publisher:   publisher,
		Metrics:     conversationMetrics,
		Logger:      logger,
	}
	if repos.Processed != nil {
		webhookCfg.Processed = repos.Processed
	}
	webhook := messaging.NewWebhookHandler(webhookCfg)

	var messageCounter handlers.MessageCounter
	if repos.Messages != nil {
		messageCounter = repos.Messages
	}

	r := router.New(&router.Config{
		Logger:             logger,
		Webhook:            webhook,
		AdminDashboard:     handlers.NewAdminDashboardHandler(repos.Leads, repos.Vendors, messageCounter, logger),
		AdminLeads:         handlers.NewAdminLeadsHandler(repos.Leads, logger),
		AdminCallbacks:     handlers.NewAdminCallbacksHandler(repos.Callbacks, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if worker != nil {
		worker.Wait()
	}

	logger.Info("server stopped")
}
