package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/citimaster/booking-platform/cmd/mainconfig"
	"github.com/citimaster/booking-platform/internal/app/bootstrap"
	appconfig "github.com/citimaster/booking-platform/internal/config"
	"github.com/citimaster/booking-platform/internal/conversation"
	"github.com/citimaster/booking-platform/internal/messaging"
	"github.com/citimaster/booking-platform/internal/observability/metrics"
	"github.com/citimaster/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting conversation worker", "env", cfg.Env)

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

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, false)
	if redisClient == nil {
		logger.Error("REDIS_ADDR is required")
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
		Metrics:   metrics.NewConversationMetrics(nil),
		Logger:    logger,
	}
	if repos.Messages != nil {
		processorCfg.Messages = repos.Messages
	}
	processor := conversation.NewProcessor(processorCfg)

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	queue := conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.ConversationQueueURL)

	worker := conversation.NewWorker(processor, queue, logger,
		conversation.WithWorkerCount(cfg.WorkerCount),
	)
	worker.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down conversation worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("conversation worker stopped")
	case <-doneCtx.Done():
		logger.Error("conversation worker shutdown timed out", "error", doneCtx.Err())
	}
}
