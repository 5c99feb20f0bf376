// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"place-intake/internal/backend"
	"place-intake/internal/common/config"
	"place-intake/internal/common/database"
	"place-intake/internal/common/logger"
	"place-intake/internal/common/observability"
	"place-intake/internal/kafkasource"
	"place-intake/internal/selection"
	"place-intake/internal/server"
	"place-intake/internal/sessions"
	"place-intake/internal/widget"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting place intake server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Reconfigure logging from config now that it is known.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("place-intake")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Optional shared seen-set backend ---
	var rdb *database.RedisClient
	if cfg.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Backend submitter ---
	submitter := backend.NewSubmitter(&backend.Config{
		URL:     cfg.Backend.URL,
		Timeout: config.GetDuration(cfg.Backend.Timeout),
	}, log)

	// --- Session registry ---
	idleTTL := config.GetDuration(cfg.Sessions.IdleTTL)
	seenFor := func(sessionID string) selection.SeenStore {
		if rdb != nil {
			return selection.NewRedisSeen(rdb.Client, sessionID, idleTTL)
		}
		return selection.NewMemorySeen()
	}

	registry := sessions.NewRegistry(
		&sessions.Config{
			IdleTTL:       idleTTL,
			SweepInterval: config.GetDuration(cfg.Sessions.SweepInterval),
			StoreTimeout:  config.GetDuration(cfg.Sessions.StoreTimeout),
		},
		widget.Options{AllowedTypes: cfg.Widget.AllowedTypes},
		seenFor,
		submitter,
		obs,
		log,
	)
	registry.Start()

	// --- Optional Kafka selection source ---
	kafkaCtx, kafkaCancel := context.WithCancel(ctx)
	var consumer *kafkasource.Consumer
	if cfg.Kafka.Enabled {
		consumer = kafkasource.NewConsumer(&kafkasource.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, registry, log)
		consumer.Start(kafkaCtx)
		zapLog.Info("Kafka selection source started",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	// --- Intake HTTP surface ---
	srv := server.New(cfg.Server.Address, registry, log)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("intake server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down intake server", zap.Error(err))
	}

	kafkaCancel()
	if consumer != nil {
		consumer.Stop()
	}

	registry.Stop(shutdownCtx)

	// Let in-flight fire-and-forget submissions drain before exit.
	if err := submitter.Wait(shutdownCtx); err != nil {
		zapLog.Warn("Shutdown with submissions still in flight", zap.Error(err))
	}

	zapLog.Info("Place intake server stopped gracefully")
}
