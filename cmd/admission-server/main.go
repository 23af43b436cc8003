// cmd/admission-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"admissions/internal/admission"
	"admissions/internal/common/camunda"
	"admissions/internal/common/config"
	"admissions/internal/common/logger"
	"admissions/internal/common/observability"
	"admissions/internal/server"
	"admissions/internal/store"
	processapplication "admissions/internal/workers/admission/process-application"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting admission server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Driver),
		zap.String("email", cfg.Email.Provider),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("metrics exporter unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init store with retry ---
	var st store.Store
	err = retryWithBackoff(func() error {
		var err error
		st, err = store.New(cfg)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			st.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "store connection")
	if err != nil {
		zapLog.Fatal("store unavailable after retries", zap.Error(err))
	}
	defer st.Close()
	zapLog.Info("store connected", zap.String("driver", cfg.Store.Driver))

	processor, err := admission.NewFromConfig(ctx, cfg, st, log)
	if err != nil {
		zapLog.Fatal("failed to build admission processor", zap.Error(err))
	}
	if !cfg.Email.Configured() {
		zapLog.Warn("email provider not configured; submissions will fail after storing")
	}

	// --- Optional Zeebe worker ---
	var zeebe *camunda.Client
	var jobWorker *camunda.Worker
	if cfg.Camunda.Enabled {
		wcfg := processapplication.LoadConfig(cfg.Camunda)
		handler, err := processapplication.NewHandler(wcfg, processor, log)
		if err != nil {
			zapLog.Fatal("failed to create process-admission-application handler", zap.Error(err))
		}

		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		}, 5, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}

		jobWorker = camunda.NewWorker(zeebe.Raw(), processapplication.TaskType, wcfg.MaxJobsActive, wcfg.Timeout, handler, log)
	}

	srv := server.New(cfg.Server, processor, obs, log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error shutting down metrics", zap.Error(err))
		}
	}

	zapLog.Info("Admission server stopped gracefully")
}
