package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-payments-api/internal/app/api"
	paymentactivities "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/activities/payments"
	paymentworkflows "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/workflows/payments"
	platformobservability "github.com/Apurer/go-gin-payments-api/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, api.ObservabilitySettings(cfg, "payments-worker"))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stack, cleanupStack := api.NewStack(ctx, cfg, instruments)
	defer cleanupStack()
	if !stack.Durable {
		// The API confirms inline in this case, so a worker over its own memory store would only fail.
		logger.Error("worker requires a reachable PostgreSQL payments store, set POSTGRES_DSN")
		cleanupStack()
		os.Exit(1)
	}
	paymentActivities := paymentactivities.NewActivities(stack.Payments)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, paymentworkflows.PaymentConfirmationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(paymentworkflows.PaymentConfirmationWorkflow, workflow.RegisterOptions{Name: paymentworkflows.PaymentConfirmationWorkflowName})
	w.RegisterActivityWithOptions(paymentActivities.ConfirmPayment, activity.RegisterOptions{Name: paymentactivities.ConfirmPaymentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", paymentworkflows.PaymentConfirmationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
