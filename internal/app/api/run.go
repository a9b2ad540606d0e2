package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	paymentsserver "github.com/Apurer/go-gin-payments-api/generated/go"

	"github.com/Apurer/go-gin-payments-api/internal/platform/httpmetrics"
	platformobservability "github.com/Apurer/go-gin-payments-api/internal/platform/observability"
)

// Run boots the payments HTTP API with observability, repositories, and workflows wired.
// It serves until ctx is cancelled and then drains in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ObservabilitySettings(cfg, cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stack, cleanupStack := NewStack(ctx, cfg, instruments)
	defer cleanupStack()

	workflows, closeWorkflows := SelectWorkflows(stack, func() (client.Client, error) {
		return ConnectTemporal(cfg, instruments)
	}, logger.With(slog.String("namespace", cfg.TemporalNamespace)))
	defer closeWorkflows()

	handlers := paymentsserver.ApiHandleFunctions{
		PaymentAPI:  paymentsserver.NewPaymentAPI(stack.Payments, workflows),
		CashDeskAPI: paymentsserver.NewCashDeskAPI(stack.CashDesks),
		EmployeeAPI: paymentsserver.NewEmployeeAPI(stack.Employees),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(cfg.ServiceName))
	router := paymentsserver.NewRouterWithGinEngine(engine, handlers, paymentsserver.WithMetrics(httpmetrics.New()))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Payments API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Payments API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("Payments API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
