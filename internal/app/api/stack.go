package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	paymentscache "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/cache/redis"
	paymentsmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	paymentskafka "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/messaging/kafka"
	paymentsobs "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/observability"
	paymentspostgres "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/persistence/postgres"
	paymentsworkflows "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymentsports "github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	platformkafka "github.com/Apurer/go-gin-payments-api/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-gin-payments-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-payments-api/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-payments-api/internal/platform/redis"
)

// Stack is the wired payments context shared by the API and the worker.
type Stack struct {
	Payments  paymentsports.Service
	CashDesks paymentsports.CashDeskService
	Employees paymentsports.EmployeeService
	// Durable is true when payments live in PostgreSQL and are therefore visible
	// to other processes such as the Temporal worker.
	Durable bool
}

type storage interface {
	paymentsports.Repository
	paymentsports.CashDeskRepository
	paymentsports.EmployeeRepository
}

// NewStack connects the configured backends, falling back to in-memory adapters for
// anything unreachable, and returns the decorated services plus a cleanup function.
func NewStack(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Stack, func()) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		store       storage
		idempotency paymentsports.IdempotencyStore
		durable     bool
	)
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, platformpostgres.Options{
		MaxOpenConns: cfg.PostgresMaxConns,
		MaxIdleConns: cfg.PostgresMaxConns,
		Migrate:      cfg.AutoMigrate,
	}, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		store = paymentspostgres.NewRepository(db)
		idempotency = paymentspostgres.NewIdempotencyStore(db)
		durable = true
		logger.Info("payments repository configured with postgres")
	} else {
		store = paymentsmemory.NewStore()
		idempotency = paymentsmemory.NewIdempotencyStore()
	}

	redisClient, closeRedis := platformredis.ConnectOrFallback(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	cleanups = append(cleanups, closeRedis)
	if redisClient != nil {
		idempotency = paymentscache.NewIdempotencyStore(redisClient, idempotency, cfg.IdempotencyTTL(), logger)
		logger.Info("idempotency keys cached in redis", slog.String("addr", cfg.RedisAddr))
	}

	options := []paymentsapp.Option{paymentsapp.WithIdempotencyStore(idempotency), paymentsapp.WithLogger(logger)}
	if writer := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger); writer != nil {
		publisher := paymentskafka.NewPublisher(writer, logger)
		cleanups = append(cleanups, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka publisher", slog.String("error", err.Error()))
			}
		})
		options = append(options, paymentsapp.WithEventPublisher(publisher))
		logger.Info("payment events published to kafka", slog.String("topic", cfg.KafkaTopic))
	}

	core := paymentsapp.NewService(store, options...)
	stack := &Stack{
		Payments: paymentsobs.New(
			core,
			paymentsobs.WithLogger(logger),
			paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
			paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
		),
		CashDesks: paymentsobs.NewCashDesks(paymentsapp.NewCashDeskService(store), instruments.Tracer("internal.payments.cashdesks"), logger),
		Employees: paymentsobs.NewEmployees(paymentsapp.NewEmployeeService(store), instruments.Tracer("internal.payments.employees"), logger),
		Durable:   durable,
	}
	return stack, cleanup
}

// SelectWorkflows returns the Temporal orchestrator when the payments store is shared
// with the worker and Temporal can be dialed. Otherwise confirmation runs inline against
// this process's store. The returned cleanup closes the Temporal client if one was opened.
func SelectWorkflows(stack *Stack, dial func() (client.Client, error), logger *slog.Logger) (paymentsports.WorkflowOrchestrator, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	inline := paymentsworkflows.NewInlinePaymentWorkflows(stack.Payments)
	if !stack.Durable {
		logger.Warn("payments are kept in memory, confirming inline because a Temporal worker could not see them")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, confirming payments inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return paymentsworkflows.NewTemporalPaymentWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// ObservabilitySettings maps the process config onto observability.Init settings.
func ObservabilitySettings(cfg Config, serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		SampleRatio:  cfg.TraceSampleRatio,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
