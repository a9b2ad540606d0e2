package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	paymentmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

func newInstrumented(t *testing.T) (*tracetest.SpanRecorder, *sdkmetric.ManualReader, *bytes.Buffer, *Service) {
	t.Helper()
	store := paymentmemory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}))
	cashier, err := domain.NewCashier(2002, "Ben", "Meier", nil, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveEmployee(ctx, cashier))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}

	svc := New(application.NewService(store),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return recorder, reader, logs, svc.(*Service)
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsSuccess(t *testing.T) {
	recorder, reader, logs, svc := newInstrumented(t)

	result, err := svc.CreatePayment(context.Background(), paymenttypes.CreatePaymentInput{
		CashDeskNumber:             1,
		EmployeeRegistrationNumber: 2002,
		PaymentDateTime:            time.Now(),
		PaymentType:                "Cash",
	})
	require.NoError(t, err)
	require.NotZero(t, result.ID)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "Service.CreatePayment", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, int64(1), counterTotal(t, reader, "payments.service.created"))
	require.Contains(t, logs.String(), "payment created")
}

func TestService_RejectionIsNotAnError(t *testing.T) {
	recorder, reader, logs, svc := newInstrumented(t)

	_, err := svc.CreatePayment(context.Background(), paymenttypes.CreatePaymentInput{
		CashDeskNumber:             1,
		EmployeeRegistrationNumber: 2002,
		PaymentDateTime:            time.Now(),
		PaymentType:                "CreditCard",
	})
	require.EqualError(t, err, application.MsgInsufficientRights)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, int64(1), counterTotal(t, reader, "payments.service.rejected"))
	require.Contains(t, logs.String(), `"level":"WARN"`)
}
