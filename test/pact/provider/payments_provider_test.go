//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-payments-api/test/pact"

	paymentsserver "github.com/Apurer/go-gin-payments-api/generated/go"
	paymentsmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	paymentsobs "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/observability"
	paymentsworkflows "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPaymentsProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateRegistrySeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StatePaymentOpen: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedPayment(t)
			}
			return nil, nil
		},
		pacttest.StatePaymentMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves a router that is rebuilt over a fresh store for every provider state.
type contractProviderApp struct {
	mu      sync.RWMutex
	router  http.Handler
	service *paymentsapp.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	store := paymentsmemory.NewStore()
	require.NoError(t, store.SaveCashDesk(ctx, &domain.CashDesk{Number: pacttest.ExistingCashDesk}))
	manager, err := domain.NewManager(pacttest.ManagerNumber, pacttest.ManagerFirstName, pacttest.ManagerLastName, nil, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveEmployee(ctx, manager))

	core := paymentsapp.NewService(store, paymentsapp.WithIdempotencyStore(paymentsmemory.NewIdempotencyStore()))
	service := paymentsobs.New(core)
	handlers := paymentsserver.ApiHandleFunctions{
		PaymentAPI:  paymentsserver.NewPaymentAPI(service, paymentsworkflows.NewInlinePaymentWorkflows(service)),
		CashDeskAPI: paymentsserver.NewCashDeskAPI(paymentsapp.NewCashDeskService(store)),
		EmployeeAPI: paymentsserver.NewEmployeeAPI(paymentsapp.NewEmployeeService(store)),
	}
	router := paymentsserver.NewRouter(handlers)

	a.mu.Lock()
	a.router = router
	a.service = core
	a.mu.Unlock()
}

func (a *contractProviderApp) seedPayment(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	service := a.service
	a.mu.RUnlock()
	result, err := service.CreatePayment(context.Background(), paymenttypes.CreatePaymentInput{
		CashDeskNumber:             pacttest.ExistingCashDesk,
		EmployeeRegistrationNumber: pacttest.ManagerNumber,
		PaymentDateTime:            time.Now().Add(-time.Hour),
		PaymentType:                "Cash",
		Items: []paymenttypes.PaymentItemInput{
			{ArticleName: "Milk", Amount: 2, Price: decimal.RequireFromString("1.2")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingPaymentID, result.ID)
}
