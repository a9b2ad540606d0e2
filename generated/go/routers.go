package paymentsserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-payments-api/internal/platform/httpmetrics"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every resource served under /api.
type ApiHandleFunctions struct {
	PaymentAPI  PaymentAPI
	CashDeskAPI CashDeskAPI
	EmployeeAPI EmployeeAPI
}

// RouterOption customises router construction.
type RouterOption func(*routerOptions)

type routerOptions struct {
	metrics *httpmetrics.Metrics
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(metrics *httpmetrics.Metrics) RouterOption {
	return func(o *routerOptions) {
		o.metrics = metrics
	}
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts...)
}

// NewRouterWithGinEngine adds the payments routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	options := routerOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	router.Use(RequestID())
	if options.metrics != nil {
		router.Use(options.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(options.metrics.Handler()))
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListPayments", http.MethodGet, "/api/payments", handleFunctions.PaymentAPI.ListPayments},
		{"GetPayment", http.MethodGet, "/api/payments/:id", handleFunctions.PaymentAPI.GetPayment},
		{"CreatePayment", http.MethodPost, "/api/payments", handleFunctions.PaymentAPI.CreatePayment},
		{"UpdatePayment", http.MethodPut, "/api/payments/:id", handleFunctions.PaymentAPI.UpdatePayment},
		{"PatchPayment", http.MethodPatch, "/api/payments/:id", handleFunctions.PaymentAPI.PatchPayment},
		{"DeletePayment", http.MethodDelete, "/api/payments/:id", handleFunctions.PaymentAPI.DeletePayment},
		{"ConfirmPayment", http.MethodPost, "/api/payments/:id/confirm", handleFunctions.PaymentAPI.ConfirmPayment},
		{"AddPaymentItem", http.MethodPost, "/api/payments/:id/items", handleFunctions.PaymentAPI.AddPaymentItem},
		{"ListCashDesks", http.MethodGet, "/api/cashdesks", handleFunctions.CashDeskAPI.ListCashDesks},
		{"GetCashDesk", http.MethodGet, "/api/cashdesks/:number", handleFunctions.CashDeskAPI.GetCashDesk},
		{"CreateCashDesk", http.MethodPost, "/api/cashdesks", handleFunctions.CashDeskAPI.CreateCashDesk},
		{"DeleteCashDesk", http.MethodDelete, "/api/cashdesks/:number", handleFunctions.CashDeskAPI.DeleteCashDesk},
		{"ListEmployees", http.MethodGet, "/api/employees", handleFunctions.EmployeeAPI.ListEmployees},
		{"GetEmployee", http.MethodGet, "/api/employees/:registrationNumber", handleFunctions.EmployeeAPI.GetEmployee},
		{"CreateEmployee", http.MethodPost, "/api/employees", handleFunctions.EmployeeAPI.CreateEmployee},
		{"DeleteEmployee", http.MethodDelete, "/api/employees/:registrationNumber", handleFunctions.EmployeeAPI.DeleteEmployee},
	}
}
