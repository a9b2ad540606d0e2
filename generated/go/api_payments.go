package paymentsserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	paymenthttpmapper "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/http/mapper"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	paymentsports "github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	apierrors "github.com/Apurer/go-gin-payments-api/internal/shared/errors"
)

const (
	// HeaderIdempotencyKey makes payment creation safe to retry.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response that replays an earlier creation.
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// PaymentAPI wires HTTP transport with the payments service and workflows.
type PaymentAPI struct {
	service   paymentsports.Service
	workflows paymentsports.WorkflowOrchestrator
}

// NewPaymentAPI creates a PaymentAPI. Confirmation runs through workflows when set.
func NewPaymentAPI(service paymentsports.Service, workflows paymentsports.WorkflowOrchestrator) PaymentAPI {
	return PaymentAPI{service: service, workflows: workflows}
}

// Get /api/payments
// Lists payments, optionally filtered by cash desk and earliest payment date
func (api *PaymentAPI) ListPayments(c *gin.Context) {
	var params ListPaymentsParams
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "cashDesk", query, &params.CashDesk); err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter cashDesk: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "dateFrom", query, &params.DateFrom); err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter dateFrom: %w", err))
		return
	}
	result, err := api.service.ListPayments(c.Request.Context(), paymenttypes.ListPaymentsInput{
		CashDeskNumber: params.CashDesk,
		DateFrom:       params.DateFrom,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromSummaries(result))
}

// Get /api/payments/:id
// Finds a payment with its items
func (api *PaymentAPI) GetPayment(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	payment, err := api.service.GetPayment(c.Request.Context(), paymenttypes.PaymentIdentifier{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromProjection(payment))
}

// Post /api/payments
// Records a new open payment
func (api *PaymentAPI) CreatePayment(c *gin.Context) {
	var payload NewPaymentCommand
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := paymenttypes.CreatePaymentInput{
		CashDeskNumber:             payload.CashDeskNumber,
		EmployeeRegistrationNumber: payload.EmployeeRegistrationNumber,
		PaymentDateTime:            payload.PaymentDateTime,
		PaymentType:                payload.PaymentType,
		Items:                      paymenthttpmapper.ToItemInputs(payload.PaymentItems),
		IdempotencyKey:             strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	}
	result, err := api.service.CreatePayment(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/payments/%d", result.ID))
	if result.Replayed {
		c.Header(HeaderIdempotentReplayed, "true")
		c.JSON(http.StatusOK, CreatedResponse{ID: result.ID})
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: result.ID})
}

// Put /api/payments/:id
// Replaces an open payment together with its items
func (api *PaymentAPI) UpdatePayment(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	var payload NewPaymentCommand
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	err := api.service.UpdatePayment(c.Request.Context(), paymenttypes.UpdatePaymentInput{
		ID:                         id,
		CashDeskNumber:             payload.CashDeskNumber,
		EmployeeRegistrationNumber: payload.EmployeeRegistrationNumber,
		PaymentDateTime:            payload.PaymentDateTime,
		PaymentType:                payload.PaymentType,
		Items:                      paymenthttpmapper.ToItemInputs(payload.PaymentItems),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Patch /api/payments/:id
// Changes only the payment type of an open payment
func (api *PaymentAPI) PatchPayment(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	// An unknown payment is reported before any problem with the body.
	var document map[string]json.RawMessage
	if err := c.ShouldBindJSON(&document); err != nil {
		if api.paymentExists(c, id) {
			respondBadRequest(c, err)
		}
		return
	}
	raw, present := document["paymentType"]
	if !present {
		if api.paymentExists(c, id) {
			respondProblem(c, apierrors.NewValidationProblem(MsgMissingPaymentType))
		}
		return
	}
	var paymentType string
	// Non-string values fall through as an empty type and fail type validation.
	_ = json.Unmarshal(raw, &paymentType)
	err := api.service.SetPaymentType(c.Request.Context(), paymenttypes.SetPaymentTypeInput{ID: id, PaymentType: paymentType})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// paymentExists answers the request with the lookup error when the payment cannot be loaded.
func (api *PaymentAPI) paymentExists(c *gin.Context, id int64) bool {
	if _, err := api.service.GetPayment(c.Request.Context(), paymenttypes.PaymentIdentifier{ID: id}); err != nil {
		respondServiceError(c, err)
		return false
	}
	return true
}

// Delete /api/payments/:id
// Deletes a payment; deleteItems=true removes its items as well
func (api *PaymentAPI) DeletePayment(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	var params DeletePaymentParams
	if err := runtime.BindQueryParameter("form", true, false, "deleteItems", c.Request.URL.Query(), &params.DeleteItems); err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter deleteItems: %w", err))
		return
	}
	input := paymenttypes.DeletePaymentInput{ID: id}
	if params.DeleteItems != nil {
		input.DeleteItems = *params.DeleteItems
	}
	if err := api.service.DeletePayment(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/payments/:id/confirm
// Confirms a payment exactly once
func (api *PaymentAPI) ConfirmPayment(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	input := paymenttypes.ConfirmPaymentInput{ID: id}
	var err error
	if api.workflows != nil {
		err = api.workflows.ConfirmPayment(c.Request.Context(), input)
	} else {
		err = api.service.ConfirmPayment(c.Request.Context(), input)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/payments/:id/items
// Adds a line item to an open payment
func (api *PaymentAPI) AddPaymentItem(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	var payload NewPaymentItemCommand
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	itemID, err := api.service.AddPaymentItem(c.Request.Context(), paymenttypes.AddPaymentItemInput{
		PaymentID:   id,
		ArticleName: payload.ArticleName,
		Amount:      payload.Amount,
		Price:       payload.Price,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/payments/%d", id))
	c.JSON(http.StatusCreated, CreatedResponse{ID: itemID})
}
