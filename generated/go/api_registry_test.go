package paymentsserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymenthttpmapper "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/http/mapper"
	paymentsapp "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
)

func TestCashDeskAPI_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/cashdesks", map[string]any{"number": 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/cashdesks/3", rec.Header().Get("Location"))

	rec = srv.do(t, http.MethodPost, "/api/cashdesks", map[string]any{"number": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, paymentsapp.MsgCashDeskExists, decodeProblem(t, rec).Detail)

	rec = srv.do(t, http.MethodGet, "/api/cashdesks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var desks []paymenthttpmapper.CashDesk
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desks))
	assert.Len(t, desks, 3)

	require.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/api/cashdesks/3", nil).Code)
	rec = srv.do(t, http.MethodGet, "/api/cashdesks/3", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, paymentsapp.MsgCashDeskNotFound, decodeProblem(t, rec).Detail)

	rec = srv.do(t, http.MethodGet, "/api/cashdesks/three", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashDeskAPI_DeleteReferenced(t *testing.T) {
	srv := newTestServer(t)
	srv.createPayment(t, 1001, "Cash")

	rec := srv.do(t, http.MethodDelete, "/api/cashdesks/1", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, paymentsapp.MsgCashDeskHasPayments, decodeProblem(t, rec).Detail)
}

func TestEmployeeAPI_CreateAndFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/employees", map[string]any{
		"registrationNumber": 3003,
		"firstName":          "Clara",
		"lastName":           "Huber",
		"type":               "cashier",
		"jobSpecialisation":  "Backoffice",
		"address":            map[string]any{"street": "Ring 1", "zip": "1010", "city": "Wien"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created paymenthttpmapper.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Cashier", created.Type)
	require.NotNil(t, created.Address)
	assert.Equal(t, "Wien", created.Address.City)

	rec = srv.do(t, http.MethodGet, "/api/employees?type=Cashier", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cashiers []paymenthttpmapper.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cashiers))
	assert.Len(t, cashiers, 2)

	rec = srv.do(t, http.MethodPost, "/api/employees", map[string]any{
		"registrationNumber": 4004,
		"firstName":          "Dora",
		"lastName":           "Berg",
		"type":               "Janitor",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, paymentsapp.MsgInvalidEmployeeRole, decodeProblem(t, rec).Detail)
}

func TestEmployeeAPI_DeleteAndGet(t *testing.T) {
	srv := newTestServer(t)
	srv.createPayment(t, 2002, "Cash")

	rec := srv.do(t, http.MethodDelete, "/api/employees/2002", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, paymentsapp.MsgEmployeeHasPayments, decodeProblem(t, rec).Detail)

	require.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/api/employees/1001", nil).Code)
	rec = srv.do(t, http.MethodGet, "/api/employees/1001", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, paymentsapp.MsgEmployeeNotFound, decodeProblem(t, rec).Detail)
}
