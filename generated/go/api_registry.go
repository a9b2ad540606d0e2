package paymentsserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	paymenthttpmapper "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/http/mapper"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	paymentsports "github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

// CashDeskAPI serves the cash desk registry.
type CashDeskAPI struct {
	service paymentsports.CashDeskService
}

// NewCashDeskAPI creates a CashDeskAPI backed by the provided service.
func NewCashDeskAPI(service paymentsports.CashDeskService) CashDeskAPI {
	return CashDeskAPI{service: service}
}

// Get /api/cashdesks
func (api *CashDeskAPI) ListCashDesks(c *gin.Context) {
	desks, err := api.service.ListCashDesks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromCashDesks(desks))
}

// Get /api/cashdesks/:number
func (api *CashDeskAPI) GetCashDesk(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	desk, err := api.service.GetCashDesk(c.Request.Context(), number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromCashDesk(desk))
}

// Post /api/cashdesks
func (api *CashDeskAPI) CreateCashDesk(c *gin.Context) {
	var payload NewCashDeskCommand
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	desk, err := api.service.CreateCashDesk(c.Request.Context(), payload.Number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/cashdesks/%d", desk.Number))
	c.JSON(http.StatusCreated, paymenthttpmapper.FromCashDesk(desk))
}

// Delete /api/cashdesks/:number
func (api *CashDeskAPI) DeleteCashDesk(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	if err := api.service.DeleteCashDesk(c.Request.Context(), number); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EmployeeAPI serves the employee registry.
type EmployeeAPI struct {
	service paymentsports.EmployeeService
}

// NewEmployeeAPI creates an EmployeeAPI backed by the provided service.
func NewEmployeeAPI(service paymentsports.EmployeeService) EmployeeAPI {
	return EmployeeAPI{service: service}
}

// Get /api/employees
// Lists employees, optionally only managers or cashiers
func (api *EmployeeAPI) ListEmployees(c *gin.Context) {
	var params ListEmployeesParams
	if err := runtime.BindQueryParameter("form", true, false, "type", c.Request.URL.Query(), &params.Type); err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter type: %w", err))
		return
	}
	employees, err := api.service.ListEmployees(c.Request.Context(), paymenttypes.ListEmployeesInput{Role: params.Type})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromEmployees(employees))
}

// Get /api/employees/:registrationNumber
func (api *EmployeeAPI) GetEmployee(c *gin.Context) {
	registrationNumber, ok := parseIntParam(c, "registrationNumber")
	if !ok {
		return
	}
	employee, err := api.service.GetEmployee(c.Request.Context(), registrationNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromEmployee(employee))
}

// Post /api/employees
func (api *EmployeeAPI) CreateEmployee(c *gin.Context) {
	var payload paymenthttpmapper.Employee
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	employee, err := api.service.CreateEmployee(c.Request.Context(), paymenthttpmapper.ToCreateEmployeeInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/employees/%d", employee.RegistrationNumber))
	c.JSON(http.StatusCreated, paymenthttpmapper.FromEmployee(employee))
}

// Delete /api/employees/:registrationNumber
func (api *EmployeeAPI) DeleteEmployee(c *gin.Context) {
	registrationNumber, ok := parseIntParam(c, "registrationNumber")
	if !ok {
		return
	}
	if err := api.service.DeleteEmployee(c.Request.Context(), registrationNumber); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
