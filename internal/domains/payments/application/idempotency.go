package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	types "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
)

type normalizedCreatePayment struct {
	CashDeskNumber             int              `json:"cashDeskNumber"`
	EmployeeRegistrationNumber int              `json:"employeeRegistrationNumber"`
	PaymentDateTime            string           `json:"paymentDateTime"`
	PaymentType                string           `json:"paymentType"`
	Items                      []normalizedItem `json:"items,omitempty"`
}

type normalizedItem struct {
	ArticleName string `json:"articleName"`
	Amount      int    `json:"amount"`
	Price       string `json:"price"`
}

// FingerprintCreatePayment builds a deterministic hash of the create request (excluding the idempotency key).
func FingerprintCreatePayment(input types.CreatePaymentInput) (string, error) {
	normalized := normalizedCreatePayment{
		CashDeskNumber:             input.CashDeskNumber,
		EmployeeRegistrationNumber: input.EmployeeRegistrationNumber,
		PaymentDateTime:            input.PaymentDateTime.UTC().Format(time.RFC3339Nano),
		PaymentType:                strings.ToLower(strings.TrimSpace(input.PaymentType)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedItem{
			ArticleName: strings.TrimSpace(item.ArticleName),
			Amount:      item.Amount,
			Price:       item.Price.String(),
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
