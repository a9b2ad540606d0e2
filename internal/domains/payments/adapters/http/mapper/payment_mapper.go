package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

// PaymentItem is the HTTP representation of a payment line.
type PaymentItem struct {
	ID          int64           `json:"id,omitempty"`
	ArticleName string          `json:"articleName"`
	Amount      int             `json:"amount"`
	Price       decimal.Decimal `json:"price"`
}

// PaymentSummary is one row of the payment listing.
type PaymentSummary struct {
	ID                int64           `json:"id"`
	EmployeeFirstName string          `json:"employeeFirstName"`
	EmployeeLastName  string          `json:"employeeLastName"`
	PaymentDateTime   time.Time       `json:"paymentDateTime"`
	CashDeskNumber    int             `json:"cashDeskNumber"`
	PaymentType       string          `json:"paymentType"`
	Confirmed         *time.Time      `json:"confirmed,omitempty"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
}

// PaymentDetail is a single payment together with its items.
type PaymentDetail struct {
	ID                int64           `json:"id"`
	EmployeeFirstName string          `json:"employeeFirstName"`
	EmployeeLastName  string          `json:"employeeLastName"`
	CashDeskNumber    int             `json:"cashDeskNumber"`
	PaymentType       string          `json:"paymentType"`
	PaymentDateTime   time.Time       `json:"paymentDateTime"`
	Confirmed         *time.Time      `json:"confirmed,omitempty"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaymentItems      []PaymentItem   `json:"paymentItems"`
	CreatedAt         *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time      `json:"updatedAt,omitempty"`
}

// ToItemInputs converts transport items into application inputs. A nil slice stays nil.
func ToItemInputs(items []PaymentItem) []paymenttypes.PaymentItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]paymenttypes.PaymentItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, paymenttypes.PaymentItemInput{
			ArticleName: item.ArticleName,
			Amount:      item.Amount,
			Price:       item.Price,
		})
	}
	return inputs
}

// FromSummary maps the list view of a payment.
func FromSummary(summary paymenttypes.PaymentSummary) PaymentSummary {
	return PaymentSummary{
		ID:                summary.ID,
		EmployeeFirstName: summary.EmployeeFirstName,
		EmployeeLastName:  summary.EmployeeLastName,
		PaymentDateTime:   summary.PaymentDateTime,
		CashDeskNumber:    summary.CashDeskNumber,
		PaymentType:       string(summary.PaymentType),
		Confirmed:         summary.Confirmed,
		TotalAmount:       summary.Total,
	}
}

// FromSummaries maps a listing; the result is never nil so it encodes as [].
func FromSummaries(summaries []paymenttypes.PaymentSummary) []PaymentSummary {
	result := make([]PaymentSummary, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, FromSummary(summary))
	}
	return result
}

// FromProjection maps a stored payment and its metadata.
func FromProjection(proj *paymenttypes.PaymentProjection) PaymentDetail {
	if proj == nil || proj.Entity == nil {
		return PaymentDetail{PaymentItems: []PaymentItem{}}
	}
	detail := FromPayment(proj.Entity)
	detail.CreatedAt = proj.Metadata.CreatedAtPtr()
	detail.UpdatedAt = proj.Metadata.UpdatedAtPtr()
	return detail
}

// FromPayment maps the payment aggregate.
func FromPayment(p *domain.Payment) PaymentDetail {
	summary := paymenttypes.SummarizePayment(p)
	items := make([]PaymentItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, PaymentItem{
			ID:          item.ID,
			ArticleName: item.ArticleName,
			Amount:      item.Amount,
			Price:       item.Price,
		})
	}
	return PaymentDetail{
		ID:                summary.ID,
		EmployeeFirstName: summary.EmployeeFirstName,
		EmployeeLastName:  summary.EmployeeLastName,
		CashDeskNumber:    summary.CashDeskNumber,
		PaymentType:       string(summary.PaymentType),
		PaymentDateTime:   summary.PaymentDateTime,
		Confirmed:         summary.Confirmed,
		TotalAmount:       summary.Total,
		PaymentItems:      items,
	}
}
