package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

type cashDeskRecord struct {
	Number    int       `gorm:"primaryKey;autoIncrement:false;column:number"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cashDeskRecord) TableName() string { return "cash_desks" }

type addressColumns struct {
	Street *string `gorm:"column:street;size:255"`
	Zip    *string `gorm:"column:zip;size:32"`
	City   *string `gorm:"column:city;size:255"`
}

// employeeRecord stores managers and cashiers in one table; Type is the discriminator.
type employeeRecord struct {
	RegistrationNumber int            `gorm:"primaryKey;autoIncrement:false;column:registration_number"`
	FirstName          string         `gorm:"column:first_name;size:255;not null"`
	LastName           string         `gorm:"column:last_name;size:255;not null"`
	Address            addressColumns `gorm:"embedded;embeddedPrefix:address_"`
	Type               string         `gorm:"column:type;size:16;not null;index"`
	CarType            *string        `gorm:"column:car_type;size:255"`
	JobSpecialisation  *string        `gorm:"column:job_specialisation;size:255"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (employeeRecord) TableName() string { return "employees" }

type paymentRecord struct {
	ID                         int64               `gorm:"primaryKey;column:id"`
	CashDeskNumber             int                 `gorm:"column:cash_desk_number;not null;index"`
	EmployeeRegistrationNumber int                 `gorm:"column:employee_registration_number;not null;index"`
	PaymentDateTime            time.Time           `gorm:"column:payment_date_time;not null;index"`
	PaymentType                string              `gorm:"column:payment_type;size:16;not null"`
	Confirmed                  *time.Time          `gorm:"column:confirmed"`
	CreatedAt                  time.Time           `gorm:"column:created_at"`
	UpdatedAt                  time.Time           `gorm:"column:updated_at"`
	CashDesk                   *cashDeskRecord     `gorm:"foreignKey:CashDeskNumber;references:Number;constraint:OnDelete:RESTRICT"`
	Employee                   *employeeRecord     `gorm:"foreignKey:EmployeeRegistrationNumber;references:RegistrationNumber;constraint:OnDelete:RESTRICT"`
	Items                      []paymentItemRecord `gorm:"foreignKey:PaymentID;constraint:OnDelete:RESTRICT"`
}

func (paymentRecord) TableName() string { return "payments" }

type paymentItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	PaymentID   int64           `gorm:"column:payment_id;not null;index"`
	ArticleName string          `gorm:"column:article_name;size:255;not null"`
	Amount      int             `gorm:"column:amount;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
}

func (paymentItemRecord) TableName() string { return "payment_items" }

func toCashDeskRecord(desk *domain.CashDesk) cashDeskRecord {
	return cashDeskRecord{Number: desk.Number}
}

func (r *cashDeskRecord) toDomain() *domain.CashDesk {
	if r == nil {
		return nil
	}
	return &domain.CashDesk{Number: r.Number}
}

func toEmployeeRecord(e *domain.Employee) employeeRecord {
	rec := employeeRecord{
		RegistrationNumber: e.RegistrationNumber,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Type:               string(e.Role),
	}
	if e.Address != nil {
		rec.Address = addressColumns{
			Street: optional(e.Address.Street),
			Zip:    optional(e.Address.Zip),
			City:   optional(e.Address.City),
		}
	}
	switch e.Role {
	case domain.RoleManager:
		rec.CarType = optional(e.CarType)
	case domain.RoleCashier:
		rec.JobSpecialisation = optional(e.JobSpecialisation)
	}
	return rec
}

func (r *employeeRecord) toDomain() *domain.Employee {
	if r == nil {
		return nil
	}
	e := &domain.Employee{
		RegistrationNumber: r.RegistrationNumber,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Role:               domain.Role(r.Type),
		CarType:            value(r.CarType),
		JobSpecialisation:  value(r.JobSpecialisation),
	}
	if r.Address.Street != nil || r.Address.Zip != nil || r.Address.City != nil {
		e.Address = &domain.Address{
			Street: value(r.Address.Street),
			Zip:    value(r.Address.Zip),
			City:   value(r.Address.City),
		}
	}
	return e
}

func toPaymentRecord(p *domain.Payment) paymentRecord {
	return paymentRecord{
		ID:                         p.ID,
		CashDeskNumber:             p.CashDesk.Number,
		EmployeeRegistrationNumber: p.Employee.RegistrationNumber,
		PaymentDateTime:            p.PaymentDateTime,
		PaymentType:                string(p.PaymentType),
		Confirmed:                  p.Confirmed,
	}
}

func (r *paymentRecord) toDomain() *domain.Payment {
	p := &domain.Payment{
		ID:              r.ID,
		CashDesk:        r.CashDesk.toDomain(),
		Employee:        r.Employee.toDomain(),
		PaymentDateTime: r.PaymentDateTime,
		PaymentType:     domain.PaymentType(r.PaymentType),
		Confirmed:       r.Confirmed,
	}
	if len(r.Items) > 0 {
		p.Items = make([]domain.PaymentItem, 0, len(r.Items))
		for i := range r.Items {
			p.Items = append(p.Items, r.Items[i].toDomain())
		}
	}
	return p
}

func (r *paymentRecord) toProjection() *projection.Projection[*domain.Payment] {
	return projection.New(r.toDomain(), projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
}

func toPaymentItemRecord(item *domain.PaymentItem) paymentItemRecord {
	return paymentItemRecord{
		PaymentID:   item.PaymentID,
		ArticleName: item.ArticleName,
		Amount:      item.Amount,
		Price:       item.Price,
	}
}

func (r paymentItemRecord) toDomain() domain.PaymentItem {
	return domain.PaymentItem{
		ID:          r.ID,
		PaymentID:   r.PaymentID,
		ArticleName: r.ArticleName,
		Amount:      r.Amount,
		Price:       r.Price,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
