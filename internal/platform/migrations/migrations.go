package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the payments schema. Tables are listed parents first so foreign keys resolve.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cashDeskRecord{},
		&employeeRecord{},
		&paymentRecord{},
		&paymentItemRecord{},
		&idempotencyRecord{},
	)
}

// Cash desk schema mirrors the payments Postgres adapter.
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

// Employee schema keeps managers and cashiers in one table keyed by the type discriminator.
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
	ID                         int64           `gorm:"primaryKey;column:id"`
	CashDeskNumber             int             `gorm:"column:cash_desk_number;not null;index"`
	EmployeeRegistrationNumber int             `gorm:"column:employee_registration_number;not null;index"`
	PaymentDateTime            time.Time       `gorm:"column:payment_date_time;not null;index"`
	PaymentType                string          `gorm:"column:payment_type;size:16;not null"`
	Confirmed                  *time.Time      `gorm:"column:confirmed"`
	CreatedAt                  time.Time       `gorm:"column:created_at"`
	UpdatedAt                  time.Time       `gorm:"column:updated_at"`
	CashDesk                   *cashDeskRecord `gorm:"foreignKey:CashDeskNumber;references:Number;constraint:OnDelete:RESTRICT"`
	Employee                   *employeeRecord `gorm:"foreignKey:EmployeeRegistrationNumber;references:RegistrationNumber;constraint:OnDelete:RESTRICT"`
}

func (paymentRecord) TableName() string { return "payments" }

type paymentItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	PaymentID   int64           `gorm:"column:payment_id;not null;index"`
	ArticleName string          `gorm:"column:article_name;size:255;not null"`
	Amount      int             `gorm:"column:amount;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Payment     *paymentRecord  `gorm:"foreignKey:PaymentID;constraint:OnDelete:RESTRICT"`
}

func (paymentItemRecord) TableName() string { return "payment_items" }

// Idempotency schema mirrors the Postgres idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	PaymentID   int64     `gorm:"column:payment_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index"`
}

func (idempotencyRecord) TableName() string { return "payment_idempotency_keys" }
