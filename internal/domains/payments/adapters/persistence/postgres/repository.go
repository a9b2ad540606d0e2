package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

var (
	_ ports.Repository         = (*Repository)(nil)
	_ ports.CashDeskRepository = (*Repository)(nil)
	_ ports.EmployeeRepository = (*Repository)(nil)
)

// Repository persists cash desks, employees and payments in PostgreSQL using GORM.
// The schema is created by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn inside a database transaction.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &unitOfWork{tx: tx})
	})
}

// GetPayment loads a payment with its cash desk, employee and items.
func (r *Repository) GetPayment(ctx context.Context, id int64) (*projection.Projection[*domain.Payment], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	if err := withRelations(r.db.WithContext(ctx)).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// ListPayments returns payments ordered by id.
func (r *Repository) ListPayments(ctx context.Context, filter ports.PaymentFilter) ([]*projection.Projection[*domain.Payment], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := withRelations(r.db.WithContext(ctx))
	if len(filter.CashDeskNumbers) > 0 {
		numbers := make([]int64, 0, len(filter.CashDeskNumbers))
		for _, n := range filter.CashDeskNumbers {
			numbers = append(numbers, int64(n))
		}
		query = query.Where("cash_desk_number = ANY(?)", pq.Array(numbers))
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date_time >= ?", *filter.DateFrom)
	}
	var records []paymentRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*projection.Projection[*domain.Payment], 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result, nil
}

func (r *Repository) SaveCashDesk(ctx context.Context, desk *domain.CashDesk) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if desk == nil {
		return errors.New("cash desk is nil")
	}
	record := toCashDeskRecord(desk)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *Repository) GetCashDesk(ctx context.Context, number int) (*domain.CashDesk, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cashDeskRecord
	if err := r.db.WithContext(ctx).First(&record, "number = ?", number).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) ListCashDesks(ctx context.Context) ([]*domain.CashDesk, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []cashDeskRecord
	if err := r.db.WithContext(ctx).Order("number").Find(&records).Error; err != nil {
		return nil, err
	}
	desks := make([]*domain.CashDesk, 0, len(records))
	for i := range records {
		desks = append(desks, records[i].toDomain())
	}
	return desks, nil
}

func (r *Repository) DeleteCashDesk(ctx context.Context, number int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&cashDeskRecord{}, "number = ?", number)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SaveEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if employee == nil {
		return errors.New("employee is nil")
	}
	record := toEmployeeRecord(employee)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, registrationNumber int) (*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record employeeRecord
	if err := r.db.WithContext(ctx).First(&record, "registration_number = ?", registrationNumber).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) ListEmployees(ctx context.Context, role *domain.Role) ([]*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("registration_number")
	if role != nil {
		query = query.Where("type = ?", string(*role))
	}
	var records []employeeRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	employees := make([]*domain.Employee, 0, len(records))
	for i := range records {
		employees = append(employees, records[i].toDomain())
	}
	return employees, nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, registrationNumber int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&employeeRecord{}, "registration_number = ?", registrationNumber)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CashDesk").
		Preload("Employee").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") })
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "SQLSTATE 23505"):
		return ports.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "SQLSTATE 23503"):
		return ports.ErrReferenced
	}
	return err
}

// unitOfWork executes payment mutations on a single transaction.
type unitOfWork struct {
	tx *gorm.DB
}

func (u *unitOfWork) FindCashDeskByNumber(_ context.Context, number int) (*domain.CashDesk, error) {
	var record cashDeskRecord
	if err := u.tx.First(&record, "number = ?", number).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (u *unitOfWork) FindEmployeeByRegistrationNumber(_ context.Context, registrationNumber int) (*domain.Employee, error) {
	var record employeeRecord
	if err := u.tx.First(&record, "registration_number = ?", registrationNumber).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

// FindPaymentByID locks the payment row with SELECT ... FOR UPDATE before loading relations.
func (u *unitOfWork) FindPaymentByID(_ context.Context, id int64, withItems bool) (*domain.Payment, error) {
	var locked paymentRecord
	if err := u.tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	query := u.tx.Preload("CashDesk").Preload("Employee")
	if withItems {
		query = query.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") })
	}
	var record paymentRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (u *unitOfWork) InsertPayment(_ context.Context, payment *domain.Payment) (int64, error) {
	if payment == nil || payment.CashDesk == nil || payment.Employee == nil {
		return 0, errors.New("payment references are not resolved")
	}
	record := toPaymentRecord(payment)
	record.ID = 0
	if err := u.tx.Omit(clause.Associations).Create(&record).Error; err != nil {
		return 0, translate(err)
	}
	return record.ID, nil
}

func (u *unitOfWork) UpdatePayment(_ context.Context, payment *domain.Payment) error {
	if payment == nil || payment.CashDesk == nil || payment.Employee == nil {
		return errors.New("payment references are not resolved")
	}
	record := toPaymentRecord(payment)
	result := u.tx.Model(&paymentRecord{}).Where("id = ?", payment.ID).Updates(map[string]any{
		"cash_desk_number":             record.CashDeskNumber,
		"employee_registration_number": record.EmployeeRegistrationNumber,
		"payment_date_time":            record.PaymentDateTime,
		"payment_type":                 record.PaymentType,
		"confirmed":                    record.Confirmed,
		"updated_at":                   gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (u *unitOfWork) InsertPaymentItem(_ context.Context, item *domain.PaymentItem) (int64, error) {
	if item == nil {
		return 0, errors.New("payment item is nil")
	}
	record := toPaymentItemRecord(item)
	if err := u.tx.Create(&record).Error; err != nil {
		if errors.Is(translate(err), ports.ErrReferenced) {
			return 0, ports.ErrNotFound
		}
		return 0, err
	}
	return record.ID, nil
}

func (u *unitOfWork) RemovePayment(_ context.Context, payment *domain.Payment) error {
	result := u.tx.Delete(&paymentRecord{}, "id = ?", payment.ID)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (u *unitOfWork) RemovePaymentItems(_ context.Context, items []domain.PaymentItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return u.tx.Where("id IN ?", ids).Delete(&paymentItemRecord{}).Error
}
