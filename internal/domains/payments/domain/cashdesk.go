package domain

import "errors"

// ErrInvalidCashDeskNumber is returned for non-positive cash desk numbers.
var ErrInvalidCashDeskNumber = errors.New("cash desk number must be greater than zero")

// CashDesk is a point-of-sale register identified by its number.
type CashDesk struct {
	Number int
}

// NewCashDesk validates and constructs a cash desk.
func NewCashDesk(number int) (*CashDesk, error) {
	if number <= 0 {
		return nil, ErrInvalidCashDeskNumber
	}
	return &CashDesk{Number: number}, nil
}
