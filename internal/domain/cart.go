package domain

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID          int64
	Title       string
	Price       decimal.NullDecimal
	Description *string
}

// MutationResult reports the outcome of a single write statement.
type MutationResult struct {
	LastInsertID int64
	RowsAffected int64
}

func NewPrice(amount decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: amount, Valid: true}
}
