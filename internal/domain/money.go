package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String formats the amount with the standard number of decimals for the currency.
func (m Money) String() string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return fmt.Sprintf("%s %s", m.Currency.String(), m.Amount.StringFixed(int32(scale)))
}
