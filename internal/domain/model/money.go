package model

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every stored amount.
const MoneyPlaces = 2

// WholeCents reports whether d is representable without rounding to cents.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyPlaces))
}
