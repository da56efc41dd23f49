package sunat

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SplitTax descompone un total con IGV incluido en base imponible e impuesto.
// Base = total / (1 + tasa) redondeada a 2 decimales; el impuesto es el resto, así
// base + impuesto coincide siempre con el total registrado.
func SplitTax(total, rate decimal.Decimal) (base, tax decimal.Decimal) {
	if total.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	base = total.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tax = total.Sub(base)
	return base, tax
}

// RatePercent convierte 0.18 en 18.
func RatePercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(hundred)
}
