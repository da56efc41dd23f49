package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta registrada en caja (solo lectura para facturación y cierre).
type Sale struct {
	ID           int64
	ClientName   string
	Total        decimal.Decimal
	PaymentLabel string // texto libre tal como se guardó ("Efectivo", "yape", "Tarjeta de crédito"...)
	SoldAt       time.Time
	UserID       int64
	Lines        []SaleLine
}

// Method devuelve el método de pago normalizado de la venta.
func (s *Sale) Method() PaymentMethod {
	return NormalizePaymentMethod(s.PaymentLabel)
}

// SaleLine línea de detalle de la venta.
type SaleLine struct {
	ProductID   int64 // 0 si el producto ya no existe en catálogo
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal cantidad por precio unitario.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
