package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus estado de la sesión de caja.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashRegisterSession ciclo de apertura/cierre de caja de un usuario.
// Como máximo una sesión OPEN por usuario.
type CashRegisterSession struct {
	ID            string
	UserID        int64
	OpenedAt      time.Time
	ClosedAt      *time.Time
	OpeningAmount decimal.Decimal
	CountedAmount *decimal.Decimal
	Status        SessionStatus
	Totals        PaymentTotals
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen true mientras la sesión no se ha cerrado.
func (s *CashRegisterSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// ExpectedCash monto inicial más las ventas en efectivo.
func (s *CashRegisterSession) ExpectedCash() decimal.Decimal {
	return s.OpeningAmount.Add(s.Totals.Cash)
}

// Difference monto contado menos efectivo esperado; cero si aún no se ha contado.
func (s *CashRegisterSession) Difference() decimal.Decimal {
	if s.CountedAmount == nil {
		return decimal.Zero
	}
	return s.CountedAmount.Sub(s.ExpectedCash())
}

// SessionFilter filtros del historial de cierres (sobre la fecha de apertura).
type SessionFilter struct {
	From   *time.Time
	To     *time.Time
	UserID *int64
	Limit  int
}

// AggregationWindow rango [Start, End] inclusivo con filtro opcional de usuario.
type AggregationWindow struct {
	Start  time.Time
	End    time.Time
	UserID *int64
}

// Contains true si t cae dentro de la ventana (ambos extremos incluidos).
func (w AggregationWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PaymentTotals totales de ventas por método de pago.
type PaymentTotals struct {
	Cash     decimal.Decimal
	Card     decimal.Decimal
	WalletA  decimal.Decimal
	WalletB  decimal.Decimal
	Transfer decimal.Decimal
	Other    decimal.Decimal
	Overall  decimal.Decimal
	Count    int
}

// Add suma una venta al bucket correspondiente, al total y al conteo.
func (t *PaymentTotals) Add(method PaymentMethod, amount decimal.Decimal) {
	switch method {
	case PaymentCash:
		t.Cash = t.Cash.Add(amount)
	case PaymentCard:
		t.Card = t.Card.Add(amount)
	case PaymentWalletA:
		t.WalletA = t.WalletA.Add(amount)
	case PaymentWalletB:
		t.WalletB = t.WalletB.Add(amount)
	case PaymentTransfer:
		t.Transfer = t.Transfer.Add(amount)
	default:
		t.Other = t.Other.Add(amount)
	}
	t.Overall = t.Overall.Add(amount)
	t.Count++
}

// ByMethod devuelve el monto de un bucket.
func (t PaymentTotals) ByMethod(method PaymentMethod) decimal.Decimal {
	switch method {
	case PaymentCash:
		return t.Cash
	case PaymentCard:
		return t.Card
	case PaymentWalletA:
		return t.WalletA
	case PaymentWalletB:
		return t.WalletB
	case PaymentTransfer:
		return t.Transfer
	default:
		return t.Other
	}
}
