package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// OpenCashRegisterRequest body para POST /api/cierre-caja/abrir.
type OpenCashRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"monto_inicial" validate:"gte=0"`
	Notes         string          `json:"observaciones" validate:"max=500"`
}

// CloseCashRegisterRequest body para POST /api/cierre-caja/cerrar.
type CloseCashRegisterRequest struct {
	CountedAmount decimal.Decimal `json:"monto_final" validate:"gte=0"`
	Notes         string          `json:"observaciones" validate:"max=500"`
}

// PaymentTotalsDTO totales por método de pago.
type PaymentTotalsDTO struct {
	Cash     decimal.Decimal `json:"total_efectivo"`
	Card     decimal.Decimal `json:"total_tarjeta"`
	Yape     decimal.Decimal `json:"total_yape"`
	Plin     decimal.Decimal `json:"total_plin"`
	Transfer decimal.Decimal `json:"total_transferencia"`
	Other    decimal.Decimal `json:"total_otros"`
	Overall  decimal.Decimal `json:"total_general"`
	Count    int             `json:"cantidad_ventas"`
}

// FromPaymentTotals mapea los totales.
func FromPaymentTotals(t entity.PaymentTotals) PaymentTotalsDTO {
	return PaymentTotalsDTO{
		Cash:     t.Cash,
		Card:     t.Card,
		Yape:     t.WalletA,
		Plin:     t.WalletB,
		Transfer: t.Transfer,
		Other:    t.Other,
		Overall:  t.Overall,
		Count:    t.Count,
	}
}

// CashRegisterSessionResponse sesión de caja en respuestas.
type CashRegisterSessionResponse struct {
	ID            string           `json:"id"`
	UserID        int64            `json:"usuario_id"`
	Status        string           `json:"estado"`
	OpenedAt      time.Time        `json:"fecha_apertura"`
	ClosedAt      *time.Time       `json:"fecha_cierre,omitempty"`
	OpeningAmount decimal.Decimal  `json:"monto_inicial"`
	CountedAmount *decimal.Decimal `json:"monto_final,omitempty"`
	ExpectedCash  decimal.Decimal  `json:"efectivo_esperado"`
	Difference    decimal.Decimal  `json:"diferencia"`
	Totals        PaymentTotalsDTO `json:"totales"`
	Notes         string           `json:"observaciones,omitempty"`
}

// FromCashRegisterSession mapea la sesión; nil si no hay sesión.
func FromCashRegisterSession(s *entity.CashRegisterSession) *CashRegisterSessionResponse {
	if s == nil {
		return nil
	}
	return &CashRegisterSessionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		Status:        string(s.Status),
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
		OpeningAmount: s.OpeningAmount,
		CountedAmount: s.CountedAmount,
		ExpectedCash:  s.ExpectedCash(),
		Difference:    s.Difference(),
		Totals:        FromPaymentTotals(s.Totals),
		Notes:         s.Notes,
	}
}

// CashRegisterStatusResponse respuesta de GET /api/cierre-caja/estado.
type CashRegisterStatusResponse struct {
	Open    bool                         `json:"abierta"`
	Session *CashRegisterSessionResponse `json:"cierre"`
}

// DateRangeDTO rango de agregación.
type DateRangeDTO struct {
	From time.Time `json:"desde"`
	To   time.Time `json:"hasta"`
}

// CashRegisterPreviewResponse respuesta de GET /api/cierre-caja/preview.
type CashRegisterPreviewResponse struct {
	Range              DateRangeDTO                 `json:"rango"`
	Session            *CashRegisterSessionResponse `json:"cierre_abierto"`
	Totals             PaymentTotalsDTO             `json:"totales"`
	EstimatedFinalCash decimal.Decimal              `json:"estimado_monto_final"`
}
