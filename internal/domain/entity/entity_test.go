package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"Efectivo":                PaymentCash,
		"  EFECTIVO ":             PaymentCash,
		"Tarjeta de Crédito":      PaymentCard,
		"visa":                    PaymentCard,
		"Yape":                    PaymentWalletA,
		"PLIN":                    PaymentWalletB,
		"Transferencia  Bancaria": PaymentTransfer,
		"cheque":                  PaymentOther,
		"Crédito":                 PaymentOther,
		"POS":                     PaymentOther,
		"":                        PaymentOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePaymentMethod(in), in)
	}
}

func TestParsePaymentMethod_Canonico(t *testing.T) {
	assert.Equal(t, PaymentWalletB, ParsePaymentMethod("wallet_b"))
	assert.Equal(t, PaymentCash, ParsePaymentMethod("efectivo"))
}

func TestPaymentTotals_Add(t *testing.T) {
	var totals PaymentTotals
	totals.Add(PaymentCash, decimal.NewFromInt(100))
	totals.Add(PaymentWalletA, decimal.NewFromInt(50))
	totals.Add(PaymentCash, decimal.RequireFromString("20.50"))
	totals.Add(PaymentOther, decimal.NewFromInt(5))

	assert.True(t, totals.Cash.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, totals.ByMethod(PaymentWalletA).Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.Other.Equal(decimal.NewFromInt(5)))
	assert.True(t, totals.Overall.Equal(decimal.RequireFromString("175.50")))
	assert.Equal(t, 4, totals.Count)

	sum := decimal.Zero
	for _, m := range PaymentMethods {
		sum = sum.Add(totals.ByMethod(m))
	}
	assert.True(t, sum.Equal(totals.Overall))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusSigned))
	assert.True(t, CanTransition(StatusSigned, StatusSubmitted))
	assert.True(t, CanTransition(StatusSubmitted, StatusAccepted))
	assert.True(t, CanTransition(StatusSubmitted, StatusRejected))
	assert.True(t, CanTransition(StatusRejected, StatusSubmitted))

	assert.False(t, CanTransition(StatusDraft, StatusSubmitted))
	assert.False(t, CanTransition(StatusAccepted, StatusSubmitted))
	assert.False(t, CanTransition(StatusAccepted, StatusRejected))
	assert.False(t, CanTransition(StatusSigned, StatusDraft))
}

func TestComprobante_CanResubmit(t *testing.T) {
	c := &Comprobante{Status: StatusRejected, RetryCount: MaxResubmitAttempts - 1}
	assert.True(t, c.CanResubmit())
	c.RetryCount = MaxResubmitAttempts
	assert.False(t, c.CanResubmit())
	c = &Comprobante{Status: StatusAccepted}
	assert.False(t, c.CanResubmit())
}

func TestParseDocumentType(t *testing.T) {
	d, err := ParseDocumentType("factura")
	require.NoError(t, err)
	assert.Equal(t, DocInvoice, d)
	d, err = ParseDocumentType("03")
	require.NoError(t, err)
	assert.Equal(t, DocReceipt, d)
	_, err = ParseDocumentType("nota de crédito")
	assert.Error(t, err)

	assert.True(t, DocInvoice.Valid())
	assert.True(t, DocReceipt.Valid())
	assert.False(t, DocumentType("NOTA").Valid())
	assert.False(t, DocumentType("").Valid())
}

func TestCashRegisterSession_Difference(t *testing.T) {
	counted := decimal.RequireFromString("245.00")
	s := &CashRegisterSession{
		OpeningAmount: decimal.NewFromInt(100),
		Totals:        PaymentTotals{Cash: decimal.NewFromInt(150)},
		CountedAmount: &counted,
	}
	assert.True(t, s.ExpectedCash().Equal(decimal.NewFromInt(250)))
	assert.True(t, s.Difference().Equal(decimal.NewFromInt(-5)))
}

func TestAggregationWindow_ExtremosIncluidos(t *testing.T) {
	start := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	w := AggregationWindow{Start: start, End: end}
	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end))
	assert.False(t, w.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(end.Add(time.Nanosecond)))
}
