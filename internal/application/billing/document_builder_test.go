package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/memory"
)

var testSupplier = billing.SupplierInfo{
	RUC:       "20000000001",
	LegalName: "BAZAR ABEM S.A.C.",
	Address:   "Av. Principal 123, Lima, Perú",
}

func TestBuild_Factura(t *testing.T) {
	store := memory.New()
	store.AddSale(testSale())
	b := billing.NewDocumentBuilder(store.Sales(), testSupplier)

	doc, err := b.Build(context.Background(), 42, entity.DocInvoice)
	require.NoError(t, err)

	assert.Equal(t, "F001-00000042", doc.ID)
	assert.Equal(t, "01", doc.TypeCode)
	assert.Equal(t, "2024-03-05", doc.IssueDate)
	assert.Equal(t, "10:30:00", doc.IssueTime)
	assert.Equal(t, "PEN", doc.CurrencyCode)
	assert.Equal(t, "20000000001", doc.Supplier.ID)
	assert.Equal(t, "6", doc.Supplier.SchemeID)
	assert.Equal(t, "BAZAR ABEM S.A.C.", doc.Supplier.Name)

	assert.Equal(t, "20000000002", doc.Customer.ID)
	assert.Equal(t, "6", doc.Customer.SchemeID)
	assert.Equal(t, "Ana Torres", doc.Customer.Name)
	assert.Equal(t, "01", doc.PaymentMeans)

	assert.True(t, doc.Tax.TaxableAmount.Equal(decimal.RequireFromString("100.00")), doc.Tax.TaxableAmount.String())
	assert.True(t, doc.Tax.TaxAmount.Equal(decimal.RequireFromString("18.00")), doc.Tax.TaxAmount.String())
	assert.True(t, doc.Tax.Percent.Equal(decimal.NewFromInt(18)))
	assert.True(t, doc.Totals.PayableAmount.Equal(decimal.RequireFromString("118.00")))
	assert.True(t, doc.Totals.LineExtensionAmount.Add(doc.Tax.TaxAmount).Equal(doc.Totals.TaxInclusiveAmount))

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].ID)
	assert.Equal(t, 2, doc.Lines[1].ID)
	assert.True(t, doc.Lines[0].LineExtensionAmount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "Taza", doc.Lines[0].Description)

	assert.NoError(t, sunat.Validate(doc))
}

func TestBuild_BoletaClienteGenerico(t *testing.T) {
	store := memory.New()
	sale := testSale()
	sale.ClientName = "  "
	sale.Lines = nil
	store.AddSale(sale)
	b := billing.NewDocumentBuilder(store.Sales(), testSupplier)

	doc, err := b.Build(context.Background(), 42, entity.DocReceipt)
	require.NoError(t, err)
	assert.Equal(t, "03", doc.TypeCode)
	assert.Equal(t, "B001-00000042", doc.ID)
	assert.Equal(t, "00000000", doc.Customer.ID)
	assert.Equal(t, "1", doc.Customer.SchemeID)
	assert.Equal(t, "CLIENTES VARIOS", doc.Customer.Name)
	assert.Empty(t, doc.Lines)
	assert.NoError(t, sunat.Validate(doc))
}

func TestBuild_VentaInexistente(t *testing.T) {
	b := billing.NewDocumentBuilder(memory.New().Sales(), testSupplier)
	_, err := b.Build(context.Background(), 7, entity.DocInvoice)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_TotalCero(t *testing.T) {
	store := memory.New()
	store.AddSale(entity.Sale{ID: 5, Total: decimal.Zero, PaymentLabel: "Efectivo", SoldAt: time.Now()})
	b := billing.NewDocumentBuilder(store.Sales(), testSupplier)

	doc, err := b.Build(context.Background(), 5, entity.DocReceipt)
	require.NoError(t, err)
	assert.True(t, doc.Tax.TaxAmount.IsZero())
	assert.True(t, doc.Tax.TaxableAmount.IsZero())
}

func TestPaymentMeansCode(t *testing.T) {
	cases := map[string]string{
		"Efectivo":           "01",
		"Tarjeta de Crédito": "02",
		"YAPE":               "03",
		"Transferencia":      "04",
		"Plin":               "99",
		"vale de consumo":    "99",
		"":                   "99",
	}
	for label, want := range cases {
		got := billing.PaymentMeansCode(entity.NormalizePaymentMethod(label))
		assert.Equal(t, want, got, label)
	}
}
