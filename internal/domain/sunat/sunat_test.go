package sunat_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

// Venta de 118.00 con IGV 18%: base 100.00, impuesto 18.00.
func TestSplitTax_Venta118(t *testing.T) {
	base, tax := sunat.SplitTax(decimal.RequireFromString("118.00"), pkgsunat.IGVRate)

	assert.True(t, base.Equal(decimal.RequireFromString("100.00")), "base: %s", base)
	assert.True(t, tax.Equal(decimal.RequireFromString("18.00")), "igv: %s", tax)
}

// La base redondeada más el impuesto siempre reconstruye el total registrado.
func TestSplitTax_SumaCoincideConTotal(t *testing.T) {
	for _, raw := range []string{"0.01", "10.00", "33.33", "99.99", "1234.57"} {
		total := decimal.RequireFromString(raw)
		base, tax := sunat.SplitTax(total, pkgsunat.IGVRate)
		assert.True(t, base.Add(tax).Equal(total), "total %s: base %s + igv %s", raw, base, tax)
	}
}

func TestSplitTax_TotalCero(t *testing.T) {
	base, tax := sunat.SplitTax(decimal.Zero, pkgsunat.IGVRate)
	assert.True(t, base.IsZero())
	assert.True(t, tax.IsZero())
}

func TestContentHash_Determinista(t *testing.T) {
	b := []byte("<Invoice><cbc:ID>F001-00000042</cbc:ID></Invoice>")

	h1 := sunat.ContentHash(b)
	h2 := sunat.ContentHash(b)

	assert.Equal(t, h1, h2, "el mismo contenido debe producir el mismo hash")
	assert.Len(t, h1, 64, "SHA-256 en hex tiene 64 caracteres")
}

func TestContentHash_CambioDeUnByte(t *testing.T) {
	a := []byte("<Invoice><cbc:ID>F001-00000042</cbc:ID></Invoice>")
	b := []byte("<Invoice><cbc:ID>F001-00000043</cbc:ID></Invoice>")

	assert.NotEqual(t, sunat.ContentHash(a), sunat.ContentHash(b))
}

func TestContentHash_LongitudFija(t *testing.T) {
	assert.Len(t, sunat.ContentHash(nil), 64)
	assert.Len(t, sunat.ContentHash(make([]byte, 1<<16)), 64)
}

func validDocument() *sunat.Document {
	base, tax := sunat.SplitTax(decimal.RequireFromString("118.00"), pkgsunat.IGVRate)
	return &sunat.Document{
		ID:       "F001-00000042",
		SaleID:   42,
		TypeCode: pkgsunat.DocTypeFactura,
		Supplier: sunat.Party{ID: "20000000001", SchemeID: pkgsunat.IdentityTypeRUC, Name: "BAZAR ABEM S.A.C."},
		Tax:      sunat.TaxTotal{TaxableAmount: base, TaxAmount: tax},
		Totals: sunat.MonetaryTotal{
			LineExtensionAmount: base,
			TaxInclusiveAmount:  decimal.RequireFromString("118.00"),
			PayableAmount:       decimal.RequireFromString("118.00"),
		},
	}
}

func TestValidate_DocumentoSinLineasEsValido(t *testing.T) {
	assert.NoError(t, sunat.Validate(validDocument()))
}

func TestValidate_TotalesInconsistentes(t *testing.T) {
	doc := validDocument()
	doc.Tax.TaxAmount = decimal.RequireFromString("17.00")

	err := sunat.Validate(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, sunat.ErrInvalidDocument)
}

func TestValidate_RUCEmisorInvalido(t *testing.T) {
	doc := validDocument()
	doc.Supplier.ID = "20000000009"

	assert.ErrorIs(t, sunat.Validate(doc), sunat.ErrInvalidDocument)
}

func TestValidate_LineaConCantidadCero(t *testing.T) {
	doc := validDocument()
	doc.Lines = []sunat.Line{{ID: 1, Quantity: 0, Description: "Taza"}}

	assert.ErrorIs(t, sunat.Validate(doc), sunat.ErrInvalidDocument)
}
