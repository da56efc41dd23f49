package sunat

import (
	"errors"
	"fmt"

	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

// ErrInvalidDocument agrupa errores de validación del documento.
var ErrInvalidDocument = errors.New("comprobante inválido para SUNAT")

// Validate revisa los campos obligatorios y la consistencia de montos antes de serializar.
// Una lista de líneas vacía es válida.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: documento nulo", ErrInvalidDocument)
	}
	var errs []error
	if doc.ID == "" {
		errs = append(errs, errors.New("serie-correlativo vacío"))
	}
	if doc.TypeCode != pkgsunat.DocTypeFactura && doc.TypeCode != pkgsunat.DocTypeBoleta {
		errs = append(errs, fmt.Errorf("tipo de documento %q no soportado", doc.TypeCode))
	}
	if err := pkgsunat.ValidateRUC(doc.Supplier.ID); err != nil {
		errs = append(errs, err)
	}
	if doc.Totals.PayableAmount.IsNegative() {
		errs = append(errs, errors.New("total a pagar negativo"))
	}
	if !doc.Tax.TaxableAmount.Add(doc.Tax.TaxAmount).Equal(doc.Totals.TaxInclusiveAmount) {
		errs = append(errs, fmt.Errorf("base %s + IGV %s no coincide con el total %s",
			doc.Tax.TaxableAmount.StringFixed(2), doc.Tax.TaxAmount.StringFixed(2),
			doc.Totals.TaxInclusiveAmount.StringFixed(2)))
	}
	for _, l := range doc.Lines {
		if l.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("línea %d: cantidad debe ser mayor que cero", l.ID))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
}
