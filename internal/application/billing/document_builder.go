package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

const genericCustomerName = "CLIENTES VARIOS"

// SupplierInfo identidad fija del emisor.
type SupplierInfo struct {
	RUC       string
	LegalName string
	Address   string
}

// DocumentBuilder convierte una venta en el documento estructurado del comprobante.
type DocumentBuilder struct {
	sales    repository.SaleRepository
	supplier SupplierInfo
}

// NewDocumentBuilder construye el builder.
func NewDocumentBuilder(sales repository.SaleRepository, supplier SupplierInfo) *DocumentBuilder {
	return &DocumentBuilder{sales: sales, supplier: supplier}
}

// Supplier devuelve los datos del emisor configurado.
func (b *DocumentBuilder) Supplier() SupplierInfo {
	return b.supplier
}

// Build lee la venta y arma el documento. domain.ErrNotFound si la venta no existe.
// Los totales salen del total registrado en la venta, no de la suma de líneas.
func (b *DocumentBuilder) Build(ctx context.Context, saleID int64, docType entity.DocumentType) (*sunat.Document, error) {
	sale, err := b.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("builder: obtener venta %d: %w", saleID, err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return b.FromSale(sale, docType), nil
}

// FromSale transforma una venta ya cargada.
func (b *DocumentBuilder) FromSale(sale *entity.Sale, docType entity.DocumentType) *sunat.Document {
	issueDate, issueTime := sunat.SplitIssueTime(sale.SoldAt)
	base, tax := sunat.SplitTax(sale.Total, pkgsunat.IGVRate)

	doc := &sunat.Document{
		ID:           entity.FormatDocumentNumber(docType.Series(), sale.ID),
		SaleID:       sale.ID,
		TypeCode:     docType.Code(),
		IssueDate:    issueDate,
		IssueTime:    issueTime,
		CurrencyCode: pkgsunat.CurrencyPEN,
		Supplier: sunat.Party{
			ID:       b.supplier.RUC,
			SchemeID: pkgsunat.IdentityTypeRUC,
			Name:     b.supplier.LegalName,
			Address:  b.supplier.Address,
		},
		Customer:     customerParty(sale, docType),
		PaymentMeans: PaymentMeansCode(sale.Method()),
		Tax: sunat.TaxTotal{
			TaxableAmount: base,
			TaxAmount:     tax,
			Percent:       sunat.RatePercent(pkgsunat.IGVRate),
		},
		Totals: sunat.MonetaryTotal{
			LineExtensionAmount: base,
			TaxInclusiveAmount:  sale.Total,
			PayableAmount:       sale.Total,
		},
		Lines: make([]sunat.Line, 0, len(sale.Lines)),
	}
	for i, l := range sale.Lines {
		doc.Lines = append(doc.Lines, sunat.Line{
			ID:                  i + 1,
			Quantity:            l.Quantity,
			LineExtensionAmount: l.Subtotal(),
			Description:         l.ProductName,
			UnitPrice:           l.UnitPrice,
		})
	}
	return doc
}

func customerParty(sale *entity.Sale, docType entity.DocumentType) sunat.Party {
	name := strings.TrimSpace(sale.ClientName)
	if name == "" {
		name = genericCustomerName
	}
	if docType == entity.DocReceipt {
		return sunat.Party{ID: pkgsunat.GenericCustomerDNI, SchemeID: pkgsunat.IdentityTypeDNI, Name: name}
	}
	return sunat.Party{ID: pkgsunat.GenericCustomerRUC, SchemeID: pkgsunat.IdentityTypeRUC, Name: name}
}

// PaymentMeansCode catálogo 59 para el método de pago; lo no mapeado va a "otros".
func PaymentMeansCode(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentCash:
		return pkgsunat.PaymentMeansEfectivo
	case entity.PaymentCard:
		return pkgsunat.PaymentMeansTarjeta
	case entity.PaymentWalletA:
		return pkgsunat.PaymentMeansBilletera
	case entity.PaymentTransfer:
		return pkgsunat.PaymentMeansTransferencia
	default:
		return pkgsunat.PaymentMeansOtros
	}
}
