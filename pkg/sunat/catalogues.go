// Package sunat contiene los catálogos SUNAT (Perú) usados en comprobantes
// electrónicos UBL 2.1 y utilidades sin dependencias de infraestructura.
package sunat

import "github.com/shopspring/decimal"

// Catálogo 01 - Tipo de documento.
const (
	DocTypeFactura = "01"
	DocTypeBoleta  = "03"
)

// Series por tipo de comprobante.
const (
	SeriesFactura = "F001"
	SeriesBoleta  = "B001"
)

// Catálogo 06 - Tipo de documento de identidad.
const (
	IdentityTypeNoDomiciliado = "0"
	IdentityTypeDNI           = "1"
	IdentityTypeRUC           = "6"
)

// Identificadores de cliente genérico cuando la venta no tiene cliente estructurado.
const (
	GenericCustomerDNI = "00000000"
	GenericCustomerRUC = "20000000002"
)

// Catálogo 59 - Medios de pago.
const (
	PaymentMeansEfectivo      = "01"
	PaymentMeansTarjeta       = "02"
	PaymentMeansBilletera     = "03"
	PaymentMeansTransferencia = "04"
	PaymentMeansOtros         = "99"
)

// Catálogo 05 - Tributos.
const (
	TaxSchemeIGV   = "1000"
	TaxNameIGV     = "IGV"
	TaxTypeCodeVAT = "VAT"
)

// Moneda y unidad de medida.
const (
	CurrencyPEN = "PEN"
	UnitNIU     = "NIU" // unidad (bienes)
)

// Versión UBL y personalización SUNAT.
const (
	UBLVersion      = "2.1"
	CustomizationID = "2.0"
)

// IGVRate tasa del IGV (18%).
var IGVRate = decimal.NewFromFloat(0.18)

// Códigos de respuesta del CDR.
const (
	ResponseCodeAccepted = "0"
)
