package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PaymentMethod método de pago normalizado (enumeración cerrada).
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentWalletA  PaymentMethod = "WALLET_A" // Yape
	PaymentWalletB  PaymentMethod = "WALLET_B" // Plin
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

// PaymentMethods lista en el orden en que se reportan los totales.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCard, PaymentWalletA, PaymentWalletB, PaymentTransfer, PaymentOther,
}

var paymentSynonyms = map[string]PaymentMethod{
	"efectivo":               PaymentCash,
	"cash":                   PaymentCash,
	"contado":                PaymentCash,
	"tarjeta":                PaymentCard,
	"tarjeta de credito":     PaymentCard,
	"tarjeta de debito":      PaymentCard,
	"tarjeta credito":        PaymentCard,
	"tarjeta debito":         PaymentCard,
	"debito":                 PaymentCard,
	"visa":                   PaymentCard,
	"mastercard":             PaymentCard,
	"card":                   PaymentCard,
	"yape":                   PaymentWalletA,
	"plin":                   PaymentWalletB,
	"transferencia":          PaymentTransfer,
	"transferencia bancaria": PaymentTransfer,
	"transfer":               PaymentTransfer,
	"deposito":               PaymentTransfer,
}

// NormalizePaymentMethod convierte la etiqueta libre de la venta en un PaymentMethod.
// Ignora mayúsculas, tildes y espacios repetidos; lo desconocido es PaymentOther.
func NormalizePaymentMethod(label string) PaymentMethod {
	key := foldLabel(label)
	if key == "" {
		return PaymentOther
	}
	if m, ok := paymentSynonyms[key]; ok {
		return m
	}
	return PaymentOther
}

// ParsePaymentMethod acepta el valor canónico (CASH, CARD...) o una etiqueta libre.
func ParsePaymentMethod(s string) PaymentMethod {
	up := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range PaymentMethods {
		if m == up {
			return m
		}
	}
	return NormalizePaymentMethod(s)
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
