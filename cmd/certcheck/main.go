// certcheck diagnostica el certificado de firma SUNAT: lo carga, muestra vigencia y firma
// un comprobante de prueba.
//
// Uso: go run ./cmd/certcheck -cert certificado.p12 -password 123456
// Sin flags usa SUNAT_CERT_PATH, SUNAT_CERT_KEY_PATH y SUNAT_CERT_PASSWORD.
package main

import (
	"crypto/x509"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	infrasunat "github.com/jhoicas/Bazar-api/internal/infrastructure/sunat"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/sunat/signer"
)

func main() {
	certPath := flag.String("cert", os.Getenv("SUNAT_CERT_PATH"), "certificado .p12/.pfx o .pem")
	keyPath := flag.String("key", os.Getenv("SUNAT_CERT_KEY_PATH"), "llave .pem (si el certificado es PEM sin llave)")
	password := flag.String("password", os.Getenv("SUNAT_CERT_PASSWORD"), "contraseña del .p12")
	ruc := flag.String("ruc", envOr("SUNAT_RUC", "20000000001"), "RUC del emisor para el comprobante de prueba")
	flag.Parse()

	if *certPath == "" {
		fail("falta -cert o SUNAT_CERT_PATH")
	}

	fmt.Println("DIAGNÓSTICO DE CERTIFICADO SUNAT")
	fmt.Println("--------------------------------")
	fmt.Printf("Archivo: %s\n", *certPath)

	// 1. Cargar (archivo + contraseña)
	cert, err := signer.Load(*certPath, *keyPath, *password)
	if err != nil {
		fail("no se pudo cargar el certificado: %v", err)
	}
	leaf := cert.Leaf
	if leaf == nil {
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			fail("certificado X.509 inválido: %v", err)
		}
	}
	fmt.Printf("Sujeto:  %s\n", leaf.Subject.String())
	fmt.Printf("Emisor:  %s\n", leaf.Issuer.String())
	fmt.Printf("Vigente: %s a %s\n", leaf.NotBefore.Format(time.DateOnly), leaf.NotAfter.Format(time.DateOnly))

	now := time.Now()
	switch {
	case now.After(leaf.NotAfter):
		fail("el certificado venció hace %d días", int(now.Sub(leaf.NotAfter).Hours()/24))
	case now.Before(leaf.NotBefore):
		fail("el certificado aún no es válido")
	default:
		fmt.Printf("Quedan %d días de vigencia\n", int(leaf.NotAfter.Sub(now).Hours()/24))
	}

	// 2. Firmar un comprobante de prueba
	svc, err := signer.NewCertificateSigner(cert)
	if err != nil {
		fail("firmador: %v", err)
	}
	builder := billing.NewDocumentBuilder(nil, billing.SupplierInfo{RUC: *ruc, LegalName: "PRUEBA"})
	doc := builder.FromSale(&entity.Sale{
		ID:           1,
		ClientName:   "Cliente de prueba",
		Total:        decimal.RequireFromString("11.80"),
		PaymentLabel: "Efectivo",
		SoldAt:       now,
		UserID:       1,
	}, entity.DocReceipt)
	unsigned, err := infrasunat.NewXMLBuilderService().Render(doc)
	if err != nil {
		fail("XML de prueba: %v", err)
	}
	signed, err := svc.Sign(unsigned)
	if err != nil {
		fail("firma de prueba: %v", err)
	}
	fmt.Printf("Firma de prueba OK (%d bytes sin firma, %d firmado)\n", len(unsigned), len(signed))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}
