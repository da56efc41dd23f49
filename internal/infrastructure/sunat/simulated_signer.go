package sunat

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

var _ pkgsunat.Signer = (*SimulatedSigner)(nil)

// SimulatedSigner firma de ambiente beta: no usa certificado. Calcula el hash SHA-256 del XML
// sin firma y lo agrega como cbc:SignatureValue en un cac:Signature al final de la raíz.
type SimulatedSigner struct{}

// NewSimulatedSigner crea el firmador simulado.
func NewSimulatedSigner() *SimulatedSigner {
	return &SimulatedSigner{}
}

// Sign es determinista: el mismo XML produce siempre la misma firma.
func (s *SimulatedSigner) Sign(xmlBytes []byte) ([]byte, error) {
	if len(bytes.TrimSpace(xmlBytes)) == 0 {
		return nil, fmt.Errorf("sunat: XML vacío")
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("sunat: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sunat: documento sin raíz")
	}

	sig := root.CreateElement("cac:Signature")
	sig.CreateElement("cbc:ID").SetText("1")
	sig.CreateElement("cbc:SignatureMethod").SetText(SignatureMethodURN)
	sig.CreateElement("cbc:SignatureValue").SetText(sunat.ContentHash(xmlBytes))

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sunat: serializar XML firmado: %w", err)
	}
	return out.Bytes(), nil
}
