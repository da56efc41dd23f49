package sunat

import (
	"fmt"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/sunat/signer"
	"github.com/jhoicas/Bazar-api/pkg/config"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

// NewSigner elige el firmador según SUNAT_SIGNER.
func NewSigner(cfg config.SUNATConfig) (pkgsunat.Signer, error) {
	switch cfg.SignerMode {
	case config.SignerSimulated, "":
		return NewSimulatedSigner(), nil
	case config.SignerCertificate:
		cert, err := signer.Load(cfg.CertPath, cfg.CertKeyPath, cfg.CertPassword)
		if err != nil {
			return nil, fmt.Errorf("sunat: cargar certificado: %w", err)
		}
		return signer.NewCertificateSigner(cert)
	}
	return nil, fmt.Errorf("sunat: modo de firma desconocido %q", cfg.SignerMode)
}

// NewSubmitter elige el canal de envío según SUNAT_MODE.
func NewSubmitter(cfg config.SUNATConfig) (billing.Submitter, error) {
	switch cfg.SubmitMode {
	case config.SubmitModeBeta, "":
		return NewBetaSubmitter(), nil
	case config.SubmitModeSOAP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("sunat: SUNAT_ENDPOINT vacío")
		}
		return NewSOAPSunatClient(cfg.Endpoint, cfg.Username(), cfg.SOLPassword, cfg.SubmitTimeout), nil
	}
	return nil, fmt.Errorf("sunat: modo de envío desconocido %q", cfg.SubmitMode)
}
