package sunat

// Signer firma el XML de un comprobante y devuelve el documento con la firma inyectada.
// Las implementaciones (simulada o con certificado) se eligen al arrancar el servicio.
type Signer interface {
	Sign(xmlBytes []byte) ([]byte, error)
}
