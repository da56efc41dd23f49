package sunat

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// CompressXMLToZip empaqueta el XML firmado en un ZIP en memoria con una única entrada.
// SUNAT exige que la entrada se llame igual que el ZIP: RUC-TIPO-SERIE-CORRELATIVO.xml.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	fw, err := zw.Create(xmlFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", xmlFilename, err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("zip: escribir XML: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractXMLFromZip devuelve la primera entrada .xml del ZIP (el CDR viene como R-<nombre>.xml).
func ExtractXMLFromZip(zipBytes []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, "", fmt.Errorf("zip: abrir: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("zip: abrir entrada %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, 4<<20))
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("zip: leer entrada %s: %w", f.Name, err)
		}
		return data, f.Name, nil
	}
	return nil, "", fmt.Errorf("zip: no contiene un XML")
}
