// Package salesimport lee exportaciones CSV de ventas del punto de venta.
//
// Una fila por línea de detalle; las filas con el mismo venta_id forman una venta:
//
//	venta_id;fecha;cliente;metodo_pago;usuario_id;total;producto_id;producto;cantidad;precio_unitario
//
// El separador puede ser ';' o ','. La fecha acepta RFC3339 o "2006-01-02 15:04:05" (hora local).
package salesimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

var header = []string{
	"venta_id", "fecha", "cliente", "metodo_pago", "usuario_id", "total",
	"producto_id", "producto", "cantidad", "precio_unitario",
}

// Options opciones de lectura.
type Options struct {
	Latin1    bool // archivo en ISO-8859-1 (exportaciones antiguas de caja)
	Separator rune // 0 = ';'
}

// Parse devuelve las ventas ordenadas por ID. Los errores indican la línea del archivo.
func Parse(r io.Reader, opts Options) ([]entity.Sale, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if opts.Separator != 0 {
		cr.Comma = opts.Separator
	}
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("salesimport: archivo vacío")
		}
		return nil, fmt.Errorf("salesimport: cabecera: %w", err)
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(first[i], "\ufeff")), h) {
			return nil, fmt.Errorf("salesimport: columna %d debe ser %q (llegó %q)", i+1, h, first[i])
		}
	}

	sales := make(map[int64]*entity.Sale)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("salesimport: línea %d: %w", line, err)
		}
		if err := addRecord(sales, rec); err != nil {
			return nil, fmt.Errorf("salesimport: línea %d: %w", line, err)
		}
	}

	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func addRecord(sales map[int64]*entity.Sale, rec []string) error {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("venta_id inválido %q", rec[0])
	}

	s, ok := sales[id]
	if !ok {
		soldAt, err := parseTime(rec[1])
		if err != nil {
			return err
		}
		userID, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("usuario_id inválido %q", rec[4])
		}
		total, err := decimal.NewFromString(rec[5])
		if err != nil || total.IsNegative() {
			return fmt.Errorf("total inválido %q", rec[5])
		}
		s = &entity.Sale{
			ID:           id,
			SoldAt:       soldAt,
			ClientName:   rec[2],
			PaymentLabel: rec[3],
			UserID:       userID,
			Total:        total,
		}
		sales[id] = s
	}

	// Venta sin detalle: producto y cantidad vacíos.
	if rec[7] == "" && rec[8] == "" {
		return nil
	}
	var productID int64
	if rec[6] != "" {
		if productID, err = strconv.ParseInt(rec[6], 10, 64); err != nil {
			return fmt.Errorf("producto_id inválido %q", rec[6])
		}
	}
	qty, err := strconv.Atoi(rec[8])
	if err != nil || qty <= 0 {
		return fmt.Errorf("cantidad inválida %q", rec[8])
	}
	price, err := decimal.NewFromString(rec[9])
	if err != nil {
		return fmt.Errorf("precio_unitario inválido %q", rec[9])
	}
	s.Lines = append(s.Lines, entity.SaleLine{
		ProductID:   productID,
		ProductName: rec[7],
		Quantity:    qty,
		UnitPrice:   price,
	})
	return nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q", s)
	}
	return t, nil
}
