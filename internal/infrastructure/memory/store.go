// Package memory implementa los repositorios en memoria para desarrollo (STORAGE=memory) y tests.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu                 sync.RWMutex
	sales              map[int64]entity.Sale
	comprobantesBySale map[int64]entity.Comprobante
	sessionsByID       map[string]entity.CashRegisterSession
	openSessionByUser  map[int64]string
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		sales:              make(map[int64]entity.Sale),
		comprobantesBySale: make(map[int64]entity.Comprobante),
		sessionsByID:       make(map[string]entity.CashRegisterSession),
		openSessionByUser:  make(map[int64]string),
	}
}

// NewSeeded crea un store con ventas de ejemplo del día para el modo desarrollo.
func NewSeeded() *Store {
	s := New()
	now := time.Now()
	seed := []struct {
		client string
		label  string
		lines  []entity.SaleLine
	}{
		{"Cliente Varios", "Efectivo", []entity.SaleLine{
			{ProductID: 1, ProductName: "Taza de cerámica", Quantity: 2, UnitPrice: decimal.RequireFromString("15.00")},
			{ProductID: 2, ProductName: "Cuaderno A4", Quantity: 1, UnitPrice: decimal.RequireFromString("8.50")},
		}},
		{"María Quispe", "Yape", []entity.SaleLine{
			{ProductID: 3, ProductName: "Peluche oso", Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		}},
		{"Comercial Lima SAC", "Tarjeta", []entity.SaleLine{
			{ProductID: 4, ProductName: "Juego de vasos x6", Quantity: 1, UnitPrice: decimal.RequireFromString("118.00")},
		}},
	}
	for i, v := range seed {
		sale := entity.Sale{
			ID:           int64(i + 1),
			ClientName:   v.client,
			PaymentLabel: v.label,
			SoldAt:       now.Add(-time.Duration(len(seed)-i) * time.Hour),
			UserID:       1,
			Lines:        v.lines,
		}
		for _, l := range v.lines {
			sale.Total = sale.Total.Add(l.Subtotal())
		}
		s.sales[sale.ID] = sale
	}
	return s
}

// AddSale registra una venta (tests y datos de ejemplo).
func (s *Store) AddSale(sale entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.Lines = append([]entity.SaleLine(nil), sale.Lines...)
	s.sales[sale.ID] = sale
}

// Sales repositorio de ventas sobre este store.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Comprobantes repositorio de comprobantes sobre este store.
func (s *Store) Comprobantes() *ComprobanteRepo { return &ComprobanteRepo{s: s} }

// CashRegisters repositorio de sesiones de caja sobre este store.
func (s *Store) CashRegisters() *CashRegisterRepo { return &CashRegisterRepo{s: s} }
