package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

// TxRunner ejecuta el callback de cierre de caja en exclusión mutua.
// No hay rollback: el cierre escribe una única vez al final del callback.
type TxRunner struct {
	mu       sync.Mutex
	sessions repository.CashRegisterRepository
	sales    repository.SaleRepository
}

// NewTxRunner construye el runner sobre los repositorios dados.
func NewTxRunner(sessions repository.CashRegisterRepository, sales repository.SaleRepository) *TxRunner {
	return &TxRunner{sessions: sessions, sales: sales}
}

func (r *TxRunner) RunCashRegister(ctx context.Context, fn func(
	sessions repository.CashRegisterRepository,
	sales repository.SaleRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.sessions, r.sales)
}
