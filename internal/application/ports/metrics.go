package ports

import (
	"time"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// Metrics puerto de observabilidad de los casos de uso.
type Metrics interface {
	ComprobanteTransition(to entity.ComprobanteStatus)
	SubmissionObserved(accepted bool, elapsed time.Duration)
	CashRegisterOpened()
	CashRegisterClosed()
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) ComprobanteTransition(entity.ComprobanteStatus) {}
func (NopMetrics) SubmissionObserved(bool, time.Duration)         {}
func (NopMetrics) CashRegisterOpened()                            {}
func (NopMetrics) CashRegisterClosed()                            {}
