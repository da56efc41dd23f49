package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bazar-api/internal/application/cashregister"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/memory"
)

func TestSummary_HoyYMes(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	store := memory.New()
	store.AddSale(entity.Sale{ID: 1, Total: decimal.NewFromInt(100), PaymentLabel: "Efectivo", SoldAt: now.Add(-time.Hour), UserID: 1})
	store.AddSale(entity.Sale{ID: 2, Total: decimal.NewFromInt(40), PaymentLabel: "Yape", SoldAt: now.AddDate(0, 0, -3), UserID: 1})
	store.AddSale(entity.Sale{ID: 3, Total: decimal.NewFromInt(70), PaymentLabel: "Efectivo", SoldAt: now.AddDate(0, -1, 0), UserID: 1})
	store.AddSale(entity.Sale{ID: 4, Total: decimal.NewFromInt(30), PaymentLabel: "Plin", SoldAt: now.Add(-2 * time.Hour), UserID: 2})

	require.NoError(t, store.Comprobantes().Create(context.Background(), &entity.Comprobante{SaleID: 1, Status: entity.StatusAccepted}))
	require.NoError(t, store.Comprobantes().Create(context.Background(), &entity.Comprobante{SaleID: 2, Status: entity.StatusRejected}))

	uc := NewDashboardUseCase(cashregister.NewSalesAggregator(store.Sales()), store.Comprobantes())
	uc.now = func() time.Time { return now }

	sum, err := uc.Summary(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, sum.Today.Overall.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 2, sum.Today.Count)
	assert.True(t, sum.Month.Overall.Equal(decimal.NewFromInt(170)))
	assert.True(t, sum.Month.Yape.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 1, sum.Comprobantes["ACCEPTED"])
	assert.Equal(t, 1, sum.Comprobantes["REJECTED"])
	assert.Equal(t, 0, sum.Comprobantes["DRAFT"])
	assert.Equal(t, "Marzo 2024", sum.DateLabel)

	uid := int64(2)
	sum, err = uc.Summary(context.Background(), &uid)
	require.NoError(t, err)
	assert.True(t, sum.Today.Plin.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 1, sum.Month.Count)
}
