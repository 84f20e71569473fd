package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

func TestReplenishment_OrdenaPorUrgencia(t *testing.T) {
	s := newStore(t,
		&entity.Item{ID: "ok", Name: "Cascos", Quantity: 20, Minimum: 2, Ideal: 10, Value: decimal.NewFromInt(100)},
		&entity.Item{ID: "low", Name: "Botas", Quantity: 4, Minimum: 2, Ideal: 10, Value: decimal.NewFromInt(50)},
		&entity.Item{ID: "crit", Name: "Guantes", Quantity: 1, Minimum: 2, Ideal: 5, Value: decimal.NewFromInt(10)},
	)
	uc := inventory.NewReplenishmentUseCase(s.Items())

	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "crit", list[0].ItemID)
	assert.Equal(t, entity.StockLevelCritical, list[0].Level)
	assert.Equal(t, 4, list[0].SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(40).Equal(list[0].EstimatedOrderCost))
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, "low", list[1].ItemID)
	assert.Equal(t, 6, list[1].SuggestedOrderQty)
	assert.Equal(t, 2, list[1].Priority)
}
