package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición: ítems por debajo del stock ideal
// con la cantidad sugerida para volver al ideal.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// GenerateReplenishmentList devuelve los ítems bajo el ideal ordenados por urgencia:
// primero los críticos (<= mínimo), luego mayor déficit relativo al ideal, luego mayor costo estimado.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.List(ctx, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, it := range items {
		level := it.StockLevel()
		if level == entity.StockLevelOK {
			continue
		}
		suggested := it.Ideal - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             it.ID,
			Series:             it.Series,
			Name:               it.Name,
			CurrentStock:       it.Quantity,
			Minimum:            it.Minimum,
			Ideal:              it.Ideal,
			Level:              level,
			SuggestedOrderQty:  suggested,
			UnitValue:          it.Value,
			EstimatedOrderCost: it.Value.Mul(decimal.NewFromInt(int64(suggested))),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Level != b.Level {
			return a.Level == entity.StockLevelCritical
		}
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func deficitRatio(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if s.Ideal <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.SuggestedOrderQty)).Div(decimal.NewFromInt(int64(s.Ideal)))
}
