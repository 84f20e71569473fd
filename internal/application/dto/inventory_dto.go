package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem bajo su stock ideal.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Series             string          `json:"series"`
	Name               string          `json:"name"`
	CurrentStock       int             `json:"current_stock"`
	Minimum            int             `json:"minimum"`
	Ideal              int             `json:"ideal"`
	Level              string          `json:"level"`
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // Ideal - CurrentStock
	UnitValue          decimal.Decimal `json:"unit_value"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitValue
	Priority           int             `json:"priority"`             // 1 = más urgente
}
