package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para registrar un ítem.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Series      string          `json:"series" validate:"max=100"`
	Description string          `json:"description"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Value       decimal.Decimal `json:"value" validate:"min=0"`
	Invoice     string          `json:"invoice"`
	Quantity    int             `json:"quantity" validate:"min=0,lte=2147483647"`
	Minimum     int             `json:"minimum" validate:"min=0,lte=2147483647"`
	Ideal       int             `json:"ideal" validate:"min=0,lte=2147483647"`
	Notes       string          `json:"notes"`
}

// UpdateItemRequest patch de un ítem (sin Quantity: se maneja vía movimientos).
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Series      *string          `json:"series" validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	Origin      *string          `json:"origin"`
	Destination *string          `json:"destination"`
	Value       *decimal.Decimal `json:"value"`
	Invoice     *string          `json:"invoice"`
	Minimum     *int             `json:"minimum" validate:"omitempty,min=0,lte=2147483647"`
	Ideal       *int             `json:"ideal" validate:"omitempty,min=0,lte=2147483647"`
	Notes       *string          `json:"notes"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Series      string          `json:"series"`
	Description string          `json:"description"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Value       decimal.Decimal `json:"value"`
	Invoice     string          `json:"invoice"`
	Quantity    int             `json:"quantity"`
	Minimum     int             `json:"minimum"`
	Ideal       int             `json:"ideal"`
	Notes       string          `json:"notes"`
	StockLevel  string          `json:"stock_level"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
