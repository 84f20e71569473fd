package dto

import "time"

// RegisterEntryRequest body para POST /api/inventory/entries.
type RegisterEntryRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	Origin   string `json:"origin"`
	Note     string `json:"note"`
}

// RegisterWithdrawalRequest body para POST /api/inventory/withdrawals.
type RegisterWithdrawalRequest struct {
	ItemID      string `json:"item_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	Destination string `json:"destination"`
	Note        string `json:"note"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Kind        string    `json:"kind"`
	Quantity    int       `json:"quantity"`
	Place       string    `json:"place"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
