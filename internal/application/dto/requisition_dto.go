package dto

import "time"

// CreateRequisitionRequest body para una requisición individual.
type CreateRequisitionRequest struct {
	ItemID        string `json:"item_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	CostCenter    string `json:"cost_center" validate:"required"`
	Project       string `json:"project" validate:"required"`
	Justification string `json:"justification"`
}

// RejectRequest motivo de rechazo.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RequisitionResponse salida de una requisición.
type RequisitionResponse struct {
	ID            string     `json:"id"`
	RequesterID   string     `json:"requester_id"`
	ItemID        string     `json:"item_id"`
	Quantity      int        `json:"quantity"`
	CostCenter    string     `json:"cost_center"`
	Project       string     `json:"project"`
	Justification string     `json:"justification"`
	Status        string     `json:"status"`
	Resolution    string     `json:"resolution,omitempty"`
	PackageID     string     `json:"package_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}
