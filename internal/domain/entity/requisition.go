package entity

import "time"

// Estados de una requisición y de un paquete.
const (
	StatusPending           = "pending"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusPartiallyApproved = "partially_approved" // solo paquetes
)

// Requisition solicitud de retiro de una cantidad de un ítem.
// PackageID vacío = requisición individual.
type Requisition struct {
	ID            string
	RequesterID   string
	ItemID        string
	Quantity      int
	CostCenter    string
	Project       string
	Justification string
	Status        string
	Resolution    string // nota de resolución (motivo de rechazo)
	PackageID     string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// IsPending indica si aún no fue resuelta.
func (r *Requisition) IsPending() bool {
	return r.Status == StatusPending
}
