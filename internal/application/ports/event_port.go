package ports

import (
	"context"
	"time"
)

// ResolutionEvent se emite después del Commit de una aprobación o rechazo.
// PackageID vacío = requisición individual.
type ResolutionEvent struct {
	PackageID      string    `json:"package_id,omitempty"`
	PackageStatus  string    `json:"package_status,omitempty"`
	RequisitionIDs []string  `json:"requisition_ids"`
	Status         string    `json:"status"` // estado aplicado a las requisiciones
	ActorID        string    `json:"actor_id"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher define el puerto de salida para notificar resoluciones.
// Un fallo al publicar nunca revierte la unidad ya confirmada.
type EventPublisher interface {
	PublishResolution(ctx context.Context, ev ResolutionEvent) error
}

// NopPublisher descarta los eventos (publicación deshabilitada).
type NopPublisher struct{}

// PublishResolution no hace nada.
func (NopPublisher) PublishResolution(context.Context, ResolutionEvent) error { return nil }
