package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// RequisitionRepository define el puerto de persistencia para requisiciones.
type RequisitionRepository interface {
	Create(ctx context.Context, req *entity.Requisition) error
	GetByID(ctx context.Context, id string) (*entity.Requisition, error)
	// ListByPackage devuelve los miembros del paquete en orden de creación.
	ListByPackage(ctx context.Context, packageID string) ([]*entity.Requisition, error)
	// ListPendingIndividual lista requisiciones sin paquete aún pendientes.
	ListPendingIndividual(ctx context.Context) ([]*entity.Requisition, error)
	// ListIndividualByRequester lista requisiciones sin paquete de un usuario.
	ListIndividualByRequester(ctx context.Context, userID string) ([]*entity.Requisition, error)
	// Resolve cambia el estado solo si sigue pendiente. Devuelve false si no se afectó ninguna fila.
	Resolve(ctx context.Context, id, status, resolution string, at time.Time) (bool, error)
	CountPendingByItem(ctx context.Context, itemID string) (int, error)
	ListAll(ctx context.Context) ([]*entity.Requisition, error)
	DeleteAll(ctx context.Context) error
}
