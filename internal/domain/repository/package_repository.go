package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// PackageRepository define el puerto de persistencia para paquetes de requisiciones.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	GetByID(ctx context.Context, id string) (*entity.Package, error)
	// GetForUpdate bloquea el paquete para serializar resoluciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Package, error)
	UpdateStatus(ctx context.Context, id, status, resolution string, approvedAt *time.Time) error
	ListByStatus(ctx context.Context, status string) ([]*entity.Package, error)
	ListByRequester(ctx context.Context, userID string) ([]*entity.Package, error)
	ListAll(ctx context.Context) ([]*entity.Package, error)
	DeleteAll(ctx context.Context) error
}
