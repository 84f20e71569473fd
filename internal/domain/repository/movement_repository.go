package repository

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	DeleteAll(ctx context.Context) error
}
