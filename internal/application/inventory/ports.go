package inventory

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Items        repository.ItemRepository
	Movements    repository.MovementRepository
	Requisitions repository.RequisitionRepository
	Packages     repository.PackageRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ningún efecto; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
