// Package store abre el adaptador de persistencia indicado por STORE_DRIVER
// y expone los repositorios que consumen los casos de uso.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Requisiciones-api/pkg/config"
)

// Backend repositorios fuera de transacción más el TxRunner del mismo almacén.
type Backend struct {
	Driver       string
	TxRunner     inventory.TxRunner
	Items        repository.ItemRepository
	Movements    repository.MovementRepository
	Requisitions repository.RequisitionRepository
	Packages     repository.PackageRepository
	Users        repository.UserRepository

	close func()
}

// Close libera las conexiones del almacén (no-op en memoria).
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open construye el backend. Con postgres aplica el esquema embebido si cfg.DB.Migrate.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemory(memory.NewStore()), nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Backend{
			Driver:       config.StoreDriverPostgres,
			TxRunner:     postgres.NewTxRunner(pool),
			Items:        postgres.NewItemRepository(pool),
			Movements:    postgres.NewMovementRepository(pool),
			Requisitions: postgres.NewRequisitionRepository(pool),
			Packages:     postgres.NewPackageRepository(pool),
			Users:        postgres.NewUserRepository(pool),
			close:        pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("store: driver desconocido %q", cfg.Store.Driver)
	}
}

// NewMemory envuelve un almacén en memoria ya creado.
func NewMemory(s *memory.Store) *Backend {
	return &Backend{
		Driver:       config.StoreDriverMemory,
		TxRunner:     s,
		Items:        s.Items(),
		Movements:    s.Movements(),
		Requisitions: s.Requisitions(),
		Packages:     s.Packages(),
		Users:        s.Users(),
	}
}
