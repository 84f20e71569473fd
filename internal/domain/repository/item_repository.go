package repository

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos de lectura devuelven (nil, nil) si el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetBySeries busca por serie exacta; series vacías no se buscan.
	GetBySeries(ctx context.Context, series string) (*entity.Item, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, error)
	// Update escribe los campos descriptivos y umbrales; nunca Quantity.
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	// AddQuantity suma qty; devuelve false si el ítem no existe.
	AddQuantity(ctx context.Context, id string, qty int) (bool, error)
	// SubtractIfAvailable resta qty solo si quantity >= qty, en un único paso atómico.
	// Devuelve false si no se afectó ninguna fila.
	SubtractIfAvailable(ctx context.Context, id string, qty int) (bool, error)
	DeleteAll(ctx context.Context) error
}
