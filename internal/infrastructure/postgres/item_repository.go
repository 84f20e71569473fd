package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/jhoicas/Requisiciones-api/pkg/textnorm"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, series, description, origin, destination, value, invoice,
	quantity, minimum, ideal, notes, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Series, &it.Description, &it.Origin, &it.Destination,
		&it.Value, &it.Invoice, &it.Quantity, &it.Minimum, &it.Ideal, &it.Notes,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta el ítem. Serie o ID repetidos → domain.ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, series, description, origin, destination, value, invoice,
			quantity, minimum, ideal, notes, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Series, item.Description, item.Origin, item.Destination,
		item.Value, item.Invoice, item.Quantity, item.Minimum, item.Ideal, item.Notes,
		textnorm.SearchKey(item.Name, item.Series), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// GetByID obtiene un ítem por ID. Retorna (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySeries busca por serie exacta.
func (r *ItemRepo) GetBySeries(ctx context.Context, series string) (*entity.Item, error) {
	if series == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get item by series", `SELECT `+itemColumns+` FROM items WHERE series = $1`, series)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// List filtra por texto normalizado y por cantidad bajo mínimo.
func (r *ItemRepo) List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, error) {
	var needle *string
	if s := textnorm.Fold(filter.Search); s != "" {
		p := likePattern(s)
		needle = &p
	}
	limit, offset := limitOffset(filter.Limit, filter.Offset)
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE ($1::text IS NULL OR search_key LIKE $1 ESCAPE '\')
		  AND (NOT $2 OR quantity <= minimum)
		ORDER BY name, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, needle, filter.BelowMinimum, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update escribe los campos descriptivos. La cantidad no se toca aquí.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, series = $3, description = $4, origin = $5, destination = $6,
			value = $7, invoice = $8, minimum = $9, ideal = $10, notes = $11, search_key = $12,
			updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Series, item.Description, item.Origin, item.Destination,
		item.Value, item.Invoice, item.Minimum, item.Ideal, item.Notes,
		textnorm.SearchKey(item.Name, item.Series),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// AddQuantity suma qty a la cantidad actual.
func (r *ItemRepo) AddQuantity(ctx context.Context, id string, qty int) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE items SET quantity = quantity + $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return false, fmt.Errorf("add quantity: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SubtractIfAvailable descuenta en una sola sentencia condicional; dos retiros
// concurrentes no pueden dejar la cantidad negativa.
func (r *ItemRepo) SubtractIfAvailable(ctx context.Context, id string, qty int) (bool, error) {
	query := `
		UPDATE items SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		if isCheckViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("subtract quantity: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ItemRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}
