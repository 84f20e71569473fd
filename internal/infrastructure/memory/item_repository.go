package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/jhoicas/Requisiciones-api/pkg/textnorm"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo ítems en memoria.
type ItemRepo struct {
	v view
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.items[item.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if item.Series != "" {
			for _, it := range st.items {
				if it.Series == item.Series {
					err = domain.ErrDuplicate
					return
				}
			}
		}
		st.items[item.ID] = copyItem(item)
	})
	return err
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	r.v.do(func(st *state) {
		if it, ok := st.items[id]; ok {
			out = copyItem(it)
		}
	})
	return out, nil
}

func (r *ItemRepo) GetBySeries(_ context.Context, series string) (*entity.Item, error) {
	if series == "" {
		return nil, nil
	}
	var out *entity.Item
	r.v.do(func(st *state) {
		for _, it := range st.items {
			if it.Series == series {
				out = copyItem(it)
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la exclusión ya la da el lock de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) List(_ context.Context, filter entity.ItemFilter) ([]*entity.Item, error) {
	var list []*entity.Item
	r.v.do(func(st *state) {
		needle := textnorm.Fold(filter.Search)
		for _, it := range st.items {
			if filter.BelowMinimum && it.Quantity > it.Minimum {
				continue
			}
			if needle != "" && !textnorm.Contains(textnorm.SearchKey(it.Name, it.Series), needle) {
				continue
			}
			list = append(list, copyItem(it))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.v.do(func(st *state) {
		cur, ok := st.items[item.ID]
		if !ok {
			return
		}
		qty := cur.Quantity
		created := cur.CreatedAt
		c := copyItem(item)
		c.Quantity = qty
		c.CreatedAt = created
		st.items[item.ID] = c
	})
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.v.do(func(st *state) {
		delete(st.items, id)
	})
	return nil
}

func (r *ItemRepo) AddQuantity(_ context.Context, id string, qty int) (bool, error) {
	var found bool
	r.v.do(func(st *state) {
		it, ok := st.items[id]
		if !ok {
			return
		}
		it.Quantity += qty
		it.UpdatedAt = time.Now()
		found = true
	})
	return found, nil
}

func (r *ItemRepo) SubtractIfAvailable(_ context.Context, id string, qty int) (bool, error) {
	var done bool
	r.v.do(func(st *state) {
		it, ok := st.items[id]
		if !ok || it.Quantity < qty {
			return
		}
		it.Quantity -= qty
		it.UpdatedAt = time.Now()
		done = true
	})
	return done, nil
}

func (r *ItemRepo) DeleteAll(_ context.Context) error {
	r.v.do(func(st *state) {
		st.items = make(map[string]*entity.Item)
	})
	return nil
}
