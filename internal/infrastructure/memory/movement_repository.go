package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos en memoria (solo inserción).
type MovementRepo struct {
	v view
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.v.do(func(st *state) {
		st.movements = append(st.movements, copyMovement(m))
	})
	return nil
}

// List devuelve los movimientos más recientes primero.
func (r *MovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var list []*entity.Movement
	r.v.do(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.Kind != "" && m.Kind != f.Kind {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			list = append(list, copyMovement(m))
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *MovementRepo) DeleteAll(_ context.Context) error {
	r.v.do(func(st *state) {
		st.movements = nil
	})
	return nil
}
