// Package memory implementa los puertos de persistencia en memoria de proceso.
// Las transacciones serializan el acceso con un mutex y restauran una copia
// del estado si la función devuelve error o entra en panic, de modo que cada unidad es atómica.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items        map[string]*entity.Item
	movements    []*entity.Movement
	requisitions map[string]*entity.Requisition
	reqOrder     []string
	packages     map[string]*entity.Package
	pkgOrder     []string
	users        map[string]*entity.User
}

func newState() *state {
	return &state{
		items:        make(map[string]*entity.Item),
		requisitions: make(map[string]*entity.Requisition),
		packages:     make(map[string]*entity.Package),
		users:        make(map[string]*entity.User),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.items {
		c.items[k] = copyItem(v)
	}
	c.movements = make([]*entity.Movement, len(st.movements))
	for i, m := range st.movements {
		c.movements[i] = copyMovement(m)
	}
	for k, v := range st.requisitions {
		c.requisitions[k] = copyRequisition(v)
	}
	c.reqOrder = append([]string(nil), st.reqOrder...)
	for k, v := range st.packages {
		c.packages[k] = copyPackage(v)
	}
	c.pkgOrder = append([]string(nil), st.pkgOrder...)
	for k, v := range st.users {
		u := *v
		c.users[k] = &u
	}
	return c
}

// Store almacén en memoria; implementa TxRunner y expone repositorios fuera de transacción.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con acceso exclusivo al estado; ante error o panic restaura el
// estado previo. El panic se propaga tras restaurar.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			s.st = snapshot
			panic(r)
		}
	}()
	v := view{s: s, tx: true}
	if err := fn(v.repos()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() inventory.Repos {
	return view{s: s}.repos()
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{v: view{s: s}} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: view{s: s}} }

// Requisitions repositorio de requisiciones fuera de transacción.
func (s *Store) Requisitions() *RequisitionRepo { return &RequisitionRepo{v: view{s: s}} }

// Packages repositorio de paquetes fuera de transacción.
func (s *Store) Packages() *PackageRepo { return &PackageRepo{v: view{s: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{v: view{s: s}} }

// view da acceso al estado; dentro de una tx el lock ya lo tiene Run.
type view struct {
	s  *Store
	tx bool
}

func (v view) do(fn func(st *state)) {
	if !v.tx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	fn(v.s.st)
}

func (v view) repos() inventory.Repos {
	return inventory.Repos{
		Items:        &ItemRepo{v: v},
		Movements:    &MovementRepo{v: v},
		Requisitions: &RequisitionRepo{v: v},
		Packages:     &PackageRepo{v: v},
	}
}

func copyItem(it *entity.Item) *entity.Item {
	c := *it
	return &c
}

func copyMovement(m *entity.Movement) *entity.Movement {
	c := *m
	return &c
}

func copyRequisition(r *entity.Requisition) *entity.Requisition {
	c := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func copyPackage(p *entity.Package) *entity.Package {
	c := *p
	if p.ApprovedAt != nil {
		t := *p.ApprovedAt
		c.ApprovedAt = &t
	}
	return &c
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
