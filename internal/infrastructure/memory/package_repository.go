package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.PackageRepository = (*PackageRepo)(nil)

// PackageRepo paquetes en memoria.
type PackageRepo struct {
	v view
}

func (r *PackageRepo) Create(_ context.Context, pkg *entity.Package) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.packages[pkg.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.packages[pkg.ID] = copyPackage(pkg)
		st.pkgOrder = append(st.pkgOrder, pkg.ID)
	})
	return err
}

func (r *PackageRepo) GetByID(_ context.Context, id string) (*entity.Package, error) {
	var out *entity.Package
	r.v.do(func(st *state) {
		if p, ok := st.packages[id]; ok {
			out = copyPackage(p)
		}
	})
	return out, nil
}

func (r *PackageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Package, error) {
	return r.GetByID(ctx, id)
}

func (r *PackageRepo) UpdateStatus(_ context.Context, id, status, resolution string, approvedAt *time.Time) error {
	var err error
	r.v.do(func(st *state) {
		p, ok := st.packages[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		p.Status = status
		if resolution != "" {
			p.Resolution = resolution
		}
		if approvedAt != nil {
			t := *approvedAt
			p.ApprovedAt = &t
		}
	})
	return err
}

// filter devuelve los paquetes más recientes primero.
func (r *PackageRepo) filter(keep func(*entity.Package) bool) []*entity.Package {
	var list []*entity.Package
	r.v.do(func(st *state) {
		for i := len(st.pkgOrder) - 1; i >= 0; i-- {
			p := st.packages[st.pkgOrder[i]]
			if keep(p) {
				list = append(list, copyPackage(p))
			}
		}
	})
	return list
}

func (r *PackageRepo) ListByStatus(_ context.Context, status string) ([]*entity.Package, error) {
	return r.filter(func(p *entity.Package) bool { return p.Status == status }), nil
}

func (r *PackageRepo) ListByRequester(_ context.Context, userID string) ([]*entity.Package, error) {
	return r.filter(func(p *entity.Package) bool { return p.RequesterID == userID }), nil
}

func (r *PackageRepo) ListAll(_ context.Context) ([]*entity.Package, error) {
	return r.filter(func(*entity.Package) bool { return true }), nil
}

func (r *PackageRepo) DeleteAll(_ context.Context) error {
	r.v.do(func(st *state) {
		st.packages = make(map[string]*entity.Package)
		st.pkgOrder = nil
	})
	return nil
}
