package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo requisiciones en memoria, en orden de creación.
type RequisitionRepo struct {
	v view
}

func (r *RequisitionRepo) Create(_ context.Context, req *entity.Requisition) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.requisitions[req.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.requisitions[req.ID] = copyRequisition(req)
		st.reqOrder = append(st.reqOrder, req.ID)
	})
	return err
}

func (r *RequisitionRepo) GetByID(_ context.Context, id string) (*entity.Requisition, error) {
	var out *entity.Requisition
	r.v.do(func(st *state) {
		if req, ok := st.requisitions[id]; ok {
			out = copyRequisition(req)
		}
	})
	return out, nil
}

func (r *RequisitionRepo) filter(keep func(*entity.Requisition) bool) []*entity.Requisition {
	var list []*entity.Requisition
	r.v.do(func(st *state) {
		for _, id := range st.reqOrder {
			req := st.requisitions[id]
			if keep(req) {
				list = append(list, copyRequisition(req))
			}
		}
	})
	return list
}

func (r *RequisitionRepo) ListByPackage(_ context.Context, packageID string) ([]*entity.Requisition, error) {
	return r.filter(func(req *entity.Requisition) bool { return req.PackageID == packageID }), nil
}

func (r *RequisitionRepo) ListPendingIndividual(_ context.Context) ([]*entity.Requisition, error) {
	return r.filter(func(req *entity.Requisition) bool {
		return req.PackageID == "" && req.Status == entity.StatusPending
	}), nil
}

func (r *RequisitionRepo) ListIndividualByRequester(_ context.Context, userID string) ([]*entity.Requisition, error) {
	return r.filter(func(req *entity.Requisition) bool {
		return req.PackageID == "" && req.RequesterID == userID
	}), nil
}

func (r *RequisitionRepo) Resolve(_ context.Context, id, status, resolution string, at time.Time) (bool, error) {
	var done bool
	r.v.do(func(st *state) {
		req, ok := st.requisitions[id]
		if !ok || req.Status != entity.StatusPending {
			return
		}
		req.Status = status
		req.Resolution = resolution
		t := at
		req.ResolvedAt = &t
		done = true
	})
	return done, nil
}

func (r *RequisitionRepo) CountPendingByItem(_ context.Context, itemID string) (int, error) {
	return len(r.filter(func(req *entity.Requisition) bool {
		return req.ItemID == itemID && req.Status == entity.StatusPending
	})), nil
}

func (r *RequisitionRepo) ListAll(_ context.Context) ([]*entity.Requisition, error) {
	return r.filter(func(*entity.Requisition) bool { return true }), nil
}

func (r *RequisitionRepo) DeleteAll(_ context.Context) error {
	r.v.do(func(st *state) {
		st.requisitions = make(map[string]*entity.Requisition)
		st.reqOrder = nil
	})
	return nil
}
