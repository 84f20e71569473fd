package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

const requisitionColumns = `id, requester_id, item_id, quantity, cost_center, project, justification,
	status, resolution, COALESCE(package_id, ''), created_at, resolved_at`

// RequisitionRepo implementación sobre PostgreSQL (usable con pool o tx).
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var req entity.Requisition
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.ItemID, &req.Quantity, &req.CostCenter, &req.Project,
		&req.Justification, &req.Status, &req.Resolution, &req.PackageID, &req.CreatedAt, &req.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequisitionRepo) Create(ctx context.Context, req *entity.Requisition) error {
	var packageID *string
	if req.PackageID != "" {
		packageID = &req.PackageID
	}
	query := `
		INSERT INTO requisitions (id, requester_id, item_id, quantity, cost_center, project, justification,
			status, resolution, package_id, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequesterID, req.ItemID, req.Quantity, req.CostCenter, req.Project, req.Justification,
		req.Status, req.Resolution, packageID, req.CreatedAt, req.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create requisition: %w", err)
	}
	return nil
}

// GetByID obtiene una requisición. Retorna (nil, nil) si no existe.
func (r *RequisitionRepo) GetByID(ctx context.Context, id string) (*entity.Requisition, error) {
	req, err := scanRequisition(r.q.QueryRow(ctx, `SELECT `+requisitionColumns+` FROM requisitions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	return req, nil
}

func (r *RequisitionRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE ` + where + ` ORDER BY seq`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// ListByPackage miembros en orden de inserción (seq), no por created_at:
// todos comparten el mismo instante.
func (r *RequisitionRepo) ListByPackage(ctx context.Context, packageID string) ([]*entity.Requisition, error) {
	return r.list(ctx, `package_id = $1`, packageID)
}

func (r *RequisitionRepo) ListPendingIndividual(ctx context.Context) ([]*entity.Requisition, error) {
	return r.list(ctx, `package_id IS NULL AND status = 'pending'`)
}

func (r *RequisitionRepo) ListIndividualByRequester(ctx context.Context, userID string) ([]*entity.Requisition, error) {
	return r.list(ctx, `package_id IS NULL AND requester_id = $1`, userID)
}

// Resolve solo afecta filas aún pendientes; false = ya resuelta o inexistente.
func (r *RequisitionRepo) Resolve(ctx context.Context, id, status, resolution string, at time.Time) (bool, error) {
	query := `
		UPDATE requisitions SET status = $2, resolution = $3, resolved_at = $4
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(ctx, query, id, status, resolution, at)
	if err != nil {
		return false, fmt.Errorf("resolve requisition: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RequisitionRepo) CountPendingByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM requisitions WHERE item_id = $1 AND status = 'pending'`, itemID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending requisitions: %w", err)
	}
	return n, nil
}

func (r *RequisitionRepo) ListAll(ctx context.Context) ([]*entity.Requisition, error) {
	return r.list(ctx, `TRUE`)
}

func (r *RequisitionRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM requisitions`); err != nil {
		return fmt.Errorf("delete requisitions: %w", err)
	}
	return nil
}
