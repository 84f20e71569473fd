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

var _ repository.PackageRepository = (*PackageRepo)(nil)

const packageColumns = `id, requester_id, cost_center, project, justification, status, resolution, created_at, approved_at`

// PackageRepo implementación sobre PostgreSQL (usable con pool o tx).
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

func scanPackage(row pgx.Row) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(&p.ID, &p.RequesterID, &p.CostCenter, &p.Project, &p.Justification,
		&p.Status, &p.Resolution, &p.CreatedAt, &p.ApprovedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepo) Create(ctx context.Context, pkg *entity.Package) error {
	query := `
		INSERT INTO packages (id, requester_id, cost_center, project, justification, status, resolution, created_at, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		pkg.ID, pkg.RequesterID, pkg.CostCenter, pkg.Project, pkg.Justification,
		pkg.Status, pkg.Resolution, pkg.CreatedAt, pkg.ApprovedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

func (r *PackageRepo) getOne(ctx context.Context, op, query, id string) (*entity.Package, error) {
	p, err := scanPackage(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene un paquete. Retorna (nil, nil) si no existe.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*entity.Package, error) {
	return r.getOne(ctx, "get package", `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del paquete (SELECT FOR UPDATE).
func (r *PackageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Package, error) {
	return r.getOne(ctx, "get package for update", `SELECT `+packageColumns+` FROM packages WHERE id = $1 FOR UPDATE`, id)
}

// UpdateStatus resolution vacía conserva la anterior; approvedAt nil conserva la fecha previa.
func (r *PackageRepo) UpdateStatus(ctx context.Context, id, status, resolution string, approvedAt *time.Time) error {
	query := `
		UPDATE packages SET
			status = $2,
			resolution = CASE WHEN $3 = '' THEN resolution ELSE $3 END,
			approved_at = COALESCE($4::timestamptz, approved_at)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, resolution, approvedAt)
	if err != nil {
		return fmt.Errorf("update package status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PackageRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE ` + where + ` ORDER BY seq DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListByStatus paquetes más recientes primero.
func (r *PackageRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Package, error) {
	return r.list(ctx, `status = $1`, status)
}

func (r *PackageRepo) ListByRequester(ctx context.Context, userID string) ([]*entity.Package, error) {
	return r.list(ctx, `requester_id = $1`, userID)
}

func (r *PackageRepo) ListAll(ctx context.Context) ([]*entity.Package, error) {
	return r.list(ctx, `TRUE`)
}

// DeleteAll borra los paquetes; sus requisiciones caen por ON DELETE CASCADE.
func (r *PackageRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM packages`); err != nil {
		return fmt.Errorf("delete packages: %w", err)
	}
	return nil
}
