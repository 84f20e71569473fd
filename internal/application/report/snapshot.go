package report

import (
	"fmt"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	rules "github.com/jhoicas/Requisiciones-api/internal/domain/requisition"
)

type snapshotData struct {
	items        []*entity.Item
	movements    []*entity.Movement
	packages     []*entity.Package
	requisitions []*entity.Requisition
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

// fromSnapshot valida el respaldo completo antes de tocar el almacén: ids únicos,
// referencias existentes, cantidades no negativas y estados de paquete coherentes
// con sus miembros.
func fromSnapshot(snap *dto.Snapshot) (*snapshotData, error) {
	if snap == nil {
		return nil, invalid("respaldo vacío")
	}
	if snap.Version != SnapshotVersion {
		return nil, invalid("versión de respaldo %d no soportada", snap.Version)
	}
	out := &snapshotData{}

	items := make(map[string]struct{}, len(snap.Items))
	series := make(map[string]struct{}, len(snap.Items))
	for _, it := range snap.Items {
		if it.ID == "" || it.Name == "" || it.Quantity < 0 || it.Minimum < 0 || it.Ideal < 0 {
			return nil, invalid("ítem %q inválido", it.ID)
		}
		if _, dup := items[it.ID]; dup {
			return nil, invalid("ítem %q duplicado", it.ID)
		}
		if it.Series != "" {
			if _, dup := series[it.Series]; dup {
				return nil, invalid("serie %q duplicada", it.Series)
			}
			series[it.Series] = struct{}{}
		}
		items[it.ID] = struct{}{}
		out.items = append(out.items, &entity.Item{
			ID: it.ID, Name: it.Name, Series: it.Series, Description: it.Description,
			Origin: it.Origin, Destination: it.Destination, Value: it.Value, Invoice: it.Invoice,
			Quantity: it.Quantity, Minimum: it.Minimum, Ideal: it.Ideal, Notes: it.Notes,
			CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
		})
	}

	movs := make(map[string]struct{}, len(snap.Movements))
	for _, m := range snap.Movements {
		if m.ID == "" || m.Quantity <= 0 || (m.Kind != entity.MovementKindEntry && m.Kind != entity.MovementKindWithdrawal) {
			return nil, invalid("movimiento %q inválido", m.ID)
		}
		if _, dup := movs[m.ID]; dup {
			return nil, invalid("movimiento %q duplicado", m.ID)
		}
		if _, ok := items[m.ItemID]; !ok {
			return nil, invalid("movimiento %q referencia ítem inexistente %q", m.ID, m.ItemID)
		}
		movs[m.ID] = struct{}{}
		out.movements = append(out.movements, &entity.Movement{
			ID: m.ID, ItemID: m.ItemID, Kind: m.Kind, Quantity: m.Quantity, Place: m.Place,
			Description: m.Description, CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt,
		})
	}

	pkgStatus := make(map[string]string, len(snap.Packages))
	for _, p := range snap.Packages {
		if p.ID == "" {
			return nil, invalid("paquete sin id")
		}
		if _, dup := pkgStatus[p.ID]; dup {
			return nil, invalid("paquete %q duplicado", p.ID)
		}
		pkgStatus[p.ID] = p.Status
		out.packages = append(out.packages, &entity.Package{
			ID: p.ID, RequesterID: p.RequesterID, CostCenter: p.CostCenter, Project: p.Project,
			Justification: p.Justification, Status: p.Status, Resolution: p.Resolution,
			CreatedAt: p.CreatedAt, ApprovedAt: p.ApprovedAt,
		})
	}

	members := make(map[string][]string)
	reqs := make(map[string]struct{}, len(snap.Requisitions))
	for _, r := range snap.Requisitions {
		if r.ID == "" || r.Quantity <= 0 || !validRequisitionStatus(r.Status) {
			return nil, invalid("requisición %q inválida", r.ID)
		}
		if _, dup := reqs[r.ID]; dup {
			return nil, invalid("requisición %q duplicada", r.ID)
		}
		if _, ok := items[r.ItemID]; !ok {
			return nil, invalid("requisición %q referencia ítem inexistente %q", r.ID, r.ItemID)
		}
		if r.PackageID != "" {
			if _, ok := pkgStatus[r.PackageID]; !ok {
				return nil, invalid("requisición %q referencia paquete inexistente %q", r.ID, r.PackageID)
			}
			members[r.PackageID] = append(members[r.PackageID], r.Status)
		}
		reqs[r.ID] = struct{}{}
		out.requisitions = append(out.requisitions, &entity.Requisition{
			ID: r.ID, RequesterID: r.RequesterID, ItemID: r.ItemID, Quantity: r.Quantity,
			CostCenter: r.CostCenter, Project: r.Project, Justification: r.Justification,
			Status: r.Status, Resolution: r.Resolution, PackageID: r.PackageID,
			CreatedAt: r.CreatedAt, ResolvedAt: r.ResolvedAt,
		})
	}

	for id, status := range pkgStatus {
		if len(members[id]) == 0 {
			return nil, invalid("paquete %q sin requisiciones", id)
		}
		if derived := rules.DeriveStatus(members[id]); derived != status {
			return nil, invalid("paquete %q con estado %q, sus miembros indican %q", id, status, derived)
		}
	}
	return out, nil
}

func validRequisitionStatus(s string) bool {
	switch s {
	case entity.StatusPending, entity.StatusApproved, entity.StatusRejected:
		return true
	}
	return false
}
