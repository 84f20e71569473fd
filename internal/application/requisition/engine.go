// Package requisition implementa el motor de aprobación: paquetes de requisiciones,
// requisiciones individuales y su efecto sobre el libro de stock.
package requisition

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	rules "github.com/jhoicas/Requisiciones-api/internal/domain/requisition"
	"github.com/rs/zerolog"
)

// engine concentra las transiciones de estado compartidas por paquetes y requisiciones individuales.
// Todas sus operaciones corren dentro de la transacción del llamador.
type engine struct {
	txRunner  inventory.TxRunner
	ledger    *inventory.Ledger
	publisher ports.EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

func newEngine(txRunner inventory.TxRunner, ledger *inventory.Ledger, publisher ports.EventPublisher, log zerolog.Logger) *engine {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &engine{txRunner: txRunner, ledger: ledger, publisher: publisher, log: log, now: time.Now}
}

// checkAvailability verifica que cada ítem cubra la suma de lo solicitado para él.
// Bloquea las filas de los ítems en orden de id, para que creación, borrado y
// aprobaciones concurrentes se serialicen sin interbloqueos.
// Reporta el primer ítem (en orden de aparición) que no alcanza.
func checkAvailability(ctx context.Context, repos inventory.Repos, lines []entity.PackageLine) error {
	totals := make(map[string]int, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := totals[l.ItemID]; !ok {
			order = append(order, l.ItemID)
		}
		totals[l.ItemID] = addQuantity(totals[l.ItemID], l.Quantity)
	}

	locked := append([]string(nil), order...)
	sort.Strings(locked)
	items := make(map[string]*entity.Item, len(locked))
	for _, itemID := range locked {
		item, err := repos.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		items[itemID] = item
	}

	for _, itemID := range order {
		if items[itemID].Quantity < totals[itemID] {
			return domain.NewInsufficientStock(itemID)
		}
	}
	return nil
}

// addQuantity suma saturando en math.MaxInt; ningún stock alcanza ese total.
func addQuantity(total, qty int) int {
	if qty > math.MaxInt-total {
		return math.MaxInt
	}
	return total + qty
}

// approve marca cada requisición como aprobada y debita su cantidad.
// La primera falta de stock aborta todo el conjunto (el TxRunner revierte).
func (e *engine) approve(ctx context.Context, repos inventory.Repos, actor entity.Actor, pkg *entity.Package, reqs []*entity.Requisition, at time.Time) error {
	lines := make([]entity.PackageLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, entity.PackageLine{ItemID: r.ItemID, Quantity: r.Quantity})
	}
	if err := checkAvailability(ctx, repos, lines); err != nil {
		return err
	}
	for _, r := range byItem(reqs) {
		if err := e.resolve(ctx, repos, r, entity.StatusApproved, "", at); err != nil {
			return err
		}
		_, err := e.ledger.Debit(ctx, repos, inventory.Change{
			ItemID:   r.ItemID,
			Quantity: r.Quantity,
			Place:    r.CostCenter,
			Note:     movementNote(pkg, r),
			ActorID:  actor.UserID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// reject marca cada requisición como rechazada; no toca el stock.
func (e *engine) reject(ctx context.Context, repos inventory.Repos, reqs []*entity.Requisition, reason string, at time.Time) error {
	for _, r := range reqs {
		if err := e.resolve(ctx, repos, r, entity.StatusRejected, reason, at); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) resolve(ctx context.Context, repos inventory.Repos, r *entity.Requisition, status, reason string, at time.Time) error {
	if !rules.CanTransition(r.Status, status) {
		return domain.ErrConflict
	}
	ok, err := repos.Requisitions.Resolve(ctx, r.ID, status, reason, at)
	if err != nil {
		return err
	}
	if !ok {
		// otra transacción la resolvió primero
		return domain.ErrConflict
	}
	r.Status = status
	r.Resolution = reason
	return nil
}

// recompute recalcula el estado del paquete desde todos sus miembros y lo persiste.
func (e *engine) recompute(ctx context.Context, repos inventory.Repos, pkg *entity.Package, resolution string, at time.Time) error {
	members, err := repos.Requisitions.ListByPackage(ctx, pkg.ID)
	if err != nil {
		return err
	}
	status := rules.DeriveFromRequisitions(members)
	var approvedAt *time.Time
	if pkg.ApprovedAt == nil && (status == entity.StatusApproved || status == entity.StatusPartiallyApproved) {
		approvedAt = &at
	}
	if err := repos.Packages.UpdateStatus(ctx, pkg.ID, status, resolution, approvedAt); err != nil {
		return err
	}
	pkg.Status = status
	if approvedAt != nil {
		pkg.ApprovedAt = approvedAt
	}
	if resolution != "" {
		pkg.Resolution = resolution
	}
	return nil
}

// publish notifica la resolución ya confirmada; los errores solo se registran.
func (e *engine) publish(ctx context.Context, ev ports.ResolutionEvent) {
	if err := e.publisher.PublishResolution(ctx, ev); err != nil {
		e.log.Warn().Err(err).
			Str("package_id", ev.PackageID).
			Strs("requisition_ids", ev.RequisitionIDs).
			Msg("no se pudo publicar el evento de resolución")
	}
}

func movementNote(pkg *entity.Package, r *entity.Requisition) string {
	if pkg != nil {
		return fmt.Sprintf("Paquete %s | Proyecto: %s | %s", pkg.ID, pkg.Project, pkg.Justification)
	}
	return fmt.Sprintf("Requisición %s | Proyecto: %s | %s", r.ID, r.Project, r.Justification)
}

func requisitionIDs(reqs []*entity.Requisition) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	return ids
}

// byItem ordena una copia por ItemID: las filas de ítems se tocan siempre en el mismo orden.
func byItem(reqs []*entity.Requisition) []*entity.Requisition {
	out := append([]*entity.Requisition(nil), reqs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

func pendingOnly(reqs []*entity.Requisition) []*entity.Requisition {
	out := make([]*entity.Requisition, 0, len(reqs))
	for _, r := range reqs {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	return out
}
