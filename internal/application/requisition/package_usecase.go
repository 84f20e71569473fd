package requisition

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	rules "github.com/jhoicas/Requisiciones-api/internal/domain/requisition"
	"github.com/rs/zerolog"
)

// PackageUseCase crea y resuelve paquetes de requisiciones.
// Cada operación de escritura es una única transacción: o se confirma todo o nada.
type PackageUseCase struct {
	*engine
	packageRepo repository.PackageRepository
	reqRepo     repository.RequisitionRepository
}

// NewPackageUseCase construye el caso de uso de paquetes.
func NewPackageUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	packageRepo repository.PackageRepository,
	reqRepo repository.RequisitionRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *PackageUseCase {
	return &PackageUseCase{
		engine:      newEngine(txRunner, ledger, publisher, log),
		packageRepo: packageRepo,
		reqRepo:     reqRepo,
	}
}

// CreatePackageInput datos de un nuevo paquete.
type CreatePackageInput struct {
	CostCenter    string
	Project       string
	Justification string
	Lines         []entity.PackageLine
}

// CreatePackage valida la disponibilidad de cada ítem y persiste el paquete con una
// requisición pendiente por línea. Si algún ítem no alcanza no se crea nada.
// No debita stock: eso ocurre al aprobar.
func (uc *PackageUseCase) CreatePackage(ctx context.Context, actor entity.Actor, in CreatePackageInput) (string, error) {
	if actor.UserID == "" {
		return "", domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.CostCenter) == "" || strings.TrimSpace(in.Project) == "" || len(in.Lines) == 0 {
		return "", domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return "", domain.ErrInvalidInput
		}
	}

	now := uc.now()
	pkg := &entity.Package{
		ID:            uuid.New().String(),
		RequesterID:   actor.UserID,
		CostCenter:    in.CostCenter,
		Project:       in.Project,
		Justification: in.Justification,
		Status:        entity.StatusPending,
		CreatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		if err := checkAvailability(ctx, repos, in.Lines); err != nil {
			return err
		}
		if err := repos.Packages.Create(ctx, pkg); err != nil {
			return err
		}
		for _, l := range in.Lines {
			req := &entity.Requisition{
				ID:            uuid.New().String(),
				RequesterID:   actor.UserID,
				ItemID:        l.ItemID,
				Quantity:      l.Quantity,
				CostCenter:    in.CostCenter,
				Project:       in.Project,
				Justification: in.Justification,
				Status:        entity.StatusPending,
				PackageID:     pkg.ID,
				CreatedAt:     now,
			}
			if err := repos.Requisitions.Create(ctx, req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	uc.log.Info().Str("package_id", pkg.ID).Str("requester_id", actor.UserID).
		Int("lines", len(in.Lines)).Msg("paquete creado")
	return pkg.ID, nil
}

// CreatePackageFromRequest adapta el request HTTP a CreatePackage.
func (uc *PackageUseCase) CreatePackageFromRequest(ctx context.Context, actor entity.Actor, in dto.CreatePackageRequest) (*dto.CreatePackageResponse, error) {
	lines := make([]entity.PackageLine, 0, len(in.Items))
	for _, l := range in.Items {
		lines = append(lines, entity.PackageLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	id, err := uc.CreatePackage(ctx, actor, CreatePackageInput{
		CostCenter:    in.CostCenter,
		Project:       in.Project,
		Justification: in.Justification,
		Lines:         lines,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreatePackageResponse{ID: id}, nil
}

// ApprovePackage aprueba todos los miembros pendientes, debita el stock y recalcula el estado.
// Un paquete ya resuelto devuelve ErrConflict sin efecto sobre el stock.
func (uc *PackageUseCase) ApprovePackage(ctx context.Context, actor entity.Actor, packageID string) error {
	return uc.resolveWhole(ctx, actor, packageID, entity.StatusApproved, "")
}

// RejectPackage rechaza todos los miembros pendientes con el motivo indicado.
func (uc *PackageUseCase) RejectPackage(ctx context.Context, actor entity.Actor, packageID, reason string) error {
	return uc.resolveWhole(ctx, actor, packageID, entity.StatusRejected, reason)
}

// ApprovePackageItems aprueba solo las requisiciones indicadas del paquete.
func (uc *PackageUseCase) ApprovePackageItems(ctx context.Context, actor entity.Actor, packageID string, requisitionIDs []string) error {
	return uc.resolveSubset(ctx, actor, packageID, requisitionIDs, entity.StatusApproved, "")
}

// RejectPackageItems rechaza solo las requisiciones indicadas del paquete.
func (uc *PackageUseCase) RejectPackageItems(ctx context.Context, actor entity.Actor, packageID string, requisitionIDs []string, reason string) error {
	return uc.resolveSubset(ctx, actor, packageID, requisitionIDs, entity.StatusRejected, reason)
}

func (uc *PackageUseCase) resolveWhole(ctx context.Context, actor entity.Actor, packageID, status, reason string) error {
	return uc.resolve(ctx, actor, packageID, status, reason, func(members []*entity.Requisition) ([]*entity.Requisition, error) {
		pending := pendingOnly(members)
		if len(pending) == 0 {
			return nil, domain.ErrConflict
		}
		return pending, nil
	})
}

func (uc *PackageUseCase) resolveSubset(ctx context.Context, actor entity.Actor, packageID string, ids []string, status, reason string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	return uc.resolve(ctx, actor, packageID, status, reason, func(members []*entity.Requisition) ([]*entity.Requisition, error) {
		byID := make(map[string]*entity.Requisition, len(members))
		for _, m := range members {
			byID[m.ID] = m
		}
		selected := make([]*entity.Requisition, 0, len(ids))
		for _, id := range ids {
			m, ok := byID[id]
			if !ok {
				return nil, domain.ErrNotFound
			}
			if !m.IsPending() {
				return nil, domain.ErrConflict
			}
			selected = append(selected, m)
		}
		return selected, nil
	})
}

// resolve bloquea el paquete, elige los miembros a resolver con pick, aplica la transición
// y recalcula el estado agregado, todo en una transacción.
func (uc *PackageUseCase) resolve(
	ctx context.Context,
	actor entity.Actor,
	packageID, status, reason string,
	pick func(members []*entity.Requisition) ([]*entity.Requisition, error),
) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if packageID == "" {
		return domain.ErrInvalidInput
	}

	now := uc.now()
	var pkg *entity.Package
	var selected []*entity.Requisition
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		pkg, err = repos.Packages.GetForUpdate(ctx, packageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return domain.ErrNotFound
		}
		if rules.IsTerminalPackage(pkg.Status) {
			return domain.ErrConflict
		}
		members, err := repos.Requisitions.ListByPackage(ctx, packageID)
		if err != nil {
			return err
		}
		selected, err = pick(members)
		if err != nil {
			return err
		}
		if status == entity.StatusApproved {
			err = uc.approve(ctx, repos, actor, pkg, selected, now)
		} else {
			err = uc.reject(ctx, repos, selected, reason, now)
		}
		if err != nil {
			return err
		}
		return uc.recompute(ctx, repos, pkg, reason, now)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("package_id", pkg.ID).
		Str("actor_id", actor.UserID).
		Str("applied", status).
		Int("requisitions", len(selected)).
		Str("package_status", pkg.Status).
		Msg("paquete resuelto")
	uc.publish(ctx, ports.ResolutionEvent{
		PackageID:      pkg.ID,
		PackageStatus:  pkg.Status,
		RequisitionIDs: requisitionIDs(selected),
		Status:         status,
		ActorID:        actor.UserID,
		Reason:         reason,
		OccurredAt:     now,
	})
	return nil
}

// GetPendingPackages lista los paquetes pendientes con sus miembros (solo administradores).
func (uc *PackageUseCase) GetPendingPackages(ctx context.Context, actor entity.Actor) ([]dto.PackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.packageRepo.ListByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, list)
}

// GetUserPackages lista los paquetes de un usuario. Un usuario regular solo ve los propios.
func (uc *PackageUseCase) GetUserPackages(ctx context.Context, actor entity.Actor, userID string) ([]dto.PackageResponse, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.packageRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, list)
}

// GetPackage devuelve un paquete con sus miembros.
func (uc *PackageUseCase) GetPackage(ctx context.Context, actor entity.Actor, packageID string) (*dto.PackageResponse, error) {
	pkg, err := uc.visiblePackage(ctx, actor, packageID)
	if err != nil {
		return nil, err
	}
	out, err := uc.withItems(ctx, []*entity.Package{pkg})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// GetPackageItems lista las requisiciones de un paquete.
func (uc *PackageUseCase) GetPackageItems(ctx context.Context, actor entity.Actor, packageID string) ([]dto.RequisitionResponse, error) {
	if _, err := uc.visiblePackage(ctx, actor, packageID); err != nil {
		return nil, err
	}
	members, err := uc.reqRepo.ListByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return ToRequisitionResponses(members), nil
}

func (uc *PackageUseCase) visiblePackage(ctx context.Context, actor entity.Actor, packageID string) (*entity.Package, error) {
	pkg, err := uc.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	if pkg.RequesterID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return pkg, nil
}

func (uc *PackageUseCase) withItems(ctx context.Context, list []*entity.Package) ([]dto.PackageResponse, error) {
	out := make([]dto.PackageResponse, 0, len(list))
	for _, p := range list {
		members, err := uc.reqRepo.ListByPackage(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		resp := ToPackageResponse(p)
		resp.Items = ToRequisitionResponses(members)
		out = append(out, resp)
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
