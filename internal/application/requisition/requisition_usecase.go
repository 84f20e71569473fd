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
	"github.com/rs/zerolog"
)

// RequisitionUseCase gestiona requisiciones individuales y la resolución de
// requisiciones sueltas. Si la requisición pertenece a un paquete, el paquete se
// bloquea y su estado se recalcula en la misma transacción.
type RequisitionUseCase struct {
	*engine
	reqRepo repository.RequisitionRepository
}

// NewRequisitionUseCase construye el caso de uso de requisiciones.
func NewRequisitionUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	reqRepo repository.RequisitionRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *RequisitionUseCase {
	return &RequisitionUseCase{
		engine:  newEngine(txRunner, ledger, publisher, log),
		reqRepo: reqRepo,
	}
}

// CreateRequisitionInput datos de una requisición individual.
type CreateRequisitionInput struct {
	ItemID        string
	Quantity      int
	CostCenter    string
	Project       string
	Justification string
}

// CreateRequisition valida disponibilidad y persiste una requisición pendiente sin paquete.
func (uc *RequisitionUseCase) CreateRequisition(ctx context.Context, actor entity.Actor, in CreateRequisitionInput) (*entity.Requisition, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ItemID == "" || in.Quantity <= 0 ||
		strings.TrimSpace(in.CostCenter) == "" || strings.TrimSpace(in.Project) == "" {
		return nil, domain.ErrInvalidInput
	}
	req := &entity.Requisition{
		ID:            uuid.New().String(),
		RequesterID:   actor.UserID,
		ItemID:        in.ItemID,
		Quantity:      in.Quantity,
		CostCenter:    in.CostCenter,
		Project:       in.Project,
		Justification: in.Justification,
		Status:        entity.StatusPending,
		CreatedAt:     uc.now(),
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		if err := checkAvailability(ctx, repos, []entity.PackageLine{{ItemID: in.ItemID, Quantity: in.Quantity}}); err != nil {
			return err
		}
		return repos.Requisitions.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("requisition_id", req.ID).Str("requester_id", actor.UserID).
		Str("item_id", req.ItemID).Int("quantity", req.Quantity).Msg("requisición creada")
	return req, nil
}

// CreateRequisitionFromRequest adapta el request HTTP.
func (uc *RequisitionUseCase) CreateRequisitionFromRequest(ctx context.Context, actor entity.Actor, in dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
	req, err := uc.CreateRequisition(ctx, actor, CreateRequisitionInput{
		ItemID:        in.ItemID,
		Quantity:      in.Quantity,
		CostCenter:    in.CostCenter,
		Project:       in.Project,
		Justification: in.Justification,
	})
	if err != nil {
		return nil, err
	}
	resp := ToRequisitionResponse(req)
	return &resp, nil
}

// ApproveRequisition aprueba una requisición y debita su cantidad.
func (uc *RequisitionUseCase) ApproveRequisition(ctx context.Context, actor entity.Actor, requisitionID string) error {
	return uc.resolveOne(ctx, actor, requisitionID, entity.StatusApproved, "")
}

// RejectRequisition rechaza una requisición con el motivo indicado.
func (uc *RequisitionUseCase) RejectRequisition(ctx context.Context, actor entity.Actor, requisitionID, reason string) error {
	return uc.resolveOne(ctx, actor, requisitionID, entity.StatusRejected, reason)
}

func (uc *RequisitionUseCase) resolveOne(ctx context.Context, actor entity.Actor, requisitionID, status, reason string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if requisitionID == "" {
		return domain.ErrInvalidInput
	}

	now := uc.now()
	var req *entity.Requisition
	var pkg *entity.Package
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		req, err = repos.Requisitions.GetByID(ctx, requisitionID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.PackageID != "" {
			pkg, err = repos.Packages.GetForUpdate(ctx, req.PackageID)
			if err != nil {
				return err
			}
			if pkg == nil {
				return domain.ErrNotFound
			}
		}
		if status == entity.StatusApproved {
			err = uc.approve(ctx, repos, actor, pkg, []*entity.Requisition{req}, now)
		} else {
			err = uc.reject(ctx, repos, []*entity.Requisition{req}, reason, now)
		}
		if err != nil {
			return err
		}
		if pkg != nil {
			return uc.recompute(ctx, repos, pkg, "", now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ev := ports.ResolutionEvent{
		RequisitionIDs: []string{req.ID},
		Status:         status,
		ActorID:        actor.UserID,
		Reason:         reason,
		OccurredAt:     now,
	}
	l := uc.log.Info().Str("requisition_id", req.ID).Str("actor_id", actor.UserID).Str("status", status)
	if pkg != nil {
		ev.PackageID = pkg.ID
		ev.PackageStatus = pkg.Status
		l = l.Str("package_id", pkg.ID).Str("package_status", pkg.Status)
	}
	l.Msg("requisición resuelta")
	uc.publish(ctx, ev)
	return nil
}

// ListPending lista requisiciones individuales pendientes (solo administradores).
func (uc *RequisitionUseCase) ListPending(ctx context.Context, actor entity.Actor) ([]dto.RequisitionResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.reqRepo.ListPendingIndividual(ctx)
	if err != nil {
		return nil, err
	}
	return ToRequisitionResponses(list), nil
}

// ListByUser lista las requisiciones individuales de un usuario.
func (uc *RequisitionUseCase) ListByUser(ctx context.Context, actor entity.Actor, userID string) ([]dto.RequisitionResponse, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.reqRepo.ListIndividualByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToRequisitionResponses(list), nil
}
