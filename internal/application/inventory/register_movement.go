package inventory

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas y salidas manuales de stock,
// cada una en su propia transacción (Commit/Rollback vía TxRunner).
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	movementRepo repository.MovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, ledger *Ledger, movementRepo repository.MovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		movementRepo: movementRepo,
	}
}

// RegisterEntry acredita stock (solo administradores).
func (uc *RegisterMovementUseCase) RegisterEntry(ctx context.Context, actor entity.Actor, ch Change) (*entity.Movement, error) {
	return uc.register(ctx, actor, ch, uc.ledger.Credit)
}

// RegisterWithdrawal debita stock (solo administradores). Falla con InsufficientStockError
// si la cantidad disponible no alcanza.
func (uc *RegisterMovementUseCase) RegisterWithdrawal(ctx context.Context, actor entity.Actor, ch Change) (*entity.Movement, error) {
	return uc.register(ctx, actor, ch, uc.ledger.Debit)
}

func (uc *RegisterMovementUseCase) register(
	ctx context.Context,
	actor entity.Actor,
	ch Change,
	apply func(context.Context, Repos, Change) (*entity.Movement, error),
) (*entity.Movement, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	ch.ActorID = actor.UserID
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		mov, err = apply(ctx, repos, ch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements lista movimientos según filtro (paginado).
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, filter entity.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Kind != "" && filter.Kind != entity.MovementKindEntry && filter.Kind != entity.MovementKindWithdrawal {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ToMovementResponse mapea la entidad a su DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		Place:       m.Place,
		Description: m.Description,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
