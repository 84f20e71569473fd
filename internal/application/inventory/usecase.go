package inventory

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// RegisterEntryFromRequest adapta el request HTTP al caso de uso RegisterEntry.
func (uc *RegisterMovementUseCase) RegisterEntryFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterEntryRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RegisterEntry(ctx, actor, Change{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Place:    in.Origin,
		Note:     in.Note,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// RegisterWithdrawalFromRequest adapta el request HTTP al caso de uso RegisterWithdrawal.
func (uc *RegisterMovementUseCase) RegisterWithdrawalFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterWithdrawalRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RegisterWithdrawal(ctx, actor, Change{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Place:    in.Destination,
		Note:     in.Note,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}
