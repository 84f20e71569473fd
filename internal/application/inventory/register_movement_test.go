package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

func TestRegisterMovement_SoloAdministrador(t *testing.T) {
	s := newStore(t, &entity.Item{ID: "A", Name: "Arena", Quantity: 1})
	uc := inventory.NewRegisterMovementUseCase(s, inventory.NewLedger(), s.Movements())
	user := entity.Actor{UserID: "u1", Role: entity.RoleUser}

	_, err := uc.RegisterEntry(context.Background(), user, inventory.Change{ItemID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.RegisterWithdrawal(context.Background(), user, inventory.Change{ItemID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_DesdeRequestYListado(t *testing.T) {
	s := newStore(t, &entity.Item{ID: "A", Name: "Arena", Quantity: 1})
	uc := inventory.NewRegisterMovementUseCase(s, inventory.NewLedger(), s.Movements())
	ctx := context.Background()

	entry, err := uc.RegisterEntryFromRequest(ctx, admin, dto.RegisterEntryRequest{ItemID: "A", Quantity: 4, Origin: "Bodega central", Note: "compra"})
	require.NoError(t, err)
	assert.Equal(t, "Bodega central", entry.Place)
	assert.Equal(t, admin.UserID, entry.CreatedBy)

	out, err := uc.RegisterWithdrawalFromRequest(ctx, admin, dto.RegisterWithdrawalRequest{ItemID: "A", Quantity: 5, Destination: "Obra 3"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindWithdrawal, out.Kind)

	_, err = uc.RegisterWithdrawalFromRequest(ctx, admin, dto.RegisterWithdrawalRequest{ItemID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := uc.ListMovements(ctx, entity.MovementFilter{ItemID: "A"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 50, list.Page.Limit)

	list, err = uc.ListMovements(ctx, entity.MovementFilter{Kind: entity.MovementKindEntry})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = uc.ListMovements(ctx, entity.MovementFilter{Kind: "ajuste"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
