package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

func TestStore_RunRevierteAnteError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "A", Name: "Tubo", Quantity: 5}))

	boom := errors.New("boom")
	err := s.Run(ctx, func(repos inventory.Repos) error {
		ok, err := repos.Items.SubtractIfAvailable(ctx, "A", 5)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m1", ItemID: "A", Kind: entity.MovementKindWithdrawal, Quantity: 5}))
		require.NoError(t, repos.Packages.Create(ctx, &entity.Package{ID: "p1", Status: entity.StatusPending}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	it, err := s.Items().GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)
	movs, err := s.Movements().List(ctx, entity.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
	p, err := s.Packages().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStore_RunRevierteAntePanic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "A", Name: "Tubo", Quantity: 5}))

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.Run(ctx, func(repos inventory.Repos) error {
			ok, err := repos.Items.SubtractIfAvailable(ctx, "A", 3)
			require.NoError(t, err)
			require.True(t, ok)
			require.NoError(t, repos.Packages.Create(ctx, &entity.Package{ID: "p1", Status: entity.StatusPending}))
			panic("boom")
		})
	})

	it, err := s.Items().GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)
	p, err := s.Packages().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	// El mutex quedó libre: otra transacción puede correr.
	require.NoError(t, s.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Items.AddQuantity(ctx, "A", 1)
		return err
	}))
	it, err = s.Items().GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 6, it.Quantity)
}

func TestStore_RunContextoCancelado(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(inventory.Repos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestItemRepo_RestaCondicional(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	items := s.Items()
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "A", Name: "Tubo", Quantity: 3}))

	ok, err := items.SubtractIfAvailable(ctx, "A", 4)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = items.SubtractIfAvailable(ctx, "A", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = items.SubtractIfAvailable(ctx, "X", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := items.AddQuantity(ctx, "X", 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestItemRepo_UpdateNoTocaCantidadYBusca(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	items := s.Items()
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "A", Name: "Válvula de Presión", Series: "VP-1", Quantity: 7}))
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "B", Name: "Codo", Quantity: 0, Minimum: 1}))
	assert.ErrorIs(t, items.Create(ctx, &entity.Item{ID: "C", Name: "Otro", Series: "VP-1"}), domain.ErrDuplicate)

	require.NoError(t, items.Update(ctx, &entity.Item{ID: "A", Name: "Valvula de presion", Series: "VP-1", Quantity: 999}))
	it, err := items.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 7, it.Quantity)

	found, err := items.List(ctx, entity.ItemFilter{Search: "VALVULA"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A", found[0].ID)

	below, err := items.List(ctx, entity.ItemFilter{BelowMinimum: true})
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, "B", below[0].ID)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.Users()
	require.NoError(t, users.Create(ctx, &entity.User{ID: "1", Email: "Ana@Empresa.co"}))
	assert.ErrorIs(t, users.Create(ctx, &entity.User{ID: "2", Email: "ana@empresa.co"}), domain.ErrEmailAlreadyExists)

	u, err := users.GetByEmail(ctx, "ANA@empresa.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1", u.ID)
}
