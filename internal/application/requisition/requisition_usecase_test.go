package requisition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

func TestRequisition_IndividualCrearYAprobar(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 2, 5)

	req, err := f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{
		ItemID: "A", Quantity: 4, CostCenter: "CC9", Project: "P9", Justification: "mantenimiento",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, req.Status)
	assert.Empty(t, req.PackageID)
	assert.Equal(t, 10, f.quantity(t, "A"))

	require.NoError(t, f.reqs.ApproveRequisition(ctx, admin, req.ID))
	assert.Equal(t, 6, f.quantity(t, "A"))

	movs := f.withdrawals(t, "A")
	require.Len(t, movs, 1)
	assert.Equal(t, 4, movs[0].Quantity)
	assert.Contains(t, movs[0].Description, req.ID)

	assert.ErrorIs(t, f.reqs.ApproveRequisition(ctx, admin, req.ID), domain.ErrConflict)
	assert.ErrorIs(t, f.reqs.RejectRequisition(ctx, admin, req.ID, "x"), domain.ErrConflict)
	assert.Equal(t, 6, f.quantity(t, "A"))

	require.Len(t, f.pub.events, 1)
	assert.Empty(t, f.pub.events[0].PackageID)
}

func TestRequisition_CrearValida(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 3, 0, 0)

	_, err := f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 0, CostCenter: "C", Project: "P"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 1, Project: "P"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 4, CostCenter: "C", Project: "P"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.reqs.CreateRequisition(ctx, entity.Actor{}, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 1, CostCenter: "C", Project: "P"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	all, err := f.store.Requisitions().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRequisition_AprobarSinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 5, 0, 0)

	first, err := f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 4, CostCenter: "C", Project: "P"})
	require.NoError(t, err)
	second, err := f.reqs.CreateRequisition(ctx, user2, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 4, CostCenter: "C", Project: "P"})
	require.NoError(t, err)

	require.NoError(t, f.reqs.ApproveRequisition(ctx, admin, first.ID))
	err = f.reqs.ApproveRequisition(ctx, admin, second.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.store.Requisitions().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, 1, f.quantity(t, "A"))

	require.NoError(t, f.reqs.RejectRequisition(ctx, admin, second.ID, "sin stock"))
	got, err = f.store.Requisitions().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, got.Status)
	assert.Equal(t, "sin stock", got.Resolution)
}

func TestRequisition_MiembroDePaqueteRecalculaEstado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 2), line("B", 3))
	m := f.members(t, pkgID)

	require.NoError(t, f.reqs.ApproveRequisition(ctx, admin, m[0].ID))
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, pkgID))
	assert.Equal(t, 8, f.quantity(t, "A"))

	require.NoError(t, f.reqs.RejectRequisition(ctx, admin, m[1].ID, "no"))
	assert.Equal(t, entity.StatusPartiallyApproved, f.packageStatus(t, pkgID))

	movs := f.withdrawals(t, "A")
	require.Len(t, movs, 1)
	assert.Contains(t, movs[0].Description, pkgID)

	last := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, pkgID, last.PackageID)
	assert.Equal(t, entity.StatusPartiallyApproved, last.PackageStatus)
}

func TestRequisition_ErroresDeResolucion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	req, err := f.reqs.CreateRequisition(ctx, user1, requisition.CreateRequisitionInput{ItemID: "A", Quantity: 1, CostCenter: "C", Project: "P"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.reqs.ApproveRequisition(ctx, user1, req.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.reqs.ApproveRequisition(ctx, admin, "no-existe"), domain.ErrNotFound)
	assert.ErrorIs(t, f.reqs.RejectRequisition(ctx, admin, "", "x"), domain.ErrInvalidInput)
}

func TestRequisition_Listados(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	in := requisition.CreateRequisitionInput{ItemID: "A", Quantity: 1, CostCenter: "C", Project: "P"}

	r1, err := f.reqs.CreateRequisition(ctx, user1, in)
	require.NoError(t, err)
	_, err = f.reqs.CreateRequisition(ctx, user2, in)
	require.NoError(t, err)
	f.createPackage(t, user1, line("A", 1))

	pending, err := f.reqs.ListPending(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "los miembros de paquetes no son individuales")

	_, err = f.reqs.ListPending(ctx, user1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine, err := f.reqs.ListByUser(ctx, user1, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r1.ID, mine[0].ID)

	_, err = f.reqs.ListByUser(ctx, user1, user2.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.reqs.ApproveRequisition(ctx, admin, r1.ID))
	pending, err = f.reqs.ListPending(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
