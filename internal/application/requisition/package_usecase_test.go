package requisition_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/memory"
)

var (
	admin = entity.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	user1 = entity.Actor{UserID: "u1", Role: entity.RoleUser}
	user2 = entity.Actor{UserID: "u2", Role: entity.RoleUser}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.ResolutionEvent
	err    error
}

func (p *recordingPublisher) PublishResolution(_ context.Context, ev ports.ResolutionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	store *memory.Store
	pkgs  *requisition.PackageUseCase
	reqs  *requisition.RequisitionUseCase
	pub   *recordingPublisher
}

func newFixture(t *testing.T, runner inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	if runner == nil {
		runner = store
	}
	pub := &recordingPublisher{}
	ledger := inventory.NewLedger()
	return &fixture{
		store: store,
		pkgs:  requisition.NewPackageUseCase(runner, ledger, store.Packages(), store.Requisitions(), pub, zerolog.Nop()),
		reqs:  requisition.NewRequisitionUseCase(runner, ledger, store.Requisitions(), pub, zerolog.Nop()),
		pub:   pub,
	}
}

func (f *fixture) seedItem(t *testing.T, id string, qty, minimum, ideal int) {
	t.Helper()
	require.NoError(t, f.store.Items().Create(context.Background(), &entity.Item{
		ID: id, Name: "Ítem " + id, Quantity: qty, Minimum: minimum, Ideal: ideal, Value: decimal.NewFromInt(1000),
	}))
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Quantity
}

func (f *fixture) withdrawals(t *testing.T, itemID string) []*entity.Movement {
	t.Helper()
	list, err := f.store.Movements().List(context.Background(), entity.MovementFilter{ItemID: itemID, Kind: entity.MovementKindWithdrawal})
	require.NoError(t, err)
	return list
}

func (f *fixture) packageStatus(t *testing.T, id string) string {
	t.Helper()
	p, err := f.store.Packages().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Status
}

func (f *fixture) members(t *testing.T, pkgID string) []*entity.Requisition {
	t.Helper()
	list, err := f.store.Requisitions().ListByPackage(context.Background(), pkgID)
	require.NoError(t, err)
	return list
}

func (f *fixture) createPackage(t *testing.T, actor entity.Actor, lines ...entity.PackageLine) string {
	t.Helper()
	id, err := f.pkgs.CreatePackage(context.Background(), actor, requisition.CreatePackageInput{
		CostCenter: "CC1", Project: "P1", Justification: "test", Lines: lines,
	})
	require.NoError(t, err)
	return id
}

func line(itemID string, qty int) entity.PackageLine {
	return entity.PackageLine{ItemID: itemID, Quantity: qty}
}

func TestPackage_CrearNoDebita_AprobarDebita(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 2, 5)

	pkgID := f.createPackage(t, user1, line("A", 8))
	assert.Equal(t, 10, f.quantity(t, "A"), "crear no debe debitar")
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, pkgID))

	require.NoError(t, f.pkgs.ApprovePackage(ctx, admin, pkgID))

	assert.Equal(t, 2, f.quantity(t, "A"))
	movs := f.withdrawals(t, "A")
	require.Len(t, movs, 1)
	assert.Equal(t, 8, movs[0].Quantity)
	assert.Equal(t, "CC1", movs[0].Place)
	assert.Contains(t, movs[0].Description, "P1")
	assert.Equal(t, admin.UserID, movs[0].CreatedBy)

	members := f.members(t, pkgID)
	require.Len(t, members, 1)
	assert.Equal(t, entity.StatusApproved, members[0].Status)
	assert.Equal(t, entity.StatusApproved, f.packageStatus(t, pkgID))

	p, err := f.store.Packages().GetByID(ctx, pkgID)
	require.NoError(t, err)
	assert.NotNil(t, p.ApprovedAt)
}

func TestPackage_SegundoPaqueteSinStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 2, 5)

	first := f.createPackage(t, user1, line("A", 8))
	second := f.createPackage(t, user2, line("A", 5))
	require.NoError(t, f.pkgs.ApprovePackage(ctx, admin, first))

	err := f.pkgs.ApprovePackage(ctx, admin, second)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	itemID, ok := domain.InsufficientStockItem(err)
	require.True(t, ok)
	assert.Equal(t, "A", itemID)

	assert.Equal(t, 2, f.quantity(t, "A"))
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, second))
	assert.Equal(t, entity.StatusPending, f.members(t, second)[0].Status)
	assert.Len(t, f.withdrawals(t, "A"), 1)
}

func TestPackage_ReaprobarDevuelveConflicto(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 2, 5)

	pkgID := f.createPackage(t, user1, line("A", 3))
	require.NoError(t, f.pkgs.ApprovePackage(ctx, admin, pkgID))

	assert.ErrorIs(t, f.pkgs.ApprovePackage(ctx, admin, pkgID), domain.ErrConflict)
	assert.ErrorIs(t, f.pkgs.RejectPackage(ctx, admin, pkgID, "tarde"), domain.ErrConflict)
	assert.Equal(t, 7, f.quantity(t, "A"), "no debe debitar dos veces")
	assert.Len(t, f.withdrawals(t, "A"), 1)
}

func TestPackage_CrearEsTodoONada(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	_, err := f.pkgs.CreatePackage(ctx, user1, requisition.CreatePackageInput{
		CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("A", 5), line("B", 1000)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	itemID, _ := domain.InsufficientStockItem(err)
	assert.Equal(t, "B", itemID)

	pkgs, err := f.store.Packages().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pkgs)
	reqs, err := f.store.Requisitions().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Equal(t, 10, f.quantity(t, "A"))
	assert.Equal(t, 10, f.quantity(t, "B"))
}

func TestPackage_CrearSumaCantidadesPorItem(t *testing.T) {
	f := newFixture(t, nil)
	f.seedItem(t, "A", 10, 0, 0)

	_, err := f.pkgs.CreatePackage(context.Background(), user1, requisition.CreatePackageInput{
		CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("A", 6), line("A", 6)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPackage_CrearSumaQueDesbordaEsInsuficiente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)

	_, err := f.pkgs.CreatePackage(ctx, user1, requisition.CreatePackageInput{
		CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("A", math.MaxInt), line("A", 1)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	itemID, _ := domain.InsufficientStockItem(err)
	assert.Equal(t, "A", itemID)

	pkgs, err := f.store.Packages().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pkgs)
	reqs, err := f.store.Requisitions().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestPackage_CrearValidaEntrada(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)

	cases := map[string]requisition.CreatePackageInput{
		"sin centro de costo": {Project: "P1", Lines: []entity.PackageLine{line("A", 1)}},
		"sin proyecto":        {CostCenter: "CC1", Lines: []entity.PackageLine{line("A", 1)}},
		"sin líneas":          {CostCenter: "CC1", Project: "P1"},
		"cantidad cero":       {CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("A", 0)}},
		"cantidad negativa":   {CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("A", -2)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.pkgs.CreatePackage(ctx, user1, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := f.pkgs.CreatePackage(ctx, user1, requisition.CreatePackageInput{
		CostCenter: "CC1", Project: "P1", Lines: []entity.PackageLine{line("X", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPackage_RechazoTotal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 1), line("B", 2))
	require.NoError(t, f.pkgs.RejectPackage(ctx, admin, pkgID, "sin presupuesto"))

	assert.Equal(t, entity.StatusRejected, f.packageStatus(t, pkgID))
	for _, m := range f.members(t, pkgID) {
		assert.Equal(t, entity.StatusRejected, m.Status)
		assert.Equal(t, "sin presupuesto", m.Resolution)
		assert.NotNil(t, m.ResolvedAt)
	}
	assert.Equal(t, 10, f.quantity(t, "A"))
	assert.Equal(t, 10, f.quantity(t, "B"))
	assert.Empty(t, f.withdrawals(t, ""))
}

func TestPackage_EstadoDerivadoEnAprobacionParcial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)
	f.seedItem(t, "C", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 1), line("B", 2), line("C", 3))
	m := f.members(t, pkgID)
	require.Len(t, m, 3)

	require.NoError(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{m[0].ID}))
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, pkgID), "quedan pendientes")
	assert.Equal(t, 9, f.quantity(t, "A"))
	assert.Equal(t, 10, f.quantity(t, "B"))

	require.NoError(t, f.pkgs.RejectPackageItems(ctx, admin, pkgID, []string{m[1].ID}, "no aplica"))
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, pkgID))
	assert.Equal(t, 10, f.quantity(t, "B"))

	require.NoError(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{m[2].ID}))
	assert.Equal(t, entity.StatusPartiallyApproved, f.packageStatus(t, pkgID))
	assert.Equal(t, 7, f.quantity(t, "C"))

	assert.ErrorIs(t, f.pkgs.ApprovePackage(ctx, admin, pkgID), domain.ErrConflict)
}

func TestPackage_SubconjuntoQueCompletaElPaquete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 1), line("B", 1))
	m := f.members(t, pkgID)

	require.NoError(t, f.pkgs.RejectPackageItems(ctx, admin, pkgID, []string{m[0].ID, m[1].ID, m[0].ID}, "no"))
	assert.Equal(t, entity.StatusRejected, f.packageStatus(t, pkgID))
}

func TestPackage_AprobarTodoTrasParcial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 1), line("B", 1))
	m := f.members(t, pkgID)
	require.NoError(t, f.pkgs.RejectPackageItems(ctx, admin, pkgID, []string{m[0].ID}, "no"))

	require.NoError(t, f.pkgs.ApprovePackage(ctx, admin, pkgID))
	assert.Equal(t, entity.StatusPartiallyApproved, f.packageStatus(t, pkgID))
	assert.Equal(t, 10, f.quantity(t, "A"))
	assert.Equal(t, 9, f.quantity(t, "B"))
}

func TestPackage_SubconjuntoErrores(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 1), line("B", 1))
	m := f.members(t, pkgID)

	assert.ErrorIs(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{" "}), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{"otra"}), domain.ErrNotFound)
	assert.ErrorIs(t, f.pkgs.ApprovePackageItems(ctx, admin, "no-existe", []string{m[0].ID}), domain.ErrNotFound)
	assert.ErrorIs(t, f.pkgs.RejectPackage(ctx, admin, "no-existe", "x"), domain.ErrNotFound)

	require.NoError(t, f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{m[0].ID}))
	err := f.pkgs.ApprovePackageItems(ctx, admin, pkgID, []string{m[0].ID, m[1].ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 10, f.quantity(t, "B"), "el conflicto no aplica nada del subconjunto")
}

func TestPackage_SoloAdministradorResuelve(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	pkgID := f.createPackage(t, user1, line("A", 1))

	assert.ErrorIs(t, f.pkgs.ApprovePackage(ctx, user1, pkgID), domain.ErrForbidden)
	assert.ErrorIs(t, f.pkgs.RejectPackage(ctx, user1, pkgID, ""), domain.ErrForbidden)
	_, err := f.pkgs.GetPendingPackages(ctx, user1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 10, f.quantity(t, "A"))
}

func TestPackage_ConsultasPorUsuario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	mine := f.createPackage(t, user1, line("A", 1), line("A", 2))
	f.createPackage(t, user2, line("A", 1))

	list, err := f.pkgs.GetUserPackages(ctx, user1, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine, list[0].ID)
	assert.Len(t, list[0].Items, 2)

	_, err = f.pkgs.GetUserPackages(ctx, user1, user2.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err = f.pkgs.GetUserPackages(ctx, admin, user2.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	pending, err := f.pkgs.GetPendingPackages(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	items, err := f.pkgs.GetPackageItems(ctx, user1, mine)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.pkgs.GetPackageItems(ctx, user2, mine)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.pkgs.GetPackage(ctx, admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPackage_PublicaEventoTrasConfirmar(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.pub.err = errors.New("broker caído")

	pkgID := f.createPackage(t, user1, line("A", 4))
	require.NoError(t, f.pkgs.ApprovePackage(ctx, admin, pkgID), "un fallo al publicar no revierte")

	require.Len(t, f.pub.events, 1)
	ev := f.pub.events[0]
	assert.Equal(t, pkgID, ev.PackageID)
	assert.Equal(t, entity.StatusApproved, ev.PackageStatus)
	assert.Equal(t, admin.UserID, ev.ActorID)
	assert.Len(t, ev.RequisitionIDs, 1)
	assert.Equal(t, 6, f.quantity(t, "A"))
}

func TestPackage_AprobacionesConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.createPackage(t, user1, line("A", 3))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.pkgs.ApprovePackage(ctx, admin, ids[i])
		}(i)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, n-3, short)
	assert.Equal(t, 1, f.quantity(t, "A"))
	assert.Len(t, f.withdrawals(t, "A"), 3)
}

// failingRunner hace fallar la n-ésima escritura de movimiento dentro de la transacción.
type failingRunner struct {
	inner  inventory.TxRunner
	failAt int
}

type failingMovements struct {
	repository.MovementRepository
	calls  *int
	failAt int
}

func (m failingMovements) Create(ctx context.Context, mov *entity.Movement) error {
	*m.calls++
	if *m.calls == m.failAt {
		return errors.New("disco lleno")
	}
	return m.MovementRepository.Create(ctx, mov)
}

func (r *failingRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.inner.Run(ctx, func(repos inventory.Repos) error {
		calls := 0
		repos.Movements = failingMovements{MovementRepository: repos.Movements, calls: &calls, failAt: r.failAt}
		return fn(repos)
	})
}

func TestPackage_FalloDeAlmacenRevierteTodo(t *testing.T) {
	runner := &failingRunner{failAt: 2}
	f := newFixture(t, runner)
	runner.inner = f.store
	ctx := context.Background()
	f.seedItem(t, "A", 10, 0, 0)
	f.seedItem(t, "B", 10, 0, 0)

	pkgID := f.createPackage(t, user1, line("A", 4), line("B", 5))
	err := f.pkgs.ApprovePackage(ctx, admin, pkgID)
	require.Error(t, err)

	assert.Equal(t, 10, f.quantity(t, "A"))
	assert.Equal(t, 10, f.quantity(t, "B"))
	assert.Equal(t, entity.StatusPending, f.packageStatus(t, pkgID))
	for _, m := range f.members(t, pkgID) {
		assert.Equal(t, entity.StatusPending, m.Status)
	}
	assert.Empty(t, f.withdrawals(t, ""))
	assert.Empty(t, f.pub.events)
}
