package report_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/xmlexport"
)

var (
	admin = entity.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	user  = entity.Actor{UserID: "u1", Role: entity.RoleUser}
)

type fakePDF struct{ got *dto.StockReport }

func (f *fakePDF) RenderStockReport(_ context.Context, rep *dto.StockReport) ([]byte, error) {
	f.got = rep
	return []byte("%PDF-fake"), nil
}

func newService(t *testing.T) (*report.Service, *memory.Store, *fakePDF) {
	t.Helper()
	s := memory.NewStore()
	pdf := &fakePDF{}
	svc := report.NewService(report.Deps{
		TxRunner:     s,
		Ledger:       inventory.NewLedger(),
		Items:        s.Items(),
		Movements:    s.Movements(),
		Packages:     s.Packages(),
		Requisitions: s.Requisitions(),
		PDF:          pdf,
		Sheets:       spreadsheet.NewCodec(),
		XML:          xmlexport.NewEncoder(),
		Log:          zerolog.Nop(),
	})
	return svc, s, pdf
}

func seed(t *testing.T, s *memory.Store, items ...*entity.Item) {
	t.Helper()
	for _, it := range items {
		require.NoError(t, s.Items().Create(context.Background(), it))
	}
}

func TestStockReport_NivelesYValor(t *testing.T) {
	svc, s, pdf := newService(t)
	seed(t, s,
		&entity.Item{ID: "a", Name: "A", Quantity: 1, Minimum: 2, Ideal: 5, Value: decimal.NewFromInt(100)},
		&entity.Item{ID: "b", Name: "B", Quantity: 4, Minimum: 2, Ideal: 5, Value: decimal.NewFromInt(10)},
		&entity.Item{ID: "c", Name: "C", Quantity: 9, Minimum: 2, Ideal: 5, Value: decimal.RequireFromString("0.5")},
	)
	ctx := context.Background()

	rep, err := svc.StockReport(ctx, admin)
	require.NoError(t, err)
	require.Len(t, rep.Lines, 3)
	assert.Equal(t, 1, rep.Critical)
	assert.Equal(t, 1, rep.Low)
	assert.True(t, decimal.RequireFromString("144.5").Equal(rep.TotalValue))
	assert.Equal(t, entity.StockLevelCritical, rep.Lines[0].Level)

	out, err := svc.StockReportPDF(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Len(t, pdf.got.Lines, 3)

	_, err = svc.StockReport(ctx, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImportItems_CSVAcreditaYRepone(t *testing.T) {
	svc, s, _ := newService(t)
	seed(t, s, &entity.Item{ID: "x", Name: "Existente", Series: "EX-1", Quantity: 2})
	ctx := context.Background()

	csv := "Nombre,Serie,Cantidad,Origen\nGuantes,G-1,10,Proveedor\nExistente,EX-1,3,Proveedor\nGuantes bis,G-1,1,\nSin stock,,0,\n"
	res, err := svc.ImportItems(ctx, admin, report.FormatCSV, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items, "se crean Guantes y Sin stock")
	assert.Equal(t, 3, res.Movements)

	ex, err := s.Items().GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 5, ex.Quantity)

	g, err := s.Items().GetBySeries(ctx, "G-1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 11, g.Quantity)

	movs, err := s.Movements().List(ctx, entity.MovementFilter{Kind: entity.MovementKindEntry})
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, report.ImportNote, movs[0].Description)
}

func TestImportItems_FilaInvalidaNoDejaNada(t *testing.T) {
	svc, s, _ := newService(t)
	ctx := context.Background()

	csv := "Nombre,Cantidad,Valor\nBueno,4,100\n,3,100\n"
	_, err := svc.ImportItems(ctx, admin, report.FormatCSV, strings.NewReader(csv))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fila 3")

	items, err := s.Items().List(ctx, entity.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	movs, err := s.Movements().List(ctx, entity.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)

	_, err = svc.ImportItems(ctx, admin, "ods", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.ImportItems(ctx, user, report.FormatCSV, strings.NewReader(csv))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSnapshot_ExportarYRestaurar(t *testing.T) {
	svc, s, _ := newService(t)
	ctx := context.Background()
	seed(t, s, &entity.Item{ID: "A", Name: "A", Quantity: 10})

	ledger := inventory.NewLedger()
	pkgs := requisition.NewPackageUseCase(s, ledger, s.Packages(), s.Requisitions(), nil, zerolog.Nop())
	pkgID, err := pkgs.CreatePackage(ctx, user, requisition.CreatePackageInput{
		CostCenter: "CC", Project: "P", Lines: []entity.PackageLine{{ItemID: "A", Quantity: 4}},
	})
	require.NoError(t, err)
	require.NoError(t, pkgs.ApprovePackage(ctx, admin, pkgID))

	snap, err := svc.ExportSnapshot(ctx, admin)
	require.NoError(t, err)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	// cambios posteriores que la restauración debe descartar
	seed(t, s, &entity.Item{ID: "B", Name: "B", Quantity: 1})

	var back dto.Snapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	res, err := svc.ImportSnapshot(ctx, admin, &back)
	require.NoError(t, err)
	assert.Equal(t, dto.ImportResult{Items: 1, Movements: 1, Packages: 1, Requisitions: 1}, *res)

	b, err := s.Items().GetByID(ctx, "B")
	require.NoError(t, err)
	assert.Nil(t, b)
	a, err := s.Items().GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 6, a.Quantity)
	p, err := s.Packages().GetByID(ctx, pkgID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, p.Status)
}

func TestSnapshot_InvalidoDejaEstadoPrevio(t *testing.T) {
	svc, s, _ := newService(t)
	ctx := context.Background()
	seed(t, s, &entity.Item{ID: "A", Name: "A", Quantity: 10})

	cases := map[string]*dto.Snapshot{
		"nil":              nil,
		"versión":          {Version: 99},
		"cantidad negativa": {Version: report.SnapshotVersion, Items: []dto.ItemResponse{{ID: "Z", Name: "Z", Quantity: -1}}},
		"ítem inexistente": {Version: report.SnapshotVersion, Movements: []dto.MovementResponse{{ID: "m", ItemID: "Z", Kind: "entry", Quantity: 1}}},
		"estado incoherente": {
			Version:      report.SnapshotVersion,
			Items:        []dto.ItemResponse{{ID: "Z", Name: "Z"}},
			Packages:     []dto.PackageResponse{{ID: "p", Status: entity.StatusApproved}},
			Requisitions: []dto.RequisitionResponse{{ID: "r", ItemID: "Z", Quantity: 1, Status: entity.StatusPending, PackageID: "p"}},
		},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ImportSnapshot(ctx, admin, snap)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	a, err := s.Items().GetByID(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 10, a.Quantity)
}

func TestExports(t *testing.T) {
	svc, s, _ := newService(t)
	ctx := context.Background()
	seed(t, s, &entity.Item{ID: "A", Name: "Arena", Quantity: 3})

	csv, err := svc.ExportItems(ctx, admin, report.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Arena")

	xlsx, err := svc.ExportItems(ctx, admin, report.FormatXLSX)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(xlsx), "PK"))

	xml, err := svc.ExportInventoryXML(ctx, admin)
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<Nombre>Arena</Nombre>")

	_, err = svc.ExportItems(ctx, admin, "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementReport_Totales(t *testing.T) {
	svc, s, _ := newService(t)
	ctx := context.Background()
	seed(t, s, &entity.Item{ID: "A", Name: "Arena", Quantity: 0})
	uc := inventory.NewRegisterMovementUseCase(s, inventory.NewLedger(), s.Movements())
	_, err := uc.RegisterEntry(ctx, admin, inventory.Change{ItemID: "A", Quantity: 7})
	require.NoError(t, err)
	_, err = uc.RegisterWithdrawal(ctx, admin, inventory.Change{ItemID: "A", Quantity: 2})
	require.NoError(t, err)

	rep, err := svc.MovementReport(ctx, admin, entity.MovementFilter{ItemID: "A"})
	require.NoError(t, err)
	assert.Len(t, rep.Movements, 2)
	assert.Equal(t, 7, rep.TotalEntries)
	assert.Equal(t, 2, rep.TotalWithdrawals)

	out, err := svc.MovementReportXLSX(ctx, admin, entity.MovementFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = svc.MovementReport(ctx, admin, entity.MovementFilter{Kind: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
