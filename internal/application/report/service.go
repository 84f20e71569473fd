// Package report arma reportes de stock y movimientos y orquesta la
// importación y exportación del inventario.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SnapshotVersion versión del formato JSON de respaldo.
const SnapshotVersion = 1

// ImportNote descripción de los movimientos creados al importar ítems.
const ImportNote = "importación de ítems"

// Deps dependencias del servicio de reportes.
type Deps struct {
	TxRunner     inventory.TxRunner
	Ledger       *inventory.Ledger
	Items        repository.ItemRepository
	Movements    repository.MovementRepository
	Packages     repository.PackageRepository
	Requisitions repository.RequisitionRepository
	PDF          StockPDFRenderer
	Sheets       SpreadsheetCodec
	XML          InventoryXMLEncoder
	Log          zerolog.Logger
}

// Service reportes e importación/exportación. Todas las operaciones son de administrador.
type Service struct {
	d   Deps
	now func() time.Time
}

// NewService construye el servicio.
func NewService(d Deps) *Service {
	return &Service{d: d, now: time.Now}
}

// StockReport clasifica cada ítem por nivel y valoriza el stock.
func (s *Service) StockReport(ctx context.Context, actor entity.Actor) (*dto.StockReport, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	items, err := s.d.Items.List(ctx, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	rep := &dto.StockReport{
		GeneratedAt: s.now(),
		Lines:       make([]dto.StockReportLine, 0, len(items)),
		TotalValue:  decimal.Zero,
	}
	for _, it := range items {
		level := it.StockLevel()
		switch level {
		case entity.StockLevelCritical:
			rep.Critical++
		case entity.StockLevelLow:
			rep.Low++
		}
		total := it.StockValue()
		rep.TotalValue = rep.TotalValue.Add(total)
		rep.Lines = append(rep.Lines, dto.StockReportLine{
			ItemID:     it.ID,
			Name:       it.Name,
			Series:     it.Series,
			Quantity:   it.Quantity,
			Minimum:    it.Minimum,
			Ideal:      it.Ideal,
			Level:      level,
			UnitValue:  it.Value,
			TotalValue: total,
		})
	}
	return rep, nil
}

// StockReportPDF genera el reporte de stock en PDF.
func (s *Service) StockReportPDF(ctx context.Context, actor entity.Actor) ([]byte, error) {
	rep, err := s.StockReport(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.d.PDF.RenderStockReport(ctx, rep)
}

// MovementReport lista los movimientos del filtro con totales por tipo.
func (s *Service) MovementReport(ctx context.Context, actor entity.Actor, filter entity.MovementFilter) (*dto.MovementReport, error) {
	movs, err := s.movements(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	rep := &dto.MovementReport{
		GeneratedAt: s.now(),
		Movements:   make([]dto.MovementResponse, 0, len(movs)),
	}
	for _, m := range movs {
		if m.Kind == entity.MovementKindEntry {
			rep.TotalEntries += m.Quantity
		} else {
			rep.TotalWithdrawals += m.Quantity
		}
		rep.Movements = append(rep.Movements, inventory.ToMovementResponse(m))
	}
	return rep, nil
}

// MovementReportXLSX exporta los movimientos del filtro a XLSX.
func (s *Service) MovementReportXLSX(ctx context.Context, actor entity.Actor, filter entity.MovementFilter) ([]byte, error) {
	movs, err := s.movements(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	return s.d.Sheets.EncodeMovements(movs)
}

func (s *Service) movements(ctx context.Context, actor entity.Actor, filter entity.MovementFilter) ([]*entity.Movement, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if filter.Kind != "" && filter.Kind != entity.MovementKindEntry && filter.Kind != entity.MovementKindWithdrawal {
		return nil, domain.ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}
	return s.d.Movements.List(ctx, filter)
}

// ExportSnapshot copia completa de ítems, movimientos, paquetes y requisiciones.
func (s *Service) ExportSnapshot(ctx context.Context, actor entity.Actor) (*dto.Snapshot, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	items, err := s.d.Items.List(ctx, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	movs, err := s.d.Movements.List(ctx, entity.MovementFilter{})
	if err != nil {
		return nil, err
	}
	pkgs, err := s.d.Packages.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.d.Requisitions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := &dto.Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   s.now(),
		Items:        make([]dto.ItemResponse, 0, len(items)),
		Movements:    make([]dto.MovementResponse, 0, len(movs)),
		Packages:     make([]dto.PackageResponse, 0, len(pkgs)),
		Requisitions: requisition.ToRequisitionResponses(reqs),
	}
	for _, it := range items {
		snap.Items = append(snap.Items, *usecase.ToItemResponse(it))
	}
	for _, m := range movs {
		snap.Movements = append(snap.Movements, inventory.ToMovementResponse(m))
	}
	for _, p := range pkgs {
		snap.Packages = append(snap.Packages, requisition.ToPackageResponse(p))
	}
	return snap, nil
}

// ExportItems exporta el catálogo en XLSX o CSV.
func (s *Service) ExportItems(ctx context.Context, actor entity.Actor, format string) ([]byte, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, domain.ErrInvalidInput
	}
	items, err := s.d.Items.List(ctx, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	return s.d.Sheets.EncodeItems(format, items)
}

// ExportInventoryXML exporta el inventario en XML.
func (s *Service) ExportInventoryXML(ctx context.Context, actor entity.Actor) ([]byte, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	items, err := s.d.Items.List(ctx, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	return s.d.XML.EncodeInventory(items, s.now())
}

// ImportSnapshot reemplaza todo el inventario por el respaldo: borra y luego inserta,
// en una única transacción. Si algo falla el estado previo queda intacto.
func (s *Service) ImportSnapshot(ctx context.Context, actor entity.Actor, snap *dto.Snapshot) (*dto.ImportResult, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	data, err := fromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	err = s.d.TxRunner.Run(ctx, func(repos inventory.Repos) error {
		if err := repos.Requisitions.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.Packages.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.Movements.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.Items.DeleteAll(ctx); err != nil {
			return err
		}
		for _, it := range data.items {
			if err := repos.Items.Create(ctx, it); err != nil {
				return fmt.Errorf("importar ítem %s: %w", it.ID, err)
			}
		}
		for _, m := range data.movements {
			if err := repos.Movements.Create(ctx, m); err != nil {
				return fmt.Errorf("importar movimiento %s: %w", m.ID, err)
			}
		}
		for _, p := range data.packages {
			if err := repos.Packages.Create(ctx, p); err != nil {
				return fmt.Errorf("importar paquete %s: %w", p.ID, err)
			}
		}
		for _, r := range data.requisitions {
			if err := repos.Requisitions.Create(ctx, r); err != nil {
				return fmt.Errorf("importar requisición %s: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res := &dto.ImportResult{
		Items:        len(data.items),
		Movements:    len(data.movements),
		Packages:     len(data.packages),
		Requisitions: len(data.requisitions),
	}
	s.d.Log.Info().Str("actor_id", actor.UserID).Int("items", res.Items).Int("movements", res.Movements).
		Int("packages", res.Packages).Int("requisitions", res.Requisitions).Msg("respaldo restaurado")
	return res, nil
}

// ImportItems carga ítems desde XLSX/CSV en una transacción. Una serie ya registrada
// repone stock del ítem existente; el resto se crean. Toda cantidad entra por el libro de stock.
func (s *Service) ImportItems(ctx context.Context, actor entity.Actor, format string, r io.Reader) (*dto.ImportResult, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, domain.ErrInvalidInput
	}
	rows, err := s.d.Sheets.DecodeItems(format, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	res := &dto.ImportResult{}
	err = s.d.TxRunner.Run(ctx, func(repos inventory.Repos) error {
		res.Items, res.Movements = 0, 0
		for _, row := range rows {
			created, moved, err := s.importRow(ctx, repos, actor, row)
			if err != nil {
				return fmt.Errorf("fila %d: %w", row.Line, err)
			}
			if created {
				res.Items++
			}
			if moved {
				res.Movements++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.d.Log.Info().Str("actor_id", actor.UserID).Str("format", format).
		Int("items", res.Items).Int("movements", res.Movements).Msg("ítems importados")
	return res, nil
}

func (s *Service) importRow(ctx context.Context, repos inventory.Repos, actor entity.Actor, row ItemRow) (created, moved bool, err error) {
	if strings.TrimSpace(row.Name) == "" || row.Quantity < 0 || row.Minimum < 0 || row.Ideal < 0 || row.Value.IsNegative() {
		return false, false, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetBySeries(ctx, strings.TrimSpace(row.Series))
	if err != nil {
		return false, false, err
	}
	if item == nil {
		now := s.now()
		item = &entity.Item{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(row.Name),
			Series:      strings.TrimSpace(row.Series),
			Description: row.Description,
			Origin:      row.Origin,
			Destination: row.Destination,
			Value:       row.Value,
			Invoice:     row.Invoice,
			Minimum:     row.Minimum,
			Ideal:       row.Ideal,
			Notes:       row.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return false, false, err
		}
		created = true
	}
	if row.Quantity == 0 {
		return created, false, nil
	}
	_, err = s.d.Ledger.Credit(ctx, repos, inventory.Change{
		ItemID:   item.ID,
		Quantity: row.Quantity,
		Place:    row.Origin,
		Note:     ImportNote,
		ActorID:  actor.UserID,
	})
	if err != nil {
		return false, false, err
	}
	return created, true, nil
}
