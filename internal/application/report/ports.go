package report

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Formatos de hoja de cálculo soportados.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ItemRow fila de ítem leída de una hoja de cálculo.
type ItemRow struct {
	Line        int // número de fila en el archivo, para reportar errores
	Name        string
	Series      string
	Description string
	Origin      string
	Destination string
	Value       decimal.Decimal
	Invoice     string
	Quantity    int
	Minimum     int
	Ideal       int
	Notes       string
}

// StockPDFRenderer genera el PDF del reporte de stock.
type StockPDFRenderer interface {
	RenderStockReport(ctx context.Context, rep *dto.StockReport) ([]byte, error)
}

// SpreadsheetCodec lee y escribe ítems y movimientos en XLSX/CSV.
type SpreadsheetCodec interface {
	EncodeItems(format string, items []*entity.Item) ([]byte, error)
	EncodeMovements(movs []*entity.Movement) ([]byte, error)
	// DecodeItems devuelve un error que envuelve domain.ErrInvalidInput ante filas inválidas.
	DecodeItems(format string, r io.Reader) ([]ItemRow, error)
}

// InventoryXMLEncoder serializa el inventario a XML.
type InventoryXMLEncoder interface {
	EncodeInventory(items []*entity.Item, generatedAt time.Time) ([]byte, error)
}
