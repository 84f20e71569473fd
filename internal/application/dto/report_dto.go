package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReportLine fila del reporte de stock.
type StockReportLine struct {
	ItemID     string          `json:"item_id"`
	Name       string          `json:"name"`
	Series     string          `json:"series"`
	Quantity   int             `json:"quantity"`
	Minimum    int             `json:"minimum"`
	Ideal      int             `json:"ideal"`
	Level      string          `json:"level"`
	UnitValue  decimal.Decimal `json:"unit_value"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// StockReport reporte de stock con totales.
type StockReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Lines       []StockReportLine `json:"lines"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	Critical    int               `json:"critical"`
	Low         int               `json:"low"`
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Items        int `json:"items"`
	Movements    int `json:"movements"`
	Packages     int `json:"packages"`
	Requisitions int `json:"requisitions"`
}

// Snapshot copia completa del inventario para exportar/restaurar.
// Los usuarios no se incluyen.
type Snapshot struct {
	Version      int                   `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	Items        []ItemResponse        `json:"items"`
	Movements    []MovementResponse    `json:"movements"`
	Packages     []PackageResponse     `json:"packages"`
	Requisitions []RequisitionResponse `json:"requisitions"`
}

// MovementReport reporte de movimientos filtrado.
type MovementReport struct {
	GeneratedAt      time.Time          `json:"generated_at"`
	Movements        []MovementResponse `json:"movements"`
	TotalEntries     int                `json:"total_entries"`
	TotalWithdrawals int                `json:"total_withdrawals"`
}
