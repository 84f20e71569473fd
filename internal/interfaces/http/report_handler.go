package http

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
	mimePDF  = "application/pdf"
	mimeXML  = "application/xml; charset=utf-8"
)

// maxImportBytes tope del archivo de importación.
const maxImportBytes = 20 << 20

// ReportHandler reportes e importación/exportación (administrador).
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// StockReport godoc
// @Summary      Reporte de stock
// @Description  Nivel (critical, low, ok) y valorización de cada ítem.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	out, err := h.svc.StockReport(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockReportPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockReportPDF(c *fiber.Ctx) error {
	out, err := h.svc.StockReportPDF(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimePDF, "reporte-stock.pdf", out)
}

// MovementReport godoc
// @Summary      Reporte de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        kind     query  string  false  "entry | withdrawal"
// @Param        from     query  string  false  "Desde"
// @Param        to       query  string  false  "Hasta"
// @Success      200  {object}  dto.MovementReport
// @Router       /api/reports/movements [get]
func (h *ReportHandler) MovementReport(c *fiber.Ctx) error {
	filter, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.Limit, filter.Offset = 0, 0
	out, err := h.svc.MovementReport(c.UserContext(), Actor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MovementReportXLSX godoc
// @Summary      Reporte de movimientos en XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/reports/movements.xlsx [get]
func (h *ReportHandler) MovementReportXLSX(c *fiber.Ctx) error {
	filter, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.Limit, filter.Offset = 0, 0
	out, err := h.svc.MovementReportXLSX(c.UserContext(), Actor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimeXLSX, "movimientos.xlsx", out)
}

// ExportSnapshot godoc
// @Summary      Respaldo completo en JSON
// @Tags         export
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Snapshot
// @Router       /api/export/snapshot.json [get]
func (h *ReportHandler) ExportSnapshot(c *fiber.Ctx) error {
	out, err := h.svc.ExportSnapshot(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="respaldo.json"`)
	return c.JSON(out)
}

// ExportItemsXLSX godoc
// @Summary      Ítems en XLSX
// @Tags         export
// @Security     Bearer
// @Success      200  {file}  binary
// @Router       /api/export/items.xlsx [get]
func (h *ReportHandler) ExportItemsXLSX(c *fiber.Ctx) error {
	return h.exportItems(c, report.FormatXLSX, mimeXLSX, "items.xlsx")
}

// ExportItemsCSV godoc
// @Summary      Ítems en CSV
// @Tags         export
// @Security     Bearer
// @Success      200  {file}  binary
// @Router       /api/export/items.csv [get]
func (h *ReportHandler) ExportItemsCSV(c *fiber.Ctx) error {
	return h.exportItems(c, report.FormatCSV, mimeCSV, "items.csv")
}

func (h *ReportHandler) exportItems(c *fiber.Ctx, format, mime, filename string) error {
	out, err := h.svc.ExportItems(c.UserContext(), Actor(c), format)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mime, filename, out)
}

// ExportInventoryXML godoc
// @Summary      Inventario en XML
// @Tags         export
// @Security     Bearer
// @Produce      application/xml
// @Success      200  {file}  binary
// @Router       /api/export/inventory.xml [get]
func (h *ReportHandler) ExportInventoryXML(c *fiber.Ctx) error {
	out, err := h.svc.ExportInventoryXML(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimeXML, "inventario.xml", out)
}

// ImportSnapshot godoc
// @Summary      Restaurar respaldo JSON
// @Description  Reemplaza todo el inventario en una sola transacción; ante cualquier error no cambia nada.
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.Snapshot  true  "respaldo exportado"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/snapshot [post]
func (h *ReportHandler) ImportSnapshot(c *fiber.Ctx) error {
	var snap dto.Snapshot
	if err := json.Unmarshal(c.Body(), &snap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "respaldo JSON inválido"})
	}
	out, err := h.svc.ImportSnapshot(c.UserContext(), Actor(c), &snap)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ImportItems godoc
// @Summary      Importar ítems desde XLSX o CSV
// @Description  Todas las filas en una transacción; la cantidad de cada fila entra como movimiento.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "archivo .xlsx o .csv"
// @Param        format  query     string  false  "xlsx | csv (por defecto, según extensión)"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/import/items [post]
func (h *ReportHandler) ImportItems(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	if fh.Size > maxImportBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
	}
	format := strings.ToLower(c.Query("format"))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	}
	if format != report.FormatXLSX && format != report.FormatCSV {
		return respondError(c, domain.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	out, err := h.svc.ImportItems(c.UserContext(), Actor(c), format, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func sendFile(c *fiber.Ctx, mime, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
