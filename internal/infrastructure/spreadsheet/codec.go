// Package spreadsheet lee y escribe ítems y movimientos en XLSX (excelize) y CSV.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/pkg/textnorm"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var _ report.SpreadsheetCodec = (*Codec)(nil)

const (
	itemsSheet     = "Items"
	movementsSheet = "Movimientos"
)

// Columnas en el orden de exportación.
var itemHeader = []string{
	"Nombre", "Serie", "Descripción", "Origen", "Destino", "Valor", "Factura",
	"Cantidad", "Mínimo", "Ideal", "Notas",
}

var movementHeader = []string{"Fecha", "Ítem", "Tipo", "Cantidad", "Origen/Destino", "Descripción", "Usuario"}

// aliases encabezado normalizado → columna canónica.
var aliases = map[string]string{
	"nombre": "name", "name": "name", "item": "name",
	"serie": "series", "series": "series", "codigo": "series", "code": "series",
	"descripcion": "description", "description": "description",
	"origen": "origin", "origin": "origin",
	"destino": "destination", "destination": "destination",
	"valor": "value", "value": "value", "precio": "value",
	"factura": "invoice", "invoice": "invoice",
	"cantidad": "quantity", "quantity": "quantity", "stock": "quantity",
	"minimo": "minimum", "minimum": "minimum",
	"ideal": "ideal",
	"notas": "notes", "notes": "notes", "observaciones": "notes",
}

// Codec implementa report.SpreadsheetCodec.
type Codec struct{}

// NewCodec construye el codec.
func NewCodec() *Codec { return &Codec{} }

// EncodeItems escribe el catálogo en el formato indicado.
func (c *Codec) EncodeItems(format string, items []*entity.Item) ([]byte, error) {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Name, it.Series, it.Description, it.Origin, it.Destination,
			it.Value.String(), it.Invoice, strconv.Itoa(it.Quantity),
			strconv.Itoa(it.Minimum), strconv.Itoa(it.Ideal), it.Notes,
		})
	}
	switch format {
	case report.FormatCSV:
		return writeCSV(itemHeader, rows)
	case report.FormatXLSX:
		return writeXLSX(itemsSheet, itemHeader, rows)
	default:
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
}

// EncodeMovements escribe los movimientos en XLSX.
func (c *Codec) EncodeMovements(movs []*entity.Movement) ([]byte, error) {
	rows := make([][]string, 0, len(movs))
	for _, m := range movs {
		kind := "Entrada"
		if m.Kind == entity.MovementKindWithdrawal {
			kind = "Salida"
		}
		rows = append(rows, []string{
			m.CreatedAt.Format(time.DateTime), m.ItemID, kind, strconv.Itoa(m.Quantity),
			m.Place, m.Description, m.CreatedBy,
		})
	}
	return writeXLSX(movementsSheet, movementHeader, rows)
}

// DecodeItems lee filas de ítems. La primera fila es el encabezado; las columnas se
// reconocen sin distinguir mayúsculas ni tildes y "Nombre" es obligatoria.
func (c *Codec) DecodeItems(format string, r io.Reader) ([]report.ItemRow, error) {
	var records [][]string
	var err error
	switch format {
	case report.FormatCSV:
		records, err = readCSV(r)
	case report.FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		if key, ok := aliases[textnorm.Fold(h)]; ok {
			if _, dup := cols[key]; !dup {
				cols[key] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: falta la columna Nombre", domain.ErrInvalidInput)
	}

	out := make([]report.ItemRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		get := func(key string) string {
			i, ok := cols[key]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if isBlank(rec) {
			continue
		}
		row := report.ItemRow{
			Line:        line,
			Name:        get("name"),
			Series:      get("series"),
			Description: get("description"),
			Origin:      get("origin"),
			Destination: get("destination"),
			Invoice:     get("invoice"),
			Notes:       get("notes"),
		}
		if row.Value, err = parseMoney(get("value")); err != nil {
			return nil, fmt.Errorf("%w: fila %d: valor %q", domain.ErrInvalidInput, line, get("value"))
		}
		for key, dst := range map[string]*int{"quantity": &row.Quantity, "minimum": &row.Minimum, "ideal": &row.Ideal} {
			if *dst, err = parseCount(get(key)); err != nil {
				return nil, fmt.Errorf("%w: fila %d: %s %q", domain.ErrInvalidInput, line, key, get(key))
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", domain.ErrInvalidInput, err)
	}
	cr := csv.NewReader(utf8Reader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", domain.ErrInvalidInput, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

// utf8Reader Excel en Windows guarda CSV en Windows-1252; se transcodifica si no es UTF-8 válido.
func utf8Reader(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder())
}

func writeXLSX(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx sin hojas", domain.ErrInvalidInput)
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == itemsSheet {
			sheet = s
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", domain.ErrInvalidInput, err)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseMoney acepta "1500", "1500.50" y "1500,50". Vacío = 0.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// parseCount entero no negativo; acepta "5.0" como lo exportan algunas hojas.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("cantidad %s", s)
	}
	return int(d.IntPart()), nil
}
