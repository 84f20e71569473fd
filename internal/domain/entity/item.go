package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa una línea de inventario con su cantidad actual y umbrales.
// Quantity solo la modifica el libro de stock (Ledger); nunca es negativa.
type Item struct {
	ID          string
	Name        string
	Series      string // código o serie opcional
	Description string
	Origin      string
	Destination string
	Value       decimal.Decimal // valor monetario unitario
	Invoice     string          // referencia de factura de compra
	Quantity    int
	Minimum     int
	Ideal       int
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Niveles de stock para reportes.
const (
	StockLevelCritical = "critical" // cantidad <= mínimo
	StockLevelLow      = "low"      // cantidad < ideal
	StockLevelOK       = "ok"
)

// StockLevel clasifica la cantidad actual frente a los umbrales.
func (i *Item) StockLevel() string {
	switch {
	case i.Quantity <= i.Minimum:
		return StockLevelCritical
	case i.Quantity < i.Ideal:
		return StockLevelLow
	default:
		return StockLevelOK
	}
}

// StockValue valor total en bodega (cantidad × valor unitario).
func (i *Item) StockValue() decimal.Decimal {
	return i.Value.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemPatch campos modificables de un ítem. nil = sin cambio.
// Quantity no está: solo cambia vía entradas/salidas.
type ItemPatch struct {
	Name        *string
	Series      *string
	Description *string
	Origin      *string
	Destination *string
	Value       *decimal.Decimal
	Invoice     *string
	Minimum     *int
	Ideal       *int
	Notes       *string
}

// Empty indica que el patch no modifica nada.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Series == nil && p.Description == nil && p.Origin == nil &&
		p.Destination == nil && p.Value == nil && p.Invoice == nil && p.Minimum == nil &&
		p.Ideal == nil && p.Notes == nil
}

// Apply copia los campos presentes del patch sobre el ítem.
func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Series != nil {
		it.Series = *p.Series
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Origin != nil {
		it.Origin = *p.Origin
	}
	if p.Destination != nil {
		it.Destination = *p.Destination
	}
	if p.Value != nil {
		it.Value = *p.Value
	}
	if p.Invoice != nil {
		it.Invoice = *p.Invoice
	}
	if p.Minimum != nil {
		it.Minimum = *p.Minimum
	}
	if p.Ideal != nil {
		it.Ideal = *p.Ideal
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
}

// ItemFilter filtros de listado del catálogo.
type ItemFilter struct {
	Search       string // nombre o serie, sin distinguir mayúsculas ni tildes
	BelowMinimum bool
	Limit        int // <= 0 = sin límite
	Offset       int
}
