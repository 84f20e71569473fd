// Package xmlexport serializa el inventario a XML con etree.
package xmlexport

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

var _ report.InventoryXMLEncoder = (*Encoder)(nil)

// Encoder implementa report.InventoryXMLEncoder.
type Encoder struct{}

// NewEncoder construye el encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// EncodeInventory genera:
//
//	<Inventario generado="..." items="N">
//	  <Item id="..." nivel="ok"><Nombre/>...<Cantidad/>...</Item>
//	</Inventario>
func (e *Encoder) EncodeInventory(items []*entity.Item, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Inventario")
	root.CreateAttr("generado", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("items", strconv.Itoa(len(items)))

	for _, it := range items {
		el := root.CreateElement("Item")
		el.CreateAttr("id", it.ID)
		el.CreateAttr("nivel", it.StockLevel())
		el.CreateElement("Nombre").SetText(it.Name)
		if it.Series != "" {
			el.CreateElement("Serie").SetText(it.Series)
		}
		if it.Description != "" {
			el.CreateElement("Descripcion").SetText(it.Description)
		}
		el.CreateElement("Cantidad").SetText(strconv.Itoa(it.Quantity))
		el.CreateElement("Minimo").SetText(strconv.Itoa(it.Minimum))
		el.CreateElement("Ideal").SetText(strconv.Itoa(it.Ideal))
		el.CreateElement("ValorUnitario").SetText(it.Value.StringFixed(2))
		el.CreateElement("ValorTotal").SetText(it.StockValue().StringFixed(2))
		if it.Invoice != "" {
			el.CreateElement("Factura").SetText(it.Invoice)
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
