package xmlexport

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

func TestEncodeInventory(t *testing.T) {
	items := []*entity.Item{
		{ID: "a", Name: "Tornillo & tuerca", Series: "T-1", Quantity: 3, Minimum: 5, Ideal: 10, Value: decimal.RequireFromString("1.5")},
		{ID: "b", Name: "Llave", Quantity: 20, Minimum: 1, Ideal: 5, Value: decimal.NewFromInt(10)},
	}
	out, err := NewEncoder().EncodeInventory(items, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.SelectElement("Inventario")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("items", ""))
	assert.Equal(t, "2026-01-02T03:04:05Z", root.SelectAttrValue("generado", ""))

	list := root.SelectElements("Item")
	require.Len(t, list, 2)
	assert.Equal(t, "critical", list[0].SelectAttrValue("nivel", ""))
	assert.Equal(t, "Tornillo & tuerca", list[0].SelectElement("Nombre").Text())
	assert.Equal(t, "4.50", list[0].SelectElement("ValorTotal").Text())
	assert.Nil(t, list[1].SelectElement("Serie"))
}
