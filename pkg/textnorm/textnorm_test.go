package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "toner negro", Fold("  Tóner   NEGRO "))
	assert.Equal(t, "cafe", Fold("Café"))
	assert.Equal(t, "nino", Fold("Niño"))
	assert.Equal(t, "", Fold("   "))
}

func TestSearchKey_Y_Contains(t *testing.T) {
	assert.Equal(t, "papel bond a4", SearchKey("Papel Bond", "A4"))
	assert.True(t, Contains("Cartucho Tóner", "toner"))
	assert.True(t, Contains("CABLE HDMI", "hdmi"))
	assert.False(t, Contains("Cable HDMI", "vga"))
}
