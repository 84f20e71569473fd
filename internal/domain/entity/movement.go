package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindEntry      = "entry"      // entrada
	MovementKindWithdrawal = "withdrawal" // salida
)

// Movement registro inmutable de un cambio de cantidad de un ítem.
// Place es el origen (entradas) o el destino (salidas).
type Movement struct {
	ID          string
	ItemID      string
	Kind        string
	Quantity    int // siempre > 0; la dirección la da Kind
	Place       string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	ItemID string
	Kind   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
