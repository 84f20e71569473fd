package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrItemInUse          = errors.New("el ítem tiene requisiciones pendientes")
)

// InsufficientStockError identifica el ítem sin disponibilidad.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ItemID string
}

// NewInsufficientStock construye el error para el ítem indicado.
func NewInsufficientStock(itemID string) error {
	return &InsufficientStockError{ItemID: itemID}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: ítem %s", ErrInsufficientStock.Error(), e.ItemID)
}

// Is permite comparar contra ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InsufficientStockItem extrae el ítem ofensor, si err es un InsufficientStockError.
func InsufficientStockItem(err error) (string, bool) {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.ItemID, true
	}
	return "", false
}
