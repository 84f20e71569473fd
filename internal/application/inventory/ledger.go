package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// Change describe un cambio de cantidad sobre un ítem.
// Place es el origen en entradas y el destino en salidas.
type Change struct {
	ItemID   string
	Quantity int
	Place    string
	Note     string
	ActorID  string
}

// Ledger es el libro de stock: único punto que modifica Item.Quantity.
// Cada cambio escribe exactamente un Movement, siempre dentro de la transacción del llamador.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el libro de stock.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Credit suma qty al ítem y registra un movimiento de entrada.
func (l *Ledger) Credit(ctx context.Context, repos Repos, ch Change) (*entity.Movement, error) {
	if ch.ItemID == "" || ch.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	found, err := repos.Items.AddQuantity(ctx, ch.ItemID, ch.Quantity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return l.record(ctx, repos.Movements, entity.MovementKindEntry, ch)
}

// Debit resta qty del ítem y registra un movimiento de salida.
// El chequeo de disponibilidad y el decremento son un único UPDATE condicional:
// cero filas afectadas con el ítem existente significa stock insuficiente.
func (l *Ledger) Debit(ctx context.Context, repos Repos, ch Change) (*entity.Movement, error) {
	if ch.ItemID == "" || ch.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ok, err := repos.Items.SubtractIfAvailable(ctx, ch.ItemID, ch.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		item, err := repos.Items.GetByID(ctx, ch.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewInsufficientStock(ch.ItemID)
	}
	return l.record(ctx, repos.Movements, entity.MovementKindWithdrawal, ch)
}

// QuantityOf lectura puntual; no queda ligada a escrituras posteriores.
func (l *Ledger) QuantityOf(ctx context.Context, items repository.ItemRepository, itemID string) (int, error) {
	item, err := items.GetByID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return item.Quantity, nil
}

func (l *Ledger) record(ctx context.Context, movements repository.MovementRepository, kind string, ch Change) (*entity.Movement, error) {
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ItemID:      ch.ItemID,
		Kind:        kind,
		Quantity:    ch.Quantity,
		Place:       ch.Place,
		Description: ch.Note,
		CreatedBy:   ch.ActorID,
		CreatedAt:   l.now(),
	}
	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
