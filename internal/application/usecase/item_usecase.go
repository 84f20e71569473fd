package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// InitialStockNote descripción del movimiento que acredita la cantidad inicial de un ítem.
const InitialStockNote = "registro inicial"

// ItemUseCase casos de uso CRUD del catálogo. Quantity se maneja vía movimientos.
type ItemUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, ledger: ledger, repo: repo}
}

// Create registra un ítem. La cantidad inicial, si la hay, se acredita por el libro
// de stock en la misma transacción para que quede su movimiento de entrada.
func (uc *ItemUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || in.Quantity < 0 || in.Minimum < 0 || in.Ideal < 0 || in.Value.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Series:      strings.TrimSpace(in.Series),
		Description: in.Description,
		Origin:      in.Origin,
		Destination: in.Destination,
		Value:       in.Value,
		Invoice:     in.Invoice,
		Minimum:     in.Minimum,
		Ideal:       in.Ideal,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		_, err := uc.ledger.Credit(ctx, repos, inventory.Change{
			ItemID:   item.ID,
			Quantity: in.Quantity,
			Place:    in.Origin,
			Note:     InitialStockNote,
			ActorID:  actor.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	item.Quantity = in.Quantity
	return ToItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return ToItemResponse(item), nil
}

// List lista ítems con búsqueda y paginación.
func (uc *ItemUseCase) List(ctx context.Context, filter entity.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Update aplica un patch de campos permitidos. No modifica Quantity.
func (uc *ItemUseCase) Update(ctx context.Context, actor entity.Actor, id string, patch entity.ItemPatch) (*dto.ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if patch.Empty() {
		return nil, domain.ErrInvalidInput
	}
	var item *entity.Item
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		item, err = repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		patch.Apply(item)
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Minimum < 0 || item.Ideal < 0 || item.Value.IsNegative() {
			return domain.ErrInvalidInput
		}
		item.UpdatedAt = time.Now()
		return repos.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Delete elimina un ítem sin requisiciones pendientes; si las tiene devuelve ErrItemInUse.
func (uc *ItemUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		pending, err := repos.Requisitions.CountPendingByItem(ctx, id)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domain.ErrItemInUse
		}
		return repos.Items.Delete(ctx, id)
	})
}

// PatchFromRequest convierte el body PATCH en un ItemPatch.
func PatchFromRequest(in dto.UpdateItemRequest) entity.ItemPatch {
	return entity.ItemPatch{
		Name:        in.Name,
		Series:      in.Series,
		Description: in.Description,
		Origin:      in.Origin,
		Destination: in.Destination,
		Value:       in.Value,
		Invoice:     in.Invoice,
		Minimum:     in.Minimum,
		Ideal:       in.Ideal,
		Notes:       in.Notes,
	}
}

// ToItemResponse mapea la entidad a su DTO.
func ToItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Series:      it.Series,
		Description: it.Description,
		Origin:      it.Origin,
		Destination: it.Destination,
		Value:       it.Value,
		Invoice:     it.Invoice,
		Quantity:    it.Quantity,
		Minimum:     it.Minimum,
		Ideal:       it.Ideal,
		Notes:       it.Notes,
		StockLevel:  it.StockLevel(),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
