package shoppinglists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidmreyes/pricewatch-backend/pkg/authz"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

type listRepository interface {
	Create(ctx context.Context, list *models.ShoppingList) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ShoppingList, error)
	Update(ctx context.Context, list *models.ShoppingList) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddEntry(ctx context.Context, entry *models.ShoppingListItem) error
	FindEntry(ctx context.Context, listID, entryID uuid.UUID) (*models.ShoppingListItem, error)
	UpdateEntry(ctx context.Context, entry *models.ShoppingListItem) error
	RemoveEntry(ctx context.Context, listID, entryID uuid.UUID) error
}

type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type storeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes shopping list operations scoped to the requesting user.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateListInput) (*ListDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]ListSummaryDTO, error)
	Get(ctx context.Context, requesterID, id uuid.UUID) (*ListDTO, error)
	Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateListInput) (*ListDTO, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
	AddEntry(ctx context.Context, requesterID, listID uuid.UUID, input AddEntryInput) (*EntryDTO, error)
	UpdateEntry(ctx context.Context, requesterID, listID, entryID uuid.UUID, input UpdateEntryInput) (*EntryDTO, error)
	RemoveEntry(ctx context.Context, requesterID, listID, entryID uuid.UUID) error
	SetPurchased(ctx context.Context, requesterID, listID, entryID uuid.UUID, purchased bool) (*EntryDTO, error)
}

type service struct {
	repo   listRepository
	items  itemReader
	stores storeReader
}

// NewService builds a shopping list service with the provided repositories.
func NewService(repo listRepository, items itemReader, stores storeReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("list repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, items: items, stores: stores}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateListInput) (*ListDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	list := &models.ShoppingList{
		OwnerID: ownerID,
		Name:    name,
		Notes:   input.Notes,
		Status:  enums.RecordStatusActive,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create list")
	}
	return FromModel(list), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]ListSummaryDTO, error) {
	lists, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shopping lists")
	}
	return Summaries(lists), nil
}

func (s *service) Get(ctx context.Context, requesterID, id uuid.UUID) (*ListDTO, error) {
	list, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(list), nil
}

func (s *service) Update(ctx context.Context, requesterID, id uuid.UUID, input UpdateListInput) (*ListDTO, error) {
	list, err := s.load(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		list.Name = name
	}
	if input.Notes != nil {
		list.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update list")
	}
	return FromModel(list), nil
}

func (s *service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	if _, err := s.load(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete list")
	}
	return nil
}

func (s *service) AddEntry(ctx context.Context, requesterID, listID uuid.UUID, input AddEntryInput) (*EntryDTO, error) {
	if _, err := s.load(ctx, requesterID, listID); err != nil {
		return nil, err
	}
	if err := s.checkItem(ctx, requesterID, input.ItemID); err != nil {
		return nil, err
	}
	if input.StoreID != nil {
		if err := s.checkStore(ctx, requesterID, *input.StoreID); err != nil {
			return nil, err
		}
	}

	quantity := decimal.NewFromInt(1)
	if input.Quantity != nil {
		if input.Quantity.IsNegative() || input.Quantity.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		quantity = *input.Quantity
	}

	entry := &models.ShoppingListItem{
		ListID:   listID,
		ItemID:   input.ItemID,
		StoreID:  input.StoreID,
		Quantity: quantity,
		Notes:    input.Notes,
	}
	if err := s.repo.AddEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add entry")
	}
	return FromEntryModel(entry), nil
}

func (s *service) UpdateEntry(ctx context.Context, requesterID, listID, entryID uuid.UUID, input UpdateEntryInput) (*EntryDTO, error) {
	entry, err := s.loadEntry(ctx, requesterID, listID, entryID)
	if err != nil {
		return nil, err
	}

	if input.StoreID != nil {
		if err := s.checkStore(ctx, requesterID, *input.StoreID); err != nil {
			return nil, err
		}
		entry.StoreID = input.StoreID
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() || input.Quantity.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		entry.Quantity = *input.Quantity
	}
	if input.Notes != nil {
		entry.Notes = input.Notes
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update entry")
	}
	return FromEntryModel(entry), nil
}

func (s *service) RemoveEntry(ctx context.Context, requesterID, listID, entryID uuid.UUID) error {
	if _, err := s.loadEntry(ctx, requesterID, listID, entryID); err != nil {
		return err
	}
	if err := s.repo.RemoveEntry(ctx, listID, entryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove entry")
	}
	return nil
}

// SetPurchased checks an entry off (or back on). Checking off twice is a
// no-op that keeps the original purchase time.
func (s *service) SetPurchased(ctx context.Context, requesterID, listID, entryID uuid.UUID, purchased bool) (*EntryDTO, error) {
	entry, err := s.loadEntry(ctx, requesterID, listID, entryID)
	if err != nil {
		return nil, err
	}

	switch {
	case purchased && entry.PurchasedAt == nil:
		now := time.Now().UTC()
		entry.PurchasedAt = &now
	case !purchased:
		entry.PurchasedAt = nil
	default:
		return FromEntryModel(entry), nil
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update entry")
	}
	return FromEntryModel(entry), nil
}

func (s *service) load(ctx context.Context, requesterID, id uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list")
	}
	if err := authz.EnsureOwner(&requesterID, &list.OwnerID); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) loadEntry(ctx context.Context, requesterID, listID, entryID uuid.UUID) (*models.ShoppingListItem, error) {
	if _, err := s.load(ctx, requesterID, listID); err != nil {
		return nil, err
	}
	entry, err := s.repo.FindEntry(ctx, listID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load entry")
	}
	return entry, nil
}

func (s *service) checkItem(ctx context.Context, requesterID, itemID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return authz.EnsureOwner(&requesterID, &item.OwnerID)
}

func (s *service) checkStore(ctx context.Context, requesterID, storeID uuid.UUID) error {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.IsGlobal() {
		return nil
	}
	return authz.EnsureOwner(&requesterID, store.OwnerID)
}
