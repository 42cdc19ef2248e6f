package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sickfits/sickfits-go/internal/authz"
	"github.com/sickfits/sickfits-go/internal/model"
	"github.com/sickfits/sickfits-go/internal/repository"
)

const (
	DefaultPageSize = 4
	MaxPageSize     = 100
)

// ItemService handles item business logic and ownership checks.
type ItemService struct {
	items  repository.ItemStore
	logger *slog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(items repository.ItemStore, logger *slog.Logger) *ItemService {
	return &ItemService{items: items, logger: logger}
}

// CreateItem stores a new item owned by the actor.
func (s *ItemService) CreateItem(ctx context.Context, actor *model.User, req model.CreateItemRequest) (*model.Item, error) {
	if err := authz.RequireUser(actor); err != nil {
		return nil, err
	}

	item := &model.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		UserID:      actor.ID,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("item created", slog.String("item_id", item.ID), slog.String("user_id", actor.ID))
	return item, nil
}

// UpdateItem applies the non-nil fields of req. The actor must own the item
// or hold ADMIN, ITEMDELETE or ITEMUPDATE.
func (s *ItemService) UpdateItem(ctx context.Context, actor *model.User, id string, req model.UpdateItemRequest) (*model.Item, error) {
	if err := authz.RequireUser(actor); err != nil {
		return nil, err
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateItem(actor, item); err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.LargeImage != nil {
		item.LargeImage = *req.LargeImage
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item and returns it. The actor must own the item
// or hold ADMIN or ITEMDELETE.
func (s *ItemService) DeleteItem(ctx context.Context, actor *model.User, id string) (*model.Item, error) {
	if err := authz.RequireUser(actor); err != nil {
		return nil, err
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanDeleteItem(actor, item); err != nil {
		return nil, err
	}

	if err := s.items.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info("item deleted", slog.String("item_id", id), slog.String("actor_id", actor.ID))
	return item, nil
}

// GetItem retrieves a single item.
func (s *ItemService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListItems returns a page of items, newest first.
func (s *ItemService) ListItems(ctx context.Context, skip, first int) ([]model.Item, error) {
	if skip < 0 {
		skip = 0
	}
	if first <= 0 {
		first = DefaultPageSize
	}
	if first > MaxPageSize {
		first = MaxPageSize
	}
	return s.items.ListItems(ctx, skip, first)
}

// CountItems returns the total number of items.
func (s *ItemService) CountItems(ctx context.Context) (int, error) {
	return s.items.CountItems(ctx)
}

func validateItem(item *model.Item) error {
	if item.Title == "" {
		return ErrTitleRequired
	}
	if item.Description == "" {
		return ErrDescriptionRequired
	}
	if item.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
