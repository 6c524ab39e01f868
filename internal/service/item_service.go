package service

import (
	"context"
	"strings"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

type ItemStore interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, name string) (model.Item, error)
	Update(ctx context.Context, id int64, name string) (model.Item, error)
	Delete(ctx context.Context, id int64) error
}

type ItemService struct {
	store ItemStore
}

func NewItemService(store ItemStore) *ItemService {
	return &ItemService{store: store}
}

func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	return s.store.List(ctx)
}

func (s *ItemService) Create(ctx context.Context, name string) (model.Item, error) {
	if strings.TrimSpace(name) == "" {
		return model.Item{}, apierror.BadRequest("item name is required", "")
	}
	return s.store.Create(ctx, name)
}

func (s *ItemService) Update(ctx context.Context, id int64, name string) (model.Item, error) {
	if id <= 0 {
		return model.Item{}, apierror.BadRequest("item id must be positive", "")
	}
	if strings.TrimSpace(name) == "" {
		return model.Item{}, apierror.BadRequest("item name is required", "")
	}
	return s.store.Update(ctx, id, name)
}

func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apierror.BadRequest("item id must be positive", "")
	}
	return s.store.Delete(ctx, id)
}
