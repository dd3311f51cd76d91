package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/farmdash/internal/client/cache"
	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// CategoryService reads and writes product categories.
//
// Writes never patch the cache; they invalidate the Category tag (and the
// record's own tag) once the server has answered, so subscribed views fetch
// the list again.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SubscribeCategories(fn func(cache.Snapshot[[]models.Category])) (cache.Snapshot[[]models.Category], *cache.Subscription)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)

	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error
	UpdateCategoryStatus(ctx context.Context, id string, active bool) error
	DeleteCategory(ctx context.Context, id string) error
}

type categoryService struct {
	gw    client.Gateway
	store *cache.Store
	log   logging.Logger
}

func NewCategoryService(gw client.Gateway, store *cache.Store, log logging.Logger) CategoryService {
	return &categoryService{gw: gw, store: store, log: log.With("service", "categories")}
}

func (s *categoryService) listQuery() cache.Query[[]models.Category] {
	return cache.Query[[]models.Category]{
		Key: categoriesKey,
		Fetch: func(ctx context.Context) ([]models.Category, error) {
			raw, err := s.gw.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			return models.NormalizeCategories(raw), nil
		},
		Provides: func([]models.Category) []cache.Tag {
			return []cache.Tag{cache.TypeTag(tagCategory)}
		},
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cache.Get(ctx, s.store, s.listQuery())
}

func (s *categoryService) SubscribeCategories(fn func(cache.Snapshot[[]models.Category])) (cache.Snapshot[[]models.Category], *cache.Subscription) {
	return cache.Subscribe(s.store, s.listQuery(), fn)
}

// GetCategoryByID returns common.ErrorNotFound when the server answers
// without a record.
func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	q := cache.Query[*models.Category]{
		Key: categoryKey(id),
		Fetch: func(ctx context.Context) (*models.Category, error) {
			raw, err := s.gw.GetCategory(ctx, id)
			if err != nil {
				return nil, err
			}
			if raw == nil {
				return nil, fmt.Errorf("category %s: %w", id, common.ErrorNotFound)
			}
			c := models.NormalizeCategory(*raw)
			return &c, nil
		},
		Provides: func(*models.Category) []cache.Tag {
			return []cache.Tag{cache.IDTag(tagCategory, id)}
		},
	}
	return cache.Get(ctx, s.store, q)
}

// settle finishes a category write: the mutation records the outcome and
// the affected tags are invalidated whether the server accepted it or not.
func (s *categoryService) settle(ctx context.Context, m *cache.Mutation, err error, tags ...cache.Tag) error {
	err = m.Settle(err)
	s.store.Invalidate(tags...)
	if err != nil {
		s.log.Warn(ctx, "category write failed", "mutation", m.Name(), "error", err)
		return err
	}
	s.log.Info(ctx, "category write settled", "mutation", m.Name())
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := s.store.NewMutation("createCategory")
	if err := m.Begin(); err != nil {
		return nil, err
	}

	raw, err := s.gw.CreateCategory(ctx, in)
	if err := s.settle(ctx, m, err, cache.TypeTag(tagCategory)); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	c := models.NormalizeCategory(*raw)
	return &c, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	m := s.store.NewMutation("updateCategory")
	if err := m.Begin(); err != nil {
		return err
	}
	err := s.gw.UpdateCategory(ctx, id, patch)
	if err := s.settle(ctx, m, err, cache.TypeTag(tagCategory), cache.IDTag(tagCategory, id)); err != nil {
		return fmt.Errorf("update category %s: %w", id, err)
	}
	return nil
}

func (s *categoryService) UpdateCategoryStatus(ctx context.Context, id string, active bool) error {
	m := s.store.NewMutation("updateCategoryStatus")
	if err := m.Begin(); err != nil {
		return err
	}
	err := s.gw.UpdateCategoryStatus(ctx, id, active)
	if err := s.settle(ctx, m, err, cache.TypeTag(tagCategory), cache.IDTag(tagCategory, id)); err != nil {
		return fmt.Errorf("update category %s status: %w", id, err)
	}
	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	m := s.store.NewMutation("deleteCategory")
	if err := m.Begin(); err != nil {
		return err
	}
	err := s.gw.DeleteCategory(ctx, id)
	if err := s.settle(ctx, m, err, cache.TypeTag(tagCategory), cache.IDTag(tagCategory, id)); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
