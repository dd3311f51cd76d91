package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/farmdash/internal/client/cache"
	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// ProductService reads and writes product listings. Its writes are
// optimistic: the cached list changes before the server answers and is
// restored if the server refuses.
type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SubscribeProducts(fn func(cache.Snapshot[[]models.Product])) (cache.Snapshot[[]models.Product], *cache.Subscription)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	SubscribeProduct(id string, fn func(cache.Snapshot[*models.Product])) (cache.Snapshot[*models.Product], *cache.Subscription)

	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	gw    client.Gateway
	store *cache.Store
	log   logging.Logger
}

func NewProductService(gw client.Gateway, store *cache.Store, log logging.Logger) ProductService {
	return &productService{gw: gw, store: store, log: log.With("service", "products")}
}

func (s *productService) listQuery() cache.Query[[]models.Product] {
	return cache.Query[[]models.Product]{
		Key: productsKey,
		Fetch: func(ctx context.Context) ([]models.Product, error) {
			raw, err := s.gw.ListProducts(ctx)
			if err != nil {
				return nil, err
			}
			return models.NormalizeProducts(raw), nil
		},
		Provides: func(ps []models.Product) []cache.Tag {
			tags := make([]cache.Tag, 0, len(ps)+1)
			tags = append(tags, cache.ListTag(tagProduct))
			for _, p := range ps {
				tags = append(tags, cache.IDTag(tagProduct, p.ID))
			}
			return tags
		},
	}
}

func (s *productService) itemQuery(id string) cache.Query[*models.Product] {
	return cache.Query[*models.Product]{
		Key: productKey(id),
		Fetch: func(ctx context.Context) (*models.Product, error) {
			raw, err := s.gw.GetProduct(ctx, id)
			if err != nil || raw == nil {
				return nil, err
			}
			p := models.NormalizeProduct(*raw)
			return &p, nil
		},
		Provides: func(*models.Product) []cache.Tag {
			return []cache.Tag{cache.IDTag(tagProduct, id)}
		},
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cache.Get(ctx, s.store, s.listQuery())
}

func (s *productService) SubscribeProducts(fn func(cache.Snapshot[[]models.Product])) (cache.Snapshot[[]models.Product], *cache.Subscription) {
	return cache.Subscribe(s.store, s.listQuery(), fn)
}

// GetProductByID returns (nil, nil) when the server reports no such product.
func (s *productService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return cache.Get(ctx, s.store, s.itemQuery(id))
}

func (s *productService) SubscribeProduct(id string, fn func(cache.Snapshot[*models.Product])) (cache.Snapshot[*models.Product], *cache.Subscription) {
	return cache.Subscribe(s.store, s.itemQuery(id), fn)
}

// CreateProduct appends the server's record to the cached list. The list is
// not fetched again, and a record already present is not added twice.
func (s *productService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := s.store.NewMutation("createProduct")
	if err := m.Begin(); err != nil {
		return nil, err
	}

	raw, err := s.gw.CreateProduct(ctx, in)
	if err == nil && raw == nil {
		err = fmt.Errorf("server did not return the created product: %w", common.ErrServer)
	}
	if err := m.Settle(err); err != nil {
		s.log.Warn(ctx, "create product failed", "error", err)
		return nil, fmt.Errorf("create product: %w", err)
	}

	p := models.NormalizeProduct(*raw)
	cache.UpdateData(s.store, productsKey, func(cur []models.Product) []models.Product {
		if slices.ContainsFunc(cur, func(x models.Product) bool { return x.ID == p.ID }) {
			return cur
		}
		return append(slices.Clone(cur), p)
	})
	s.log.Info(ctx, "product created", "id", p.ID)
	return &p, nil
}

// UpdateProduct merges patch into the cached records of id, sends it, and
// restores the previous records if the server refuses. Either way the
// product and the list are invalidated afterwards.
func (s *productService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	m := s.store.NewMutation("updateProduct")
	if err := m.Begin(); err != nil {
		return err
	}

	cache.Patch(m, productsKey, func(cur []models.Product) []models.Product {
		i := slices.IndexFunc(cur, func(x models.Product) bool { return x.ID == id })
		if i < 0 {
			return cur
		}
		out := slices.Clone(cur)
		out[i] = patch.Apply(out[i])
		return out
	})
	cache.Patch(m, productKey(id), func(cur *models.Product) *models.Product {
		if cur == nil {
			return nil
		}
		p := patch.Apply(*cur)
		return &p
	})

	err := m.Settle(s.gw.UpdateProduct(ctx, id, patch))
	s.store.Invalidate(cache.IDTag(tagProduct, id), cache.ListTag(tagProduct))
	if err != nil {
		s.log.Warn(ctx, "update product failed, optimistic change rolled back", "id", id, "error", err)
		return fmt.Errorf("update product %s: %w", id, err)
	}
	return nil
}

// DeleteProduct removes id from the cached list, sends the delete, and puts
// the record back at its original position if the server refuses.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	m := s.store.NewMutation("deleteProduct")
	if err := m.Begin(); err != nil {
		return err
	}

	cache.Patch(m, productsKey, func(cur []models.Product) []models.Product {
		return slices.DeleteFunc(slices.Clone(cur), func(x models.Product) bool { return x.ID == id })
	})

	if err := m.Settle(s.gw.DeleteProduct(ctx, id)); err != nil {
		s.log.Warn(ctx, "delete product failed, optimistic change rolled back", "id", id, "error", err)
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.store.Invalidate(cache.ListTag(tagProduct))
	return nil
}
