package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/farmdash/internal/client/cache"
	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// DefaultFarmersPageSize is the limit sent with the farmer list request.
const DefaultFarmersPageSize = 10

// FarmerService lists and deletes farmer profiles.
type FarmerService interface {
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	SubscribeFarmers(fn func(cache.Snapshot[[]models.Farmer])) (cache.Snapshot[[]models.Farmer], *cache.Subscription)
	DeleteFarmer(ctx context.Context, id string) error
}

type farmerService struct {
	gw       client.Gateway
	store    *cache.Store
	log      logging.Logger
	pageSize int
}

func NewFarmerService(gw client.Gateway, store *cache.Store, log logging.Logger, pageSize int) FarmerService {
	if pageSize <= 0 {
		pageSize = DefaultFarmersPageSize
	}
	return &farmerService{gw: gw, store: store, log: log.With("service", "farmers"), pageSize: pageSize}
}

func (s *farmerService) listQuery() cache.Query[[]models.Farmer] {
	limit, offset := s.pageSize, 0
	return cache.Query[[]models.Farmer]{
		Key: farmersKey(limit, offset),
		Fetch: func(ctx context.Context) ([]models.Farmer, error) {
			raw, err := s.gw.ListFarmers(ctx, limit, offset)
			if err != nil {
				return nil, err
			}
			return models.NormalizeFarmers(raw), nil
		},
		Provides: func([]models.Farmer) []cache.Tag {
			return []cache.Tag{cache.TypeTag(tagFarmer)}
		},
	}
}

func (s *farmerService) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	return cache.Get(ctx, s.store, s.listQuery())
}

func (s *farmerService) SubscribeFarmers(fn func(cache.Snapshot[[]models.Farmer])) (cache.Snapshot[[]models.Farmer], *cache.Subscription) {
	return cache.Subscribe(s.store, s.listQuery(), fn)
}

func (s *farmerService) DeleteFarmer(ctx context.Context, id string) error {
	m := s.store.NewMutation("deleteFarmer")
	if err := m.Begin(); err != nil {
		return err
	}
	err := m.Settle(s.gw.DeleteFarmer(ctx, id))
	s.store.Invalidate(cache.TypeTag(tagFarmer))
	if err != nil {
		s.log.Warn(ctx, "delete farmer failed", "id", id, "error", err)
		return fmt.Errorf("delete farmer %s: %w", id, err)
	}
	s.log.Info(ctx, "farmer deleted", "id", id)
	return nil
}
