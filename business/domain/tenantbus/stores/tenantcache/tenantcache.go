// Package tenantcache contains tenant catalog related CRUD functionality with
// caching. Catalog rows change rarely and are read on every request, so they
// are kept behind a read-through cache. Only the immutable rows are cached;
// the per-request tenant Context is always constructed fresh by the bus.
package tenantcache

import (
	"context"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for tenant cache access.
type Store struct {
	log    *logger.Logger
	storer tenantbus.Storer
	cache  *sturdyc.Client[tenantbus.Tenant]
}

// NewStore constructs the api for data and cache access.
func NewStore(log *logger.Logger, storer tenantbus.Storer, ttl time.Duration) *Store {
	const capacity = 1000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[tenantbus.Tenant](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the storer value with a
// storer value that is currently inside a transaction. The cache is not used
// inside of a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (tenantbus.Storer, error) {
	return s.storer.NewWithTx(tx)
}

// Create inserts a new tenant into the catalog.
func (s *Store) Create(ctx context.Context, t tenantbus.Tenant) error {
	if err := s.storer.Create(ctx, t); err != nil {
		return err
	}

	s.writeCache(t)

	return nil
}

// Update replaces a tenant document in the catalog.
func (s *Store) Update(ctx context.Context, t tenantbus.Tenant) error {
	if err := s.storer.Update(ctx, t); err != nil {
		return err
	}

	s.writeCache(t)

	return nil
}

// Query retrieves the full tenant catalog. Bypasses the cache.
func (s *Store) Query(ctx context.Context) ([]tenantbus.Tenant, error) {
	return s.storer.Query(ctx)
}

// QueryByID gets the specified tenant from the catalog.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	return s.cache.GetOrFetch(ctx, tenantID.String(), func(ctx context.Context) (tenantbus.Tenant, error) {
		return s.storer.QueryByID(ctx, tenantID)
	})
}

// QueryByKey gets the tenant with the specified subdomain key from the
// catalog.
func (s *Store) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	return s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (tenantbus.Tenant, error) {
		return s.storer.QueryByKey(ctx, key)
	})
}

// writeCache performs a write through cache for both lookup keys.
func (s *Store) writeCache(t tenantbus.Tenant) {
	s.cache.Set(t.ID.String(), t)
	s.cache.Set(t.Key, t)
}
