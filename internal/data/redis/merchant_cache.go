package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/loyalty-points-ledger/internal/domain/merchant"
)

const merchantKeyPrefix = "merchant:"

// MerchantCache is a read-through cache decorating a merchant.Repository.
// Merchants are read on every credit, so GetByID hits Redis first and falls
// back to the underlying repository on a miss. Cache failures are logged and
// degrade to the repository rather than failing the request. Entries expire
// after the configured TTL, which bounds how long a stale reward threshold
// can be served after a merchant update.
type MerchantCache struct {
	inner  merchant.Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMerchantCache wraps repo with a Redis-backed read-through cache
func NewMerchantCache(logger *slog.Logger, client *redis.Client, repo merchant.Repository, ttl time.Duration) merchant.Repository {
	return &MerchantCache{
		inner:  repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func merchantKey(id uuid.UUID) string {
	return merchantKeyPrefix + id.String()
}

// Create delegates to the repository and primes the cache
func (c *MerchantCache) Create(ctx context.Context, m *merchant.Merchant) error {
	if err := c.inner.Create(ctx, m); err != nil {
		return err
	}
	c.set(ctx, m)
	return nil
}

// GetByID returns the cached merchant, loading it from the repository on a miss
func (c *MerchantCache) GetByID(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	data, err := c.client.Get(ctx, merchantKey(id)).Bytes()
	if err == nil {
		var m merchant.Merchant
		if err := json.Unmarshal(data, &m); err == nil {
			return &m, nil
		}
		c.logger.Warn("Failed to decode cached merchant, falling back", "merchant_id", id.String())
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Merchant cache read failed, falling back", "merchant_id", id.String(), "error", err)
	}

	m, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, m)
	return m, nil
}

// List is not cached; it is only used by administrative listings
func (c *MerchantCache) List(ctx context.Context, limit, offset int) ([]*merchant.Merchant, error) {
	return c.inner.List(ctx, limit, offset)
}

// GetByIDs resolves each merchant through the cache
func (c *MerchantCache) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*merchant.Merchant, error) {
	merchants := make([]*merchant.Merchant, 0, len(ids))
	for _, id := range ids {
		m, err := c.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, merchant.ErrMerchantNotFound{}) {
				continue
			}
			return nil, err
		}
		merchants = append(merchants, m)
	}
	return merchants, nil
}

func (c *MerchantCache) set(ctx context.Context, m *merchant.Merchant) {
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Warn("Failed to encode merchant for cache", "merchant_id", m.ID.String(), "error", err)
		return
	}
	if err := c.client.Set(ctx, merchantKey(m.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Merchant cache write failed", "merchant_id", m.ID.String(), "error", err)
	}
}
