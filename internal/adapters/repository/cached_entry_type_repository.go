package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

var _ domain.EntryTypeRepository = (*CachedEntryTypeRepository)(nil)

const catalogTTL = 30 * time.Minute

// CachedEntryTypeRepository keeps each user's catalog in Redis. Every write
// drops the cached list.
type CachedEntryTypeRepository struct {
	next  domain.EntryTypeRepository
	cache *redis.Client
}

func NewCachedEntryTypeRepository(next domain.EntryTypeRepository, cache *redis.Client) *CachedEntryTypeRepository {
	return &CachedEntryTypeRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedEntryTypeRepository) cacheKey(userID string) string {
	return fmt.Sprintf("entry_types:%s", userID)
}

func (r *CachedEntryTypeRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		logger.Warn("Cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (r *CachedEntryTypeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var types []*domain.EntryType
		if err := json.Unmarshal(val, &types); err == nil {
			return types, nil
		}

		logger.Warn("Corrupted cache entry, cleaning up key", "user_id", userID)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Error("Redis read error", "error", err)
	}

	types, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(types); err == nil {
		if setErr := r.cache.Set(ctx, key, data, catalogTTL).Err(); setErr != nil {
			logger.Error("Redis set error", "error", setErr)
		}
	}

	return types, nil
}

func (r *CachedEntryTypeRepository) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	return r.next.GetByID(ctx, userID, id)
}

func (r *CachedEntryTypeRepository) Create(ctx context.Context, t *domain.EntryType) error {
	if err := r.next.Create(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.UserID)
	return nil
}

func (r *CachedEntryTypeRepository) Update(ctx context.Context, oldID string, t *domain.EntryType) error {
	if err := r.next.Update(ctx, oldID, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.UserID)
	return nil
}

func (r *CachedEntryTypeRepository) Delete(ctx context.Context, userID, id string) error {
	defer r.invalidate(ctx, userID)
	return r.next.Delete(ctx, userID, id)
}
