package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"developer-directory/internal/core/cache"
	"developer-directory/internal/domain"
)

// CachedDeveloperRepo 按 id 读穿缓存；Update/Delete 后失效。List 不缓存。
type CachedDeveloperRepo struct {
	domain.DeveloperRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedDeveloperRepo(inner domain.DeveloperRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedDeveloperRepo {
	return &CachedDeveloperRepo{DeveloperRepository: inner, cache: c, ttl: ttl, log: l}
}

func (r *CachedDeveloperRepo) key(id string) string { return r.cache.Key("developer", id) }

func (r *CachedDeveloperRepo) FindByID(ctx context.Context, id string) (*domain.Developer, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, r.key(id), r.ttl, func(ctx context.Context) (*domain.Developer, error) {
		return r.DeveloperRepository.FindByID(ctx, id)
	})
}

func (r *CachedDeveloperRepo) Update(ctx context.Context, d *domain.Developer) error {
	err := r.DeveloperRepository.Update(ctx, d)
	r.invalidate(ctx, d.ID)
	return err
}

func (r *CachedDeveloperRepo) Delete(ctx context.Context, id string) error {
	err := r.DeveloperRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedDeveloperRepo) invalidate(ctx context.Context, id string) {
	if err := r.cache.Del(ctx, r.key(id)); err != nil {
		r.log.Warn("developer cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
