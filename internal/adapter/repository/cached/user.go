package cached

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-service/internal/adapter/cache"
	domain "user-service/internal/domain/user"
	"user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group

	// evictions counts cache invalidations; a read that overlaps one does
	// not leave its result in the cache.
	evictions atomic.Uint64
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede.
	// The shared load must not fail because the first caller gave up.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("user:"+id, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(loadCtx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		seen := r.evictions.Load()

		// Only one request hits database
		u, err := r.dbRepo.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}

		r.store(loadCtx, u, seen)
		return u, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	// Callers mutate the returned user, so shared results are copied.
	u := *res.Val.(*domain.User)
	return &u, nil
}

// ExistsByUserName delegates to the DB repository.
func (r *CachedUserRepository) ExistsByUserName(ctx context.Context, userName, excludeID string) (bool, error) {
	return r.dbRepo.ExistsByUserName(ctx, userName, excludeID)
}

// Update updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

// WithinTransaction runs fn inside a DB transaction. Reads inside the
// transaction bypass the cache, and users updated by fn are evicted only
// after the transaction commits.
func (r *CachedUserRepository) WithinTransaction(ctx context.Context, fn func(repo user.Repository) error) error {
	var touched []string
	var mu sync.Mutex

	err := r.dbRepo.WithinTransaction(ctx, func(tx user.Repository) error {
		return fn(&recordingRepository{Repository: tx, onUpdate: func(id string) {
			mu.Lock()
			touched = append(touched, id)
			mu.Unlock()
		}})
	})
	if err != nil {
		return err
	}

	r.evict(ctx, touched...)
	return nil
}

// store caches u unless an eviction happened since the read began at
// eviction count seen. The count is checked again after the write because
// an eviction may land between the check and the write.
func (r *CachedUserRepository) store(ctx context.Context, u *domain.User, seen uint64) {
	if r.cache == nil || r.evictions.Load() != seen {
		return
	}
	if err := r.cache.Set(ctx, u); err != nil {
		r.log.Warn("failed to cache user", zap.String("id", u.ID), zap.Error(err))
		return
	}
	if r.evictions.Load() != seen {
		if err := r.cache.Delete(ctx, u.ID); err != nil {
			r.log.Warn("failed to drop possibly stale cache entry", zap.String("id", u.ID), zap.Error(err))
		}
	}
}

func (r *CachedUserRepository) evict(ctx context.Context, ids ...string) {
	if r.cache == nil || len(ids) == 0 {
		return
	}
	r.evictions.Add(1)
	if err := r.cache.Delete(ctx, ids...); err != nil {
		r.log.Warn("failed to invalidate cache after update", zap.Strings("ids", ids), zap.Error(err))
	}
}

// recordingRepository reports successful updates made through a transactional repository.
type recordingRepository struct {
	user.Repository
	onUpdate func(id string)
}

func (r *recordingRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.Repository.Update(ctx, u); err != nil {
		return err
	}
	r.onUpdate(u.ID)
	return nil
}

func (r *recordingRepository) WithinTransaction(ctx context.Context, fn func(repo user.Repository) error) error {
	return r.Repository.WithinTransaction(ctx, func(tx user.Repository) error {
		return fn(&recordingRepository{Repository: tx, onUpdate: r.onUpdate})
	})
}
