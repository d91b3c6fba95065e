package category

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"worker-finder/pkg/config"
	"worker-finder/pkg/httpapi"
	"worker-finder/pkg/repository"
	"worker-finder/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var Module = fx.Module("category",
	fx.Provide(
		NewService,
		httpapi.AsRouter(NewHandler),
	),
)

type Service struct {
	db    *gorm.DB
	repo  repository.Repository[Category]
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Config *config.Config
	Redis  *redis.Client `optional:"true"`
	Cache  Cache         `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	cache := p.Cache
	if cache == nil {
		cache = NewRedisCache(p.Redis)
	}

	ttl := 10 * time.Minute
	if p.Config != nil && p.Config.Marketplace.CategoryCacheTTL > 0 {
		ttl = p.Config.Marketplace.CategoryCacheTTL
	}

	return &Service{
		db:    p.DB,
		repo:  repository.ProvideStore[Category](p.DB),
		cache: cache,
		ttl:   ttl,
	}
}

// Exists reports whether a category row with id exists, active or not.
func (s *Service) Exists(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	n, err := s.repo.WithTrx(tx).Count(ctx, &Category{ID: id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActive returns the active categories ordered by name, read through
// the cache. Cache failures fall back to the database.
func (s *Service) ListActive(ctx context.Context) ([]*Category, error) {
	key := rediskey.BuildCategoryListKey()

	if s.cache != nil {
		b, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var out []*Category
			if err := json.Unmarshal(b, &out); err == nil {
				cacheRequests.WithLabelValues("hit").Inc()
				return out, nil
			}
			cacheRequests.WithLabelValues("error").Inc()
		case errors.Is(err, ErrCacheMiss):
			cacheRequests.WithLabelValues("miss").Inc()
		default:
			cacheRequests.WithLabelValues("error").Inc()
			zap.L().Warn("category cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		var out []*Category
		if err := s.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("name ASC").
			Find(&out).Error; err != nil {
			return nil, err
		}

		if s.cache != nil {
			if b, err := json.Marshal(out); err == nil {
				if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
					zap.L().Warn("category cache write failed", zap.Error(err))
				}
			}
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*Category), nil
}

// Seed inserts the given categories, skipping names that already exist,
// and drops the cached listing. It returns the number of rows inserted.
func (s *Service) Seed(ctx context.Context, categories []Category) (int64, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	rows := make([]*Category, 0, len(categories))
	for i := range categories {
		c := categories[i]
		c.IsActive = true
		rows = append(rows, &c)
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}

	s.Invalidate(ctx)

	return res.RowsAffected, nil
}

func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, rediskey.BuildCategoryListKey()); err != nil {
		zap.L().Warn("category cache invalidation failed", zap.Error(err))
	}
}
