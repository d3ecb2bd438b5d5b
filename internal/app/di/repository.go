package di

import (
	"time"

	"stock_analyzer/internal/app/config"
	mdadapters "stock_analyzer/internal/feature/marketdata/adapters"
	mdusecase "stock_analyzer/internal/feature/marketdata/usecase"
	"stock_analyzer/internal/platform/cache"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Models lists the gorm models migrated at startup.
func Models() []any {
	return []any{&mdadapters.PriceBarModel{}}
}

// NewBarRepository returns the gorm bar repository, decorated with the Redis
// cache when a client is available.
func NewBarRepository(db *gorm.DB, rdb *redis.Client, cfg config.Cache) mdusecase.BarRepository {
	repo := mdadapters.NewBarRepository(db)
	if rdb == nil {
		return repo
	}
	ttl := func() time.Duration { return cache.DailyTTL(cfg.RefreshHour, cfg.Timezone) }
	return cache.NewCachingBarRepository(rdb, ttl, repo, cfg.Namespace)
}
