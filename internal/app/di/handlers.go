package di

import (
	"context"

	"stock_analyzer/internal/app/config"
	inadapters "stock_analyzer/internal/feature/instrument/adapters"
	inhandler "stock_analyzer/internal/feature/instrument/transport/handler"
	inusecase "stock_analyzer/internal/feature/instrument/usecase"
	mdhandler "stock_analyzer/internal/feature/marketdata/transport/handler"
	mdusecase "stock_analyzer/internal/feature/marketdata/usecase"
	"stock_analyzer/internal/feature/strategy/analyzer"
	sthandler "stock_analyzer/internal/feature/strategy/transport/handler"
	stusecase "stock_analyzer/internal/feature/strategy/usecase"
	healthhandler "stock_analyzer/internal/platform/http/handler"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Bars        *mdhandler.BarsHandler
	Instruments *inhandler.InstrumentHandler
	Strategy    *sthandler.StrategyHandler
	Health      *healthhandler.HealthHandler
}

// NewHandlers wires repositories, usecases and handlers for the HTTP server.
func NewHandlers(cfg config.Config, db *gorm.DB, rdb *redis.Client) Handlers {
	bars := NewBarRepository(db, rdb, cfg.Cache)

	barsUC := mdusecase.NewBarsUsecase(bars)
	instrumentUC := inusecase.NewInstrumentUsecase(inadapters.NewInstrumentRepository(db))
	strategyUC := stusecase.NewStrategyUsecase(bars, analyzer.New(cfg.Strategy.Workers), cfg.Strategy.Timeout)

	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return Handlers{
		Bars:        mdhandler.NewBarsHandler(barsUC),
		Instruments: inhandler.NewInstrumentHandler(instrumentUC),
		Strategy:    sthandler.NewStrategyHandler(strategyUC, cfg.Strategy.Params()),
		Health:      healthhandler.NewHealthHandler(checks),
	}
}
