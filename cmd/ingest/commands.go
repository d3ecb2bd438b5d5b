package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stock_analyzer/internal/app/config"
	"stock_analyzer/internal/app/di"
	"stock_analyzer/internal/feature/marketdata/adapters/loader"
	mdusecase "stock_analyzer/internal/feature/marketdata/usecase"
	"stock_analyzer/internal/platform/db"
	jwtmw "stock_analyzer/internal/platform/jwt"
	"stock_analyzer/internal/platform/logger"
	infraredis "stock_analyzer/internal/platform/redis"
)

// app は各サブコマンドで共有する状態です。
type app struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ingest",
		Short:         "Load price bars into the stock_data table and mint API tokens",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(a.fileCmd(), a.twelveDataCmd(), a.tokenCmd())
	return root
}

// usecase はDBへ接続し、必要ならキャッシュで包んだ IngestUsecase を返します。
func (a *app) usecase(ctx context.Context, market mdusecase.MarketRepository, withLimiter bool, sheet string) (*mdusecase.IngestUsecase, func(), error) {
	dbCfg := a.cfg.Database
	dbCfg.Migrate = true
	gdb, err := db.OpenDB(dbCfg, di.Models()...)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	// 取り込み後にサーバー側のキャッシュが古くならないよう、Redisがあれば無効化経路を通す
	rdb, err := infraredis.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		a.log.Warn("Redis unavailable; cached bars will expire on their own", "error", err)
		rdb = nil
	}
	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	bars := di.NewBarRepository(gdb, rdb, a.cfg.Cache)
	if withLimiter {
		return mdusecase.NewIngestUsecase(market, loader.NewFileLoader(sheet), bars, di.NewMarketRateLimiter(a.cfg.TwelveData)), cleanup, nil
	}
	return mdusecase.NewIngestUsecase(market, loader.NewFileLoader(sheet), bars, nil), cleanup, nil
}

func (a *app) fileCmd() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "file <path>...",
		Short: "Ingest .xlsx or .csv files (datetime, open, high, low, close, volume, instrument)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cleanup, err := a.usecase(cmd.Context(), nil, false, sheet)
			if err != nil {
				return err
			}
			defer cleanup()

			total := 0
			for _, path := range args {
				n, err := uc.IngestFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d bars from %d file(s)\n", total, len(args))
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default: first sheet)")
	return cmd
}

func (a *app) twelveDataCmd() *cobra.Command {
	var (
		symbols string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "twelvedata",
		Short: "Fetch daily bars from the Twelve Data API",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := splitSymbols(symbols)
			if len(list) == 0 {
				return fmt.Errorf("--symbols is required")
			}
			if a.cfg.TwelveData.APIKey == "" {
				return fmt.Errorf("TWELVE_DATA_API_KEY is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			uc, cleanup, err := a.usecase(ctx, di.NewMarket(a.cfg.TwelveData), true, "")
			if err != nil {
				return err
			}
			defer cleanup()

			if err := uc.IngestAll(ctx, list); err != nil {
				return err
			}
			a.log.Info("ingest ok", "symbols", len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&symbols, "symbols", "", "comma separated symbols, e.g. HINDALCO,TATASTEEL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline")
	return cmd
}

func (a *app) tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		scopes  []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for API clients (POST /data needs the bars:write scope)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl == 0 {
				ttl = a.cfg.Auth.TokenTTL
			}
			tok, err := jwtmw.NewGenerator(a.cfg.Auth.JWTSecret, ttl).GenerateToken(subject, scopes...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "loader", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.token_ttl)")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{jwtmw.ScopeWriteBars}, "granted scopes")
	return cmd
}

func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
