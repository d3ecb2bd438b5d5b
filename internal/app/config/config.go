// Package config はアプリケーション設定をYAMLファイルと環境変数から組み立てます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stock_analyzer/internal/feature/strategy/analyzer"
	"stock_analyzer/internal/platform/db"
	"stock_analyzer/internal/platform/externalapi/twelvedata"
	"stock_analyzer/internal/platform/redis"

	"gopkg.in/yaml.v3"
)

// Config はプロセス全体の設定です。
type Config struct {
	Server     Server            `yaml:"server"`
	Database   db.Config         `yaml:"database"`
	Redis      redis.Config      `yaml:"redis"`
	Cache      Cache             `yaml:"cache"`
	Strategy   Strategy          `yaml:"strategy"`
	Logging    Logging           `yaml:"logging"`
	Auth       Auth              `yaml:"auth"`
	TwelveData twelvedata.Config `yaml:"twelvedata"`
}

// Server はHTTPリスナーの設定です。
type Server struct {
	Addr            string        `yaml:"addr"`
	GinMode         string        `yaml:"gin_mode"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Cache はバーキャッシュの設定です。
type Cache struct {
	Namespace   string `yaml:"namespace"`
	RefreshHour int    `yaml:"refresh_hour"` // 日足が更新される現地時刻（時）
	Timezone    string `yaml:"timezone"`
}

// Strategy は戦略評価の既定値と実行制約です。
type Strategy struct {
	ShortWindow int           `yaml:"short_window"`
	LongWindow  int           `yaml:"long_window"`
	Workers     int           `yaml:"workers"` // 0 なら GOMAXPROCS
	Timeout     time.Duration `yaml:"timeout"`
}

// Params は既定のウィンドウを analyzer.Params として返します。
func (s Strategy) Params() analyzer.Params {
	return analyzer.Params{ShortWindow: s.ShortWindow, LongWindow: s.LongWindow}
}

// Logging はロガーの設定です。
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Auth はJWTの設定です。Secret が空なら書き込みAPIは認証なしで公開されます。
type Auth struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Default は設定ファイルも環境変数もない場合の値を返します。
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: db.Config{
			Driver:      db.DriverPostgres,
			Host:        "localhost",
			Port:        "5432",
			SSLMode:     "disable",
			ConnTimeout: 60 * time.Second,
		},
		Cache: Cache{
			Namespace:   "bars",
			RefreshHour: 18,
			Timezone:    "Asia/Kolkata",
		},
		Strategy: Strategy{
			ShortWindow: analyzer.DefaultShortWindow,
			LongWindow:  analyzer.DefaultLongWindow,
			Timeout:     30 * time.Second,
		},
		Logging:    Logging{Level: "info", Format: "json"},
		Auth:       Auth{TokenTTL: 24 * time.Hour},
		TwelveData: twelvedata.DefaultConfig(),
	}
}

// Load は既定値に path のYAMLを重ね、さらに環境変数で上書きした設定を返します。
// path が空ならファイルは読みません。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は起動前に検出できる設定ミスを返します。
func (c Config) Validate() error {
	if err := c.Strategy.Params().Validate(); err != nil {
		return fmt.Errorf("strategy defaults: %w", err)
	}
	if c.Cache.RefreshHour < 0 || c.Cache.RefreshHour > 23 {
		return fmt.Errorf("cache.refresh_hour must be within 0-23, got %d", c.Cache.RefreshHour)
	}
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// applyEnvOverrides は既知の環境変数が設定されていれば対応する項目を上書きします。
func applyEnvOverrides(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	str("SERVER_ADDR", &cfg.Server.Addr)
	str("GIN_MODE", &cfg.Server.GinMode)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_SSLMODE", &cfg.Database.SSLMode)
	str("DB_PATH", &cfg.Database.Path)
	str("INSTANCE_CONNECTION_NAME", &cfg.Database.InstanceName)
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		cfg.Database.Migrate = v == "true"
	}

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)

	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	str("JWT_SECRET", &cfg.Auth.JWTSecret)

	str("TWELVE_DATA_API_KEY", &cfg.TwelveData.APIKey)
	str("TWELVE_DATA_BASE_URL", &cfg.TwelveData.BaseURL)
	str("TWELVE_DATA_EXCHANGE", &cfg.TwelveData.Exchange)

	ints := []struct {
		key string
		dst *int
	}{
		{"REDIS_DB", &cfg.Redis.DB},
		{"STRATEGY_SHORT_WINDOW", &cfg.Strategy.ShortWindow},
		{"STRATEGY_LONG_WINDOW", &cfg.Strategy.LongWindow},
		{"STRATEGY_WORKERS", &cfg.Strategy.Workers},
		{"CACHE_REFRESH_HOUR", &cfg.Cache.RefreshHour},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("STRATEGY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env STRATEGY_TIMEOUT: %w", err)
		}
		cfg.Strategy.Timeout = d
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
