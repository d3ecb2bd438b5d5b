// Package router はHTTPルーティングとミドルウェア構成を定義します。
package router

import (
	"log/slog"
	"time"

	"stock_analyzer/internal/app/di"
	"stock_analyzer/internal/platform/http/middleware"
	jwtmw "stock_analyzer/internal/platform/jwt"
	"stock_analyzer/internal/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options はルーター全体に関わる設定です。
type Options struct {
	CORSOrigins []string // 空なら CORS ヘッダーを付与しない
	JWTSecret   string   // 空なら POST /data は認証なし
	Logger      *slog.Logger
}

func NewRouter(opts Options, h di.Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(opts.Logger), metrics.GinMiddleware())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/data", h.Bars.List)
	r.GET("/instruments", h.Instruments.List)
	r.GET("/strategy/performance", h.Strategy.Performance)

	// 書き込みはシークレットが設定されていればJWT必須
	write := r.Group("/")
	if opts.JWTSecret != "" {
		write.Use(jwtmw.AuthRequired(opts.JWTSecret, jwtmw.ScopeWriteBars))
	} else {
		opts.Logger.Warn("JWT_SECRET not set, POST /data is unauthenticated")
	}
	{
		write.POST("/data", h.Bars.Create)
	}

	return r
}
