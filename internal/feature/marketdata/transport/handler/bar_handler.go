// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"stock_analyzer/internal/api"
	"stock_analyzer/internal/feature/marketdata/domain"
	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/transport/http/dto"

	"github.com/gin-gonic/gin"
)

// BarsUsecase は価格バー操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BarsUsecase interface {
	ListBars(ctx context.Context, instrument string) ([]entity.PriceBar, error)
	CreateBar(ctx context.Context, bar entity.PriceBar) (entity.PriceBar, error)
}

// BarsHandler は価格バーのHTTPリクエストを処理します。
type BarsHandler struct {
	uc BarsUsecase
}

// NewBarsHandler は指定されたusecaseでBarsHandlerの新しいインスタンスを生成します。
func NewBarsHandler(uc BarsUsecase) *BarsHandler {
	return &BarsHandler{uc: uc}
}

// List は保存済みの価格バーをJSONで返します。
//
// エンドポイント例:
// GET /data?instrument=HINDALCO
func (h *BarsHandler) List(c *gin.Context) {
	bars, err := h.uc.ListBars(c.Request.Context(), c.Query("instrument"))
	if err != nil {
		slog.Error("list bars failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]dto.BarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, dto.NewBarResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

// Create は価格バーを1本登録します。
// - リクエストJSONのバインドまたは検証に失敗した場合は400を返却
// - 同一銘柄・同一時刻のバーが既に存在する場合は409を返却
// - 成功時は登録したバーとともに201を返却
func (h *BarsHandler) Create(c *gin.Context) {
	var req dto.BarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create bar validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	bar, err := h.uc.CreateBar(c.Request.Context(), req.ToEntity())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidBar):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrDuplicateBar):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: domain.ErrDuplicateBar.Error()})
		return
	default:
		slog.Error("create bar failed", "error", err, "instrument", req.Instrument)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	slog.Info("bar created", "instrument", bar.Instrument, "datetime", bar.Time)
	c.JSON(http.StatusCreated, dto.NewBarResponse(bar))
}
