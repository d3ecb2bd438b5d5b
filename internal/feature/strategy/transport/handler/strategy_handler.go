// Package handler はstrategyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"stock_analyzer/internal/api"
	"stock_analyzer/internal/feature/strategy/analyzer"
	"stock_analyzer/internal/feature/strategy/domain"
	"stock_analyzer/internal/feature/strategy/domain/entity"
	"stock_analyzer/internal/feature/strategy/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// StrategyUsecase は戦略評価のユースケースインターフェースです。
type StrategyUsecase interface {
	Performance(ctx context.Context, instrument string, p analyzer.Params) ([]entity.InstrumentResult, error)
}

// StrategyHandler は戦略評価のHTTPリクエストを処理します。
type StrategyHandler struct {
	uc       StrategyUsecase
	defaults analyzer.Params
}

// NewStrategyHandler は StrategyHandler を生成します。
// defaults はクエリでウィンドウが省略された場合に使われます。
func NewStrategyHandler(uc StrategyUsecase, defaults analyzer.Params) *StrategyHandler {
	return &StrategyHandler{uc: uc, defaults: defaults}
}

// Performance は移動平均クロスオーバー戦略の評価結果を返します。
//
// エンドポイント例:
// GET /strategy/performance?instrument=HINDALCO&short_window=20&long_window=50
//
// - ウィンドウが整数でない、または不正な組み合わせなら400
// - 対象のバーが1本もなければ404
// - 全銘柄の評価に失敗した場合は500
func (h *StrategyHandler) Performance(c *gin.Context) {
	query := c.Request.URL.Query()
	params := h.defaults
	var instrument string

	if err := runtime.BindQueryParameter("form", true, false, "instrument", query, &instrument); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "short_window", query, &params.ShortWindow); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "long_window", query, &params.LongWindow); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	results, err := h.uc.Performance(c.Request.Context(), instrument, params)
	var werr *domain.InvalidWindowError
	switch {
	case err == nil:
	case errors.As(err, &werr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: werr.Error()})
		return
	case errors.Is(err, domain.ErrEmptyInput):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: domain.ErrEmptyInput.Error()})
		return
	default:
		slog.Error("strategy performance failed", "error", err, "instrument", instrument)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]dto.InstrumentResponse, 0, len(results))
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			slog.Error("instrument analysis failed", "instrument", r.Instrument, "error", r.Err)
		}
		out = append(out, dto.NewInstrumentResponse(r))
	}
	if len(results) > 0 && failed == len(results) {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: dto.MessageInternalError})
		return
	}
	c.JSON(http.StatusOK, out)
}
