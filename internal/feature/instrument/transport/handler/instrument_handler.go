package handler

import (
	"context"
	"log/slog"
	"net/http"

	"stock_analyzer/internal/api"
	"stock_analyzer/internal/feature/instrument/domain/entity"
	"stock_analyzer/internal/feature/instrument/transport/http/dto"

	"github.com/gin-gonic/gin"
)

// InstrumentUsecase は銘柄一覧に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type InstrumentUsecase interface {
	ListInstruments(ctx context.Context, prefix string) ([]entity.Instrument, error)
}

// InstrumentHandler は銘柄一覧のHTTPリクエストを処理します。
type InstrumentHandler struct {
	uc InstrumentUsecase
}

// NewInstrumentHandler は新しい InstrumentHandler を作成します。
func NewInstrumentHandler(uc InstrumentUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

// List はバーが保存されている銘柄の一覧を返すAPIです。
//
// エンドポイント例:
// GET /instruments?prefix=HIN
func (h *InstrumentHandler) List(c *gin.Context) {
	items, err := h.uc.ListInstruments(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		slog.Error("list instruments failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	out := make([]dto.InstrumentItem, 0, len(items))
	for _, in := range items {
		out = append(out, dto.NewInstrumentItem(in))
	}
	c.JSON(http.StatusOK, out)
}
