package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/stockman/internal/middleware"
	"github.com/hitoshi/stockman/internal/model"
)

// StockServiceInterface は在庫ハンドラーが必要とするサービスインターフェース。
type StockServiceInterface interface {
	ListStock(ctx context.Context) ([]model.StockItem, error)
	GetStock(ctx context.Context, id int64) (*model.StockItem, error)
}

// StockHandler は在庫カタログ参照のHTTPハンドラー。
type StockHandler struct {
	service StockServiceInterface
}

// NewStockHandler はStockHandlerを生成する。
func NewStockHandler(service StockServiceInterface) *StockHandler {
	return &StockHandler{service: service}
}

// ListStock は在庫品目の一覧を返す。フィルタ・ページングなし。
// GET /api/stocks
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListStock(r.Context())
	if err != nil {
		handleReadError(w, r, err)
		return
	}

	resp := make([]stockResponse, len(items))
	for i, s := range items {
		resp[i] = toStockResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStock は在庫品目の詳細を返す。
// GET /api/stocks/{id}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	item, err := h.service.GetStock(r.Context(), id)
	if err != nil {
		handleReadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockResponse(*item))
}
