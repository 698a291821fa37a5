package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/stockman/internal/middleware"
	"github.com/hitoshi/stockman/internal/model"
	"github.com/hitoshi/stockman/internal/order"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID int64, lines []order.LineInput) (*model.OrderWithRelations, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.OrderWithRelations, error)
	GetOrder(ctx context.Context, orderID int64) (*model.OrderWithRelations, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// OrderHandler は注文管理のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// createOrderRequest は注文作成リクエストのボディ。
// 未指定を検出するためポインタで受ける。
type createOrderRequest struct {
	UserID *int64                `json:"userId"`
	Lines  *[]createOrderLineReq `json:"lines"`
}

type createOrderLineReq struct {
	StockItemID *int64 `json:"stockItemId"`
	Quantity    *int   `json:"quantity"`
}

// updateOrderStatusRequest はステータス更新リクエストのボディ。
type updateOrderStatusRequest struct {
	Status *string `json:"status"`
}

// toLineInputs はリクエストの形式を検証し、サービス層の入力に変換する。
// 値の範囲（正の数量など）はサービス層で検証する。
func (req *createOrderRequest) toLineInputs() ([]order.LineInput, *model.APIError) {
	if req.UserID == nil {
		return nil, model.NewInvalidInputError("userIdは必須です")
	}
	if req.Lines == nil || len(*req.Lines) == 0 {
		return nil, model.NewInvalidInputError("linesには1件以上の明細が必要です")
	}

	lines := make([]order.LineInput, len(*req.Lines))
	for i, l := range *req.Lines {
		if l.StockItemID == nil || l.Quantity == nil {
			return nil, model.NewInvalidInputError(fmt.Sprintf("明細%dにstockItemIdとquantityが必要です", i+1))
		}
		lines[i] = order.LineInput{StockItemID: *l.StockItemID, Quantity: *l.Quantity}
	}
	return lines, nil
}

// CreateOrder は注文を作成し、ユーザー・明細付きで返す。
// POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeStrictJSON(r, &req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	lines, apiErr := req.toLineInputs()
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	created, err := h.service.CreateOrder(r.Context(), *req.UserID, lines)
	if err != nil {
		var svcErr *model.APIError
		if errors.As(err, &svcErr) {
			middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(svcErr), svcErr)
			return
		}
		// 注文作成の想定外エラーは原因をレスポンスにも含める
		slog.Error("failed to create order",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError(err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, toOrderWithRelationsResponse(*created))
}

// ListOrders は全注文を注文日の降順で返す。
// GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		handleReadError(w, r, err)
		return
	}

	resp := make([]orderWithRelationsResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderWithRelationsResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOrder は注文の詳細を返す。
// GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		handleReadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderWithRelationsResponse(*o))
}

// UpdateOrderStatus は注文ステータスを approved / rejected に更新する。
// PATCH /api/orders/{id}
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	var req updateOrderStatusRequest
	if err := decodeStrictJSON(r, &req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.Status == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidInputError("statusは必須です"))
		return
	}

	updated, err := h.service.UpdateOrderStatus(r.Context(), id, *req.Status)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*updated))
}

// DeleteOrder は注文と明細を削除する。
// DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseIDParam(r)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("注文 %d を削除しました。", id)})
}
