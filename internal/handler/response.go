package handler

import (
	"time"

	"github.com/hitoshi/stockman/internal/model"
)

// stockResponse は在庫品目のAPIレスポンス。
type stockResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	AvailableQuantity int       `json:"availableQuantity"`
	Type              string    `json:"type"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// orderResponse は注文本体のAPIレスポンス。
type orderResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	OrderDate time.Time `json:"orderDate"`
	Status    string    `json:"status"`
}

// orderLineResponse は注文明細のAPIレスポンス。在庫品目を結合して返す。
type orderLineResponse struct {
	ID          int64         `json:"id"`
	OrderID     int64         `json:"orderId"`
	StockItemID int64         `json:"stockItemId"`
	Quantity    int           `json:"quantity"`
	StockItem   stockResponse `json:"stockItem"`
}

// orderWithRelationsResponse はユーザーと明細を結合した注文のAPIレスポンス。
type orderWithRelationsResponse struct {
	orderResponse
	User  userResponse        `json:"user"`
	Lines []orderLineResponse `json:"lines"`
}

// messageResponse は確認メッセージのみを返すレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

func toStockResponse(s model.StockItem) stockResponse {
	return stockResponse{
		ID:                s.ID,
		Name:              s.Name,
		Description:       s.Description,
		AvailableQuantity: s.AvailableQuantity,
		Type:              string(s.Type),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toOrderResponse(o model.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		OrderDate: o.OrderDate,
		Status:    string(o.Status),
	}
}

func toOrderWithRelationsResponse(o model.OrderWithRelations) orderWithRelationsResponse {
	lines := make([]orderLineResponse, len(o.Details))
	for i, d := range o.Details {
		lines[i] = orderLineResponse{
			ID:          d.ID,
			OrderID:     d.OrderID,
			StockItemID: d.StockItemID,
			Quantity:    d.Quantity,
			StockItem:   toStockResponse(d.Stock),
		}
	}
	return orderWithRelationsResponse{
		orderResponse: toOrderResponse(o.Order),
		User:          toUserResponse(&o.User),
		Lines:         lines,
	}
}
