// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// OrderStatus は注文の承認状態を表す。
type OrderStatus string

const (
	// OrderStatusPending は承認待ち。作成直後の状態。
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusApproved は承認済み。
	OrderStatusApproved OrderStatus = "approved"
	// OrderStatusRejected は却下済み。
	OrderStatusRejected OrderStatus = "rejected"
)

// legacyOrderStatuses は既存クライアントが送信する旧ロケールのステータス値。
var legacyOrderStatuses = map[string]OrderStatus{
	"en_attente": OrderStatusPending,
	"validee":    OrderStatusApproved,
	"invalidee":  OrderStatusRejected,
}

// ParseOrderStatus は文字列をOrderStatusに変換する。
// 旧ロケール値（en_attente, validee, invalidee）も受け付ける。
// 未知の値の場合はfalseを返す。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	v := strings.TrimSpace(s)
	switch OrderStatus(v) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return OrderStatus(v), true
	}
	if st, ok := legacyOrderStatuses[v]; ok {
		return st, true
	}
	return "", false
}

// IsDecision はステータス更新APIで指定可能な値（approved / rejected）かを返す。
func (s OrderStatus) IsDecision() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// Order は利用者による在庫品目の払い出し依頼を表す。
type Order struct {
	ID        int64
	UserID    int64
	OrderDate time.Time
	Status    OrderStatus
}

// OrderDetail は注文の1明細（在庫品目と数量）を表す。
// 作成後は不変で、親注文の削除時にのみ削除される。
type OrderDetail struct {
	ID          int64
	OrderID     int64
	StockItemID int64
	Quantity    int
}

// OrderDetailWithStock は明細と参照先の在庫品目を結合したモデル。
type OrderDetailWithStock struct {
	OrderDetail
	Stock StockItem
}

// OrderWithRelations は注文にユーザーと明細（在庫品目付き）を結合した読み取りモデル。
// orders, users, order_details, stocksをJOINして取得される。
type OrderWithRelations struct {
	Order
	User    User
	Details []OrderDetailWithStock
}

// NewOrderDetail は未保存の明細入力を表す。
// OrderRepository.CreateWithDetailsに渡される。
type NewOrderDetail struct {
	StockItemID int64
	Quantity    int
}
