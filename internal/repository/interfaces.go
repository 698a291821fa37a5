// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/stockman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// PasswordHashを含めて返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDとタイムスタンプをuserに設定する。
	// メールアドレスが重複する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// StockRepository は在庫カタログの永続化インターフェース。
type StockRepository interface {
	// List は全在庫品目をID昇順で返す。
	List(ctx context.Context) ([]model.StockItem, error)

	// FindByID は指定IDの在庫品目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.StockItem, error)
}

// OrderRepository は注文と注文明細の永続化インターフェース。
// 読み取り系はorders, users, order_details, stocksを結合したビューを返す。
type OrderRepository interface {
	// CreateWithDetails は注文（pending）と明細を同一トランザクションで作成し、注文IDを返す。
	// 外部キー違反の場合は*ReferenceErrorを返し、何も書き込まない。
	CreateWithDetails(ctx context.Context, userID int64, details []model.NewOrderDetail) (int64, error)

	// FindWithRelations は指定IDの注文を結合ビューで取得する。見つからない場合はnilを返す。
	FindWithRelations(ctx context.Context, id int64) (*model.OrderWithRelations, error)

	// ListWithRelations は全注文を結合ビューでorder_date降順に返す。
	ListWithRelations(ctx context.Context) ([]model.OrderWithRelations, error)

	// UpdateStatus は注文のステータスを上書きする。見つからない場合はnilを返す。
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)

	// DeleteWithDetails は注文行をロックし、明細と注文を同一トランザクションで削除する。
	// 注文が存在しない場合はfalseを返す。
	DeleteWithDetails(ctx context.Context, id int64) (bool, error)
}
