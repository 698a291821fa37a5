package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/stockman/internal/model"
)

// orderViewQuery はorders, users, order_details, stocksを結合して取得する。
// 明細のない注文も返すため明細と在庫はLEFT JOINする。
const orderViewQuery = `
	SELECT
		o.id, o.user_id, o.order_date, o.status,
		u.id, u.email, u.name, u.created_at, u.updated_at,
		d.id, d.order_id, d.stock_id, d.quantity,
		s.id, s.name, s.description, s.available_quantity, s.type, s.created_at, s.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN order_details d ON d.order_id = o.id
	LEFT JOIN stocks s ON s.id = d.stock_id`

const orderViewOrderBy = ` ORDER BY o.order_date DESC, o.id DESC, d.id ASC`

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// CreateWithDetails は注文と明細を同一トランザクションで作成する。
// 途中で失敗した場合は全てロールバックされる。
func (r *PostgresOrderRepo) CreateWithDetails(ctx context.Context, userID int64, details []model.NewOrderDetail) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, status) VALUES ($1, $2) RETURNING id`,
		userID, model.OrderStatusPending,
	).Scan(&orderID)
	if err != nil {
		if refErr := referenceError(err, userID); refErr != nil {
			return 0, refErr
		}
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, d := range details {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_details (order_id, stock_id, quantity) VALUES ($1, $2, $3)`,
			orderID, d.StockItemID, d.Quantity,
		)
		if err != nil {
			if refErr := referenceError(err, d.StockItemID); refErr != nil {
				return 0, refErr
			}
			return 0, fmt.Errorf("failed to insert order detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return orderID, nil
}

// FindWithRelations は指定IDの注文を結合ビューで取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindWithRelations(ctx context.Context, id int64) (*model.OrderWithRelations, error) {
	rows, err := r.db.QueryContext(ctx, orderViewQuery+` WHERE o.id = $1`+orderViewOrderBy, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrderView(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

// ListWithRelations は全注文を結合ビューで取得する。
func (r *PostgresOrderRepo) ListWithRelations(ctx context.Context) ([]model.OrderWithRelations, error) {
	rows, err := r.db.QueryContext(ctx, orderViewQuery+orderViewOrderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return scanOrderView(rows)
}

// UpdateStatus は注文のステータスを上書きする。現在のステータスは確認しない。
func (r *PostgresOrderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	o := &model.Order{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1
		 RETURNING id, user_id, order_date, status`,
		id, status,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return o, nil
}

// DeleteWithDetails は注文行をFOR UPDATEでロックしてから明細、注文の順に削除する。
func (r *PostgresOrderRepo) DeleteWithDetails(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete order details: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// scanOrderView は結合クエリの結果行を注文単位に集約する。
// 行は注文ごとに連続している前提で、出現順を保持する。
func scanOrderView(rows *sql.Rows) ([]model.OrderWithRelations, error) {
	orders := []model.OrderWithRelations{}
	index := make(map[int64]int)

	for rows.Next() {
		var (
			o        model.Order
			u        model.User
			detailID sql.NullInt64
			orderID  sql.NullInt64
			stockRef sql.NullInt64
			quantity sql.NullInt64
			stockID  sql.NullInt64
			name     sql.NullString
			desc     sql.NullString
			avail    sql.NullInt64
			stype    sql.NullString
			sCreated sql.NullTime
			sUpdated sql.NullTime
		)
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.OrderDate, &o.Status,
			&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
			&detailID, &orderID, &stockRef, &quantity,
			&stockID, &name, &desc, &avail, &stype, &sCreated, &sUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		pos, ok := index[o.ID]
		if !ok {
			orders = append(orders, model.OrderWithRelations{
				Order:   o,
				User:    u,
				Details: []model.OrderDetailWithStock{},
			})
			pos = len(orders) - 1
			index[o.ID] = pos
		}

		if !detailID.Valid {
			continue
		}
		orders[pos].Details = append(orders[pos].Details, model.OrderDetailWithStock{
			OrderDetail: model.OrderDetail{
				ID:          detailID.Int64,
				OrderID:     orderID.Int64,
				StockItemID: stockRef.Int64,
				Quantity:    int(quantity.Int64),
			},
			Stock: model.StockItem{
				ID:                stockID.Int64,
				Name:              name.String,
				Description:       desc.String,
				AvailableQuantity: int(avail.Int64),
				Type:              model.StockType(stype.String),
				CreatedAt:         sCreated.Time,
				UpdatedAt:         sUpdated.Time,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	return orders, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
