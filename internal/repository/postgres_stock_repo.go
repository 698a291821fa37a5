package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/stockman/internal/model"
)

const stockColumns = `id, name, description, available_quantity, type, created_at, updated_at`

// PostgresStockRepo はPostgreSQLを使用した在庫リポジトリ。
type PostgresStockRepo struct {
	db *sql.DB
}

// NewPostgresStockRepo はPostgresStockRepoを生成する。
func NewPostgresStockRepo(db *sql.DB) *PostgresStockRepo {
	return &PostgresStockRepo{db: db}
}

// List は全在庫品目をID昇順で返す。0件の場合は空スライスを返す。
func (r *PostgresStockRepo) List(ctx context.Context) ([]model.StockItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stockColumns+` FROM stocks ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	defer rows.Close()

	items := []model.StockItem{}
	for rows.Next() {
		var s model.StockItem
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.AvailableQuantity, &s.Type, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock rows: %w", err)
	}
	return items, nil
}

// FindByID は指定IDの在庫品目を取得する。見つからない場合はnilを返す。
func (r *PostgresStockRepo) FindByID(ctx context.Context, id int64) (*model.StockItem, error) {
	s := &model.StockItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+stockColumns+` FROM stocks WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.AvailableQuantity, &s.Type, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find stock by ID: %w", err)
	}
	return s, nil
}

// compile-time interface check
var _ StockRepository = (*PostgresStockRepo)(nil)
