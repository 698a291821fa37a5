// Package stock は在庫カタログ参照のドメインロジックを提供する。
package stock

import (
	"context"
	"fmt"

	"github.com/hitoshi/stockman/internal/model"
	"github.com/hitoshi/stockman/internal/repository"
)

// Service は在庫参照のサービス層。
// 在庫数の増減は行わない。
type Service struct {
	stockRepo repository.StockRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(stockRepo repository.StockRepository) *Service {
	return &Service{stockRepo: stockRepo}
}

// ListStock は全在庫品目を返す。フィルタ・ページングは行わない。
func (s *Service) ListStock(ctx context.Context) ([]model.StockItem, error) {
	items, err := s.stockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("在庫一覧の取得に失敗しました: %w", err)
	}
	if items == nil {
		items = []model.StockItem{}
	}
	return items, nil
}

// GetStock は指定IDの在庫品目を返す。
func (s *Service) GetStock(ctx context.Context, id int64) (*model.StockItem, error) {
	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("在庫品目の取得に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewStockNotFoundError(id)
	}
	return item, nil
}
