// Package order は注文の作成・承認・一覧・削除のドメインロジックを提供する。
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/hitoshi/stockman/internal/model"
	"github.com/hitoshi/stockman/internal/repository"
)

// MaxLineQuantity は1明細の数量の上限（order_details.quantity はINTEGER）。
const MaxLineQuantity = math.MaxInt32

// LineInput は注文作成時の1明細の入力。
type LineInput struct {
	StockItemID int64
	Quantity    int
}

// Recorder は注文イベントのメトリクス記録インターフェース。
type Recorder interface {
	RecordOrderCreated(lines int)
	RecordOrderStatusUpdated(status string)
	RecordOrderDeleted()
}

// Service は注文管理のサービス層。
// 在庫数（availableQuantity）の引当・戻しは行わない。
type Service struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	recorder  Recorder
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	recorder Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		recorder:  recorder,
		logger:    logger,
	}
}

// CreateOrder は注文と明細を1トランザクションで作成し、結合ビューで返す。
// 数量は在庫数と比較しない。
func (s *Service) CreateOrder(ctx context.Context, userID int64, lines []LineInput) (*model.OrderWithRelations, error) {
	if err := validateLines(userID, lines); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	details := make([]model.NewOrderDetail, len(lines))
	for i, l := range lines {
		details[i] = model.NewOrderDetail{StockItemID: l.StockItemID, Quantity: l.Quantity}
	}

	orderID, err := s.orderRepo.CreateWithDetails(ctx, userID, details)
	if err != nil {
		var refErr *repository.ReferenceError
		if errors.As(err, &refErr) {
			switch refErr.Constraint {
			case repository.ConstraintOrderUser:
				return nil, model.NewUserNotFoundError(refErr.ID)
			case repository.ConstraintOrderDetailStock:
				return nil, model.NewStockNotFoundError(refErr.ID)
			}
		}
		return nil, fmt.Errorf("注文の作成に失敗しました: %w", err)
	}

	// コミット済みなので、再読込の成否に関わらず記録する
	s.recorder.RecordOrderCreated(len(lines))
	s.logger.Info("order created",
		slog.Int64("order_id", orderID),
		slog.Int64("user_id", userID),
		slog.Int("lines", len(lines)),
	)

	created, err := s.orderRepo.FindWithRelations(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("作成した注文の取得に失敗しました: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("作成した注文が見つかりません: %d", orderID)
	}
	return created, nil
}

// validateLines は注文入力の構造を検証する。
func validateLines(userID int64, lines []LineInput) error {
	if userID <= 0 {
		return model.NewInvalidInputError("userId は正の整数で指定してください")
	}
	if len(lines) == 0 {
		return model.NewInvalidInputError("明細を1件以上指定してください")
	}
	for i, l := range lines {
		if l.StockItemID <= 0 {
			return model.NewInvalidInputError(fmt.Sprintf("明細%d: stockItemId は正の整数で指定してください", i+1))
		}
		if l.Quantity <= 0 {
			return model.NewInvalidInputError(fmt.Sprintf("明細%d: quantity は正の整数で指定してください", i+1))
		}
		if l.Quantity > MaxLineQuantity {
			return model.NewInvalidInputError(fmt.Sprintf("明細%d: quantity は%d以下で指定してください", i+1, MaxLineQuantity))
		}
	}
	return nil
}

// UpdateOrderStatus は注文ステータスを approved または rejected に上書きする。
// 現在のステータスは確認しないため approved から rejected への変更も成功する。
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*model.Order, error) {
	st, ok := model.ParseOrderStatus(status)
	if !ok || !st.IsDecision() {
		return nil, model.NewInvalidStatusError(status)
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, st)
	if err != nil {
		return nil, fmt.Errorf("注文ステータスの更新に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}

	s.recorder.RecordOrderStatusUpdated(string(st))
	s.logger.Info("order status updated",
		slog.Int64("order_id", orderID),
		slog.String("status", string(st)),
	)

	return updated, nil
}

// ListOrders は全注文をユーザー・明細・在庫品目付きでorder_date降順に返す。
func (s *Service) ListOrders(ctx context.Context) ([]model.OrderWithRelations, error) {
	orders, err := s.orderRepo.ListWithRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	if orders == nil {
		orders = []model.OrderWithRelations{}
	}
	return orders, nil
}

// GetOrder は指定IDの注文を結合ビューで返す。
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*model.OrderWithRelations, error) {
	o, err := s.orderRepo.FindWithRelations(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗しました: %w", err)
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	return o, nil
}

// DeleteOrder は注文と明細を1トランザクションで削除する。在庫数は戻さない。
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	deleted, err := s.orderRepo.DeleteWithDetails(ctx, orderID)
	if err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewOrderNotFoundError(orderID)
	}

	s.recorder.RecordOrderDeleted()
	s.logger.Info("order deleted", slog.Int64("order_id", orderID))

	return nil
}
