package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/stockman/internal/metrics"
	"github.com/hitoshi/stockman/internal/middleware"
	"github.com/hitoshi/stockman/internal/model"
	"github.com/hitoshi/stockman/internal/order"
	"github.com/hitoshi/stockman/internal/repository"
	"github.com/hitoshi/stockman/internal/stock"
)

// --- 統合テスト用のインメモリストア ---

// memStore はUser/Stock/Orderリポジトリをまとめて実装するインメモリストア。
// 実際のサービス層を通して、ハンドラーからストアまでの流れを検証する。
type memStore struct {
	mu      sync.Mutex
	users   map[int64]*model.User
	stocks  map[int64]*model.StockItem
	orders  map[int64]*model.Order
	details map[int64][]model.OrderDetail
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int64]*model.User{
			1: {ID: 1, Email: "alice@example.com", Name: "Alice"},
		},
		stocks: map[int64]*model.StockItem{
			5: {ID: 5, Name: "Compresses", AvailableQuantity: 100, Type: model.StockTypeMateriel},
		},
		orders:  make(map[int64]*model.Order),
		details: make(map[int64][]model.OrderDetail),
		nextID:  100,
	}
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[id], nil
}

func (r memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (r memUserRepo) Create(ctx context.Context, user *model.User) error {
	return fmt.Errorf("not supported")
}

type memStockRepo struct{ s *memStore }

func (r memStockRepo) List(ctx context.Context) ([]model.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []model.StockItem
	for _, st := range r.s.stocks {
		items = append(items, *st)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r memStockRepo) FindByID(ctx context.Context, id int64) (*model.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.stocks[id], nil
}

type memOrderRepo struct{ s *memStore }

func (r memOrderRepo) CreateWithDetails(ctx context.Context, userID int64, details []model.NewOrderDetail) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return 0, &repository.ReferenceError{Constraint: repository.ConstraintOrderUser, ID: userID}
	}
	for _, d := range details {
		if _, ok := r.s.stocks[d.StockItemID]; !ok {
			return 0, &repository.ReferenceError{Constraint: repository.ConstraintOrderDetailStock, ID: d.StockItemID}
		}
	}

	r.s.nextID++
	id := r.s.nextID
	r.s.orders[id] = &model.Order{ID: id, UserID: userID, OrderDate: time.Now(), Status: model.OrderStatusPending}
	for i, d := range details {
		r.s.details[id] = append(r.s.details[id], model.OrderDetail{
			ID: int64(i + 1), OrderID: id, StockItemID: d.StockItemID, Quantity: d.Quantity,
		})
	}
	return id, nil
}

func (r memOrderRepo) view(o *model.Order) model.OrderWithRelations {
	v := model.OrderWithRelations{Order: *o, User: *r.s.users[o.UserID]}
	for _, d := range r.s.details[o.ID] {
		v.Details = append(v.Details, model.OrderDetailWithStock{OrderDetail: d, Stock: *r.s.stocks[d.StockItemID]})
	}
	return v
}

func (r memOrderRepo) FindWithRelations(ctx context.Context, id int64) (*model.OrderWithRelations, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	v := r.view(o)
	return &v, nil
}

func (r memOrderRepo) ListWithRelations(ctx context.Context) ([]model.OrderWithRelations, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var views []model.OrderWithRelations
	for _, o := range r.s.orders {
		views = append(views, r.view(o))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, nil
}

func (r memOrderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	updated := *o
	return &updated, nil
}

func (r memOrderRepo) DeleteWithDetails(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return false, nil
	}
	delete(r.s.details, id)
	delete(r.s.orders, id)
	return true, nil
}

// --- 統合テスト用ルーター構築ヘルパー ---

func createIntegrationRouter(t *testing.T, store *memStore) http.Handler {
	t.Helper()
	deps := newTestRouterDeps(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	deps.StockService = stock.NewService(memStockRepo{store})
	deps.OrderService = order.NewService(memOrderRepo{store}, memUserRepo{store}, metrics.NopCollector{}, logger)
	return NewRouter(deps)
}

func sendJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIntegration_CreateApproveDeleteFlow(t *testing.T) {
	store := newMemStore()
	router := createIntegrationRouter(t, store)

	// 1. 注文作成
	w := sendJSON(t, router, http.MethodPost, "/api/orders",
		`{"userId":1,"lines":[{"stockItemId":5,"quantity":3}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var created orderWithRelationsResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode created order: %v", err)
	}
	if created.Status != "pending" || len(created.Lines) != 1 {
		t.Fatalf("created = %+v, want pending order with one line", created)
	}
	if created.Lines[0].Quantity != 3 || created.Lines[0].StockItemID != 5 || created.Lines[0].OrderID != created.ID {
		t.Errorf("line = %+v, want quantity 3 stock 5 of order %d", created.Lines[0], created.ID)
	}
	if created.User.Email != "alice@example.com" {
		t.Errorf("user.email = %q, want %q", created.User.Email, "alice@example.com")
	}

	orderPath := fmt.Sprintf("/api/orders/%d", created.ID)

	// 2. 承認
	w = sendJSON(t, router, http.MethodPatch, orderPath, `{"status":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want %d", w.Code, http.StatusOK)
	}

	w = sendJSON(t, router, http.MethodGet, "/api/orders", "")
	var listed []orderWithRelationsResponse
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != "approved" {
		t.Fatalf("listed = %+v, want one approved order", listed)
	}

	// 3. pendingへの戻しは拒否され、状態は変わらない
	w = sendJSON(t, router, http.MethodPatch, orderPath, `{"status":"pending"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("patch pending status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if store.orders[created.ID].Status != model.OrderStatusApproved {
		t.Errorf("status = %q, want approved", store.orders[created.ID].Status)
	}

	// 4. 削除
	w = sendJSON(t, router, http.MethodDelete, orderPath, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusOK)
	}

	w = sendJSON(t, router, http.MethodGet, "/api/orders", "")
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("list after delete = %s, want []", body)
	}
	if len(store.details[created.ID]) != 0 {
		t.Error("order lines remain after delete")
	}

	// 5. 再削除は404
	w = sendJSON(t, router, http.MethodDelete, orderPath, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", w.Code, http.StatusNotFound)
	}

	// 在庫数は変化しない
	if store.stocks[5].AvailableQuantity != 100 {
		t.Errorf("availableQuantity = %d, want 100", store.stocks[5].AvailableQuantity)
	}
}

func TestIntegration_CreateOrder_UnknownReferences_CreateNothing(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"unknown user", `{"userId":42,"lines":[{"stockItemId":5,"quantity":1}]}`, model.ErrCodeUserNotFound},
		{"unknown stock", `{"userId":1,"lines":[{"stockItemId":5,"quantity":1},{"stockItemId":9,"quantity":1}]}`, model.ErrCodeStockNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			router := createIntegrationRouter(t, store)

			w := sendJSON(t, router, http.MethodPost, "/api/orders", tt.body)
			if w.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
			}
			if body := decodeErrorBody(t, w); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if len(store.orders) != 0 || len(store.details) != 0 {
				t.Error("rows created despite failure")
			}
		})
	}
}

func TestIntegration_CreateOrder_QuantityOutOfColumnRange_Returns400(t *testing.T) {
	store := newMemStore()
	router := createIntegrationRouter(t, store)

	w := sendJSON(t, router, http.MethodPost, "/api/orders", `{"userId":1,"lines":[{"stockItemId":5,"quantity":3000000000}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidInput)
	}
	if len(store.orders) != 0 {
		t.Error("rows created despite invalid quantity")
	}
}

func TestIntegration_StockCatalog(t *testing.T) {
	router := createIntegrationRouter(t, newMemStore())

	w := sendJSON(t, router, http.MethodGet, "/api/stocks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var items []stockResponse
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != 5 {
		t.Errorf("items = %+v, want stock 5", items)
	}

	w = sendJSON(t, router, http.MethodGet, "/api/stocks/77", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing stock status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
