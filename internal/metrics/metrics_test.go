package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily はレジストリから指定名のメトリクスファミリーを取得する。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordOrderCreated_IncrementsCounters は注文数と明細数のカウンタが増加することを検証する。
func TestRecordOrderCreated_IncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderCreated(2)
	c.RecordOrderCreated(3)

	orders := findMetricFamily(t, reg, "stockman_orders_created_total")
	if val := orders.GetMetric()[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("orders_created_total = %v, want 2", val)
	}
	lines := findMetricFamily(t, reg, "stockman_order_lines_created_total")
	if val := lines.GetMetric()[0].GetCounter().GetValue(); val != 5 {
		t.Errorf("order_lines_created_total = %v, want 5", val)
	}
}

// TestRecordOrderStatusUpdated_LabelsByStatus はステータス別にカウントされることを検証する。
func TestRecordOrderStatusUpdated_LabelsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderStatusUpdated("approved")
	c.RecordOrderStatusUpdated("approved")
	c.RecordOrderStatusUpdated("rejected")

	mf := findMetricFamily(t, reg, "stockman_order_status_updates_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "status" {
				got[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if got["approved"] != 2 || got["rejected"] != 1 {
		t.Errorf("status counts = %v, want approved=2 rejected=1", got)
	}
}

// TestRecordOrderDeleted_IncrementsCounter は削除カウンタが増加することを検証する。
func TestRecordOrderDeleted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderDeleted()

	mf := findMetricFamily(t, reg, "stockman_orders_deleted_total")
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 1 {
		t.Errorf("orders_deleted_total = %v, want 1", val)
	}
}

// TestRecordHTTPStatus_LabelsByCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	mf := findMetricFamily(t, reg, "stockman_http_status_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}
}

// TestRecordRequestLatency_ObservesHistogram はヒストグラムに観測値が記録されることを検証する。
func TestRecordRequestLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency("GET", 150*time.Millisecond)

	mf := findMetricFamily(t, reg, "stockman_http_request_duration_seconds")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", h.GetSampleCount())
	}
	if h.GetSampleSum() < 0.14 || h.GetSampleSum() > 0.16 {
		t.Errorf("sample sum = %v, want ~0.15", h.GetSampleSum())
	}
}

// TestNewCollector_DuplicateRegistrationPanics は同一レジストリへの二重登録がpanicすることを検証する。
func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	_ = NewCollector(reg)
}
