// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordOrderCreated(lines int)
	RecordOrderStatusUpdated(status string)
	RecordOrderDeleted()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(method string, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	ordersCreated       prometheus.Counter
	orderLinesCreated   prometheus.Counter
	orderStatusUpdates  *prometheus.CounterVec
	ordersDeleted       prometheus.Counter
	httpStatus          *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockman_orders_created_total",
			Help: "作成された注文の合計数",
		}),
		orderLinesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockman_order_lines_created_total",
			Help: "作成された注文明細の合計数",
		}),
		orderStatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockman_order_status_updates_total",
			Help: "ステータス別の注文ステータス更新数",
		}, []string{"status"}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockman_orders_deleted_total",
			Help: "削除された注文の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockman_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.ordersCreated,
		c.orderLinesCreated,
		c.orderStatusUpdates,
		c.ordersDeleted,
		c.httpStatus,
		c.httpRequestDuration,
	)

	return c
}

// RecordOrderCreated は注文作成と明細数を記録する。
func (c *Collector) RecordOrderCreated(lines int) {
	c.ordersCreated.Inc()
	c.orderLinesCreated.Add(float64(lines))
}

// RecordOrderStatusUpdated は注文ステータス更新を記録する。
func (c *Collector) RecordOrderStatusUpdated(status string) {
	c.orderStatusUpdates.WithLabelValues(status).Inc()
}

// RecordOrderDeleted は注文削除を記録する。
func (c *Collector) RecordOrderDeleted() {
	c.ordersDeleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(method string, duration time.Duration) {
	c.httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// NopCollector は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type NopCollector struct{}

func (NopCollector) RecordOrderCreated(int)                     {}
func (NopCollector) RecordOrderStatusUpdated(string)            {}
func (NopCollector) RecordOrderDeleted()                        {}
func (NopCollector) RecordHTTPStatus(int)                       {}
func (NopCollector) RecordRequestLatency(string, time.Duration) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
