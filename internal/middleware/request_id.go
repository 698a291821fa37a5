package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すHTTPヘッダー名。
const RequestIDHeader = "X-Request-ID"

var requestIDContextKey = contextKey("request_id")

// requestInfo はミドルウェア間で共有するリクエスト単位の可変情報。
// 下流で判明したユーザーIDを上流のロギングミドルウェアへ伝える。
type requestInfo struct {
	requestID string
	userID    int64
}

var requestInfoContextKey = contextKey("request_info")

// NewRequestIDMiddleware はリクエストIDを払い出すミドルウェアを返す。
// クライアントがX-Request-IDを送信した場合はそれを引き継ぎ、
// 未指定の場合はUUIDを生成する。レスポンスヘッダーにも同じ値を設定する。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			ctx = context.WithValue(ctx, requestInfoContextKey, &requestInfo{requestID: requestID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はコンテキストからリクエストIDを取得する。未設定の場合は空文字を返す。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

func requestInfoFromContext(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoContextKey).(*requestInfo)
	return info
}
