package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"payscribe/internal/requestctx"
)

type ctxKey string

const (
	ctxKeyUser      ctxKey = "user"
	requestIDHeader        = "X-Request-ID"
)

// RequestID keeps a caller supplied X-Request-ID when it looks sane and mints one otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), requestID)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
