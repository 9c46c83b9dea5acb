package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 請求識別碼的 HTTP 標頭
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID 為每個請求設定識別碼，沿用客戶端提供的值
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom 取得目前請求的識別碼
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger 以 slog 記錄每個請求，skip 中的路徑不記錄
func Logger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if skipped[c.FullPath()] {
			return
		}
		slog.Info("request",
			"request_id", RequestIDFrom(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"remote_ip", c.ClientIP())
	}
}
