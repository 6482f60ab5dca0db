package identity

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func isPublic(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

// RequireCaller rejects /api requests without X-User-ID and, when
// requireBearer is set, without a bearer token. Infra endpoints stay open.
func RequireCaller(requireBearer bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if isPublic(p) {
			c.Next()
			return
		}
		if requireBearer && (strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/swagger") || p == "/docs") {
			auth := strings.TrimSpace(c.GetHeader("Authorization"))
			if !strings.HasPrefix(auth, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing bearer token"})
				return
			}
		}
		if strings.HasPrefix(p, "/api/") {
			userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
			if userID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing " + HeaderUserID})
				return
			}
			caller := Caller{
				UserID:       userID,
				TradeAccount: strings.TrimSpace(c.GetHeader(HeaderTradeAccount)),
			}
			c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))
		}
		c.Next()
	}
}

// AuditWrites logs every mutating /api request with its caller and status.
func AuditWrites(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		method := strings.ToUpper(c.Request.Method)
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}
		caller, _ := FromGin(c)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_id", caller.UserID),
			zap.String("trade_account", caller.TradeAccount),
		}
		switch {
		case status >= 500:
			logger.Error("api write", fields...)
		case status >= 400:
			logger.Warn("api write", fields...)
		default:
			logger.Info("api write", fields...)
		}
	}
}
