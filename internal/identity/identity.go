// Package identity carries the caller identity forwarded by the gateway.
// Tokens are verified upstream; this service only checks that they were sent.
package identity

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID       = "X-User-ID"
	HeaderTradeAccount = "X-Trade-Account"

	DefaultTradeAccount = "default"
)

type Caller struct {
	UserID       string
	TradeAccount string
}

type ctxKey int

const callerCtxKey ctxKey = 1

func WithCaller(ctx context.Context, c Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerCtxKey, c)
}

func FromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	c, ok := ctx.Value(callerCtxKey).(Caller)
	return c, ok
}

func FromGin(c *gin.Context) (Caller, bool) {
	if c == nil || c.Request == nil {
		return Caller{}, false
	}
	return FromContext(c.Request.Context())
}

// Account returns the explicit account if set, then the caller's header value,
// then DefaultTradeAccount.
func (c Caller) Account(explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.TradeAccount); v != "" {
		return v
	}
	return DefaultTradeAccount
}
