package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Trade Journal Service

Rebuilds round-trip trades from broker History.csv / Positions.csv exports
and keeps a journal per trade.

## Auth

All /api/* routes need the gateway headers:
- X-User-ID (required)
- X-Trade-Account (optional, default account for uploads and filters)

With server.require_bearer set, a Bearer token must also be present.
Health endpoints are public.

## Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- POST /api/imports (multipart: history, positions; form trade_account; query include_open)
- GET /api/imports
- GET /api/imports/:id
- GET /api/trades
- GET /api/trades/stats
- GET /api/trades/:id
- PUT /api/trades/:id
- DELETE /api/trades/:id
- GET|PUT|DELETE /api/trades/:id/journal
- GET /api/journals
- GET /api/system-settings/switches
- PUT /api/system-settings/switches/:name

Trade times are rendered at a fixed UTC+8 offset.
`)
	})
}
