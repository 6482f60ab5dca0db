package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/identity"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type TradeHandler struct {
	Trades *service.TradeService
	Zone   *time.Location
}

func (h *TradeHandler) Register(r *gin.Engine) {
	g := r.Group("/api/trades")
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

func (h *TradeHandler) zone() *time.Location {
	if h.Zone == nil {
		return reconstruct.DefaultDisplayZone()
	}
	return h.Zone
}

var tradeOrderAllow = map[string]string{
	"first_entry": "time_of_first_entry",
	"last_exit":   "time_of_last_exit",
	"symbol":      "symbol",
	"pnl":         "pnl",
	"created_at":  "created_at",
}

// listParams reads the shared trade filters; ok is false after an error
// response has been written.
func (h *TradeHandler) listParams(c *gin.Context) (repository.ListTradesParams, bool) {
	caller, _ := identity.FromGin(c)
	since, ok := timeQueryPtr(c, "since")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid since", nil)
		return repository.ListTradesParams{}, false
	}
	until, ok := timeQueryPtr(c, "until")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid until", nil)
		return repository.ListTradesParams{}, false
	}
	return repository.ListTradesParams{
		Limit:        intQuery(c, "limit", 50),
		Offset:       intQuery(c, "offset", 0),
		UserID:       caller.UserID,
		TradeAccount: accountFilter(c, caller),
		Symbol:       strQueryPtr(c, "symbol"),
		Side:         strQueryPtr(c, "side"),
		Outcome:      strQueryPtr(c, "outcome"),
		Since:        since,
		Until:        until,
		OrderBy:      parseOrder(c.Query("order_by"), tradeOrderAllow),
		Asc:          orderAsc(c),
	}, true
}

// @Summary List trades
// @Tags trades
// @Produce json
// @Param trade_account query string false "trade account"
// @Param symbol query string false "symbol"
// @Param side query string false "Buy|Sell"
// @Param outcome query string false "Profit|Loss"
// @Param since query string false "RFC3339, first entry at or after"
// @Param until query string false "RFC3339, first entry before"
// @Param order_by query string false "first_entry|last_exit|symbol|pnl|created_at"
// @Param order query string false "asc|desc"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} TradeDTO
// @Router /api/trades [get]
func (h *TradeHandler) list(c *gin.Context) {
	if h.Trades == nil {
		Error(c, http.StatusInternalServerError, "trade service unavailable", nil)
		return
	}
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	items, total, err := h.Trades.List(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	out := make([]TradeDTO, 0, len(items))
	for _, it := range items {
		out = append(out, tradeDTO(it, h.zone()))
	}
	Ok(c, out, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Aggregate statistics over matching trades
// @Tags trades
// @Produce json
// @Success 200 {object} service.TradeStats
// @Router /api/trades/stats [get]
func (h *TradeHandler) stats(c *gin.Context) {
	if h.Trades == nil {
		Error(c, http.StatusInternalServerError, "trade service unavailable", nil)
		return
	}
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	out, err := h.Trades.Stats(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

// @Summary Get a trade
// @Tags trades
// @Produce json
// @Param id path int true "trade id"
// @Success 200 {object} TradeDTO
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id} [get]
func (h *TradeHandler) get(c *gin.Context) {
	if h.Trades == nil {
		Error(c, http.StatusInternalServerError, "trade service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Trades.Get(c.Request.Context(), caller.UserID, id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, tradeDTO(*item, h.zone()), nil)
}

// Decimal fields are strings so precision survives the round trip.
type putTradeRequest struct {
	Notes            *string `json:"notes"`
	AvgEntryPrice    *string `json:"avg_entry_price"`
	AvgExitPrice     *string `json:"avg_exit_price"`
	TotalEntryQty    *string `json:"total_entry_qty"`
	TotalExitQty     *string `json:"total_exit_qty"`
	StopLoss         *string `json:"stop_loss"`
	PriceTarget      *string `json:"price_target"`
	ClearStopLoss    bool    `json:"clear_stop_loss"`
	ClearPriceTarget bool    `json:"clear_price_target"`
}

func (req putTradeRequest) toUpdate() (service.TradeUpdate, string) {
	upd := service.TradeUpdate{
		Notes:            req.Notes,
		ClearStopLoss:    req.ClearStopLoss,
		ClearPriceTarget: req.ClearPriceTarget,
	}
	var ok bool
	if upd.AvgEntryPrice, ok = decimalPtr(req.AvgEntryPrice); !ok {
		return upd, "avg_entry_price"
	}
	if upd.AvgExitPrice, ok = decimalPtr(req.AvgExitPrice); !ok {
		return upd, "avg_exit_price"
	}
	if upd.TotalEntryQty, ok = decimalPtr(req.TotalEntryQty); !ok {
		return upd, "total_entry_qty"
	}
	if upd.TotalExitQty, ok = decimalPtr(req.TotalExitQty); !ok {
		return upd, "total_exit_qty"
	}
	if upd.StopLoss, ok = decimalPtr(req.StopLoss); !ok {
		return upd, "stop_loss"
	}
	if upd.PriceTarget, ok = decimalPtr(req.PriceTarget); !ok {
		return upd, "price_target"
	}
	return upd, ""
}

// @Summary Correct a trade
// @Description Recomputes total buy, total sell, pnl and outcome.
// @Tags trades
// @Accept json
// @Produce json
// @Param id path int true "trade id"
// @Param body body putTradeRequest true "fields to change"
// @Success 200 {object} TradeDTO
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id} [put]
func (h *TradeHandler) update(c *gin.Context) {
	if h.Trades == nil {
		Error(c, http.StatusInternalServerError, "trade service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req putTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	upd, bad := req.toUpdate()
	if bad != "" {
		Error(c, http.StatusBadRequest, "invalid "+bad, nil)
		return
	}
	item, err := h.Trades.Update(c.Request.Context(), caller.UserID, id, upd)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, tradeDTO(*item, h.zone()), nil)
}

// @Summary Delete a trade and its journal
// @Tags trades
// @Param id path int true "trade id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id} [delete]
func (h *TradeHandler) remove(c *gin.Context) {
	if h.Trades == nil {
		Error(c, http.StatusInternalServerError, "trade service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Trades.Delete(c.Request.Context(), caller.UserID, id); err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, map[string]any{"id": id, "deleted": true}, nil)
}
