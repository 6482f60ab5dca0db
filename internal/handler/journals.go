package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/identity"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type JournalHandler struct {
	Journals *service.JournalService
	Zone     *time.Location
}

func (h *JournalHandler) Register(r *gin.Engine) {
	r.GET("/api/journals", h.list)
	g := r.Group("/api/trades/:id/journal")
	g.GET("", h.get)
	g.PUT("", h.put)
	g.DELETE("", h.remove)
}

func (h *JournalHandler) zone() *time.Location {
	if h.Zone == nil {
		return reconstruct.DefaultDisplayZone()
	}
	return h.Zone
}

// @Summary List journal entries
// @Tags journal
// @Produce json
// @Param trade_account query string false "trade account"
// @Param since query string false "RFC3339"
// @Param until query string false "RFC3339"
// @Param tags query string false "comma separated, all must match"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} JournalDTO
// @Router /api/journals [get]
func (h *JournalHandler) list(c *gin.Context) {
	if h.Journals == nil {
		Error(c, http.StatusInternalServerError, "journal service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	since, ok := timeQueryPtr(c, "since")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid since", nil)
		return
	}
	until, ok := timeQueryPtr(c, "until")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid until", nil)
		return
	}
	var tags []string
	if raw := strings.TrimSpace(c.Query("tags")); raw != "" {
		tags = cleanStrings(strings.Split(strings.ToLower(raw), ","))
	}
	params := repository.ListTradeJournalParams{
		Limit:        limit,
		Offset:       offset,
		UserID:       caller.UserID,
		TradeAccount: accountFilter(c, caller),
		Since:        since,
		Until:        until,
		Tags:         tags,
		OrderBy:      "created_at",
		Asc:          orderAsc(c),
	}
	items, total, err := h.Journals.List(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	out := make([]JournalDTO, 0, len(items))
	for _, it := range items {
		out = append(out, journalDTO(it, h.zone()))
	}
	Ok(c, out, paginationMeta(limit, offset, total))
}

// @Summary Get the journal of a trade
// @Tags journal
// @Produce json
// @Param id path int true "trade id"
// @Success 200 {object} JournalDTO
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id}/journal [get]
func (h *JournalHandler) get(c *gin.Context) {
	if h.Journals == nil {
		Error(c, http.StatusInternalServerError, "journal service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Journals.Get(c.Request.Context(), caller.UserID, id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, journalDTO(*item, h.zone()), nil)
}

type putJournalRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// @Summary Create or replace the journal of a trade
// @Tags journal
// @Accept json
// @Produce json
// @Param id path int true "trade id"
// @Param body body putJournalRequest true "journal"
// @Success 200 {object} JournalDTO
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id}/journal [put]
func (h *JournalHandler) put(c *gin.Context) {
	if h.Journals == nil {
		Error(c, http.StatusInternalServerError, "journal service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req putJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Journals.Save(c.Request.Context(), caller.UserID, id, req.Content, req.Tags)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, journalDTO(*item, h.zone()), nil)
}

// @Summary Delete the journal of a trade
// @Tags journal
// @Param id path int true "trade id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/trades/{id}/journal [delete]
func (h *JournalHandler) remove(c *gin.Context) {
	if h.Journals == nil {
		Error(c, http.StatusInternalServerError, "journal service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Journals.Delete(c.Request.Context(), caller.UserID, id); err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, map[string]any{"trade_id": id, "deleted": true}, nil)
}
