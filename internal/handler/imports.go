package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/identity"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type ImportHandler struct {
	Imports *service.ImportService
	Zone    *time.Location

	// MaxBytes caps the whole multipart body. Zero means 10 MiB.
	MaxBytes       int64
	HistoryField   string
	PositionsField string
}

func (h *ImportHandler) Register(r *gin.Engine) {
	g := r.Group("/api/imports")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *ImportHandler) zone() *time.Location {
	if h.Zone == nil {
		return reconstruct.DefaultDisplayZone()
	}
	return h.Zone
}

func fieldOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// @Summary Upload a History/Positions export pair
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param history formData file true "History.csv"
// @Param positions formData file true "Positions.csv"
// @Param trade_account formData string false "trade account"
// @Param include_open query bool false "report open positions"
// @Success 200 {object} service.ImportReport
// @Failure 207 {object} service.ImportReport
// @Failure 400 {object} map[string]any
// @Router /api/imports [post]
func (h *ImportHandler) create(c *gin.Context) {
	if h.Imports == nil {
		Error(c, http.StatusInternalServerError, "import service unavailable", nil)
		return
	}
	caller, ok := identity.FromGin(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "missing caller", nil)
		return
	}
	maxBytes := h.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	historyHdr, err := c.FormFile(fieldOr(h.HistoryField, "history"))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, "upload too large", nil)
			return
		}
		Error(c, http.StatusBadRequest, "missing history file", nil)
		return
	}
	positionsHdr, err := c.FormFile(fieldOr(h.PositionsField, "positions"))
	if err != nil {
		Error(c, http.StatusBadRequest, "missing positions file", nil)
		return
	}
	history, err := historyHdr.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer closeQuietly(history)
	positions, err := positionsHdr.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer closeQuietly(positions)

	report, err := h.Imports.Import(c.Request.Context(), service.ImportRequest{
		UserID:       caller.UserID,
		TradeAccount: caller.Account(c.PostForm("trade_account")),
		History:      history,
		Positions:    positions,
		IncludeOpen:  boolQueryPtr(c, "include_open"),
		Source:       service.ImportSourceUpload,
	})
	if errors.Is(err, service.ErrPartialImport) {
		c.JSON(http.StatusMultiStatus, apiResponse{
			Code:    http.StatusMultiStatus,
			Message: err.Error(),
			Data:    report,
		})
		return
	}
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, report, nil)
}

func closeQuietly(f multipart.File) { _ = f.Close() }

// @Summary List import batches
// @Tags imports
// @Produce json
// @Param trade_account query string false "trade account"
// @Param status query string false "completed|partial"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} ImportBatchDTO
// @Router /api/imports [get]
func (h *ImportHandler) list(c *gin.Context) {
	if h.Imports == nil {
		Error(c, http.StatusInternalServerError, "import service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListImportBatchesParams{
		Limit:        limit,
		Offset:       offset,
		UserID:       caller.UserID,
		TradeAccount: accountFilter(c, caller),
		Status:       strQueryPtr(c, "status"),
		OrderBy:      "started_at",
		Asc:          orderAsc(c),
	}
	items, total, err := h.Imports.ListBatches(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	out := make([]ImportBatchDTO, 0, len(items))
	for _, it := range items {
		out = append(out, importBatchDTO(it, h.zone()))
	}
	Ok(c, out, paginationMeta(limit, offset, total))
}

// @Summary Get an import batch
// @Tags imports
// @Produce json
// @Param id path string true "batch id"
// @Success 200 {object} ImportBatchDTO
// @Failure 404 {object} map[string]any
// @Router /api/imports/{id} [get]
func (h *ImportHandler) get(c *gin.Context) {
	if h.Imports == nil {
		Error(c, http.StatusInternalServerError, "import service unavailable", nil)
		return
	}
	caller, _ := identity.FromGin(c)
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Imports.GetBatch(c.Request.Context(), caller.UserID, id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, importBatchDTO(*item, h.zone()), nil)
}
