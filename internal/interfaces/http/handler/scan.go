package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	scanapp "github.com/chafiq1992/order-scanner/internal/application/scanning"
	"github.com/chafiq1992/order-scanner/internal/interfaces/http/dto"
)

// ScanPort is the scan pipeline surface the handler depends on
type ScanPort interface {
	Scan(ctx context.Context, req scanapp.ScanRequest) (*scanapp.ScanResponse, error)
}

// LedgerPort is the ledger surface the handler depends on
type LedgerPort interface {
	List(ctx context.Context, query scanapp.ListQuery) ([]scanapp.ScanRecordResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*scanapp.ScanRecordResponse, error)
	Update(ctx context.Context, id uuid.UUID, req scanapp.UpdateScanRequest) (*scanapp.ScanRecordResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TagSummary(ctx context.Context, date time.Time) (*scanapp.TagSummaryResponse, error)
	StoreSummary(ctx context.Context) (*scanapp.StoreSummaryResponse, error)
}

// ScanHandler handles scan and ledger API endpoints
type ScanHandler struct {
	BaseHandler
	scanService   ScanPort
	ledgerService LedgerPort
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService ScanPort, ledgerService LedgerPort) *ScanHandler {
	return &ScanHandler{
		scanService:   scanService,
		ledgerService: ledgerService,
	}
}

// RegisterRoutes registers scan routes on the API group
func (h *ScanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scans := rg.Group("/scans")
	{
		scans.POST("", h.Scan)
		scans.GET("", h.List)
		scans.GET("/summary/tags", h.TagSummary)
		scans.GET("/summary/stores", h.StoreSummary)
		scans.GET("/:id", h.Get)
		scans.PATCH("/:id", h.Update)
		scans.DELETE("/:id", h.Delete)
	}
}

// Scan processes a barcode scan attempt
func (h *ScanHandler) Scan(c *gin.Context) {
	var req scanapp.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	resp, err := h.scanService.Scan(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// listScansQuery holds the ledger listing query parameters
type listScansQuery struct {
	Date  string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Tag   string `form:"tag" binding:"omitempty,max=20"`
	Store string `form:"store" binding:"omitempty,max=100"`
}

// List returns the scans of one UTC day, newest first. Defaults to today.
func (h *ScanHandler) List(c *gin.Context) {
	var q listScansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	date, err := parseDateOrToday(q.Date)
	if err != nil {
		h.BadRequest(c, "date must be in YYYY-MM-DD form")
		return
	}

	records, err := h.ledgerService.List(c.Request.Context(), scanapp.ListQuery{
		Date:  date,
		Tag:   q.Tag,
		Store: q.Store,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Get returns a single ledger entry
func (h *ScanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "id must be a UUID")
		return
	}

	record, err := h.ledgerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Update applies operator corrections to a recorded scan
func (h *ScanHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "id must be a UUID")
		return
	}

	var req scanapp.UpdateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	record, err := h.ledgerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a scan from the ledger
func (h *ScanHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "id must be a UUID")
		return
	}

	if err := h.ledgerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TagSummary returns delivery-tag counts for one UTC day. Defaults to today.
func (h *ScanHandler) TagSummary(c *gin.Context) {
	date, err := parseDateOrToday(c.Query("date"))
	if err != nil {
		h.BadRequest(c, "date must be in YYYY-MM-DD form")
		return
	}

	summary, err := h.ledgerService.TagSummary(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// StoreSummary returns delivery-tag counts per store
func (h *ScanHandler) StoreSummary(c *gin.Context) {
	summary, err := h.ledgerService.StoreSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// parseDateOrToday parses a YYYY-MM-DD date, defaulting to the current
// UTC day when empty
func parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
