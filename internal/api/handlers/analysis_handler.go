// internal/api/handlers/analysis_handler.go
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/service"
	"github.com/payalnyahorobets-create/ppynlnya/internal/snapshot"
)

// AnalysisHandler exposes imports, reports and state transfer over HTTP.
type AnalysisHandler struct {
	svc   *service.Analysis
	store snapshot.Store
}

func NewAnalysisHandler(svc *service.Analysis, store snapshot.Store) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, store: store}
}

// ImportNomenclature accepts a JSON array of raw records. The scope query
// parameter selects the stock location; it defaults to global.
func (h *AnalysisHandler) ImportNomenclature(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records payload: "+err.Error())
		return
	}

	scope := c.DefaultQuery("scope", domain.GlobalStockKey)
	count, err := h.svc.ImportNomenclature(c.Request.Context(), records, scope)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"imported": count, "scope": scope})
}

func (h *AnalysisHandler) ImportCategoryIDs(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records payload: "+err.Error())
		return
	}

	count := h.svc.ImportCategoryIDs(c.Request.Context(), records)
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *AnalysisHandler) ImportFirstSales(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records payload: "+err.Error())
		return
	}

	count := h.svc.ImportFirstSales(c.Request.Context(), records)
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *AnalysisHandler) ImportShelfDates(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records payload: "+err.Error())
		return
	}

	count := h.svc.ImportShelfDates(c.Request.Context(), records)
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *AnalysisHandler) ImportMonthSales(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records payload: "+err.Error())
		return
	}

	month := c.Param("month")
	count, err := h.svc.ImportMonthSales(c.Request.Context(), month, records)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"imported": count, "month": month})
}

// GetMetrics returns the lifecycle metrics report. The evaluation instant can
// be pinned with ?today=2024-05-31 for reproducible exports.
func (h *AnalysisHandler) GetMetrics(c *gin.Context) {
	today := time.Now()
	if raw := c.Query("today"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid today parameter, expected YYYY-MM-DD")
			return
		}
		today = parsed
	}

	rows := h.svc.Metrics(today)
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

func (h *AnalysisHandler) GetAbcXyz(c *gin.Context) {
	report := h.svc.AbcXyz(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) GetMonthSummary(c *gin.Context) {
	rows := h.svc.MonthSummary()
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

type settingsRequest struct {
	ExcludedCategories string `json:"excluded_categories"`
	ExcludedSKUs       string `json:"excluded_skus"`
}

// UpdateSettings takes the two free-text exclusion blocks, one entry per line.
func (h *AnalysisHandler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid settings payload: "+err.Error())
		return
	}

	settings := h.svc.UpdateSettings(c.Request.Context(), req.ExcludedCategories, req.ExcludedSKUs)
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, settings)
}

func (h *AnalysisHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Settings())
}

func (h *AnalysisHandler) GetAttributes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": h.svc.Attributes()})
}

func (h *AnalysisHandler) AddAttribute(c *gin.Context) {
	var attr domain.Attribute
	if err := c.ShouldBindJSON(&attr); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid attribute payload: "+err.Error())
		return
	}
	if err := h.svc.AddAttribute(c.Request.Context(), attr); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"rows": h.svc.Attributes()})
}

func (h *AnalysisHandler) ReplaceAttributes(c *gin.Context) {
	var attrs []domain.Attribute
	if err := c.ShouldBindJSON(&attrs); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid attributes payload: "+err.Error())
		return
	}
	h.svc.ReplaceAttributes(c.Request.Context(), attrs)
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"rows": h.svc.Attributes()})
}

// ExportState streams the full state document.
func (h *AnalysisHandler) ExportState(c *gin.Context) {
	doc, err := h.svc.ExportState()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

// RestoreState replaces the full state from an uploaded document.
func (h *AnalysisHandler) RestoreState(c *gin.Context) {
	doc, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "read state document: "+err.Error())
		return
	}
	if err := h.svc.RestoreState(c.Request.Context(), doc); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.persistAfterImport(c)
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

// PersistState writes the current state through the snapshot store on demand.
func (h *AnalysisHandler) PersistState(c *gin.Context) {
	if h.store == nil {
		errorResponse(c, http.StatusConflict, "snapshot persistence is disabled")
		return
	}
	doc, err := h.svc.ExportState()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.store.Save(c.Request.Context(), doc); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"persisted": true, "bytes": len(doc)})
}

// persistAfterImport saves the snapshot after every mutation when a store is
// configured. A failed save is logged, not surfaced; the in-memory state is
// already consistent.
func (h *AnalysisHandler) persistAfterImport(c *gin.Context) {
	if h.store == nil {
		return
	}
	doc, err := h.svc.ExportState()
	if err != nil {
		log.Warn().Err(err).Msg("snapshot encode after import failed")
		return
	}
	if err := h.store.Save(c.Request.Context(), doc); err != nil {
		log.Warn().Err(err).Msg("snapshot save after import failed")
	}
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
