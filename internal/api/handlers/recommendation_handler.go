package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/andresuchdata/storeops/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionHeader identifies the dashboard session whose product cache and
// in-flight computation a request belongs to.
const SessionHeader = "X-Session-ID"

type RecommendationHandler struct {
	service  *service.RecommendationService
	sessions *service.SessionStore
	exporter *service.ExportService
}

func NewRecommendationHandler(svc *service.RecommendationService, sessions *service.SessionStore, exporter *service.ExportService) *RecommendationHandler {
	if sessions == nil {
		sessions = service.NewSessionStore(0)
	}
	return &RecommendationHandler{service: svc, sessions: sessions, exporter: exporter}
}

func (h *RecommendationHandler) parseRequest(c *gin.Context) domain.RecommendationRequest {
	req := domain.RecommendationRequest{StoreID: repository.NormalizeID(c.Param("store"))}
	// Unparseable dates stay zero and fail validation.
	req.DateRange.From, _ = repository.ParseDate(c.Query("from"))
	req.DateRange.To, _ = repository.ParseDate(c.Query("to"))
	return req
}

// session returns the caller's session. Requests without a session ID get a new
// one, echoed in the response header for reuse.
func (h *RecommendationHandler) session(c *gin.Context) *service.Session {
	id := strings.TrimSpace(c.GetHeader(SessionHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(SessionHeader, id)
	return h.sessions.Get(id)
}

// GetRecommendations computes the order recommendations for a store and date window.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	report, err := h.service.Calculate(c.Request.Context(), h.session(c), h.parseRequest(c))
	if err != nil {
		writeRecommendationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportRecommendations renders the recommendations as a CSV download, or uploads
// them to object storage when upload=true.
func (h *RecommendationHandler) ExportRecommendations(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "export is not configured"})
		return
	}

	report, err := h.service.Calculate(c.Request.Context(), h.session(c), h.parseRequest(c))
	if err != nil {
		writeRecommendationError(c, err)
		return
	}

	if upload, _ := strconv.ParseBool(c.DefaultQuery("upload", "false")); upload {
		key, err := h.exporter.Upload(c.Request.Context(), report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload export", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"key": key, "count": len(report.Recommendations)})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exporter.FileName(report)))
	c.Status(http.StatusOK)
	if err := h.exporter.WriteCSV(c.Writer, report); err != nil {
		log.Error().Err(err).Str("store_id", report.StoreID).Msg("export: failed writing csv")
	}
}

// PrefetchProducts warms the session product cache for a store. refresh=true
// drops the session's cached details first.
func (h *RecommendationHandler) PrefetchProducts(c *gin.Context) {
	storeID := repository.NormalizeID(c.Param("store"))
	refresh := c.Query("refresh") == "true"
	resolved, err := h.service.Prefetch(c.Request.Context(), h.session(c), storeID, refresh)
	if err != nil {
		if errors.Is(err, domain.ErrStoreRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prefetch products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"store_id": storeID, "resolved": resolved})
}

func writeRecommendationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStoreRequired), errors.Is(err, domain.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate order recommendations", "details": err.Error()})
	}
}
