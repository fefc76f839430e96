package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/ix-ath/shelf-sense/internal/usecase"
	"go.uber.org/zap"
)

// Version is reported by the health check
const Version = "1.0.0"

// MaxImageBytes bounds a captured shelf photo
const MaxImageBytes = 20 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	session *usecase.ScanSession
	history *usecase.HistoryService
	prefs   *usecase.PreferenceService
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(session *usecase.ScanSession, history *usecase.HistoryService, prefs *usecase.PreferenceService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		session: session,
		history: history,
		prefs:   prefs,
		logger:  logger.Named("http"),
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type focusRequest struct {
	Index *int `json:"index" binding:"required"`
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

type toggleTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfsense",
		"version": Version,
	})
}

// GetSession returns the current screen state
func (h *Handler) GetSession(c *gin.Context) {
	h.respondSession(c, http.StatusOK)
}

// PutImage captures a shelf photo from the multipart field "image"
func (h *Handler) PutImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrMissingImage))
		return
	}
	if file.Size > MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image is too large."})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.session.SetImage(data); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// DeleteImage discards the captured photo
func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.session.ClearImage(); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// PutQuery replaces the free-text request
func (h *Handler) PutQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if err := h.session.SetQuery(req.Query); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// PutSessionTags overrides the dietary tags for the current session
func (h *Handler) PutSessionTags(c *gin.Context) {
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if err := h.session.SetTags(req.Tags); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// Analyze submits the captured image and query. The analysis outlives the
// HTTP request so a disconnecting client cannot leave the session half done.
func (h *Handler) Analyze(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if _, err := h.session.Submit(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// Reset returns the session to IDLE
func (h *Handler) Reset(c *gin.Context) {
	h.session.Reset()
	h.respondSession(c, http.StatusOK)
}

// PutFocus switches between the primary and supplementary items
func (h *Handler) PutFocus(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if err := h.session.SelectItem(*req.Index); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK)
}

// ListHistory returns recent scans, newest first
func (h *Handler) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": view.NewHistory(h.history.List())})
}

// LoadHistory shows a past result
func (h *Handler) LoadHistory(c *gin.Context) {
	item, err := h.history.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.session.LoadHistory(item)
	h.respondSession(c, http.StatusOK)
}

// ClearHistory removes every recent scan
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTags returns the global dietary tags
func (h *Handler) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": h.prefs.Tags()})
}

// ToggleTag flips one global dietary tag
func (h *Handler) ToggleTag(c *gin.Context) {
	var req toggleTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	tags, err := h.prefs.ToggleTag(c.Request.Context(), req.Tag)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetSettings returns the settings screen
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, view.NewSettings(h.prefs.Theme(), h.prefs.Tags(), len(h.history.List())))
}

// GetTagCatalog returns the offered dietary tags by category
func (h *Handler) GetTagCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": domain.TagCatalog})
}

// GetTheme returns the active theme
func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefs.Theme())
}

// PutTheme changes the active theme
func (h *Handler) PutTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if err := h.prefs.SetTheme(c.Request.Context(), domain.ThemeID(req.Theme)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.prefs.Theme())
}

// ListThemes returns every available theme
func (h *Handler) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": domain.Themes})
}

func (h *Handler) respondSession(c *gin.Context, status int) {
	s, err := view.NewSession(h.session.Snapshot())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, s)
}

// respondError maps domain errors to status codes. Remote failures share
// one generic message; the cause is only logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong."

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, domain.UserMessage(err)
	case errors.Is(err, domain.ErrAnalysisInProgress):
		status, message = http.StatusConflict, "A scan is already in progress."
	case errors.Is(err, domain.ErrStaleSession):
		status, message = http.StatusConflict, "The scan was replaced before it finished."
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusConflict, "Start a new scan first."
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrUnknownTheme):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "Not found."
	case domain.IsRemoteFailure(err):
		status, message = http.StatusBadGateway, domain.MessageAnalysisFailed
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}
