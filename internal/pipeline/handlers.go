package pipeline

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sarobii/microme/internal/store"
	"github.com/Sarobii/microme/pkg/auth"
	"github.com/Sarobii/microme/pkg/cache"
	"github.com/Sarobii/microme/pkg/logging"
	"github.com/Sarobii/microme/pkg/models"
)

var validUploadSources = map[string]bool{
	"":           true,
	"csv_upload": true,
	"manual":     true,
	"api":        true,
}

// Handler serves the pipeline and artifact API.
type Handler struct {
	orchestrator *Orchestrator
	store        store.Store
	cache        *cache.Cache
	logger       logging.Logger
}

func NewHandler(orch *Orchestrator, st store.Store, c *cache.Cache, logger logging.Logger) *Handler {
	return &Handler{orchestrator: orch, store: st, cache: c, logger: logger}
}

// RegisterRoutes mounts the API under an authenticated group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/pipeline/run", h.runPipeline)
	api.GET("/content", h.getContent)
	api.GET("/persona", h.getPersona)
	api.GET("/strategy", h.getStrategy)
	api.GET("/transparency", h.getTransparency)
	api.POST("/transparency/review", h.reviewTransparency)
	api.GET("/simulation", h.getSimulation)
	api.GET("/settings", h.getSettings)
	api.PUT("/settings", h.updateSettings)
}

func (h *Handler) runPipeline(c *gin.Context) {
	userID := auth.UserID(c)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !validUploadSources[req.UploadSource] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload_source"})
		return
	}

	resp := h.orchestrator.Run(c.Request.Context(), userID, req)

	// Drop every cached artifact for this user so reads reflect the run.
	h.cache.DeletePrefix(userID + ":")

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getContent(c *gin.Context) {
	userID := auth.UserID(c)
	val, ok, err := h.cache.Get(c.Request.Context(), userID+":content", func(ctx context.Context, key string) (interface{}, bool, error) {
		items, err := h.store.ListContentItems(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return items, true, nil
	})
	if err != nil {
		h.serveError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no content items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": val})
}

func (h *Handler) getPersona(c *gin.Context) {
	h.serveLatest(c, ":persona", func(ctx context.Context, userID string) (interface{}, error) {
		return h.store.LatestPersonaProfile(ctx, userID)
	})
}

func (h *Handler) getStrategy(c *gin.Context) {
	h.serveLatest(c, ":strategy", func(ctx context.Context, userID string) (interface{}, error) {
		return h.store.LatestStrategy(ctx, userID)
	})
}

func (h *Handler) getTransparency(c *gin.Context) {
	h.serveLatest(c, ":transparency", func(ctx context.Context, userID string) (interface{}, error) {
		return h.store.LatestTransparencyRecord(ctx, userID)
	})
}

func (h *Handler) getSimulation(c *gin.Context) {
	h.serveLatest(c, ":simulation", func(ctx context.Context, userID string) (interface{}, error) {
		return h.store.LatestSimulationResult(ctx, userID)
	})
}

func (h *Handler) serveLatest(c *gin.Context, suffix string, load func(ctx context.Context, userID string) (interface{}, error)) {
	userID := auth.UserID(c)
	val, ok, err := h.cache.Get(c.Request.Context(), userID+suffix, func(ctx context.Context, key string) (interface{}, bool, error) {
		artifact, err := load(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return artifact, true, nil
	})
	if err != nil {
		h.serveError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, val)
}

func (h *Handler) reviewTransparency(c *gin.Context) {
	userID := auth.UserID(c)
	err := h.store.MarkTransparencyReviewed(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no transparency record"})
		return
	}
	if err != nil {
		h.serveError(c, err)
		return
	}
	h.cache.Delete(userID + ":transparency")
	c.JSON(http.StatusOK, gin.H{"user_reviewed": true})
}

func (h *Handler) getSettings(c *gin.Context) {
	userID := auth.UserID(c)
	settings, err := h.store.GetUserSettings(c.Request.Context(), userID)
	if err != nil {
		h.serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) updateSettings(c *gin.Context) {
	userID := auth.UserID(c)
	var settings models.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.store.UpdateUserSettings(c.Request.Context(), userID, &settings); err != nil {
		h.serveError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) serveError(c *gin.Context, err error) {
	h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
