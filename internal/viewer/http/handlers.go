package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomify-labs/roomify-backend/internal/auth"
	"github.com/roomify-labs/roomify-backend/internal/viewer"
)

type Handler struct {
	viewer *viewer.Service
}

func NewHandler(v *viewer.Service) *Handler {
	return &Handler{viewer: v}
}

// Register registers the viewer routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:id", h.State)
	rg.POST("/:id/generate", h.Generate)
	rg.POST("/:id/regenerate", h.Regenerate)
	rg.POST("/:id/view", h.SetView)
}

func (h *Handler) State(c *gin.Context) {
	uid, id, ok := h.params(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.viewer.Load(c.Request.Context(), uid, id))
}

func (h *Handler) Generate(c *gin.Context) {
	uid, id, ok := h.params(c)
	if !ok {
		return
	}

	snap := h.viewer.Generate(c.Request.Context(), uid, id)
	if snap.Status == viewer.StatusError {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": snap.Error})
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

func (h *Handler) Regenerate(c *gin.Context) {
	uid, id, ok := h.params(c)
	if !ok {
		return
	}

	snap := h.viewer.Regenerate(c.Request.Context(), uid, id)
	if snap.Status == viewer.StatusError {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": snap.Error})
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

func (h *Handler) SetView(c *gin.Context) {
	uid, id, ok := h.params(c)
	if !ok {
		return
	}

	var update viewer.ViewUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "malformed body"})
		return
	}

	c.JSON(http.StatusOK, h.viewer.SetView(uid, id, update))
}

func (h *Handler) params(c *gin.Context) (uid, id string, ok bool) {
	uid = auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return "", "", false
	}

	id = c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "project id is required"})
		return "", "", false
	}
	return uid, id, true
}
