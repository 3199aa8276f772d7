package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomify-labs/roomify-backend/internal/auth"
	"github.com/roomify-labs/roomify-backend/internal/projects/domain"
	"github.com/roomify-labs/roomify-backend/internal/projects/service"
)

type Handler struct {
	projects *service.ProjectService
}

func NewHandler(projects *service.ProjectService) *Handler {
	return &Handler{projects: projects}
}

// List returns all of the caller's projects, newest first.
func (h *Handler) List(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": h.projects.List(c.Request.Context(), uid)})
}

// Get retrieves a project by id.
func (h *Handler) Get(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "id is required"})
		return
	}

	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		if err == domain.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "failed to get project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Save persists a project record. The source image is mandatory.
func (h *Handler) Save(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var body struct {
		Project *domain.Project `json:"project"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Project == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "malformed body"})
		return
	}

	if body.Project.SourceImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "sourceImage is required"})
		return
	}

	stored := h.projects.Save(c.Request.Context(), uid, body.Project)
	if stored == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "failed to save project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "id": stored.ID, "project": stored})
}
