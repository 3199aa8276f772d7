package http

import "github.com/gin-gonic/gin"

// Register registers the project store routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/list", h.List)
	rg.GET("/get", h.Get)
	rg.POST("/save", h.Save)
}
