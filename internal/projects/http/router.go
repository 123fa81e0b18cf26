package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.POST("/complete", h.complete)
	rg.GET("/current", h.current)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.PUT("/:id/current", h.setCurrent)
	rg.GET("/:id/progress", h.progress)
}
