package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type completeReq struct {
	Prompt    string `json:"prompt"`
	Language  string `json:"language"`
	Framework string `json:"framework"`
	PersonaID string `json:"persona_id"`
}

// complete runs the full creation flow synchronously and returns the
// finished project. Per-phase progress is available at GET /:id/progress
// while the flow runs.
func (h *Handler) complete(c *gin.Context) {
	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.builder.CreateCompleteProject(c.Request.Context(), strings.TrimSpace(req.Prompt), req.Language, req.Framework, req.PersonaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) progress(c *gin.Context) {
	prog, ok := h.builder.Progress(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no progress for project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "progress": prog})
}
