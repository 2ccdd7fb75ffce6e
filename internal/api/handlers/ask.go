package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-explorer/internal/models"
)

const maxQuestionLength = 500

// Asker answers one free-text question.
type Asker interface {
	Ask(ctx context.Context, text string) models.Response
}

type AskHandler struct {
	assistant Asker
}

func NewAskHandler(assistant Asker) *AskHandler {
	return &AskHandler{assistant: assistant}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask handles POST /api/ask. Pipeline failures are reported inside the
// response body with a 200; only malformed requests get a 4xx.
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a 'question' field"})
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question must not be empty"})
		return
	}
	if len(question) > maxQuestionLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is too long"})
		return
	}

	c.JSON(http.StatusOK, h.assistant.Ask(c.Request.Context(), question))
}
