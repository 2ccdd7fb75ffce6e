package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-explorer/internal/models"
)

// SetValuer computes derived value fields for one set.
type SetValuer interface {
	ValueSet(ctx context.Context, setID string) (models.SetSummary, error)
}

type SetHandler struct {
	cards  CardReader
	valuer SetValuer
}

func NewSetHandler(cards CardReader, valuer SetValuer) *SetHandler {
	return &SetHandler{cards: cards, valuer: valuer}
}

// ListSets returns the set catalog, newest release first.
func (h *SetHandler) ListSets(c *gin.Context) {
	sets, err := h.cards.FetchAllSets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sets":        sets,
		"total_count": len(sets),
	})
}

// GetSetCards returns every card in a set.
func (h *SetHandler) GetSetCards(c *gin.Context) {
	setID := c.Param("id")

	cards, err := h.cards.FetchSet(c.Request.Context(), setID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"set_id":      setID,
		"cards":       cards,
		"total_count": len(cards),
	})
}

// GetSetValuation returns the set's catalog entry with estimated value and
// average price.
func (h *SetHandler) GetSetValuation(c *gin.Context) {
	summary, err := h.valuer.ValueSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
