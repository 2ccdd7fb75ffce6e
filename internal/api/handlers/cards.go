package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-explorer/internal/models"
)

//go:generate mockgen -destination=../../mocks/handlers.go -package=mocks github.com/codyseavey/tcg-explorer/internal/api/handlers CardReader,SetValuer,Asker

// CardReader is the cached card gateway.
type CardReader interface {
	FetchSet(ctx context.Context, setID string) ([]models.Card, error)
	SearchByName(ctx context.Context, fragment string) ([]models.Card, error)
	FetchAllSets(ctx context.Context) ([]models.SetSummary, error)
}

type CardHandler struct {
	cards CardReader
}

func NewCardHandler(cards CardReader) *CardHandler {
	return &CardHandler{cards: cards}
}

// SearchCards handles GET /api/cards/search?q=<name>[&set_ids=a,b].
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	setIDs := strings.TrimSpace(c.Query("set_ids"))

	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	cards, err := h.cards.SearchByName(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	if setIDs != "" {
		allowed := map[string]struct{}{}
		for _, id := range strings.Split(setIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			allowed[strings.ToLower(id)] = struct{}{}
		}

		if len(allowed) > 0 {
			filtered := make([]models.Card, 0, len(cards))
			for i := range cards {
				if _, ok := allowed[strings.ToLower(cards[i].SetID)]; ok {
					filtered = append(filtered, cards[i])
				}
			}
			cards = filtered
		}
	}

	if cards == nil {
		cards = []models.Card{}
	}
	c.JSON(http.StatusOK, models.CardSearchResult{
		Cards:      cards,
		TotalCount: len(cards),
	})
}
