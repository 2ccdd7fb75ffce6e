package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-explorer/internal/errs"
)

// writeError maps the error taxonomy onto HTTP statuses. Messages are fixed
// strings; upstream detail only goes to the request log via c.Error.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errs.Is(err, errs.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Cause(err)})
	case errs.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errs.Is(err, errs.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "card data is temporarily unavailable, try again",
			"retryable": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
