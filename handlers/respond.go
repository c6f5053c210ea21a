package handlers

import (
	"errors"
	"log"
	"net/http"

	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var persistenceErr *services.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, services.ErrEvaluationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
	case errors.As(err, &persistenceErr):
		log.Printf("storage error: %v", persistenceErr)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
