package handlers

import (
	"strconv"

	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters. Non-numeric or
// negative values are reported to the caller rather than silently
// defaulted; the 500-record cap itself is applied by the store.
func ParsePagination(c *gin.Context) (PaginationParams, error) {
	p := PaginationParams{Limit: services.DefaultListLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			return p, &services.ValidationError{Field: "limit", Message: "must be a non-negative integer"}
		}
		p.Limit = l
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		o, err := strconv.Atoi(offsetStr)
		if err != nil || o < 0 {
			return p, &services.ValidationError{Field: "offset", Message: "must be a non-negative integer"}
		}
		p.Offset = o
	}

	return p, nil
}
