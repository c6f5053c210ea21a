package handlers

import (
	"context"
	"net/http"
	"time"

	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	store *services.EvaluationStore
	cache *services.CacheService
}

func NewStatsHandler(store *services.EvaluationStore, cache *services.CacheService) *StatsHandler {
	return &StatsHandler{store: store, cache: cache}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	const cacheKey = "stats:summary"

	var cached services.Stats
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, stats, 30*time.Second)

	c.JSON(http.StatusOK, stats)
}

// GetPublicStats exposes only the total count, for unauthenticated
// dashboards.
func (h *StatsHandler) GetPublicStats(c *gin.Context) {
	const cacheKey = "stats:public"

	var cached gin.H
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	total, err := h.store.Count()
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"total_evaluations": total}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
