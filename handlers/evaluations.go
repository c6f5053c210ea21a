package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"scq-risk-api/models"
	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	store     *services.EvaluationStore
	predictor services.Predictor
	cache     *services.CacheService
}

func NewEvaluationHandler(store *services.EvaluationStore, predictor services.Predictor, cache *services.CacheService) *EvaluationHandler {
	return &EvaluationHandler{store: store, predictor: predictor, cache: cache}
}

type SubmitRequest struct {
	Age          *int                `json:"age" binding:"required"`
	Sex          *string             `json:"sex" binding:"required"`
	Responses    models.ResponseList `json:"responses" binding:"required"`
	ConsentGiven *bool               `json:"consent_given" binding:"required"`
}

type SubmitResponse struct {
	Success      bool                      `json:"success"`
	Message      string                    `json:"message"`
	EvaluationID uint                      `json:"evaluation_id"`
	Prediction   services.PredictionResult `json:"prediction"`
	Timestamp    time.Time                 `json:"timestamp"`
}

// Submit validates a questionnaire, scores it, and persists the
// consented evaluation. The stored probability is the one returned to
// the caller; it is never recomputed for an existing record.
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		services.EvaluationsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responses, err := services.ValidateResponses(req.Responses)
	if err != nil {
		services.EvaluationsRejected.Inc()
		respondError(c, err)
		return
	}
	if err := services.ValidateAge(*req.Age); err != nil {
		services.EvaluationsRejected.Inc()
		respondError(c, err)
		return
	}
	sex, err := services.ValidateSex(*req.Sex)
	if err != nil {
		services.EvaluationsRejected.Inc()
		respondError(c, err)
		return
	}
	if !*req.ConsentGiven {
		services.EvaluationsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "consent_given: consent is required to store an evaluation"})
		return
	}

	start := time.Now()
	probability, err := h.predictor.Predict(services.EncodeFeatures(responses))
	services.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		services.PredictionsFailed.Inc()
		respondError(c, err)
		return
	}
	services.PredictionsServed.Inc()

	eval := &models.Evaluation{
		Sex:                  sex,
		Age:                  *req.Age,
		Responses:            responses,
		PredictedProbability: probability,
		ConsentGiven:         true,
		CreatedAt:            time.Now().UTC(),
	}

	id, err := h.store.Create(eval)
	if err != nil {
		respondError(c, err)
		return
	}
	services.EvaluationsStored.Inc()

	go func() {
		ctx := context.Background()
		h.cache.Delete(ctx, "stats:summary", "stats:public")
		h.cache.DeleteByPattern(ctx, "evaluations:*")
		h.cache.Publish(ctx, services.EvaluationsChannel, eval.Summary())
	}()

	c.JSON(http.StatusCreated, SubmitResponse{
		Success:      true,
		Message:      "evaluation stored",
		EvaluationID: id,
		Prediction:   services.Classify(probability),
		Timestamp:    eval.CreatedAt,
	})
}

func (h *EvaluationHandler) List(c *gin.Context) {
	p, err := ParsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cacheKey := fmt.Sprintf("evaluations:%d:%d", p.Limit, p.Offset)
	var cached []models.EvaluationSummary
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	summaries, err := h.store.List(p.Limit, p.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, summaries, 10*time.Second)

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

func (h *EvaluationHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	eval, err := h.store.Get(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eval)
}
