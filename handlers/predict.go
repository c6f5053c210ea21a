package handlers

import (
	"net/http"
	"time"

	"scq-risk-api/models"
	"scq-risk-api/services"

	"github.com/gin-gonic/gin"
)

type PredictHandler struct {
	predictor services.Predictor
	modelInfo services.ModelInfo
}

func NewPredictHandler(predictor services.Predictor, info services.ModelInfo) *PredictHandler {
	return &PredictHandler{predictor: predictor, modelInfo: info}
}

type PredictRequest struct {
	Responses models.ResponseList `json:"responses" binding:"required"`
	Age       *int                `json:"age"`
	Sex       *string             `json:"sex"`
}

// Predict scores a questionnaire without persisting anything.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responses, err := services.ValidateResponses(req.Responses)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Age != nil {
		if err := services.ValidateAge(*req.Age); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Sex != nil {
		if _, err := services.ValidateSex(*req.Sex); err != nil {
			respondError(c, err)
			return
		}
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

	c.JSON(http.StatusOK, services.Classify(probability))
}

// ModelInfo reports metadata about the artifact loaded at startup.
func (h *PredictHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.modelInfo)
}
