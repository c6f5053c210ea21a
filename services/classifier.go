package services

import "math"

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Bucket boundaries are part of the published scoring policy. They are
// intentionally asymmetric (0.34 / 0.67) per the clinical calibration
// and must not be rounded to thirds.
const (
	mediumRiskThreshold = 0.34
	highRiskThreshold   = 0.67
)

type PredictionResult struct {
	Probability    float64   `json:"probability"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Confidence     float64   `json:"confidence"`
	Interpretation string    `json:"interpretation"`
}

var interpretations = map[RiskLevel]string{
	RiskLow:    "Low likelihood of neurodevelopmental disorder indicators; routine monitoring is sufficient.",
	RiskMedium: "Moderate likelihood of neurodevelopmental disorder indicators; a follow-up clinical assessment is recommended.",
	RiskHigh:   "High likelihood of neurodevelopmental disorder indicators; referral for a full diagnostic evaluation is recommended.",
}

// Classify buckets a model probability into a risk tier with a
// confidence derived from its distance to 0.5.
func Classify(probability float64) PredictionResult {
	level := riskLevelFor(probability)
	return PredictionResult{
		Probability:    probability,
		RiskLevel:      level,
		Confidence:     confidenceFor(probability),
		Interpretation: interpretations[level],
	}
}

func riskLevelFor(probability float64) RiskLevel {
	switch {
	case probability < mediumRiskThreshold:
		return RiskLow
	case probability < highRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func confidenceFor(probability float64) float64 {
	return math.Min(1.0, math.Abs(probability-0.5)*2.0)
}
