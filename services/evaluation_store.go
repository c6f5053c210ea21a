package services

import (
	"errors"
	"time"

	"scq-risk-api/models"

	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// EvaluationStore is the append-only persistence layer for completed
// screenings. Records are never updated; deletion is an administrative
// action outside this API.
type EvaluationStore struct {
	db *gorm.DB
}

func NewEvaluationStore(db *gorm.DB) *EvaluationStore {
	return &EvaluationStore{db: db}
}

// Create persists a new evaluation and returns its assigned id.
// Consent is a hard precondition: unconsented submissions are rejected
// before any write.
func (s *EvaluationStore) Create(eval *models.Evaluation) (uint, error) {
	if !eval.ConsentGiven {
		return 0, newValidationError("consent_given", "consent is required to store an evaluation")
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}
	if err := s.db.Create(eval).Error; err != nil {
		return 0, &PersistenceError{Op: "create", Err: err}
	}
	return eval.ID, nil
}

func (s *EvaluationStore) Get(id uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := s.db.First(&eval, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEvaluationNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return &eval, nil
}

// List returns summaries ordered by creation time descending. Negative
// limit or offset is a validation failure; limit is capped at
// MaxListLimit to bound response size.
func (s *EvaluationStore) List(limit, offset int) ([]models.EvaluationSummary, error) {
	if limit < 0 {
		return nil, newValidationError("limit", "must be non-negative, got %d", limit)
	}
	if offset < 0 {
		return nil, newValidationError("offset", "must be non-negative, got %d", offset)
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	summaries := []models.EvaluationSummary{}
	if limit == 0 {
		return summaries, nil
	}

	var rows []models.Evaluation
	err := s.db.Model(&models.Evaluation{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	for _, row := range rows {
		summaries = append(summaries, row.Summary())
	}
	return summaries, nil
}

type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type SexDistribution struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

type Stats struct {
	TotalEvaluations int              `json:"total_evaluations"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
	SexDistribution  SexDistribution  `json:"sex_distribution"`
	AverageAge       float64          `json:"average_age"`
}

// Stats scans all stored evaluations and aggregates in one pass. Tiers
// are recomputed from each stored probability so that historical rows
// always bucket identically to new ones; there is no stored tier
// column to drift from the policy.
func (s *EvaluationStore) Stats() (*Stats, error) {
	var rows []struct {
		Sex                  string
		Age                  int
		PredictedProbability float64
	}
	err := s.db.Model(&models.Evaluation{}).
		Select("sex", "age", "predicted_probability").
		Find(&rows).Error
	if err != nil {
		return nil, &PersistenceError{Op: "stats", Err: err}
	}

	result := &Stats{TotalEvaluations: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	ages := make([]float64, 0, len(rows))
	for _, row := range rows {
		switch riskLevelFor(row.PredictedProbability) {
		case RiskLow:
			result.RiskDistribution.Low++
		case RiskMedium:
			result.RiskDistribution.Medium++
		case RiskHigh:
			result.RiskDistribution.High++
		}
		switch row.Sex {
		case "M":
			result.SexDistribution.Male++
		case "F":
			result.SexDistribution.Female++
		}
		ages = append(ages, float64(row.Age))
	}
	result.AverageAge = stat.Mean(ages, nil)

	return result, nil
}

// Count backs the reduced public stats view.
func (s *EvaluationStore) Count() (int64, error) {
	var total int64
	if err := s.db.Model(&models.Evaluation{}).Count(&total).Error; err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return total, nil
}
