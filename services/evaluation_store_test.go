package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"scq-risk-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *EvaluationStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Evaluation{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	return NewEvaluationStore(db)
}

func testEvaluation(probability float64) *models.Evaluation {
	responses := make(models.ResponseList, QuestionnaireLength)
	responses[0] = true
	responses[39] = true
	return &models.Evaluation{
		Sex:                  "M",
		Age:                  8,
		Responses:            responses,
		PredictedProbability: probability,
		ConsentGiven:         true,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	eval := testEvaluation(0.42)
	id, err := store.Create(eval)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Create returned zero id")
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Sex != "M" || got.Age != 8 {
		t.Errorf("demographics mismatch: sex=%q age=%d", got.Sex, got.Age)
	}
	if got.PredictedProbability != 0.42 {
		t.Errorf("probability = %v, want 0.42", got.PredictedProbability)
	}
	if len(got.Responses) != QuestionnaireLength {
		t.Fatalf("responses length = %d, want %d", len(got.Responses), QuestionnaireLength)
	}
	if !got.Responses[0] || !got.Responses[39] || got.Responses[1] {
		t.Error("responses order not preserved through storage")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreateRequiresConsent(t *testing.T) {
	store := newTestStore(t)

	eval := testEvaluation(0.5)
	eval.ConsentGiven = false

	var validationErr *ValidationError
	if _, err := store.Create(eval); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	total, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 0 {
		t.Errorf("unconsented evaluation was persisted, count = %d", total)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get(999); !errors.Is(err, ErrEvaluationNotFound) {
		t.Errorf("expected ErrEvaluationNotFound, got %v", err)
	}
}

func TestListOrderingAndPaging(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		eval := testEvaluation(float64(i) / 10.0)
		eval.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Create(eval); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	summaries, err := store.List(3, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	for i := 1; i < len(summaries); i++ {
		if summaries[i].CreatedAt.After(summaries[i-1].CreatedAt) {
			t.Error("list not ordered by creation time descending")
		}
	}

	// Newest first: the last created row leads the page.
	if summaries[0].PredictedProbability != 0.4 {
		t.Errorf("first summary probability = %v, want 0.4", summaries[0].PredictedProbability)
	}

	offsetPage, err := store.List(3, 3)
	if err != nil {
		t.Fatalf("List with offset failed: %v", err)
	}
	if len(offsetPage) != 2 {
		t.Errorf("offset page len = %d, want 2", len(offsetPage))
	}
}

func TestListEdgeCases(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create(testEvaluation(0.5)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	empty, err := store.List(0, 0)
	if err != nil {
		t.Fatalf("List(0,0) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List(0,0) returned %d rows, want 0", len(empty))
	}

	var validationErr *ValidationError
	if _, err := store.List(-1, 0); !errors.As(err, &validationErr) {
		t.Errorf("negative limit: expected ValidationError, got %v", err)
	}
	if _, err := store.List(10, -1); !errors.As(err, &validationErr) {
		t.Errorf("negative offset: expected ValidationError, got %v", err)
	}
}

func TestListCapsLimit(t *testing.T) {
	store := newTestStore(t)

	rows, err := store.List(MaxListLimit+100, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) > MaxListLimit {
		t.Errorf("list exceeded cap: %d rows", len(rows))
	}
}

func TestStatsEmptyStore(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEvaluations != 0 {
		t.Errorf("total = %d, want 0", stats.TotalEvaluations)
	}
	if stats.AverageAge != 0 {
		t.Errorf("average age = %v, want 0", stats.AverageAge)
	}
	if stats.RiskDistribution != (RiskDistribution{}) {
		t.Errorf("risk distribution not zero: %+v", stats.RiskDistribution)
	}
	if stats.SexDistribution != (SexDistribution{}) {
		t.Errorf("sex distribution not zero: %+v", stats.SexDistribution)
	}
}

func TestStatsAggregation(t *testing.T) {
	store := newTestStore(t)

	rows := []struct {
		probability float64
		sex         string
		age         int
	}{
		{0.1, "M", 4},
		{0.33, "F", 6},
		{0.34, "M", 8},
		{0.5, "F", 10},
		{0.67, "M", 12},
		{0.9, "F", 14},
	}
	for _, row := range rows {
		eval := testEvaluation(row.probability)
		eval.Sex = row.sex
		eval.Age = row.age
		if _, err := store.Create(eval); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalEvaluations != 6 {
		t.Errorf("total = %d, want 6", stats.TotalEvaluations)
	}
	want := RiskDistribution{Low: 2, Medium: 2, High: 2}
	if stats.RiskDistribution != want {
		t.Errorf("risk distribution = %+v, want %+v", stats.RiskDistribution, want)
	}
	if stats.SexDistribution.Male != 3 || stats.SexDistribution.Female != 3 {
		t.Errorf("sex distribution = %+v", stats.SexDistribution)
	}
	if stats.AverageAge != 9 {
		t.Errorf("average age = %v, want 9", stats.AverageAge)
	}
}

func TestStatsRebucketsStoredProbabilities(t *testing.T) {
	store := newTestStore(t)

	// Probabilities sitting exactly on the published boundaries must
	// bucket the same way on every read.
	for _, p := range []float64{0.34, 0.67} {
		if _, err := store.Create(testEvaluation(p)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		stats, err := store.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.RiskDistribution.Low != 0 || stats.RiskDistribution.Medium != 1 || stats.RiskDistribution.High != 1 {
			t.Fatalf("pass %d: distribution = %+v", i, stats.RiskDistribution)
		}
	}
}

func TestCountMatchesCreates(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 4; i++ {
		if _, err := store.Create(testEvaluation(0.2)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	total, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 4 {
		t.Errorf("Count = %d, want 4", total)
	}
}

func TestPersistenceErrorWraps(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := &PersistenceError{Op: "create", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("PersistenceError must unwrap to the underlying cause")
	}
	if err.Error() == "" {
		t.Error("PersistenceError message empty")
	}
}
