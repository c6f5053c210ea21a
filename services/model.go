package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Predictor is the single-method contract handlers depend on, so tests
// can inject a stub instead of a real artifact.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// treeNode is one node of an exported decision tree. Leaf nodes have
// Left == -1 and carry the positive-class probability in Value.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

// RiskModel wraps a forest artifact exported to JSON by the training
// pipeline. It is loaded once at process start and read-only afterwards,
// so concurrent Predict calls need no locking.
type RiskModel struct {
	Version     string `json:"version"`
	NumFeatures int    `json:"num_features"`
	Trees       []tree `json:"trees"`
}

// LoadRiskModel reads and validates the artifact. Any failure here is
// ErrModelUnavailable: the caller should treat it as fatal rather than
// serve degraded predictions.
func LoadRiskModel(path string) (*RiskModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrModelUnavailable, path, err)
	}

	var m RiskModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrModelUnavailable, path, err)
	}

	if m.NumFeatures != QuestionnaireLength {
		return nil, fmt.Errorf("%w: artifact expects %d features, want %d",
			ErrModelUnavailable, m.NumFeatures, QuestionnaireLength)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("%w: artifact contains no trees", ErrModelUnavailable)
	}
	for i, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("%w: tree %d is empty", ErrModelUnavailable, i)
		}
	}

	return &m, nil
}

// Predict averages the per-tree leaf probabilities for the given
// feature vector. Deterministic for a fixed artifact.
func (m *RiskModel) Predict(features []float64) (float64, error) {
	if len(features) != m.NumFeatures {
		return 0, newValidationError("features",
			"expected %d features, got %d", m.NumFeatures, len(features))
	}

	sum := 0.0
	for i := range m.Trees {
		leaf, err := m.Trees[i].evaluate(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += leaf
	}

	probability := sum / float64(len(m.Trees))
	return math.Max(0.0, math.Min(1.0, probability)), nil
}

func (t *tree) evaluate(features []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Left < 0 {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0, fmt.Errorf("feature index %d out of range", node.Feature)
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("cycle detected")
}

// ModelInfo describes the loaded artifact for the metadata endpoint.
type ModelInfo struct {
	Version      string `json:"version"`
	FeatureCount int    `json:"feature_count"`
	TreeCount    int    `json:"tree_count"`
}

func (m *RiskModel) Info() ModelInfo {
	return ModelInfo{
		Version:      m.Version,
		FeatureCount: m.NumFeatures,
		TreeCount:    len(m.Trees),
	}
}
