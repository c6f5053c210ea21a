package services

import "strings"

const (
	// QuestionnaireLength is the fixed item count of the SCQ instrument.
	QuestionnaireLength = 40

	MinAge = 0
	MaxAge = 120
)

// ValidateResponses checks that a submitted answer set has exactly 40
// entries and returns a normalized copy. Length mismatches are never
// truncated or padded.
func ValidateResponses(responses []bool) ([]bool, error) {
	if len(responses) != QuestionnaireLength {
		return nil, newValidationError("responses",
			"expected exactly %d responses, got %d", QuestionnaireLength, len(responses))
	}
	out := make([]bool, QuestionnaireLength)
	copy(out, responses)
	return out, nil
}

// ValidateAge accepts the plausible clinical range [0, 120].
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return newValidationError("age", "must be between %d and %d, got %d", MinAge, MaxAge, age)
	}
	return nil
}

// ValidateSex normalizes case and accepts only M or F.
func ValidateSex(sex string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sex))
	if normalized != "M" && normalized != "F" {
		return "", newValidationError("sex", "must be M or F, got %q", sex)
	}
	return normalized, nil
}

// EncodeFeatures maps a validated answer set onto the numeric feature
// vector the model consumes (true -> 1.0, false -> 0.0).
func EncodeFeatures(responses []bool) []float64 {
	features := make([]float64, len(responses))
	for i, r := range responses {
		if r {
			features[i] = 1.0
		}
	}
	return features
}
