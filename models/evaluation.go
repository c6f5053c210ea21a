package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ResponseList stores the 40 SCQ answers as a JSON array column. Order
// is significant: position i is questionnaire item i+1.
type ResponseList []bool

// UnmarshalJSON accepts each answer as true/false or as a 0/1 integer,
// the two forms submitting clients use. Anything else is not coercible
// to a boolean and fails.
func (r *ResponseList) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]bool, len(raw))
	for i, v := range raw {
		switch val := v.(type) {
		case bool:
			out[i] = val
		case float64:
			switch val {
			case 0:
				out[i] = false
			case 1:
				out[i] = true
			default:
				return fmt.Errorf("response %d: %v is not coercible to boolean", i+1, val)
			}
		default:
			return fmt.Errorf("response %d: %T is not coercible to boolean", i+1, v)
		}
	}
	*r = out
	return nil
}

func (r ResponseList) Value() (driver.Value, error) {
	data, err := json.Marshal([]bool(r))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (r *ResponseList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]bool)(r))
	case string:
		return json.Unmarshal([]byte(v), (*[]bool)(r))
	case nil:
		*r = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ResponseList", src)
	}
}

type Evaluation struct {
	ID                   uint         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Sex                  string       `gorm:"column:sex;size:10;not null" json:"sex"`
	Age                  int          `gorm:"column:age;not null" json:"age"`
	Responses            ResponseList `gorm:"column:responses;type:json;not null" json:"responses"`
	PredictedProbability float64      `gorm:"column:predicted_probability;not null" json:"predicted_probability"`
	ConsentGiven         bool         `gorm:"column:consent_given;not null" json:"consent_given"`
	CreatedAt            time.Time    `gorm:"column:created_at;not null" json:"created_at"`
}

func (Evaluation) TableName() string { return "evaluations" }

// EvaluationSummary is the listing projection: everything but the raw
// responses.
type EvaluationSummary struct {
	ID                   uint      `json:"id"`
	Sex                  string    `json:"sex"`
	Age                  int       `json:"age"`
	PredictedProbability float64   `json:"predicted_probability"`
	ConsentGiven         bool      `json:"consent_given"`
	CreatedAt            time.Time `json:"created_at"`
}

func (e Evaluation) Summary() EvaluationSummary {
	return EvaluationSummary{
		ID:                   e.ID,
		Sex:                  e.Sex,
		Age:                  e.Age,
		PredictedProbability: e.PredictedProbability,
		ConsentGiven:         e.ConsentGiven,
		CreatedAt:            e.CreatedAt,
	}
}
