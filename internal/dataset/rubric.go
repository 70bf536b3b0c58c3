package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Weights are the per-axis percentages applied to the sub-scores.
type Weights struct {
	Clarity   int `json:"clarity"`
	Structure int `json:"structure"`
	Relevance int `json:"relevance"`
}

// Rubric controls score aggregation and when a clarification is requested.
type Rubric struct {
	Weights                Weights `json:"weights"`
	ClarificationThreshold float64 `json:"clarification_threshold"`
}

// DefaultRubric returns the built-in rubric: 40/35/25 with threshold 45.
func DefaultRubric() Rubric {
	return Rubric{
		Weights:                Weights{Clarity: 40, Structure: 35, Relevance: 25},
		ClarificationThreshold: 45,
	}
}

// Validate rejects negative weights, an all-zero weight set and a
// threshold outside [0,100].
func (r Rubric) Validate() error {
	w := r.Weights
	if w.Clarity < 0 || w.Structure < 0 || w.Relevance < 0 {
		return fmt.Errorf("negative weight in %+v", w)
	}
	if w.Clarity+w.Structure+w.Relevance == 0 {
		return fmt.Errorf("all weights are zero")
	}
	if r.ClarificationThreshold < 0 || r.ClarificationThreshold > 100 {
		return fmt.Errorf("clarification threshold %v out of range", r.ClarificationThreshold)
	}
	return nil
}

// rawRubric distinguishes absent fields from zero values.
type rawRubric struct {
	Weights *struct {
		Clarity   *int `json:"clarity"`
		Structure *int `json:"structure"`
		Relevance *int `json:"relevance"`
	} `json:"weights"`
	ClarificationThreshold *float64 `json:"clarification_threshold"`
}

// LoadRubric reads the rubric at path. A missing or malformed file yields
// DefaultRubric; absent fields keep their default values. It never fails.
func LoadRubric(path string, log *zap.Logger) Rubric {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultRubric()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("rubric not found, using defaults", zap.String("path", path), zap.Error(err))
		return def
	}

	r, err := ParseRubric(data)
	if err != nil {
		log.Warn("invalid rubric, using defaults", zap.String("path", path), zap.Error(err))
		return def
	}
	return r
}

// ParseRubric decodes a rubric document, filling absent fields from
// DefaultRubric.
func ParseRubric(data []byte) (Rubric, error) {
	var raw rawRubric
	if err := json.Unmarshal(data, &raw); err != nil {
		return Rubric{}, fmt.Errorf("parse rubric: %w", err)
	}

	r := DefaultRubric()
	if raw.Weights != nil {
		if raw.Weights.Clarity != nil {
			r.Weights.Clarity = *raw.Weights.Clarity
		}
		if raw.Weights.Structure != nil {
			r.Weights.Structure = *raw.Weights.Structure
		}
		if raw.Weights.Relevance != nil {
			r.Weights.Relevance = *raw.Weights.Relevance
		}
	}
	if raw.ClarificationThreshold != nil {
		r.ClarificationThreshold = *raw.ClarificationThreshold
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}
