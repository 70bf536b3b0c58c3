package coach

import "github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"

// Feedback is the coaching returned for one scored answer. Every text
// field is non-empty.
type Feedback struct {
	ImprovementBullet    string `json:"improvement_bullet"`
	ModelAnswer          string `json:"model_answer"`
	PracticePrompt       string `json:"practice_prompt"`
	PersonalizedCoaching string `json:"personalized_coaching"`
	IdealAnswer          string `json:"ideal_answer"`

	// CoachingGenerated and IdealGenerated report whether the matching
	// section came from the generative backend rather than built-in text.
	CoachingGenerated bool `json:"coaching_generated"`
	IdealGenerated    bool `json:"ideal_generated"`
}

// Axis is one of the three scoring dimensions.
type Axis string

const (
	AxisClarity   Axis = "clarity"
	AxisStructure Axis = "structure"
	AxisRelevance Axis = "relevance"
)

// WeakestAxis returns the lowest-scoring axis. Ties go to the axis that
// comes first in the order clarity, structure, relevance.
func WeakestAxis(r evaluator.Result) Axis {
	weakest, low := AxisClarity, r.Clarity
	if r.Structure < low {
		weakest, low = AxisStructure, r.Structure
	}
	if r.Relevance < low {
		weakest = AxisRelevance
	}
	return weakest
}
