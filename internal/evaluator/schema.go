package evaluator

import "github.com/Anwar-Qureshi/SkillBridge/internal/llm"

// AdvisorySchema is the JSON shape requested from the generative backend
// for a second opinion on an answer.
var AdvisorySchema = &llm.Schema{
	Name:        "answer-score",
	Description: "Scores for an interview answer on three axes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clarity": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
			"star_structure": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
			"relevance": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"required":             []any{"clarity", "star_structure", "relevance"},
		"additionalProperties": false,
	},
}

// advisoryScore is the decoded advisory response.
type advisoryScore struct {
	Clarity   int `json:"clarity"`
	Structure int `json:"star_structure"`
	Relevance int `json:"relevance"`
}
