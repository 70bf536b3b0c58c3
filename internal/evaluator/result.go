package evaluator

// Issue names the STAR component an answer is missing.
type Issue string

const (
	IssueNone          Issue = "none"
	IssueMissingAction Issue = "missing_action"
	IssueMissingResult Issue = "missing_result"
)

// Diagnostics holds one human-readable line per scoring axis.
type Diagnostics struct {
	Clarity   string `json:"clarity"`
	Structure string `json:"structure"`
	Relevance string `json:"relevance"`
}

// Result is the outcome of scoring one answer. Every score lies in
// [0, 100].
type Result struct {
	Clarity   int `json:"clarity"`
	Structure int `json:"structure"`
	Relevance int `json:"relevance"`

	// Total is the rubric-weighted sum of the three axes, rounded to two
	// decimal places.
	Total float64 `json:"total"`

	ClarificationNeeded bool        `json:"clarification_needed"`
	StructureIssue      Issue       `json:"structure_issue"`
	Diagnostics         Diagnostics `json:"diagnostics"`
}
