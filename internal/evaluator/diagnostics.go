package evaluator

func clarityDiagnostic(score int) string {
	switch {
	case score < 35:
		return "Response is unclear or verbose; remove filler, use short sentences."
	case score < 70:
		return "Mostly clear; tighten conclusion and avoid ambiguous terms."
	default:
		return "Clear and concise."
	}
}

func structureDiagnostic(issue Issue) string {
	switch issue {
	case IssueMissingResult:
		return "STAR missing Result — add measurable outcome."
	case IssueMissingAction:
		return "STAR missing Action — describe what you did."
	default:
		return "STAR present with Situation, Task, Action, Result."
	}
}

func relevanceDiagnostic(score int) string {
	switch {
	case score < 35:
		return "Answer drifts from the question; focus on the asked problem."
	case score < 70:
		return "Generally relevant but include specific examples."
	default:
		return "Directly addresses the question with relevant details."
	}
}
