package coach

import (
	"strings"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
)

const (
	defaultMissingResultBullet = "Add a measurable result (e.g., reduced latency by 30%)."
	defaultMissingActionBullet = "Specify the concrete actions you took—tools, steps, stakeholders."
	defaultUnclearBullet       = "Rewrite the opening sentence to state the situation concisely."
	defaultOffTopicBullet      = "Focus on answering what was asked with specific examples."

	defaultImproveResultPrompt = "Rewrite your answer including a quantifiable result."
	defaultAddActionPrompt     = "Explain step-by-step what you did."
	defaultClarifyPrompt       = "Provide one-sentence clarification focusing on the outcome."

	defaultModelAnswer = "S: [Situation]\nT: [Task]\nA: [Action — what you did]\nR: [Result — measurable outcome]"
)

const (
	coachingMissingResult = "You provided context about the situation but didn't quantify the outcome. " +
		"Next time when answering behavioral questions, always end with measurable results like " +
		"'reduced response time by 40%' or 'increased user engagement by 25%'. This is good interview " +
		"practice because interviewers want tangible evidence of your impact, not just descriptions of what you did."

	coachingMissingAction = "Your answer mentioned the situation but lacked specific actions you personally took. " +
		"Next time when facing this type of question, try structuring your answer with clear action steps: " +
		"'I implemented X, configured Y, and tested Z.' This is good interview practice because interviewers " +
		"need to understand your hands-on contributions and technical decision-making process."

	coachingClarity = "You covered the main points but the answer could be more concise and focused. " +
		"Next time when answering, start with a one-sentence situation summary, then move directly to your " +
		"actions and results. This is good interview practice because interviewers appreciate clear, structured " +
		"responses that respect their time and make your accomplishments easy to understand."

	coachingRelevance = "Your answer was well-structured but didn't fully address what the question was asking for. " +
		"Next time when facing similar questions, ensure you directly answer the specific scenario requested and " +
		"include relevant examples. This is good interview practice because staying on topic demonstrates your " +
		"listening skills and ability to provide relevant information under pressure."
)

// FallbackIdealAnswer is the STAR example shown when no ideal answer was
// generated.
const FallbackIdealAnswer = `**Ideal STAR Answer Example:**

**Situation:** In my previous role at [Company], we faced [specific challenge related to the question].

**Task:** I was responsible for [clear objective or goal that needed to be achieved].

**Action:** I took the following steps:
- First, I analyzed [specific technical aspect] and identified [root cause]
- Then, I implemented [specific solution with technical details]
- I also [additional action that shows initiative]
- Finally, I tested and validated [how you ensured quality]

**Result:** This resulted in [quantified improvement - e.g., "40% performance increase", "reduced downtime by 2 hours/week", "improved user satisfaction score from 3.2 to 4.5"]. The solution was adopted across [scope of impact].

Key takeaway: Always include measurable outcomes and specific technical decisions.`

var modelAnswerPlaceholders = strings.NewReplacer(
	"{situation}", "[Situation]",
	"{task}", "[Task]",
	"{actions}", "[Actions]",
	"{result}", "[Result]",
)

// advice picks the improvement bullet and practice prompt for the weakest
// axis, preferring the loaded templates over built-in wording.
func advice(t dataset.GeneralTemplates, eval evaluator.Result) (bullet, practice string) {
	bullets, prompts := t.ImprovementBullets, t.PracticePrompts

	switch WeakestAxis(eval) {
	case AxisStructure:
		if eval.StructureIssue == evaluator.IssueMissingResult {
			return or(bullets.MissingResult, defaultMissingResultBullet),
				or(prompts.ImproveResult, defaultImproveResultPrompt)
		}
		return or(bullets.MissingAction, defaultMissingActionBullet),
			or(prompts.AddAction, defaultAddActionPrompt)
	case AxisClarity:
		return or(bullets.Unclear, defaultUnclearBullet), or(prompts.Clarify, defaultClarifyPrompt)
	default:
		return or(bullets.Unclear, defaultOffTopicBullet), or(prompts.Clarify, defaultClarifyPrompt)
	}
}

// modelAnswer prefers the question's own model answer, then the template
// with placeholders filled, then a bare STAR outline.
func modelAnswer(t dataset.GeneralTemplates, q dataset.Question) string {
	if s := strings.TrimSpace(q.ModelAnswer); s != "" {
		return s
	}
	if strings.TrimSpace(t.ModelAnswerTemplate) != "" {
		return modelAnswerPlaceholders.Replace(t.ModelAnswerTemplate)
	}
	return defaultModelAnswer
}

// fallbackCoaching is the canned coaching paragraph for the weakest axis.
func fallbackCoaching(eval evaluator.Result) string {
	switch WeakestAxis(eval) {
	case AxisStructure:
		if eval.StructureIssue == evaluator.IssueMissingResult {
			return coachingMissingResult
		}
		return coachingMissingAction
	case AxisClarity:
		return coachingClarity
	default:
		return coachingRelevance
	}
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
