package api

import (
	"time"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
)

// evaluationResponse adds the star_structure alias older clients read.
type evaluationResponse struct {
	evaluator.Result
	StarStructure int `json:"star_structure"`
}

func newEvaluationResponse(r evaluator.Result) evaluationResponse {
	return evaluationResponse{Result: r, StarStructure: r.Structure}
}

type questionResponse struct {
	ID         string             `json:"id"`
	Text       string             `json:"text"`
	Difficulty dataset.Difficulty `json:"difficulty"`
}

func newQuestionResponse(q dataset.Question) questionResponse {
	return questionResponse{ID: q.ID, Text: q.Text, Difficulty: q.Difficulty.Normalize()}
}

type turnResponse struct {
	QuestionID   string             `json:"question_id"`
	QuestionText string             `json:"question_text"`
	Answer       string             `json:"answer"`
	Clarified    bool               `json:"clarified"`
	Timestamp    time.Time          `json:"timestamp"`
	Evaluation   evaluationResponse `json:"evaluation"`
	Feedback     coach.Feedback     `json:"feedback"`
}

func newTurnResponse(t session.Turn) turnResponse {
	return turnResponse{
		QuestionID:   t.QuestionID,
		QuestionText: t.QuestionText,
		Answer:       t.Answer,
		Clarified:    t.Clarified,
		Timestamp:    t.Timestamp,
		Evaluation:   newEvaluationResponse(t.Evaluation),
		Feedback:     t.Feedback,
	}
}

type outcomeResponse struct {
	ClarificationPrompt string             `json:"clarification_prompt,omitempty"`
	Evaluation          evaluationResponse `json:"evaluation"`
	Turn                *turnResponse      `json:"turn,omitempty"`
}

func newOutcomeResponse(out practice.Outcome) outcomeResponse {
	resp := outcomeResponse{
		ClarificationPrompt: out.ClarificationPrompt,
		Evaluation:          newEvaluationResponse(out.Evaluation),
	}
	if out.Turn != nil {
		t := newTurnResponse(*out.Turn)
		resp.Turn = &t
	}
	return resp
}

type stateResponse struct {
	ID                string          `json:"id"`
	User              string          `json:"user,omitempty"`
	StartTime         time.Time       `json:"start_time"`
	Phase             session.Phase   `json:"phase"`
	CurrentQuestionID string          `json:"current_question_id,omitempty"`
	LastOverallScore  *float64        `json:"last_overall_score,omitempty"`
	History           []turnResponse  `json:"history"`
	Summary           session.Summary `json:"summary"`
}

func newStateResponse(s *session.SessionState) stateResponse {
	history := make([]turnResponse, len(s.History))
	for i, t := range s.History {
		history[i] = newTurnResponse(t)
	}
	var last *float64
	if s.LastOverallScore != nil {
		v := *s.LastOverallScore
		last = &v
	}
	return stateResponse{
		ID:                s.ID,
		User:              s.User,
		StartTime:         s.StartTime,
		Phase:             s.Phase,
		CurrentQuestionID: s.CurrentQuestionID,
		LastOverallScore:  last,
		History:           history,
		Summary:           s.Summary(),
	}
}
