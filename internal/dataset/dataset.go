// Package dataset loads the immutable question, rubric and coaching
// template records that the scoring engine is configured with.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Difficulty tags a question with how demanding it is.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Normalize maps unknown or empty difficulties to Medium.
func (d Difficulty) Normalize() Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(string(d)))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	default:
		return Medium
	}
}

// Question is a single behavioral interview prompt.
type Question struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Difficulty  Difficulty `json:"difficulty"`
	ModelAnswer string     `json:"model_answer,omitempty"`
}

// ErrNoQuestions is returned when a question dataset holds no records.
var ErrNoQuestions = errors.New("question dataset is empty")

// LoadError reports a question dataset that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load questions from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// rawQuestion accepts ids written either as strings or as numbers.
type rawQuestion struct {
	ID          json.RawMessage `json:"id"`
	Text        string          `json:"text"`
	Difficulty  Difficulty      `json:"difficulty"`
	ModelAnswer string          `json:"model_answer"`
}

// LoadQuestions reads the question dataset at path. Any failure is
// returned as a *LoadError since the engine cannot run without questions.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	qs, err := ParseQuestions(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return qs, nil
}

// ParseQuestions decodes a JSON array of questions and checks that every
// record has a unique id and non-empty text.
func ParseQuestions(data []byte) ([]Question, error) {
	var raw []rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoQuestions
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]Question, 0, len(raw))
	for i, r := range raw {
		id := decodeID(r.ID)
		if id == "" {
			return nil, fmt.Errorf("question %d: missing id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("question %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		text := strings.TrimSpace(r.Text)
		if text == "" {
			return nil, fmt.Errorf("question %q: missing text", id)
		}

		out = append(out, Question{
			ID:          id,
			Text:        text,
			Difficulty:  r.Difficulty.Normalize(),
			ModelAnswer: strings.TrimSpace(r.ModelAnswer),
		})
	}
	return out, nil
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
