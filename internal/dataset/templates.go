package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Templates holds the optional coaching text table. Any empty field means
// the caller falls back to its built-in wording.
type Templates struct {
	General GeneralTemplates `json:"general"`
}

// GeneralTemplates is the "general" section of the template dataset.
type GeneralTemplates struct {
	ImprovementBullets ImprovementBullets `json:"improvement_bullets"`
	PracticePrompts    PracticePrompts    `json:"practice_prompts"`

	// ModelAnswerTemplate may contain {situation}, {task}, {actions} and
	// {result} placeholders.
	ModelAnswerTemplate string `json:"model_answer_template"`
}

// ImprovementBullets are keyed by the detected weakness.
type ImprovementBullets struct {
	MissingResult string `json:"missing_result"`
	MissingAction string `json:"missing_action"`
	Unclear       string `json:"unclear"`
}

// PracticePrompts are keyed by the exercise they ask for.
type PracticePrompts struct {
	ImproveResult string `json:"improve_result"`
	AddAction     string `json:"add_action"`
	Clarify       string `json:"clarify"`
}

// LoadTemplates reads the template dataset at path. A missing or malformed
// file yields empty Templates. It never fails.
func LoadTemplates(path string, log *zap.Logger) Templates {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("coach templates not found, using built-in wording", zap.String("path", path), zap.Error(err))
		return Templates{}
	}

	t, err := ParseTemplates(data)
	if err != nil {
		log.Warn("invalid coach templates, using built-in wording", zap.String("path", path), zap.Error(err))
		return Templates{}
	}
	return t
}

// ParseTemplates decodes a template document.
func ParseTemplates(data []byte) (Templates, error) {
	var t Templates
	if err := json.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
