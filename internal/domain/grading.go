package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ResultFields are the keys every grading result must carry
var ResultFields = []string{"score", "letterGrade", "summary", "strengths", "improvements", "detailedFeedback"}

// GradingResult is the structured outcome returned by the grading backend
type GradingResult struct {
	Score            float64  `json:"score"`
	LetterGrade      string   `json:"letterGrade"`
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	DetailedFeedback string   `json:"detailedFeedback"`
}

// Clone returns a copy with its own slices
func (r GradingResult) Clone() GradingResult {
	out := r
	out.Strengths = append([]string(nil), r.Strengths...)
	out.Improvements = append([]string(nil), r.Improvements...)
	if r.Strengths != nil && out.Strengths == nil {
		out.Strengths = []string{}
	}
	if r.Improvements != nil && out.Improvements == nil {
		out.Improvements = []string{}
	}
	return out
}

// MissingResultFields decodes data as a JSON object and lists the ResultFields that are absent or null
func MissingResultFields(data []byte) ([]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range ResultFields {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Validate checks the fields an operator-supplied result must carry
func (r GradingResult) Validate() error {
	if r.LetterGrade == "" {
		return fmt.Errorf("letterGrade is required")
	}
	if r.Strengths == nil {
		return fmt.Errorf("strengths is required")
	}
	if r.Improvements == nil {
		return fmt.Errorf("improvements is required")
	}
	return nil
}

// IsPassing reports whether the letter grade counts as a pass (A, B or C)
func (r GradingResult) IsPassing() bool {
	return strings.ContainsAny(r.LetterGrade, "ABC")
}

// GradingConfig holds the operator-editable instructions shared by a batch
type GradingConfig struct {
	AssignmentPrompt string `json:"assignmentPrompt"`
	GradingRubric    string `json:"gradingRubric"`
	Model            string `json:"model"`
}

// GradingConfigPatch is a partial update; nil fields are left unchanged
type GradingConfigPatch struct {
	AssignmentPrompt *string `json:"assignmentPrompt,omitempty"`
	GradingRubric    *string `json:"gradingRubric,omitempty"`
	Model            *string `json:"model,omitempty"`
}

// Apply returns cfg with the patch applied
func (p GradingConfigPatch) Apply(cfg GradingConfig) GradingConfig {
	if p.AssignmentPrompt != nil {
		cfg.AssignmentPrompt = *p.AssignmentPrompt
	}
	if p.GradingRubric != nil {
		cfg.GradingRubric = *p.GradingRubric
	}
	if p.Model != nil {
		cfg.Model = *p.Model
	}
	return cfg
}

// Model is one selectable backend model variant
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
