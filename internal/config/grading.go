package config

import (
	"time"

	"gitlab.com/gradepro.net/internal/domain"
)

const (
	defaultRubric = `1. Accuracy (0-40 points): Is the solution correct?
2. Clarity (0-30 points): Is the code/answer easy to understand?
3. Completeness (0-30 points): Did the student answer all parts of the question?`

	defaultAssignment = `Write a short essay about the impact of the Industrial Revolution on urbanization.`
)

type GradingBackendCfg struct {
	ApiKey      string
	BaseUrl     string
	Timeout     time.Duration
	Temperature float64
}

func NewGradingBackendCfg() *GradingBackendCfg {
	return &GradingBackendCfg{
		ApiKey:      getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		BaseUrl:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Timeout:     time.Duration(getEnvAsInt("GRADING_TIMEOUT_SEC", 120)) * time.Second,
		Temperature: getEnvAsFloat("GRADING_TEMPERATURE", 0.2),
	}
}

// GradingDefaultsCfg seeds the process-wide grading configuration
type GradingDefaultsCfg struct {
	AssignmentPrompt string
	GradingRubric    string
	Models           []domain.Model
}

func NewGradingDefaultsCfg() *GradingDefaultsCfg {
	return &GradingDefaultsCfg{
		AssignmentPrompt: getEnv("DEFAULT_ASSIGNMENT", defaultAssignment),
		GradingRubric:    getEnv("DEFAULT_RUBRIC", defaultRubric),
		Models: []domain.Model{
			{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash (Fast & Cost-Effective)"},
			{ID: "gemini-3-pro-preview", Name: "Gemini 3 Pro (Reasoning & Complex Tasks)"},
		},
	}
}

// Initial returns the configuration in effect at startup; the first model is the default
func (c *GradingDefaultsCfg) Initial() domain.GradingConfig {
	cfg := domain.GradingConfig{
		AssignmentPrompt: c.AssignmentPrompt,
		GradingRubric:    c.GradingRubric,
	}
	if len(c.Models) > 0 {
		cfg.Model = c.Models[0].ID
	}
	return cfg
}
