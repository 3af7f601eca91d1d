package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

// Client grades submissions through the generateContent REST endpoint
type Client struct {
	BaseURL     string
	APIKey      string
	Temperature float64
	HTTP        *http.Client
	logger      primary.Logger
}

// Ensure Client implements GradingBackend
var _ secondary.GradingBackend = (*Client)(nil)

func NewClient(cfg *config.GradingBackendCfg, logger primary.Logger) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(cfg.BaseUrl, "/"),
		APIKey:      cfg.ApiKey,
		Temperature: cfg.Temperature,
		HTTP: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) Grade(ctx context.Context, body string, kind domain.ContentKind, cfg domain.GradingConfig) (*domain.GradingResult, error) {
	if c.APIKey == "" {
		return nil, &domain.BackendError{Message: "API key is not configured"}
	}
	if cfg.Model == "" {
		return nil, &domain.BackendError{Message: "no model selected"}
	}

	payload, err := json.Marshal(buildRequest(body, kind, cfg, c.Temperature))
	if err != nil {
		return nil, &domain.BackendError{Message: "marshal request", Err: err}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, url.PathEscape(cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.BackendError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// a cancelled caller context is never retried
		return nil, &domain.BackendError{Message: "request failed", Transient: ctx.Err() == nil, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.BackendError{Message: "read response", Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Grading backend returned an error", "status", resp.StatusCode, "model", cfg.Model)
		return nil, &domain.BackendError{
			Message:    errorMessage(raw),
			StatusCode: resp.StatusCode,
			Transient:  transientStatus(resp.StatusCode),
		}
	}

	return parseResult(raw)
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

func errorMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return "empty error response"
	}
	return msg
}

func parseResult(raw []byte) (*domain.GradingResult, error) {
	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, &domain.BackendError{Message: "unmarshal response", Err: err}
	}
	if len(gr.Candidates) == 0 {
		if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
			return nil, &domain.BackendError{Message: "prompt blocked: " + gr.PromptFeedback.BlockReason}
		}
		return nil, &domain.BackendError{Message: "No response text received from model."}
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := stripFence(sb.String())
	if text == "" {
		return nil, &domain.BackendError{Message: "No response text received from model."}
	}

	return decodeResult([]byte(text))
}

// decodeResult rejects answers that omit any required field or set it to null
func decodeResult(text []byte) (*domain.GradingResult, error) {
	missing, err := domain.MissingResultFields(text)
	if err != nil {
		return nil, &domain.BackendError{Message: "model answer is not a JSON object", Err: err}
	}
	if len(missing) > 0 {
		return nil, &domain.BackendError{Message: "model answer is missing " + strings.Join(missing, ", ")}
	}

	var result domain.GradingResult
	if err := json.Unmarshal(text, &result); err != nil {
		return nil, &domain.BackendError{Message: "model answer has the wrong shape", Err: err}
	}
	if result.LetterGrade == "" {
		return nil, &domain.BackendError{Message: "model answer has an empty letterGrade"}
	}
	return &result, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
