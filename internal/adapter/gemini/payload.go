package gemini

import (
	"fmt"
	"strings"

	"gitlab.com/gradepro.net/internal/domain"
)

const (
	submissionStart = "[STUDENT SUBMISSION CONTENT START]"
	submissionEnd   = "[STUDENT SUBMISSION CONTENT END]"
	pdfMimeType     = "application/pdf"
)

// requiredFields must all be present in a model answer
var requiredFields = domain.ResultFields

// --- Request/Response structs ---

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
	Temperature      float64 `json:"temperature"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func gradingSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"score":       {Type: "NUMBER", Description: "The numerical score based on the rubric."},
			"letterGrade": {Type: "STRING", Description: "The letter grade (A, B, C, D, F)."},
			"summary":     {Type: "STRING", Description: "A brief summary of the grading."},
			"strengths": {
				Type:        "ARRAY",
				Items:       &schema{Type: "STRING"},
				Description: "List of strong points in the submission.",
			},
			"improvements": {
				Type:        "ARRAY",
				Items:       &schema{Type: "STRING"},
				Description: "List of areas for improvement.",
			},
			"detailedFeedback": {Type: "STRING", Description: "Comprehensive feedback explaining the score."},
		},
		Required: requiredFields,
	}
}

func instructionText(cfg domain.GradingConfig) string {
	return fmt.Sprintf(`You are an expert academic grader.

Assignment Description:
%s

Grading Rubric/Criteria:
%s

Instructions:
1. Analyze the student submission based strictly on the rubric.
2. **IMPORTANT: Detect the language used in the student submission (e.g., Chinese, English, Spanish).**
3. **You MUST write the 'summary', 'strengths', 'improvements', and 'detailedFeedback' in the SAME language as the student submission.**
4. If the submission is in Chinese, your feedback must be in Chinese.
5. Provide the output in structured JSON format.
`, cfg.AssignmentPrompt, cfg.GradingRubric)
}

// submissionPart embeds the submission: PDFs as inline binary, everything else as delimited text
func submissionPart(body string, kind domain.ContentKind) part {
	if kind == domain.ContentPDFBinary {
		if i := strings.Index(body, "base64,"); i >= 0 {
			body = body[i+len("base64,"):]
		}
		return part{InlineData: &inlineData{MimeType: pdfMimeType, Data: body}}
	}
	return part{Text: submissionStart + "\n" + body + "\n" + submissionEnd}
}

func buildRequest(body string, kind domain.ContentKind, cfg domain.GradingConfig, temperature float64) generateRequest {
	return generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: instructionText(cfg)}, submissionPart(body, kind)},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   gradingSchema(),
			Temperature:      temperature,
		},
	}
}
