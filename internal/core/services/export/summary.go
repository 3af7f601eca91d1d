package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"gitlab.com/gradepro.net/internal/domain"
)

var summaryHeader = []string{"File Name", "Status", "Score", "Letter Grade", "Summary"}

// SummaryRow maps a submission onto the summary columns. Submissions without a result
// get a zero score and a "-" grade.
func SummaryRow(sub domain.Submission) []string {
	score, grade, summary := 0.0, "-", ""
	if sub.Result != nil {
		score = sub.Result.Score
		if sub.Result.LetterGrade != "" {
			grade = sub.Result.LetterGrade
		}
		summary = sub.Result.Summary
	}
	return []string{
		sub.FileName,
		string(sub.Status),
		strconv.FormatFloat(score, 'f', -1, 64),
		grade,
		summary,
	}
}

// WriteSummary encodes all submissions as CSV with a header row
func WriteSummary(subs []domain.Submission) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if err := w.Write(SummaryRow(sub)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
