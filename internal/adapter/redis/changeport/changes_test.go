package changeport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gradepro.net/internal/domain"
)

func TestBuildEvent(t *testing.T) {
	graded := domain.NewSubmission("a.txt", domain.ContentPlainText, "a", time.Now())
	graded.Status = domain.StatusCompleted
	graded.Result = &domain.GradingResult{Score: 0, LetterGrade: "F", Strengths: []string{}, Improvements: []string{}}
	other := domain.NewSubmission("b.txt", domain.ContentPlainText, "b", time.Now())
	removed := uuid.New()
	at := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	event := BuildEvent(domain.StoreChange{Kind: domain.ChangeUpdated, IDs: []uuid.UUID{graded.ID, removed}, At: at},
		[]domain.Submission{graded, other})

	assert.Equal(t, domain.ChangeUpdated, event.Kind)
	assert.Equal(t, 2, event.Total)
	require.Len(t, event.Changed, 1)
	st := event.Changed[0]
	assert.Equal(t, graded.ID, st.ID)
	assert.Equal(t, domain.StatusCompleted, st.Status)
	require.NotNil(t, st.Score)
	assert.Equal(t, 0.0, *st.Score)
	assert.Equal(t, "F", st.LetterGrade)
}

func TestChangeEvent_JSONOmitsContent(t *testing.T) {
	sub := domain.NewFailedSubmission("x.docx", "Error parsing Word document. Please try converting to PDF.", nil, time.Now())
	event := BuildEvent(domain.StoreChange{Kind: domain.ChangeAdded, IDs: []uuid.UUID{sub.ID}}, []domain.Submission{sub})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	changed := decoded["changed"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "ERROR", changed["status"])
	assert.Equal(t, "Error parsing Word document. Please try converting to PDF.", changed["error"])
	assert.NotContains(t, changed, "score")
}
