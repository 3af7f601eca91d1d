package submissions

import "gitlab.com/gradepro.net/internal/domain"

// ListSubmissionsResponse wraps the store listing in upload order
type ListSubmissionsResponse struct {
	Submissions []SubmissionView `json:"submissions"`
}

// SubmissionView is a submission as returned to the operator
type SubmissionView struct {
	domain.Submission
	Passing *bool `json:"passing,omitempty"`
}

// ReanalyzeResponse acknowledges a background reanalyze
type ReanalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func toView(sub domain.Submission) SubmissionView {
	view := SubmissionView{Submission: sub}
	if sub.Result != nil {
		passing := sub.Result.IsPassing()
		view.Passing = &passing
	}
	return view
}

func toViews(subs []domain.Submission) []SubmissionView {
	out := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toView(sub))
	}
	return out
}
