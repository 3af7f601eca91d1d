package domain

import (
	"time"

	"github.com/google/uuid"
)

// GradingStatus represents the lifecycle state of a submission
type GradingStatus string

const (
	StatusPending    GradingStatus = "PENDING"
	StatusProcessing GradingStatus = "PROCESSING"
	StatusCompleted  GradingStatus = "COMPLETED"
	StatusError      GradingStatus = "ERROR"
)

// ContentKind describes how a submission's content is encoded
type ContentKind string

const (
	ContentPlainText       ContentKind = "plain-text"
	ContentPDFBinary       ContentKind = "pdf-binary"
	ContentExtractionError ContentKind = "extraction-error"
)

// ErrorKind tells where a submission failure came from
type ErrorKind string

const (
	ErrorKindExtraction ErrorKind = "extraction"
	ErrorKindBackend    ErrorKind = "backend"
)

// SubmissionError is the failure recorded on an ERROR submission.
// Retryable errors are picked up again by a batch run; the others only by an explicit reanalyze.
type SubmissionError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}

// SourceFile keeps the raw upload of a submission whose extraction failed,
// so a reanalyze can run extraction again.
type SourceFile struct {
	ContentType string
	Data        []byte
}

// Submission represents one uploaded student artifact and its grading state
type Submission struct {
	ID           uuid.UUID        `json:"id"`
	FileName     string           `json:"fileName"`
	ContentKind  ContentKind      `json:"contentKind"`
	Content      string           `json:"-"`
	LastModified time.Time        `json:"lastModified"`
	Status       GradingStatus    `json:"status"`
	Result       *GradingResult   `json:"result,omitempty"`
	Error        *SubmissionError `json:"error,omitempty"`
	Source       *SourceFile      `json:"-"`
}

// NewSubmission creates a PENDING submission for extracted content
func NewSubmission(fileName string, kind ContentKind, content string, lastModified time.Time) Submission {
	return Submission{
		ID:           uuid.New(),
		FileName:     fileName,
		ContentKind:  kind,
		Content:      content,
		LastModified: lastModified,
		Status:       StatusPending,
	}
}

// NewFailedSubmission creates a submission that never reached PENDING because extraction failed
func NewFailedSubmission(fileName string, message string, source *SourceFile, lastModified time.Time) Submission {
	return Submission{
		ID:           uuid.New(),
		FileName:     fileName,
		ContentKind:  ContentExtractionError,
		Content:      message,
		LastModified: lastModified,
		Status:       StatusError,
		Error: &SubmissionError{
			Kind:      ErrorKindExtraction,
			Message:   message,
			Retryable: false,
		},
		Source: source,
	}
}

// Consistent reports whether result and error agree with the status
func (s Submission) Consistent() bool {
	switch s.Status {
	case StatusCompleted:
		return s.Result != nil && s.Error == nil
	case StatusError:
		return s.Result == nil && s.Error != nil && s.Error.Message != ""
	default:
		return s.Result == nil && s.Error == nil
	}
}

// BatchEligible reports whether a batch run should grade this submission
func (s Submission) BatchEligible() bool {
	switch s.Status {
	case StatusPending:
		return true
	case StatusError:
		return s.Error != nil && s.Error.Retryable
	default:
		return false
	}
}

// Reanalyzable reports whether an explicit reanalyze may be requested
func (s Submission) Reanalyzable() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// Clone returns a deep copy that shares no mutable state with s
func (s Submission) Clone() Submission {
	out := s
	if s.Result != nil {
		r := s.Result.Clone()
		out.Result = &r
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	if s.Source != nil {
		src := SourceFile{ContentType: s.Source.ContentType, Data: append([]byte(nil), s.Source.Data...)}
		out.Source = &src
	}
	return out
}

// UploadedFile is one file of an upload batch before extraction
type UploadedFile struct {
	Name         string
	ContentType  string
	Data         []byte
	LastModified time.Time
}
