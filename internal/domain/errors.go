package domain

import "fmt"

// ExtractionError means an upload could not be turned into gradeable input
type ExtractionError struct {
	FileName string
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.FileName, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.FileName, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// BackendError means the grading call failed, timed out or returned an unusable result.
// Transient errors (network, timeout, 429, 5xx) may succeed on an immediate retry.
type BackendError struct {
	Message    string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *BackendError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("grading backend: %s (status %d): %v", e.Message, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("grading backend: %s (status %d)", e.Message, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("grading backend: %s: %v", e.Message, e.Err)
	default:
		return "grading backend: " + e.Message
	}
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExportError means report rendering, encoding or assembly failed
type ExportError struct {
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
