package errs

import "errors"

var (
	SubmissionNotFound = errors.New("submission not found")
	AlreadyProcessing  = errors.New("submission is already being graded")
	BatchRunning       = errors.New("a grading batch is already running")
	NotReanalyzable    = errors.New("only completed or failed submissions can be reanalyzed")
	NotCompleted       = errors.New("submission has no grading result")
	InvalidResult      = errors.New("invalid grading result")
	InvalidConfig      = errors.New("invalid grading configuration")
	UnknownModel       = errors.New("unknown model")
	NothingToExport    = errors.New("nothing to export")
	NoFiles            = errors.New("no files uploaded")
)
