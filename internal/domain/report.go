package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportView is the data laid out on one submission's report
type ReportView struct {
	FileName string
	GradedOn time.Time
	Brand    string
	Result   GradingResult
}

// Raster is an encoded image produced by a rendering surface
type Raster struct {
	Format string // "JPEG" or "PNG"
	Width  int
	Height int
	Data   []byte
}

// ExportFile is a finished download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
	Pages       int
}

// ChangeKind names the store mutation that produced a change
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// StoreChange describes one committed store mutation
type StoreChange struct {
	Kind ChangeKind
	IDs  []uuid.UUID
	At   time.Time
}
