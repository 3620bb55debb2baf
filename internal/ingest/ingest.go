package ingest

import (
	"context"

	"github.com/joseph-ayodele/expedientes/constants"
)

// Result is the per-file intake outcome.
type Result struct {
	SourcePath string
	JobID      string
	Status     constants.JobStatus
	Numero     string
	Duplicate  bool
	Err        string
}

// DirStats summarizes a directory intake.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Valid      uint32
	Invalid    uint32
	NoSignal   uint32
	Duplicates uint32
	Failed     uint32
}

func (s *DirStats) add(r Result) {
	switch r.Status {
	case constants.JobStatusValid:
		s.Valid++
		if r.Duplicate {
			s.Duplicates++
		}
	case constants.JobStatusInvalid:
		s.Invalid++
	case constants.JobStatusNoSignal:
		s.NoSignal++
	default:
		s.Failed++
	}
}

// FileProcessor is the behavior a directory intake depends on.
type FileProcessor interface {
	// ProcessPath runs one document through intake.
	ProcessPath(ctx context.Context, path string) (Result, error)
}

// FileProcessorFunc adapts a function to FileProcessor.
type FileProcessorFunc func(ctx context.Context, path string) (Result, error)

func (f FileProcessorFunc) ProcessPath(ctx context.Context, path string) (Result, error) {
	return f(ctx, path)
}
