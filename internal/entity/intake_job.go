package entity

import (
	"time"

	"github.com/google/uuid"
)

// IntakeJob records how one document went through classification and validation.
type IntakeJob struct {
	ID               uuid.UUID  `json:"id"`
	SourcePath       string     `json:"source_path"`
	ContentHash      string     `json:"content_hash"`
	Format           string     `json:"format"`
	Status           string     `json:"status"`
	HasSignal        bool       `json:"has_signal"`
	Signals          []string   `json:"signals,omitempty"`
	NumeroNormalized *string    `json:"numero_normalized,omitempty"`
	Valid            bool       `json:"valid"`
	Errors           []string   `json:"errors,omitempty"`
	CaseFileID       *uuid.UUID `json:"case_file_id,omitempty"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}
