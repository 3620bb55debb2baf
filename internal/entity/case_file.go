package entity

import (
	"time"

	"github.com/google/uuid"
)

// CaseFile is one distinct expediente, keyed by its normalized number.
type CaseFile struct {
	ID               uuid.UUID `json:"id"`
	NumeroRaw        string    `json:"numero_raw"`
	NumeroNormalized string    `json:"numero_normalized"`
	FechaInicio      *string   `json:"fecha_inicio,omitempty"`
	FirstSeenAt      time.Time `json:"first_seen_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	SeenCount        int       `json:"seen_count"`
}
