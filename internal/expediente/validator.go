package expediente

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/joseph-ayodele/expedientes/internal/common"
)

// Messages reported by Validate. Callers match on these exact strings.
const (
	MsgNumeroRequired = "case number is required."
	MsgNumeroTooShort = "case number too short."
	MsgFechaInvalid   = "start date invalid."
)

// MinNumeroLength is the shortest raw case number accepted.
const MinNumeroLength = 5

// DateLayouts are the accepted fechaInicio formats.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
}

// ExtractedRecord is what an upstream extraction step produced for a document.
// Empty strings mean the field was not found.
type ExtractedRecord struct {
	Numero      string         `json:"numero,omitempty"`
	FechaInicio string         `json:"fechaInicio,omitempty"`
	Extra       map[string]any `json:"-"`
}

// ValidationResult is the outcome of Validate. Errors is never nil.
type ValidationResult struct {
	Valid  bool     `json:"esValido"`
	Errors []string `json:"errores"`
}

// Validate checks the record and reports every failing rule, in rule order:
// numero presence or length, then fechaInicio.
func Validate(rec ExtractedRecord) ValidationResult {
	v := common.NewValidator().
		Field("numero", rec.Numero,
			common.Required(MsgNumeroRequired),
			common.MinLength(MinNumeroLength, MsgNumeroTooShort),
		).
		Field("fechaInicio", rec.FechaInicio,
			common.Date(MsgFechaInvalid, DateLayouts...),
		)
	msgs := v.Messages()
	return ValidationResult{Valid: len(msgs) == 0, Errors: msgs}
}

// RecordFromMap builds a record from a loosely typed mapping, e.g. decoded
// JSON. Numbers are formatted in decimal, nil counts as absent and unknown
// keys end up in Extra.
func RecordFromMap(m map[string]any) ExtractedRecord {
	var rec ExtractedRecord
	for k, v := range m {
		switch k {
		case "numero":
			rec.Numero = looseString(v)
		case "fechaInicio":
			rec.FechaInicio = looseString(v)
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[k] = v
		}
	}
	return rec
}

func looseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// AsMap is the inverse of RecordFromMap; absent fields are omitted.
func (r ExtractedRecord) AsMap() map[string]any {
	m := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		m[k] = v
	}
	if r.Numero != "" {
		m["numero"] = r.Numero
	}
	if r.FechaInicio != "" {
		m["fechaInicio"] = r.FechaInicio
	}
	return m
}
