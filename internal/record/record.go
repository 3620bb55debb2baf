// Package record loads extracted-record sidecars produced by the upstream
// field extraction step and turns them into expediente.ExtractedRecord values.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(Schema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("record.json")
	})
	return compiled, compileErr
}

// Decode checks data against Schema and builds a record. String values are
// kept as written; length rules count the raw characters.
// Shape violations are reported as ErrInvalidInput.
func Decode(data []byte, logger *slog.Logger) (expediente.ExtractedRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sch, err := schema()
	if err != nil {
		return expediente.ExtractedRecord{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return expediente.ExtractedRecord{}, common.NewAppError(common.CodeRecord, "decode record", errors.Join(common.ErrInvalidInput, err))
	}
	if err := sch.Validate(v); err != nil {
		return expediente.ExtractedRecord{}, common.NewAppError(common.CodeRecord, "record does not match schema", errors.Join(common.ErrInvalidInput, err))
	}

	m, _ := v.(map[string]any)
	dropped := sanitize(m)
	if len(dropped) > 0 {
		logger.Debug("record.sanitize", "dropped", dropped)
	}
	return expediente.RecordFromMap(m), nil
}

// sanitize drops null and empty values of the recognized fields.
func sanitize(m map[string]any) []string {
	var dropped []string
	for _, k := range []string{"numero", "fechaInicio"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch v {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case "":
			delete(m, k)
			dropped = append(dropped, k+"(empty)")
		}
	}
	return dropped
}

// SidecarPath returns the record path for a document: same name, .json.
func SidecarPath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + "." + constants.SidecarExt
}

// Load reads the sidecar of docPath. A missing sidecar yields an empty record
// and found=false; the validator then reports the missing case number.
func Load(docPath string, logger *slog.Logger) (rec expediente.ExtractedRecord, found bool, err error) {
	data, err := os.ReadFile(SidecarPath(docPath))
	if errors.Is(err, fs.ErrNotExist) {
		return expediente.ExtractedRecord{}, false, nil
	}
	if err != nil {
		return expediente.ExtractedRecord{}, false, fmt.Errorf("read sidecar: %w", err)
	}
	rec, err = Decode(data, logger)
	if err != nil {
		return rec, true, err
	}
	return rec, true, nil
}
