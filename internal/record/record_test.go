package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

func TestDecode(t *testing.T) {
	rec, err := Decode([]byte(`{"numero":" 12345-2024 ","fechaInicio":"2024-01-02","juez":"Ana"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, " 12345-2024 ", rec.Numero, "strings are not trimmed")
	assert.Equal(t, "2024-01-02", rec.FechaInicio)
	assert.Equal(t, "Ana", rec.Extra["juez"])
}

func TestDecodeNumericNumero(t *testing.T) {
	rec, err := Decode([]byte(`{"numero":1234567890123}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "1234567890123", rec.Numero)
}

func TestDecodeDropsEmptyAndNull(t *testing.T) {
	rec, err := Decode([]byte(`{"numero":"","fechaInicio":null}`), nil)
	require.NoError(t, err)
	assert.Empty(t, rec.Numero)
	assert.Empty(t, rec.FechaInicio)

	res := expediente.Validate(rec)
	assert.Equal(t, []string{expediente.MsgNumeroRequired}, res.Errors)
}

func TestDecodeMatchesValidateOnRawValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		raw  map[string]any
	}{
		{"padded number", `{"numero":"  1234  "}`, map[string]any{"numero": "  1234  "}},
		{"whitespace only", `{"numero":"   "}`, map[string]any{"numero": "   "}},
		{"punctuation only", `{"numero":"....."}`, map[string]any{"numero": "....."}},
		{"padded date", `{"numero":"12345","fechaInicio":" 2024-01-02 "}`, map[string]any{"numero": "12345", "fechaInicio": " 2024-01-02 "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode([]byte(tt.in), nil)
			require.NoError(t, err)
			assert.Equal(t, expediente.Validate(expediente.RecordFromMap(tt.raw)), expediente.Validate(rec))
		})
	}
}

func TestDecodeRejectsBadShape(t *testing.T) {
	for _, in := range []string{`[1,2]`, `{"fechaInicio": 20240101}`, `{"numero": {"a":1}}`, `not json`} {
		_, err := Decode([]byte(in), nil)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, common.ErrInvalidInput, in)
	}
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/docs/res-01.json", SidecarPath("/docs/res-01.txt"))
	assert.Equal(t, "notes.json", SidecarPath("notes"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "auto.txt")

	rec, found, err := Load(doc, nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, expediente.ExtractedRecord{}, rec)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "auto.json"), []byte(`{"numero":"00123-2023-0-1801-JR-CI-01"}`), 0o644))
	rec, found, err = Load(doc, nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "00123-2023-0-1801-JR-CI-01", rec.Numero)
}
