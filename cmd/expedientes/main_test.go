package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_URL", "file:"+filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), s)
	return m
}

func TestClassifyFromStdin(t *testing.T) {
	out, err := run(t, "PODER JUDICIAL\nExpediente N°: 00123-2023-0-1801-JR-CI-01\n", "classify")
	require.NoError(t, err)
	m := decode(t, out)
	assert.Equal(t, true, m["has_signal"])
	assert.NotEmpty(t, m["signals"])

	out, err = run(t, "hello world", "classify", "-")
	require.NoError(t, err)
	assert.Equal(t, false, decode(t, out)["has_signal"])
}

func TestNormalizeAndCompare(t *testing.T) {
	out, err := run(t, "", "normalize", "12345-2024/1234-2024-js-pe")
	require.NoError(t, err)
	assert.Equal(t, "12345-2024-1234-2024-JS-PE", decode(t, out)["normalized"])

	out, err = run(t, "", "compare", "Exp. 123-2024", "EXP123-2024")
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, out)["equivalent"])

	_, err = run(t, "", "compare", "only-one")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, `{"numero":"123","fechaInicio":"31/02/2024"}`, "validate")
	require.NoError(t, err)
	m := decode(t, out)
	assert.Equal(t, false, m["esValido"])
	assert.Equal(t, []any{"case number too short.", "start date invalid."}, m["errores"])

	_, err = run(t, `{}`, "validate", "--strict")
	require.Error(t, err)

	out, err = run(t, `{"numero":"12345-2024"}`, "validate", "--strict")
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, out)["esValido"])
}

func TestValidateKeepsRawNumero(t *testing.T) {
	tests := []struct {
		in     string
		valid  bool
		errors []any
	}{
		{`{"numero":"  1234  "}`, true, []any{}},
		{`{"numero":"   "}`, false, []any{"case number too short."}},
		{`{"numero":"....."}`, true, []any{}},
	}
	for _, tt := range tests {
		out, err := run(t, tt.in, "validate")
		require.NoError(t, err, tt.in)
		m := decode(t, out)
		assert.Equal(t, tt.valid, m["esValido"], tt.in)
		assert.ElementsMatch(t, tt.errors, m["errores"], tt.in)
	}
}

func TestIngestExportAndDBHealth(t *testing.T) {
	dir := t.TempDir()
	dbURL := "file:" + filepath.Join(dir, "cli.db")
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.txt"), []byte("Expediente: 12345-2024-1234-2024-JS-PE"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.json"), []byte(`{"numero":"12345-2024-1234-2024-JS-PE"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "b.md"), []byte("sin datos"), 0o644))

	exec := func(args ...string) string {
		t.Helper()
		t.Setenv("DB_URL", dbURL)
		t.Setenv("LOG_LEVEL", "error")
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	m := decode(t, exec("ingest", docs))
	stats := m["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["Matched"])
	assert.EqualValues(t, 1, stats["Valid"])
	assert.EqualValues(t, 1, stats["NoSignal"])

	xlsx := filepath.Join(dir, "out.xlsx")
	exec("export", "-o", xlsx, "--status", "VALID")
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Case Files")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	h := decode(t, exec("dbhealth"))
	assert.Equal(t, "OK", h["status"])
	assert.EqualValues(t, 1, h["case_files"])
	assert.EqualValues(t, 2, h["intake_jobs"])
}
