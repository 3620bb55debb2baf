package schema

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

func descriptor(t *testing.T, fields []ent.Field, name string) *field.Descriptor {
	t.Helper()
	for _, f := range fields {
		if d := f.Descriptor(); d.Name == name {
			return d
		}
	}
	require.Failf(t, "field not found", "%s", name)
	return nil
}

func runStringValidators(d *field.Descriptor, v string) error {
	for _, fn := range d.Validators {
		if err := fn.(func(string) error)(v); err != nil {
			return err
		}
	}
	return nil
}

func TestCaseFileNumeroValidators(t *testing.T) {
	fields := CaseFile{}.Fields()

	raw := descriptor(t, fields, "numero_raw")
	assert.Error(t, runStringValidators(raw, "12"))
	assert.NoError(t, runStringValidators(raw, "ABC12345"))

	norm := descriptor(t, fields, "numero_normalized")
	assert.True(t, norm.Unique)
	assert.NoError(t, runStringValidators(norm, expediente.Normalize("Exp. 123-2024").String()))
	assert.Error(t, runStringValidators(norm, "exp 123"))
}

func TestIntakeJobEnumValidators(t *testing.T) {
	fields := IntakeJob{}.Fields()

	status := descriptor(t, fields, "status")
	for _, s := range constants.StatusStrings() {
		assert.NoError(t, runStringValidators(status, s))
	}
	assert.Error(t, runStringValidators(status, "OCR_OK"))

	format := descriptor(t, fields, "format")
	assert.NoError(t, runStringValidators(format, constants.TEXT))
	assert.Error(t, runStringValidators(format, "PDF"))
}

func TestEdgesAreSymmetric(t *testing.T) {
	require.Len(t, CaseFile{}.Edges(), 1)
	require.Len(t, IntakeJob{}.Edges(), 1)
	assert.Equal(t, "jobs", CaseFile{}.Edges()[0].Descriptor().Name)
	assert.Equal(t, "jobs", IntakeJob{}.Edges()[0].Descriptor().RefName)
}
