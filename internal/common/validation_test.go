package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorStopsAtFirstFailurePerField(t *testing.T) {
	v := NewValidator().
		Field("a", "", Required("a required"), MinLength(3, "a short")).
		Field("b", "x", Required("b required"), MinLength(3, "b short"))

	require.True(t, v.HasErrors())
	assert.Equal(t, []string{"a required", "b short"}, v.Messages())
	assert.ErrorIs(t, v.Error(), ErrValidation)
	assert.Contains(t, v.ErrorMessage(), "field 'b'")
}

func TestValidatorNoErrors(t *testing.T) {
	v := NewValidator().Field("a", "abcd", Required("r"), MinLength(3, "s"))
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Error())
	assert.Empty(t, v.ErrorMessage())
	assert.Equal(t, []string{}, v.Messages())
}

func TestRequiredHandlesPointers(t *testing.T) {
	rule := Required("missing")
	var nilPtr *string
	empty := ""
	full := "x"
	assert.NotNil(t, rule("f", nil))
	assert.NotNil(t, rule("f", nilPtr))
	assert.NotNil(t, rule("f", &empty))
	assert.Nil(t, rule("f", &full))
	assert.Nil(t, rule("f", " "))
}

func TestDateRule(t *testing.T) {
	rule := Date("bad date", "2006-01-02", "02/01/2006")
	assert.Nil(t, rule("d", ""))
	assert.Nil(t, rule("d", "2024-12-31"))
	assert.Nil(t, rule("d", " 31/12/2024 "))
	assert.NotNil(t, rule("d", "2024-13-01"))
	assert.NotNil(t, rule("d", 20240101))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-05", "2006-01-02")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Day())

	_, err = ParseDate("yesterday", "2006-01-02")
	assert.Error(t, err)
}
