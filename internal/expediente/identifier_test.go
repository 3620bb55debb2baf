package expediente

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want NormalizedIdentifier
	}{
		{"12345-2024/1234-2024-JS-PE", "12345-2024-1234-2024-JS-PE"},
		{"Exp. 123-2024", "EXP123-2024"},
		{"  00987-2021-0-1801-jr-ci-05 ", "00987-2021-0-1801-JR-CI-05"},
		{"Nº 45-2020", "N45-2020"},
		{"", ""},
		{"*** ...", ""},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "abc", "12345-2024/1234-2024-JS-PE", "Exp. 123-2024", "ñ-ü/ß", "a//b", "\t\n-",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(string(once)), in)
	}
}

func TestNormalizeOutputAlphabet(t *testing.T) {
	out := Normalize("¡Hola! exp:12/34 — año 2024_x")
	for _, r := range out {
		ok := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
		assert.True(t, ok, "unexpected rune %q in %q", r, out)
	}
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent("Exp. 123-2024", "EXP123-2024"))
	assert.True(t, Equivalent("12345-2024/1234-2024-js-pe", "12345-2024-1234-2024-JS-PE"))
	assert.False(t, Equivalent("123-2024", "124-2024"))
	assert.True(t, Equivalent("", "  "))
}

func TestEquivalentIsSymmetricAndReflexive(t *testing.T) {
	ids := []string{"", "Exp. 123-2024", "EXP123-2024", "123-2024", "a b c"}
	for _, a := range ids {
		assert.True(t, Equivalent(a, a), a)
		for _, b := range ids {
			assert.Equal(t, Equivalent(a, b), Equivalent(b, a), "%q vs %q", a, b)
		}
	}
}
