package expediente

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsNonEmpty(t *testing.T) {
	c := DefaultCatalog()
	require.NotEmpty(t, c.LiteralAnchors())
	require.NotEmpty(t, c.JudicialPatterns())
	assert.Contains(t, c.LiteralAnchors(), "Expediente N°:")
	assert.Contains(t, c.LiteralAnchors(), "EXPEDIENTE:")
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := DefaultCatalog()
	anchors := c.LiteralAnchors()
	anchors[0] = "mutated"
	patterns := c.JudicialPatterns()
	patterns[0].Name = "mutated"

	assert.NotEqual(t, "mutated", c.LiteralAnchors()[0])
	assert.NotEqual(t, "mutated", c.JudicialPatterns()[0].Name)
}

func TestJudicialPatterns(t *testing.T) {
	cases := []struct {
		name     string
		match    string
		nonMatch string
	}{
		{"case_number_structured", "Exp 12345-2024-1234-2024-js-pe archivado", "12345-2024-1234-2024-J1-PE"},
		{"case_number_loose", "ver 00123-2023-CI", "123-20X4"},
		{"label_juez", "juez :  María Quispe", "JUEZA María Quispe"},
		{"label_especialista", "Especialista: Luis Rojas", "especialista Luis Rojas"},
		{"label_delito", "DELITO:\tRobo agravado", "el delito fue grave"},
		{"label_imputado", "Imputado : Carlos Díaz", "imputados varios"},
		{"label_demandante", "DEMANDANTE: Banco Sur", "demandante Banco Sur"},
		{"label_materia", "materia: Alimentos", "materia prima"},
	}

	byName := map[string]Pattern{}
	for _, p := range DefaultCatalog().JudicialPatterns() {
		byName[p.Name] = p
	}
	require.Len(t, byName, len(cases))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := byName[tc.name]
			require.True(t, ok, "pattern %s missing", tc.name)
			assert.True(t, p.Expr.MatchString(tc.match), "expected match on %q", tc.match)
			assert.False(t, p.Expr.MatchString(tc.nonMatch), "unexpected match on %q", tc.nonMatch)
		})
	}
}

func TestLoosePatternOverMatchesPhoneLikeNumbers(t *testing.T) {
	var loose Pattern
	for _, p := range DefaultCatalog().JudicialPatterns() {
		if p.Name == "case_number_loose" {
			loose = p
		}
	}
	require.NotNil(t, loose.Expr)
	assert.True(t, loose.Expr.MatchString("Llamar al 511-4567 mañana"))
}

func TestNewCatalogSkipsNilPatterns(t *testing.T) {
	c := NewCatalog([]string{"CASO:"}, []Pattern{{Name: "empty"}})
	assert.Equal(t, []string{"CASO:"}, c.LiteralAnchors())
	assert.Empty(t, c.JudicialPatterns())
}
