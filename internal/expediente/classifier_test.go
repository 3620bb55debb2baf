package expediente

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCaseFileSignal(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"labeled judge", "JUEZ: Juan Pérez", true},
		{"no signal", "Lorem ipsum dolor", false},
		{"empty", "", false},
		{"anchor", "Resolución\nExpediente N°: 00123-2023", true},
		{"anchor is case sensitive", "expediente n°: abc", false},
		{"structured number", "ref 12345-2024-1234-2024-JS-PE", true},
		{"loose number", "causa 4567-2022-LA", true},
		{"lowercase label", "materia : civil", true},
		{"plain digits", "Total 12345 soles", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasCaseFileSignal(tc.text))
		})
	}
}

func TestHasCaseFileSignalAnchorMonotonicity(t *testing.T) {
	noise := []string{"", "Lorem ipsum", "\n\n\t", "12 34", "ñandú"}
	for _, a := range DefaultCatalog().LiteralAnchors() {
		for _, n := range noise {
			assert.True(t, HasCaseFileSignal(n+a+n), "anchor %q inside %q", a, n)
		}
	}
}

func TestSignalsAgreesWithHasSignal(t *testing.T) {
	texts := []string{
		"",
		"Lorem ipsum dolor",
		"JUEZ: Juan Pérez",
		"EXPEDIENTE: 12345-2024-1234-2024-JS-PE\nMATERIA: Civil",
	}
	for _, text := range texts {
		assert.Equal(t, HasCaseFileSignal(text), len(Signals(text)) > 0, text)
	}
}

func TestSignalsCatalogOrder(t *testing.T) {
	got := Signals("MATERIA: Civil\nEXPEDIENTE: 12345-2024-1234-2024-JS-PE\nJUEZ: X")
	assert.Equal(t, []string{
		"EXPEDIENTE:",
		"case_number_structured",
		"case_number_loose",
		"label_juez",
		"label_materia",
	}, SignalNames(got))
	assert.Equal(t, SignalAnchor, got[0].Kind)
	assert.Equal(t, SignalPattern, got[1].Kind)
}

func TestCustomCatalog(t *testing.T) {
	c := NewCatalog([]string{"CASO:"}, []Pattern{
		{Name: "folio", Expr: regexp.MustCompile(`(?i)folio\s+\d+`)},
	})
	assert.True(t, c.HasSignal("CASO: 1"))
	assert.True(t, c.HasSignal("FOLIO 12"))
	assert.False(t, c.HasSignal("JUEZ: Juan"))
	assert.False(t, c.HasSignal(strings.Repeat(" ", 10)))
}
