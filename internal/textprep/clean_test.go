package textprep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/expedientes/internal/expediente"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf and tabs", "JUEZ:\tAna\r\nMATERIA:  Civil  \r\n", "JUEZ: Ana\nMATERIA: Civil"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"ruler lines", "Cabecera\n-----\nCuerpo", "Cabecera\n\nCuerpo"},
		{"nbsp", "Expediente\u00a0N°:\u202f12", "Expediente N°: 12"},
		{"case number untouched", "  01234-2024-0-1801-JR-CI-05  ", "01234-2024-0-1801-JR-CI-05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clean(tc.in))
		})
	}
}

func TestCleanComposesAccents(t *testing.T) {
	decomposed := "Nu\u0301mero de Expediente 7"
	assert.False(t, expediente.HasCaseFileSignal(decomposed))
	assert.True(t, expediente.HasCaseFileSignal(Clean(decomposed)))
}
