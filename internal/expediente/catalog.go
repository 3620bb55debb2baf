package expediente

import (
	"regexp"
	"slices"
)

// Pattern is a named judicial regular expression. Names are stable and show up
// in diagnostics (classify output, intake_jobs.signals).
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

// Catalog holds the literal anchors and judicial patterns used by the classifier.
// It is never mutated after construction and is safe for concurrent use.
type Catalog struct {
	anchors  []string
	patterns []Pattern
}

// Anchors are matched case-sensitively, exactly as written.
var defaultAnchors = []string{
	"Expediente N°:",
	"Expediente Nº:",
	"EXPEDIENTE N°:",
	"EXPEDIENTE Nº:",
	"EXPEDIENTE:",
	"Expediente:",
	"Exp. N°",
	"EXP. N°",
	"N° de Expediente",
	"Número de Expediente",
}

// All judicial patterns are case-insensitive.
var defaultPatterns = []Pattern{
	// 12345-2024-1234-2024-JS-PE
	{Name: "case_number_structured", Expr: regexp.MustCompile(`(?i)\d{3,5}-\d{4}-\d+-\d{4}-[A-Z]{2}-[A-Z]{2}`)},
	// over-matches phone-like strings such as 555-1234-99; kept on purpose
	{Name: "case_number_loose", Expr: regexp.MustCompile(`(?i)\d{3,6}-\d{4}[A-Z0-9-]*`)},
	{Name: "label_juez", Expr: regexp.MustCompile(`(?i)JUEZ\s*:`)},
	{Name: "label_especialista", Expr: regexp.MustCompile(`(?i)ESPECIALISTA\s*:`)},
	{Name: "label_delito", Expr: regexp.MustCompile(`(?i)DELITO\s*:`)},
	{Name: "label_imputado", Expr: regexp.MustCompile(`(?i)IMPUTADO\s*:`)},
	{Name: "label_demandante", Expr: regexp.MustCompile(`(?i)DEMANDANTE\s*:`)},
	{Name: "label_materia", Expr: regexp.MustCompile(`(?i)MATERIA\s*:`)},
}

var defaultCatalog = &Catalog{anchors: defaultAnchors, patterns: defaultPatterns}

// DefaultCatalog returns the process-wide catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }

// NewCatalog builds a catalog from caller supplied data. Patterns with a nil
// Expr are skipped.
func NewCatalog(anchors []string, patterns []Pattern) *Catalog {
	c := &Catalog{anchors: slices.Clone(anchors)}
	for _, p := range patterns {
		if p.Expr != nil {
			c.patterns = append(c.patterns, p)
		}
	}
	return c
}

// LiteralAnchors returns a copy of the anchors in catalog order.
func (c *Catalog) LiteralAnchors() []string {
	return slices.Clone(c.anchors)
}

// JudicialPatterns returns a copy of the patterns in catalog order.
func (c *Catalog) JudicialPatterns() []Pattern {
	return slices.Clone(c.patterns)
}
