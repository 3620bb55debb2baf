package expediente

import "strings"

// SignalKind tells whether a Signal came from a literal anchor or a pattern.
type SignalKind string

const (
	SignalAnchor  SignalKind = "anchor"
	SignalPattern SignalKind = "pattern"
)

// Signal is one catalog entry that matched a text.
type Signal struct {
	Kind SignalKind `json:"kind"`
	// Name is the anchor text itself for anchors, the pattern name otherwise.
	Name string `json:"name"`
}

// HasCaseFileSignal reports whether text looks like it carries case-file
// metadata, using the default catalog.
func HasCaseFileSignal(text string) bool {
	return defaultCatalog.HasSignal(text)
}

// Signals lists every default catalog entry matching text.
func Signals(text string) []Signal {
	return defaultCatalog.Signals(text)
}

// HasSignal returns true as soon as one anchor is a substring of text or one
// pattern matches it. Empty text never matches.
func (c *Catalog) HasSignal(text string) bool {
	if text == "" {
		return false
	}
	for _, a := range c.anchors {
		if strings.Contains(text, a) {
			return true
		}
	}
	for _, p := range c.patterns {
		if p.Expr.MatchString(text) {
			return true
		}
	}
	return false
}

// Signals evaluates the whole catalog and returns the matches in catalog
// order, anchors first.
func (c *Catalog) Signals(text string) []Signal {
	if text == "" {
		return nil
	}
	var out []Signal
	for _, a := range c.anchors {
		if strings.Contains(text, a) {
			out = append(out, Signal{Kind: SignalAnchor, Name: a})
		}
	}
	for _, p := range c.patterns {
		if p.Expr.MatchString(text) {
			out = append(out, Signal{Kind: SignalPattern, Name: p.Name})
		}
	}
	return out
}

// SignalNames flattens signals to their names.
func SignalNames(signals []Signal) []string {
	names := make([]string, 0, len(signals))
	for _, s := range signals {
		names = append(names, s.Name)
	}
	return names
}
