package expediente

import (
	"regexp"
	"strings"
)

// NormalizedIdentifier is a case number reduced to upper-case ASCII letters,
// digits and hyphens.
type NormalizedIdentifier string

func (n NormalizedIdentifier) String() string { return string(n) }

var (
	reSlash    = regexp.MustCompile(`/`)
	reNonIdent = regexp.MustCompile(`[^A-Za-z0-9-]`)
)

// Normalize strips everything but ASCII letters, digits and hyphens, then
// upper-cases the rest. A slash is a separator in court numbering
// (12345-2024/1234-...) and is kept as a hyphen.
func Normalize(raw string) NormalizedIdentifier {
	if raw == "" {
		return ""
	}
	s := reSlash.ReplaceAllString(raw, "-")
	s = reNonIdent.ReplaceAllString(s, "")
	return NormalizedIdentifier(strings.ToUpper(s))
}

// Equivalent reports whether a and b name the same case once punctuation,
// whitespace and letter case are ignored.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
