package constants

import "strings"

// Document formats stored in intake_jobs.format.
const (
	TEXT     = "TEXT"
	MARKDOWN = "MARKDOWN"
)

// FileTypes holds the allowed values for the format column.
var FileTypes = []string{TEXT, MARKDOWN}

// AllowedExtensions holds the default allowed file extensions for document intake.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"md":   {},
}

// SidecarExt is the extension of the extracted record stored next to a document.
const SidecarExt = "json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to a document format, or "".
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "txt", "text":
		return TEXT
	case "md":
		return MARKDOWN
	}
	return ""
}
