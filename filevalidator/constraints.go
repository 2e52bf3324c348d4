package filevalidator

import "strings"

// Size constants for easier size configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Constraints defines the configuration for file validation
type Constraints struct {
	// AllowedExts is a list of allowed file extensions including the dot (e.g., ".jpg", ".pdf").
	// An empty list allows nothing.
	AllowedExts []string

	// BlockedExts is a list of blocked file extensions including the dot (e.g., ".exe", ".php")
	// These extensions will be blocked regardless of AllowedExts configuration
	BlockedExts []string

	// StrictMIMETypeValidation requires that a sniffed content type, when it is
	// known to Types, lists the file's extension.
	StrictMIMETypeValidation bool

	// Types maps content types to the extensions they may carry.
	// If nil, DefaultTypeTable is used.
	Types TypeTable
}

// DefaultConstraints allows every supported image and document extension and
// checks sniffed content against the default type table.
func DefaultConstraints() Constraints {
	return Constraints{
		AllowedExts:              AllSupportedExtensions(),
		StrictMIMETypeValidation: true,
		Types:                    DefaultTypeTable(),
	}
}

// ImageOnlyConstraints creates constraints that only allow image files
func ImageOnlyConstraints() Constraints {
	constraints := DefaultConstraints()
	constraints.AllowedExts = ImageExtensions()
	return constraints
}

// DocumentOnlyConstraints creates constraints that only allow document files
func DocumentOnlyConstraints() Constraints {
	constraints := DefaultConstraints()
	constraints.AllowedExts = DocumentExtensions()
	return constraints
}

// NormalizeExtension lower-cases ext and ensures it has a leading dot.
// An empty input stays empty.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions applies NormalizeExtension to every entry, dropping empty ones.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if n := NormalizeExtension(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
