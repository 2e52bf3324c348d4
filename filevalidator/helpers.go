package filevalidator

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSizeReadable converts a size in bytes to a human-readable string
func FormatSizeReadable(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}
	return humanize.IBytes(uint64(size))
}

// ParseSize parses sizes such as "512", "64K", "2M", "1G" or "10 MiB".
// Single-letter suffixes are binary multiples.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("filevalidator: empty size")
	}
	switch s[len(s)-1] {
	case 'k', 'K', 'm', 'M', 'g', 'G', 't', 'T':
		s += "iB"
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("filevalidator: invalid size %q: %w", s, err)
	}
	if n > uint64(1<<63-1) {
		return 0, fmt.Errorf("filevalidator: size %q overflows", s)
	}
	return int64(n), nil
}

// AcceptList builds the value of an HTML accept attribute. Extensions are
// preferred and normalised to carry a leading dot; mimeTypes are used only
// when no extension is given.
func AcceptList(exts []string, mimeTypes []string) string {
	if norm := NormalizeExtensions(exts); len(norm) > 0 {
		return strings.Join(norm, ",")
	}
	out := make([]string, 0, len(mimeTypes))
	for _, m := range mimeTypes {
		if m = BaseType(m); m != "" {
			out = append(out, m)
		}
	}
	return strings.Join(out, ",")
}

// HasSupportedImageExtension reports whether name ends in a supported image extension.
func HasSupportedImageExtension(name string) bool {
	return hasExtension(name, ImageExtensions())
}

// HasSupportedDocumentExtension reports whether name ends in a supported document extension.
func HasSupportedDocumentExtension(name string) bool {
	return hasExtension(name, DocumentExtensions())
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
