package filevalidator

import (
	"maps"
	"slices"
	"strings"
)

// TypeTable maps a base content type (no parameters) to the extensions a file
// of that type may carry. Types missing from the table are not checked.
type TypeTable map[string][]string

// DefaultTypeTable returns a fresh table covering the supported images and
// office documents.
func DefaultTypeTable() TypeTable {
	return TypeTable{
		// Images
		"image/jpeg":    {".jpg", ".jpeg"},
		"image/png":     {".png"},
		"image/gif":     {".gif"},
		"image/webp":    {".webp"},
		"image/bmp":     {".bmp"},
		"image/svg+xml": {".svg"},

		// Documents
		"application/pdf": {".pdf"},
		"text/plain":      {".txt"},

		// Microsoft Word
		"application/msword": {".doc", ".dot"},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
		"application/vnd.ms-word.document.macroEnabled.12":                        {".docm"},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.template": {".dotx"},

		// Microsoft Excel
		"application/vnd.ms-excel": {".xls", ".xlt"},
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":    {".xlsx"},
		"application/vnd.ms-excel.sheet.macroEnabled.12":                       {".xlsm"},
		"application/vnd.openxmlformats-officedocument.spreadsheetml.template": {".xltx"},

		// Microsoft PowerPoint
		"application/vnd.ms-powerpoint": {".ppt", ".pot"},
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx"},
		"application/vnd.ms-powerpoint.presentation.macroEnabled.12":                {".pptm"},
		"application/vnd.openxmlformats-officedocument.presentationml.template":     {".potx"},
	}
}

// Extensions returns the extensions registered for mimeType and whether the
// type is known. Parameters such as "; charset=utf-8" are ignored.
func (t TypeTable) Extensions(mimeType string) ([]string, bool) {
	exts, ok := t[BaseType(mimeType)]
	return exts, ok
}

// TypeForExtension returns the first content type, in sorted order, that
// lists ext. Returns empty string if the extension is not recognized.
func (t TypeTable) TypeForExtension(ext string) string {
	ext = NormalizeExtension(ext)
	for _, mimeType := range slices.Sorted(maps.Keys(t)) {
		if slices.Contains(t[mimeType], ext) {
			return mimeType
		}
	}
	return ""
}

// With returns a copy of t where mimeType maps to exts.
func (t TypeTable) With(mimeType string, exts ...string) TypeTable {
	out := make(TypeTable, len(t)+1)
	for k, v := range t {
		out[k] = slices.Clone(v)
	}
	out[BaseType(mimeType)] = NormalizeExtensions(exts)
	return out
}

// BaseType strips parameters from a content type and lower-cases it.
func BaseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// ImageExtensions returns the supported image extensions.
func ImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}
}

// ImageMIMETypes returns the content types of the supported images.
func ImageMIMETypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/svg+xml"}
}

// DocumentExtensions returns the supported text, PDF and office extensions.
func DocumentExtensions() []string {
	return []string{
		".txt", ".pdf",
		".doc", ".docx", ".docm", ".dot", ".dotx",
		".xls", ".xlsx", ".xlsm", ".xlt", ".xltx",
		".ppt", ".pptx", ".pptm", ".pot", ".potx",
	}
}

// DocumentMIMETypes returns the content types of the supported documents.
func DocumentMIMETypes() []string {
	return []string{
		"text/plain",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-word.document.macroEnabled.12",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.template",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel.sheet.macroEnabled.12",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.template",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.ms-powerpoint.presentation.macroEnabled.12",
		"application/vnd.openxmlformats-officedocument.presentationml.template",
	}
}

// AllSupportedExtensions returns ImageExtensions followed by DocumentExtensions.
func AllSupportedExtensions() []string {
	return append(ImageExtensions(), DocumentExtensions()...)
}

// AllSupportedMIMETypes returns ImageMIMETypes followed by DocumentMIMETypes.
func AllSupportedMIMETypes() []string {
	return append(ImageMIMETypes(), DocumentMIMETypes()...)
}
