package filevalidator

// Builder provides a fluent API for constructing validators
type Builder struct {
	constraints Constraints
}

// NewBuilder creates a new validator builder with DefaultConstraints
func NewBuilder() *Builder {
	return &Builder{
		constraints: DefaultConstraints(),
	}
}

// Empty creates a builder that allows nothing and skips type checks
func Empty() *Builder {
	return &Builder{
		constraints: Constraints{Types: DefaultTypeTable()},
	}
}

// --- Extension constraints ---

// Extensions replaces the allowed extensions
func (b *Builder) Extensions(exts ...string) *Builder {
	b.constraints.AllowedExts = NormalizeExtensions(exts)
	return b
}

// AllowExtensions adds allowed extensions
func (b *Builder) AllowExtensions(exts ...string) *Builder {
	b.constraints.AllowedExts = append(b.constraints.AllowedExts, NormalizeExtensions(exts)...)
	return b
}

// BlockExtensions adds blocked extensions
func (b *Builder) BlockExtensions(exts ...string) *Builder {
	b.constraints.BlockedExts = append(b.constraints.BlockedExts, NormalizeExtensions(exts)...)
	return b
}

// --- Content type constraints ---

// StrictMIME enables checking the sniffed type against the extension
func (b *Builder) StrictMIME() *Builder {
	b.constraints.StrictMIMETypeValidation = true
	return b
}

// LenientMIME disables the sniffed type check
func (b *Builder) LenientMIME() *Builder {
	b.constraints.StrictMIMETypeValidation = false
	return b
}

// WithTypes replaces the type table
func (b *Builder) WithTypes(types TypeTable) *Builder {
	b.constraints.Types = types
	return b
}

// MapType registers extensions for a content type on a copy of the current table
func (b *Builder) MapType(mimeType string, exts ...string) *Builder {
	types := b.constraints.Types
	if types == nil {
		types = DefaultTypeTable()
	}
	b.constraints.Types = types.With(mimeType, exts...)
	return b
}

// --- Build ---

// Build creates the validator with the configured constraints
func (b *Builder) Build() *FileValidator {
	return New(b.constraints)
}

// Constraints returns the current constraints (for inspection)
func (b *Builder) Constraints() Constraints {
	return b.constraints
}

// --- Presets ---

// ForImages creates a builder pre-configured for image uploads
func ForImages() *Builder {
	return NewBuilder().Extensions(ImageExtensions()...)
}

// ForDocuments creates a builder pre-configured for document uploads
func ForDocuments() *Builder {
	return NewBuilder().Extensions(DocumentExtensions()...)
}

// ForWeb creates a builder for typical web uploads (images + documents)
func ForWeb() *Builder {
	return NewBuilder().Extensions(AllSupportedExtensions()...)
}
