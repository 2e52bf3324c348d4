package filevalidator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gobeaver/intake/filename"
)

// Input describes a transferred file as seen by the validator.
type Input struct {
	// FileName is the name reported by the client.
	FileName string

	// Status is the transfer status reported by the transport layer.
	Status TransferStatus

	// SniffedType is the content type detected from the file's bytes.
	// Empty skips the type check.
	SniffedType string
}

// Validator provides the main interface for validating files
type Validator interface {
	// Validate validates a file against the validator's constraints
	Validate(in Input) error

	// ValidateWithContext validates a file with context for potential cancellation
	ValidateWithContext(ctx context.Context, in Input) error

	// GetConstraints returns the current validation constraints
	GetConstraints() Constraints
}

// FileValidator implements the Validator interface
type FileValidator struct {
	constraints Constraints
	allowed     []string
	blocked     []string
}

// New creates a new file validator with the given constraints
func New(constraints Constraints) *FileValidator {
	if constraints.Types == nil {
		constraints.Types = DefaultTypeTable()
	}
	return &FileValidator{
		constraints: constraints,
		allowed:     NormalizeExtensions(constraints.AllowedExts),
		blocked:     NormalizeExtensions(constraints.BlockedExts),
	}
}

// NewDefault creates a new file validator with DefaultConstraints
func NewDefault() *FileValidator {
	return New(DefaultConstraints())
}

// Validate validates a file against the validator's constraints
func (v *FileValidator) Validate(in Input) error {
	return v.ValidateWithContext(context.Background(), in)
}

// ValidateWithContext runs the checks in order: transfer status, extension
// allow/block lists, then sniffed type against the extension.
func (v *FileValidator) ValidateWithContext(ctx context.Context, in Input) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if in.Status != StatusOK {
		return NewTransportError(in.Status)
	}

	ext := v.Extension(in.FileName)
	if err := v.checkExtension(ext); err != nil {
		return err
	}

	if v.constraints.StrictMIMETypeValidation && in.SniffedType != "" {
		return v.checkType(ext, in.SniffedType)
	}
	return nil
}

// GetConstraints returns the current validation constraints
func (v *FileValidator) GetConstraints() Constraints {
	return v.constraints
}

// Extension returns the lower-cased extension of name, including the dot.
func (v *FileValidator) Extension(name string) string {
	_, ext := filename.Split(name)
	return strings.ToLower(ext)
}

func (v *FileValidator) checkExtension(ext string) error {
	if ext == "" {
		return NewValidationError(ErrorTypeExtension, "file has no extension")
	}
	if slices.Contains(v.blocked, ext) {
		return NewValidationError(ErrorTypeExtension, fmt.Sprintf("file extension %s is blocked", ext))
	}
	if !slices.Contains(v.allowed, ext) {
		return NewValidationError(
			ErrorTypeExtension,
			fmt.Sprintf("file extension %s is not allowed; allowed extensions: %v", ext, v.allowed),
		)
	}
	return nil
}

func (v *FileValidator) checkType(ext, sniffed string) error {
	exts, known := v.constraints.Types.Extensions(sniffed)
	if !known || slices.Contains(exts, ext) {
		return nil
	}
	return NewValidationError(
		ErrorTypeMismatch,
		fmt.Sprintf("file type %s does not match its extension %s", BaseType(sniffed), ext),
	)
}
