package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobeaver/intake/filevalidator"
)

// Spec describes how one request field is taken in. It is not modified by
// the pipeline.
type Spec struct {
	// FieldKey selects the submission to process.
	FieldKey string `yaml:"field"`

	// TargetDir is the directory the file is committed into.
	TargetDir string `yaml:"target_dir"`

	// AllowedExtensions lists accepted extensions, case-insensitively.
	// ".jpg" and "jpg" are equivalent.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// ForceFileName replaces the submitted base name. Its own extension is
	// discarded; the submitted extension is kept.
	ForceFileName string `yaml:"force_file_name,omitempty"`

	// ReplaceExisting overwrites an existing file instead of picking a
	// suffixed name.
	ReplaceExisting bool `yaml:"replace_existing"`

	// KeepHistory writes a timestamped copy next to the committed file.
	KeepHistory bool `yaml:"keep_history"`

	// CreateDirIfMissing creates TargetDir, with parents, when absent.
	CreateDirIfMissing bool `yaml:"create_dir"`

	// Required makes an absent submission a failure.
	Required bool `yaml:"required"`
}

// Validate checks that the spec can be used at all.
func (s Spec) Validate() error {
	var errs []error
	if strings.TrimSpace(s.FieldKey) == "" {
		errs = append(errs, errors.New("field key is required"))
	}
	if strings.TrimSpace(s.TargetDir) == "" {
		errs = append(errs, errors.New("target directory is required"))
	}
	if len(s.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("at least one allowed extension is required"))
	}
	for _, ext := range s.AllowedExtensions {
		trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if trimmed == "" || strings.ContainsAny(trimmed, `/\.`) {
			errs = append(errs, fmt.Errorf("invalid extension %q", ext))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("spec %q: %w", s.FieldKey, err)
	}
	return nil
}

// Submission is one staged file as reported by the transport layer.
type Submission struct {
	// OriginalName is the client-supplied file name. It is untrusted.
	OriginalName string

	// TempPath locates the staged bytes on the uploader's disk.
	TempPath string

	// Size is the size reported by the transport.
	Size int64

	// Status is the transport's verdict on the transfer.
	Status filevalidator.TransferStatus

	// DeclaredType is the client-declared content type. Informational only.
	DeclaredType string
}

// SubmissionSource looks up submissions by field key.
type SubmissionSource interface {
	Lookup(fieldKey string) (Submission, bool)
}

// Submissions is a SubmissionSource backed by a map.
type Submissions map[string]Submission

// Lookup implements SubmissionSource.
func (s Submissions) Lookup(fieldKey string) (Submission, bool) {
	sub, ok := s[fieldKey]
	return sub, ok
}
