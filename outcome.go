package intake

import (
	"fmt"

	"github.com/gobeaver/intake/filevalidator"
)

// ErrorKind classifies a failed upload.
type ErrorKind string

const (
	KindDirectoryMissing      ErrorKind = "directory_missing"
	KindDirectoryCreateFailed ErrorKind = "directory_create_failed"
	KindDirectoryNotWritable  ErrorKind = "directory_not_writable"
	KindMissingRequiredFile   ErrorKind = "missing_required_file"
	KindTransport             ErrorKind = "transport_error"
	KindExtensionNotAllowed   ErrorKind = "extension_not_allowed"
	KindTypeMismatch          ErrorKind = "type_mismatch"
	KindNameUnavailable       ErrorKind = "name_unavailable"
	KindMoveFailed            ErrorKind = "move_failed"
	KindHistoryCopyFailed     ErrorKind = "history_copy_failed"
)

var kindSentinels = map[ErrorKind]error{
	KindDirectoryMissing:      ErrDirectoryMissing,
	KindDirectoryCreateFailed: ErrDirectoryCreateFailed,
	KindDirectoryNotWritable:  ErrDirectoryNotWritable,
	KindMissingRequiredFile:   ErrMissingRequiredFile,
	KindTransport:             ErrTransport,
	KindExtensionNotAllowed:   ErrExtensionNotAllowed,
	KindTypeMismatch:          ErrTypeMismatch,
	KindNameUnavailable:       ErrNameUnavailable,
	KindMoveFailed:            ErrMoveFailed,
	KindHistoryCopyFailed:     ErrHistoryCopyFailed,
}

// Err returns the sentinel error for the kind.
func (k ErrorKind) Err() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return fmt.Errorf("upload failed: %s", string(k))
}

// Stage is a step of the per-item state machine:
//
//	pending -> directory_ready -> validated -> sanitized -> path_resolved -> (archived) -> committed
//
// A failure may happen in any stage but committed.
type Stage string

const (
	StagePending        Stage = "pending"
	StageDirectoryReady Stage = "directory_ready"
	StageValidated      Stage = "validated"
	StageSanitized      Stage = "sanitized"
	StagePathResolved   Stage = "path_resolved"
	StageArchived       Stage = "archived"
	StageCommitted      Stage = "committed"
)

// Success describes a completed item.
type Success struct {
	FieldKey string

	// Uploaded is false when an optional field carried no file.
	Uploaded bool

	// FileName is the committed name, FullPath its location.
	FileName string
	FullPath string

	// HistoryPath is set when a history copy was written.
	HistoryPath string

	Size        int64
	Checksum    string
	ContentType string
}

// Failure describes a failed item. It implements error and matches the
// sentinel of its Kind as well as its cause under errors.Is.
type Failure struct {
	FieldKey string
	Kind     ErrorKind

	// Reason is set for KindTransport.
	Reason filevalidator.TransportReason

	Message string

	// Stage is the last stage the item reached before failing.
	Stage Stage

	Err error
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.FieldKey == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.FieldKey, f.Message)
}

// Unwrap returns the kind sentinel and the cause.
func (f *Failure) Unwrap() []error {
	errs := []error{f.Kind.Err()}
	if f.Err != nil {
		errs = append(errs, f.Err)
	}
	return errs
}

// Outcome is the result of one item. It holds either a Success or a Failure,
// never both.
type Outcome struct {
	success *Success
	failure *Failure
}

func succeeded(s Success) Outcome {
	s.Uploaded = true
	return Outcome{success: &s}
}

func skipped(fieldKey string) Outcome {
	return Outcome{success: &Success{FieldKey: fieldKey}}
}

func failed(f Failure) Outcome {
	return Outcome{failure: &f}
}

// OK reports whether the item succeeded, including "not uploaded".
func (o Outcome) OK() bool {
	return o.failure == nil
}

// Uploaded reports whether a file was committed.
func (o Outcome) Uploaded() bool {
	return o.success != nil && o.success.Uploaded
}

// Success returns a copy of the success value.
func (o Outcome) Success() (Success, bool) {
	if o.success == nil {
		return Success{}, false
	}
	return *o.success, true
}

// Failure returns a copy of the failure value.
func (o Outcome) Failure() (Failure, bool) {
	if o.failure == nil {
		return Failure{}, false
	}
	return *o.failure, true
}

// Err returns the failure as an error, or nil.
func (o Outcome) Err() error {
	if o.failure == nil {
		return nil
	}
	f := *o.failure
	return &f
}

// FieldKey returns the field the outcome belongs to.
func (o Outcome) FieldKey() string {
	if o.failure != nil {
		return o.failure.FieldKey
	}
	if o.success != nil {
		return o.success.FieldKey
	}
	return ""
}

// Message returns a short human-readable description.
func (o Outcome) Message() string {
	switch {
	case o.failure != nil:
		return o.failure.Message
	case o.success != nil && !o.success.Uploaded:
		return "not uploaded"
	case o.success != nil:
		return "uploaded"
	default:
		return ""
	}
}
