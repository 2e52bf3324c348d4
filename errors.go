package intake

import (
	"errors"
	"fmt"
)

// Common filesystem errors
var (
	ErrNotExist     = errors.New("file does not exist")
	ErrExist        = errors.New("file already exists")
	ErrPermission   = errors.New("permission denied")
	ErrNotDir       = errors.New("not a directory")
	ErrIsDir        = errors.New("is a directory")
	ErrNotSupported = errors.New("operation not supported")
	ErrNotAllowed   = errors.New("operation not allowed")
)

// Upload failure sentinels, one per ErrorKind. A *Failure matches its kind's
// sentinel with errors.Is.
var (
	ErrDirectoryMissing      = errors.New("upload directory does not exist")
	ErrDirectoryCreateFailed = errors.New("failed to create upload directory")
	ErrDirectoryNotWritable  = errors.New("upload directory is not writable")
	ErrMissingRequiredFile   = errors.New("no file uploaded for required field")
	ErrTransport             = errors.New("file transfer failed")
	ErrExtensionNotAllowed   = errors.New("file extension not allowed")
	ErrTypeMismatch          = errors.New("file type does not match its extension")
	ErrNameUnavailable       = errors.New("no free file name in upload directory")
	ErrMoveFailed            = errors.New("failed to move file to target location")
	ErrHistoryCopyFailed     = errors.New("failed to create history copy")
)

// PathError records an error and the operation and file path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsNotExist reports whether an error indicates that a file or directory
// does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsExist reports whether an error indicates that a file or directory
// already exists
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsPermission reports whether an error indicates that permission is denied
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}
