package filevalidator

import "fmt"

// TransferStatus is the status code the transport layer reports for a single
// transferred file. The numbering follows the classic multipart upload error
// codes so adapters can pass platform values through unchanged.
type TransferStatus int

const (
	// StatusOK means the file arrived completely.
	StatusOK TransferStatus = 0
	// StatusServerSize means the file exceeded the server-wide size limit.
	StatusServerSize TransferStatus = 1
	// StatusFormSize means the file exceeded the limit declared by the form.
	StatusFormSize TransferStatus = 2
	// StatusPartial means the transfer was interrupted.
	StatusPartial TransferStatus = 3
	// StatusNoFile means the field was present but carried no file.
	StatusNoFile TransferStatus = 4
	// StatusNoTempDir means there was nowhere to stage the file.
	StatusNoTempDir TransferStatus = 6
	// StatusCantWrite means staging the file failed.
	StatusCantWrite TransferStatus = 7
	// StatusBlocked means a transport-level policy refused the file.
	StatusBlocked TransferStatus = 8
)

// TransportReason classifies a failed transfer.
type TransportReason string

const (
	ReasonSizeExceeded    TransportReason = "size_exceeded"
	ReasonPartial         TransportReason = "partial_transfer"
	ReasonNoFile          TransportReason = "no_file"
	ReasonNoTempDir       TransportReason = "no_temp_dir"
	ReasonWriteFailed     TransportReason = "write_failed"
	ReasonBlockedByPolicy TransportReason = "blocked_by_policy"
	ReasonUnknown         TransportReason = "unknown"
)

// MapStatus translates a transfer status into a reason and a human-readable
// message. StatusOK maps to an empty reason.
func MapStatus(status TransferStatus) (TransportReason, string) {
	switch status {
	case StatusOK:
		return "", ""
	case StatusServerSize:
		return ReasonSizeExceeded, "file exceeds the server upload size limit"
	case StatusFormSize:
		return ReasonSizeExceeded, "file exceeds the form upload size limit"
	case StatusPartial:
		return ReasonPartial, "file was only partially uploaded"
	case StatusNoFile:
		return ReasonNoFile, "no file was uploaded"
	case StatusNoTempDir:
		return ReasonNoTempDir, "missing temporary folder"
	case StatusCantWrite:
		return ReasonWriteFailed, "failed to write file to disk"
	case StatusBlocked:
		return ReasonBlockedByPolicy, "file upload stopped by extension policy"
	default:
		return ReasonUnknown, fmt.Sprintf("unknown upload error (status %d)", int(status))
	}
}

// String returns the status name.
func (s TransferStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusServerSize:
		return "server_size"
	case StatusFormSize:
		return "form_size"
	case StatusPartial:
		return "partial"
	case StatusNoFile:
		return "no_file"
	case StatusNoTempDir:
		return "no_tmp_dir"
	case StatusCantWrite:
		return "cant_write"
	case StatusBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}
