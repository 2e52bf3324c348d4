// Package filevalidator decides whether a transferred file may be accepted
// into an upload directory. It checks, in order, the transfer status reported
// by the transport, the file's extension against allow and block lists, and
// the sniffed content type against the extension.
//
// FileValidator has no side effects: it never opens or moves files. Callers
// sniff content with a [Sniffer] and pass the result in [Input].
//
// # Quick Start
//
// Using presets:
//
//	validator := filevalidator.ForImages().Build()
//	err := validator.Validate(filevalidator.Input{
//	    FileName: "photo.png",
//	    Status:   filevalidator.StatusOK,
//	})
//
// Using the builder API:
//
//	validator := filevalidator.Empty().
//	    Extensions("pdf", ".txt").
//	    BlockExtensions(".php").
//	    StrictMIME().
//	    Build()
//
// # Transfer Status
//
// [TransferStatus] values follow the classic multipart upload error codes.
// [MapStatus] turns a failing status into a [TransportReason] and message:
//
//	reason, msg := filevalidator.MapStatus(filevalidator.StatusPartial)
//	// reason == filevalidator.ReasonPartial
//
// # Type Tables
//
// A [TypeTable] maps content types to the extensions they may carry. Tables
// are plain values; [DefaultTypeTable] returns a new one on every call and
// [TypeTable.With] copies before adding, so no global state is shared.
//
//	types := filevalidator.DefaultTypeTable().With("text/csv", ".csv")
//
// Content types missing from the table are not checked.
//
// # Error Handling
//
// Validation errors include the error type for programmatic handling:
//
//	err := validator.Validate(in)
//	if err != nil {
//	    switch {
//	    case filevalidator.IsErrorOfType(err, filevalidator.ErrorTypeTransport):
//	        // Transfer failed, see ValidationError.Reason
//	    case filevalidator.IsErrorOfType(err, filevalidator.ErrorTypeExtension):
//	        // Extension not allowed or blocked
//	    case filevalidator.IsErrorOfType(err, filevalidator.ErrorTypeMismatch):
//	        // Content does not match the extension
//	    }
//	}
package filevalidator
