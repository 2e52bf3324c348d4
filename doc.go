// Package intake validates uploaded files and commits them into target
// directories under safe, unique names.
//
// Each upload field is described by a [Spec]: the target directory, the
// accepted extensions and how name collisions are handled. An [Uploader]
// runs one submission per spec through a fixed sequence of steps:
//
//  1. the target directory is checked, and created on request
//  2. the transfer status, extension and sniffed content type are validated
//  3. the base name is sanitized, or replaced by Spec.ForceFileName
//  4. a free name is claimed atomically, adding _1, _2, ... on collision
//  5. with Spec.KeepHistory, a timestamped copy is written next to it
//  6. the staged file is moved over the claimed name
//
// Every item produces an [Outcome]. Failures never escape as panics or
// errors from Upload; they are reported as a [Failure] carrying an
// [ErrorKind], and a failed item leaves nothing behind in the target
// directory.
//
// # Storage
//
// The Uploader writes through a [Disk]. Drivers register themselves by
// name, like database/sql drivers:
//
//	import _ "github.com/gobeaver/intake/driver/local"
//
//	u, err := intake.New(&intake.Config{Driver: "local", Root: "/srv/uploads"})
//
// The memory driver (github.com/gobeaver/intake/driver/memory) keeps
// everything in memory and is meant for tests.
//
// # Basic Usage
//
//	spec := intake.Spec{
//	    FieldKey:           "avatar",
//	    TargetDir:          "public/avatars",
//	    AllowedExtensions:  filevalidator.ImageExtensions(),
//	    CreateDirIfMissing: true,
//	}
//
//	out := u.Upload(ctx, spec, intake.Submissions{"avatar": sub})
//	if f, ok := out.Failure(); ok {
//	    log.Printf("%s: %s", f.Kind, f.Message)
//	}
//
// Several specs are processed with [Uploader.UploadBatch], which reports
// how many items failed.
//
// # Configuration
//
// [Config] is loaded from BEAVER_INTAKE_* environment variables. [Init]
// and [Default] manage a global instance; [WithPrefix] loads the same
// settings under another prefix.
//
// # Related packages
//
//   - filename: sanitizing and suffixing of file names
//   - filevalidator: transfer status, extension and content type checks
//   - transport/httpform: staging of multipart form uploads
//   - metrics: Prometheus observer for outcomes
package intake
