// Package httpform turns multipart form uploads into intake submissions.
//
// A Stager copies each requested file part into a staging directory and
// reports request-level failures through the submission's transfer status,
// so the Uploader sees a transport error instead of a missing file.
package httpform

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultMaxMemory is the part of a form kept in memory while parsing.
const DefaultMaxMemory = 32 << 20

// Stager stages multipart file parts on a filesystem.
type Stager struct {
	fs          afero.Fs
	dir         string
	maxMemory   int64
	maxFileSize int64
	logger      *slog.Logger
	newName     func() string
}

// Option configures a Stager
type Option func(*Stager)

// WithMaxMemory sets the in-memory budget for ParseMultipartForm.
func WithMaxMemory(n int64) Option {
	return func(s *Stager) {
		if n > 0 {
			s.maxMemory = n
		}
	}
}

// WithMaxFileSize rejects single parts larger than n bytes with
// StatusFormSize. Zero disables the check.
func WithMaxFileSize(n int64) Option {
	return func(s *Stager) {
		s.maxFileSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStager creates a Stager writing into dir on fs. The filesystem must be
// the one the Uploader's disk reads staged files from.
func NewStager(fs afero.Fs, dir string, opts ...Option) *Stager {
	s := &Stager{
		fs:        fs,
		dir:       dir,
		maxMemory: DefaultMaxMemory,
		logger:    slog.New(slog.DiscardHandler),
		newName:   func() string { return "upload-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Stage parses r and stages the first file part of every listed field.
// Fields without a part are left out of the result. An error is returned
// only when the request is not a multipart form at all.
func (s *Stager) Stage(r *http.Request, fields ...string) (intake.Submissions, error) {
	subs := make(intake.Submissions, len(fields))

	if err := r.ParseMultipartForm(s.maxMemory); err != nil {
		if isTooLarge(err) {
			s.logger.Warn("request body too large", "error", err)
			for _, field := range fields {
				subs[field] = intake.Submission{Status: filevalidator.StatusServerSize}
			}
			return subs, nil
		}
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	for _, field := range fields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		subs[field] = s.stagePart(field, headers[0])
	}
	return subs, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (s *Stager) stagePart(field string, fh *multipart.FileHeader) intake.Submission {
	sub := intake.Submission{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		DeclaredType: fh.Header.Get("Content-Type"),
	}
	log := s.logger.With("field", field, "name", fh.Filename)

	switch {
	case fh.Filename == "":
		sub.Status = filevalidator.StatusNoFile
		return sub
	case s.maxFileSize > 0 && fh.Size > s.maxFileSize:
		sub.Status = filevalidator.StatusFormSize
		return sub
	}

	if ok, err := afero.DirExists(s.fs, s.dir); err != nil || !ok {
		log.Error("staging directory unavailable", "dir", s.dir, "error", err)
		sub.Status = filevalidator.StatusNoTempDir
		return sub
	}

	path, n, err := s.copyPart(fh)
	if err != nil {
		log.Error("failed to stage upload", "error", err)
		sub.Status = filevalidator.StatusCantWrite
		return sub
	}

	sub.TempPath = path
	sub.Size = n
	log.Debug("upload staged", "path", path, "size", n)
	return sub
}

func (s *Stager) copyPart(fh *multipart.FileHeader) (string, int64, error) {
	src, err := fh.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	path := filepath.Join(s.dir, s.newName())
	dst, err := s.fs.Create(path)
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

// Cleanup removes staged files that are still present. The Uploader removes
// the files it processes; this catches parts nothing consumed.
func (s *Stager) Cleanup(subs intake.Submissions) {
	for _, sub := range subs {
		if sub.TempPath == "" {
			continue
		}
		if err := s.fs.Remove(sub.TempPath); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
			s.logger.Warn("failed to remove staged file", "path", sub.TempPath, "error", err)
		}
	}
}
