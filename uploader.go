package intake

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/intake/filename"
	"github.com/gobeaver/intake/filevalidator"
)

const (
	// DefaultMaxClaimAttempts bounds the suffixes tried per item.
	DefaultMaxClaimAttempts = 1000

	// DefaultDirMode is used for directories created on demand.
	DefaultDirMode os.FileMode = 0o755

	historySuffixBytes = 4
	historyAttempts    = 8
)

// Uploader validates submissions and commits them into target directories.
// An Uploader is safe for concurrent use.
type Uploader struct {
	disk          Disk
	logger        *slog.Logger
	now           func() time.Time
	random        io.Reader
	randomMu      sync.Mutex
	sniffer       filevalidator.Sniffer
	types         filevalidator.TypeTable
	blocked       []string
	checksum      ChecksumAlgorithm
	dirMode       os.FileMode
	maxClaims     int
	concurrency   int
	transliterate bool
	observers     []Observer
	locks         dirLocks
}

// NewUploader creates an Uploader over disk.
func NewUploader(disk Disk, opts ...Option) *Uploader {
	u := &Uploader{
		disk:      disk,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		random:    rand.Reader,
		sniffer:   filevalidator.MimetypeSniffer{},
		types:     filevalidator.DefaultTypeTable(),
		checksum:  ChecksumNone,
		dirMode:   DefaultDirMode,
		maxClaims: DefaultMaxClaimAttempts,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Disk returns the disk the uploader writes to.
func (u *Uploader) Disk() Disk {
	return u.disk
}

// item carries the per-upload state through the pipeline.
type item struct {
	spec    Spec
	sub     Submission
	stage   Stage
	log     *slog.Logger
	base    string
	ext     string
	sniffed string
	dest    string
	claimed bool
	history string
}

func (it *item) fail(kind ErrorKind, err error, format string, args ...any) Outcome {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return failed(Failure{
		FieldKey: it.spec.FieldKey,
		Kind:     kind,
		Message:  msg,
		Stage:    it.stage,
		Err:      err,
	})
}

// Upload processes a single spec. It never panics on bad input and never
// returns an error: every failure is described by the Outcome.
//
// Cancellation of ctx is not honoured once Upload has started; an item runs
// to commit or failure.
func (u *Uploader) Upload(ctx context.Context, spec Spec, src SubmissionSource) Outcome {
	return u.upload(context.WithoutCancel(ctx), spec, src)
}

func (u *Uploader) upload(ctx context.Context, spec Spec, src SubmissionSource) (out Outcome) {
	start := time.Now()
	it := &item{
		spec:  spec,
		stage: StagePending,
		log:   u.logger.With("field", spec.FieldKey, "dir", spec.TargetDir),
	}

	var present bool
	if src != nil {
		it.sub, present = src.Lookup(spec.FieldKey)
	}

	defer func() {
		if !out.OK() {
			u.rollback(ctx, it)
		}
		if present {
			u.removeTemp(ctx, it)
		}
		u.report(it, out, time.Since(start))
	}()

	if out, ok := u.prepareDir(ctx, it); !ok {
		return out
	}

	// StatusNoFile means the field was sent empty. It counts as absent, so
	// ReasonNoFile is only produced by filevalidator used on its own.
	if !present || it.sub.Status == filevalidator.StatusNoFile {
		if spec.Required {
			return it.fail(KindMissingRequiredFile, nil, "no file uploaded for key: %s", spec.FieldKey)
		}
		it.log.Debug("no file submitted")
		return skipped(spec.FieldKey)
	}

	if out, ok := u.validate(ctx, it); !ok {
		return out
	}

	u.sanitize(it)

	if out, ok := u.commit(ctx, it); !ok {
		return out
	}

	return u.success(ctx, it)
}

// commit resolves the destination, writes the history copy and moves the
// file into place. Items sharing a directory commit one at a time unless
// they replace existing files.
func (u *Uploader) commit(ctx context.Context, it *item) (Outcome, bool) {
	if !it.spec.ReplaceExisting {
		unlock := u.locks.lock(it.spec.TargetDir)
		defer unlock()
	}

	out, ok := u.resolve(ctx, it)
	if ok && it.spec.KeepHistory {
		out, ok = u.archive(ctx, it)
	}
	if ok {
		out, ok = u.finalize(ctx, it)
	}
	if !ok {
		u.rollback(ctx, it)
	}
	return out, ok
}

// prepareDir makes sure the target directory exists and accepts new files.
func (u *Uploader) prepareDir(ctx context.Context, it *item) (Outcome, bool) {
	dir := it.spec.TargetDir
	if strings.TrimSpace(dir) == "" {
		return it.fail(KindDirectoryMissing, nil, "upload directory is not set"), false
	}

	exists, err := u.disk.DirExists(ctx, dir)
	if err != nil {
		return it.fail(KindDirectoryMissing, err, "upload directory %s is not accessible", dir), false
	}
	if !exists {
		if !it.spec.CreateDirIfMissing {
			return it.fail(KindDirectoryMissing, nil, "upload directory does not exist: %s", dir), false
		}
		if err := u.disk.CreateDir(ctx, dir, u.dirMode); err != nil {
			return it.fail(KindDirectoryCreateFailed, err, "failed to create upload directory %s", dir), false
		}
		it.log.Debug("created upload directory", "mode", u.dirMode)
	}

	if err := u.disk.Writable(ctx, dir); err != nil {
		return it.fail(KindDirectoryNotWritable, err, "upload directory is not writable: %s", dir), false
	}

	it.stage = StageDirectoryReady
	return Outcome{}, true
}

// validate runs the transfer status, extension and content type checks.
func (u *Uploader) validate(ctx context.Context, it *item) (Outcome, bool) {
	b := filevalidator.Empty().
		WithTypes(u.types).
		Extensions(it.spec.AllowedExtensions...).
		BlockExtensions(u.blocked...)
	if u.sniffer != nil {
		b = b.StrictMIME()
	}
	validator := b.Build()

	in := filevalidator.Input{
		FileName: it.sub.OriginalName,
		Status:   it.sub.Status,
	}
	if in.Status == filevalidator.StatusOK && u.sniffer != nil {
		it.sniffed = u.sniff(ctx, it)
		in.SniffedType = it.sniffed
	}

	if err := validator.ValidateWithContext(ctx, in); err != nil {
		if !filevalidator.IsValidationError(err) {
			return it.fail(KindTransport, err, "validation failed"), false
		}
		f := Failure{
			FieldKey: it.spec.FieldKey,
			Message:  filevalidator.GetErrorMessage(err),
			Stage:    it.stage,
			Err:      err,
		}
		switch filevalidator.GetErrorType(err) {
		case filevalidator.ErrorTypeTransport:
			f.Kind = KindTransport
			f.Reason = filevalidator.GetTransportReason(err)
		case filevalidator.ErrorTypeMismatch:
			f.Kind = KindTypeMismatch
		default:
			f.Kind = KindExtensionNotAllowed
		}
		return failed(f), false
	}

	it.ext = validator.Extension(it.sub.OriginalName)
	it.stage = StageValidated
	return Outcome{}, true
}

// sniff returns the detected content type of the staged file, or "" when it
// cannot be read.
func (u *Uploader) sniff(ctx context.Context, it *item) string {
	rc, err := u.disk.Open(ctx, it.sub.TempPath)
	if err != nil {
		it.log.Debug("skipping content sniffing", "error", err)
		return ""
	}
	defer rc.Close()

	mimeType, err := u.sniffer.Sniff(rc)
	if err != nil {
		it.log.Debug("content sniffing failed", "error", err)
		return ""
	}
	it.log.Debug("sniffed content", "type", mimeType, "declared", it.sub.DeclaredType)
	return mimeType
}

// sanitize derives the base name from ForceFileName or the submitted name.
func (u *Uploader) sanitize(it *item) {
	source := it.sub.OriginalName
	if it.spec.ForceFileName != "" {
		source = it.spec.ForceFileName
	}
	base, _ := filename.Split(source)
	if u.transliterate {
		base = filename.Transliterate(base)
	}
	it.base = filename.Base(base)
	it.stage = StageSanitized
	it.log.Debug("sanitized name", "original", it.sub.OriginalName, "base", it.base, "ext", it.ext)
}

// resolve picks the destination path. Without ReplaceExisting the name is
// claimed by creating an empty placeholder, so concurrent uploads never pick
// the same name.
func (u *Uploader) resolve(ctx context.Context, it *item) (Outcome, bool) {
	dir := it.spec.TargetDir

	if it.spec.ReplaceExisting {
		dest := filepath.Join(dir, it.base+it.ext)
		if !isPathUnderDir(dir, dest) {
			return it.fail(KindNameUnavailable, ErrNotAllowed, "file name %s escapes the upload directory", it.base+it.ext), false
		}
		it.dest = dest
		it.stage = StagePathResolved
		return Outcome{}, true
	}

	for n := 0; n < u.maxClaims; n++ {
		dest := filepath.Join(dir, filename.Suffixed(it.base, it.ext, n))
		if !isPathUnderDir(dir, dest) {
			return it.fail(KindNameUnavailable, ErrNotAllowed, "file name %s escapes the upload directory", filepath.Base(dest)), false
		}

		err := u.disk.CreateExclusive(ctx, dest)
		if err == nil {
			it.dest = dest
			it.claimed = true
			it.stage = StagePathResolved
			it.log.Debug("claimed file name", "path", dest, "attempt", n)
			return Outcome{}, true
		}
		if !IsExist(err) {
			return it.fail(KindNameUnavailable, err, "failed to claim file name %s", filepath.Base(dest)), false
		}
	}

	return it.fail(KindNameUnavailable, nil, "no free name for %s after %d attempts", it.base+it.ext, u.maxClaims), false
}

// archive writes a timestamped copy of the staged file next to the target.
func (u *Uploader) archive(ctx context.Context, it *item) (Outcome, bool) {
	var lastErr error
	for range historyAttempts {
		suffix, err := u.randomHex(historySuffixBytes)
		if err != nil {
			return it.fail(KindHistoryCopyFailed, err, "failed to create history copy"), false
		}

		name := filename.History(it.base, it.ext, u.now(), suffix)
		dest := filepath.Join(it.spec.TargetDir, name)

		err = u.disk.CopyExclusive(ctx, it.sub.TempPath, dest)
		if err == nil {
			it.history = dest
			it.stage = StageArchived
			it.log.Debug("wrote history copy", "path", dest)
			return Outcome{}, true
		}
		if !IsExist(err) {
			return it.fail(KindHistoryCopyFailed, err, "failed to create history copy"), false
		}
		lastErr = err
	}
	return it.fail(KindHistoryCopyFailed, lastErr, "failed to create history copy"), false
}

// finalize moves the staged file onto the resolved path.
func (u *Uploader) finalize(ctx context.Context, it *item) (Outcome, bool) {
	if err := u.disk.Move(ctx, it.sub.TempPath, it.dest); err != nil {
		return it.fail(KindMoveFailed, err, "failed to move file to target location"), false
	}
	it.claimed = false
	it.stage = StageCommitted
	return Outcome{}, true
}

func (u *Uploader) success(ctx context.Context, it *item) Outcome {
	s := Success{
		FieldKey:    it.spec.FieldKey,
		FileName:    filepath.Base(it.dest),
		FullPath:    it.dest,
		HistoryPath: it.history,
		Size:        it.sub.Size,
		ContentType: it.sniffed,
	}

	if info, err := u.disk.Stat(ctx, it.dest); err == nil {
		s.Size = info.Size
	}
	if s.ContentType == "" {
		s.ContentType = filevalidator.BaseType(it.sub.DeclaredType)
	}
	if s.ContentType == "" {
		s.ContentType = u.types.TypeForExtension(it.ext)
	}

	if u.checksum != "" && u.checksum != ChecksumNone {
		sum, err := FileChecksum(ctx, u.disk, it.dest, u.checksum)
		if err != nil {
			it.log.Warn("checksum failed", "path", it.dest, "error", err)
		} else {
			s.Checksum = sum
		}
	}

	return succeeded(s)
}

// rollback removes what a failed item left in the target directory.
func (u *Uploader) rollback(ctx context.Context, it *item) {
	if it.claimed {
		if err := u.disk.Delete(ctx, it.dest); err != nil && !IsNotExist(err) {
			it.log.Warn("failed to remove placeholder", "path", it.dest, "error", err)
		}
		it.claimed = false
	}
	if it.history != "" {
		if err := u.disk.Delete(ctx, it.history); err != nil && !IsNotExist(err) {
			it.log.Warn("failed to remove history copy", "path", it.history, "error", err)
		}
		it.history = ""
	}
}

func (u *Uploader) removeTemp(ctx context.Context, it *item) {
	if it.sub.TempPath == "" {
		return
	}
	if err := u.disk.Delete(ctx, it.sub.TempPath); err != nil && !IsNotExist(err) {
		it.log.Warn("failed to remove temporary file", "path", it.sub.TempPath, "error", err)
	}
}

func (u *Uploader) report(it *item, out Outcome, elapsed time.Duration) {
	if f, ok := out.Failure(); ok {
		it.log.Warn("upload failed",
			"kind", f.Kind,
			"stage", f.Stage,
			"reason", f.Reason,
			"error", f.Message,
		)
	} else if s, _ := out.Success(); s.Uploaded {
		it.log.Info("upload committed",
			"path", s.FullPath,
			"size", s.Size,
			"history", s.HistoryPath,
			"elapsed", elapsed,
		)
	}

	for _, o := range u.observers {
		o.Observe(out, elapsed)
	}
}

func (u *Uploader) randomHex(n int) (string, error) {
	b := make([]byte, n)
	u.randomMu.Lock()
	_, err := io.ReadFull(u.random, b)
	u.randomMu.Unlock()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// isPathUnderDir reports whether path names an entry directly inside dir.
func isPathUnderDir(dir, path string) bool {
	return filepath.Dir(filepath.Clean(path)) == filepath.Clean(dir)
}

// dirLocks serializes name resolution and commit per target directory.
type dirLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *dirLocks) lock(dir string) func() {
	key := filepath.Clean(dir)

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
