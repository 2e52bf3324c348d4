package intake

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gobeaver/intake/filevalidator"
)

// Option configures an Uploader
type Option func(*Uploader)

// Observer is notified once per finished item.
type Observer interface {
	Observe(o Outcome, elapsed time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(o Outcome, elapsed time.Duration)

// Observe calls f(o, elapsed).
func (f ObserverFunc) Observe(o Outcome, elapsed time.Duration) {
	f(o, elapsed)
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithClock sets the time source used for history names.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
	}
}

// WithRandom sets the source of history name suffixes. The default is crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(u *Uploader) {
		if r != nil {
			u.random = r
		}
	}
}

// WithConcurrency runs up to n batch items at once. n <= 1 is sequential.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		u.concurrency = n
	}
}

// WithSniffer sets the content sniffer used for the type check.
func WithSniffer(s filevalidator.Sniffer) Option {
	return func(u *Uploader) {
		u.sniffer = s
	}
}

// WithoutSniffing disables the content type check.
func WithoutSniffing() Option {
	return func(u *Uploader) {
		u.sniffer = nil
	}
}

// WithTypeTable replaces the content type table.
func WithTypeTable(types filevalidator.TypeTable) Option {
	return func(u *Uploader) {
		if types != nil {
			u.types = types
		}
	}
}

// WithBlockedExtensions rejects the given extensions for every spec.
func WithBlockedExtensions(exts ...string) Option {
	return func(u *Uploader) {
		u.blocked = append(u.blocked, filevalidator.NormalizeExtensions(exts)...)
	}
}

// WithChecksum reports a checksum of every committed file.
func WithChecksum(algorithm ChecksumAlgorithm) Option {
	return func(u *Uploader) {
		u.checksum = algorithm
	}
}

// WithDirMode sets the permissions of created directories.
func WithDirMode(mode os.FileMode) Option {
	return func(u *Uploader) {
		u.dirMode = mode
	}
}

// WithMaxClaimAttempts bounds the number of names tried per item.
func WithMaxClaimAttempts(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.maxClaims = n
		}
	}
}

// WithTransliteration strips diacritics from names before sanitizing.
func WithTransliteration() Option {
	return func(u *Uploader) {
		u.transliterate = true
	}
}

// WithObserver registers an observer for finished items.
func WithObserver(o Observer) Option {
	return func(u *Uploader) {
		if o != nil {
			u.observers = append(u.observers, o)
		}
	}
}
