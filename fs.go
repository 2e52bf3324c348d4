package intake

import (
	"context"
	"io"
	"os"
	"time"
)

// FileInfo represents file/directory metadata
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// ============================================================================
// Core Interfaces (Interface Segregation)
// ============================================================================

// DiskReader provides read-only access to the upload filesystem.
type DiskReader interface {
	// DirExists checks if a directory exists at path.
	DirExists(ctx context.Context, path string) (bool, error)

	// Stat returns file/directory metadata.
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Open returns a stream for reading file content.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// DiskWriter provides the write operations the pipeline relies on. Every
// operation that creates a name must fail with ErrExist rather than replace
// an existing entry, except Move.
type DiskWriter interface {
	// CreateDir creates a directory and any missing parents with perm.
	CreateDir(ctx context.Context, path string, perm os.FileMode) error

	// Writable reports, by returning nil, that files can be created in dir.
	Writable(ctx context.Context, dir string) error

	// CreateExclusive atomically creates an empty file at path.
	// It fails with ErrExist if anything is already there.
	CreateExclusive(ctx context.Context, path string) error

	// CopyExclusive copies src into a newly created file at dst.
	// It fails with ErrExist if dst is already there.
	CopyExclusive(ctx context.Context, src, dst string) error

	// Move renames src onto dst, replacing dst. Readers of dst never see
	// partially written content.
	Move(ctx context.Context, src, dst string) error

	// Delete removes a file.
	Delete(ctx context.Context, path string) error
}

// Disk provides full access to the upload filesystem.
type Disk interface {
	DiskReader
	DiskWriter
}

// ============================================================================
// Optional Capability Interfaces
// ============================================================================

// ChecksumAlgorithm represents a supported checksum algorithm
type ChecksumAlgorithm string

const (
	// ChecksumNone disables checksum calculation
	ChecksumNone ChecksumAlgorithm = "none"
	// ChecksumMD5 is the MD5 hash algorithm (128-bit, fast but not cryptographically secure)
	ChecksumMD5 ChecksumAlgorithm = "md5"
	// ChecksumSHA1 is the SHA-1 hash algorithm (160-bit, legacy)
	ChecksumSHA1 ChecksumAlgorithm = "sha1"
	// ChecksumSHA256 is the SHA-256 hash algorithm (256-bit, recommended)
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	// ChecksumSHA512 is the SHA-512 hash algorithm (512-bit)
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
	// ChecksumCRC32 is the CRC32 checksum (32-bit, fastest, for integrity only)
	ChecksumCRC32 ChecksumAlgorithm = "crc32"
	// ChecksumXXHash is the xxHash algorithm (64-bit, extremely fast)
	ChecksumXXHash ChecksumAlgorithm = "xxhash"
)

// CanChecksum indicates the disk can hash a file itself. The pipeline falls
// back to Open and CalculateChecksum otherwise.
//
//	if cs, ok := disk.(CanChecksum); ok {
//	    sum, err := cs.Checksum(ctx, path, ChecksumSHA256)
//	}
type CanChecksum interface {
	Checksum(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error)
}
