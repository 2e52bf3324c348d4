package intake

import (
	"context"
	"crypto/md5"  //nolint:gosec // MD5 used for checksum verification, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for checksum verification, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/cespare/xxhash/v2"
)

// NewHasher creates a new hash.Hash for the given algorithm.
// Returns an error if the algorithm is not supported.
func NewHasher(algorithm ChecksumAlgorithm) (hash.Hash, error) {
	switch algorithm {
	case ChecksumMD5:
		return md5.New(), nil //nolint:gosec // MD5 used for checksum verification, not security
	case ChecksumSHA1:
		return sha1.New(), nil //nolint:gosec // SHA1 used for checksum verification, not security
	case ChecksumSHA256:
		return sha256.New(), nil
	case ChecksumSHA512:
		return sha512.New(), nil
	case ChecksumCRC32:
		return crc32.NewIEEE(), nil
	case ChecksumXXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported checksum algorithm: %s", ErrNotSupported, algorithm)
	}
}

// CalculateChecksum reads from the reader and calculates the checksum using
// the specified algorithm. Returns the hex-encoded checksum string.
func CalculateChecksum(r io.Reader, algorithm ChecksumAlgorithm) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileChecksum hashes the file at path on disk, using the disk's own
// implementation when it has one.
func FileChecksum(ctx context.Context, disk Disk, path string, algorithm ChecksumAlgorithm) (string, error) {
	if cs, ok := disk.(CanChecksum); ok {
		return cs.Checksum(ctx, path, algorithm)
	}

	rc, err := disk.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return CalculateChecksum(rc, algorithm)
}

// VerifyChecksum reports whether the file at path hashes to expected.
func VerifyChecksum(ctx context.Context, disk Disk, path, expected string, algorithm ChecksumAlgorithm) (bool, error) {
	actual, err := FileChecksum(ctx, disk, path, algorithm)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}
