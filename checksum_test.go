package intake

import (
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		alg  ChecksumAlgorithm
		want string
	}{
		{ChecksumMD5, "5d41402abc4b2a76b9719d911017c592"},
		{ChecksumSHA1, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{ChecksumSHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{ChecksumCRC32, "3610a686"},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			got, err := CalculateChecksum(strings.NewReader("hello"), tt.alg)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculateChecksum() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := NewHasher(ChecksumNone); err == nil {
		t.Error("NewHasher(none) should fail")
	}
}

func TestChecksumXXHash(t *testing.T) {
	sum, err := CalculateChecksum(strings.NewReader("payload"), ChecksumXXHash)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if len(sum) != 16 {
		t.Errorf("xxhash checksum length = %d, want 16", len(sum))
	}
}
