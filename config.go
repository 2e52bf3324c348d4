package intake

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
	"github.com/gobeaver/intake/filevalidator"
)

type Config struct {
	// Disk driver to use (local, memory)
	Driver string `env:"INTAKE_DRIVER,default:local"`

	// Root confines the local driver to a directory tree. Empty means unrestricted.
	Root string `env:"INTAKE_ROOT"`

	// Content checks
	SniffContent      bool   `env:"INTAKE_SNIFF_CONTENT,default:true"`
	BlockedExtensions string `env:"INTAKE_BLOCKED_EXTENSIONS"` // comma-separated
	Transliterate     bool   `env:"INTAKE_TRANSLITERATE,default:false"`

	// Checksum algorithm reported for committed files (none, xxhash, sha256, ...)
	Checksum string `env:"INTAKE_CHECKSUM,default:none"`

	// Pipeline tuning
	Concurrency      int    `env:"INTAKE_CONCURRENCY,default:1"`
	MaxClaimAttempts int    `env:"INTAKE_MAX_CLAIM_ATTEMPTS,default:1000"`
	DirMode          string `env:"INTAKE_DIR_MODE,default:0755"` // octal

	// Transport staging
	StagingDir    string `env:"INTAKE_STAGING_DIR"` // defaults to os.TempDir()
	MaxMemory     string `env:"INTAKE_MAX_MEMORY,default:32M"`
	MaxUploadSize string `env:"INTAKE_MAX_UPLOAD_SIZE,default:64M"`

	// Logging
	LogLevel  string `env:"INTAKE_LOG_LEVEL,default:info"`
	LogFormat string `env:"INTAKE_LOG_FORMAT,default:text"` // text or json
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DirPerm parses DirMode.
func (c *Config) DirPerm() (os.FileMode, error) {
	if c.DirMode == "" {
		return DefaultDirMode, nil
	}
	mode, err := strconv.ParseUint(c.DirMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid dir mode %q: %w", c.DirMode, err)
	}
	return os.FileMode(mode).Perm(), nil
}

// MaxMemoryBytes parses MaxMemory.
func (c *Config) MaxMemoryBytes() (int64, error) {
	return filevalidator.ParseSize(c.MaxMemory)
}

// MaxUploadBytes parses MaxUploadSize.
func (c *Config) MaxUploadBytes() (int64, error) {
	return filevalidator.ParseSize(c.MaxUploadSize)
}

// StagingPath returns StagingDir or the system temp directory.
func (c *Config) StagingPath() string {
	if c.StagingDir != "" {
		return c.StagingDir
	}
	return os.TempDir()
}

// BlockedExtensionList splits BlockedExtensions.
func (c *Config) BlockedExtensionList() []string {
	return splitList(c.BlockedExtensions)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
