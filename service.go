package intake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultUploader *Uploader
	defaultOnce     sync.Once
	defaultErr      error
)

// Builder provides a way to create Uploader instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Uploader instance using the builder's prefix
func (b *Builder) Init(opts ...Option) error {
	cfg, err := b.Config()
	if err != nil {
		return err
	}
	return Init(cfg, opts...)
}

// New creates a new Uploader instance using the builder's prefix
func (b *Builder) New(opts ...Option) (*Uploader, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Config loads the configuration using the builder's prefix
func (b *Builder) Config() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init initializes the global uploader. Without a config it is loaded from
// the environment.
func Init(cfg *Config, opts ...Option) error {
	defaultOnce.Do(func() {
		if cfg == nil {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}
		defaultUploader, defaultErr = New(cfg, opts...)
	})

	return defaultErr
}

// New creates a new Uploader with given config. Options are applied after
// the ones derived from cfg.
func New(cfg *Config, opts ...Option) (*Uploader, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	disk, err := CreateDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	return NewUploader(disk, append(configOptions(cfg), opts...)...), nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.Driver == "" {
		return errors.New("driver is required")
	}
	if _, err := cfg.DirPerm(); err != nil {
		return err
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative: %d", cfg.Concurrency)
	}
	if cfg.MaxClaimAttempts < 0 {
		return fmt.Errorf("max claim attempts must not be negative: %d", cfg.MaxClaimAttempts)
	}
	if alg := ChecksumAlgorithm(cfg.Checksum); alg != "" && alg != ChecksumNone {
		if _, err := NewHasher(alg); err != nil {
			return err
		}
	}
	return nil
}

// configOptions translates a validated config into options
func configOptions(cfg *Config) []Option {
	var opts []Option

	if !cfg.SniffContent {
		opts = append(opts, WithoutSniffing())
	}
	if blocked := cfg.BlockedExtensionList(); len(blocked) > 0 {
		opts = append(opts, WithBlockedExtensions(blocked...))
	}
	if cfg.Transliterate {
		opts = append(opts, WithTransliteration())
	}
	if cfg.Checksum != "" {
		opts = append(opts, WithChecksum(ChecksumAlgorithm(cfg.Checksum)))
	}
	if cfg.Concurrency > 1 {
		opts = append(opts, WithConcurrency(cfg.Concurrency))
	}
	if cfg.MaxClaimAttempts > 0 {
		opts = append(opts, WithMaxClaimAttempts(cfg.MaxClaimAttempts))
	}
	if mode, err := cfg.DirPerm(); err == nil {
		opts = append(opts, WithDirMode(mode))
	}

	return opts
}

// Default returns the global instance, initializing if needed with error handling
func Default() (*Uploader, error) {
	if defaultUploader == nil {
		if err := Init(nil); err != nil {
			return nil, err
		}
	}
	return defaultUploader, nil
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultUploader = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
