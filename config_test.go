package intake

import (
	"os"
	"strings"
	"testing"
)

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			want: Config{
				Driver:           "local",
				SniffContent:     true,
				Checksum:         "none",
				Concurrency:      1,
				MaxClaimAttempts: 1000,
				DirMode:          "0755",
				MaxMemory:        "32M",
				MaxUploadSize:    "64M",
				LogLevel:         "info",
				LogFormat:        "text",
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"BEAVER_INTAKE_DRIVER":             "memory",
				"BEAVER_INTAKE_ROOT":               "/srv/uploads",
				"BEAVER_INTAKE_SNIFF_CONTENT":      "false",
				"BEAVER_INTAKE_BLOCKED_EXTENSIONS": ".php, .exe",
				"BEAVER_INTAKE_TRANSLITERATE":      "true",
				"BEAVER_INTAKE_CHECKSUM":           "sha256",
				"BEAVER_INTAKE_CONCURRENCY":        "8",
				"BEAVER_INTAKE_MAX_CLAIM_ATTEMPTS": "50",
				"BEAVER_INTAKE_DIR_MODE":           "0700",
				"BEAVER_INTAKE_STAGING_DIR":        "/var/tmp/intake",
				"BEAVER_INTAKE_MAX_MEMORY":         "8M",
				"BEAVER_INTAKE_MAX_UPLOAD_SIZE":    "1G",
				"BEAVER_INTAKE_LOG_LEVEL":          "debug",
				"BEAVER_INTAKE_LOG_FORMAT":         "json",
			},
			want: Config{
				Driver:            "memory",
				Root:              "/srv/uploads",
				SniffContent:      false,
				BlockedExtensions: ".php, .exe",
				Transliterate:     true,
				Checksum:          "sha256",
				Concurrency:       8,
				MaxClaimAttempts:  50,
				DirMode:           "0700",
				StagingDir:        "/var/tmp/intake",
				MaxMemory:         "8M",
				MaxUploadSize:     "1G",
				LogLevel:          "debug",
				LogFormat:         "json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := GetConfig()
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("GetConfig() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := Config{Driver: "local", DirMode: "0755", Checksum: "none"}

	tests := []struct {
		name    string
		mod     func(*Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid", mod: func(*Config) {}},
		{name: "empty driver", mod: func(c *Config) { c.Driver = "" }, wantErr: true, errMsg: "driver is required"},
		{name: "bad dir mode", mod: func(c *Config) { c.DirMode = "rwx" }, wantErr: true, errMsg: "invalid dir mode"},
		{name: "negative concurrency", mod: func(c *Config) { c.Concurrency = -1 }, wantErr: true, errMsg: "concurrency"},
		{name: "negative claims", mod: func(c *Config) { c.MaxClaimAttempts = -1 }, wantErr: true, errMsg: "claim attempts"},
		{name: "unknown checksum", mod: func(c *Config) { c.Checksum = "md4" }, wantErr: true, errMsg: "unsupported checksum"},
		{name: "known checksum", mod: func(c *Config) { c.Checksum = "xxhash" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mod(&cfg)
			err := validateConfig(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateConfig() error = %v, want error containing %v", err, tt.errMsg)
			}
		})
	}

	if err := validateConfig(nil); err == nil {
		t.Error("validateConfig(nil) should fail")
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := Config{
		DirMode:           "0750",
		MaxMemory:         "2M",
		MaxUploadSize:     "1G",
		BlockedExtensions: " .php,, exe ,",
	}

	mode, err := cfg.DirPerm()
	if err != nil || mode != 0o750 {
		t.Errorf("DirPerm() = %v, %v", mode, err)
	}
	if n, err := cfg.MaxMemoryBytes(); err != nil || n != 2<<20 {
		t.Errorf("MaxMemoryBytes() = %d, %v", n, err)
	}
	if n, err := cfg.MaxUploadBytes(); err != nil || n != 1<<30 {
		t.Errorf("MaxUploadBytes() = %d, %v", n, err)
	}

	got := cfg.BlockedExtensionList()
	if strings.Join(got, "|") != ".php|exe" {
		t.Errorf("BlockedExtensionList() = %q", got)
	}

	if cfg.StagingPath() != os.TempDir() {
		t.Errorf("StagingPath() = %s, want %s", cfg.StagingPath(), os.TempDir())
	}
	cfg.StagingDir = "/stage"
	if cfg.StagingPath() != "/stage" {
		t.Errorf("StagingPath() = %s", cfg.StagingPath())
	}

	empty := Config{}
	if mode, _ := empty.DirPerm(); mode != DefaultDirMode {
		t.Errorf("DirPerm() default = %v", mode)
	}
}

func TestDrivers(t *testing.T) {
	RegisterDriver("test-nop", func(*Config) (Disk, error) { return nil, nil })
	found := false
	for _, name := range Drivers() {
		if name == "test-nop" {
			found = true
		}
	}
	if !found {
		t.Errorf("Drivers() = %v, missing test-nop", Drivers())
	}

	if _, err := CreateDriver(&Config{Driver: "nope"}); err == nil {
		t.Error("CreateDriver(nope) should fail")
	}
}
