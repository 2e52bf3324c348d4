package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobeaver/intake"
	_ "github.com/gobeaver/intake/driver/local"
	_ "github.com/gobeaver/intake/driver/memory"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	prefix    string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Validate uploaded files and commit them into target directories",
		Long: `Intake checks uploaded files against per-field rules, gives them safe
unique names and moves them into their target directories.

Configuration is read from the environment (BEAVER_INTAKE_*). Upload
rules are read from a YAML spec file.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.prefix, "env-prefix", "BEAVER_", "Prefix of configuration environment variables")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides INTAKE_LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format (text, json); overrides INTAKE_LOG_FORMAT")

	cmd.AddCommand(
		ingestCmd(flags),
		serveCmd(flags),
		specsCmd(),
	)

	return cmd
}

// env holds what every command builds from configuration.
type env struct {
	cfg      *intake.Config
	logger   *slog.Logger
	uploader *intake.Uploader
	fs       afero.Fs
	staging  string
}

func (g *globalFlags) load(errOut io.Writer, opts ...intake.Option) (*env, error) {
	cfg, err := intake.WithPrefix(g.prefix).Config()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}

	logger, err := newLogger(errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	u, err := intake.New(cfg, append([]intake.Option{intake.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, uploader: u, fs: stagingFs(u.Disk())}
	if e.staging, err = prepareStaging(e.fs, cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// newLogger renders slog records through charmbracelet/log, or as JSON.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", "text":
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		return slog.New(log.NewWithOptions(w, log.Options{
			Level:           lvl,
			Prefix:          "intake",
			ReportTimestamp: true,
		})), nil
	case "json":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

type fsProvider interface {
	Fs() afero.Fs
}

// stagingFs returns the filesystem staged files must live on for the disk
// to move them.
func stagingFs(disk intake.Disk) afero.Fs {
	if p, ok := disk.(fsProvider); ok {
		return p.Fs()
	}
	return afero.NewOsFs()
}

// prepareStaging creates the staging directory. With a jailed root and no
// explicit staging dir, staging happens inside the root.
func prepareStaging(fs afero.Fs, cfg *intake.Config) (string, error) {
	dir := cfg.StagingPath()
	if cfg.StagingDir == "" && cfg.Root != "" {
		root, err := filepath.Abs(cfg.Root)
		if err != nil {
			return "", err
		}
		dir = filepath.Join(root, ".intake-staging")
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}
