package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/gobeaver/intake/transport/httpform"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func ingestCmd(flags *globalFlags) *cobra.Command {
	var (
		specPath string
		files    []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest --spec FILE --file FIELD=PATH...",
		Short: "Upload local files according to a spec file",
		Long: `Ingest copies each local file into the staging directory and runs it
through the upload spec for its field. The original files are left alone.

Example:
  intake ingest --spec uploads.yaml --file avatar=./me.png --file cv=./cv.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := intake.LoadSpecs(specPath)
			if err != nil {
				return err
			}
			pairs, err := parseFileFlags(files)
			if err != nil {
				return err
			}

			e, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			subs, err := stageFiles(e.fs, e.staging, pairs)
			if err != nil {
				return err
			}

			batch := e.uploader.UploadBatch(runContext(cmd), specs, subs)
			cleanupStaged(e.fs, subs)

			if asJSON {
				err = writeJSON(cmd.OutOrStdout(), batch)
			} else {
				writeSummary(cmd.OutOrStdout(), batch)
			}
			if err != nil {
				return err
			}
			if batch.Failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", batch.Failed, len(batch.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "YAML spec file")
	cmd.Flags().StringArrayVar(&files, "file", nil, "FIELD=PATH of a file to upload (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// parseFileFlags splits FIELD=PATH pairs.
func parseFileFlags(values []string) (map[string]string, error) {
	pairs := make(map[string]string, len(values))
	for _, v := range values {
		field, path, ok := strings.Cut(v, "=")
		if !ok || field == "" || path == "" {
			return nil, fmt.Errorf("invalid --file %q: want FIELD=PATH", v)
		}
		if _, dup := pairs[field]; dup {
			return nil, fmt.Errorf("duplicate --file for field %q", field)
		}
		pairs[field] = path
	}
	return pairs, nil
}

// stageFiles copies local files into the staging directory on fs.
func stageFiles(fs afero.Fs, dir string, pairs map[string]string) (intake.Submissions, error) {
	subs := make(intake.Submissions, len(pairs))
	for field, path := range pairs {
		sub, err := stageFile(fs, dir, path)
		if err != nil {
			cleanupStaged(fs, subs)
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		subs[field] = sub
	}
	return subs, nil
}

func stageFile(fs afero.Fs, dir, path string) (intake.Submission, error) {
	src, err := os.Open(path)
	if err != nil {
		return intake.Submission{}, err
	}
	defer src.Close()

	dst, err := afero.TempFile(fs, dir, "ingest-")
	if err != nil {
		return intake.Submission{}, err
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(dst.Name())
		return intake.Submission{}, err
	}

	return intake.Submission{
		OriginalName: filepath.Base(path),
		TempPath:     dst.Name(),
		Size:         n,
		Status:       filevalidator.StatusOK,
	}, nil
}

func cleanupStaged(fs afero.Fs, subs intake.Submissions) {
	for _, sub := range subs {
		if err := fs.Remove(sub.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: failed to remove %s: %v\n", sub.TempPath, err)
		}
	}
}

func writeSummary(w io.Writer, batch intake.BatchResult) {
	for _, o := range batch.Outcomes {
		if f, ok := o.Failure(); ok {
			fmt.Fprintf(w, "✗ %s: %s [%s]\n", f.FieldKey, f.Message, f.Kind)
			continue
		}
		s, _ := o.Success()
		if !s.Uploaded {
			fmt.Fprintf(w, "- %s: not uploaded\n", s.FieldKey)
			continue
		}
		fmt.Fprintf(w, "✓ %s: %s (%s)\n", s.FieldKey, s.FullPath, humanize.IBytes(uint64(s.Size)))
		if s.HistoryPath != "" {
			fmt.Fprintf(w, "  history: %s\n", s.HistoryPath)
		}
	}
	fmt.Fprintf(w, "%d uploaded, %d failed\n", countUploaded(batch), batch.Failed)
}

func countUploaded(batch intake.BatchResult) int {
	n := 0
	for _, o := range batch.Outcomes {
		if o.Uploaded() {
			n++
		}
	}
	return n
}

func writeJSON(w io.Writer, batch intake.BatchResult) error {
	resp := httpform.Response{Failed: batch.Failed, Results: make([]httpform.Result, len(batch.Outcomes))}
	for i, o := range batch.Outcomes {
		resp.Results[i] = httpform.NewResult(o)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// runContext is used when a command runs without one.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
