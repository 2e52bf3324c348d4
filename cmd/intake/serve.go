package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/metrics"
	"github.com/gobeaver/intake/transport/httpform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		specPath string
		addr     string
		path     string
	)

	cmd := &cobra.Command{
		Use:   "serve --spec FILE",
		Short: "Accept multipart uploads over HTTP",
		Long: `Serve accepts multipart/form-data POST requests and runs every field
named in the spec file through its upload rules. Prometheus metrics are
exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := intake.LoadSpecs(specPath)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			collector := metrics.New(metrics.WithRegistry(reg))

			e, err := flags.load(cmd.ErrOrStderr(), intake.WithObserver(collector))
			if err != nil {
				return err
			}

			maxMemory, err := e.cfg.MaxMemoryBytes()
			if err != nil {
				return fmt.Errorf("invalid max memory: %w", err)
			}
			maxBody, err := e.cfg.MaxUploadBytes()
			if err != nil {
				return fmt.Errorf("invalid max upload size: %w", err)
			}

			stager := httpform.NewStager(e.fs, e.staging,
				httpform.WithMaxMemory(maxMemory),
				httpform.WithLogger(e.logger),
			)
			handler := httpform.NewHandler(e.uploader, stager, specs,
				httpform.WithMaxBodySize(maxBody),
				httpform.WithHandlerLogger(e.logger),
			)

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(path, handler, reg, e.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listen(runContext(cmd), srv, e.logger)
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "YAML spec file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&path, "path", "/upload", "Upload endpoint path")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func newRouter(uploadPath string, upload http.Handler, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodPost, uploadPath, upload)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// listen serves until ctx is done, then shuts down gracefully.
func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
