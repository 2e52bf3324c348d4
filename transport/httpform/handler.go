package httpform

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gobeaver/intake"
)

// Handler accepts multipart uploads for a fixed set of specs and responds
// with one JSON result per spec.
type Handler struct {
	uploader *intake.Uploader
	stager   *Stager
	specs    []intake.Spec
	maxBody  int64
	logger   *slog.Logger
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithMaxBodySize limits the request body. Larger requests turn into
// size_exceeded transport errors for every spec.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBody = n
	}
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(u *intake.Uploader, stager *Stager, specs []intake.Spec, opts ...HandlerOption) *Handler {
	h := &Handler{
		uploader: u,
		stager:   stager,
		specs:    specs,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the JSON form of one outcome.
type Result struct {
	Field       string `json:"field"`
	Uploaded    bool   `json:"uploaded"`
	FileName    string `json:"file_name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Error       string `json:"error,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Response is the JSON body written by Handler.
type Response struct {
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// NewResult converts an outcome. Full paths are not exposed.
func NewResult(o intake.Outcome) Result {
	r := Result{Field: o.FieldKey(), Uploaded: o.Uploaded()}
	if f, ok := o.Failure(); ok {
		r.Error = f.Message
		r.Kind = string(f.Kind)
		r.Reason = string(f.Reason)
		return r
	}
	if s, ok := o.Success(); ok {
		r.FileName = s.FileName
		r.Size = s.Size
		r.Checksum = s.Checksum
		r.ContentType = s.ContentType
	}
	return r
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	fields := make([]string, len(h.specs))
	for i, spec := range h.specs {
		fields[i] = spec.FieldKey
	}

	subs, err := h.stager.Stage(r, fields...)
	if err != nil {
		h.logger.Warn("failed to parse upload form", "error", err)
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	defer h.stager.Cleanup(subs)

	batch := h.uploader.UploadBatch(r.Context(), h.specs, subs)

	resp := Response{Failed: batch.Failed, Results: make([]Result, len(batch.Outcomes))}
	for i, o := range batch.Outcomes {
		resp.Results[i] = NewResult(o)
	}

	status := http.StatusOK
	if batch.Failed > 0 {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
