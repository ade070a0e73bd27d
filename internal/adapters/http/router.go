package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/codevibe-de/offer-assistant/internal/config"
	"github.com/codevibe-de/offer-assistant/internal/core/domain"
	"github.com/codevibe-de/offer-assistant/internal/core/ports"
	"github.com/codevibe-de/offer-assistant/internal/observability/metrics"
)

type Router struct {
	cfg       config.Config
	extractor ports.InquiryExtractor
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(cfg config.Config, extractor ports.InquiryExtractor, m *metrics.HTTPServerMetrics) *Router {
	return &Router{
		cfg:       cfg,
		extractor: extractor,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/extractions", rt.extract)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = corsMiddleware(rt.cfg.CORSAllowedOrigin, handler)
	handler = accessLogMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extract accepts one uploaded email file (multipart field "file") and runs
// the extraction pipeline to completion.
func (rt *Router) extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusBadRequest, "uploaded file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read uploaded file failed")
		return
	}

	filename := strings.TrimSpace(fileHeader.Filename)
	result, err := rt.extractor.ExtractFromUpload(r.Context(), filename, data)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), publicErrorDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// publicErrorDetail keeps operator detail in logs while the response carries
// a stable, non-leaky message per error kind.
func publicErrorDetail(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return "only .eml and .msg files are supported"
	case domain.IsKind(err, domain.ErrEmptyBody):
		return "could not extract text body from file"
	case domain.IsKind(err, domain.ErrDecoderUnavailable):
		return "msg decoding is not available"
	case domain.IsKind(err, domain.ErrMalformedContainer):
		return "uploaded file could not be parsed"
	case domain.IsKind(err, domain.ErrModelOutputInvalid):
		return "extraction model returned invalid JSON"
	case domain.IsKind(err, domain.ErrExtractionService):
		return "extraction service is unavailable"
	default:
		return "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}
