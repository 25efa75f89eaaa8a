// Package httpapi serves layout reconstruction over HTTP. Each conversion
// endpoint takes a multipart upload in the "file" field.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/mcp-pdf-layout/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

const (
	uploadField = "file"

	// multipart framing allowance on top of the file size limit
	formOverhead = 1 << 20
	memoryLimit  = 32 << 20
)

var errMissingFile = errors.New(`multipart field "file" is required`)

// Converter is the conversion surface the API needs
type Converter interface {
	ConvertEditable(data []byte) (*pdf.EditableResult, error)
	ExtractOverlay(data []byte) (*pdf.OverlayResult, error)
	ConvertMarkdown(data []byte) (*pdf.MarkdownResult, error)
	GetMaxFileSize() int64
}

// Handler routes conversion requests to a Converter
type Handler struct {
	converter Converter
	logger    *slog.Logger
	router    chi.Router
}

// NewHandler builds the router with request IDs, panic recovery and access
// logging
func NewHandler(converter Converter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{converter: converter, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Route("/ai", func(r chi.Router) {
		r.Post("/extract-pdf-structure", h.handleOverlay)
		r.Post("/editable-html", h.handleEditable)
		r.Post("/markdown", h.handleMarkdown)
	})

	h.router = r
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// NewServer wraps handler in an http.Server with conservative timeouts
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleOverlay(w http.ResponseWriter, r *http.Request) {
	data, ok := h.upload(w, r)
	if !ok {
		return
	}

	result, err := h.converter.ExtractOverlay(data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEditable(w http.ResponseWriter, r *http.Request) {
	data, ok := h.upload(w, r)
	if !ok {
		return
	}

	result, err := h.converter.ConvertEditable(data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	data, ok := h.upload(w, r)
	if !ok {
		return
	}

	result, err := h.converter.ConvertMarkdown(data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// upload reads the "file" field. It writes the error response itself and
// reports false when the request cannot proceed.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := h.converter.GetMaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	data, err := readUpload(r, limit)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return data, true
}

func readUpload(r *http.Request, limit int64) ([]byte, error) {
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request body over %d bytes", pdf.ErrTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", errMissingFile, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, errMissingFile
	}
	defer file.Close()

	// one byte past the limit lets the validator report the overflow
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// statusFor maps conversion errors onto HTTP status codes
func statusFor(err error) int {
	var pdfErr *pdferrors.PDFError
	switch {
	case errors.Is(err, errMissingFile), errors.Is(err, pdf.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, pdf.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &pdfErr) &&
		(pdfErr.Type == pdferrors.ErrorTypeInvalidInput || pdfErr.Type == pdferrors.ErrorTypeDocumentParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("conversion failed", "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		h.logger.Debug("rejected upload", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
