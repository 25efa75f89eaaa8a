package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf/pdftest"
)

func newTestHandler(t *testing.T, maxFileSize int64) *Handler {
	t.Helper()
	svc, err := pdf.NewService(pdf.Options{
		MaxFileSize: maxFileSize,
		Directory:   t.TempDir(),
		Layout:      layout.DefaultConfig(),
	})
	require.NoError(t, err)
	return NewHandler(svc, nil)
}

func uploadRequest(t *testing.T, path, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "upload.pdf")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestExtractPDFStructure(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	rec := serve(h, uploadRequest(t, "/ai/extract-pdf-structure", "file", pdftest.Resume()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Pages []layout.OverlayPage `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Pages, 1)
	assert.Equal(t, 612.0, body.Pages[0].Width)
	require.Len(t, body.Pages[0].Items, 5)
	assert.Equal(t, "Jane Doe", body.Pages[0].Items[0].Text)
	assert.Equal(t, 24.0, body.Pages[0].Items[0].FontSize)
}

func TestEditableHTML(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	rec := serve(h, uploadRequest(t, "/ai/editable-html", "file", pdftest.Resume()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "html")
	assert.Contains(t, body, "pages")
	assert.Contains(t, body, "warnings")
	assert.NotContains(t, body, "path")

	var html string
	require.NoError(t, json.Unmarshal(body["html"], &html))
	assert.True(t, strings.HasPrefix(html, "<div class='pdf-document'>"))
	assert.Contains(t, html, "<ul><li>Built APIs</li><li>Reduced latency</li></ul>")
}

func TestMarkdown(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	rec := serve(h, uploadRequest(t, "/ai/markdown", "file", pdftest.Resume()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body pdf.MarkdownResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Markdown, "Jane Doe")
	assert.Contains(t, body.Markdown, "- Built APIs")
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		maxSize    int64
		wantStatus int
	}{
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/ai/editable-html", "file", nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong field name",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/ai/editable-html", "document", pdftest.Resume())
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/ai/markdown", strings.NewReader("%PDF-1.4"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "file over the limit",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/ai/extract-pdf-structure", "file", pdftest.Resume())
			},
			maxSize:    256,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name: "not a pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/ai/editable-html", "file", []byte("<html></html>"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unparseable pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/ai/markdown", "file", []byte("%PDF-1.4\ntruncated"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxSize := tt.maxSize
			if maxSize == 0 {
				maxSize = 1 << 20
			}
			h := newTestHandler(t, maxSize)

			rec := serve(h, tt.req(t))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/ai/editable-html", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing field", errMissingFile, http.StatusBadRequest},
		{"empty", pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, pdf.ErrEmpty), http.StatusBadRequest},
		{"too large", pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, pdf.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{"invalid input", pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "missing header"), http.StatusUnprocessableEntity},
		{"parse failure", pdferrors.NewDocumentParseError(errors.New("bad xref")), http.StatusUnprocessableEntity},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

type failingConverter struct{}

func (failingConverter) ConvertEditable([]byte) (*pdf.EditableResult, error) {
	return nil, errors.New("boom")
}

func (failingConverter) ExtractOverlay([]byte) (*pdf.OverlayResult, error) {
	panic("unexpected")
}

func (failingConverter) ConvertMarkdown([]byte) (*pdf.MarkdownResult, error) {
	return nil, errors.New("boom")
}

func (failingConverter) GetMaxFileSize() int64 { return 1 << 20 }

func TestInternalErrors(t *testing.T) {
	h := NewHandler(failingConverter{}, nil)

	rec := serve(h, uploadRequest(t, "/ai/editable-html", "file", pdftest.Resume()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())

	rec = serve(h, uploadRequest(t, "/ai/extract-pdf-structure", "file", pdftest.Resume()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "panics are recovered")
}

func TestNewServer(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler())
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)
	assert.NotZero(t, srv.WriteTimeout)
}
