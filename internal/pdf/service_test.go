package pdf

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf/pdftest"
)

func newTestService(t *testing.T, dir string, sanitize bool) *Service {
	t.Helper()
	s, err := NewService(Options{
		MaxFileSize: 10 * 1024 * 1024,
		Directory:   dir,
		Layout:      layout.DefaultConfig(),
		Sanitize:    sanitize,
	})
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	_, err := NewService(Options{MaxFileSize: 1024, Directory: "", Layout: layout.DefaultConfig()})
	assert.Error(t, err, "an empty directory is rejected")

	bad := layout.DefaultConfig()
	bad.ParagraphGap = 0
	_, err = NewService(Options{MaxFileSize: 1024, Directory: t.TempDir(), Layout: bad})
	assert.Error(t, err, "an invalid layout config is rejected")

	s := newTestService(t, t.TempDir(), false)
	assert.Equal(t, int64(10*1024*1024), s.GetMaxFileSize())
	assert.Equal(t, layout.DefaultConfig(), s.LayoutConfig())
}

func TestService_ConvertEditable(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)

	result, err := s.ConvertEditable(pdftest.Resume())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Warnings)
	require.Len(t, result.Pages, 1)
	assert.Equal(t,
		"<div class='pdf-document'><div class='pdf-page' data-page='1'>"+
			`<h2 style="font-size:32px;margin:4px 0;"><strong>Jane Doe</strong></h2>`+
			`<p style="font-size:16px;margin:4px 0;">Engineer with ten years of backend work.</p>`+
			"<ul><li>Built APIs</li><li>Reduced latency</li></ul>"+
			"</div></div>",
		result.HTML)

	kinds := []layout.BlockKind{}
	for _, b := range result.Pages[0].Blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []layout.BlockKind{layout.BlockHeading, layout.BlockBody, layout.BlockBulletList}, kinds)
}

func TestService_ConvertEditable_ImageOnlyPage(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)
	data := pdftest.Build(pdftest.Page{
		Content: "q 100 0 0 100 72 600 cm /Im1 Do Q\n",
		Images:  [][]byte{pdftest.JPEG(t, 120)},
	})

	result, err := s.ConvertEditable(data)
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.False(t, result.Pages[0].HasText)
	assert.Contains(t, result.HTML, `alt="img-1-0" style="max-width:100%;"`)
	assert.Contains(t, result.HTML, "data:image/jpeg;base64,")
	assert.NotContains(t, result.HTML, "<p")
	assert.NotContains(t, result.HTML, "<h2")
}

func TestService_ConvertEditable_ImagesFollowText(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)
	data := pdftest.Build(pdftest.Page{
		Content: pdftest.Show("F1", 12, 72, 700, "Portfolio") + pdftest.TwoImages,
		Images:  [][]byte{pdftest.JPEG(t, 200), pdftest.JPEG(t, 20)},
	})

	result, err := s.ConvertEditable(data)
	require.NoError(t, err)

	text := strings.Index(result.HTML, "Portfolio")
	first := strings.Index(result.HTML, `alt="pdf-image-1-0"`)
	second := strings.Index(result.HTML, `alt="pdf-image-1-1"`)
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, text, first)
	assert.Less(t, first, second)
}

func TestService_ConvertEditable_Sanitized(t *testing.T) {
	s := newTestService(t, t.TempDir(), true)

	result, err := s.ConvertEditable(pdftest.Resume())
	require.NoError(t, err)

	assert.Contains(t, result.HTML, `class="pdf-page"`)
	assert.Contains(t, result.HTML, `data-page="1"`)
	assert.Contains(t, result.HTML, "<strong>Jane Doe</strong>")
	assert.Contains(t, result.HTML, "<li>Built APIs</li>")
}

func TestService_ExtractOverlay(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)

	result, err := s.ExtractOverlay(pdftest.Resume())
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	items := result.Pages[0].Items
	require.Len(t, items, 5)
	assert.Equal(t, "Jane Doe", items[0].Text)
	assert.Equal(t, "- Built APIs", items[3].Text)
	assert.Equal(t, "Courier-Bold", items[0].FontFamily)
	assert.InDelta(t, 68.0, items[0].Y, 0.001)
	assert.InDelta(t, 24.0, items[0].Height, 0.001)
}

func TestService_ConvertMarkdown(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)

	result, err := s.ConvertMarkdown(pdftest.Resume())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Markdown, "## "), result.Markdown)
	assert.Contains(t, result.Markdown, "Jane Doe")
	assert.Contains(t, result.Markdown, "Engineer with ten years of backend work.")
	assert.Contains(t, result.Markdown, "- Built APIs")
	assert.Contains(t, result.Markdown, "- Reduced latency")
}

func TestService_Errors(t *testing.T) {
	s := newTestService(t, t.TempDir(), false)

	_, err := s.ConvertEditable(nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = s.ExtractOverlay([]byte("hello"))
	var pdfErr *pdferrors.PDFError
	require.True(t, errors.As(err, &pdfErr))
	assert.Equal(t, pdferrors.ErrorTypeInvalidInput, pdfErr.Type)

	_, err = s.ConvertMarkdown([]byte("%PDF-1.4\ntruncated"))
	assert.True(t, pdferrors.IsDocumentParseError(err))

	small, err := NewService(Options{MaxFileSize: 16, Directory: t.TempDir(), Layout: layout.DefaultConfig()})
	require.NoError(t, err)
	_, err = small.ConvertEditable(pdftest.Resume())
	assert.True(t, errors.Is(err, ErrTooLarge))
	_, err = small.ExtractOverlay(pdftest.Resume())
	assert.True(t, errors.Is(err, ErrTooLarge))
	_, err = small.ConvertMarkdown(pdftest.Resume())
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestService_FileVariants(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "resume.pdf", pdftest.Resume())
	outside := pdftest.WriteFile(t, t.TempDir(), "other.pdf", pdftest.Resume())

	s := newTestService(t, dir, false)

	editable, err := s.PDFEditableFile(PDFEditableFileRequest{Path: "resume.pdf"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resume.pdf"), editable.Path)
	assert.Contains(t, editable.HTML, "Jane Doe")

	overlay, err := s.PDFOverlayFile(PDFOverlayFileRequest{Path: filepath.Join(dir, "resume.pdf")})
	require.NoError(t, err)
	assert.Len(t, overlay.Pages, 1)

	md, err := s.PDFMarkdownFile(PDFMarkdownFileRequest{Path: "resume.pdf"})
	require.NoError(t, err)
	assert.Contains(t, md.Markdown, "Built APIs")

	valid, err := s.PDFValidateFile(PDFValidateFileRequest{Path: "resume.pdf"})
	require.NoError(t, err)
	assert.True(t, valid.Valid)
	assert.Equal(t, 1, valid.Pages)

	_, err = s.PDFEditableFile(PDFEditableFileRequest{Path: outside})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")

	_, err = s.PDFOverlayFile(PDFOverlayFileRequest{Path: "missing.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestService_PDFServerInfo(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "resume.pdf", pdftest.Resume())
	pdftest.WriteFile(t, dir, "notes.txt", []byte("not a pdf"))

	s := newTestService(t, dir, false)
	info, err := s.PDFServerInfo(PDFServerInfoRequest{}, "mcp-pdf-layout", "test")
	require.NoError(t, err)

	assert.Equal(t, "mcp-pdf-layout", info.ServerName)
	assert.Equal(t, dir, info.DefaultDirectory)
	require.Len(t, info.DirectoryContents, 1)
	assert.Equal(t, "resume.pdf", info.DirectoryContents[0].Name)
	assert.Len(t, info.AvailableTools, 5)
	assert.Equal(t, layout.DefaultConfig(), info.Layout)
	assert.Contains(t, info.UsageGuidance, "pdf_editable_html")
	assert.Contains(t, info.SupportedFormats, "png")
}

func TestSearch_ListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.PDF", "c.pdf", "d.txt"} {
		pdftest.WriteFile(t, dir, name, pdftest.Resume())
	}
	pdftest.WriteFile(t, dir, "empty.pdf", nil)

	search := NewSearch(1024 * 1024)

	files, err := search.ListPDFs(dir, 0)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = search.ListPDFs(dir, 2)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = search.ListPDFs(filepath.Join(dir, "missing"), 0)
	assert.Error(t, err)
}

func TestMarkdownExporter_Empty(t *testing.T) {
	md, err := NewMarkdownExporter().Convert("  ")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()
	in := `<div class='pdf-page evil' data-page='1' onclick='x()'><script>alert(1)</script>` +
		`<p style="font-size:16px;position:fixed">hi</p><a href="javascript:x()">link</a></div>`

	out := s.Sanitize(in)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript")
	assert.NotContains(t, out, "position")
	assert.NotContains(t, out, "evil")
	assert.Contains(t, out, `data-page="1"`)
	assert.Contains(t, out, "hi")
}

func TestService_LogWarnings(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewService(Options{
		MaxFileSize: 1024,
		Directory:   t.TempDir(),
		Layout:      layout.DefaultConfig(),
		Logger:      slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)

	s.logWarnings(pdferrors.NewErrorCollection())
	assert.Empty(t, buf.String(), "nothing is logged without warnings")

	warnings := pdferrors.NewErrorCollection()
	warnings.Add(pdferrors.MalformedPage(2, "page content could not be read").WithContext("unexpected EOF"))
	s.logWarnings(warnings)

	out := buf.String()
	assert.Contains(t, out, "Found 0 error(s) and 1 warning(s)")
	assert.Contains(t, out, "page 2: page content could not be read: unexpected EOF")
}
