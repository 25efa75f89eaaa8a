package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

const (
	// Letter size, used when a page has no readable MediaBox
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	wordSpaceRatio   = 0.2
	fragmentGapRatio = 3.0
	baselineSlack    = 0.5
)

// Reader extracts positioned text runs from PDF bytes. It is the parser
// side of the layout engine: one PageInput per page, images not included.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader that logs page-level problems to logger
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadPages opens data and returns the text fragments and size of every page.
// A document that cannot be opened yields a DocumentParse error and no pages.
// A page that fails mid-read yields an empty page and a warning.
func (r *Reader) ReadPages(data []byte) (pages []layout.PageInput, warnings []*pdferrors.PDFError, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, warnings = nil, nil
			err = pdferrors.NewDocumentParseError(fmt.Errorf("parser panic: %v", rec))
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, pdferrors.NewDocumentParseError(err)
	}

	count := doc.NumPage()
	pages = make([]layout.PageInput, 0, count)
	for n := 1; n <= count; n++ {
		page, warning := r.readPage(doc, n)
		if warning != nil {
			r.logger.Debug("page could not be read", "page", n, "error", warning)
			warnings = append(warnings, warning)
		}
		pages = append(pages, page)
	}

	return pages, warnings, nil
}

func (r *Reader) readPage(doc *pdf.Reader, n int) (in layout.PageInput, warning *pdferrors.PDFError) {
	in = layout.PageInput{Number: n, Width: defaultPageWidth, Height: defaultPageHeight}

	defer func() {
		if rec := recover(); rec != nil {
			in.Fragments = nil
			warning = pdferrors.MalformedPage(n, "page content could not be read").WithContext(fmt.Sprint(rec))
		}
	}()

	page := doc.Page(n)
	if page.V.IsNull() {
		return in, pdferrors.MalformedPage(n, "page object missing")
	}

	in.Width, in.Height = mediaBox(page.V)
	in.Fragments = coalesceGlyphs(page.Content().Text, in.Height)
	return in, nil
}

// mediaBox returns the page size in points, walking up the page tree for an
// inherited box
func mediaBox(v pdf.Value) (width, height float64) {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// run accumulates glyphs that share font, size and baseline
type run struct {
	font     string
	size     float64
	baseline float64
	x0, x1   float64
	text     strings.Builder
	space    bool
}

func (r *run) accepts(g pdf.Text) bool {
	if g.Font != r.font || g.FontSize != r.size {
		return false
	}
	if math.Abs(g.Y-r.baseline) > baselineSlack {
		return false
	}
	gap := g.X - r.x1
	return gap >= -r.size && gap <= fragmentGapRatio*r.size
}

func (r *run) add(g pdf.Text) {
	if r.text.Len() > 0 && (r.space || g.X-r.x1 > wordSpaceRatio*r.size) {
		r.text.WriteByte(' ')
	}
	r.space = false
	r.text.WriteString(g.S)
	r.x1 = max(r.x1, g.X+g.W)
}

func (r *run) fragment(pageHeight float64) layout.RawFragment {
	return layout.RawFragment{
		Text:       r.text.String(),
		FontFamily: r.font,
		FontSize:   r.size,
		BBox: layout.BBox{
			X0: r.x0,
			Y0: pageHeight - (r.baseline + r.size),
			X1: r.x1,
			Y1: pageHeight - r.baseline,
		},
	}
}

// coalesceGlyphs merges per-glyph records into word and phrase runs, flipping
// PDF user space into top-left page coordinates
func coalesceGlyphs(glyphs []pdf.Text, pageHeight float64) []layout.RawFragment {
	var fragments []layout.RawFragment
	var cur *run

	flush := func() {
		if cur != nil && cur.text.Len() > 0 {
			fragments = append(fragments, cur.fragment(pageHeight))
		}
		cur = nil
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			if cur != nil {
				cur.space = true
			}
			continue
		}

		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}

		flush()
		cur = &run{font: g.Font, size: g.FontSize, baseline: g.Y, x0: g.X, x1: g.X}
		cur.add(g)
	}
	flush()

	return fragments
}
