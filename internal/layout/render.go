package layout

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Renderer turns reconstructed pages into editable HTML
type Renderer struct {
	minDisplaySize int
}

// NewRenderer creates a renderer using cfg's display size floor
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{minDisplaySize: cfg.MinDisplaySize}
}

// DisplaySize converts points to CSS pixels (96/72) with a legibility floor
func (r *Renderer) DisplaySize(pt float64) int {
	px := int(math.Round(pt * 96.0 / 72.0))
	return max(r.minDisplaySize, px)
}

// RenderDocument renders every page inside a document container
func (r *Renderer) RenderDocument(doc *Document) string {
	pages := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = r.RenderPage(p)
	}
	return "<div class='pdf-document'>" + strings.Join(pages, "\n") + "</div>"
}

// RenderPage renders text blocks in paragraph order followed by the page's
// images in extraction order. A page without text holds only its images.
func (r *Renderer) RenderPage(p Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<div class='pdf-page' data-page='%d'>", p.Number)

	if !p.HasText {
		for _, img := range p.Images {
			fmt.Fprintf(&sb, `<img src="%s" alt="img-%d-%d" style="max-width:100%%;" />`,
				img.DataURI(), p.Number, img.Ordinal)
		}
		sb.WriteString("</div>")
		return sb.String()
	}

	for _, b := range p.Blocks {
		sb.WriteString(r.renderBlock(b, p.MedianFontSize))
	}
	for _, img := range p.Images {
		fmt.Fprintf(&sb, `<img src="%s" alt="pdf-image-%d-%d" style="max-width:100%%;margin:8px 0;" />`,
			img.DataURI(), p.Number, img.Ordinal)
	}

	sb.WriteString("</div>")
	return sb.String()
}

func (r *Renderer) renderBlock(b Block, median float64) string {
	size := b.Paragraph.MaxFontSize
	if size <= 0 {
		size = median
	}

	switch b.Kind {
	case BlockBulletList:
		var sb strings.Builder
		sb.WriteString("<ul>")
		for _, item := range b.Items {
			sb.WriteString("<li>" + renderFragments(item.Fragments) + "</li>")
		}
		sb.WriteString("</ul>")
		return sb.String()
	case BlockHeading:
		return fmt.Sprintf(`<h2 style="font-size:%dpx;margin:4px 0;">%s</h2>`,
			r.DisplaySize(size), renderLines(b.Paragraph.Lines))
	default:
		return fmt.Sprintf(`<p style="font-size:%dpx;margin:4px 0;">%s</p>`,
			r.DisplaySize(size), renderLines(b.Paragraph.Lines))
	}
}

// renderLines joins line markup with single spaces; line breaks inside a
// paragraph are not kept
func renderLines(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = renderFragments(l.Fragments)
	}
	return strings.Join(parts, " ")
}

func renderFragments(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = RenderFragment(f)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// RenderFragment escapes a fragment and applies emphasis, bold innermost
func RenderFragment(f Fragment) string {
	text := strings.ReplaceAll(html.EscapeString(f.Text), "\n", "<br/>")
	if f.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if f.Italic {
		text = "<em>" + text + "</em>"
	}
	return text
}
