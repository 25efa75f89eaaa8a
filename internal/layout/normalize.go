package layout

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

// Normalize cleans one page's raw fragments. Whitespace-only runs are dropped,
// missing font data is defaulted and emphasis is inferred from the family name.
// Each defaulted value is reported as a recoverable warning. Input order is kept.
func Normalize(page int, raw []RawFragment, cfg Config) ([]Fragment, []*pdferrors.PDFError) {
	fragments := make([]Fragment, 0, len(raw))
	var warnings []*pdferrors.PDFError

	for i, r := range raw {
		text := strings.TrimSpace(norm.NFC.String(r.Text))
		if text == "" {
			continue
		}

		size := r.FontSize
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			size = cfg.DefaultFontSize
			warnings = append(warnings, pdferrors.MalformedFragment(page, i, "missing font size"))
		}

		family := strings.TrimSpace(r.FontFamily)
		if family == "" {
			family = cfg.DefaultFontFamily
			warnings = append(warnings, pdferrors.MalformedFragment(page, i, "missing font family"))
		}

		box := r.BBox
		if !box.finite() {
			box = BBox{}
			warnings = append(warnings, pdferrors.MalformedFragment(page, i, "unreadable bounding box"))
		}

		bold, italic := DetectStyle(family)
		fragments = append(fragments, Fragment{
			Text:       text,
			FontFamily: family,
			FontSize:   size,
			Bold:       bold,
			Italic:     italic,
			BBox:       box,
			Page:       page,
			Color:      r.Color,
		})
	}

	return fragments, warnings
}
