package layout

import (
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

// OverlayItem is one fragment at its exact page position
type OverlayItem struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Color      Color   `json:"color"`
	Page       int     `json:"page"`
}

// OverlayPage lists a page's fragments for position-preserving editors
type OverlayPage struct {
	Page   int           `json:"page"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Items  []OverlayItem `json:"items"`
}

// OverlayDocument is the overlay view of a whole file
type OverlayDocument struct {
	Pages    []OverlayPage             `json:"pages"`
	Warnings *pdferrors.ErrorCollection `json:"-"`
}

// Overlay emits every normalized fragment in reading order with no
// clustering or classification
func (e *Engine) Overlay(pages []PageInput) *OverlayDocument {
	doc := &OverlayDocument{
		Pages:    make([]OverlayPage, len(pages)),
		Warnings: pdferrors.NewErrorCollection(),
	}

	for i, in := range pages {
		fragments, warnings := Normalize(in.Number, in.Fragments, e.config)
		for _, w := range warnings {
			doc.Warnings.Add(w)
		}

		sorted := SortReadingOrder(fragments)
		items := make([]OverlayItem, len(sorted))
		for j, f := range sorted {
			items[j] = OverlayItem{
				Text:       f.Text,
				X:          f.BBox.X0,
				Y:          f.BBox.Y0,
				Width:      f.BBox.Width(),
				Height:     f.BBox.Height(),
				FontSize:   f.FontSize,
				FontFamily: f.FontFamily,
				Color:      f.Color,
				Page:       f.Page,
			}
		}

		doc.Pages[i] = OverlayPage{
			Page:   in.Number,
			Width:  in.Width,
			Height: in.Height,
			Items:  items,
		}
	}

	return doc
}
