package layout

import (
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

// PageInput is everything a parser delivers for one page
type PageInput struct {
	Number    int
	Width     float64
	Height    float64
	Fragments []RawFragment
	Images    []EmbeddedImage
}

// Page is the reconstructed structure of one page. HasText is false when the
// page had no usable fragments, in which case it renders images only.
type Page struct {
	Number         int             `json:"page"`
	Width          float64         `json:"width"`
	Height         float64         `json:"height"`
	MedianFontSize float64         `json:"median_font_size,omitempty"`
	HasText        bool            `json:"has_text"`
	Blocks         []Block         `json:"blocks"`
	Images         []EmbeddedImage `json:"images"`
}

// Document is the reconstruction of a whole file, pages in input order
type Document struct {
	Pages    []Page                    `json:"pages"`
	Warnings *pdferrors.ErrorCollection `json:"-"`
}

// Fragments returns every fragment placed in the document, in output order.
// List items contribute their marker-stripped fragments.
func (d *Document) Fragments() []Fragment {
	var out []Fragment
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == BlockBulletList {
				for _, item := range b.Items {
					out = append(out, item.Fragments...)
				}
				continue
			}
			for _, l := range b.Paragraph.Lines {
				out = append(out, l.Fragments...)
			}
		}
	}
	return out
}
