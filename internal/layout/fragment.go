package layout

import (
	"math"
	"strings"
)

// BBox is an axis-aligned box in top-left origin page space, in points
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

func (b BBox) finite() bool {
	for _, v := range [...]float64{b.X0, b.Y0, b.X1, b.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Color is a packed 0xRRGGBB value; zero is black
type Color int

// RGB builds a Color from 8-bit components
func RGB(r, g, b uint8) Color {
	return Color(int(r)<<16 | int(g)<<8 | int(b))
}

// RawFragment is a text run as delivered by a document parser, before any
// cleanup. Zero or non-finite sizes and empty families count as missing.
type RawFragment struct {
	Text       string
	FontFamily string
	FontSize   float64
	BBox       BBox
	Color      Color
}

// Fragment is a normalized, non-empty text run with uniform styling
type Fragment struct {
	Text       string  `json:"text"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	BBox       BBox    `json:"bbox"`
	Page       int     `json:"page"`
	Color      Color   `json:"color"`
}

// BaselineY is the vertical key used to cluster fragments into lines
func (f Fragment) BaselineY() float64 { return f.BBox.Y0 }

// DetectStyle infers emphasis from a font family name. The match is a
// case-insensitive substring test: "bold" or "black" mean bold, "italic" or
// "oblique" mean italic.
func DetectStyle(fontFamily string) (bold, italic bool) {
	name := strings.ToLower(fontFamily)
	bold = strings.Contains(name, "bold") || strings.Contains(name, "black")
	italic = strings.Contains(name, "italic") || strings.Contains(name, "oblique")
	return bold, italic
}
