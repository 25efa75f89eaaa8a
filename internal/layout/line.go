package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Line is a run of fragments sharing an approximate vertical position,
// ordered left to right
type Line struct {
	BaselineY float64    `json:"baseline_y"`
	Fragments []Fragment `json:"fragments"`
}

// PlainText returns the fragment texts concatenated with no separator. It is
// the text bullet detection and heading length are measured on.
func (l Line) PlainText() string {
	return l.join("")
}

// Text returns the fragment texts joined by one space, as they are displayed
func (l Line) Text() string {
	return l.join(" ")
}

func (l Line) join(sep string) string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, sep)
}

// TextLength is the rune count of PlainText
func (l Line) TextLength() int {
	return utf8.RuneCountInString(l.PlainText())
}

// MaxFontSize returns the largest fragment size on the line
func (l Line) MaxFontSize() float64 {
	maxSize := 0.0
	for _, f := range l.Fragments {
		maxSize = math.Max(maxSize, f.FontSize)
	}
	return maxSize
}

// SortReadingOrder returns a copy of fragments ordered top to bottom, then
// left to right. The sort is stable so ties keep parser order.
func SortReadingOrder(fragments []Fragment) []Fragment {
	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BaselineY() != sorted[j].BaselineY() {
			return sorted[i].BaselineY() < sorted[j].BaselineY()
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})
	return sorted
}

// ClusterLines groups fragments into lines in a single greedy pass over the
// reading-order sort. A fragment joins the open line when its baseline is
// within LineTolerance × median of the line's opening baseline; otherwise the
// line closes and a new one opens at the fragment. Closed lines are ordered
// left to right, since fragments of different sizes on one baseline have
// different box tops.
func ClusterLines(fragments []Fragment, median float64, cfg Config) []Line {
	tolerance := cfg.LineTolerance * median

	var lines []Line
	for _, f := range SortReadingOrder(fragments) {
		if n := len(lines); n > 0 && math.Abs(f.BaselineY()-lines[n-1].BaselineY) <= tolerance {
			lines[n-1] = lines[n-1].with(f)
			continue
		}
		lines = append(lines, Line{BaselineY: f.BaselineY(), Fragments: []Fragment{f}})
	}

	for i, l := range lines {
		lines[i] = l.leftToRight()
	}
	return lines
}

// leftToRight returns a copy of l with fragments stable-sorted by X0
func (l Line) leftToRight() Line {
	fragments := make([]Fragment, len(l.Fragments))
	copy(fragments, l.Fragments)
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].BBox.X0 < fragments[j].BBox.X0
	})
	return Line{BaselineY: l.BaselineY, Fragments: fragments}
}

// with returns a new line extended by f, leaving l untouched
func (l Line) with(f Fragment) Line {
	fragments := make([]Fragment, len(l.Fragments), len(l.Fragments)+1)
	copy(fragments, l.Fragments)
	return Line{BaselineY: l.BaselineY, Fragments: append(fragments, f)}
}
