package layout

import "math"

// Paragraph is a run of consecutive lines with no oversized vertical gap
type Paragraph struct {
	Lines       []Line  `json:"lines"`
	MaxFontSize float64 `json:"max_font_size"`
	TextLength  int     `json:"text_length"`
}

// NewParagraph derives a paragraph's size and length from its lines
func NewParagraph(lines ...Line) Paragraph {
	p := Paragraph{Lines: lines}
	for _, l := range lines {
		p.MaxFontSize = math.Max(p.MaxFontSize, l.MaxFontSize())
		p.TextLength += l.TextLength()
	}
	return p
}

// SegmentParagraphs splits lines wherever the baseline gap to the previous
// line exceeds ParagraphGap × median. The first line always opens the first
// paragraph.
func SegmentParagraphs(lines []Line, median float64, cfg Config) []Paragraph {
	if len(lines) == 0 {
		return nil
	}

	threshold := cfg.ParagraphGap * median

	var paragraphs []Paragraph
	start := 0
	for i := 1; i < len(lines); i++ {
		if lines[i].BaselineY-lines[i-1].BaselineY > threshold {
			paragraphs = append(paragraphs, NewParagraph(lines[start:i]...))
			start = i
		}
	}
	return append(paragraphs, NewParagraph(lines[start:]...))
}
