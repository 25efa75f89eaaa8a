package layout

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// BlockKind labels a classified paragraph
type BlockKind int

const (
	BlockBody BlockKind = iota
	BlockHeading
	BlockBulletList
)

// String returns a string representation of the block kind
func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockBulletList:
		return "bullet_list"
	default:
		return "body"
	}
}

// MarshalText encodes the kind by name
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ListItem is one bullet line with its marker removed
type ListItem struct {
	Text      string     `json:"text"`
	Fragments []Fragment `json:"fragments"`
}

// Block is a classified paragraph
type Block struct {
	Kind      BlockKind  `json:"kind"`
	Paragraph Paragraph  `json:"paragraph"`
	Items     []ListItem `json:"items,omitempty"`
}

// Classifier labels paragraphs as bullet lists, headings or body text
type Classifier struct {
	config Config
	bullet *regexp.Regexp
}

// NewClassifier compiles the bullet pattern of cfg
func NewClassifier(cfg Config) (*Classifier, error) {
	bullet, err := regexp.Compile(cfg.BulletPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid bullet pattern: %w", err)
	}
	return &Classifier{config: cfg, bullet: bullet}, nil
}

// Classify labels p against the page median. A paragraph is a bullet list when
// every line starts with a marker; otherwise a heading when its largest size
// reaches HeadingSizeRatio × median and it is shorter than HeadingMaxLength;
// otherwise body. Missing size data always yields body.
func (c *Classifier) Classify(p Paragraph, median float64) Block {
	if c.isBulletList(p) {
		items := make([]ListItem, len(p.Lines))
		for i, l := range p.Lines {
			items[i] = c.stripMarker(l)
		}
		return Block{Kind: BlockBulletList, Paragraph: p, Items: items}
	}

	if p.MaxFontSize <= 0 || median <= 0 {
		return Block{Kind: BlockBody, Paragraph: p}
	}

	if p.MaxFontSize >= c.config.HeadingSizeRatio*median && p.TextLength < c.config.HeadingMaxLength {
		return Block{Kind: BlockHeading, Paragraph: p}
	}
	return Block{Kind: BlockBody, Paragraph: p}
}

// IsBullet reports whether text starts with a list marker
func (c *Classifier) IsBullet(text string) bool {
	return c.bullet.MatchString(text)
}

func (c *Classifier) isBulletList(p Paragraph) bool {
	if len(p.Lines) == 0 {
		return false
	}
	for _, l := range p.Lines {
		if !c.IsBullet(l.PlainText()) {
			return false
		}
	}
	return true
}

// stripMarker removes the matched marker from the front of the line. The
// match is located in the plain text and mapped back onto the fragments:
// fully covered fragments are dropped, a partially covered one is cut.
func (c *Classifier) stripMarker(l Line) ListItem {
	loc := c.bullet.FindStringIndex(l.PlainText())
	if loc == nil {
		return ListItem{Text: l.Text(), Fragments: l.Fragments}
	}
	cut := loc[1]

	var kept []Fragment
	pos := 0
	for _, f := range l.Fragments {
		start, end := pos, pos+len(f.Text)
		pos = end

		switch {
		case end <= cut:
			continue
		case start < cut:
			f.Text = strings.TrimLeftFunc(f.Text[cut-start:], unicode.IsSpace)
			if f.Text == "" {
				continue
			}
		}
		kept = append(kept, f)
	}

	return ListItem{
		Text:      Line{Fragments: kept}.Text(),
		Fragments: kept,
	}
}
