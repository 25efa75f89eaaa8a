// Package layout rebuilds document structure from positioned text fragments.
//
// A page's fragments are normalized, clustered into lines, segmented into
// paragraphs and classified as headings, bullet lists or body text. Every
// threshold is expressed relative to the page's median font size, which is
// computed once per page and passed explicitly through each stage.
package layout

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	DefaultLineTolerance    = 0.6
	DefaultParagraphGap     = 1.2
	DefaultHeadingSizeRatio = 1.25
	DefaultHeadingMaxLength = 200
	DefaultMinDisplaySize   = 10
	DefaultFontSize         = 12.0
	DefaultFontFamily       = "Helvetica"

	// MaxWorkers bounds the page worker pool
	MaxWorkers = 64

	// DefaultBulletPattern matches a leading bullet glyph or "<digits>." ordinal
	// followed by whitespace.
	DefaultBulletPattern = `^(?:[\x{2022}\x{2023}\x{25E6}*\x{2013}-]|\d+\.)\s+`
)

// Config holds the tunable heuristics of the reconstruction pipeline
type Config struct {
	// LineTolerance is the maximum vertical distance, as a multiple of the
	// median font size, between a fragment and the open line it joins.
	LineTolerance float64 `json:"line_tolerance"`

	// ParagraphGap is the vertical gap, as a multiple of the median font size,
	// above which a line starts a new paragraph.
	ParagraphGap float64 `json:"paragraph_gap"`

	// HeadingSizeRatio is the inclusive size ratio a paragraph's largest
	// fragment must reach to be a heading.
	HeadingSizeRatio float64 `json:"heading_size_ratio"`

	// HeadingMaxLength is the exclusive character cap for headings.
	HeadingMaxLength int `json:"heading_max_length"`

	// MinDisplaySize is the floor applied to rendered pixel sizes.
	MinDisplaySize int `json:"min_display_size"`

	DefaultFontSize   float64 `json:"default_font_size"`
	DefaultFontFamily string  `json:"default_font_family"`
	BulletPattern     string  `json:"bullet_pattern"`

	// Workers bounds how many pages are reconstructed concurrently, from 1
	// (sequential) to MaxWorkers.
	Workers int `json:"workers"`
}

// DefaultConfig returns the configuration matching the reference output
func DefaultConfig() Config {
	return Config{
		LineTolerance:     DefaultLineTolerance,
		ParagraphGap:      DefaultParagraphGap,
		HeadingSizeRatio:  DefaultHeadingSizeRatio,
		HeadingMaxLength:  DefaultHeadingMaxLength,
		MinDisplaySize:    DefaultMinDisplaySize,
		DefaultFontSize:   DefaultFontSize,
		DefaultFontFamily: DefaultFontFamily,
		BulletPattern:     DefaultBulletPattern,
		Workers:           1,
	}
}

// Validate checks that every threshold is usable
func (c Config) Validate() error {
	if c.LineTolerance <= 0 {
		return errors.New("line tolerance must be positive")
	}
	if c.ParagraphGap <= 0 {
		return errors.New("paragraph gap must be positive")
	}
	if c.HeadingSizeRatio <= 0 {
		return errors.New("heading size ratio must be positive")
	}
	if c.HeadingMaxLength <= 0 {
		return errors.New("heading max length must be positive")
	}
	if c.MinDisplaySize < 0 {
		return errors.New("minimum display size cannot be negative")
	}
	if c.DefaultFontSize <= 0 {
		return errors.New("default font size must be positive")
	}
	if c.DefaultFontFamily == "" {
		return errors.New("default font family cannot be empty")
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", MaxWorkers)
	}
	if _, err := regexp.Compile(c.BulletPattern); err != nil {
		return fmt.Errorf("invalid bullet pattern: %w", err)
	}
	return nil
}
