package layout

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

// Engine runs the reconstruction pipeline. It holds configuration only, so a
// single Engine may serve concurrent documents.
type Engine struct {
	config     Config
	classifier *Classifier
	logger     *slog.Logger
}

// NewEngine creates an engine with the default configuration
func NewEngine() *Engine {
	engine, err := NewEngineWithConfig(DefaultConfig(), nil)
	if err != nil {
		panic(fmt.Sprintf("default layout config rejected: %v", err))
	}
	return engine
}

// NewEngineWithConfig creates an engine with custom thresholds
func NewEngineWithConfig(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}
	classifier, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{config: cfg, classifier: classifier, logger: logger}, nil
}

// Config returns the engine's configuration
func (e *Engine) Config() Config {
	return e.config
}

type pageResult struct {
	page     Page
	warnings []*pdferrors.PDFError
}

// Reconstruct rebuilds the structure of every page. Pages are independent;
// with Workers > 1 they run concurrently but results keep input order.
func (e *Engine) Reconstruct(pages []PageInput) *Document {
	results := make([]pageResult, len(pages))

	var g errgroup.Group
	g.SetLimit(e.config.Workers)
	for i := range pages {
		g.Go(func() error {
			page, warnings := e.ReconstructPage(pages[i])
			results[i] = pageResult{page: page, warnings: warnings}
			return nil
		})
	}
	_ = g.Wait()

	doc := &Document{
		Pages:    make([]Page, len(results)),
		Warnings: pdferrors.NewErrorCollection(),
	}
	for i, r := range results {
		doc.Pages[i] = r.page
		for _, w := range r.warnings {
			doc.Warnings.Add(w)
		}
	}

	_, warnings := doc.Warnings.Count()
	e.logger.Debug("reconstructed document", "pages", len(doc.Pages), "warnings", warnings)
	return doc
}

// ReconstructPage runs normalize, cluster, segment and classify on one page
func (e *Engine) ReconstructPage(in PageInput) (Page, []*pdferrors.PDFError) {
	fragments, warnings := Normalize(in.Number, in.Fragments, e.config)

	page := Page{
		Number: in.Number,
		Width:  in.Width,
		Height: in.Height,
		Images: in.Images,
	}

	// every later stage takes the median as an explicit argument
	median, ok := MedianFontSize(fragments)
	if !ok {
		e.logger.Debug("page has no text, rendering images only", "page", in.Number, "images", len(in.Images))
		return page, warnings
	}

	page.HasText = true
	page.MedianFontSize = median

	lines := ClusterLines(fragments, median, e.config)
	paragraphs := SegmentParagraphs(lines, median, e.config)

	page.Blocks = make([]Block, len(paragraphs))
	for i, p := range paragraphs {
		page.Blocks[i] = e.classifier.Classify(p, median)
	}

	e.logger.Debug("reconstructed page",
		"page", in.Number,
		"fragments", len(fragments),
		"median_font_size", median,
		"lines", len(lines),
		"blocks", len(page.Blocks),
	)
	return page, warnings
}
