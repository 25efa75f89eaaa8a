package pdf

import (
	"fmt"
	"log/slog"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf/security"
)

// Options configures a Service
type Options struct {
	MaxFileSize int64
	Directory   string
	Layout      layout.Config
	// Sanitize passes editable HTML through the allow-list policy
	Sanitize bool
	// CacheSize bounds how many reconstructed documents are kept; zero
	// disables the cache
	CacheSize int
	Logger    *slog.Logger
}

// Service turns PDF bytes or files into editable, overlay and Markdown
// output by orchestrating the parser, the image extractor and the layout
// engine
type Service struct {
	maxFileSize   int64
	engine        *layout.Engine
	renderer      *layout.Renderer
	reader        *Reader
	assets        *Assets
	validator     *Validator
	markdown      *MarkdownExporter
	sanitizer     *Sanitizer
	search        *Search
	cache         *DocumentCache
	pathValidator *security.PathValidator
	logger        *slog.Logger
}

// NewService creates a new PDF service with all components
func NewService(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pathValidator, err := security.NewPathValidator(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	engine, err := layout.NewEngineWithConfig(opts.Layout, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		maxFileSize:   opts.MaxFileSize,
		engine:        engine,
		renderer:      layout.NewRenderer(opts.Layout),
		reader:        NewReader(logger),
		assets:        NewAssets(logger),
		validator:     NewValidator(opts.MaxFileSize),
		markdown:      NewMarkdownExporter(),
		search:        NewSearch(opts.MaxFileSize),
		cache:         NewDocumentCache(opts.CacheSize),
		pathValidator: pathValidator,
		logger:        logger,
	}
	if opts.Sanitize {
		s.sanitizer = NewSanitizer()
	}
	return s, nil
}

// ValidateBytes checks an upload before conversion
func (s *Service) ValidateBytes(data []byte) error {
	return s.validator.ValidateBytes(data)
}

// Reconstruct parses data and rebuilds the structure of every page. Parser
// and image warnings are merged into the document's collection. The result
// may be shared with other callers through the cache.
func (s *Service) Reconstruct(data []byte) (*layout.Document, error) {
	if err := s.validator.ValidateBytes(data); err != nil {
		return nil, err
	}

	key := CacheKey(data)
	if doc, ok := s.cache.Get(key); ok {
		s.logger.Debug("reconstruction cache hit", "key", key[:12])
		return doc, nil
	}

	pages, warnings, err := s.load(data, true)
	if err != nil {
		return nil, err
	}

	doc := s.engine.Reconstruct(pages)
	warnings.Merge(doc.Warnings)
	doc.Warnings = warnings
	s.logWarnings(warnings)

	s.cache.Put(key, doc)
	return doc, nil
}

// CacheStats reports the reconstruction cache counters
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ConvertEditable returns the editable markup and the structure tree
func (s *Service) ConvertEditable(data []byte) (*EditableResult, error) {
	doc, err := s.Reconstruct(data)
	if err != nil {
		return nil, err
	}

	html := s.renderer.RenderDocument(doc)
	if s.sanitizer != nil {
		html = s.sanitizer.Sanitize(html)
	}

	_, warnings := doc.Warnings.Count()
	return &EditableResult{
		HTML:     html,
		Pages:    doc.Pages,
		Warnings: warnings,
	}, nil
}

// ExtractOverlay returns every fragment at its page position. Images are
// not extracted for the overlay.
func (s *Service) ExtractOverlay(data []byte) (*OverlayResult, error) {
	if err := s.validator.ValidateBytes(data); err != nil {
		return nil, err
	}

	pages, warnings, err := s.load(data, false)
	if err != nil {
		return nil, err
	}

	overlay := s.engine.Overlay(pages)
	warnings.Merge(overlay.Warnings)
	s.logWarnings(warnings)

	_, count := warnings.Count()
	return &OverlayResult{Pages: overlay.Pages, Warnings: count}, nil
}

// ConvertMarkdown renders the document and converts the markup to Markdown
func (s *Service) ConvertMarkdown(data []byte) (*MarkdownResult, error) {
	doc, err := s.Reconstruct(data)
	if err != nil {
		return nil, err
	}

	md, err := s.markdown.Convert(s.renderer.RenderDocument(doc))
	if err != nil {
		return nil, err
	}

	_, warnings := doc.Warnings.Count()
	return &MarkdownResult{Markdown: md, Warnings: warnings}, nil
}

// PDFEditableFile converts a file inside the configured directory
func (s *Service) PDFEditableFile(req PDFEditableFileRequest) (*EditableResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.ConvertEditable(data)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// PDFOverlayFile extracts the overlay of a file inside the configured directory
func (s *Service) PDFOverlayFile(req PDFOverlayFileRequest) (*OverlayResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.ExtractOverlay(data)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// PDFMarkdownFile converts a file inside the configured directory to Markdown
func (s *Service) PDFMarkdownFile(req PDFMarkdownFileRequest) (*MarkdownResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.ConvertMarkdown(data)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(PDFValidateFileRequest{Path: path})
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// LayoutConfig returns the thresholds used by the engine
func (s *Service) LayoutConfig() layout.Config {
	return s.engine.Config()
}

func (s *Service) readFile(reqPath string) (string, []byte, error) {
	path, err := s.pathValidator.Resolve(reqPath)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}
	data, err := s.validator.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return path, data, nil
}

// load parses already validated data, optionally attaching each page's images
func (s *Service) load(data []byte, withImages bool) ([]layout.PageInput, *pdferrors.ErrorCollection, error) {
	warnings := pdferrors.NewErrorCollection()

	pages, pageWarnings, err := s.reader.ReadPages(data)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range pageWarnings {
		warnings.Add(w)
	}

	if !withImages {
		return pages, warnings, nil
	}

	images, imageWarnings := s.assets.ExtractImages(data)
	for _, w := range imageWarnings {
		warnings.Add(w)
	}
	for i := range pages {
		pages[i].Images = images[pages[i].Number]
	}

	return pages, warnings, nil
}

func (s *Service) logWarnings(warnings *pdferrors.ErrorCollection) {
	if len(warnings.Warnings) == 0 {
		return
	}
	s.logger.Debug("conversion finished with warnings", "summary", warnings.Summary())
	for _, w := range warnings.Warnings {
		s.logger.Debug("conversion warning", "type", w.Type.String(), "page", w.PageNumber, "error", w.Error())
	}
}
