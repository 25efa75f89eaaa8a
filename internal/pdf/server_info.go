package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-pdf-layout/internal/descriptions"
)

const maxListedFiles = 100

// PDFServerInfo returns server information, available files and usage guidance
func (s *Service) PDFServerInfo(_ PDFServerInfoRequest, serverName, version string) (*PDFServerInfoResult, error) {
	dir := s.pathValidator.Root()

	files, err := s.search.ListPDFs(dir, maxListedFiles)
	if err != nil {
		s.logger.Debug("directory listing unavailable", "directory", dir, "error", err)
		files = []FileInfo{}
	}

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		UsageGuidance:     s.usageGuidance(),
		SupportedFormats:  s.assets.SupportedFormats(),
		Layout:            s.engine.Config(),
		Cache:             s.cache.Stats(),
	}, nil
}

func availableTools() []ToolInfo {
	pathParam := "path (required): Path to the PDF file, absolute or relative to the served directory"
	return []ToolInfo{
		{
			Name:        "pdf_editable_html",
			Description: descriptions.GetToolDescription("pdf_editable_html"),
			Usage:       "Rebuild headings, paragraphs, lists and images as editable HTML plus a structure tree.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_overlay_layout",
			Description: descriptions.GetToolDescription("pdf_overlay_layout"),
			Usage:       "Get every text fragment with its exact position for overlay editing.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_markdown",
			Description: descriptions.GetToolDescription("pdf_markdown"),
			Usage:       "Get the reconstructed document as Markdown.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_validate_file",
			Description: descriptions.GetToolDescription("pdf_validate_file"),
			Usage:       "Check a file is a readable PDF before converting it.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_server_info",
			Description: descriptions.GetToolDescription("pdf_server_info"),
			Usage:       "Discover files, limits and layout thresholds.",
			Parameters:  "none",
		},
	}
}

func (s *Service) usageGuidance() string {
	return `PDF Layout Server Usage Guide:

1. DISCOVER: use 'pdf_server_info' to list PDFs in the served directory
2. VALIDATE: use 'pdf_validate_file' before converting unknown files
3. CONVERT:
   - 'pdf_editable_html' for editable markup and the block structure
   - 'pdf_overlay_layout' for positioned fragments (overlay editors)
   - 'pdf_markdown' for text with headings and lists kept

IMPORTANT NOTES:
- Relative paths are resolved against the served directory
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- Scanned pages have no text; they are returned as images only (no OCR)
- Tables and multi-column layouts are read as plain paragraphs`
}
