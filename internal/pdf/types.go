package pdf

import (
	"github.com/a3tai/mcp-pdf-layout/internal/layout"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFEditableFileRequest asks for the editable HTML of a PDF file
type PDFEditableFileRequest struct {
	Path string `json:"path"`
}

// PDFOverlayFileRequest asks for the positioned fragments of a PDF file
type PDFOverlayFileRequest struct {
	Path string `json:"path"`
}

// PDFMarkdownFileRequest asks for the Markdown rendition of a PDF file
type PDFMarkdownFileRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// EditableResult is the markup and structure tree of a document
type EditableResult struct {
	Path     string        `json:"path,omitempty"`
	HTML     string        `json:"html"`
	Pages    []layout.Page `json:"pages"`
	Warnings int           `json:"warnings"`
}

// OverlayResult is the overlay view of a document
type OverlayResult struct {
	Path     string               `json:"path,omitempty"`
	Pages    []layout.OverlayPage `json:"pages"`
	Warnings int                  `json:"warnings"`
}

// MarkdownResult is the Markdown rendition of a document
type MarkdownResult struct {
	Path     string `json:"path,omitempty"`
	Markdown string `json:"markdown"`
	Warnings int    `json:"warnings"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string        `json:"server_name"`
	Version           string        `json:"version"`
	DefaultDirectory  string        `json:"default_directory"`
	MaxFileSize       int64         `json:"max_file_size"`
	AvailableTools    []ToolInfo    `json:"available_tools"`
	DirectoryContents []FileInfo    `json:"directory_contents"`
	UsageGuidance     string        `json:"usage_guidance"`
	SupportedFormats  []string      `json:"supported_formats"`
	Layout            layout.Config `json:"layout"`
	Cache             CacheStats    `json:"cache"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
