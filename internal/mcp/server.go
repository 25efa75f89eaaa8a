package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-layout/internal/config"
	"github.com/a3tai/mcp-pdf-layout/internal/descriptions"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf"
)

// Tool names exposed over MCP
const (
	ToolEditableHTML  = "pdf_editable_html"
	ToolOverlayLayout = "pdf_overlay_layout"
	ToolMarkdown      = "pdf_markdown"
	ToolValidateFile  = "pdf_validate_file"
	ToolServerInfo    = "pdf_server_info"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool set is fixed at startup
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logger,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathArg := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the served directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool(ToolEditableHTML,
		mcp.WithDescription(descriptions.GetToolDescription(ToolEditableHTML)),
		pathArg,
	), s.handlePDFEditableHTML)

	s.mcpServer.AddTool(mcp.NewTool(ToolOverlayLayout,
		mcp.WithDescription(descriptions.GetToolDescription(ToolOverlayLayout)),
		pathArg,
	), s.handlePDFOverlayLayout)

	s.mcpServer.AddTool(mcp.NewTool(ToolMarkdown,
		mcp.WithDescription(descriptions.GetToolDescription(ToolMarkdown)),
		pathArg,
	), s.handlePDFMarkdown)

	s.mcpServer.AddTool(mcp.NewTool(ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolValidateFile)),
		pathArg,
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolServerInfo)),
	), s.handlePDFServerInfo)
}

func (s *Server) handlePDFEditableHTML(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFEditableFile(pdf.PDFEditableFileRequest{Path: path})
	if err != nil {
		s.logger.Debug("editable conversion failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handlePDFOverlayLayout(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFOverlayFile(pdf.PDFOverlayFileRequest{Path: path})
	if err != nil {
		s.logger.Debug("overlay extraction failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handlePDFMarkdown(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFMarkdownFile(pdf.PDFMarkdownFileRequest{Path: path})
	if err != nil {
		s.logger.Debug("markdown conversion failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := result.Markdown
	if result.Warnings > 0 {
		text += fmt.Sprintf("\n\n<!-- %d warning(s) during conversion -->", result.Warnings)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFServerInfo(pdf.PDFServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFServerInfoResult(result)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) formatPDFServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // keep the listing readable
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in default directory\n\n"
	}

	lc := result.Layout
	text += "Layout Thresholds (multiples of the page's median font size):\n"
	text += fmt.Sprintf("  line tolerance %.2f, paragraph gap %.2f, heading ratio %.2f\n",
		lc.LineTolerance, lc.ParagraphGap, lc.HeadingSizeRatio)
	text += fmt.Sprintf("  heading max length %d, min display size %dpx, workers %d\n\n",
		lc.HeadingMaxLength, lc.MinDisplaySize, lc.Workers)

	if cs := result.Cache; cs.Capacity > 0 {
		text += fmt.Sprintf("Document Cache: %d/%d documents, %d hits, %d misses\n\n",
			cs.Size, cs.Capacity, cs.Hits, cs.Misses)
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	if len(result.SupportedFormats) > 0 {
		text += "\nSupported Image Formats:\n"
		for _, format := range result.SupportedFormats {
			text += fmt.Sprintf("  • %s\n", format)
		}
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run serves MCP over the process's standard streams until stdin closes
// or ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks MCP over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug("starting MCP stdio server", "directory", s.config.PDFDirectory)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, in, out); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// HandleMessage processes one raw JSON-RPC message
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}
