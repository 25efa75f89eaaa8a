package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf"
)

const maxFileSize = 100 * 1024 * 1024

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdf_layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "html", "Output format: html, overlay, markdown, tree")
	workers := fs.Int("workers", 1, "Pages reconstructed concurrently (1-64)")
	sanitize := fs.Bool("sanitize", false, "Sanitize the editable HTML")
	verbose := fs.Bool("verbose", false, "Log conversion warnings to stderr")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: exactly one PDF file path required\n\n")
		printUsage(stderr, fs)
		return 2
	}

	pdfPath := fs.Arg(0)
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := layout.DefaultConfig()
	cfg.Workers = *workers
	svc, err := pdf.NewService(pdf.Options{
		MaxFileSize: maxFileSize,
		Directory:   filepath.Dir(pdfPath),
		Layout:      cfg,
		Sanitize:    *sanitize,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := convert(svc, *format, data, stdout); err != nil {
		fmt.Fprintf(stderr, "Error converting %s: %v\n", pdfPath, err)
		return 1
	}
	return 0
}

func convert(svc *pdf.Service, format string, data []byte, w io.Writer) error {
	switch format {
	case "html":
		result, err := svc.ConvertEditable(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, result.HTML)
		return err
	case "overlay":
		result, err := svc.ExtractOverlay(data)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "markdown":
		result, err := svc.ConvertMarkdown(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, result.Markdown)
		return err
	case "tree":
		doc, err := svc.Reconstruct(data)
		if err != nil {
			return err
		}
		writeTree(w, doc)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want html, overlay, markdown or tree)", format)
	}
}

// writeTree prints the block structure of each page, one block per line
func writeTree(w io.Writer, doc *layout.Document) {
	for _, p := range doc.Pages {
		content := "text"
		if !p.HasText {
			content = "image-only"
		}
		fmt.Fprintf(w, "page %d (%.0fx%.0f, median %.1fpt, %s)\n", p.Number, p.Width, p.Height, p.MedianFontSize, content)

		for _, b := range p.Blocks {
			fmt.Fprintf(w, "  %-11s %5.1fpt  %s\n", b.Kind, b.Paragraph.MaxFontSize, preview(paragraphText(b.Paragraph)))
			for _, item := range b.Items {
				fmt.Fprintf(w, "    - %s\n", preview(item.Text))
			}
		}
		for _, img := range p.Images {
			fmt.Fprintf(w, "  %-11s %s, %d bytes\n", "image", img.MIMEType(), len(img.Data))
		}
	}

	if doc.Warnings != nil {
		if _, warnings := doc.Warnings.Count(); warnings > 0 {
			fmt.Fprintf(w, "%d warning(s)\n", warnings)
		}
	}
}

func paragraphText(p layout.Paragraph) string {
	lines := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, l.Text())
	}
	return strings.Join(lines, " ")
}

func preview(s string) string {
	const max = 60
	if r := []rune(s); len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "PDF Layout - rebuild the structure of a PDF as HTML, overlay JSON or Markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  pdf_layout [OPTIONS] <pdf_file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  pdf_layout resume.pdf > resume.html")
	fmt.Fprintln(w, "  pdf_layout -format tree report.pdf")
	fmt.Fprintln(w, "  pdf_layout -format overlay -workers 4 brochure.pdf")
}
