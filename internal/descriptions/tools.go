package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	PDFEditableHTMLDescription = `Rebuild a PDF as editable HTML with headings, paragraphs, bullet lists and images.

**When to use:** Need to edit or restyle a PDF's content in a rich-text editor, or feed its structure to another system.

**Why it's useful:** Text runs are grouped into lines and paragraphs using the page's own median font size, so the result follows the document's reading order instead of raw drawing order. Large short paragraphs become <h2> headings, runs of bulleted lines become <ul> lists, bold and italic fonts become <strong>/<em>, and embedded images are attached as data URIs.

**Examples:**
• Edit a resume: "Turn resume.pdf into HTML I can edit"
• Restyle a report: "Get the headings and paragraphs of report.pdf as HTML"
• Inspect structure: "Which paragraphs of brochure.pdf are headings?"

**Common workflows:**
1. Editing: pdf_validate_file → pdf_editable_html → edit markup → export
2. Structure analysis: pdf_editable_html → read the pages tree (blocks with kind heading/bullet_list/body)

**Best practices:** The response holds both the markup (html) and the structure tree (pages). A non-zero warnings count means some fragments had missing font data or some images could not be read; the rest of the document is still converted. Tables, columns and footnotes are not reconstructed.`

	PDFOverlayLayoutDescription = `Extract every text fragment of a PDF with its exact page position.

**When to use:** Need to place editable text boxes over a rendered page image, or to patch text in place without reflowing the layout.

**Why it's useful:** Each item carries text, x, y, width, height, fontSize, fontFamily and color in points with a top-left origin, in reading order (top to bottom, then left to right). Nothing is merged or classified, so positions are exact.

**Examples:**
• Build an overlay editor: "Get positioned text of invoice.pdf page by page"
• Locate a value: "Where is the total amount on invoice.pdf?"

**Common workflows:**
1. Overlay editing: render page image → pdf_overlay_layout → draw text boxes at x/y
2. Targeted edits: pdf_overlay_layout → find item → replace text at the same position

**Best practices:** Page width and height are returned per page; scale item coordinates by rendered-width / page-width.`

	PDFMarkdownDescription = `Convert a PDF into Markdown using the same structure reconstruction as pdf_editable_html.

**When to use:** Need clean text for an LLM, a wiki or a documentation system, with headings and lists kept.

**Why it's useful:** Headings become "##" lines, bullet lists become "-" lists and emphasis is preserved, which is far more useful than flat extracted text.

**Examples:**
• Summarize: "Give me resume.pdf as Markdown so I can summarize it"
• Import: "Convert handbook.pdf to Markdown for the wiki"

**Best practices:** Images are emitted as data URI image links; strip them if only the text is needed.`

	PDFValidateFileDescription = `Verify that a file is a PDF the converter can open.

**When to use:** Before converting a file, especially user-supplied files or batches.

**Why it's useful:** Checks the path is inside the served directory, the size limit, the %PDF- header and that the document parses, and reports the page count.

**Examples:**
• Upload check: "Is contract.pdf a valid PDF?"
• Batch safety: "Validate every PDF before converting them"

**Best practices:** A result with valid=false carries the reason in message; it is not a tool failure.`

	PDFServerInfoDescription = `Describe the server: tools, limits, layout thresholds and the PDFs available in the served directory.

**When to use:** At the start of a session to discover files and capabilities.

**Why it's useful:** Lists convertible PDF files with sizes, the maximum file size, the supported image formats and the layout thresholds (line tolerance, paragraph gap, heading ratio) in effect.

**Best practices:** Use the returned paths directly with the conversion tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_editable_html":  PDFEditableHTMLDescription,
	"pdf_overlay_layout": PDFOverlayLayoutDescription,
	"pdf_markdown":       PDFMarkdownDescription,
	"pdf_validate_file":  PDFValidateFileDescription,
	"pdf_server_info":    PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted names of all described tools
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
