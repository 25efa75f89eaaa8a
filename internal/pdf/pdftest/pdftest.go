// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Page describes one page of a generated PDF
type Page struct {
	Content  string
	Images   [][]byte // DCT streams, named /Im1, /Im2, ...
	MediaBox string   // empty inherits the page tree's Letter box
}

// Build writes a minimal PDF with correct xref offsets. Text uses
// Courier (F1) and Courier-Bold (F2) with 600-unit advance widths.
func Build(pages ...Page) []byte {
	objs := map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		3: courier("Courier"),
		4: courier("Courier-Bold"),
	}

	next := 5
	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		pageNr, contentNr := next, next+1
		next += 2

		var xobjects []string
		for i, img := range p.Images {
			objs[next] = streamObject("/Type /XObject /Subtype /Image /Width 2 /Height 2 "+
				"/ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode", img)
			xobjects = append(xobjects, fmt.Sprintf("/Im%d %d 0 R", i+1, next))
			next++
		}

		resources := "/Font << /F1 3 0 R /F2 4 0 R >>"
		if len(xobjects) > 0 {
			resources += " /XObject << " + strings.Join(xobjects, " ") + " >>"
		}
		box := ""
		if p.MediaBox != "" {
			box = " /MediaBox " + p.MediaBox
		}

		objs[pageNr] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R%s /Resources << %s >> /Contents %d 0 R >>",
			box, resources, contentNr)
		objs[contentNr] = streamObject("", []byte(p.Content))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNr))
	}
	objs[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, next)
	for n := 1; n < next; n++ {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, objs[n])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", next)
	for n := 1; n < next; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", next, xref)
	return buf.Bytes()
}

// TwoImages draws /Im1 and /Im2 one above the other
const TwoImages = "q 100 0 0 100 72 600 cm /Im1 Do Q\nq 100 0 0 100 72 400 cm /Im2 Do Q\n"

func courier(name string) string {
	return "<< /Type /Font /Subtype /Type1 /BaseFont /" + name +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("600 ", 95)) + "] >>"
}

func streamObject(dict string, data []byte) string {
	return fmt.Sprintf("<< /Length %d %s >>\nstream\n%s\nendstream", len(data), dict, data)
}

// Show places text with its baseline at (x, y) in PDF user space
func Show(font string, size, x, y float64, text string) string {
	return fmt.Sprintf("BT /%s %g Tf %g %g Td (%s) Tj ET\n", font, size, x, y, text)
}

// JPEG encodes a 2x2 image of one shade
func JPEG(t testing.TB, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// Resume is a one-page document with a heading, a body paragraph and a
// two-item list
func Resume() []byte {
	content := Show("F2", 24, 72, 700, "Jane Doe") +
		Show("F1", 12, 72, 650, "Engineer with ten years") +
		Show("F1", 12, 72, 636, "of backend work.") +
		Show("F1", 12, 72, 600, "- Built APIs") +
		Show("F1", 12, 72, 586, "- Reduced latency")
	return Build(Page{Content: content})
}

// WriteFile stores data under dir and returns its path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
