package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home
	api.DisableConfigDir()
}

// decodable lists the file types we can check with a registered image
// decoder. Other types (jpx, jbig2, raw streams) are attached unchecked.
var decodable = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"tif":  true,
	"tiff": true,
	"bmp":  true,
	"webp": true,
}

// Assets extracts embedded images per page
type Assets struct {
	logger *slog.Logger
}

// NewAssets creates an image extractor
func NewAssets(logger *slog.Logger) *Assets {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assets{logger: logger}
}

// ExtractImages returns each page's images keyed by page number, in ascending
// object number order. Images that cannot be read are skipped with a warning;
// a document pdfcpu cannot open yields one warning and no images.
func (a *Assets) ExtractImages(data []byte) (map[int][]layout.EmbeddedImage, []*pdferrors.PDFError) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := readContext(data, conf)
	if err != nil {
		a.logger.Debug("image extraction unavailable", "error", err)
		return nil, []*pdferrors.PDFError{pdferrors.ImageExtractionFailure(0, "", err)}
	}

	images := make(map[int][]layout.EmbeddedImage)
	var warnings []*pdferrors.PDFError
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageImages, pageWarnings := a.extractPage(ctx, pageNr)
		if len(pageImages) > 0 {
			images[pageNr] = pageImages
		}
		warnings = append(warnings, pageWarnings...)
	}

	return images, warnings
}

func readContext(data []byte, conf *model.Configuration) (ctx *model.Context, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdfcpu panic: %v", rec)
		}
	}()
	return api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
}

func (a *Assets) extractPage(ctx *model.Context, pageNr int) (out []layout.EmbeddedImage, warnings []*pdferrors.PDFError) {
	defer func() {
		if rec := recover(); rec != nil {
			warnings = append(warnings, pdferrors.ImageExtractionFailure(pageNr, "", fmt.Errorf("%v", rec)))
		}
	}()

	found, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
	if err != nil {
		return nil, []*pdferrors.PDFError{pdferrors.ImageExtractionFailure(pageNr, "", err)}
	}

	objNrs := make([]int, 0, len(found))
	for objNr := range found {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	for _, objNr := range objNrs {
		img := found[objNr]
		data, err := readImage(img)
		if err != nil {
			a.logger.Debug("skipping unreadable image", "page", pageNr, "name", img.Name, "error", err)
			warnings = append(warnings, pdferrors.ImageExtractionFailure(pageNr, img.Name, err))
			continue
		}

		out = append(out, layout.EmbeddedImage{
			Data:    data,
			Ext:     strings.ToLower(img.FileType),
			Page:    pageNr,
			Ordinal: len(out),
		})
	}

	return out, warnings
}

// readImage drains the image stream and, when a decoder exists for its
// type, checks that the header decodes
func readImage(img model.Image) ([]byte, error) {
	if img.Reader == nil {
		return nil, fmt.Errorf("image has no data")
	}
	data, err := io.ReadAll(img)
	if err != nil {
		return nil, fmt.Errorf("failed to read image stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image stream is empty")
	}

	if decodable[strings.ToLower(img.FileType)] {
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("undecodable %s image: %w", img.FileType, err)
		}
	}
	return data, nil
}

// SupportedFormats lists the image types checked before attachment
func (a *Assets) SupportedFormats() []string {
	formats := make([]string, 0, len(decodable))
	for f := range decodable {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
