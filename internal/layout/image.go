package layout

import (
	"encoding/base64"
	"strings"
)

// EmbeddedImage is a raster image extracted from a page. Ordinal is its
// position in the parser's enumeration for that page.
type EmbeddedImage struct {
	Data    []byte `json:"-"`
	Ext     string `json:"ext"`
	Page    int    `json:"page"`
	Ordinal int    `json:"ordinal"`
}

// MIMEType returns the image media type derived from its extension
func (img EmbeddedImage) MIMEType() string {
	ext := strings.ToLower(img.Ext)
	switch ext {
	case "jpg":
		ext = "jpeg"
	case "tif":
		ext = "tiff"
	case "":
		return "application/octet-stream"
	}
	return "image/" + ext
}

// DataURI returns the image as a self-contained base64 data URI
func (img EmbeddedImage) DataURI() string {
	return "data:" + img.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
