package pdf

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-layout/internal/pdf/pdftest"
)

func TestAssets_ExtractImages(t *testing.T) {
	data := pdftest.Build(
		pdftest.Page{Content: pdftest.Show("F1", 12, 72, 700, "text only")},
		pdftest.Page{Content: pdftest.TwoImages, Images: [][]byte{pdftest.JPEG(t, 200), pdftest.JPEG(t, 20)}},
	)

	images, warnings := NewAssets(nil).ExtractImages(data)
	assert.Empty(t, warnings)
	assert.Empty(t, images[1])
	require.Len(t, images[2], 2)

	for i, img := range images[2] {
		assert.Equal(t, 2, img.Page)
		assert.Equal(t, i, img.Ordinal, "ordinals follow object order")
		assert.Equal(t, "jpg", img.Ext)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 2, cfg.Width)
	}
	assert.True(t, strings.HasPrefix(images[2][0].DataURI(), "data:image/jpeg;base64,"))
}

func TestAssets_ExtractImages_Unreadable(t *testing.T) {
	images, warnings := NewAssets(nil).ExtractImages([]byte("%PDF-1.4\nnot really"))
	assert.Empty(t, images)
	require.Len(t, warnings, 1)
	assert.Equal(t, pdferrors.ErrorTypeImageExtraction, warnings[0].Type)
	assert.True(t, warnings[0].Recoverable)
}

func TestReadImage(t *testing.T) {
	tests := []struct {
		name    string
		img     model.Image
		wantErr bool
	}{
		{"valid jpeg", model.Image{Reader: bytes.NewReader(pdftest.JPEG(t, 90)), FileType: "jpg"}, false},
		{"corrupt jpeg", model.Image{Reader: strings.NewReader("not a jpeg"), FileType: "jpg"}, true},
		{"corrupt png", model.Image{Reader: strings.NewReader("not a png"), FileType: "png"}, true},
		{"unchecked format passes through", model.Image{Reader: strings.NewReader("jp2 bytes"), FileType: "jpx"}, false},
		{"empty stream", model.Image{Reader: strings.NewReader(""), FileType: "jpx"}, true},
		{"no reader", model.Image{FileType: "jpg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readImage(tt.img)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, data)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestAssets_SupportedFormats(t *testing.T) {
	formats := NewAssets(nil).SupportedFormats()
	assert.Contains(t, formats, "jpg")
	assert.Contains(t, formats, "tif")
	assert.Contains(t, formats, "webp")
	assert.IsIncreasing(t, formats)
}
