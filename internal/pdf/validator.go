package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	pdferrors "github.com/a3tai/mcp-pdf-layout/internal/pdf/errors"
)

var pdfMagic = []byte("%PDF-")

// Sentinels wrapped by validation failures
var (
	ErrEmpty    = errors.New("file is empty")
	ErrTooLarge = errors.New("pdf exceeds size limit")
)

// Validator checks uploads and files before they reach the parser
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateBytes checks that data is non-empty, within the size limit and
// starts with a PDF header. Failures are InvalidInput errors.
func (v *Validator) ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, ErrEmpty)
	}
	if int64(len(data)) > v.maxFileSize {
		e := pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, ErrTooLarge)
		e.Message = fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(data), v.maxFileSize)
		return e
	}
	// some producers emit a few junk bytes before the header
	head := data[:min(len(data), 1024)]
	if !bytes.Contains(head, pdfMagic) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "missing %PDF- header")
	}
	return nil
}

// ValidateFile reports whether the file at req.Path is a readable PDF
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	data, err := v.ReadFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	pages, _, err := NewReader(nil).ReadPages(data)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Pages = len(pages)
	return result, nil
}

// ReadFile loads a PDF from disk after checking its type and size
func (v *Validator) ReadFile(filePath string) ([]byte, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	if err := v.ValidateBytes(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmpty, filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes): %w",
			fileInfo.Size(), v.maxFileSize, ErrTooLarge)
	}

	return nil
}
