package errors

import (
	stderrors "errors"
	"fmt"
)

// PDFError describes a failure or an absorbed anomaly while turning a PDF into
// structured output
type PDFError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Err         error     `json:"-"`
}

// ErrorType represents the categories of reconstruction errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeDocumentParse
	ErrorTypeMalformedFragment
	ErrorTypeMalformedPage
	ErrorTypeImageExtraction
	ErrorTypeInvalidInput
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.PageNumber > 0 {
		msg = fmt.Sprintf("[%s] page %d: %s", e.Type.String(), e.PageNumber, e.Message)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *PDFError) Unwrap() error {
	return e.Err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeDocumentParse:
		return "DOCUMENT_PARSE"
	case ErrorTypeMalformedFragment:
		return "MALFORMED_FRAGMENT"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	case ErrorTypeImageExtraction:
		return "IMAGE_EXTRACTION"
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeDocumentParse:
		return SeverityFatal
	case ErrorTypeInvalidInput:
		return SeverityError
	case ErrorTypeMalformedFragment, ErrorTypeMalformedPage, ErrorTypeImageExtraction:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether processing continues after this kind of error.
// Only document-level failures stop a conversion.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeMalformedFragment, ErrorTypeMalformedPage, ErrorTypeImageExtraction:
		return true
	default:
		return false
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
	}
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, err error) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     err.Error(),
		Recoverable: errorType.IsRecoverable(),
		Err:         err,
	}
}

// NewDocumentParseError reports bytes that could not be opened as a PDF
func NewDocumentParseError(err error) *PDFError {
	e := WrapError(ErrorTypeDocumentParse, err)
	e.Message = "document could not be parsed"
	e.Context = err.Error()
	return e
}

// MalformedFragment records a fragment whose missing data was defaulted
func MalformedFragment(page, index int, reason string) *PDFError {
	return NewPDFError(ErrorTypeMalformedFragment, reason).
		WithPage(page).
		WithContext(fmt.Sprintf("fragment %d", index))
}

// ImageExtractionFailure records an embedded image that was dropped
func ImageExtractionFailure(page int, name string, err error) *PDFError {
	return WrapError(ErrorTypeImageExtraction, err).WithPage(page).WithContext(name)
}

// MalformedPage records a page whose content could not be read
func MalformedPage(page int, reason string) *PDFError {
	return NewPDFError(ErrorTypeMalformedPage, reason).WithPage(page)
}

// IsDocumentParseError reports whether err is, or wraps, a document parse failure
func IsDocumentParseError(err error) bool {
	var pdfErr *PDFError
	return stderrors.As(err, &pdfErr) && pdfErr.Type == ErrorTypeDocumentParse
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// GetSeverity returns the severity of this specific error
func (e *PDFError) GetSeverity() ErrorSeverity {
	return e.Type.GetSeverity()
}

// ErrorCollection gathers the errors and warnings of one conversion
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
}

// NewErrorCollection creates an empty collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
	}
}

// Add files an error by severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err == nil {
		return
	}
	severity := err.GetSeverity()
	if severity == SeverityWarning || severity == SeverityInfo {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// Merge appends every entry of other
func (ec *ErrorCollection) Merge(other *ErrorCollection) {
	if other == nil {
		return
	}
	ec.Errors = append(ec.Errors, other.Errors...)
	ec.Warnings = append(ec.Warnings, other.Warnings...)
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
