package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestPDFErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *PDFError
		want string
	}{
		{
			name: "plain",
			err:  NewPDFError(ErrorTypeInvalidInput, "missing %PDF- header"),
			want: "[INVALID_INPUT] missing %PDF- header",
		},
		{
			name: "with page and context",
			err:  MalformedFragment(2, 7, "missing font size"),
			want: "[MALFORMED_FRAGMENT] page 2: missing font size: fragment 7",
		},
		{
			name: "document parse",
			err:  NewDocumentParseError(stderrors.New("bad xref")),
			want: "[DOCUMENT_PARSE] document could not be parsed: bad xref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorTypeRecoverable(t *testing.T) {
	tests := []struct {
		errType     ErrorType
		recoverable bool
		severity    ErrorSeverity
	}{
		{ErrorTypeDocumentParse, false, SeverityFatal},
		{ErrorTypeInvalidInput, false, SeverityError},
		{ErrorTypeMalformedFragment, true, SeverityWarning},
		{ErrorTypeMalformedPage, true, SeverityWarning},
		{ErrorTypeImageExtraction, true, SeverityWarning},
		{ErrorTypeUnknown, false, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			if got := tt.errType.IsRecoverable(); got != tt.recoverable {
				t.Errorf("IsRecoverable() = %v, want %v", got, tt.recoverable)
			}
			if got := tt.errType.GetSeverity(); got != tt.severity {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.severity)
			}
		})
	}
}

func TestWrapErrorUnwraps(t *testing.T) {
	cause := stderrors.New("eof")
	err := fmt.Errorf("reading page: %w", ImageExtractionFailure(3, "Im1", cause))

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable through errors.Is")
	}

	var pdfErr *PDFError
	if !stderrors.As(err, &pdfErr) {
		t.Fatal("expected a PDFError in the chain")
	}
	if pdfErr.PageNumber != 3 || pdfErr.Context != "Im1" || !pdfErr.Recoverable {
		t.Errorf("unexpected error fields: %+v", pdfErr)
	}
}

func TestIsDocumentParseError(t *testing.T) {
	if !IsDocumentParseError(fmt.Errorf("load: %w", NewDocumentParseError(stderrors.New("x")))) {
		t.Error("wrapped parse error not detected")
	}
	if IsDocumentParseError(MalformedPage(1, "bad content stream")) {
		t.Error("page warning reported as parse error")
	}
	if IsDocumentParseError(stderrors.New("plain")) {
		t.Error("plain error reported as parse error")
	}
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection()
	if got := ec.Summary(); got != "No errors or warnings" {
		t.Errorf("Summary() = %q", got)
	}

	ec.Add(nil)
	ec.Add(MalformedPage(1, "unreadable"))
	ec.Add(NewPDFError(ErrorTypeInvalidInput, "bad"))

	other := NewErrorCollection()
	other.Add(MalformedFragment(1, 0, "no text"))
	ec.Merge(other)
	ec.Merge(nil)

	errs, warns := ec.Count()
	if errs != 1 || warns != 2 {
		t.Errorf("Count() = %d, %d, want 1, 2", errs, warns)
	}
	if !strings.Contains(ec.Summary(), "1 error(s) and 2 warning(s)") {
		t.Errorf("Summary() = %q", ec.Summary())
	}
}

func TestWithContextAndPage(t *testing.T) {
	err := NewPDFError(ErrorTypeMalformedPage, "empty").WithPage(4).WithContext("content stream")
	if err.PageNumber != 4 || err.Context != "content stream" {
		t.Errorf("unexpected error fields: %+v", err)
	}
}
