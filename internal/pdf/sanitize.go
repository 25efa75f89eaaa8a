package pdf

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer restricts editable HTML to the elements the renderer produces.
// It is applied when markup leaves the process for a browser editor.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the allow-list policy
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("div", "h2", "p", "ul", "li", "strong", "em", "br")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^pdf-(document|page)$`)).OnElements("div")
	p.AllowAttrs("data-page").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("div")

	p.AllowStyles("font-size", "margin").OnElements("h2", "p")
	p.AllowStyles("max-width", "margin").OnElements("img")

	p.AllowImages()
	p.AllowDataURIImages()

	return &Sanitizer{policy: p}
}

// Sanitize strips anything outside the policy
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
