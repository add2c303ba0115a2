package editor

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/pagegrid/internal/api"
)

// BulkResult counts the outcome of a bulk delete. Failed pages are not
// itemized because the server reports no per-page detail.
type BulkResult struct {
	Deleted int
	Failed  int
}

func (r BulkResult) Summary() string {
	return fmt.Sprintf("Deleted %d page(s). %d failed.", r.Deleted, r.Failed)
}

// ValidationReport builds the validation dialog body. Only numbers from the
// response are interpolated.
func ValidationReport(r *api.ValidateResponse) string {
	var b strings.Builder
	if r.IsValid {
		b.WriteString(`<div style="color: #10b981; font-weight: bold; font-size: 18px; margin-bottom: 16px;">✓ Validation Passed</div>`)
		fmt.Fprintf(&b, "<p>All questions from 1 to %d are present.</p>", r.MaxQuestion)
		fmt.Fprintf(&b, "<p>Total pages: %d</p>", r.TotalPages)
		return b.String()
	}

	missing := make([]string, len(r.MissingQuestions))
	for i, q := range r.MissingQuestions {
		missing[i] = strconv.Itoa(q)
	}

	b.WriteString(`<div style="color: #ef4444; font-weight: bold; font-size: 18px; margin-bottom: 16px;">✗ Validation Failed</div>`)
	fmt.Fprintf(&b, "<p>Missing questions: <strong>%s</strong></p>", strings.Join(missing, ", "))
	fmt.Fprintf(&b, "<p>Expected questions: 1 to %d</p>", r.MaxQuestion)
	fmt.Fprintf(&b, "<p>Total pages: %d</p>", r.TotalPages)
	return b.String()
}

// ExtractionReport wraps the server's text report for display.
func ExtractionReport(report string) string {
	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(report))
	b.WriteString("</pre>")
	b.WriteString(`<div style="margin-top: 16px;">`)
	b.WriteString("<p><em>Note: This is a preview. The actual extraction happens during download.</em></p>")
	b.WriteString("</div>")
	return b.String()
}
