package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/lehigh-university-libraries/pagegrid/internal/modal"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Presenter draws modal dialogs as boxes on a terminal.
type Presenter struct {
	out io.Writer
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// Present prints visible dialogs. A terminal has nothing to erase, so hides
// are ignored.
func (p *Presenter) Present(s modal.Snapshot) {
	if !s.Visible {
		return
	}

	body := s.Body
	if s.IsHTML {
		body = Text(s.Body)
	}

	title := titleStyle.Render(s.Title)
	if strings.Contains(s.Title, "Error") {
		title = errorStyle.Render(s.Title)
	}
	fmt.Fprintln(p.out, dialogStyle.Render(title+"\n\n"+strings.TrimRight(body, "\n")))
}

// Text flattens dialog markup into plain lines. Preformatted blocks keep
// their layout; other blocks become one trimmed line each.
func Text(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	blocks := doc.Find("body").Children()
	if blocks.Length() == 0 {
		return strings.TrimSpace(doc.Text())
	}

	var lines []string
	blocks.Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "pre" {
			lines = append(lines, strings.TrimRight(sel.Text(), "\n"))
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}
