package terminal

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/lehigh-university-libraries/pagegrid/internal/editor"
)

// PageIDs reads the page card ids out of the server-rendered editor view, in
// grid order.
func PageIDs(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor page: %w", err)
	}

	var ids []string
	doc.Find("." + editor.CardClass).Each(func(_ int, card *goquery.Selection) {
		if id, ok := card.Attr("data-page-id"); ok && id != "" {
			ids = append(ids, id)
		}
	})
	return ids, nil
}
