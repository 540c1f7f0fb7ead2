package session

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText strips markup from raw page source and returns the visible
// text with collapsed whitespace. Used for salary parsing and confirmation
// checks over the whole page.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
