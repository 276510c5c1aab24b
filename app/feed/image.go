package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractImageURL returns the src of the first <img> element found in the
// given HTML fragment, or an empty string when there is none.
func ExtractImageURL(htmlContent string) string {
	if strings.TrimSpace(htmlContent) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return src
}

// StripHTML flattens an HTML fragment into plain text with collapsed
// whitespace, used for search snippets.
func StripHTML(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return strings.TrimSpace(htmlContent)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
