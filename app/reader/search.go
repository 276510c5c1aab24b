package reader

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/lysyi3m/rss-reader/app/database"
)

var foldCaser = cases.Fold()

// MatchesSearch reports whether an article matches a free-text query. The
// query is case-folded and split on whitespace; every token must appear as
// a substring of the article's title, description, content snippet or
// author. A blank query matches everything.
func MatchesSearch(article database.Article, query string) bool {
	tokens := strings.Fields(foldCaser.String(query))
	if len(tokens) == 0 {
		return true
	}

	searchable := foldCaser.String(strings.Join([]string{
		article.Title,
		article.Description,
		article.ContentSnippet,
		article.Author,
	}, " "))

	for _, token := range tokens {
		if !strings.Contains(searchable, token) {
			return false
		}
	}
	return true
}
