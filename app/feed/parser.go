package feed

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a raw feed document into a NormalizedFeed. Parsing is pure and
// deterministic; every failure mode is reported as a *ParseError so callers
// get a single taxonomy for unusable feed data.
func (p *Parser) Run(data []byte) (*NormalizedFeed, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, NewParseError("Empty feed data provided")
	}

	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, NewParseError("Failed to parse RSS feed: %s", err.Error())
	}

	normalized := &NormalizedFeed{
		Title:       parsed.Title,
		Description: parsed.Description,
		Link:        parsed.Link,
		Language:    parsed.Language,
		Items:       make([]NormalizedItem, 0, len(parsed.Items)),
	}

	// gofeed maps RSS lastBuildDate and Atom updated onto Updated
	if parsed.Updated != "" {
		normalized.LastBuildDate = parsed.Updated
	}

	if parsed.Image != nil {
		normalized.ImageURL = parsed.Image.URL
	}

	for _, item := range parsed.Items {
		normalized.Items = append(normalized.Items, p.normalizeItem(item))
	}

	if v := ValidateFeed(normalized); !v.Valid {
		return nil, NewParseError("Invalid RSS feed format: %s", v.Reason)
	}

	return normalized, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) NormalizedItem {
	normalized := NormalizedItem{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		PubDate:     item.Published,
		Content:     item.Content,
		GUID:        item.GUID,
		Author:      p.extractAuthor(item),
	}

	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		normalized.PublishedAt = &published
		normalized.IsoDate = published.Format(time.RFC3339)
	}

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	// Snippet comes from the richest HTML variant available
	if item.Content != "" {
		normalized.ContentSnippet = StripHTML(item.Content)
	} else if item.Description != "" {
		normalized.ContentSnippet = StripHTML(item.Description)
	}

	// RSS 2.0 allows a single enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		normalized.Enclosure = &Enclosure{
			URL:  enclosure.URL,
			Type: enclosure.Type,
		}
		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				normalized.Enclosure.Length = length
			}
		}
	}

	return normalized
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if author := p.formatAuthor(item.Authors[0].Name, item.Authors[0].Email); author != "" {
			return author
		}
	}
	if item.Author != nil {
		return p.formatAuthor(item.Author.Name, item.Author.Email)
	}
	return ""
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" {
		return name
	}
	return email
}
