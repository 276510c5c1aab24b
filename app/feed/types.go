package feed

import (
	"time"
)

// NormalizedFeed is the ephemeral result of parsing a raw feed document.
// It is consumed immediately by the reconciler and never persisted as-is.
type NormalizedFeed struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Link          string           `json:"link"`
	Language      string           `json:"language,omitempty"`
	LastBuildDate string           `json:"lastBuildDate,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	Items         []NormalizedItem `json:"items"`
}

type NormalizedItem struct {
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	Description    string     `json:"description"`
	PubDate        string     `json:"pubDate"`
	PublishedAt    *time.Time `json:"-"`
	IsoDate        string     `json:"isoDate,omitempty"`
	Content        string     `json:"content,omitempty"`
	ContentSnippet string     `json:"contentSnippet,omitempty"`
	Author         string     `json:"author,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	GUID           string     `json:"guid,omitempty"`
	Enclosure      *Enclosure `json:"enclosure,omitempty"`
}

type Enclosure struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// Identity returns the key used to match an incoming item to an existing
// article: the GUID when present, the link otherwise. Scoped per feed source.
func (i *NormalizedItem) Identity() string {
	if i.GUID != "" {
		return i.GUID
	}
	return i.Link
}
