package database

import (
	"time"
)

// FeedSource is a user's subscription to one feed URL. Its id is opaque and
// never changes; the URL is unique among active subscriptions.
type FeedSource struct {
	ID              string     `json:"id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	LastRefreshedAt *time.Time `json:"lastRefreshedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Article is one persisted, status-tracked item derived from a feed entry.
// Content columns are overwritten on every reconciliation; the three status
// flags are stored separately and only ever mutated by explicit user actions.
type Article struct {
	ID              string     `json:"id"`
	FeedSourceID    string     `json:"feedSourceId"`
	GUID            string     `json:"guid,omitempty"`
	Title           string     `json:"title"`
	Link            string     `json:"link"`
	Description     string     `json:"description"`
	PubDate         string     `json:"pubDate"`
	IsoDate         string     `json:"isoDate,omitempty"`
	PublishedAt     *time.Time `json:"-"`
	Content         string     `json:"content,omitempty"`
	ContentSnippet  string     `json:"contentSnippet,omitempty"`
	Author          string     `json:"author,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	EnclosureURL    string     `json:"enclosureUrl,omitempty"`
	EnclosureType   string     `json:"enclosureType,omitempty"`
	EnclosureLength int64      `json:"enclosureLength,omitempty"`
	Read            bool       `json:"read"`
	Favorite        bool       `json:"favorite"`
	ReadLater       bool       `json:"readLater"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ArticleStatus is the durable per-article preference record.
type ArticleStatus struct {
	Read      bool `json:"read"`
	Favorite  bool `json:"favorite"`
	ReadLater bool `json:"readLater"`
}

// StatusPatch is a partial status update; nil fields are left untouched.
type StatusPatch struct {
	Read      *bool `json:"read,omitempty"`
	Favorite  *bool `json:"favorite,omitempty"`
	ReadLater *bool `json:"readLater,omitempty"`
}
