package reader

import (
	"time"
)

// ArticleFilter selects a view over the article collection. All clauses are
// AND-combined; the zero value matches everything.
type ArticleFilter struct {
	FeedID        string
	OnlyUnread    bool
	OnlyFavorites bool
	OnlyReadLater bool
	SearchQuery   string
}

// RefreshResult reports the outcome of refreshing a single feed source.
// Err is a message rather than an error value so a batch refresh can be
// serialized as-is; an empty Err means success.
type RefreshResult struct {
	FeedSourceID string        `json:"feedSourceId"`
	Title        string        `json:"title"`
	NewCount     int           `json:"new"`
	UpdatedCount int           `json:"updated"`
	TotalCount   int           `json:"total"`
	Duration     time.Duration `json:"-"`
	Err          string        `json:"error,omitempty"`
}

// Counts are the on-demand aggregate numbers over the article collection.
type Counts struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Favorites int `json:"favorites"`
	ReadLater int `json:"readLater"`
}

// DefaultFeed is one entry of the default-subscription file.
type DefaultFeed struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}
