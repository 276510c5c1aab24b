package database

import (
	"time"
)

type FeedSourceRepository interface {
	// Add is idempotent by URL: subscribing an already-subscribed URL
	// returns the existing id with created = false.
	Add(url, title string) (id string, created bool, err error)
	GetByID(id string) (*FeedSource, error)
	GetByURL(url string) (*FeedSource, error)
	List() ([]FeedSource, error)
	UpdateTitle(id, title string) error
	Remove(id string) error
	TouchRefreshed(id string, at time.Time) error
	Count() (int, error)
}

type ArticleRepository interface {
	Upsert(article Article) error
	GetByID(id string) (*Article, error)
	ListByFeed(feedSourceID string) ([]Article, error)
	ListAll() ([]Article, error)
	UpdateStatus(articleID, feedSourceID string, patch StatusPatch) error
	UpdateContent(articleID, content string) error
	MarkAllRead(feedSourceID string) error
	CountAll() (int, error)
	CountUnread() (int, error)
	CountFavorites() (int, error)
	CountReadLater() (int, error)
}
