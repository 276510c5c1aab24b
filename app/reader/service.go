package reader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lysyi3m/rss-reader/app/database"
	"github.com/lysyi3m/rss-reader/app/feed"
)

// Service is the subscription and preference store of the application. It
// owns all mutations of the persisted state; handlers and background work
// go through it rather than through the repositories directly.
type Service struct {
	feeds     database.FeedSourceRepository
	articles  database.ArticleRepository
	fetcher   *feed.Fetcher
	parser    *feed.Parser
	reconcile *feed.Reconciler
	extractor *feed.ContentExtractor

	workerCount int

	mu         sync.Mutex
	refreshing map[string]bool
}

func NewService(feeds database.FeedSourceRepository, articles database.ArticleRepository,
	fetcher *feed.Fetcher, workerCount int) *Service {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Service{
		feeds:       feeds,
		articles:    articles,
		fetcher:     fetcher,
		parser:      feed.NewParser(),
		reconcile:   feed.NewReconciler(),
		extractor:   feed.NewContentExtractor(),
		workerCount: workerCount,
		refreshing:  make(map[string]bool),
	}
}

// Subscribe fetches and parses the feed at url, persists a new subscription
// and reconciles its initial articles. A URL that is already subscribed is
// rejected with database.ErrDuplicateFeed. When title is empty the feed's
// own title is used.
func (s *Service) Subscribe(ctx context.Context, url, title string) (*database.FeedSource, error) {
	existing, err := s.feeds.GetByURL(url)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("feed %q: %w", existing.Title, database.ErrDuplicateFeed)
	}

	data, err := s.fetcher.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	normalized, err := s.parser.Run(data)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = normalized.Title
	}

	id, created, err := s.feeds.Add(url, title)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with a concurrent subscribe for the same URL
		return nil, fmt.Errorf("feed %q: %w", title, database.ErrDuplicateFeed)
	}

	if err := s.persistReconciled(id, nil, normalized.Items); err != nil {
		return nil, err
	}

	feedSource, err := s.feeds.GetByID(id)
	if err != nil {
		return nil, err
	}

	slog.Info("Feed subscribed", "feed", title, "url", url, "items", len(normalized.Items))

	return feedSource, nil
}

// Unsubscribe removes a subscription and every article and status record it
// owns.
func (s *Service) Unsubscribe(id string) error {
	if err := s.feeds.Remove(id); err != nil {
		return err
	}

	slog.Info("Feed unsubscribed", "feed_source_id", id)
	return nil
}

// RenameFeed changes a subscription's title without refetching.
func (s *Service) RenameFeed(id, title string) error {
	return s.feeds.UpdateTitle(id, title)
}

func (s *Service) ListFeeds() ([]database.FeedSource, error) {
	return s.feeds.List()
}

func (s *Service) GetFeed(id string) (*database.FeedSource, error) {
	feedSource, err := s.feeds.GetByID(id)
	if err != nil {
		return nil, err
	}
	if feedSource == nil {
		return nil, database.ErrFeedNotFound
	}
	return feedSource, nil
}

// UpdateArticleStatus merges a partial status patch into the article's
// preference record; fields not present in the patch keep their value.
func (s *Service) UpdateArticleStatus(articleID string, patch database.StatusPatch) error {
	article, err := s.articles.GetByID(articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return database.ErrArticleNotFound
	}

	return s.articles.UpdateStatus(articleID, article.FeedSourceID, patch)
}

// MarkAllRead marks every article as read, scoped to one feed when feedID is
// non-empty.
func (s *Service) MarkAllRead(feedID string) error {
	if feedID != "" {
		if _, err := s.GetFeed(feedID); err != nil {
			return err
		}
	}
	return s.articles.MarkAllRead(feedID)
}

// ExtractContent fetches the article's page and replaces its content with
// the readability-extracted version.
func (s *Service) ExtractContent(ctx context.Context, articleID string) (*database.Article, error) {
	article, err := s.articles.GetByID(articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, database.ErrArticleNotFound
	}
	if article.Link == "" {
		return nil, fmt.Errorf("article has no link to extract content from")
	}

	data, err := s.fetcher.FetchPage(ctx, article.Link)
	if err != nil {
		return nil, err
	}

	content, err := s.extractor.Run(data, article.Link)
	if err != nil {
		return nil, err
	}

	if err := s.articles.UpdateContent(articleID, content); err != nil {
		return nil, err
	}

	article.Content = content
	return article, nil
}

func (s *Service) persistReconciled(feedSourceID string, existing []database.Article, items []feed.NormalizedItem) error {
	reconciled := s.reconcile.Run(feedSourceID, existing, items)
	for _, article := range reconciled {
		if err := s.articles.Upsert(article); err != nil {
			return err
		}
	}
	return nil
}
