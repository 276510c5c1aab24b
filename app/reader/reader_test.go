package reader

import (
	"net/http"
	"testing"
	"time"

	"github.com/lysyi3m/rss-reader/app/database"
	"github.com/lysyi3m/rss-reader/app/feed"
)

type testEnv struct {
	service  *Service
	feeds    *database.FeedSourceRepo
	articles *database.ArticleRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	feeds := database.NewFeedSourceRepo(db)
	articles := database.NewArticleRepo(db)
	fetcher := feed.NewFetcher(&http.Client{}, "rss-reader-test", 5*time.Second)

	return &testEnv{
		service:  NewService(feeds, articles, fetcher, 2),
		feeds:    feeds,
		articles: articles,
	}
}

func (e *testEnv) addFeed(t *testing.T, url string) string {
	t.Helper()
	id, _, err := e.feeds.Add(url, url)
	if err != nil {
		t.Fatalf("Failed to add feed source: %v", err)
	}
	return id
}

func (e *testEnv) addArticle(t *testing.T, feedID, id, title string, publishedAt time.Time) {
	t.Helper()
	err := e.articles.Upsert(database.Article{
		ID:           id,
		FeedSourceID: feedID,
		GUID:         id,
		Link:         "https://example.com/" + id,
		Title:        title,
		Description:  title + " description",
		PubDate:      publishedAt.Format(time.RFC1123),
		IsoDate:      publishedAt.UTC().Format(time.RFC3339),
		PublishedAt:  &publishedAt,
	})
	if err != nil {
		t.Fatalf("Failed to upsert article %s: %v", id, err)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
