package reader

import (
	"testing"
	"time"

	"github.com/lysyi3m/rss-reader/app/database"
)

func TestGetArticlesSortsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	feedID := env.addFeed(t, "https://example.com/feed.xml")

	day := func(d int) time.Time {
		return time.Date(2023, 7, d, 10, 0, 0, 0, time.UTC)
	}

	// Inserted out of publication order on purpose
	env.addArticle(t, feedID, "a1", "Day One", day(1))
	env.addArticle(t, feedID, "a3", "Day Three", day(3))
	env.addArticle(t, feedID, "a2", "Day Two", day(2))

	articles, err := env.service.GetArticles(nil)
	if err != nil {
		t.Fatalf("Failed to get articles: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}

	for i, expected := range []string{"a3", "a2", "a1"} {
		if articles[i].ID != expected {
			t.Errorf("Expected %s at position %d, got %s", expected, i, articles[i].ID)
		}
	}
}

func TestGetArticlesStableOrderForEqualDates(t *testing.T) {
	env := newTestEnv(t)
	feedID := env.addFeed(t, "https://example.com/feed.xml")

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	env.addArticle(t, feedID, "a1", "First Stored", published)
	env.addArticle(t, feedID, "a2", "Second Stored", published)
	env.addArticle(t, feedID, "a3", "Third Stored", published)

	articles, err := env.service.GetArticles(nil)
	if err != nil {
		t.Fatalf("Failed to get articles: %v", err)
	}

	for i, expected := range []string{"a1", "a2", "a3"} {
		if articles[i].ID != expected {
			t.Errorf("Equal dates must keep stored order: expected %s at %d, got %s", expected, i, articles[i].ID)
		}
	}
}

func TestGetArticlesFilters(t *testing.T) {
	env := newTestEnv(t)
	feedID := env.addFeed(t, "https://example.com/feed.xml")
	otherFeedID := env.addFeed(t, "https://example.com/other.xml")

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	env.addArticle(t, feedID, "a1", "Go Release Notes", published)
	env.addArticle(t, feedID, "a2", "Rust Release Notes", published)
	env.addArticle(t, otherFeedID, "b1", "Python Weekly", published)

	if err := env.service.UpdateArticleStatus("a1", database.StatusPatch{Read: boolPtr(true)}); err != nil {
		t.Fatalf("Failed to mark a1 read: %v", err)
	}
	if err := env.service.UpdateArticleStatus("a2", database.StatusPatch{Favorite: boolPtr(true)}); err != nil {
		t.Fatalf("Failed to favorite a2: %v", err)
	}
	if err := env.service.UpdateArticleStatus("b1", database.StatusPatch{ReadLater: boolPtr(true)}); err != nil {
		t.Fatalf("Failed to mark b1 read later: %v", err)
	}

	tests := []struct {
		name     string
		filter   *ArticleFilter
		expected []string
	}{
		{"by feed", &ArticleFilter{FeedID: feedID}, []string{"a1", "a2"}},
		{"unread only", &ArticleFilter{OnlyUnread: true}, []string{"a2", "b1"}},
		{"favorites only", &ArticleFilter{OnlyFavorites: true}, []string{"a2"}},
		{"read later only", &ArticleFilter{OnlyReadLater: true}, []string{"b1"}},
		{"search", &ArticleFilter{SearchQuery: "release"}, []string{"a1", "a2"}},
		{"search scoped to feed", &ArticleFilter{FeedID: feedID, SearchQuery: "rust"}, []string{"a2"}},
		{"combined", &ArticleFilter{OnlyUnread: true, SearchQuery: "notes"}, []string{"a2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, err := env.service.GetArticles(tt.filter)
			if err != nil {
				t.Fatalf("Failed to get articles: %v", err)
			}
			if len(articles) != len(tt.expected) {
				t.Fatalf("Expected %d articles, got %d", len(tt.expected), len(articles))
			}
			got := make(map[string]bool, len(articles))
			for _, article := range articles {
				got[article.ID] = true
			}
			for _, id := range tt.expected {
				if !got[id] {
					t.Errorf("Expected article %s in result set", id)
				}
			}
		})
	}
}

func TestGetCounts(t *testing.T) {
	env := newTestEnv(t)
	feedID := env.addFeed(t, "https://example.com/feed.xml")

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	env.addArticle(t, feedID, "a1", "First", published)
	env.addArticle(t, feedID, "a2", "Second", published)

	if err := env.service.UpdateArticleStatus("a1", database.StatusPatch{Read: boolPtr(true), Favorite: boolPtr(true)}); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	counts, err := env.service.GetCounts()
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}

	if counts.Total != 2 {
		t.Errorf("Expected total 2, got %d", counts.Total)
	}
	if counts.Unread != 1 {
		t.Errorf("Expected unread 1, got %d", counts.Unread)
	}
	if counts.Favorites != 1 {
		t.Errorf("Expected favorites 1, got %d", counts.Favorites)
	}
	if counts.ReadLater != 0 {
		t.Errorf("Expected read later 0, got %d", counts.ReadLater)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.service.GetArticle("missing"); err != database.ErrArticleNotFound {
		t.Errorf("Expected ErrArticleNotFound, got: %v", err)
	}
}
