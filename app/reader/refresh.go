package reader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-reader/app/database"
)

// ErrRefreshInProgress is returned when a refresh is requested for a feed
// source that is already being refreshed. Serializing per feed keeps two
// reconciliations from interleaving and duplicating articles.
var ErrRefreshInProgress = fmt.Errorf("refresh already in progress for this feed")

// RefreshFeed fetches, parses and reconciles one subscription. The existing
// articles' status flags survive; articles missing from the fetched window
// are retained.
func (s *Service) RefreshFeed(ctx context.Context, id string) (*RefreshResult, error) {
	feedSource, err := s.GetFeed(id)
	if err != nil {
		return nil, err
	}

	if !s.beginRefresh(id) {
		return nil, ErrRefreshInProgress
	}
	defer s.endRefresh(id)

	started := time.Now()

	result := &RefreshResult{
		FeedSourceID: feedSource.ID,
		Title:        feedSource.Title,
	}

	data, err := s.fetcher.Run(ctx, feedSource.URL)
	if err != nil {
		return nil, err
	}

	normalized, err := s.parser.Run(data)
	if err != nil {
		return nil, err
	}

	existing, err := s.articles.ListByFeed(id)
	if err != nil {
		return nil, err
	}

	existingIDs := make(map[string]bool, len(existing))
	for _, article := range existing {
		existingIDs[article.ID] = true
	}

	if err := s.persistReconciled(id, existing, normalized.Items); err != nil {
		return nil, err
	}

	if err := s.feeds.TouchRefreshed(id, time.Now()); err != nil {
		return nil, err
	}

	refreshed, err := s.articles.ListByFeed(id)
	if err != nil {
		return nil, err
	}

	result.TotalCount = len(refreshed)
	for _, article := range refreshed {
		if !existingIDs[article.ID] {
			result.NewCount++
		}
	}

	// Duplicate identities within one fetch reconcile onto a single article,
	// so updates are counted over distinct identities
	identities := make(map[string]bool, len(normalized.Items))
	for _, item := range normalized.Items {
		if identity := item.Identity(); identity != "" {
			identities[identity] = true
		}
	}
	result.UpdatedCount = len(identities) - result.NewCount
	if result.UpdatedCount < 0 {
		result.UpdatedCount = 0
	}
	result.Duration = time.Since(started)

	slog.Info("Feed refreshed",
		"feed", feedSource.Title,
		"duration", result.Duration,
		"total", result.TotalCount,
		"new", result.NewCount,
		"updated", result.UpdatedCount)

	return result, nil
}

// RefreshAll refreshes every subscription concurrently, bounded by the
// configured worker count. Each feed's success or failure is isolated: a
// failing feed contributes a result with an error message and never aborts
// the others.
func (s *Service) RefreshAll(ctx context.Context) ([]RefreshResult, error) {
	feedSources, err := s.feeds.List()
	if err != nil {
		return nil, err
	}

	results := make([]RefreshResult, len(feedSources))
	semaphore := make(chan struct{}, s.workerCount)
	var wg sync.WaitGroup

	for i, feedSource := range feedSources {
		wg.Add(1)
		go func(i int, feedSource database.FeedSource) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := s.RefreshFeed(ctx, feedSource.ID)
			if err != nil {
				slog.Warn("Feed refresh failed", "feed", feedSource.Title, "error", err)
				results[i] = RefreshResult{
					FeedSourceID: feedSource.ID,
					Title:        feedSource.Title,
					Err:          err.Error(),
				}
				return
			}
			results[i] = *result
		}(i, feedSource)
	}

	wg.Wait()

	return results, nil
}

func (s *Service) beginRefresh(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshing[id] {
		return false
	}
	s.refreshing[id] = true
	return true
}

func (s *Service) endRefresh(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshing, id)
}
