package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// EnsureDefaultFeeds subscribes the feeds listed in the given YAML file when
// the store holds no subscriptions yet (first run, or wiped database).
// Individual subscribe failures are logged and skipped; a missing file is
// not an error.
func (s *Service) EnsureDefaultFeeds(ctx context.Context, path string) error {
	count, err := s.feeds.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults, err := loadDefaultFeeds(path)
	if err != nil {
		return err
	}

	for _, defaultFeed := range defaults {
		if _, err := s.Subscribe(ctx, defaultFeed.URL, defaultFeed.Title); err != nil {
			slog.Warn("Failed to subscribe default feed", "url", defaultFeed.URL, "error", err)
		}
	}

	return nil
}

func loadDefaultFeeds(path string) ([]DefaultFeed, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read default feeds file: %w", err)
	}

	var doc struct {
		Feeds []DefaultFeed `yaml:"feeds"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse default feeds file: %w", err)
	}

	return doc.Feeds, nil
}
