package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ FeedSourceRepository = (*FeedSourceRepo)(nil)

// FeedSourceRepo handles database operations for feed subscriptions.
type FeedSourceRepo struct {
	db *DB
}

func NewFeedSourceRepo(db *DB) *FeedSourceRepo {
	return &FeedSourceRepo{db: db}
}

func (r *FeedSourceRepo) Add(url, title string) (string, bool, error) {
	existing, err := r.GetByURL(url)
	if err != nil {
		return "", false, fmt.Errorf("failed to check existing feed: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	id := uuid.NewString()
	_, err = r.db.Exec(`
		INSERT INTO feed_sources (id, url, title)
		VALUES (?, ?, ?)
	`, id, url, title)
	if err != nil {
		return "", false, fmt.Errorf("failed to insert feed source: %w", err)
	}

	return id, true, nil
}

func (r *FeedSourceRepo) GetByID(id string) (*FeedSource, error) {
	return r.getOne(`
		SELECT id, url, title, last_refreshed_at, created_at, updated_at
		FROM feed_sources
		WHERE id = ?
	`, id)
}

func (r *FeedSourceRepo) GetByURL(url string) (*FeedSource, error) {
	return r.getOne(`
		SELECT id, url, title, last_refreshed_at, created_at, updated_at
		FROM feed_sources
		WHERE url = ?
	`, url)
}

func (r *FeedSourceRepo) getOne(query string, arg any) (*FeedSource, error) {
	var feedSource FeedSource
	var lastRefreshedAt sql.NullTime

	err := r.db.QueryRow(query, arg).Scan(
		&feedSource.ID, &feedSource.URL, &feedSource.Title,
		&lastRefreshedAt, &feedSource.CreatedAt, &feedSource.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed source: %w", err)
	}

	if lastRefreshedAt.Valid {
		feedSource.LastRefreshedAt = &lastRefreshedAt.Time
	}

	return &feedSource, nil
}

func (r *FeedSourceRepo) List() ([]FeedSource, error) {
	rows, err := r.db.Query(`
		SELECT id, url, title, last_refreshed_at, created_at, updated_at
		FROM feed_sources
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed sources: %w", err)
	}
	defer rows.Close()

	var feedSources []FeedSource
	for rows.Next() {
		var feedSource FeedSource
		var lastRefreshedAt sql.NullTime

		err := rows.Scan(
			&feedSource.ID, &feedSource.URL, &feedSource.Title,
			&lastRefreshedAt, &feedSource.CreatedAt, &feedSource.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed source row: %w", err)
		}

		if lastRefreshedAt.Valid {
			feedSource.LastRefreshedAt = &lastRefreshedAt.Time
		}

		feedSources = append(feedSources, feedSource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed source rows: %w", err)
	}

	return feedSources, nil
}

func (r *FeedSourceRepo) UpdateTitle(id, title string) error {
	result, err := r.db.Exec(`
		UPDATE feed_sources
		SET title = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, title, id)
	if err != nil {
		return fmt.Errorf("failed to update feed title: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrFeedNotFound
	}

	return nil
}

// Remove deletes a subscription together with every article and status
// record it owns, so no orphans survive the operation.
func (r *FeedSourceRepo) Remove(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM article_statuses WHERE feed_source_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete article statuses: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM articles WHERE feed_source_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM feed_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrFeedNotFound
	}

	return tx.Commit()
}

func (r *FeedSourceRepo) TouchRefreshed(id string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE feed_sources
		SET last_refreshed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last refreshed time: %w", err)
	}
	return nil
}

func (r *FeedSourceRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feed_sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feed sources: %w", err)
	}
	return count, nil
}
