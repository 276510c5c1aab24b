package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

var _ ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo handles database operations for articles and their status
// records. Content columns are disposable and overwritten by reconciliation;
// status rows are only ever touched by explicit user actions.
type ArticleRepo struct {
	db *DB
}

func NewArticleRepo(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

const articleColumns = `
	a.id, a.feed_source_id, a.guid, a.link, a.title, a.description,
	a.pub_date, a.iso_date, a.published_at, a.content, a.content_snippet,
	a.author, a.categories, a.image_url,
	a.enclosure_url, a.enclosure_type, a.enclosure_length,
	COALESCE(s.is_read, 0), COALESCE(s.is_favorite, 0), COALESCE(s.is_read_later, 0),
	a.created_at`

// Upsert writes an article's content columns. Status rows live in a separate
// table and are deliberately untouched here, so a content refresh can never
// reset user flags.
func (r *ArticleRepo) Upsert(article Article) error {
	categories, err := json.Marshal(article.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	var publishedAt sql.NullTime
	if article.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: article.PublishedAt.UTC(), Valid: true}
	}

	_, err = r.db.Exec(`
		INSERT INTO articles (
			id, feed_source_id, guid, link, title, description,
			pub_date, iso_date, published_at, content, content_snippet,
			author, categories, image_url,
			enclosure_url, enclosure_type, enclosure_length
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			guid = excluded.guid,
			link = excluded.link,
			title = excluded.title,
			description = excluded.description,
			pub_date = excluded.pub_date,
			iso_date = excluded.iso_date,
			published_at = excluded.published_at,
			content = excluded.content,
			content_snippet = excluded.content_snippet,
			author = excluded.author,
			categories = excluded.categories,
			image_url = excluded.image_url,
			enclosure_url = excluded.enclosure_url,
			enclosure_type = excluded.enclosure_type,
			enclosure_length = excluded.enclosure_length
	`, article.ID, article.FeedSourceID, article.GUID, article.Link,
		article.Title, article.Description, article.PubDate, article.IsoDate,
		publishedAt, article.Content, article.ContentSnippet, article.Author,
		string(categories), article.ImageURL,
		article.EnclosureURL, article.EnclosureType, article.EnclosureLength)

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

func (r *ArticleRepo) GetByID(id string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN article_statuses s ON s.article_id = a.id
		WHERE a.id = ?
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

func (r *ArticleRepo) ListByFeed(feedSourceID string) ([]Article, error) {
	return r.list(`
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN article_statuses s ON s.article_id = a.id
		WHERE a.feed_source_id = ?
		ORDER BY a.rowid
	`, feedSourceID)
}

func (r *ArticleRepo) ListAll() ([]Article, error) {
	return r.list(`
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN article_statuses s ON s.article_id = a.id
		ORDER BY a.rowid
	`)
}

func (r *ArticleRepo) list(query string, args ...any) ([]Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var publishedAt sql.NullTime
	var categories string

	err := row.Scan(
		&article.ID, &article.FeedSourceID, &article.GUID, &article.Link,
		&article.Title, &article.Description, &article.PubDate, &article.IsoDate,
		&publishedAt, &article.Content, &article.ContentSnippet,
		&article.Author, &categories, &article.ImageURL,
		&article.EnclosureURL, &article.EnclosureType, &article.EnclosureLength,
		&article.Read, &article.Favorite, &article.ReadLater,
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		published := publishedAt.Time
		article.PublishedAt = &published
	}

	if categories != "" && categories != "null" {
		if err := json.Unmarshal([]byte(categories), &article.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	}

	return &article, nil
}

// UpdateStatus merges a partial status update into the article's status
// record; absent fields keep their previous value, missing records default
// to all-false before the patch is applied.
func (r *ArticleRepo) UpdateStatus(articleID, feedSourceID string, patch StatusPatch) error {
	read := nullableBool(patch.Read)
	favorite := nullableBool(patch.Favorite)
	readLater := nullableBool(patch.ReadLater)

	_, err := r.db.Exec(`
		INSERT INTO article_statuses (article_id, feed_source_id, is_read, is_favorite, is_read_later)
		VALUES (?, ?, COALESCE(?, 0), COALESCE(?, 0), COALESCE(?, 0))
		ON CONFLICT (article_id) DO UPDATE SET
			is_read = COALESCE(?, article_statuses.is_read),
			is_favorite = COALESCE(?, article_statuses.is_favorite),
			is_read_later = COALESCE(?, article_statuses.is_read_later),
			updated_at = CURRENT_TIMESTAMP
	`, articleID, feedSourceID, read, favorite, readLater, read, favorite, readLater)

	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}

	return nil
}

func (r *ArticleRepo) UpdateContent(articleID, content string) error {
	result, err := r.db.Exec(`
		UPDATE articles
		SET content = ?
		WHERE id = ?
	`, content, articleID)
	if err != nil {
		return fmt.Errorf("failed to update article content: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// MarkAllRead flags every article as read, scoped to one feed source when
// feedSourceID is non-empty.
func (r *ArticleRepo) MarkAllRead(feedSourceID string) error {
	query := `
		INSERT INTO article_statuses (article_id, feed_source_id, is_read)
		SELECT id, feed_source_id, 1 FROM articles WHERE true
		ON CONFLICT (article_id) DO UPDATE SET
			is_read = 1,
			updated_at = CURRENT_TIMESTAMP
	`
	args := []any{}

	if feedSourceID != "" {
		query = `
			INSERT INTO article_statuses (article_id, feed_source_id, is_read)
			SELECT id, feed_source_id, 1 FROM articles WHERE feed_source_id = ?
			ON CONFLICT (article_id) DO UPDATE SET
				is_read = 1,
				updated_at = CURRENT_TIMESTAMP
		`
		args = append(args, feedSourceID)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to mark articles as read: %w", err)
	}

	return nil
}

func (r *ArticleRepo) CountAll() (int, error) {
	return r.count(`SELECT COUNT(*) FROM articles`)
}

func (r *ArticleRepo) CountUnread() (int, error) {
	return r.count(`
		SELECT COUNT(*)
		FROM articles a
		LEFT JOIN article_statuses s ON s.article_id = a.id
		WHERE COALESCE(s.is_read, 0) = 0
	`)
}

func (r *ArticleRepo) CountFavorites() (int, error) {
	return r.count(`
		SELECT COUNT(*)
		FROM articles a
		JOIN article_statuses s ON s.article_id = a.id
		WHERE s.is_favorite = 1
	`)
}

func (r *ArticleRepo) CountReadLater() (int, error) {
	return r.count(`
		SELECT COUNT(*)
		FROM articles a
		JOIN article_statuses s ON s.article_id = a.id
		WHERE s.is_read_later = 1
	`)
}

func (r *ArticleRepo) count(query string) (int, error) {
	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
