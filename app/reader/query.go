package reader

import (
	"sort"
	"time"

	"github.com/lysyi3m/rss-reader/app/database"
)

// GetArticles returns the articles matching the filter, newest publication
// first. Articles sharing a publication date keep their stored order.
func (s *Service) GetArticles(filter *ArticleFilter) ([]database.Article, error) {
	var articles []database.Article
	var err error

	if filter != nil && filter.FeedID != "" {
		articles, err = s.articles.ListByFeed(filter.FeedID)
	} else {
		articles, err = s.articles.ListAll()
	}
	if err != nil {
		return nil, err
	}

	if filter != nil {
		filtered := make([]database.Article, 0, len(articles))
		for _, article := range articles {
			if filter.OnlyUnread && article.Read {
				continue
			}
			if filter.OnlyFavorites && !article.Favorite {
				continue
			}
			if filter.OnlyReadLater && !article.ReadLater {
				continue
			}
			if filter.SearchQuery != "" && !MatchesSearch(article, filter.SearchQuery) {
				continue
			}
			filtered = append(filtered, article)
		}
		articles = filtered
	}

	sortArticlesByDate(articles)

	return articles, nil
}

func (s *Service) GetArticle(id string) (*database.Article, error) {
	article, err := s.articles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, database.ErrArticleNotFound
	}
	return article, nil
}

// GetCounts recomputes the aggregate numbers on demand; there are no
// incremental counters to fall out of sync.
func (s *Service) GetCounts() (*Counts, error) {
	total, err := s.articles.CountAll()
	if err != nil {
		return nil, err
	}
	unread, err := s.articles.CountUnread()
	if err != nil {
		return nil, err
	}
	favorites, err := s.articles.CountFavorites()
	if err != nil {
		return nil, err
	}
	readLater, err := s.articles.CountReadLater()
	if err != nil {
		return nil, err
	}

	return &Counts{
		Total:     total,
		Unread:    unread,
		Favorites: favorites,
		ReadLater: readLater,
	}, nil
}

func sortArticlesByDate(articles []database.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articleDate(articles[i]).After(articleDate(articles[j]))
	})
}

func articleDate(article database.Article) time.Time {
	if article.PublishedAt != nil {
		return *article.PublishedAt
	}
	if parsed, err := time.Parse(time.RFC1123Z, article.PubDate); err == nil {
		return parsed
	}
	if parsed, err := time.Parse(time.RFC1123, article.PubDate); err == nil {
		return parsed
	}
	return time.Time{}
}
