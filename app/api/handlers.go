package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-reader/app/database"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/reader"
)

func NewHandler(service *reader.Service, fetcher *feed.Fetcher) *Handler {
	return &Handler{
		service: service,
		fetcher: fetcher,
		parser:  feed.NewParser(),
	}
}

// GetRemoteFeed is the feed fetch gateway: it fetches a remote URL, parses
// it and returns the normalized feed. Parse failures are 400s so callers
// can tell a bad feed from a network problem.
func (h *Handler) GetRemoteFeed(c *gin.Context) {
	feedURL := c.Query("url")
	if feedURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feed URL is required"})
		return
	}

	data, err := h.fetcher.Run(c.Request.Context(), feedURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	normalized, err := h.parser.Run(data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RemoteFeedResponse{Feed: normalized})
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feed URL is required"})
		return
	}

	feedSource, err := h.service.Subscribe(c.Request.Context(), req.URL, req.Title)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, FeedResponse{Feed: feedSource})
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.service.ListFeeds()
	if err != nil {
		h.respondError(c, err)
		return
	}
	if feeds == nil {
		feeds = []database.FeedSource{}
	}

	c.JSON(http.StatusOK, FeedListResponse{Feeds: feeds, Total: len(feeds)})
}

func (h *Handler) GetFeed(c *gin.Context) {
	feedSource, err := h.service.GetFeed(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Feed: feedSource})
}

func (h *Handler) RenameFeed(c *gin.Context) {
	var req RenameFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feed title is required"})
		return
	}

	if err := h.service.RenameFeed(c.Param("id"), req.Title); err != nil {
		h.respondError(c, err)
		return
	}

	feedSource, err := h.service.GetFeed(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Feed: feedSource})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	if err := h.service.Unsubscribe(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RefreshFeed(c *gin.Context) {
	result, err := h.service.RefreshFeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) RefreshAll(c *gin.Context) {
	results, err := h.service.RefreshAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{Results: results})
}

func (h *Handler) MarkFeedRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(""); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListArticles(c *gin.Context) {
	filter := &reader.ArticleFilter{
		FeedID:        c.Query("feed_id"),
		OnlyUnread:    parseBoolQuery(c, "unread"),
		OnlyFavorites: parseBoolQuery(c, "favorites"),
		OnlyReadLater: parseBoolQuery(c, "read_later"),
		SearchQuery:   c.Query("q"),
	}

	articles, err := h.service.GetArticles(filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if articles == nil {
		articles = []database.Article{}
	}

	c.JSON(http.StatusOK, ArticleListResponse{Articles: articles, Total: len(articles)})
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.service.GetArticle(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ArticleResponse{Article: article})
}

func (h *Handler) UpdateArticleStatus(c *gin.Context) {
	var patch database.StatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload"})
		return
	}

	if err := h.service.UpdateArticleStatus(c.Param("id"), patch); err != nil {
		h.respondError(c, err)
		return
	}

	article, err := h.service.GetArticle(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ArticleResponse{Article: article})
}

func (h *Handler) ExtractArticleContent(c *gin.Context) {
	article, err := h.service.ExtractContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ArticleResponse{Article: article})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feeds, err := h.service.ListFeeds(); err == nil {
		health["feeds"] = len(feeds)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.service.GetCounts()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// respondError recovers domain errors at the operation boundary and maps
// them onto user-facing responses; nothing propagates as an unhandled fault.
func (h *Handler) respondError(c *gin.Context, err error) {
	var fetchErr *feed.FetchError
	var parseErr *feed.ParseError
	var contentTypeErr *feed.ContentTypeError

	switch {
	case errors.As(err, &fetchErr):
		status := fetchErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": fetchErr.Message})
	case errors.As(err, &contentTypeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": contentTypeErr.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Message})
	case errors.Is(err, database.ErrDuplicateFeed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrFeedNotFound), errors.Is(err, database.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reader.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseBoolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && value
}
