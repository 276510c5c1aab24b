package api

import (
	"github.com/lysyi3m/rss-reader/app/database"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/reader"
)

type Handler struct {
	service *reader.Service
	fetcher *feed.Fetcher
	parser  *feed.Parser
}

type SubscribeRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

type RenameFeedRequest struct {
	Title string `json:"title" binding:"required"`
}

type FeedResponse struct {
	Feed *database.FeedSource `json:"feed"`
}

type FeedListResponse struct {
	Feeds []database.FeedSource `json:"feeds"`
	Total int                   `json:"total"`
}

type ArticleResponse struct {
	Article *database.Article `json:"article"`
}

type ArticleListResponse struct {
	Articles []database.Article `json:"articles"`
	Total    int                `json:"total"`
}

type RemoteFeedResponse struct {
	Feed *feed.NormalizedFeed `json:"feed"`
}

type RefreshResponse struct {
	Results []reader.RefreshResult `json:"results"`
}
