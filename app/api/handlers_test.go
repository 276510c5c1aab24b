package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-reader/app/database"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/reader"
)

const rssDocument = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Remote Feed</title>
		<description>A remote feed</description>
		<link>https://example.com</link>
		<item>
			<guid>g1</guid>
			<link>https://example.com/1</link>
			<title>First</title>
			<description>First description</description>
			<pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
		</item>
	</channel>
</rss>`

// newUpstream serves canned responses keyed by path, standing in for remote
// feed hosts.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			fmt.Fprint(w, rssDocument)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>not a feed</body></html>")
		case "/broken.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, "<rss><channel><unclosed>")
		case "/missing.xml":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestServer(t *testing.T, apiAccessKey string) *gin.Engine {
	t.Helper()

	db, err := database.NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	fetcher := feed.NewFetcher(&http.Client{}, "rss-reader-test", 5*time.Second)
	service := reader.NewService(database.NewFeedSourceRepo(db), database.NewArticleRepo(db), fetcher, 2)

	return NewServer(NewHandler(service, fetcher), apiAccessKey)
}

func doRequest(t *testing.T, server *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", recorder.Body.String(), err)
	}
	return body.Error
}

func TestGetRemoteFeed(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/rss?url="+upstream.URL+"/feed.xml", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body RemoteFeedResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Feed == nil || body.Feed.Title != "Remote Feed" {
		t.Errorf("Expected normalized feed in response, got: %+v", body.Feed)
	}
	if len(body.Feed.Items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(body.Feed.Items))
	}
}

func TestGetRemoteFeedRequiresURL(t *testing.T) {
	server := newTestServer(t, "")

	recorder := doRequest(t, server, http.MethodGet, "/api/rss", "", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", recorder.Code)
	}
	if msg := errorMessage(t, recorder); msg != "Feed URL is required" {
		t.Errorf("Expected 'Feed URL is required', got: %s", msg)
	}
}

func TestGetRemoteFeedPropagatesUpstreamStatus(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/rss?url="+upstream.URL+"/missing.xml", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected upstream 404 to propagate, got %d", recorder.Code)
	}
	if msg := errorMessage(t, recorder); msg != "HTTP error! status: 404" {
		t.Errorf("Expected upstream status message, got: %s", msg)
	}
}

func TestGetRemoteFeedRejectsNonFeedContentType(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/rss?url="+upstream.URL+"/page.html", "", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-feed content type, got %d", recorder.Code)
	}
	if msg := errorMessage(t, recorder); msg != "URL does not point to a valid RSS feed" {
		t.Errorf("Expected content type rejection, got: %s", msg)
	}
}

func TestGetRemoteFeedRejectsMalformedFeed(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodGet, "/api/rss?url="+upstream.URL+"/broken.xml", "", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed feed, got %d", recorder.Code)
	}
}

func TestSubscribeEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)
	feedURL := upstream.URL + "/feed.xml"

	recorder := doRequest(t, server, http.MethodPost, "/api/feeds",
		fmt.Sprintf(`{"url": %q}`, feedURL), nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body FeedResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Feed.Title != "Remote Feed" {
		t.Errorf("Expected feed title fallback, got: %s", body.Feed.Title)
	}

	// Same URL again conflicts
	recorder = doRequest(t, server, http.MethodPost, "/api/feeds",
		fmt.Sprintf(`{"url": %q}`, feedURL), nil)
	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate URL, got %d", recorder.Code)
	}

	// Missing URL is a validation failure
	recorder = doRequest(t, server, http.MethodPost, "/api/feeds", `{"title": "no url"}`, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing URL, got %d", recorder.Code)
	}
}

func TestArticleStatusEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodPost, "/api/feeds",
		fmt.Sprintf(`{"url": %q}`, upstream.URL+"/feed.xml"), nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Failed to subscribe: %d", recorder.Code)
	}

	var subscribed FeedResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &subscribed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	articleID := feed.ArticleID(subscribed.Feed.ID, "g1")
	recorder = doRequest(t, server, http.MethodPatch, "/api/articles/"+articleID+"/status",
		`{"read": true}`, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body ArticleResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Article.Read {
		t.Error("Expected article marked read")
	}
	if body.Article.Favorite {
		t.Error("Untouched flag must stay false")
	}

	recorder = doRequest(t, server, http.MethodPatch, "/api/articles/missing/status",
		`{"read": true}`, nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown article, got %d", recorder.Code)
	}
}

func TestListArticlesEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	upstream := newUpstream(t)

	recorder := doRequest(t, server, http.MethodPost, "/api/feeds",
		fmt.Sprintf(`{"url": %q}`, upstream.URL+"/feed.xml"), nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Failed to subscribe: %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/articles?unread=true", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body ArticleListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Total != 1 {
		t.Errorf("Expected 1 unread article, got %d", body.Total)
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/articles?q=nomatch", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Total != 0 {
		t.Errorf("Expected empty result for unmatched search, got %d", body.Total)
	}
	if body.Articles == nil {
		t.Error("Expected empty array, not null")
	}
}

func TestFeedNotFoundEndpoints(t *testing.T) {
	server := newTestServer(t, "")

	checks := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/feeds/missing", ""},
		{http.MethodDelete, "/api/feeds/missing", ""},
		{http.MethodPost, "/api/feeds/missing/refresh", ""},
		{http.MethodPost, "/api/feeds/missing/read-all", ""},
		{http.MethodPatch, "/api/feeds/missing", `{"title": "x"}`},
	}

	for _, check := range checks {
		recorder := doRequest(t, server, check.method, check.path, check.body, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", check.method, check.path, recorder.Code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	server := newTestServer(t, "secret-key")

	recorder := doRequest(t, server, http.MethodGet, "/api/feeds", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/feeds", "", map[string]string{"X-API-Key": "wrong"})
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/feeds", "", map[string]string{"X-API-Key": "secret-key"})
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodGet, "/api/feeds", "", map[string]string{"Authorization": "Bearer secret-key"})
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", recorder.Code)
	}

	// Health endpoint stays public
	recorder = doRequest(t, server, http.MethodGet, "/health", "", nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected public health endpoint, got %d", recorder.Code)
	}
}
