package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/internal/linkedin"
	"hashtag-feed-platform/middleware"
)

type stubPager struct {
	pages [][]linkedin.RawPost
	calls int
	err   error
}

func (s *stubPager) FetchPage(ctx context.Context, hashtag string, start, count int) ([]linkedin.RawPost, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.calls > len(s.pages) {
		return nil, nil
	}
	return s.pages[s.calls-1], nil
}

func feedTestConfig() *config.Config {
	return &config.Config{
		Hashtag:             "#1ProTip",
		OwnerURN:            "urn:li:person:michaelsimoneau",
		OwnerHandle:         "michaelsimoneau",
		OwnerDisplayName:    "Michael Simoneau",
		PinLimit:            10,
		MaxFeedTotal:        100,
		MaxUpstreamRequests: 5,
		UpstreamPageLimit:   50,
	}
}

func newFeedRouter(cfg *config.Config, pager feed.Pager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	normalizer := feed.NewNormalizer(
		feed.NewOwnerMatcher(cfg.OwnerURN, cfg.OwnerHandle), cfg.OwnerDisplayName)
	aggregator := feed.NewAggregator(pager, normalizer,
		cfg.MaxFeedTotal, cfg.MaxUpstreamRequests, cfg.UpstreamPageLimit, cfg.PinLimit)

	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	SetupFeedRoutes(router, cfg, aggregator, nil)
	return router
}

func rawFeedPost(id string, minutesAgo int, owner bool) linkedin.RawPost {
	p := linkedin.RawPost{
		URN:        id,
		Commentary: &linkedin.TextBlock{Text: "#1ProTip " + id},
		CreatedAt:  float64(time.Now().Add(-time.Duration(minutesAgo) * time.Minute).UnixMilli()),
	}
	if owner {
		p.Author = "urn:li:person:michaelsimoneau"
	}
	return p
}

func getFeed(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, FeedResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body FeedResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
	}
	return w, body
}

func TestGetFeed_Envelope(t *testing.T) {
	pager := &stubPager{pages: [][]linkedin.RawPost{
		{
			rawFeedPost("urn:li:share:owner", 5, true),
			rawFeedPost("urn:li:share:c1", 1, false),
			rawFeedPost("urn:li:share:c2", 2, false),
		},
		{},
	}}
	router := newFeedRouter(feedTestConfig(), pager)

	w, body := getFeed(t, router, "/api/feed")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	if body.Hashtag != "#1ProTip" {
		t.Errorf("hashtag = %q, want #1ProTip", body.Hashtag)
	}
	if body.Total != 3 || body.Synced != 3 {
		t.Errorf("total/synced = %d/%d, want 3/3", body.Total, body.Synced)
	}
	if body.PinnedCount != 1 {
		t.Errorf("pinnedCount = %d, want 1", body.PinnedCount)
	}
	if body.Start != 0 || body.Count != feed.DefaultPageCount {
		t.Errorf("start/count = %d/%d, want 0/%d", body.Start, body.Count, feed.DefaultPageCount)
	}
	if len(body.Posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(body.Posts))
	}
	if body.Posts[0].ID != "urn:li:share:owner" {
		t.Errorf("first post = %q, want the pinned owner post", body.Posts[0].ID)
	}
	if body.NextStart != nil {
		t.Errorf("nextStart = %d, want omitted on a single page", *body.NextStart)
	}
}

func TestGetFeed_Pagination(t *testing.T) {
	page := make([]linkedin.RawPost, 25)
	for i := range page {
		page[i] = rawFeedPost(fmt.Sprintf("urn:li:share:%d", i), i, false)
	}
	pager := &stubPager{pages: [][]linkedin.RawPost{page, {}}}
	router := newFeedRouter(feedTestConfig(), pager)

	w, body := getFeed(t, router, "/api/feed?start=20&count=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(body.Posts) != 5 {
		t.Errorf("got %d posts, want the 5 remaining", len(body.Posts))
	}
	if body.NextStart != nil {
		t.Errorf("nextStart = %d, want omitted on the final page", *body.NextStart)
	}
	if body.Total != 25 {
		t.Errorf("total = %d, want 25", body.Total)
	}
}

func TestGetFeed_MalformedParamsAreClamped(t *testing.T) {
	pager := &stubPager{pages: [][]linkedin.RawPost{
		{rawFeedPost("urn:li:share:1", 1, false)},
		{},
	}}
	router := newFeedRouter(feedTestConfig(), pager)

	w, body := getFeed(t, router, "/api/feed?start=-4&count=banana")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (params are clamped, never rejected)", w.Code)
	}
	if body.Start != 0 {
		t.Errorf("start = %d, want 0", body.Start)
	}
	if body.Count != feed.DefaultPageCount {
		t.Errorf("count = %d, want the default", body.Count)
	}
}

func TestGetFeed_OversizedCountClamped(t *testing.T) {
	pager := &stubPager{pages: [][]linkedin.RawPost{{}}}
	router := newFeedRouter(feedTestConfig(), pager)

	w, body := getFeed(t, router, "/api/feed?count=5000")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body.Count != feed.MaxPageCount {
		t.Errorf("count = %d, want the cap %d", body.Count, feed.MaxPageCount)
	}
}

func TestGetFeed_UpstreamFailureIs500WithErrorBody(t *testing.T) {
	pager := &stubPager{err: &linkedin.UpstreamError{Status: 401, Body: "revoked"}}
	router := newFeedRouter(feedTestConfig(), pager)

	w, _ := getFeed(t, router, "/api/feed")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should carry a message under the error key")
	}
}

func TestGetFeed_MissingCredentialsIs500(t *testing.T) {
	pager := &stubPager{err: linkedin.ErrMissingCredentials}
	router := newFeedRouter(feedTestConfig(), pager)

	w, _ := getFeed(t, router, "/api/feed")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should name the missing credentials")
	}
}

func TestGetFeed_CORSPreflight(t *testing.T) {
	pager := &stubPager{pages: [][]linkedin.RawPost{{}}}
	router := newFeedRouter(feedTestConfig(), pager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/feed", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent && w.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestGetFeed_ResponseAllowsAnyOrigin(t *testing.T) {
	pager := &stubPager{pages: [][]linkedin.RawPost{{}}}
	router := newFeedRouter(feedTestConfig(), pager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
