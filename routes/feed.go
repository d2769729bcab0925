package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/internal/linkedin"
	"hashtag-feed-platform/internal/logger"
	"hashtag-feed-platform/internal/queue"
)

// FeedResponse is the envelope served to every client variant. NextStart
// is omitted on the terminal page.
type FeedResponse struct {
	Posts       []feed.FeedPost `json:"posts"`
	Start       int             `json:"start"`
	Count       int             `json:"count"`
	NextStart   *int            `json:"nextStart,omitempty"`
	Hashtag     string          `json:"hashtag"`
	Synced      int             `json:"synced"`
	PinnedCount int             `json:"pinnedCount"`
	Total       int             `json:"total"`
}

func SetupFeedRoutes(router *gin.Engine, cfg *config.Config, aggregator *feed.Aggregator, queueClient *asynq.Client) {
	api := router.Group("/api")

	api.GET("/feed", func(c *gin.Context) {
		// The tracked hashtag is fixed per deployment; the query string
		// cannot redirect the feed at someone else's tag.
		hashtag := cfg.Hashtag

		// Malformed pagination params are clamped, never rejected: this
		// is a low-stakes read path.
		start := queryInt(c, "start", 0)
		count := queryInt(c, "count", feed.DefaultPageCount)

		ordered, err := aggregator.Aggregate(c.Request.Context(), hashtag)
		if err != nil {
			respondFeedError(c, err)
			return
		}

		page := feed.Paginate(ordered, start, count)

		if queueClient != nil && len(ordered) > 0 {
			enqueueSync(queueClient, hashtag, ordered)
		}

		c.JSON(http.StatusOK, FeedResponse{
			Posts:       page.Posts,
			Start:       page.Start,
			Count:       page.Count,
			NextStart:   page.NextStart,
			Hashtag:     hashtag,
			Synced:      len(ordered),
			PinnedCount: feed.PinnedCount(ordered, aggregator.PinLimit()),
			Total:       len(ordered),
		})
	})
}

// respondFeedError maps the aggregation error taxonomy onto the feed
// endpoint's wire contract. Missing credentials and upstream rejections
// both surface as 500, but are logged and worded distinctly so operators
// can tell them apart.
func respondFeedError(c *gin.Context, err error) {
	var upstreamErr *linkedin.UpstreamError
	switch {
	case errors.Is(err, linkedin.ErrMissingCredentials):
		logger.Error("Feed aggregation failed: credentials not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": linkedin.ErrMissingCredentials.Error()})
	case errors.As(err, &upstreamErr):
		logger.Error("Feed aggregation failed upstream",
			"status", upstreamErr.Status, "body", linkedin.Truncate(upstreamErr.Body, 200))
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamErr.Error()})
	default:
		logger.Error("Feed aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func enqueueSync(queueClient *asynq.Client, hashtag string, posts []feed.FeedPost) {
	task, err := queue.NewSyncFeedTask(hashtag, posts)
	if err != nil {
		logger.Warn("Failed to build feed sync task", "error", err)
		return
	}
	if _, err := queueClient.Enqueue(task); err != nil {
		logger.Warn("Failed to enqueue feed sync", "error", err)
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
