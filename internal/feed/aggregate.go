package feed

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"hashtag-feed-platform/internal/linkedin"
	"hashtag-feed-platform/internal/logger"
)

// Pager abstracts the upstream search client for the aggregation loop.
type Pager interface {
	FetchPage(ctx context.Context, hashtag string, start, count int) ([]linkedin.RawPost, error)
}

// Aggregator collects normalized posts across upstream pages, deduplicates
// them, and produces the pinned two-tier ordering. All state lives for one
// call; concurrent Aggregate calls share nothing.
type Aggregator struct {
	pager       Pager
	normalizer  *Normalizer
	maxTotal    int
	maxRequests int
	pageLimit   int
	minPageSize int
	pinLimit    int
}

func NewAggregator(pager Pager, normalizer *Normalizer, maxTotal, maxRequests, pageLimit, pinLimit int) *Aggregator {
	return &Aggregator{
		pager:       pager,
		normalizer:  normalizer,
		maxTotal:    maxTotal,
		maxRequests: maxRequests,
		pageLimit:   pageLimit,
		minPageSize: 10,
		pinLimit:    pinLimit,
	}
}

// PinLimit returns the configured owner pin cap.
func (a *Aggregator) PinLimit() int {
	return a.pinLimit
}

// Aggregate walks upstream pages until maxTotal distinct posts are
// collected or the request budget runs out, then returns the pinned
// ordering. Zero matches is an empty slice, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, hashtag string) ([]FeedPost, error) {
	tracer := otel.Tracer("feed-aggregator")
	ctx, span := tracer.Start(ctx, "feed.aggregate")
	defer span.End()

	collected := make([]FeedPost, 0, a.maxTotal)
	seen := make(map[string]struct{}, a.maxTotal)
	cursor := 0
	requests := 0

	for len(collected) < a.maxTotal && requests < a.maxRequests {
		remaining := a.maxTotal - len(collected)

		// Request a buffer larger than the remaining budget floor so the
		// pinning pass has owner posts to work with even on sparse pages.
		fetchCount := remaining
		if fetchCount < a.minPageSize {
			fetchCount = a.minPageSize
		}
		if fetchCount > a.pageLimit {
			fetchCount = a.pageLimit
		}

		elements, err := a.pager.FetchPage(ctx, hashtag, cursor, fetchCount)
		requests++
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("fetching page at cursor %d: %w", cursor, err)
		}

		if len(elements) == 0 {
			logger.Debug("Upstream page empty, stopping", "cursor", cursor, "requests", requests)
			break
		}

		for _, raw := range elements {
			post := a.normalizer.Normalize(raw, hashtag)
			if post == nil {
				continue
			}
			if _, dup := seen[post.ID]; dup {
				continue
			}
			if len(collected) >= a.maxTotal {
				break
			}
			seen[post.ID] = struct{}{}
			collected = append(collected, *post)
		}

		// Upstream pagination is in raw-element units, so the cursor
		// advances by the raw page length, not the normalized count.
		cursor += len(elements)
	}

	ordered := orderWithPins(collected, a.pinLimit)

	span.SetAttributes(
		attribute.Int("feed.requests", requests),
		attribute.Int("feed.collected", len(collected)),
		attribute.Int("feed.ordered", len(ordered)),
	)
	logger.Debug("Aggregation complete",
		"hashtag", hashtag, "requests", requests, "collected", len(collected), "ordered", len(ordered))

	return ordered, nil
}

// orderWithPins builds the final two-tier ordering: up to pinLimit owner
// posts (newest first) ahead of all community posts (newest first). Owner
// posts beyond the pin cap are dropped from the feed entirely.
func orderWithPins(posts []FeedPost, pinLimit int) []FeedPost {
	owners := make([]FeedPost, 0, len(posts))
	others := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		if p.IsOwner {
			owners = append(owners, p)
		} else {
			others = append(others, p)
		}
	}

	sortByRecency(owners)
	sortByRecency(others)

	if len(owners) > pinLimit {
		owners = owners[:pinLimit]
	}

	return append(owners, others...)
}

func sortByRecency(posts []FeedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].createdTime().After(posts[j].createdTime())
	})
}

// PinnedCount reports how many owner posts lead the given ordering, capped
// at pinLimit. Used for the response envelope.
func PinnedCount(ordered []FeedPost, pinLimit int) int {
	count := 0
	for _, p := range ordered {
		if !p.IsOwner || count >= pinLimit {
			break
		}
		count++
	}
	return count
}
