package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/internal/logger"
	"hashtag-feed-platform/services"
)

const TaskSyncFeed = "feed:sync"

// SyncFeedPayload carries one aggregated batch to the sync worker.
type SyncFeedPayload struct {
	BatchID string          `json:"batch_id"`
	Hashtag string          `json:"hashtag"`
	Posts   []feed.FeedPost `json:"posts"`
}

// NewSyncFeedTask builds a feed:sync task for the given batch. Retries are
// safe: the sync is idempotent by external id.
func NewSyncFeedTask(hashtag string, posts []feed.FeedPost) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncFeedPayload{
		BatchID: uuid.NewString(),
		Hashtag: hashtag,
		Posts:   posts,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSyncFeed,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor handles queued feed tasks.
type TaskProcessor struct {
	sync *services.SyncService
}

func NewTaskProcessor(sync *services.SyncService) *TaskProcessor {
	return &TaskProcessor{sync: sync}
}

func (p *TaskProcessor) SyncFeed(ctx context.Context, t *asynq.Task) error {
	var payload SyncFeedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	inserted := p.sync.SyncIfNew(ctx, payload.Posts)
	logger.Info("Feed batch synced",
		"batch_id", payload.BatchID, "hashtag", payload.Hashtag,
		"posts", len(payload.Posts), "inserted", inserted)
	return nil
}
