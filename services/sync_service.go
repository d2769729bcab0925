package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/internal/logger"
	"hashtag-feed-platform/models"
)

const tipsCollection = "tips"

// TipStore abstracts the persistence layer for synced posts.
type TipStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Tip, error)
	Insert(ctx context.Context, tip *models.Tip) error
}

// MongoTipStore backs TipStore with the tips collection.
type MongoTipStore struct {
	col *mongo.Collection
}

func NewMongoTipStore(db *mongo.Database) *MongoTipStore {
	return &MongoTipStore{col: db.Collection(tipsCollection)}
}

// FindByExternalID returns the tip with the given linkedin_post_id, or
// nil when absent.
func (s *MongoTipStore) FindByExternalID(ctx context.Context, externalID string) (*models.Tip, error) {
	var tip models.Tip
	err := s.col.FindOne(ctx, bson.M{"linkedin_post_id": externalID}).Decode(&tip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

func (s *MongoTipStore) Insert(ctx context.Context, tip *models.Tip) error {
	now := time.Now().UTC()
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = now
	}
	tip.UpdatedAt = now
	_, err := s.col.InsertOne(ctx, tip)
	return err
}

// SyncService upserts observed posts into the store by external id. It is
// the dedup boundary against persistence, separate from the in-memory
// dedup inside the aggregation run.
type SyncService struct {
	store TipStore
}

func NewSyncService(store TipStore) *SyncService {
	return &SyncService{store: store}
}

// SyncIfNew inserts every post not already present, keyed by its LinkedIn
// post id. Individual failures are logged and skipped; the loop always
// finishes and reports how many posts were actually inserted. Calling it
// again with an overlapping set inserts nothing new.
func (s *SyncService) SyncIfNew(ctx context.Context, posts []feed.FeedPost) int {
	inserted := 0
	for _, post := range posts {
		externalID := post.LinkedInPostID
		if externalID == "" {
			externalID = post.ID
		}
		if externalID == "" {
			continue
		}

		existing, err := s.store.FindByExternalID(ctx, externalID)
		if err != nil {
			logger.Error("Sync lookup failed", "linkedin_post_id", externalID, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		tip := &models.Tip{
			Content:          post.Content,
			LinkedInPostID:   externalID,
			AuthorName:       post.AuthorName,
			AuthorAvatarURL:  post.AuthorAvatarURL,
			AuthorProfileURL: post.AuthorProfileURL,
			IsOwner:          post.IsOwner,
			Published:        true,
			CreatedAt:        parseCreatedAt(post.CreatedAt),
		}

		if err := s.store.Insert(ctx, tip); err != nil {
			// A concurrent writer may have won the race; the unique index
			// on linkedin_post_id makes that a duplicate key, which means
			// the post is present and nothing was lost.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			logger.Error("Sync insert failed", "linkedin_post_id", externalID, "error", err)
			continue
		}
		inserted++
	}
	return inserted
}

func parseCreatedAt(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
