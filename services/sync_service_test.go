package services

import (
	"context"
	"errors"
	"testing"

	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/models"
)

// fakeTipStore is an in-memory TipStore keyed by linkedin_post_id.
type fakeTipStore struct {
	tips        map[string]*models.Tip
	findErrOn   string
	insertErrOn string
}

func newFakeTipStore() *fakeTipStore {
	return &fakeTipStore{tips: map[string]*models.Tip{}}
}

func (s *fakeTipStore) FindByExternalID(ctx context.Context, externalID string) (*models.Tip, error) {
	if externalID == s.findErrOn {
		return nil, errors.New("lookup blew up")
	}
	return s.tips[externalID], nil
}

func (s *fakeTipStore) Insert(ctx context.Context, tip *models.Tip) error {
	if tip.LinkedInPostID == s.insertErrOn {
		return errors.New("insert blew up")
	}
	s.tips[tip.LinkedInPostID] = tip
	return nil
}

func TestSyncIfNew_InsertsOnlyUnseenPosts(t *testing.T) {
	store := newFakeTipStore()
	store.tips["urn:li:share:1"] = &models.Tip{LinkedInPostID: "urn:li:share:1"}
	svc := NewSyncService(store)

	posts := []feed.FeedPost{
		{ID: "urn:li:share:1", LinkedInPostID: "urn:li:share:1", Content: "already there"},
		{ID: "urn:li:share:2", LinkedInPostID: "urn:li:share:2", Content: "new tip", IsOwner: true},
	}

	inserted := svc.SyncIfNew(context.Background(), posts)
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}

	tip := store.tips["urn:li:share:2"]
	if tip == nil {
		t.Fatal("new post was not stored")
	}
	if tip.Content != "new tip" || !tip.IsOwner || !tip.Published {
		t.Errorf("stored tip = %+v", tip)
	}
}

func TestSyncIfNew_IsIdempotent(t *testing.T) {
	store := newFakeTipStore()
	svc := NewSyncService(store)
	posts := []feed.FeedPost{
		{ID: "urn:li:share:1", LinkedInPostID: "urn:li:share:1"},
		{ID: "urn:li:share:2", LinkedInPostID: "urn:li:share:2"},
	}

	if got := svc.SyncIfNew(context.Background(), posts); got != 2 {
		t.Fatalf("first pass inserted %d, want 2", got)
	}
	if got := svc.SyncIfNew(context.Background(), posts); got != 0 {
		t.Errorf("second pass inserted %d, want 0", got)
	}
	if len(store.tips) != 2 {
		t.Errorf("store holds %d tips, want 2", len(store.tips))
	}
}

func TestSyncIfNew_FallsBackToPostID(t *testing.T) {
	store := newFakeTipStore()
	svc := NewSyncService(store)

	inserted := svc.SyncIfNew(context.Background(), []feed.FeedPost{{ID: "urn:li:share:7"}})
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}
	if store.tips["urn:li:share:7"] == nil {
		t.Error("post keyed by id was not stored")
	}
}

func TestSyncIfNew_SkipsPostsWithoutAnyID(t *testing.T) {
	store := newFakeTipStore()
	svc := NewSyncService(store)

	inserted := svc.SyncIfNew(context.Background(), []feed.FeedPost{{Content: "anonymous"}})
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
	if len(store.tips) != 0 {
		t.Errorf("store holds %d tips, want 0", len(store.tips))
	}
}

func TestSyncIfNew_IndividualFailuresDoNotStopTheBatch(t *testing.T) {
	store := newFakeTipStore()
	store.findErrOn = "urn:li:share:1"
	store.insertErrOn = "urn:li:share:2"
	svc := NewSyncService(store)

	posts := []feed.FeedPost{
		{ID: "urn:li:share:1", LinkedInPostID: "urn:li:share:1"},
		{ID: "urn:li:share:2", LinkedInPostID: "urn:li:share:2"},
		{ID: "urn:li:share:3", LinkedInPostID: "urn:li:share:3"},
	}

	inserted := svc.SyncIfNew(context.Background(), posts)
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1 despite two failures", inserted)
	}
	if store.tips["urn:li:share:3"] == nil {
		t.Error("post after the failures was not stored")
	}
}
