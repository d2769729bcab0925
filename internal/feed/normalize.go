package feed

import (
	"strings"
	"time"

	"hashtag-feed-platform/internal/linkedin"
)

// textCandidates is the ordered priority list for extracting a post body.
// The first candidate yielding non-empty text wins.
var textCandidates = []struct {
	Name    string
	Extract func(linkedin.RawPost) string
}{
	{"commentary", func(r linkedin.RawPost) string {
		if r.Commentary != nil {
			return r.Commentary.Text
		}
		return ""
	}},
	{"content", func(r linkedin.RawPost) string {
		if r.Content != nil {
			return r.Content.Text
		}
		return ""
	}},
	{"summary", func(r linkedin.RawPost) string {
		return r.Summary
	}},
	{"mediaDescription", func(r linkedin.RawPost) string {
		if r.Content != nil && r.Content.Media != nil {
			return r.Content.Media.Description
		}
		return ""
	}},
}

// timestampCandidates is the ordered priority list for resolving a post's
// creation time. Malformed values fall through to the next candidate;
// resolution never fails.
var timestampCandidates = []struct {
	Name    string
	Resolve func(linkedin.RawPost) (time.Time, bool)
}{
	{"createdAtEpoch", func(r linkedin.RawPost) (time.Time, bool) {
		switch v := r.CreatedAt.(type) {
		case float64:
			return time.UnixMilli(int64(v)).UTC(), true
		case int64:
			return time.UnixMilli(v).UTC(), true
		case int:
			return time.UnixMilli(int64(v)).UTC(), true
		}
		return time.Time{}, false
	}},
	{"createdAtString", func(r linkedin.RawPost) (time.Time, bool) {
		s, ok := r.CreatedAt.(string)
		if !ok || s == "" {
			return time.Time{}, false
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}},
	{"createdTime", func(r linkedin.RawPost) (time.Time, bool) {
		if r.Created != nil && r.Created.Time > 0 {
			return time.UnixMilli(r.Created.Time).UTC(), true
		}
		return time.Time{}, false
	}},
	{"lifecycleCreatedAt", func(r linkedin.RawPost) (time.Time, bool) {
		if r.LifecycleStateInfo != nil && r.LifecycleStateInfo.CreatedAt > 0 {
			return time.UnixMilli(r.LifecycleStateInfo.CreatedAt).UTC(), true
		}
		return time.Time{}, false
	}},
}

// Normalizer maps raw upstream posts into canonical FeedPosts, filtering
// out anything that does not carry the tracked hashtag.
type Normalizer struct {
	owner     OwnerMatcher
	ownerName string
	now       func() time.Time
}

func NewNormalizer(owner OwnerMatcher, ownerName string) *Normalizer {
	return &Normalizer{
		owner:     owner,
		ownerName: ownerName,
		now:       time.Now,
	}
}

// Normalize converts one raw post. A nil return means "exclude silently":
// no usable id, or the extracted text does not contain the hashtag. It is
// a filtering outcome, not an error.
func (n *Normalizer) Normalize(raw linkedin.RawPost, hashtag string) *FeedPost {
	id := raw.URN
	if id == "" {
		id = raw.ID
	}
	if id == "" {
		return nil
	}

	content := extractText(raw)

	// Require the exact hashtag substring (case-insensitive).
	if !strings.Contains(strings.ToLower(content), strings.ToLower(hashtag)) {
		return nil
	}

	createdAt := n.resolveTimestamp(raw)

	authorURN := raw.Author
	if authorURN == "" {
		authorURN = raw.Actor
	}
	profileURL := raw.Permalink
	if profileURL == "" {
		profileURL = raw.ActorProfileURL
	}

	isOwner := n.owner.Matches(authorURN, profileURL)

	authorName := raw.ActorName
	if isOwner {
		authorName = n.ownerName
	}
	if authorName == "" {
		authorName = "LinkedIn User"
	}

	return &FeedPost{
		ID:               id,
		Content:          content,
		CreatedAt:        createdAt.Format(time.RFC3339),
		LinkedInPostID:   id,
		AuthorName:       authorName,
		AuthorAvatarURL:  raw.ActorImageURL,
		AuthorProfileURL: profileURL,
		IsOwner:          isOwner,
	}
}

func extractText(raw linkedin.RawPost) string {
	for _, candidate := range textCandidates {
		if text := candidate.Extract(raw); text != "" {
			return text
		}
	}
	return ""
}

func (n *Normalizer) resolveTimestamp(raw linkedin.RawPost) time.Time {
	for _, candidate := range timestampCandidates {
		if t, ok := candidate.Resolve(raw); ok {
			return t
		}
	}
	return n.now().UTC()
}
