// Package feed implements the hashtag feed pipeline: normalizing raw
// upstream posts, classifying ownership, aggregating pages into a stable
// pinned ordering, and slicing that ordering into pages.
package feed

import "time"

// FeedPost is the canonical post shape served to clients. It is immutable
// once constructed by the normalizer.
type FeedPost struct {
	ID               string `json:"id"`
	Content          string `json:"content"`
	CreatedAt        string `json:"created_at"`
	LinkedInPostID   string `json:"linkedin_post_id,omitempty"`
	AuthorName       string `json:"author_name,omitempty"`
	AuthorAvatarURL  string `json:"author_avatar_url,omitempty"`
	AuthorProfileURL string `json:"author_profile_url,omitempty"`
	IsOwner          bool   `json:"is_owner"`
}

// createdTime parses the post timestamp for ordering. Unparseable values
// sort as the zero time, i.e. after everything else in a descending sort.
func (p FeedPost) createdTime() time.Time {
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
