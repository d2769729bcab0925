// Package linkedin provides an authenticated client for the LinkedIn REST
// API: token acquisition with caching, keyword search paging, and the
// write-back actions (reaction, comment, repost, create).
package linkedin

// RawPost is one element of an upstream search page. The API returns
// several near-identical shapes depending on post type and API version, so
// every field is optional; the feed normalizer resolves each attribute
// through an ordered priority list.
type RawPost struct {
	ID                 string          `json:"id,omitempty"`
	URN                string          `json:"urn,omitempty"`
	Commentary         *TextBlock      `json:"commentary,omitempty"`
	Content            *ContentBlock   `json:"content,omitempty"`
	Summary            string          `json:"summary,omitempty"`
	Author             string          `json:"author,omitempty"`
	Actor              string          `json:"actor,omitempty"`
	ActorName          string          `json:"actorName,omitempty"`
	ActorImageURL      string          `json:"actorImageUrl,omitempty"`
	ActorProfileURL    string          `json:"actorProfileUrl,omitempty"`
	CreatedAt          any             `json:"createdAt,omitempty"` // epoch millis or ISO-8601 string
	Created            *CreatedBlock   `json:"created,omitempty"`
	LifecycleStateInfo *LifecycleBlock `json:"lifecycleStateInfo,omitempty"`
	Permalink          string          `json:"permalink,omitempty"`
}

type TextBlock struct {
	Text string `json:"text,omitempty"`
}

type ContentBlock struct {
	Text  string      `json:"text,omitempty"`
	Media *MediaBlock `json:"media,omitempty"`
}

type MediaBlock struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreatedBlock struct {
	Time int64 `json:"time,omitempty"`
}

type LifecycleBlock struct {
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// API response envelopes

type postsResponse struct {
	Elements []RawPost `json:"elements"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
