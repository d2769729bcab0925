package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tip is a persisted feed post. LinkedInPostID carries the upstream URN
// and is the external id the sync adapter deduplicates on.
type Tip struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content          string             `bson:"content" json:"content"`
	LinkedInPostID   string             `bson:"linkedin_post_id" json:"linkedin_post_id"`
	AuthorName       string             `bson:"author_name,omitempty" json:"author_name,omitempty"`
	AuthorAvatarURL  string             `bson:"author_avatar_url,omitempty" json:"author_avatar_url,omitempty"`
	AuthorProfileURL string             `bson:"author_profile_url,omitempty" json:"author_profile_url,omitempty"`
	IsOwner          bool               `bson:"is_owner" json:"is_owner"`
	Published        bool               `bson:"published" json:"published"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
