package domain

import (
	"context"
	"fmt"
)

// Post is the normalized record served to the frontend.
// Field order is the JSON key order: text, url, created_at, id.
type Post struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"` // ISO-8601 as returned upstream, never re-parsed
	ID        string `json:"id"`         // opaque, kept as a string to avoid precision loss
}

// Valid reports whether every field of the record is present.
func (p Post) Valid() bool {
	return p.Text != "" && p.URL != "" && p.CreatedAt != "" && p.ID != ""
}

// PublicMetrics carries the engagement counters requested alongside each post.
type PublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// RawPost is a post as a source returned it, before normalization.
type RawPost struct {
	ID        string
	Text      string
	CreatedAt string
	Metrics   PublicMetrics
}

// StatusURL builds the public link of a post.
func StatusURL(handle, id string) string {
	return fmt.Sprintf("https://x.com/%s/status/%s", handle, id)
}

// PostSource resolves an account and lists its recent posts.
// Implementations must treat every failure as an error; they never fall back themselves.
type PostSource interface {
	Name() string
	RequiresCredential() bool
	ResolveAccount(ctx context.Context, handle, credential string) (string, error)
	ListPosts(ctx context.Context, accountID, credential string, limit int) ([]RawPost, error)
}
