package transformer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/WrestlingNewsHub/internal/domain"
)

const TwitterName = "twitter"

type TwitterTweet struct {
	ID            string               `json:"id"`
	Text          string               `json:"text"`
	CreatedAt     string               `json:"created_at"`
	PublicMetrics domain.PublicMetrics `json:"public_metrics"`
}

type TwitterMeta struct {
	ResultCount int    `json:"result_count"`
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
}

// TwitterError is one entry of the "errors" array the v2 API returns
// alongside (or instead of) data.
type TwitterError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

type TwitterTimelineResponse struct {
	Data   []TwitterTweet `json:"data"`
	Meta   TwitterMeta    `json:"meta"`
	Errors []TwitterError `json:"errors"`
}

type TwitterUserResponse struct {
	Data *struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
	Errors []TwitterError `json:"errors"`
}

type TwitterTransformer struct{}

func NewTwitterTransformer() *TwitterTransformer {
	return &TwitterTransformer{}
}

// Transform decodes a /2/users/{id}/tweets body. A body without data is an
// empty listing, not an error; the pipeline decides what empty means.
func (t *TwitterTransformer) Transform(reader io.Reader) ([]domain.RawPost, error) {
	var resp TwitterTimelineResponse
	if err := json.NewDecoder(reader).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode twitter timeline: %w", err)
	}

	if len(resp.Data) == 0 && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("twitter timeline error: %s", describe(resp.Errors[0]))
	}

	posts := make([]domain.RawPost, 0, len(resp.Data))
	for _, tw := range resp.Data {
		posts = append(posts, domain.RawPost{
			ID:        tw.ID,
			Text:      tw.Text,
			CreatedAt: tw.CreatedAt,
			Metrics:   tw.PublicMetrics,
		})
	}
	return posts, nil
}

// DecodeUserID extracts data.id from a /2/users/by/username/{handle} body.
func DecodeUserID(reader io.Reader) (string, error) {
	var resp TwitterUserResponse
	if err := json.NewDecoder(reader).Decode(&resp); err != nil {
		return "", fmt.Errorf("failed to decode twitter user: %w", err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		if len(resp.Errors) > 0 {
			return "", fmt.Errorf("twitter user lookup error: %s", describe(resp.Errors[0]))
		}
		return "", fmt.Errorf("twitter user response has no data.id")
	}
	return resp.Data.ID, nil
}

func describe(e TwitterError) string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}
