package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/transformer"
)

const DefaultTwitterBaseURL = "https://api.twitter.com"

// TwitterClient talks to the Twitter API v2 with an app bearer token.
type TwitterClient struct {
	baseURL     string
	fetcher     fetcher
	transformer domain.Transformer
}

var _ domain.PostSource = (*TwitterClient)(nil)

// NewTwitterClient decodes timelines with tr; nil selects the v2 transformer.
func NewTwitterClient(baseURL string, client *http.Client, tr domain.Transformer) *TwitterClient {
	if baseURL == "" {
		baseURL = DefaultTwitterBaseURL
	}
	if tr == nil {
		tr = transformer.NewTwitterTransformer()
	}
	return &TwitterClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		fetcher:     newFetcher(transformer.TwitterName, client),
		transformer: tr,
	}
}

func (c *TwitterClient) Name() string {
	return transformer.TwitterName
}

func (c *TwitterClient) RequiresCredential() bool {
	return true
}

// ResolveAccount maps a handle to the opaque account id.
func (c *TwitterClient) ResolveAccount(ctx context.Context, handle, credential string) (string, error) {
	endpoint := fmt.Sprintf("%s/2/users/by/username/%s", c.baseURL, url.PathEscape(handle))

	var id string
	err := c.fetcher.get(ctx, "resolve", endpoint, authHeader(credential), func(body io.Reader) error {
		var err error
		id, err = transformer.DecodeUserID(body)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListPosts fetches up to limit recent posts, reposts and replies excluded.
func (c *TwitterClient) ListPosts(ctx context.Context, accountID, credential string, limit int) ([]domain.RawPost, error) {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(limit))
	q.Set("tweet.fields", "created_at,public_metrics")
	q.Set("exclude", "retweets,replies")
	endpoint := fmt.Sprintf("%s/2/users/%s/tweets?%s", c.baseURL, url.PathEscape(accountID), q.Encode())

	var posts []domain.RawPost
	err := c.fetcher.get(ctx, "list", endpoint, authHeader(credential), func(body io.Reader) error {
		var err error
		posts, err = c.transformer.Transform(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func authHeader(credential string) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+credential)
	h.Set("Content-Type", "application/json")
	return h
}
