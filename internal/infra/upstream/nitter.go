package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/transformer"
)

// NitterClient reads a public Nitter RSS feed. It needs no credential.
type NitterClient struct {
	baseURL     string
	fetcher     fetcher
	transformer domain.Transformer
}

var _ domain.PostSource = (*NitterClient)(nil)

// NewNitterClient accepts a bare host ("nitter.net") or a full base URL.
// A nil tr selects the RSS transformer.
func NewNitterClient(instance string, client *http.Client, tr domain.Transformer) *NitterClient {
	if tr == nil {
		tr = transformer.NewNitterTransformer()
	}
	base := strings.TrimRight(instance, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &NitterClient{
		baseURL:     base,
		fetcher:     newFetcher(transformer.NitterName, client),
		transformer: tr,
	}
}

func (n *NitterClient) Name() string {
	return transformer.NitterName
}

func (n *NitterClient) RequiresCredential() bool {
	return false
}

// ResolveAccount is the identity: Nitter feeds are addressed by handle.
func (n *NitterClient) ResolveAccount(_ context.Context, handle, _ string) (string, error) {
	if handle == "" {
		return "", errors.New("empty handle")
	}
	return handle, nil
}

func (n *NitterClient) ListPosts(ctx context.Context, accountID, _ string, limit int) ([]domain.RawPost, error) {
	endpoint := fmt.Sprintf("%s/%s/rss", n.baseURL, url.PathEscape(accountID))

	h := make(http.Header)
	h.Set("Accept", "application/rss+xml, application/xml, text/xml, */*")

	var posts []domain.RawPost
	err := n.fetcher.get(ctx, "list", endpoint, h, func(body io.Reader) error {
		var err error
		posts, err = n.transformer.Transform(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
