package transformer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/mmcdole/gofeed"
)

const NitterName = "nitter"

// Nitter prefixes reposts and replies in item titles.
var nitterSkipPrefixes = []string{"RT by ", "R to "}

type NitterTransformer struct {
	parser *gofeed.Parser
}

func NewNitterTransformer() *NitterTransformer {
	return &NitterTransformer{parser: gofeed.NewParser()}
}

// Transform parses a Nitter RSS feed. Reposts, replies and items without a
// status id are dropped.
func (t *NitterTransformer) Transform(reader io.Reader) ([]domain.RawPost, error) {
	feed, err := t.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nitter feed: %w", err)
	}

	posts := make([]domain.RawPost, 0, len(feed.Items))
	for _, item := range feed.Items {
		if skipNitterItem(item.Title) {
			continue
		}

		id := statusID(item.Link)
		if id == "" {
			id = statusID(item.GUID)
		}
		if id == "" {
			continue
		}

		createdAt := item.Published
		if item.PublishedParsed != nil {
			createdAt = item.PublishedParsed.UTC().Format(time.RFC3339)
		}

		posts = append(posts, domain.RawPost{
			ID:        id,
			Text:      strings.TrimSpace(item.Title),
			CreatedAt: createdAt,
		})
	}
	return posts, nil
}

func skipNitterItem(title string) bool {
	for _, prefix := range nitterSkipPrefixes {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// statusID returns the digits following "/status/" in a post link.
func statusID(link string) string {
	_, rest, found := strings.Cut(link, "/status/")
	if !found {
		return ""
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	return rest[:end]
}
