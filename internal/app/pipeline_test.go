package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/domain/mocks"
	"github.com/WrestlingNewsHub/internal/infra/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testHandle = "JesseRodPodcast"

func newTestPipeline(source domain.PostSource, credential string) (*PostPipeline, *mocks.RecordingRecorder) {
	recorder := &mocks.RecordingRecorder{}
	p := NewPostPipeline(PipelineConfig{
		Handle:     testHandle,
		Credential: credential,
		MaxPosts:   5,
	}, source, recorder)
	return p, recorder
}

func TestPostPipeline_NoCredential(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: true}
	p, recorder := newTestPipeline(source, "")

	first := p.Retrieve(context.Background())
	second := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeCredentialMissing, first.Outcome)
	assert.ErrorIs(t, first.Err, domain.ErrCredentialMissing)
	assert.Equal(t, domain.FallbackCatalog(), first.Posts)
	assert.Equal(t, first.Posts, second.Posts, "fallback must be unchanged across calls")

	source.AssertNotCalled(t, "ResolveAccount", mock.Anything, mock.Anything, mock.Anything)
	source.AssertNotCalled(t, "ListPosts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, recorder.Events, 2)
	assert.Equal(t, domain.OutcomeCredentialMissing, recorder.Last().Outcome)
}

func TestPostPipeline_CredentialNotRequired(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: false}
	source.On("ResolveAccount", mock.Anything, testHandle, "").Return(testHandle, nil)
	source.On("ListPosts", mock.Anything, testHandle, "", 5).Return([]domain.RawPost{
		{ID: "7", Text: "rss post", CreatedAt: "2024-09-12T10:00:00Z"},
	}, nil)

	p, _ := newTestPipeline(source, "")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeLive, result.Outcome)
	require.Len(t, result.Posts, 1)
	source.AssertExpectations(t)
}

func TestPostPipeline_ResolutionFailed(t *testing.T) {
	upstreamErr := errors.New("status 401")
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("", upstreamErr)

	p, recorder := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeResolutionFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrResolutionFailed)
	assert.ErrorIs(t, result.Err, upstreamErr, "the upstream cause stays in the chain")
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
	assert.True(t, result.Degraded())
	source.AssertNotCalled(t, "ListPosts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, recorder.Last().Reason, "status 401")
}

func TestPostPipeline_ResolutionEmptyID(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("", nil)

	p, _ := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeResolutionFailed, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
}

func TestPostPipeline_ListingFailed(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("42", nil)
	source.On("ListPosts", mock.Anything, "42", "token", 5).Return(nil, errors.New("malformed body"))

	p, _ := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeListingFailed, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
	source.AssertExpectations(t)
}

func TestPostPipeline_EmptyResult(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("42", nil)
	source.On("ListPosts", mock.Anything, "42", "token", 5).Return([]domain.RawPost{}, nil)

	p, recorder := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeEmptyResult, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrEmptyResult)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
	assert.Equal(t, 5, recorder.Last().PostCount)
}

func TestPostPipeline_MalformedPostIsNotPartial(t *testing.T) {
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("42", nil)
	source.On("ListPosts", mock.Anything, "42", "token", 5).Return([]domain.RawPost{
		{ID: "1", Text: "fine", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", Text: "", CreatedAt: "2024-01-01T00:00:00Z"},
	}, nil)

	p, _ := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeListingFailed, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
}

func TestPostPipeline_LivePosts(t *testing.T) {
	raw := []domain.RawPost{
		{ID: "1834000000000000003", Text: "third newest", CreatedAt: "2024-09-12T10:00:00Z"},
		{ID: "1834000000000000002", Text: "second", CreatedAt: "2024-09-12T09:00:00Z"},
		{ID: "1834000000000000001", Text: "oldest", CreatedAt: "2024-09-12T08:00:00Z"},
	}
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("42", nil)
	source.On("ListPosts", mock.Anything, "42", "token", 5).Return(raw, nil)

	p, recorder := newTestPipeline(source, "token")
	first := p.GetRecentPosts(context.Background())
	second := p.GetRecentPosts(context.Background())

	require.Len(t, first, len(raw))
	for i, post := range first {
		assert.Equal(t, raw[i].ID, post.ID)
		assert.Equal(t, raw[i].Text, post.Text)
		assert.Equal(t, raw[i].CreatedAt, post.CreatedAt)
		assert.Equal(t, "https://x.com/JesseRodPodcast/status/"+raw[i].ID, post.URL)
	}
	assert.Equal(t, first, second, "identical upstream responses give identical records")
	assert.Equal(t, domain.OutcomeLive, recorder.Last().Outcome)
	assert.Empty(t, recorder.Last().Reason)
}

func TestPostPipeline_TruncatesToMaxPosts(t *testing.T) {
	var raw []domain.RawPost
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		raw = append(raw, domain.RawPost{ID: id, Text: "post " + id, CreatedAt: "2024-01-01T00:00:00Z"})
	}
	source := &mocks.MockPostSource{NeedsCredential: true}
	source.On("ResolveAccount", mock.Anything, testHandle, "token").Return("42", nil)
	source.On("ListPosts", mock.Anything, "42", "token", 5).Return(raw, nil)

	p, _ := newTestPipeline(source, "token")
	posts := p.GetRecentPosts(context.Background())

	require.Len(t, posts, 5)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "5", posts[4].ID)
}

type panickingSource struct {
	mocks.MockPostSource
}

func (s *panickingSource) ResolveAccount(context.Context, string, string) (string, error) {
	panic("nil map write")
}

func TestPostPipeline_UnexpectedPanic(t *testing.T) {
	source := &panickingSource{}
	source.NeedsCredential = true

	p, recorder := newTestPipeline(source, "token")
	result := p.Retrieve(context.Background())

	assert.Equal(t, domain.OutcomeUnexpectedError, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrUnexpected)
	assert.Contains(t, result.Err.Error(), "nil map write")
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
	assert.Equal(t, domain.OutcomeUnexpectedError, recorder.Last().Outcome)
}

type panickingNameSource struct {
	mocks.MockPostSource
}

func (s *panickingNameSource) Name() string {
	panic("source not initialised")
}

type panickingCredentialSource struct {
	mocks.MockPostSource
}

func (s *panickingCredentialSource) RequiresCredential() bool {
	panic("credential policy missing")
}

func TestPostPipeline_PanicOutsideFetchFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		source domain.PostSource
		want   string
	}{
		{name: "source name", source: &panickingNameSource{}, want: "source not initialised"},
		{name: "credential policy", source: &panickingCredentialSource{}, want: "credential policy missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, recorder := newTestPipeline(tt.source, "token")

			var result domain.Retrieval
			require.NotPanics(t, func() { result = p.Retrieve(context.Background()) })

			assert.Equal(t, domain.OutcomeUnexpectedError, result.Outcome)
			assert.ErrorIs(t, result.Err, domain.ErrUnexpected)
			assert.Contains(t, result.Err.Error(), tt.want)
			assert.Equal(t, domain.FallbackCatalog(), result.Posts)
			require.NotNil(t, recorder.Last())
			assert.Equal(t, domain.OutcomeUnexpectedError, recorder.Last().Outcome)
		})
	}
}

type panickingRecorder struct{}

func (panickingRecorder) Record(context.Context, *domain.RetrievalEvent) {
	panic("recorder broken")
}

func TestPostPipeline_PanickingRecorderDoesNotFailRetrieval(t *testing.T) {
	p := NewPostPipeline(PipelineConfig{Handle: testHandle}, &mocks.MockPostSource{NeedsCredential: true}, panickingRecorder{})

	var result domain.Retrieval
	require.NotPanics(t, func() { result = p.Retrieve(context.Background()) })
	assert.Equal(t, domain.OutcomeCredentialMissing, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
}

func TestNewPostPipeline_Defaults(t *testing.T) {
	p := NewPostPipeline(PipelineConfig{}, &mocks.MockPostSource{}, nil)
	assert.Equal(t, DefaultHandle, p.Handle())
	assert.Equal(t, DefaultMaxPosts, p.MaxPosts())
}

// Twitter API v2 fakes, shared by the end-to-end style tests below.

func fakeTwitter(t *testing.T, resolveStatus int, resolveBody, listBody string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2/users/by/username/" + testHandle:
			w.WriteHeader(resolveStatus)
			w.Write([]byte(resolveBody))
		case "/2/users/42/tweets":
			w.Write([]byte(listBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPostPipeline_TwitterUnauthorized(t *testing.T) {
	server := fakeTwitter(t, http.StatusUnauthorized, `{"title":"Unauthorized"}`, ``)
	p, _ := newTestPipeline(upstream.NewTwitterClient(server.URL, server.Client(), nil), "token")

	result := p.Retrieve(context.Background())
	assert.Equal(t, domain.OutcomeResolutionFailed, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
}

func TestPostPipeline_TwitterMissingDataID(t *testing.T) {
	server := fakeTwitter(t, http.StatusOK, `{"errors":[{"title":"Not Found Error"}]}`, ``)
	p, _ := newTestPipeline(upstream.NewTwitterClient(server.URL, server.Client(), nil), "token")

	result := p.Retrieve(context.Background())
	assert.Equal(t, domain.OutcomeResolutionFailed, result.Outcome)
}

func TestPostPipeline_TwitterZeroPosts(t *testing.T) {
	server := fakeTwitter(t, http.StatusOK, `{"data":{"id":"42"}}`, `{"meta":{"result_count":0}}`)
	p, _ := newTestPipeline(upstream.NewTwitterClient(server.URL, server.Client(), nil), "token")

	result := p.Retrieve(context.Background())
	assert.Equal(t, domain.OutcomeEmptyResult, result.Outcome)
	assert.Equal(t, domain.FallbackCatalog(), result.Posts)
}

func TestPostPipeline_TwitterSinglePost(t *testing.T) {
	server := fakeTwitter(t, http.StatusOK, `{"data":{"id":"42"}}`,
		`{"data":[{"id":"99","text":"hello","created_at":"2024-01-01T00:00:00Z"}]}`)
	p, _ := newTestPipeline(upstream.NewTwitterClient(server.URL, server.Client(), nil), "token")

	posts := p.GetRecentPosts(context.Background())
	body, err := json.Marshal(posts)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"text":"hello","url":"https://x.com/JesseRodPodcast/status/99","created_at":"2024-01-01T00:00:00Z","id":"99"}]`,
		string(body))
}
