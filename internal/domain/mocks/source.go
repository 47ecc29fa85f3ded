package mocks

import (
	"context"
	"sync"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockPostSource is a testify mock of domain.PostSource.
type MockPostSource struct {
	mock.Mock
	NeedsCredential bool
}

var _ domain.PostSource = (*MockPostSource)(nil)

func (m *MockPostSource) Name() string {
	return "mock"
}

func (m *MockPostSource) RequiresCredential() bool {
	return m.NeedsCredential
}

func (m *MockPostSource) ResolveAccount(ctx context.Context, handle, credential string) (string, error) {
	args := m.Called(ctx, handle, credential)
	return args.String(0), args.Error(1)
}

func (m *MockPostSource) ListPosts(ctx context.Context, accountID, credential string, limit int) ([]domain.RawPost, error) {
	args := m.Called(ctx, accountID, credential, limit)

	var posts []domain.RawPost
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.RawPost)
	}
	return posts, args.Error(1)
}

// RecordingRecorder keeps every event it receives.
type RecordingRecorder struct {
	mu     sync.Mutex
	Events []domain.RetrievalEvent
}

func (r *RecordingRecorder) Record(_ context.Context, event *domain.RetrievalEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, *event)
}

// Last returns the most recent event, or nil when none was recorded.
func (r *RecordingRecorder) Last() *domain.RetrievalEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Events) == 0 {
		return nil
	}
	e := r.Events[len(r.Events)-1]
	return &e
}

// MockJournalRepository is a testify mock of domain.JournalRepository.
type MockJournalRepository struct {
	mock.Mock
}

var _ domain.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) Insert(ctx context.Context, event *domain.RetrievalEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockJournalRepository) Recent(ctx context.Context, limit int) ([]domain.RetrievalEvent, error) {
	args := m.Called(ctx, limit)
	var events []domain.RetrievalEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.RetrievalEvent)
	}
	return events, args.Error(1)
}
