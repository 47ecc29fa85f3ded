package mocks

import (
	"io"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Transform(reader io.Reader) ([]domain.RawPost, error) {
	args := m.Called(reader)

	// Handle nil posts
	var posts []domain.RawPost
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.RawPost)
	}
	return posts, args.Error(1)
}
