package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackCatalog(t *testing.T) {
	posts := FallbackCatalog()
	require.Len(t, posts, 5)
	assert.Equal(t, "123456789", posts[0].ID)

	for _, p := range posts {
		assert.True(t, p.Valid(), "fallback post %s must have every field", p.ID)
		assert.Equal(t, StatusURL(FallbackHandle, p.ID), p.URL)
	}
}

func TestFallbackCatalog_ReturnsCopy(t *testing.T) {
	first := FallbackCatalog()
	first[0].Text = "mutated"

	second := FallbackCatalog()
	assert.NotEqual(t, "mutated", second[0].Text)
	assert.Equal(t, second, FallbackCatalog())
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeLive},
		{ErrCredentialMissing, OutcomeCredentialMissing},
		{fmt.Errorf("%w: status 401", ErrResolutionFailed), OutcomeResolutionFailed},
		{fmt.Errorf("%w: bad json", ErrListingFailed), OutcomeListingFailed},
		{ErrEmptyResult, OutcomeEmptyResult},
		{fmt.Errorf("%w: boom", ErrUnexpected), OutcomeUnexpectedError},
		{errors.New("anything else"), OutcomeUnexpectedError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutcomeOf(tt.err), "error: %v", tt.err)
	}
}

func TestRetrieval_Degraded(t *testing.T) {
	assert.False(t, Retrieval{Outcome: OutcomeLive}.Degraded())
	assert.True(t, Retrieval{Outcome: OutcomeEmptyResult}.Degraded())
}
