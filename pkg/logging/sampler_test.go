package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSampler(t *testing.T) {
	sampler := NewErrorSampler(10)

	assert.True(t, sampler.ShouldLog("kafka_write"), "first occurrence is logged")
	for i := 2; i <= 9; i++ {
		assert.False(t, sampler.ShouldLog("kafka_write"), "occurrence %d is sampled out", i)
	}
	assert.True(t, sampler.ShouldLog("kafka_write"), "10th occurrence is logged")
	assert.Equal(t, 10, sampler.GetCount("kafka_write"))

	sampler.Reset("kafka_write")
	assert.Equal(t, 0, sampler.GetCount("kafka_write"))
	assert.True(t, sampler.ShouldLog("kafka_write"), "counting restarts after reset")
}

func TestErrorSampler_IndependentKeys(t *testing.T) {
	sampler := NewErrorSampler(0)

	sampler.ShouldLog("a")
	sampler.ShouldLog("b")
	sampler.ShouldLog("b")
	assert.Equal(t, 1, sampler.GetCount("a"))
	assert.Equal(t, 2, sampler.GetCount("b"))

	sampler.Reset("b")
	assert.Equal(t, 1, sampler.GetCount("a"))
	assert.Zero(t, sampler.GetCount("b"))
}

func TestSetupWriter(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := SetupWriter(&buf, false)
	logger.Debug("hidden")
	slog.Info("Fetched posts", "count", 5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Fetched posts", entry["msg"])
	assert.Equal(t, float64(5), entry["count"])
	assert.NotContains(t, buf.String(), "hidden")
}
