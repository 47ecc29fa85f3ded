package queue

import (
	"errors"
	"testing"

	"github.com/WrestlingNewsHub/pkg/logging"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestKafkaProducer_OnCompletionResetsAfterRecovery(t *testing.T) {
	p := &KafkaProducer{sampler: logging.NewErrorSampler(20)}
	batch := []kafka.Message{{Value: []byte(`{}`)}}

	p.onCompletion(batch, errors.New("leader not available"))
	p.onCompletion(batch, errors.New("leader not available"))
	assert.Equal(t, 2, p.sampler.GetCount(writeErrorKey))

	p.onCompletion(batch, nil)
	assert.Zero(t, p.sampler.GetCount(writeErrorKey))

	assert.True(t, p.sampler.ShouldLog(writeErrorKey), "first failure after recovery is logged again")
}
