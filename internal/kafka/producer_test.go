package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducerNoopWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, "tickets")
	assert.Nil(t, p.writer)
	// No-op: ни паники, ни блокировки.
	p.ProduceTicketEvent(context.Background(), "ticket.created", map[string]interface{}{"ticket_id": int64(1)})
	assert.NoError(t, p.Close())
}

func TestNewProducerNoopWithoutTopic(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "")
	assert.Nil(t, p.writer)
}

func TestNewProducerConfigured(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "tickets")
	assert.NotNil(t, p.writer)
	assert.Equal(t, "tickets", p.topic)
	assert.NoError(t, p.Close())
}
