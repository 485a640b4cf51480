package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEntry(t *testing.T) {
	event := NewBaseDomainEvent("TestEvent", "TestAggregate", uuid.New())
	payload := []byte(`{"field":"value"}`)

	entry := NewOutboxEntry(&event, payload)

	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "TestEvent", entry.EventType)
	assert.Equal(t, event.AggregateID(), entry.AggregateID)
	assert.Equal(t, "TestAggregate", entry.AggregateType)
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("marks pending entry as processing", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusPending}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	})

	t.Run("marks failed entry as processing", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusFailed}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	})

	t.Run("rejects sent and dead entries", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusSent, OutboxStatusDead, OutboxStatusProcessing} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.Error(t, entry.MarkProcessing())
		}
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusProcessing}

	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *entry.ProcessedAt, time.Second)
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules a retry with exponential backoff", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			Status:     OutboxStatusProcessing,
			MaxRetries: 5,
		}

		entry.MarkFailed("connection refused")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "connection refused", entry.LastError)
		require.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.CanRetry())
	})

	t.Run("moves to dead letter after max retries", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			Status:     OutboxStatusProcessing,
			RetryCount: 4,
			MaxRetries: 5,
		}

		entry.MarkFailed("still failing")

		assert.Equal(t, OutboxStatusDead, entry.Status)
		assert.Equal(t, 5, entry.RetryCount)
		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())
	})
}
