package event_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
	cleaned  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.cleaned = true }, nil
}

func TestEventService(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	consumer := &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}

	cleanup, err := event.New(logger, consumer).Run(ctx)
	require.NoError(t, err)
	assert.True(t, consumer.running)

	assert.Contains(t, consumer.handlers, event.TopicProductDeleted)
	assert.Contains(t, consumer.handlers, event.TopicStockRecordCreated)
	assert.Contains(t, consumer.handlers, event.TopicStockRecordExpiring)

	t.Run("Should decode and handle events", func(t *testing.T) {
		payload, err := json.Marshal(event.StockRecordExpiringEvent{
			Date:    "2024-01-08",
			Expired: 1,
			Items:   []event.ExpiringItem{{Sku: "A1B2C", RemainingDays: -1, Status: "expired"}},
		})
		require.NoError(t, err)

		err = consumer.handlers[event.TopicStockRecordExpiring](ctx, event.TopicStockRecordExpiring, payload)
		require.NoError(t, err)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
		assert.Contains(t, logs.String(), `"service":"event"`)
	})

	t.Run("Should reject malformed payload", func(t *testing.T) {
		err := consumer.handlers[event.TopicProductDeleted](ctx, event.TopicProductDeleted, []byte("{"))
		assert.ErrorContains(t, err, "unmarshal product.deleted event")
	})

	cleanup()
	assert.True(t, consumer.cleaned)
}
