package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/shelflife/pkg/correlationid"
)

func newTestConsumer() *KafkaConsumer {
	return &KafkaConsumer{
		handlers: make(map[string]HandlerFunc),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestKafkaConsumerHandleRecord(t *testing.T) {
	rec := &kgo.Record{
		Topic: "stock_record.created",
		Key:   []byte("A1B2C"),
		Value: []byte(`{"sku":"A1B2C"}`),
		Headers: []kgo.RecordHeader{
			{Key: correlationid.Header, Value: []byte("corr-1")},
		},
	}

	t.Run("Should pass payload and correlation id to handler", func(t *testing.T) {
		c := newTestConsumer()

		var (
			gotPayload string
			gotCorrID  string
		)
		c.handlers[rec.Topic] = func(ctx context.Context, topic string, payload []byte) error {
			gotPayload = string(payload)
			gotCorrID, _ = correlationid.FromContext(ctx)
			return nil
		}

		c.handleRecord(context.Background(), rec)

		assert.Equal(t, `{"sku":"A1B2C"}`, gotPayload)
		assert.Equal(t, "corr-1", gotCorrID)
	})

	t.Run("Should survive handler error and panic", func(t *testing.T) {
		c := newTestConsumer()
		c.handlers[rec.Topic] = func(context.Context, string, []byte) error {
			return errors.New("boom")
		}
		assert.NotPanics(t, func() { c.handleRecord(context.Background(), rec) })

		c.handlers[rec.Topic] = func(context.Context, string, []byte) error {
			panic("boom")
		}
		assert.NotPanics(t, func() { c.handleRecord(context.Background(), rec) })
	})

	t.Run("Should skip unknown topic", func(t *testing.T) {
		c := newTestConsumer()
		assert.NotPanics(t, func() { c.handleRecord(context.Background(), &kgo.Record{Topic: "unknown"}) })
	})
}

func TestBuildProduceRecord(t *testing.T) {
	key := "A1B2C"
	r := buildProduceRecord(ProduceMsg{
		Topic:        "product.deleted",
		Headers:      map[string]string{correlationid.Header: "corr-1"},
		Payload:      []byte("{}"),
		PartitionKey: &key,
	})

	assert.Equal(t, "product.deleted", r.Topic)
	assert.Equal(t, []byte("A1B2C"), r.Key)
	assert.Equal(t, map[string]string{correlationid.Header: "corr-1"}, recordHeaders(r))
}
