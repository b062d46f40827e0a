package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/pkg/outbox"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

// EnqueueEvent writes ev as a JSON outbox message on topic, keyed by
// partitionKey. Pass a repository bound to the caller's transaction so the
// message commits with the change it describes.
func EnqueueEvent(ctx context.Context, repo repository.OutboxMsgRepository, topic, partitionKey string, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      evBytes,
		PartitionKey: ptr.New(partitionKey),
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
