package interfaces

import (
	"context"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

// Notifier posts a record of an executed action to an external channel.
// Callers invoke it fire-and-forget: failures are logged and swallowed,
// never surfaced to the acting user.
type Notifier interface {
	NotifyActionResult(ctx context.Context, n *model.ActionNotification) error
}

// StorageClient persists uploaded document payloads at a bucket/path
type StorageClient interface {
	Put(ctx context.Context, bucket, path, contentType string, data []byte) error
	Get(ctx context.Context, bucket, path string) ([]byte, error)
}
