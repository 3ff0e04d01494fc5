package client

import "github.com/google/uuid"

// NewIdempotencyKey returns one cryptographically random key. The owning
// flow generates it once at open time and holds it fixed across every
// dispatch attempt of that flow instance, so the server can collapse
// network-level retries into one logical attempt. A reopened flow gets a
// fresh key.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
