package client

import "time"

// SetBuilderClock fixes the signing clock for tests
func SetBuilderClock(b *SignatureBuilder, now func() time.Time) {
	b.now = now
}
