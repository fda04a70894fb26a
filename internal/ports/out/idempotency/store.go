package idempotency

import (
	"context"
	"time"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for idempotency purposes.
//
// Strategy: key + route. The request body hash is stored on the record so a reused key
// with a different body can be detected and rejected.
// Route is HTTP method + normalized path template (e.g. "POST /household/").
type Fingerprint struct {
	Key    Key
	Method string
	Route  string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	BodyHash    string
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
