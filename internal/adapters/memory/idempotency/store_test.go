package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:    "k1",
		Method: "POST",
		Route:  "/household/",
	}
	rec := idempotency.Record{
		BodyHash:    "abc123",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"household_id":"h1"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.BodyHash != rec.BodyHash || got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, ok, err := s.Get(context.Background(), idempotency.Fingerprint{Key: "nope"})
	if err != nil || ok {
		t.Fatalf("Get() ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}
