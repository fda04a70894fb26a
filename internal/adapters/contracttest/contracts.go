package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	householdstoreport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
	idempotencyport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/idempotency"
)

type CleanupFunc = func()

type HouseholdStoreFactory func(t *testing.T) (householdstoreport.Store, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:    idempotencyport.Key("k-" + uuid.NewString()),
		Method: "POST",
		Route:  "/household/",
	}

	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get(unknown) ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	rec := idempotencyport.Record{
		BodyHash:    "hash-abc",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"household_id":"h-1"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got.BodyHash != "hash-abc" || got.ContentType != "application/json" || got.StatusCode != 200 || string(got.Body) != `{"household_id":"h-1"}` {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"household_id":"h-2"}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"household_id":"h-2"}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Route is part of the fingerprint.
	other := fp
	other.Route = "/other"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get(other route) ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func RunHouseholdStore(t *testing.T, newStore HouseholdStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Keys are unique per run so shared backends (postgres, redis) do not collide.
	key := func(name string) string { return name + "-" + uuid.NewString() }

	t.Run("get missing", func(t *testing.T) {
		if _, err := store.Get(ctx, key("missing")); !errors.Is(err, householdstoreport.ErrNotFound) {
			t.Fatalf("Get() err=%v, want %v", err, householdstoreport.ErrNotFound)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		k := key("h")
		v := []byte(`{"income":16460,"members":[{"age":22,"gender":"female"},{"age":25,"gender":"male"}]}`)
		if err := store.Set(ctx, k, v); err != nil {
			t.Fatalf("Set() err=%v", err)
		}
		got, err := store.Get(ctx, k)
		if err != nil {
			t.Fatalf("Get() err=%v", err)
		}
		if !jsonEqual(t, got, v) {
			t.Fatalf("Get()=%s, want %s", got, v)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		k := key("h")
		if err := store.Set(ctx, k, []byte(`{"income":1,"members":[{"age":1,"gender":"male"}]}`)); err != nil {
			t.Fatalf("Set() err=%v", err)
		}
		v2 := []byte(`{"income":2,"members":[{"age":2,"gender":"female"}]}`)
		if err := store.Set(ctx, k, v2); err != nil {
			t.Fatalf("Set(overwrite) err=%v", err)
		}
		got, err := store.Get(ctx, k)
		if err != nil {
			t.Fatalf("Get() err=%v", err)
		}
		if !jsonEqual(t, got, v2) {
			t.Fatalf("Get()=%s, want %s", got, v2)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		k := key("h")
		if err := store.Delete(ctx, k); err != nil {
			t.Fatalf("Delete(missing) err=%v", err)
		}
		if err := store.Set(ctx, k, []byte(`{"income":1,"members":[{"age":1,"gender":"male"}]}`)); err != nil {
			t.Fatalf("Set() err=%v", err)
		}
		if err := store.Delete(ctx, k); err != nil {
			t.Fatalf("Delete() err=%v", err)
		}
		if err := store.Delete(ctx, k); err != nil {
			t.Fatalf("Delete(again) err=%v", err)
		}
		if _, err := store.Get(ctx, k); !errors.Is(err, householdstoreport.ErrNotFound) {
			t.Fatalf("Get() after delete err=%v, want %v", err, householdstoreport.ErrNotFound)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		k1, k2 := key("a"), key("b")
		v1 := []byte(`{"income":1,"members":[{"age":1,"gender":"male"}]}`)
		v2 := []byte(`{"income":2,"members":[{"age":2,"gender":"female"}]}`)
		if err := store.Set(ctx, k1, v1); err != nil {
			t.Fatalf("Set(k1) err=%v", err)
		}
		if err := store.Set(ctx, k2, v2); err != nil {
			t.Fatalf("Set(k2) err=%v", err)
		}
		if err := store.Delete(ctx, k2); err != nil {
			t.Fatalf("Delete(k2) err=%v", err)
		}
		got, err := store.Get(ctx, k1)
		if err != nil {
			t.Fatalf("Get(k1) err=%v", err)
		}
		if !jsonEqual(t, got, v1) {
			t.Fatalf("Get(k1)=%s, want %s", got, v1)
		}
	})
}
