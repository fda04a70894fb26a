package householdstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestStore_PrefixesKeys(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewStore(client, "household:")
	if err := s.Set(context.Background(), "h1", []byte(`{"income":1}`)); err != nil {
		t.Fatalf("Set() err=%v", err)
	}
	got, err := mr.Get("household:h1")
	if err != nil {
		t.Fatalf("miniredis Get() err=%v", err)
	}
	if got != `{"income":1}` {
		t.Fatalf("stored=%q", got)
	}
	if mr.Exists("h1") {
		t.Fatalf("unprefixed key should not exist")
	}
}

func TestStore_GetSurfacesConnectionErrors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	if _, err := NewStore(client, "").Get(context.Background(), "h1"); err == nil {
		t.Fatalf("expected error with redis down")
	}
}
