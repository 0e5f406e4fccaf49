package recovery

import (
	"context"
	"testing"
	"time"

	"micropage/api/internal/site"
	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPutAndGetDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	cfg := site.NewConfig("Ballard Bakery")
	cfg.Sections.Hero.Headline = "Fresh bread daily"

	if err := store.Put(ctx, "ms_1", cfg); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "ms_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatalf("draft not found after Put")
	}
	if got.Sections.Hero.Headline != "Fresh bread daily" {
		t.Errorf("headline = %q", got.Sections.Hero.Headline)
	}
}

func TestGetMissingDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	_, ok, err := store.Get(context.Background(), "ms_missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatalf("found a draft that was never stored")
	}
}

func TestClearDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	cfg := site.NewConfig("Ballard Bakery")
	if err := store.Put(ctx, "ms_1", cfg); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Clear(ctx, "ms_1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	_, ok, err := store.Get(ctx, "ms_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatalf("draft still present after Clear")
	}
}

func TestDraftsAreIsolatedPerMicrosite(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	one := site.NewConfig("Ballard Bakery")
	two := site.NewConfig("Fremont Flowers")
	if err := store.Put(ctx, "ms_1", one); err != nil {
		t.Fatalf("Put ms_1: %v", err)
	}
	if err := store.Put(ctx, "ms_2", two); err != nil {
		t.Fatalf("Put ms_2: %v", err)
	}

	if err := store.Clear(ctx, "ms_1"); err != nil {
		t.Fatalf("Clear ms_1: %v", err)
	}
	got, ok, err := store.Get(ctx, "ms_2")
	if err != nil || !ok {
		t.Fatalf("ms_2 draft lost: ok=%v err=%v", ok, err)
	}
	if got.Sections.Profile.DisplayName != "Fremont Flowers" {
		t.Errorf("ms_2 draft = %q", got.Sections.Profile.DisplayName)
	}
}

func TestDraftExpires(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "ms_1", site.NewConfig("Ballard Bakery")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s.FastForward(draftTTL + time.Minute)

	_, ok, err := store.Get(ctx, "ms_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatalf("draft survived past its TTL")
	}
}
