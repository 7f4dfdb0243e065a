package synthcache

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "synthesis.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestKeyHashCoversEveryParameter(t *testing.T) {
	base := Key{Provider: "polly", Voice: "Matthew", Engine: "neural", Codec: "mp3", Text: "Hello"}
	variants := []Key{
		{Provider: "stub", Voice: "Matthew", Engine: "neural", Codec: "mp3", Text: "Hello"},
		{Provider: "polly", Voice: "Joanna", Engine: "neural", Codec: "mp3", Text: "Hello"},
		{Provider: "polly", Voice: "Matthew", Engine: "standard", Codec: "mp3", Text: "Hello"},
		{Provider: "polly", Voice: "Matthew", Engine: "neural", Codec: "pcm", SampleRate: 16000, Text: "Hello"},
		{Provider: "polly", Voice: "Matthew", Engine: "neural", Codec: "mp3", Text: "Hello!"},
	}
	if base.Hash() != base.Hash() {
		t.Fatal("expected stable hash")
	}
	if len(base.Hash()) != 64 {
		t.Fatalf("expected hex sha256, got %q", base.Hash())
	}
	for _, variant := range variants {
		if variant.Hash() == base.Hash() {
			t.Fatalf("expected %+v to hash differently from %+v", variant, base)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	key := Key{Provider: "polly", Voice: "Matthew", Engine: "neural", Codec: "mp3", Text: "Hi"}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	audio := []byte{0xFF, 0xFB, 0x10, 0xC4, 1, 2, 3}
	if err := store.Put(ctx, key, audio); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, audio) {
		t.Fatalf("cached audio mismatch: %v", got)
	}

	replacement := []byte{9, 9}
	if err := store.Put(ctx, key, replacement); err != nil {
		t.Fatalf("Put replacement: %v", err)
	}
	got, _, _ = store.Get(ctx, key)
	if !bytes.Equal(got, replacement) {
		t.Fatalf("expected replacement audio, got %v", got)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 || stats.Bytes != int64(len(replacement)) || stats.Hits != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Oldest.IsZero() || stats.Newest.IsZero() {
		t.Fatalf("expected timestamps in stats, got %+v", stats)
	}
}

func TestStoreRejectsEmptyAudio(t *testing.T) {
	store := openTestStore(t)
	if err := store.Put(context.Background(), Key{Text: "x"}, nil); err == nil {
		t.Fatal("expected error caching empty audio")
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	for _, text := range []string{"a", "b", "c"} {
		if err := store.Put(ctx, Key{Codec: "mp3", Text: text}, []byte(text)); err != nil {
			t.Fatalf("Put %q: %v", text, err)
		}
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d entries, want 3", removed)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 0 || stats.Bytes != 0 || !stats.Oldest.IsZero() {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "synthesis.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key{Codec: "mp3", Text: "persisted"}
	if err := first.Put(ctx, key, []byte("data")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, ok, err := second.Get(ctx, key); err != nil || !ok {
		t.Fatalf("expected persisted entry, ok=%v err=%v", ok, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthesis.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
