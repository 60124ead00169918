package cache

import (
	"path/filepath"
	"testing"
	"time"

	"svtdl/internal/media"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)

	item := &media.Item{
		ID:    "KyVERRZ",
		Title: "Avsnitt 8",
		Formats: []media.Format{
			{FormatID: "hls-2400", URL: "https://cdn.svt.se/master.m3u8"},
		},
		Duration: 820,
	}
	if err := s.Put(item); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := s.Get("KyVERRZ", time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if got.Title != "Avsnitt 8" || got.Duration != 820 {
		t.Errorf("cached item = %+v", got)
	}
	if len(got.Formats) != 1 || got.Formats[0].FormatID != "hls-2400" {
		t.Errorf("cached formats = %+v", got.Formats)
	}
}

func TestGetMiss(t *testing.T) {
	s := openStore(t)

	_, hit, err := s.Get("nope", time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected a miss for an unknown id")
	}
}

func TestGetExpired(t *testing.T) {
	s := openStore(t)

	if err := s.Put(&media.Item{ID: "old", Title: "Gammalt"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, hit, err := s.Get("old", 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected a miss once past the TTL")
	}
}

func TestLiveItemsNeverServed(t *testing.T) {
	s := openStore(t)

	if err := s.Put(&media.Item{ID: "ch-svt1", Title: "SVT1", IsLive: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, hit, err := s.Get("ch-svt1", time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("live items must not be served from cache")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openStore(t)

	if err := s.Put(&media.Item{ID: "x", Title: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(&media.Item{ID: "x", Title: "second"}); err != nil {
		t.Fatal(err)
	}

	got, hit, err := s.Get("x", time.Hour)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got.Title != "second" {
		t.Errorf("Title = %q, want the refreshed value", got.Title)
	}
}

func TestPurge(t *testing.T) {
	s := openStore(t)

	if err := s.Put(&media.Item{ID: "x", Title: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	_, hit, err := s.Get("x", time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected the purged entry to be gone")
	}
}
