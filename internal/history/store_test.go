package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreAddAndGetRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, q := range []string{`{"a":1}`, `{"b":2}`, `{"c":3}`} {
		id, err := s.Add(ctx, Entry{
			Kind:       KindFind,
			Namespace:  "shop.orders",
			Query:      q,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:   15 * time.Millisecond,
			Rows:       int64(i),
			Success:    true,
		})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if id == "" {
			t.Fatal("Add() returned an empty id")
		}
	}

	entries, err := s.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("GetRecent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Query != `{"c":3}` {
		t.Errorf("newest entry = %q", entries[0].Query)
	}
	if entries[0].Duration != 15*time.Millisecond || entries[0].Kind != KindFind || !entries[0].Success {
		t.Errorf("entry round trip = %+v", entries[0])
	}
}

func TestStoreSearchAndPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Add(ctx, Entry{Kind: KindAggregate, Namespace: "shop.orders", Query: `{"pipeline":[]}`, Success: true})
	_, _ = s.Add(ctx, Entry{Kind: KindFind, Namespace: "crm.users", Query: `{"name":"x"}`, ErrorMessage: "timeout"})

	found, err := s.Search(ctx, "users", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(found) != 1 || found[0].ErrorMessage != "timeout" || found[0].Success {
		t.Errorf("Search() = %+v", found)
	}

	deleted, err := s.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}
}
