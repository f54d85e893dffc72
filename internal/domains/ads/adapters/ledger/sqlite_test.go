package ledger

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	adsmodel "adgate/go-client/internal/domains/ads/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewards.db")
	store, err := Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDispatchAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		store.Dispatch(adsmodel.RewardEvent{
			Amount:   35,
			Source:   "rewarded_video",
			EarnedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	events, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("stored events = %d, want 3", len(events))
	}
	if !events[0].EarnedAt.After(events[2].EarnedAt) {
		t.Fatal("events must be ordered newest first")
	}
	for _, e := range events {
		if e.ID == "" {
			t.Fatal("stored event must have an id")
		}
		if e.Amount != 35 || e.Source != "rewarded_video" {
			t.Fatalf("unexpected event: %+v", e)
		}
	}
}

func TestTotal(t *testing.T) {
	store := openTestStore(t)

	if total, err := store.Total(); err != nil || total != 0 {
		t.Fatalf("empty total = %d err=%v, want 0", total, err)
	}
	store.Dispatch(adsmodel.RewardEvent{Amount: 35, Source: "rewarded_video", EarnedAt: time.Now().UTC()})
	store.Dispatch(adsmodel.RewardEvent{Amount: 5, Source: "rewarded_video", EarnedAt: time.Now().UTC()})

	total, err := store.Total()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 40 {
		t.Fatalf("total = %d, want 40", total)
	}
}
