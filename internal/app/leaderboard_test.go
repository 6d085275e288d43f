package app

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"ar-quiz-service/internal/domain"
)

func TestLeaderboardAddKeepsTopSorted(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(newMapKV(), domain.LeaderboardSize)

	var entries []domain.LeaderboardEntry
	for i := 0; i < 12; i++ {
		var err error
		entries, err = store.Add(ctx, domain.LeaderboardEntry{Name: fmt.Sprintf("p%d", i), Score: i * 2})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if len(entries) != domain.LeaderboardSize {
		t.Fatalf("expected %d entries, got %d", domain.LeaderboardSize, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Score < entries[i].Score {
			t.Fatalf("not sorted at %d: %+v", i, entries)
		}
	}
	if entries[0].Name != "p11" || entries[0].Score != 22 {
		t.Fatalf("unexpected leader %+v", entries[0])
	}
	if !reflect.DeepEqual(store.Load(ctx), entries) {
		t.Fatalf("persisted leaderboard differs from returned one")
	}
}

func TestLeaderboardTiesKeepEarlierEntryFirst(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore(newMapKV(), domain.LeaderboardSize)
	entries, _ := store.Add(ctx, domain.LeaderboardEntry{Name: "Ada", Score: 10})
	var ada, anatomy int
	for i, e := range entries {
		switch e.Name {
		case "Ada":
			ada = i
		case "Anatomy Master":
			anatomy = i
		}
	}
	if anatomy > ada {
		t.Fatalf("expected seeded entry ahead of equal new score, got %+v", entries)
	}
}

func TestLeaderboardCorruptFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	_ = kv.Set(ctx, LeaderboardKey, []byte("not json"))
	store := NewLeaderboardStore(kv, 0)
	if got := store.Load(ctx); !reflect.DeepEqual(got, DefaultLeaderboard) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}
