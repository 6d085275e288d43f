package redis

import (
	"context"
	"errors"
	"testing"

	"ar-quiz-service/internal/app"
	"ar-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestKVStorePrefixesKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewKVStore(newClient(mr), "arquiz:")

	if _, err := store.Get(ctx, "absent"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("arquiz:k"); got != "v" {
		t.Fatalf("expected prefixed key, got %q", got)
	}
}

func TestLeaderboardSurvivesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	lb := app.NewLeaderboardStore(NewKVStore(newClient(mr), "arquiz:"), 0)
	if _, err := lb.Add(ctx, domain.LeaderboardEntry{Name: "Ada", Score: 20}); err != nil {
		t.Fatalf("add: %v", err)
	}

	reloaded := app.NewLeaderboardStore(NewKVStore(newClient(mr), "arquiz:"), 0).Load(ctx)
	if len(reloaded) != len(app.DefaultLeaderboard)+1 || reloaded[0].Name != "Ada" {
		t.Fatalf("expected Ada on top of persisted leaderboard, got %+v", reloaded)
	}
}
