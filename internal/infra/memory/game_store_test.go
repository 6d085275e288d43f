package memory

import (
	"context"
	"math/rand"
	"testing"

	"ar-quiz-service/internal/app"
	"ar-quiz-service/internal/bridge"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
)

func TestGameStoreLifecycle(t *testing.T) {
	store := NewGameStore()

	game := newGame(t, "game-1")
	store.Put(game)
	if got, ok := store.Get("game-1"); !ok || got != game {
		t.Fatalf("expected game present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 game, got %d", store.Len())
	}

	store.Delete("game-1")
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected game removed")
	}
}

func newGame(t *testing.T, id string) *app.Game {
	t.Helper()
	kv := NewKVStore()
	rnd := rand.New(rand.NewSource(1))
	ctrl := app.NewController(context.Background(), app.NewLeaderboardStore(kv, 0), nil)
	provider := content.NewProvider(content.NewStaticLoader(sampleCatalog()), content.NewProgressStore(kv), rnd, content.NewPrinter("en"))
	game, err := app.NewGame(id, ctrl, provider, bridge.New(nopRenderer{}, bridge.DefaultOptions(), rnd), app.TimerScheduler{}, app.DefaultOptions())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return game
}

type nopRenderer struct{}

func (nopRenderer) CameraPose() domain.Pose { return domain.Pose{} }
func (nopRenderer) PlaceObject(domain.ObjectSpec) (domain.Handle, error) {
	return "h", nil
}
func (nopRenderer) RemoveObject(domain.Handle) {}
