package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ar-quiz-service/internal/bridge"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	"golang.org/x/text/message"
)

// Factory builds games that share the catalog, progress and leaderboard stores.
type Factory struct {
	Catalog     content.Source
	Progress    *content.ProgressStore
	Leaderboard *LeaderboardStore
	Printer     *message.Printer
	Scheduler   Scheduler
	Options     Options
	Bridge      bridge.Options
	// Transitions, when set, restricts every new controller to this graph.
	Transitions map[domain.Phase][]domain.Phase
	// NewRand seeds per-game shuffling. Defaults to the wall clock.
	NewRand func() *rand.Rand
}

// NewGame wires a fresh controller, provider and bridge around renderer.
func (f *Factory) NewGame(ctx context.Context, id string, renderer bridge.Renderer, screen Screen) (*Game, error) {
	if f.Leaderboard == nil || f.Catalog == nil || f.Progress == nil || renderer == nil {
		return nil, fmt.Errorf("%w: factory stores or renderer", domain.ErrMissingDependency)
	}
	newRand := f.NewRand
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	scheduler := f.Scheduler
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	printer := f.Printer
	if printer == nil {
		printer = content.NewPrinter("en")
	}

	ctrl := NewController(ctx, f.Leaderboard, screen)
	if f.Transitions != nil {
		ctrl.RestrictTransitions(f.Transitions)
	}
	provider := content.NewProvider(f.Catalog, f.Progress, newRand(), printer)
	b := bridge.New(renderer, f.Bridge, newRand())
	return NewGame(id, ctrl, provider, b, scheduler, f.Options)
}
