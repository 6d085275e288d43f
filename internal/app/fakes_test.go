package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"ar-quiz-service/internal/bridge"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
)

type mapKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapKV() *mapKV { return &mapKV{data: make(map[string][]byte)} }

func (m *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// manualScheduler queues callbacks until the test runs them.
type manualScheduler struct {
	mu     sync.Mutex
	queue  []func()
	delays []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, f)
	s.delays = append(s.delays, d)
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// runAll fires queued callbacks, including ones scheduled while running.
func (s *manualScheduler) runAll() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		f := s.queue[0]
		s.queue = s.queue[1:]
		s.delays = s.delays[1:]
		s.mu.Unlock()
		f()
	}
}

// sceneRenderer records placed objects by handle.
type sceneRenderer struct {
	next    int
	placed  int
	objects map[domain.Handle]domain.ObjectSpec
}

func newSceneRenderer() *sceneRenderer {
	return &sceneRenderer{objects: make(map[domain.Handle]domain.ObjectSpec)}
}

func (r *sceneRenderer) CameraPose() domain.Pose { return domain.Pose{} }

func (r *sceneRenderer) PlaceObject(spec domain.ObjectSpec) (domain.Handle, error) {
	r.next++
	r.placed++
	h := domain.Handle(fmt.Sprintf("h%d", r.next))
	r.objects[h] = spec
	return h, nil
}

func (r *sceneRenderer) RemoveObject(h domain.Handle) { delete(r.objects, h) }

func (r *sceneRenderer) pick(correct bool) domain.Handle {
	for h, spec := range r.objects {
		if spec.Tags.IsCorrect == correct {
			return h
		}
	}
	return ""
}

type recordingScreen struct {
	shown []domain.Phase
}

func (s *recordingScreen) Show(phase domain.Phase) { s.shown = append(s.shown, phase) }

type testGame struct {
	*Game
	kv        *mapKV
	renderer  *sceneRenderer
	scheduler *manualScheduler
	factory   *Factory
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()
	kv := newMapKV()
	catalog := content.NewGenerator(content.DefaultTexts, rand.New(rand.NewSource(1)), content.NewPrinter("en")).
		Generate(domain.Subjects)
	scheduler := &manualScheduler{}
	renderer := newSceneRenderer()
	factory := &Factory{
		Catalog:     content.NewStaticLoader(catalog),
		Progress:    content.NewProgressStore(kv),
		Leaderboard: NewLeaderboardStore(kv, domain.LeaderboardSize),
		Scheduler:   scheduler,
		Options:     DefaultOptions(),
		Bridge:      bridge.DefaultOptions(),
		NewRand:     func() *rand.Rand { return rand.New(rand.NewSource(5)) },
	}
	g, err := factory.NewGame(context.Background(), "g1", renderer, nil)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return &testGame{Game: g, kv: kv, renderer: renderer, scheduler: scheduler, factory: factory}
}

// playTo drives the game from loading to the first question of subject/level.
func (tg *testGame) playTo(t *testing.T, mode domain.ARMode, subject domain.Subject, level int) {
	t.Helper()
	ctx := context.Background()
	tg.Start()
	tg.scheduler.runAll()
	if err := tg.SubmitName("Ada"); err != nil {
		t.Fatalf("submit name: %v", err)
	}
	if err := tg.SelectMode(mode); err != nil {
		t.Fatalf("select mode: %v", err)
	}
	if _, err := tg.SelectSubject(ctx, subject); err != nil {
		t.Fatalf("select subject: %v", err)
	}
	if err := tg.SelectLevel(ctx, level); err != nil {
		t.Fatalf("select level: %v", err)
	}
	if mode == domain.ARModeLocation {
		if err := tg.StartAR(ctx); err != nil {
			t.Fatalf("start ar: %v", err)
		}
	}
}
