package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"ar-quiz-service/internal/domain"
)

func newTestController(t *testing.T) (*Controller, *recordingScreen) {
	t.Helper()
	screen := &recordingScreen{}
	return NewController(context.Background(), NewLeaderboardStore(newMapKV(), 0), screen), screen
}

func TestNewControllerDefaults(t *testing.T) {
	c, screen := newTestController(t)
	if c.Phase() != domain.PhaseLoading || c.VisibleScreen() != domain.PhaseLoading {
		t.Fatalf("expected loading, got %s/%s", c.Phase(), c.VisibleScreen())
	}
	if len(screen.shown) != 1 || screen.shown[0] != domain.PhaseLoading {
		t.Fatalf("expected loading screen shown, got %v", screen.shown)
	}
	s := c.State()
	if s.PlayerName != DefaultPlayerName || s.SelectedLevel != NoLevel || s.ARMode != domain.ARModeLocation {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if !reflect.DeepEqual(s.Leaderboard, DefaultLeaderboard) {
		t.Fatalf("expected default leaderboard, got %+v", s.Leaderboard)
	}
}

func TestTransitionRunsHandlersInOrder(t *testing.T) {
	c, screen := newTestController(t)
	var calls []string
	c.OnExit(domain.PhaseLoading, func(data TransitionData) {
		calls = append(calls, "exit:"+string(data["next"].(domain.Phase)))
	})
	c.OnEnter(domain.PhaseNameInput, func(data TransitionData) {
		calls = append(calls, "enter:"+string(data["previous"].(domain.Phase)))
	})
	c.On(EventStateChanged, func(ev Event) {
		calls = append(calls, "changed:"+string(ev.Previous)+">"+string(ev.Phase)+":"+ev.Data["why"].(string))
	})

	if err := c.TransitionTo(domain.PhaseNameInput, TransitionData{"why": "loaded"}); err != nil {
		t.Fatalf("transition: %v", err)
	}
	want := []string{"exit:name_input", "enter:loading", "changed:loading>name_input:loaded"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("got %v, want %v", calls, want)
	}
	if screen.shown[len(screen.shown)-1] != domain.PhaseNameInput || c.VisibleScreen() != domain.PhaseNameInput {
		t.Fatalf("expected name input screen, got %v", screen.shown)
	}
}

func TestTransitionToSamePhaseStillNotifies(t *testing.T) {
	c, _ := newTestController(t)
	notified := 0
	c.On(EventStateChanged, func(Event) { notified++ })
	_ = c.TransitionTo(domain.PhaseStart, nil)
	_ = c.TransitionTo(domain.PhaseStart, nil)
	if c.Phase() != domain.PhaseStart || notified != 2 {
		t.Fatalf("expected two notifications in start, got %d in %s", notified, c.Phase())
	}
}

func TestTransitionToSamePhaseRerunsEnterHandler(t *testing.T) {
	c, screen := newTestController(t)
	entered := 0
	c.OnEnter(domain.PhaseStart, func(TransitionData) { entered++ })
	_ = c.TransitionTo(domain.PhaseStart, nil)
	_ = c.TransitionTo(domain.PhaseStart, nil)
	if entered != 2 {
		t.Fatalf("expected start entered twice, got %d", entered)
	}
	if n := len(screen.shown); n < 2 || screen.shown[n-1] != domain.PhaseStart || screen.shown[n-2] != domain.PhaseStart {
		t.Fatalf("expected start shown twice, got %v", screen.shown)
	}
}

func TestSubscribersRunInRegistrationOrder(t *testing.T) {
	c, _ := newTestController(t)
	var order []string
	c.On(EventStateChanged, func(Event) { order = append(order, "first") })
	c.On(EventStateChanged, func(Event) { order = append(order, "second") })
	c.On(EventStateChanged, func(Event) { order = append(order, "third") })
	if err := c.TransitionTo(domain.PhaseNameInput, nil); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if want := []string{"first", "second", "third"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("got %v, want %v", order, want)
	}
}

func TestCanTransitionFollowsGraph(t *testing.T) {
	c, _ := newTestController(t)
	if !c.CanTransition(domain.PhaseResults) {
		t.Fatalf("permissive controller refused a transition")
	}
	c.RestrictTransitions(map[domain.Phase][]domain.Phase{
		domain.PhaseLoading: {domain.PhaseNameInput},
	})
	if !c.CanTransition(domain.PhaseNameInput) || c.CanTransition(domain.PhaseResults) {
		t.Fatalf("graph not applied")
	}
}

func TestRestrictTransitions(t *testing.T) {
	c, _ := newTestController(t)
	c.RestrictTransitions(map[domain.Phase][]domain.Phase{
		domain.PhaseLoading: {domain.PhaseNameInput},
	})
	if err := c.TransitionTo(domain.PhaseGame, nil); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	if c.Phase() != domain.PhaseLoading {
		t.Fatalf("phase changed on rejected transition: %s", c.Phase())
	}
	if err := c.TransitionTo(domain.PhaseNameInput, nil); err != nil {
		t.Fatalf("allowed transition failed: %v", err)
	}
	c.RestrictTransitions(nil)
	if err := c.TransitionTo(domain.PhaseResults, nil); err != nil {
		t.Fatalf("permissive transition failed: %v", err)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	c, _ := newTestController(t)
	var first, second int
	unsubscribe := c.On(EventValueChanged, func(Event) { first++ })
	c.On(EventValueChanged, func(Event) { second++ })

	c.SetScore(1)
	unsubscribe()
	unsubscribe()
	c.SetScore(2)

	if first != 1 || second != 2 {
		t.Fatalf("expected 1 and 2 deliveries, got %d and %d", first, second)
	}
}

func TestSetStateRejectsUnknownKeysAndBadValues(t *testing.T) {
	c, _ := newTestController(t)
	emitted := 0
	c.On(EventValueChanged, func(Event) { emitted++ })

	if c.SetState("favouriteColour", "blue") {
		t.Fatalf("unknown key accepted")
	}
	if c.GetState("favouriteColour") != nil {
		t.Fatalf("unknown key returned a value")
	}
	if c.SetState(KeyScore, "ten") || c.SetState(KeyScore, -1) || c.SetState(KeyScore, 1.5) {
		t.Fatalf("invalid score accepted")
	}
	if emitted != 0 {
		t.Fatalf("rejected writes must not notify, got %d", emitted)
	}
	if !c.SetState(KeyScore, float64(3)) || c.GetState(KeyScore) != 3 {
		t.Fatalf("expected whole float to set score 3, got %v", c.GetState(KeyScore))
	}
	if c.SetARMode("vr") == nil || c.State().ARMode != domain.ARModeLocation {
		t.Fatalf("invalid ar mode accepted")
	}
	if err := c.SetARMode(domain.ARModeMarker); err != nil || c.State().ARMode != domain.ARModeMarker {
		t.Fatalf("marker mode rejected: %v", err)
	}
}

func TestStateReturnsCopy(t *testing.T) {
	c, _ := newTestController(t)
	s := c.State()
	s.Leaderboard[0].Name = "Mallory"
	s.Score = 99
	if c.State().Leaderboard[0].Name == "Mallory" || c.State().Score == 99 {
		t.Fatalf("state copy aliased controller state")
	}
}

func TestDispatchRunsCurrentPhaseHandler(t *testing.T) {
	c, _ := newTestController(t)
	var got any
	c.Handle(domain.PhaseGame, "answer", func(data TransitionData) { got = data["id"] })
	c.Dispatch("answer", TransitionData{"id": "early"})
	if got != nil {
		t.Fatalf("handler of inactive phase ran")
	}
	_ = c.TransitionTo(domain.PhaseGame, nil)
	c.Dispatch("answer", TransitionData{"id": "q1_a2"})
	if got != "q1_a2" {
		t.Fatalf("expected handler to run, got %v", got)
	}
}

func TestResetGameSession(t *testing.T) {
	c, _ := newTestController(t)
	c.SetScore(4)
	c.SetQuestionIndex(6)
	c.ResetGameSession()
	if s := c.State(); s.Score != 0 || s.CurrentQuestionIndex != 0 {
		t.Fatalf("expected zeroed counters, got %+v", s)
	}
}
