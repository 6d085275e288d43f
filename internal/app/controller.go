package app

import (
	"context"
	"fmt"
	"log"

	"ar-quiz-service/internal/domain"
)

// EventType keys controller notifications.
type EventType string

const (
	EventStateChanged    EventType = "stateChanged"
	EventValueChanged    EventType = "valueChanged"
	EventQuestionShown   EventType = "questionShown"
	EventAnswerFeedback  EventType = "answerFeedback"
	EventFeedbackCleared EventType = "feedbackCleared"
	EventScorePulse      EventType = "scorePulse"
	EventScorePulseEnded EventType = "scorePulseEnded"
)

// Phase handler events. Enter and exit run on every transition.
const (
	HandlerEnter = "enter"
	HandlerExit  = "exit"
)

// TransitionData is the free-form payload carried by transitions and events.
type TransitionData map[string]any

// Event is delivered to subscribers.
type Event struct {
	Type     EventType      `json:"type"`
	Previous domain.Phase   `json:"previousPhase,omitempty"`
	Phase    domain.Phase   `json:"phase"`
	Data     TransitionData `json:"data,omitempty"`
	Key      StateKey       `json:"key,omitempty"`
	Value    any            `json:"value,omitempty"`
}

// HandlerFunc handles a phase event.
type HandlerFunc func(data TransitionData)

// Screen shows exactly one phase's screen.
type Screen interface {
	Show(phase domain.Phase)
}

type subscriber struct {
	id        int
	eventType EventType
	fn        func(Event)
}

// Controller owns the current phase and the session state.
// It is single-threaded: callers serialize access (see Game).
type Controller struct {
	current     domain.Phase
	visible     domain.Phase
	state       SessionState
	handlers    map[domain.Phase]map[string]HandlerFunc
	subscribers []subscriber
	nextID      int
	allowed     map[domain.Phase]map[domain.Phase]bool
	screen      Screen
	leaderboard *LeaderboardStore
}

// NewController starts in the loading phase with the persisted leaderboard loaded.
func NewController(ctx context.Context, leaderboard *LeaderboardStore, screen Screen) *Controller {
	c := &Controller{
		current:     domain.PhaseLoading,
		visible:     domain.PhaseLoading,
		handlers:    make(map[domain.Phase]map[string]HandlerFunc),
		screen:      screen,
		leaderboard: leaderboard,
	}
	c.state = newSessionState(leaderboard.Load(ctx))
	if screen != nil {
		screen.Show(domain.PhaseLoading)
	}
	return c
}

// Phase returns the active phase.
func (c *Controller) Phase() domain.Phase { return c.current }

// VisibleScreen returns the phase whose screen is shown.
func (c *Controller) VisibleScreen() domain.Phase { return c.visible }

// RestrictTransitions installs an allow-list of (from, to) pairs. A nil table restores the permissive graph.
func (c *Controller) RestrictTransitions(table map[domain.Phase][]domain.Phase) {
	if table == nil {
		c.allowed = nil
		return
	}
	c.allowed = make(map[domain.Phase]map[domain.Phase]bool, len(table))
	for from, targets := range table {
		c.allowed[from] = make(map[domain.Phase]bool, len(targets))
		for _, to := range targets {
			c.allowed[from][to] = true
		}
	}
}

// CanTransition reports whether the installed graph allows moving from the current phase to phase.
func (c *Controller) CanTransition(phase domain.Phase) bool {
	return c.allowed == nil || c.allowed[c.current][phase]
}

// TransitionTo runs the exit handler of the current phase, switches phase, runs the enter handler,
// shows the new screen and then notifies stateChanged subscribers.
func (c *Controller) TransitionTo(phase domain.Phase, data TransitionData) error {
	prev := c.current
	if !c.CanTransition(phase) {
		log.Printf("warn: %v: %s -> %s", domain.ErrIllegalTransition, prev, phase)
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, prev, phase)
	}
	log.Printf("transitioning from %s to %s", prev, phase)

	c.run(prev, HandlerExit, merge(data, TransitionData{"next": phase}))
	c.current = phase
	c.run(phase, HandlerEnter, merge(data, TransitionData{"previous": prev}))

	c.visible = phase
	if c.screen != nil {
		c.screen.Show(phase)
	}

	c.Emit(Event{Type: EventStateChanged, Previous: prev, Phase: phase, Data: data})
	return nil
}

// Handle registers fn for event while in phase, replacing any earlier handler.
func (c *Controller) Handle(phase domain.Phase, event string, fn HandlerFunc) {
	if c.handlers[phase] == nil {
		c.handlers[phase] = make(map[string]HandlerFunc)
	}
	c.handlers[phase][event] = fn
}

// OnEnter is shorthand for Handle(phase, HandlerEnter, fn).
func (c *Controller) OnEnter(phase domain.Phase, fn HandlerFunc) { c.Handle(phase, HandlerEnter, fn) }

// OnExit is shorthand for Handle(phase, HandlerExit, fn).
func (c *Controller) OnExit(phase domain.Phase, fn HandlerFunc) { c.Handle(phase, HandlerExit, fn) }

// Dispatch runs the current phase's handler for event, if any.
func (c *Controller) Dispatch(event string, data TransitionData) {
	c.run(c.current, event, data)
}

func (c *Controller) run(phase domain.Phase, event string, data TransitionData) {
	if fn, ok := c.handlers[phase][event]; ok {
		fn(data)
	}
}

// On subscribes fn to eventType. Subscribers run synchronously in registration order.
func (c *Controller) On(eventType EventType, fn func(Event)) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.subscribers = append(c.subscribers, subscriber{id: id, eventType: eventType, fn: fn})
	return func() {
		for i, sub := range c.subscribers {
			if sub.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every subscriber of ev.Type.
func (c *Controller) Emit(ev Event) {
	if ev.Phase == "" {
		ev.Phase = c.current
	}
	// snapshot so subscribers may unsubscribe while being notified
	subs := append([]subscriber(nil), c.subscribers...)
	for _, sub := range subs {
		if sub.eventType == ev.Type {
			sub.fn(ev)
		}
	}
}

// State returns a copy of the session state.
func (c *Controller) State() SessionState {
	s := c.state
	s.Leaderboard = append([]domain.LeaderboardEntry(nil), c.state.Leaderboard...)
	return s
}

// GetState reads one slot; unknown keys log a warning and return nil.
func (c *Controller) GetState(key StateKey) any {
	v, ok := c.state.get(key)
	if !ok {
		log.Printf("warn: unknown state key: %s", key)
		return nil
	}
	return v
}

// SetState writes one slot. Unknown keys or values of the wrong type are a logged no-op.
func (c *Controller) SetState(key StateKey, value any) bool {
	if !c.state.set(key, value) {
		if _, known := c.state.get(key); known {
			log.Printf("warn: invalid value %v for state key %s", value, key)
		} else {
			log.Printf("warn: unknown state key: %s", key)
		}
		return false
	}
	c.Emit(Event{Type: EventValueChanged, Key: key, Value: value})
	return true
}

func (c *Controller) SetPlayerName(name string) { c.SetState(KeyPlayerName, name) }

func (c *Controller) SelectSubject(subject domain.Subject) { c.SetState(KeySelectedSubject, subject) }

func (c *Controller) SelectLevel(level int) { c.SetState(KeySelectedLevel, level) }

func (c *Controller) SetScore(score int) { c.SetState(KeyScore, score) }

func (c *Controller) SetQuestionIndex(index int) { c.SetState(KeyCurrentQuestionIndex, index) }

func (c *Controller) SetMaxQuestions(n int) { c.SetState(KeyMaxQuestions, n) }

// SetARMode accepts only marker or location.
func (c *Controller) SetARMode(mode domain.ARMode) error {
	if !mode.Valid() {
		log.Printf("warn: invalid ar mode: %s", mode)
		return fmt.Errorf("%w: %s", domain.ErrInvalidARMode, mode)
	}
	c.SetState(KeyARMode, mode)
	return nil
}

// ResetGameSession zeroes the quiz counters.
func (c *Controller) ResetGameSession() {
	c.SetScore(0)
	c.SetQuestionIndex(0)
}

// AddResult records {name, score} in the persisted leaderboard.
func (c *Controller) AddResult(ctx context.Context, name string, score int) []domain.LeaderboardEntry {
	entries, err := c.leaderboard.Add(ctx, domain.LeaderboardEntry{Name: name, Score: score})
	if err != nil {
		log.Printf("warn: save leaderboard: %v", err)
	}
	c.SetState(KeyLeaderboard, entries)
	return entries
}

func merge(base, extra TransitionData) TransitionData {
	out := make(TransitionData, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
