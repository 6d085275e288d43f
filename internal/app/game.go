package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ar-quiz-service/internal/bridge"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
)

// GameRepository keeps live games addressable by id.
type GameRepository interface {
	Put(game *Game)
	Get(id string) (*Game, bool)
	Delete(id string)
}

// Options holds the UX pacing delays.
type Options struct {
	LoadingDelay      time.Duration
	NextQuestionDelay time.Duration
	ResultsDelay      time.Duration
	ScorePulse        time.Duration
	FeedbackDuration  time.Duration
}

func DefaultOptions() Options {
	return Options{
		LoadingDelay:      2 * time.Second,
		NextQuestionDelay: time.Second,
		ResultsDelay:      1500 * time.Millisecond,
		ScorePulse:        500 * time.Millisecond,
		FeedbackDuration:  2 * time.Second,
	}
}

// Snapshot is a read-only view of a game.
type Snapshot struct {
	ID       string              `json:"id"`
	Phase    domain.Phase        `json:"phase"`
	State    SessionState        `json:"state"`
	Progress domain.QuizProgress `json:"progress"`
	Anchored bool                `json:"anchored"`
}

// Game wires one player's controller, content provider and bridge together.
// Every action and timer callback runs under mu, so the collaborators see a single thread.
// Subscribers are called with mu held and must not call back into the Game.
type Game struct {
	id        string
	mu        sync.Mutex
	closed    bool
	round     int
	pending   bool
	ctrl      *Controller
	content   *content.Provider
	bridge    *bridge.Bridge
	scheduler Scheduler
	opts      Options
}

// NewGame fails with ErrMissingDependency when a collaborator is absent.
func NewGame(id string, ctrl *Controller, provider *content.Provider, b *bridge.Bridge, scheduler Scheduler, opts Options) (*Game, error) {
	var missing []string
	if ctrl == nil {
		missing = append(missing, "controller")
	}
	if provider == nil {
		missing = append(missing, "content provider")
	}
	if b == nil {
		missing = append(missing, "bridge")
	}
	if scheduler == nil {
		missing = append(missing, "scheduler")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingDependency, strings.Join(missing, ", "))
	}
	g := &Game{
		id:        id,
		ctrl:      ctrl,
		content:   provider,
		bridge:    b,
		scheduler: scheduler,
		opts:      opts,
	}
	b.OnSelect(g.handleSelection)
	return g, nil
}

func (g *Game) ID() string { return g.id }

// On subscribes to controller events.
func (g *Game) On(eventType EventType, fn func(Event)) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	unsub := g.ctrl.On(eventType, fn)
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		unsub()
	}
}

// Start shows the loading screen and moves on to name input after the loading delay.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ctrl.TransitionTo(domain.PhaseLoading, nil); err != nil {
		log.Printf("warn: show loading screen: %v", err)
		return
	}
	g.after(g.opts.LoadingDelay, func() {
		if g.ctrl.Phase() != domain.PhaseLoading {
			return
		}
		if err := g.ctrl.TransitionTo(domain.PhaseNameInput, nil); err != nil {
			log.Printf("warn: leave loading screen: %v", err)
		}
	})
}

// Close stops pending timers from touching the game.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.bridge.Clear()
}

// Snapshot returns the current phase and session state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, anchored := g.bridge.Anchored()
	return Snapshot{
		ID:       g.id,
		Phase:    g.ctrl.Phase(),
		State:    g.ctrl.State(),
		Progress: g.content.Progress(),
		Anchored: anchored,
	}
}

// SubmitName stores a non-blank player name and opens the start screen.
func (g *Game) SubmitName(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyPlayerName
	}
	g.ctrl.SetPlayerName(name)
	g.content.SetProfile(name)
	return g.ctrl.TransitionTo(domain.PhaseStart, nil)
}

// SelectMode stores the AR mode and opens subject selection.
func (g *Game) SelectMode(mode domain.ARMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ctrl.SetARMode(mode); err != nil {
		return err
	}
	g.leaveGameLocked()
	g.bridge.SetMode(mode)
	return g.ctrl.TransitionTo(domain.PhaseSubjectSelection, nil)
}

// SelectSubject stores the subject and opens its level grid.
func (g *Game) SelectSubject(ctx context.Context, subject domain.Subject) ([]domain.LevelSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	levels := g.content.GetLevelsForSubject(ctx, subject)
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubject, subject)
	}
	g.leaveGameLocked()
	g.ctrl.SelectSubject(subject)
	return levels, g.ctrl.TransitionTo(domain.PhaseLevelSelection, TransitionData{"subject": subject, "levels": levels})
}

// SelectLevel picks an unlocked level. Location mode shows AR instructions first; marker mode starts at once.
func (g *Game) SelectLevel(ctx context.Context, level int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.ctrl.State()
	if state.SelectedSubject == "" {
		log.Printf("warn: level selected before subject")
		return domain.ErrUnknownSubject
	}
	if level < 0 || level >= domain.LevelsPerSubject {
		log.Printf("warn: %v: %d", domain.ErrUnknownLevel, level)
		return fmt.Errorf("%w: %d", domain.ErrUnknownLevel, level)
	}
	if !g.content.IsLevelAvailable(ctx, state.SelectedSubject, level) {
		return fmt.Errorf("%w: %s/%d", domain.ErrLevelLocked, state.SelectedSubject, level)
	}

	g.ctrl.SelectLevel(level)
	g.ctrl.ResetGameSession()
	if state.ARMode == domain.ARModeMarker {
		return g.startARLocked(ctx)
	}
	return g.ctrl.TransitionTo(domain.PhaseARInstructions, TransitionData{"level": level})
}

// StartAR starts a quiz for the selected subject and level and shows the first question.
func (g *Game) StartAR(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startARLocked(ctx)
}

// Restart replays the same subject and level from the first question.
func (g *Game) Restart(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctrl.ResetGameSession()
	return g.startARLocked(ctx)
}

func (g *Game) startARLocked(ctx context.Context) error {
	state := g.ctrl.State()
	if state.SelectedSubject == "" || state.SelectedLevel == NoLevel {
		log.Printf("warn: ar started without subject or level, returning to menu")
		g.abandonLocked()
		if err := g.ctrl.TransitionTo(domain.PhaseStart, nil); err != nil {
			log.Printf("warn: return to menu: %v", err)
		}
		return domain.ErrNoActiveQuiz
	}
	if !g.content.StartQuiz(ctx, state.SelectedSubject, state.SelectedLevel) {
		return fmt.Errorf("%w: %s/%d", domain.ErrUnknownLevel, state.SelectedSubject, state.SelectedLevel)
	}

	g.round++
	g.pending = false
	g.bridge.SetMode(state.ARMode)
	g.ctrl.ResetGameSession()
	g.ctrl.SetMaxQuestions(g.content.TotalQuestions())
	if err := g.ctrl.TransitionTo(domain.PhaseGame, TransitionData{"mode": state.ARMode}); err != nil {
		return err
	}
	g.showQuestionLocked()
	return nil
}

// showQuestionLocked renders the question at the current index, or finishes the quiz past the end.
func (g *Game) showQuestionLocked() {
	if g.ctrl.Phase() != domain.PhaseGame {
		return
	}
	state := g.ctrl.State()
	payload, ok := g.content.GetQuestion(state.SelectedSubject, state.SelectedLevel, state.CurrentQuestionIndex)
	if !ok {
		g.showResultsLocked(context.Background())
		return
	}
	g.pending = false
	g.ctrl.Emit(Event{Type: EventQuestionShown, Data: TransitionData{
		"index":    state.CurrentQuestionIndex,
		"total":    state.MaxQuestions,
		"score":    state.Score,
		"question": payload,
	}})
	if err := g.bridge.CreateQuizObjects(payload); err != nil {
		log.Printf("warn: render question %d: %v", state.CurrentQuestionIndex, err)
	}
}

// Tap routes a tap on a placed object through the bridge.
func (g *Game) Tap(handle domain.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bridge.Tap(handle)
}

// Answer grades an answer of the current question by id, for clients without object taps.
func (g *Game) Answer(answerID string) (domain.AnswerCheck, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.acceptingAnswer() {
		return domain.AnswerCheck{}, domain.ErrNoActiveQuiz
	}
	check, err := g.content.CheckAnswer(answerID)
	if err != nil {
		log.Printf("warn: answer %s: %v", answerID, err)
		return domain.AnswerCheck{}, err
	}
	g.applyAnswerLocked(check.IsCorrect)
	return check, nil
}

// handleSelection receives bridge taps; it runs under mu because Tap holds it.
func (g *Game) handleSelection(sel domain.AnswerSelection) {
	if !g.acceptingAnswer() {
		return
	}
	if err := g.content.RecordSelection(sel); err != nil {
		log.Printf("warn: record selection: %v", err)
	}
	g.applyAnswerLocked(sel.IsCorrect)
}

func (g *Game) acceptingAnswer() bool {
	if g.ctrl.Phase() != domain.PhaseGame {
		log.Printf("warn: answer outside game phase (%s)", g.ctrl.Phase())
		return false
	}
	if g.pending {
		log.Printf("warn: answer ignored while the next question is pending")
		return false
	}
	return true
}

// applyAnswerLocked is the scoring state machine: feedback, +1 on correct, always advance the index,
// then pace towards the next question or the results.
func (g *Game) applyAnswerLocked(correct bool) {
	g.pending = true
	g.ctrl.Emit(Event{Type: EventAnswerFeedback, Data: TransitionData{"correct": correct}})
	g.after(g.opts.FeedbackDuration, func() {
		g.ctrl.Emit(Event{Type: EventFeedbackCleared})
	})

	state := g.ctrl.State()
	if correct {
		g.ctrl.SetScore(state.Score + 1)
		g.ctrl.Emit(Event{Type: EventScorePulse, Data: TransitionData{"score": state.Score + 1}})
		g.after(g.opts.ScorePulse, func() {
			g.ctrl.Emit(Event{Type: EventScorePulseEnded})
		})
	}

	next := state.CurrentQuestionIndex + 1
	g.ctrl.SetQuestionIndex(next)

	if next >= g.content.TotalQuestions() {
		g.after(g.opts.ResultsDelay, func() {
			g.showResultsLocked(context.Background())
		})
		return
	}
	g.content.NextQuestion()
	g.after(g.opts.NextQuestionDelay, g.showQuestionLocked)
}

// showResultsLocked persists the attempt and opens the results screen.
func (g *Game) showResultsLocked(ctx context.Context) {
	if g.ctrl.Phase() != domain.PhaseGame {
		return
	}
	if !g.ctrl.CanTransition(domain.PhaseResults) {
		log.Printf("warn: %v: results not reachable from %s, score not recorded", domain.ErrIllegalTransition, domain.PhaseGame)
		return
	}
	g.bridge.Clear()
	g.pending = false

	state := g.ctrl.State()
	results := g.content.Results()
	entries := g.ctrl.AddResult(ctx, state.PlayerName, state.Score)
	if results.TotalQuestions > 0 && len(results.Answered) >= results.TotalQuestions {
		g.content.SaveProgress(ctx, state.SelectedSubject, state.SelectedLevel, state.Score)
	}
	if err := g.ctrl.TransitionTo(domain.PhaseResults, TransitionData{
		"score":       state.Score,
		"maxScore":    results.TotalQuestions,
		"results":     results,
		"leaderboard": entries,
	}); err != nil {
		log.Printf("warn: show results for %s: %v", state.PlayerName, err)
	}
}

// Exit leaves a running game for subject selection.
func (g *Game) Exit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abandonLocked()
	return g.ctrl.TransitionTo(domain.PhaseSubjectSelection, nil)
}

// ReturnToMenu drops the quiz and opens the start screen.
func (g *Game) ReturnToMenu() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abandonLocked()
	g.ctrl.ResetGameSession()
	return g.ctrl.TransitionTo(domain.PhaseStart, nil)
}

// ShowLeaderboard opens the leaderboard screen.
func (g *Game) ShowLeaderboard() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveGameLocked()
	return g.ctrl.TransitionTo(domain.PhaseLeaderboard, TransitionData{"leaderboard": g.ctrl.State().Leaderboard})
}

// BackToResults returns from the leaderboard to the results screen.
func (g *Game) BackToResults() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveGameLocked()
	return g.ctrl.TransitionTo(domain.PhaseResults, nil)
}

// ToggleAnchor sets or releases the virtual anchor; only meaningful in location mode.
func (g *Game) ToggleAnchor() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctrl.State().ARMode != domain.ARModeLocation {
		return false, fmt.Errorf("%w: anchor requires location mode", domain.ErrInvalidARMode)
	}
	return g.bridge.ToggleAnchor(), nil
}

// MarkerFound and MarkerLost forward tracking signals to the bridge.
func (g *Game) MarkerFound() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bridge.MarkerFound()
}

func (g *Game) MarkerLost() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bridge.MarkerLost()
}

func (g *Game) abandonLocked() {
	g.round++
	g.pending = false
	g.bridge.Clear()
	g.content.Reset()
}

// leaveGameLocked clears the scene and drops pending quiz timers when a navigation action leaves GAME.
// The quiz itself stays loaded.
func (g *Game) leaveGameLocked() {
	if g.ctrl.Phase() != domain.PhaseGame {
		return
	}
	g.round++
	g.pending = false
	g.bridge.Clear()
}

// after schedules f under mu; it is dropped if the game closed or a new quiz round began.
func (g *Game) after(d time.Duration, f func()) {
	round := g.round
	g.scheduler.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed || g.round != round {
			return
		}
		f()
	})
}
