package domain

import "errors"

var (
	// ErrUnknownSubject is returned when a subject is not part of the catalog.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrUnknownLevel is returned when a level index is outside the subject's catalog.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrLevelLocked indicates the previous level has not been completed yet.
	ErrLevelLocked = errors.New("level locked")
	// ErrNoActiveQuiz is returned when a quiz operation runs before StartQuiz.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrAnswerNotFound indicates a submitted answer ID is not part of the current question.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrObjectNotFound indicates a tap referenced an object that is no longer placed.
	ErrObjectNotFound = errors.New("placed object not found")
	// ErrKeyNotFound is returned by key-value stores for absent keys.
	ErrKeyNotFound = errors.New("key not found")
	// ErrIllegalTransition is returned when a restricted controller refuses a phase change.
	ErrIllegalTransition = errors.New("illegal phase transition")
	// ErrInvalidARMode indicates an AR mode other than marker or location.
	ErrInvalidARMode = errors.New("invalid ar mode")
	// ErrGameNotFound is returned when a game id is not registered.
	ErrGameNotFound = errors.New("game not found")
	// ErrMissingDependency aborts startup when a required collaborator is absent.
	ErrMissingDependency = errors.New("required module not available")
	// ErrEmptyPlayerName rejects blank names on the name input screen.
	ErrEmptyPlayerName = errors.New("player name is empty")
)
