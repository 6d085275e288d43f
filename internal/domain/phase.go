package domain

import "fmt"

// Phase is one screen of the game's state machine.
type Phase string

const (
	PhaseLoading          Phase = "loading"
	PhaseNameInput        Phase = "name_input"
	PhaseStart            Phase = "start"
	PhaseSubjectSelection Phase = "subject_selection"
	PhaseLevelSelection   Phase = "level_selection"
	PhaseARInstructions   Phase = "ar_instructions"
	PhaseGame             Phase = "game"
	PhaseResults          Phase = "results"
	PhaseLeaderboard      Phase = "leaderboard"
)

// Phases lists every phase in screen order.
var Phases = []Phase{
	PhaseLoading,
	PhaseNameInput,
	PhaseStart,
	PhaseSubjectSelection,
	PhaseLevelSelection,
	PhaseARInstructions,
	PhaseGame,
	PhaseResults,
	PhaseLeaderboard,
}

// ParsePhase maps a wire name back to a Phase.
func ParsePhase(raw string) (Phase, error) {
	for _, p := range Phases {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q", raw)
}

// ARMode selects the tracking strategy.
type ARMode string

const (
	ARModeMarker   ARMode = "marker"
	ARModeLocation ARMode = "location"
)

// Valid reports whether m is one of the two supported modes.
func (m ARMode) Valid() bool {
	return m == ARModeMarker || m == ARModeLocation
}

// Subject is one of the fixed quiz subjects.
type Subject string

const (
	SubjectGeology Subject = "geology"
	SubjectBotany  Subject = "botany"
	SubjectAnatomy Subject = "anatomy"
)

// Subjects is the fixed subject list in menu order.
var Subjects = []Subject{SubjectGeology, SubjectBotany, SubjectAnatomy}

// ParseSubject validates a subject name.
func ParseSubject(raw string) (Subject, error) {
	for _, s := range Subjects {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSubject, raw)
}
