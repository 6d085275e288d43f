package app

import "ar-quiz-service/internal/domain"

// DefaultPlayerName is used until the player submits a name.
const DefaultPlayerName = "Player"

// NoLevel marks SelectedLevel as unset.
const NoLevel = -1

// StateKey names one slot of SessionState.
type StateKey string

const (
	KeyPlayerName           StateKey = "playerName"
	KeySelectedSubject      StateKey = "selectedSubject"
	KeySelectedLevel        StateKey = "selectedLevel"
	KeyScore                StateKey = "score"
	KeyMaxQuestions         StateKey = "maxQuestions"
	KeyCurrentQuestionIndex StateKey = "currentQuestionIndex"
	KeyARMode               StateKey = "arMode"
	KeyLeaderboard          StateKey = "leaderboard"
)

// SessionState is the flat record of the player's session.
type SessionState struct {
	PlayerName           string                    `json:"playerName"`
	SelectedSubject      domain.Subject            `json:"selectedSubject,omitempty"`
	SelectedLevel        int                       `json:"selectedLevel"`
	Score                int                       `json:"score"`
	MaxQuestions         int                       `json:"maxQuestions"`
	CurrentQuestionIndex int                       `json:"currentQuestionIndex"`
	ARMode               domain.ARMode             `json:"arMode"`
	Leaderboard          []domain.LeaderboardEntry `json:"leaderboard"`
}

func newSessionState(leaderboard []domain.LeaderboardEntry) SessionState {
	return SessionState{
		PlayerName:    DefaultPlayerName,
		SelectedLevel: NoLevel,
		MaxQuestions:  domain.QuestionsPerLevel,
		ARMode:        domain.ARModeLocation,
		Leaderboard:   leaderboard,
	}
}

// get returns the value stored under key.
func (s *SessionState) get(key StateKey) (any, bool) {
	switch key {
	case KeyPlayerName:
		return s.PlayerName, true
	case KeySelectedSubject:
		return s.SelectedSubject, true
	case KeySelectedLevel:
		return s.SelectedLevel, true
	case KeyScore:
		return s.Score, true
	case KeyMaxQuestions:
		return s.MaxQuestions, true
	case KeyCurrentQuestionIndex:
		return s.CurrentQuestionIndex, true
	case KeyARMode:
		return s.ARMode, true
	case KeyLeaderboard:
		return append([]domain.LeaderboardEntry(nil), s.Leaderboard...), true
	}
	return nil, false
}

// set assigns value to key, reporting false for unknown keys or mismatched types.
func (s *SessionState) set(key StateKey, value any) bool {
	switch key {
	case KeyPlayerName:
		v, ok := value.(string)
		if ok {
			s.PlayerName = v
		}
		return ok
	case KeySelectedSubject:
		switch v := value.(type) {
		case domain.Subject:
			s.SelectedSubject = v
		case string:
			s.SelectedSubject = domain.Subject(v)
		default:
			return false
		}
		return true
	case KeySelectedLevel:
		return setInt(&s.SelectedLevel, value, NoLevel)
	case KeyScore:
		return setInt(&s.Score, value, 0)
	case KeyMaxQuestions:
		return setInt(&s.MaxQuestions, value, 0)
	case KeyCurrentQuestionIndex:
		return setInt(&s.CurrentQuestionIndex, value, 0)
	case KeyARMode:
		var mode domain.ARMode
		switch v := value.(type) {
		case domain.ARMode:
			mode = v
		case string:
			mode = domain.ARMode(v)
		default:
			return false
		}
		if !mode.Valid() {
			return false
		}
		s.ARMode = mode
		return true
	case KeyLeaderboard:
		v, ok := value.([]domain.LeaderboardEntry)
		if ok {
			s.Leaderboard = append([]domain.LeaderboardEntry(nil), v...)
		}
		return ok
	}
	return false
}

func setInt(dst *int, value any, min int) bool {
	var v int
	switch n := value.(type) {
	case int:
		v = n
	case float64:
		// JSON numbers arrive as float64
		if n != float64(int(n)) {
			return false
		}
		v = int(n)
	default:
		return false
	}
	if v < min {
		return false
	}
	*dst = v
	return true
}
