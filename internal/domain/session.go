package domain

// Phase is advisory metadata describing where the presentation is.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhasePresenting Phase = "presenting"
	PhaseScoring    Phase = "scoring"
	PhaseFinished   Phase = "finished"
)

// DefaultTimeLeft is the countdown length in seconds for one presentation.
const DefaultTimeLeft = 600

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhasePresenting, PhaseScoring, PhaseFinished:
		return true
	}
	return false
}

// RushWinner records the first team to buzz in.
type RushWinner struct {
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName"`
	GroupNumber int    `json:"groupNumber"`
	Timestamp   int64  `json:"timestamp"`
}

// SessionStatus is the singleton document describing the current presentation.
// Transitions are value methods so callers control when the result is persisted.
type SessionStatus struct {
	ActiveTeamID *string     `json:"activeTeamId"`
	TimerRunning bool        `json:"timerRunning"`
	TimeLeft     int         `json:"timeLeft"`
	Phase        Phase       `json:"phase"`
	RushEnabled  bool        `json:"rushEnabled"`
	RushWinner   *RushWinner `json:"rushWinner"`
}

// DefaultSession returns the session shape used after a reset.
func DefaultSession() SessionStatus {
	return SessionStatus{
		TimeLeft: DefaultTimeLeft,
		Phase:    PhaseSetup,
	}
}

// ActiveTeam returns the active team ID or "" when no team is presenting.
func (s SessionStatus) ActiveTeam() string {
	if s.ActiveTeamID == nil {
		return ""
	}
	return *s.ActiveTeamID
}

// Tick advances the countdown by one second. The timer stops itself at zero.
func (s SessionStatus) Tick() SessionStatus {
	if !s.TimerRunning || s.TimeLeft <= 0 {
		return s
	}
	s.TimeLeft--
	if s.TimeLeft <= 0 {
		s.TimeLeft = 0
		s.TimerRunning = false
	}
	return s
}

// SwitchTeam makes teamID the presenting team and resets the countdown.
func (s SessionStatus) SwitchTeam(teamID string) SessionStatus {
	if teamID == "" {
		s.ActiveTeamID = nil
	} else {
		id := teamID
		s.ActiveTeamID = &id
	}
	s.TimeLeft = DefaultTimeLeft
	s.TimerRunning = false
	return s
}

// WithTimer starts or pauses the countdown. A finished countdown cannot be started.
func (s SessionStatus) WithTimer(running bool) SessionStatus {
	s.TimerRunning = running && s.TimeLeft > 0
	return s
}

// ResetTimer restores the full countdown and stops it.
func (s SessionStatus) ResetTimer() SessionStatus {
	s.TimeLeft = DefaultTimeLeft
	s.TimerRunning = false
	return s
}

// WithPhase sets the phase. Any phase may follow any other.
func (s SessionStatus) WithPhase(p Phase) (SessionStatus, error) {
	if !p.Valid() {
		return s, ErrInvalidPhase
	}
	s.Phase = p
	return s, nil
}

// StartRush opens the buzzer and forgets the previous winner.
func (s SessionStatus) StartRush() SessionStatus {
	s.RushEnabled = true
	s.RushWinner = nil
	return s
}

// StopRush closes the buzzer but keeps any recorded winner.
func (s SessionStatus) StopRush() SessionStatus {
	s.RushEnabled = false
	return s
}

// ClearRushWinner forgets the winner only.
func (s SessionStatus) ClearRushWinner() SessionStatus {
	s.RushWinner = nil
	return s
}

// TryRush records w as winner if the buzzer is open and nobody has won yet.
// Losers get false and an unchanged session.
func (s SessionStatus) TryRush(w RushWinner) (SessionStatus, bool) {
	if !s.RushEnabled || s.RushWinner != nil {
		return s, false
	}
	s.RushEnabled = false
	s.RushWinner = &w
	return s, true
}
