package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/zerolog/log"
)

// SessionController drives the presentation session and the rush buzzer.
// Read-modify-write cycles are serialized so at most one rush winner is
// recorded per process.
type SessionController struct {
	evals *EvalService
	store *Store
	mu    sync.Mutex
}

func NewSessionController(evals *EvalService) *SessionController {
	return &SessionController{evals: evals, store: evals.Store()}
}

// Session returns the cached session, or the default one if none is stored.
func (c *SessionController) Session() domain.SessionStatus {
	return decodeSession(c.store.Get(domain.CollectionSession))
}

// SessionFresh reads the session from the remote.
func (c *SessionController) SessionFresh(ctx context.Context) (domain.SessionStatus, error) {
	raw, err := c.store.Fresh(ctx, domain.CollectionSession)
	return decodeSession(raw), err
}

// SaveSession writes the session document as-is.
func (c *SessionController) SaveSession(ctx context.Context, status domain.SessionStatus) error {
	return c.store.Set(ctx, domain.CollectionSession, status)
}

func decodeSession(raw json.RawMessage) domain.SessionStatus {
	status := domain.DefaultSession()
	if len(raw) == 0 || string(raw) == "null" {
		return status
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		log.Warn().Err(err).Msg("malformed session, using defaults")
		return domain.DefaultSession()
	}
	return status
}

// update applies fn to the current session and persists the result when fn
// reports a change.
func (c *SessionController) update(ctx context.Context, fn func(domain.SessionStatus) (domain.SessionStatus, bool)) (domain.SessionStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, changed := fn(c.Session())
	if !changed {
		return next, false, nil
	}
	return next, true, c.SaveSession(ctx, next)
}

func always(fn func(domain.SessionStatus) domain.SessionStatus) func(domain.SessionStatus) (domain.SessionStatus, bool) {
	return func(s domain.SessionStatus) (domain.SessionStatus, bool) {
		return fn(s), true
	}
}

// SwitchTeam makes teamID the presenting team, resetting and stopping the timer.
func (c *SessionController) SwitchTeam(ctx context.Context, teamID string) (domain.SessionStatus, error) {
	if _, ok := c.evals.Team(teamID); !ok {
		return c.Session(), domain.ErrTeamNotFound
	}
	s, _, err := c.update(ctx, always(func(s domain.SessionStatus) domain.SessionStatus {
		return s.SwitchTeam(teamID)
	}))
	return s, err
}

// NextTeam moves to the following team, wrapping around.
func (c *SessionController) NextTeam(ctx context.Context) (domain.SessionStatus, error) {
	return c.step(ctx, 1)
}

// PrevTeam moves to the preceding team, wrapping around.
func (c *SessionController) PrevTeam(ctx context.Context) (domain.SessionStatus, error) {
	return c.step(ctx, -1)
}

func (c *SessionController) step(ctx context.Context, dir int) (domain.SessionStatus, error) {
	teams := c.evals.Teams()
	if len(teams) == 0 {
		return c.Session(), domain.ErrTeamNotFound
	}
	s, _, err := c.update(ctx, always(func(s domain.SessionStatus) domain.SessionStatus {
		idx := -1
		for i, t := range teams {
			if t.ID == s.ActiveTeam() {
				idx = i
				break
			}
		}
		// with no active team, next lands on the first and prev on the last
		next := (idx + dir + len(teams)) % len(teams)
		if idx == -1 {
			next = 0
			if dir < 0 {
				next = len(teams) - 1
			}
		}
		return s.SwitchTeam(teams[next].ID)
	}))
	return s, err
}

// EnsureActiveTeam selects the first team when nobody is presenting.
func (c *SessionController) EnsureActiveTeam(ctx context.Context) (domain.SessionStatus, error) {
	teams := c.evals.Teams()
	s, _, err := c.update(ctx, func(s domain.SessionStatus) (domain.SessionStatus, bool) {
		if s.ActiveTeam() != "" || len(teams) == 0 {
			return s, false
		}
		id := teams[0].ID
		s.ActiveTeamID = &id
		return s, true
	})
	return s, err
}

func (c *SessionController) StartTimer(ctx context.Context) (domain.SessionStatus, error) {
	return c.setTimer(ctx, func(bool) bool { return true })
}

func (c *SessionController) PauseTimer(ctx context.Context) (domain.SessionStatus, error) {
	return c.setTimer(ctx, func(bool) bool { return false })
}

func (c *SessionController) ToggleTimer(ctx context.Context) (domain.SessionStatus, error) {
	return c.setTimer(ctx, func(running bool) bool { return !running })
}

// setTimer refuses to start a countdown while nobody is presenting.
func (c *SessionController) setTimer(ctx context.Context, fn func(bool) bool) (domain.SessionStatus, error) {
	noTeam := false
	s, _, err := c.update(ctx, func(s domain.SessionStatus) (domain.SessionStatus, bool) {
		running := fn(s.TimerRunning)
		if running && s.ActiveTeam() == "" {
			noTeam = true
			return s, false
		}
		return s.WithTimer(running), true
	})
	if noTeam {
		return s, domain.ErrNoActiveTeam
	}
	return s, err
}

// ResetTimer restores the full countdown and stops it.
func (c *SessionController) ResetTimer(ctx context.Context) (domain.SessionStatus, error) {
	s, _, err := c.update(ctx, always(domain.SessionStatus.ResetTimer))
	return s, err
}

// SetPhase records the phase. Any phase may follow any other.
func (c *SessionController) SetPhase(ctx context.Context, phase domain.Phase) (domain.SessionStatus, error) {
	if !phase.Valid() {
		return c.Session(), domain.ErrInvalidPhase
	}
	s, _, err := c.update(ctx, always(func(s domain.SessionStatus) domain.SessionStatus {
		next, _ := s.WithPhase(phase)
		return next
	}))
	return s, err
}

// Tick advances a running countdown by one second. Nothing is written while
// the timer is stopped.
func (c *SessionController) Tick(ctx context.Context) (domain.SessionStatus, error) {
	s, _, err := c.update(ctx, func(s domain.SessionStatus) (domain.SessionStatus, bool) {
		if !s.TimerRunning || s.TimeLeft <= 0 {
			return s, false
		}
		return s.Tick(), true
	})
	return s, err
}

// StartRush opens the buzzer and clears the previous winner.
func (c *SessionController) StartRush(ctx context.Context) (domain.SessionStatus, error) {
	s, _, err := c.update(ctx, always(domain.SessionStatus.StartRush))
	return s, err
}

// StopRush closes the buzzer, keeping the winner.
func (c *SessionController) StopRush(ctx context.Context) (domain.SessionStatus, error) {
	s, _, err := c.update(ctx, always(domain.SessionStatus.StopRush))
	return s, err
}

// ClearRushWinner forgets the winner.
func (c *SessionController) ClearRushWinner(ctx context.Context) (domain.SessionStatus, error) {
	s, _, err := c.update(ctx, always(domain.SessionStatus.ClearRushWinner))
	return s, err
}

// TryRush buzzes in for a team. Only the first caller after StartRush wins;
// everyone else gets false and the session is left untouched.
func (c *SessionController) TryRush(ctx context.Context, teamID string) (bool, error) {
	team, ok := c.evals.Team(teamID)
	if !ok {
		return false, domain.ErrTeamNotFound
	}
	winner := domain.RushWinner{
		TeamID:      team.ID,
		TeamName:    team.Name,
		GroupNumber: team.GroupNumber,
		Timestamp:   c.store.Clock().Now().UnixMilli(),
	}
	_, won, err := c.update(ctx, func(s domain.SessionStatus) (domain.SessionStatus, bool) {
		return s.TryRush(winner)
	})
	if won {
		log.Info().Str("team_id", team.ID).Str("team", team.Name).Msg("rush won")
	}
	return won, err
}
