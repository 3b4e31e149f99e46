package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

func newTestSessions(t *testing.T, teamNames ...string) (*SessionController, []domain.Team) {
	t.Helper()
	svc, _ := newTestService(t)
	teams := seedTeams(t, svc, teamNames...)
	return NewSessionController(svc), teams
}

func TestRushHasExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf("team %d", i+1)
	}
	sessions, teams := newTestSessions(t, names...)

	if _, err := sessions.StartRush(ctx); err != nil {
		t.Fatalf("start rush: %v", err)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, team := range teams {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			won, err := sessions.TryRush(ctx, id)
			if err != nil {
				t.Errorf("try rush %s: %v", id, err)
			}
			if won {
				wins.Add(1)
			}
		}(team.ID)
	}
	wg.Wait()

	if n := wins.Load(); n != 1 {
		t.Fatalf("expected exactly one winner, got %d", n)
	}
	s := sessions.Session()
	if s.RushEnabled || s.RushWinner == nil {
		t.Fatalf("expected closed rush with a winner, got %+v", s)
	}

	if won, err := sessions.TryRush(ctx, teams[0].ID); err != nil || won {
		t.Fatalf("late buzz must lose, got won=%v err=%v", won, err)
	}
	if _, err := sessions.TryRush(ctx, "ghost"); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}

	s, err := sessions.StopRush(ctx)
	if err != nil || s.RushWinner == nil {
		t.Fatalf("stop keeps the winner, got %+v err=%v", s, err)
	}
	s, err = sessions.StartRush(ctx)
	if err != nil || s.RushWinner != nil || !s.RushEnabled {
		t.Fatalf("start clears the winner, got %+v err=%v", s, err)
	}
}

func TestTickStopsAtZero(t *testing.T) {
	ctx := context.Background()
	sessions, teams := newTestSessions(t, "A")

	if _, err := sessions.SwitchTeam(ctx, teams[0].ID); err != nil {
		t.Fatalf("switch: %v", err)
	}
	s := sessions.Session()
	s.TimeLeft = 1
	s.TimerRunning = true
	if err := sessions.SaveSession(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := sessions.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if s.TimeLeft != 0 || s.TimerRunning {
		t.Fatalf("expected stopped timer at 0, got %+v", s)
	}
	s, _ = sessions.Tick(ctx)
	if s.TimeLeft != 0 {
		t.Fatalf("timer must not go negative, got %d", s.TimeLeft)
	}
	if _, err := sessions.StartTimer(ctx); err != nil {
		t.Fatalf("start timer: %v", err)
	}
	if sessions.Session().TimerRunning {
		t.Fatalf("a finished countdown cannot be restarted without reset")
	}
	s, _ = sessions.ResetTimer(ctx)
	if s.TimeLeft != domain.DefaultTimeLeft || s.TimerRunning {
		t.Fatalf("unexpected reset session %+v", s)
	}
}

func TestTimerNeedsActiveTeam(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newTestSessions(t, "A")

	if _, err := sessions.StartTimer(ctx); !errors.Is(err, domain.ErrNoActiveTeam) {
		t.Fatalf("expected ErrNoActiveTeam, got %v", err)
	}
	if s, err := sessions.EnsureActiveTeam(ctx); err != nil || s.ActiveTeam() == "" {
		t.Fatalf("expected an active team, got %+v err=%v", s, err)
	}
	s, err := sessions.ToggleTimer(ctx)
	if err != nil || !s.TimerRunning {
		t.Fatalf("expected running timer, got %+v err=%v", s, err)
	}
	s, err = sessions.PauseTimer(ctx)
	if err != nil || s.TimerRunning {
		t.Fatalf("expected paused timer, got %+v err=%v", s, err)
	}
}

func TestNextAndPrevWrapAround(t *testing.T) {
	ctx := context.Background()
	sessions, teams := newTestSessions(t, "A", "B", "C")

	s, err := sessions.PrevTeam(ctx)
	if err != nil || s.ActiveTeam() != teams[2].ID {
		t.Fatalf("prev with nobody presenting selects the last team, got %q err=%v", s.ActiveTeam(), err)
	}
	s, _ = sessions.NextTeam(ctx)
	if s.ActiveTeam() != teams[0].ID {
		t.Fatalf("next wraps to the first team, got %q", s.ActiveTeam())
	}
	s, _ = sessions.NextTeam(ctx)
	if s.ActiveTeam() != teams[1].ID || s.TimeLeft != domain.DefaultTimeLeft {
		t.Fatalf("unexpected session %+v", s)
	}
	if _, err := sessions.SwitchTeam(ctx, "ghost"); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestSetPhase(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newTestSessions(t)

	if _, err := sessions.SetPhase(ctx, domain.Phase("intermission")); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
	for _, p := range []domain.Phase{domain.PhaseFinished, domain.PhaseSetup, domain.PhaseScoring} {
		s, err := sessions.SetPhase(ctx, p)
		if err != nil || s.Phase != p {
			t.Fatalf("set phase %s: %+v err=%v", p, s, err)
		}
	}
	if _, err := sessions.NextTeam(ctx); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("next without teams: expected ErrTeamNotFound, got %v", err)
	}
}
