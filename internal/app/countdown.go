package app

import (
	"context"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/zerolog/log"
)

// Countdown ticks the session timer once per second while started.
type Countdown struct {
	sessions *SessionController
	loop     *periodic
	onTick   func(domain.SessionStatus)
}

// NewCountdown builds a countdown over sessions. onTick, if set, sees every
// session written by a tick.
func NewCountdown(sessions *SessionController, onTick func(domain.SessionStatus)) *Countdown {
	c := &Countdown{sessions: sessions, onTick: onTick}
	c.loop = newPeriodic(sessions.store.Clock(), time.Second, c.tick)
	return c
}

func (c *Countdown) tick(ctx context.Context) {
	before := c.sessions.Session()
	s, err := c.sessions.Tick(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("countdown tick not persisted remotely")
	}
	if before.TimerRunning && !s.TimerRunning && s.TimeLeft == 0 {
		log.Info().Str("team_id", s.ActiveTeam()).Msg("presentation time is up")
	}
	if c.onTick != nil && before.TimerRunning {
		c.onTick(s)
	}
}

// Start begins ticking. It is a no-op while already running.
func (c *Countdown) Start(ctx context.Context) {
	c.loop.start(ctx)
}

// Stop cancels ticking; Start may be called again later. It is safe to call
// from onTick.
func (c *Countdown) Stop() {
	c.loop.stop()
}

// Running reports whether the countdown loop is active.
func (c *Countdown) Running() bool {
	return c.loop.running()
}
