package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// periodic runs fn on every tick of interval until stopped. start is a no-op
// while running; stop waits for the loop to exit and allows a later start.
// A stop that lands while fn is running, including one issued by fn itself,
// only cancels: fn sees a canceled context and no further call starts.
type periodic struct {
	clock    clockwork.Clock
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	inside chan struct{} // done of the loop whose fn is running
}

func newPeriodic(clock clockwork.Clock, interval time.Duration, fn func(ctx context.Context)) *periodic {
	return &periodic{clock: clock, interval: interval, fn: fn}
}

func (p *periodic) start(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	ticker := p.clock.NewTicker(p.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		defer p.release(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				p.call(ctx, done)
			}
		}
	}()
	return true
}

func (p *periodic) call(ctx context.Context, done chan struct{}) {
	p.mu.Lock()
	if ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.inside = done
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.inside == done {
			p.inside = nil
		}
		p.mu.Unlock()
	}()
	p.fn(ctx)
}

func (p *periodic) stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	if cancel == nil {
		p.mu.Unlock()
		return
	}
	cancel()
	busy := p.inside == done
	p.mu.Unlock()

	if !busy {
		<-done
	}
}

// release forgets a loop that ended because its parent context was canceled.
func (p *periodic) release(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == done {
		p.cancel()
		p.cancel, p.done = nil, nil
	}
}

func (p *periodic) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
