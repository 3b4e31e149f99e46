package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultFreshness    = 500 * time.Millisecond
	DefaultPollInterval = time.Second
)

// Store is the client's view of the shared document: a read-through cache with
// stale-while-revalidate reads, a local durable shadow copy, per-collection
// change listeners and a background poller. It is the only writer of the remote.
type Store struct {
	remote       RemoteStore
	shadow       ShadowStore
	clock        clockwork.Clock
	freshness    time.Duration
	pollInterval time.Duration
	names        []string

	ctx    context.Context
	cancel context.CancelFunc
	sf     singleflight.Group
	poller *periodic

	mu     sync.RWMutex
	slots  map[string]slot
	writes map[string]uint64 // local writes per collection, bumped by Set and Reset

	subMu sync.Mutex
	subs  map[string][]*subscription
}

type slot struct {
	value    json.RawMessage
	loadedAt time.Time
}

type subscription struct {
	fn     func()
	active atomic.Bool
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock clockwork.Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// WithFreshness sets how long a cached collection is served without a background refresh.
func WithFreshness(d time.Duration) StoreOption {
	return func(s *Store) { s.freshness = d }
}

// WithPollInterval sets the poller period.
func WithPollInterval(d time.Duration) StoreOption {
	return func(s *Store) { s.pollInterval = d }
}

// WithShadow sets the local durable fallback.
func WithShadow(shadow ShadowStore) StoreOption {
	return func(s *Store) { s.shadow = shadow }
}

// NewStore builds a store over remote. Without WithShadow the fallback is a no-op.
func NewStore(remote RemoteStore, opts ...StoreOption) *Store {
	s := &Store{
		remote:       remote,
		shadow:       noShadow{},
		clock:        clockwork.NewRealClock(),
		freshness:    DefaultFreshness,
		pollInterval: DefaultPollInterval,
		names:        domain.Collections,
		slots:        make(map[string]slot),
		writes:       make(map[string]uint64),
		subs:         make(map[string][]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.poller = newPeriodic(s.clock, s.pollInterval, func(ctx context.Context) {
		s.PollOnce(ctx)
	})
	return s
}

// Clock returns the clock used for freshness and timestamps.
func (s *Store) Clock() clockwork.Clock {
	return s.clock
}

// Close stops the poller and abandons in-flight background refreshes.
func (s *Store) Close() {
	s.StopPolling()
	s.cancel()
}

// Get returns the cached value of a collection without blocking on I/O. When
// nothing is cached the shadow copy is served. A missing or stale entry
// triggers a background refresh which notifies listeners if the value changed.
func (s *Store) Get(name string) json.RawMessage {
	s.mu.RLock()
	sl, ok := s.slots[name]
	s.mu.RUnlock()

	if !ok || s.clock.Since(sl.loadedAt) >= s.freshness {
		go s.refresh(name)
	}
	if ok {
		return sl.value
	}
	raw, _ := s.loadShadow(s.ctx, name)
	return raw
}

// Fresh reads a collection from the remote and updates the cache. When the
// remote cannot be reached the best local value is returned together with an
// error wrapping domain.ErrRemoteUnavailable; the value is usable either way.
func (s *Store) Fresh(ctx context.Context, name string) (json.RawMessage, error) {
	raw, err := s.fetch(ctx, name)
	if err == nil {
		return raw, nil
	}
	log.Warn().Err(err).Str("collection", name).Msg("fetch failed, serving local copy")

	if shadow, ok := s.loadShadow(ctx, name); ok {
		return shadow, fmt.Errorf("%w: fetch %s: %v", domain.ErrRemoteUnavailable, name, err)
	}
	s.mu.RLock()
	sl := s.slots[name]
	s.mu.RUnlock()
	return sl.value, fmt.Errorf("%w: fetch %s: %v", domain.ErrRemoteUnavailable, name, err)
}

// Set replaces a collection. The cache and shadow copy are written first, then
// the remote; listeners are notified whether or not the remote accepted it.
func (s *Store) Set(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	s.mu.Lock()
	s.slots[name] = slot{value: raw, loadedAt: s.clock.Now()}
	s.writes[name]++
	s.mu.Unlock()
	s.saveShadow(ctx, name, raw)

	putErr := s.remote.Put(ctx, name, raw)
	s.notify(name)
	if putErr != nil {
		log.Warn().Err(putErr).Str("collection", name).Msg("remote put failed, kept local copy")
		return fmt.Errorf("%w: put %s: %v", domain.ErrRemoteUnavailable, name, putErr)
	}
	return nil
}

// Reset restores the remote document to its defaults, then drops every cached
// and shadowed collection and notifies all listeners.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.remote.Reset(ctx); err != nil {
		log.Error().Err(err).Msg("reset failed")
		return fmt.Errorf("%w: reset: %v", domain.ErrRemoteUnavailable, err)
	}
	s.mu.Lock()
	s.slots = make(map[string]slot)
	for _, name := range s.names {
		s.writes[name]++
	}
	s.mu.Unlock()
	if err := s.shadow.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("clear local copy failed")
	}
	for _, name := range s.names {
		s.notify(name)
	}
	return nil
}

// Subscribe registers fn for changes to a collection. Listeners run
// synchronously in registration order and re-read through Get. The returned
// function unsubscribes; it is idempotent and safe to call from a listener.
func (s *Store) Subscribe(name string, fn func()) func() {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.subMu.Lock()
	s.subs[name] = append(s.subs[name], sub)
	s.subMu.Unlock()

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.subMu.Lock()
		defer s.subMu.Unlock()
		list := s.subs[name]
		for i, x := range list {
			if x == sub {
				// copy so an in-progress delivery keeps its own snapshot
				s.subs[name] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// StartPolling begins reconciling the cache against the remote every poll
// interval. Calling it while already polling does nothing.
func (s *Store) StartPolling(ctx context.Context) {
	if s.poller.start(ctx) {
		log.Debug().Dur("interval", s.pollInterval).Msg("polling started")
	}
}

// StopPolling cancels the poller and waits for it, unless it is called from a
// listener running inside a poll. Polling may be started again.
func (s *Store) StopPolling() {
	s.poller.stop()
}

// Polling reports whether the poller is running.
func (s *Store) Polling() bool {
	return s.poller.running()
}

// PollOnce fetches the whole document and replaces every collection whose
// value differs from the cache, notifying its listeners. Fetch errors are
// swallowed. It returns the names that changed.
func (s *Store) PollOnce(ctx context.Context) []string {
	seen := make(map[string]uint64, len(s.names))
	s.mu.RLock()
	for _, name := range s.names {
		seen[name] = s.writes[name]
	}
	s.mu.RUnlock()

	doc, err := s.remote.Snapshot(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("poll failed")
		return nil
	}
	var changed []string
	for _, name := range s.names {
		if s.apply(ctx, name, doc[name], seen[name]) {
			changed = append(changed, name)
		}
	}
	return changed
}

func (s *Store) refresh(name string) {
	if _, err := s.fetch(s.ctx, name); err != nil {
		log.Debug().Err(err).Str("collection", name).Msg("background refresh failed")
	}
}

func (s *Store) fetch(ctx context.Context, name string) (json.RawMessage, error) {
	result, err, _ := s.sf.Do(name, func() (interface{}, error) {
		s.mu.RLock()
		seen := s.writes[name]
		s.mu.RUnlock()

		raw, err := s.remote.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		s.apply(ctx, name, raw, seen)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// apply stores a remote value and reports whether it differed structurally
// from what was cached. seen is the write count observed before the remote
// read; a value read before a later local write is dropped.
func (s *Store) apply(ctx context.Context, name string, raw json.RawMessage, seen uint64) bool {
	next := canonical(raw)

	s.mu.Lock()
	if s.writes[name] != seen {
		s.mu.Unlock()
		return false
	}
	prev, ok := s.slots[name]
	changed := (!ok && next != "null") || (ok && canonical(prev.value) != next)
	if changed {
		s.slots[name] = slot{value: raw, loadedAt: s.clock.Now()}
	} else if ok {
		prev.loadedAt = s.clock.Now()
		s.slots[name] = prev
	} else {
		// absent remotely: cache the absence so the freshness window applies
		s.slots[name] = slot{value: json.RawMessage("null"), loadedAt: s.clock.Now()}
	}
	s.mu.Unlock()

	if changed {
		s.saveShadow(ctx, name, raw)
		s.notify(name)
	}
	return changed
}

func (s *Store) notify(name string) {
	s.subMu.Lock()
	subs := s.subs[name]
	s.subMu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn()
		}
	}
}

func (s *Store) loadShadow(ctx context.Context, name string) (json.RawMessage, bool) {
	raw, ok, err := s.shadow.Load(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("collection", name).Msg("read local copy failed")
		return nil, false
	}
	return raw, ok
}

func (s *Store) saveShadow(ctx context.Context, name string, raw json.RawMessage) {
	if err := s.shadow.Save(ctx, name, raw); err != nil {
		log.Warn().Err(err).Str("collection", name).Msg("write local copy failed")
	}
}

// canonical renders raw with sorted object keys so equal documents compare equal.
// Invalid JSON compares by its bytes.
func canonical(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(b)
}

type noShadow struct{}

func (noShadow) Load(context.Context, string) (json.RawMessage, bool, error) { return nil, false, nil }
func (noShadow) Save(context.Context, string, json.RawMessage) error        { return nil }
func (noShadow) Clear(context.Context) error                                { return nil }
