package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/assets"
	"github.com/scythe504/stopgo-backend/internal/config"
	"github.com/scythe504/stopgo-backend/internal/quiz"
	"github.com/scythe504/stopgo-backend/internal/utils"
)

// Options configures a Session. Zero values fall back to defaults: wall-clock
// scheduling, the embedded trivia pool and no asset preloading.
type Options struct {
	Tuning         config.Tuning
	Scheduler      Scheduler
	Quiz           quiz.Provider
	Fallback       *quiz.Pool
	Preloader      assets.Preloader
	AssetURLs      []string
	PreloadTimeout time.Duration
	Rand           *rand.Rand
	Logger         *log.Entry
}

// Session owns one game's SessionState. Every mutation, whether from a
// presentation action or a timer callback, happens while mu is held, so
// actions apply atomically with respect to each other.
type Session struct {
	Id string

	mu      sync.Mutex
	state   internal.SessionState
	version uint64
	tuning  config.Tuning

	timers  *TimerRegistry
	effects *EffectManager
	lights  *LightSequencer
	spawner *ItemSpawner

	quiz      quiz.Provider
	fallback  *quiz.Pool
	preloader assets.Preloader
	assetURLs []string

	preloadTimeout time.Duration
	preloadGen     uint64
	preloadCancel  context.CancelFunc
	quizGen        uint64
	quizCancel     context.CancelFunc

	// Outcome of the round being resolved, recorded into history when the
	// round concludes.
	pendingOutcome internal.RoundOutcome

	rng        *rand.Rand
	log        *log.Entry
	subs       map[int]chan internal.SnapshotData
	nextSub    int
	lastActive time.Time
	closed     bool
}

func NewSession(id string, opts Options) *Session {
	if opts.Tuning.MaxRounds == 0 {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = log.NewEntry(log.StandardLogger())
	}
	if opts.Fallback == nil {
		opts.Fallback = quiz.DefaultPool()
	}
	if opts.PreloadTimeout <= 0 {
		opts.PreloadTimeout = 5 * time.Second
	}

	s := &Session{
		Id:             id,
		tuning:         opts.Tuning,
		fallback:       opts.Fallback,
		quiz:           quiz.WithFallback(opts.Quiz, opts.Fallback, opts.Logger),
		preloader:      opts.Preloader,
		assetURLs:      append([]string(nil), opts.AssetURLs...),
		preloadTimeout: opts.PreloadTimeout,
		rng:            opts.Rand,
		log:            opts.Logger.WithField("session", id),
		subs:           make(map[int]chan internal.SnapshotData),
		lastActive:     time.Now(),
	}
	s.state = internal.NewSessionState(s.tuning.MaxRounds, s.tuning.StartLine)
	s.timers = NewTimerRegistry(opts.Scheduler, &s.mu, s.log)
	s.effects = newEffectManager(s)
	s.lights = &LightSequencer{s: s}
	s.spawner = &ItemSpawner{s: s}

	s.log.Infof("[NewSession] created (maxRounds=%d, round=%v)", s.tuning.MaxRounds, s.tuning.RoundDuration)
	return s
}

// =============================================================================
// SNAPSHOTS & SUBSCRIBERS
// =============================================================================

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() internal.SnapshotData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() internal.SnapshotData {
	return internal.SnapshotData{
		SessionID: s.Id,
		Version:   s.version,
		State:     s.state.Clone(),
	}
}

// Subscribe returns a channel receiving the latest snapshot after every
// change. The channel holds at most one pending snapshot; a slow reader sees
// only the newest one. The current snapshot is delivered immediately.
func (s *Session) Subscribe() (<-chan internal.SnapshotData, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan internal.SnapshotData, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Session) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// publishLocked bumps the version and pushes a snapshot to subscribers.
func (s *Session) publishLocked() {
	s.version++
	if errs := utils.ValidateSessionState(&s.state, s.tuning.StartLine, s.tuning.FinishLine, s.tuning.MaxItems); len(errs) > 0 {
		for _, err := range errs {
			s.log.Errorf("[publish] version=%d: invariant violated: %v", s.version, err)
		}
	}
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// =============================================================================
// ACTION PLUMBING
// =============================================================================

// apply runs fn under the session lock and publishes if it reports a change.
func (s *Session) apply(name string, fn func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.lastActive = time.Now()
	if !fn() {
		s.log.Debugf("[%s] phase=%s: ignored", name, s.state.Phase)
		return false
	}
	s.publishLocked()
	return true
}

// schedule registers a timer whose callback publishes after running.
func (s *Session) schedule(key TimerKey, d time.Duration, fn func()) {
	s.timers.Schedule(key, d, func() {
		if s.closed {
			return
		}
		fn()
		s.publishLocked()
	})
}

// IdleFor reports how long the session has gone without an action.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

// Close cancels every timer and in-flight request and disconnects
// subscribers. The session ignores all actions afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancelEverythingLocked()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.log.Info("[Close] session closed")
}

// cancelEverythingLocked drops all timers and abandons async work.
func (s *Session) cancelEverythingLocked() {
	s.timers.CancelAll()
	s.effects.Reset()
	s.lights.running = false
	s.spawner.running = false
	s.abandonQuizFetchLocked()
	s.abandonPreloadLocked()
}
