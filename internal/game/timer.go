package game

import (
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// Stopper cancels a scheduled callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the wall clock.
var RealScheduler Scheduler = realScheduler{}

type TimerKey string

const (
	TimerCountdown  TimerKey = "countdown"
	TimerRoundClock TimerKey = "round-clock"
	TimerLight      TimerKey = "light"
	TimerSpawn      TimerKey = "spawn"
	TimerWin        TimerKey = "win-resolution"
	TimerQuiz       TimerKey = "quiz-timeout"

	itemTimerPrefix   = "item:"
	effectTimerPrefix = "effect:"
	flashTimerPrefix  = "flash:"
)

func itemTimerKey(id string) TimerKey {
	return TimerKey(itemTimerPrefix + id)
}

func effectTimerKey(team internal.Team, kind internal.EffectKind) TimerKey {
	return TimerKey(effectTimerPrefix + string(team) + ":" + string(kind))
}

func flashTimerKey(team internal.Team) TimerKey {
	return TimerKey(flashTimerPrefix + string(team))
}

type timerEntry struct {
	gen  uint64
	stop Stopper
}

// TimerRegistry tracks every outstanding callback of a session by key.
// Scheduling a key replaces (and stops) whatever was pending under it.
//
// Callbacks run with lock held and only if their entry is still the current
// one for the key, so a callback that lost a race with Cancel never mutates
// state. All methods other than the callbacks themselves expect the caller to
// hold lock already.
type TimerRegistry struct {
	sched   Scheduler
	lock    sync.Locker
	entries map[TimerKey]timerEntry
	nextGen uint64
	log     *log.Entry
}

func NewTimerRegistry(sched Scheduler, lock sync.Locker, logger *log.Entry) *TimerRegistry {
	if sched == nil {
		sched = RealScheduler
	}
	return &TimerRegistry{
		sched:   sched,
		lock:    lock,
		entries: make(map[TimerKey]timerEntry),
		log:     logger,
	}
}

// Schedule arranges for fn to run after d unless key is cancelled or
// rescheduled first.
func (r *TimerRegistry) Schedule(key TimerKey, d time.Duration, fn func()) {
	r.Cancel(key)

	r.nextGen++
	gen := r.nextGen
	stop := r.sched.AfterFunc(d, func() {
		r.lock.Lock()
		defer r.lock.Unlock()

		entry, ok := r.entries[key]
		if !ok || entry.gen != gen {
			r.log.Debugf("[TimerRegistry] key=%s gen=%d: stale callback dropped", key, gen)
			return
		}
		delete(r.entries, key)
		fn()
	})
	r.entries[key] = timerEntry{gen: gen, stop: stop}
}

// Cancel stops the timer registered under key. It reports whether one was
// pending.
func (r *TimerRegistry) Cancel(key TimerKey) bool {
	entry, ok := r.entries[key]
	if !ok {
		return false
	}
	entry.stop.Stop()
	delete(r.entries, key)
	return true
}

// CancelPrefix stops every timer whose key starts with prefix and returns how
// many were pending.
func (r *TimerRegistry) CancelPrefix(prefix string) int {
	n := 0
	for key := range r.entries {
		if strings.HasPrefix(string(key), prefix) {
			r.Cancel(key)
			n++
		}
	}
	return n
}

// CancelAll stops every outstanding timer.
func (r *TimerRegistry) CancelAll() int {
	n := len(r.entries)
	for key, entry := range r.entries {
		entry.stop.Stop()
		delete(r.entries, key)
	}
	if n > 0 {
		r.log.Debugf("[TimerRegistry] cancelled %d timers", n)
	}
	return n
}

func (r *TimerRegistry) Pending(key TimerKey) bool {
	_, ok := r.entries[key]
	return ok
}

func (r *TimerRegistry) Len() int {
	return len(r.entries)
}
