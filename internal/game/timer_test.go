package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// leakyScheduler never actually stops a timer, like a time.Timer whose
// callback already started when Stop was called.
type leakyScheduler struct {
	*fakeScheduler
}

type noopStopper struct{}

func (noopStopper) Stop() bool { return false }

func (l leakyScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	l.fakeScheduler.AfterFunc(d, f)
	return noopStopper{}
}

func newTestRegistry(sched Scheduler) (*TimerRegistry, *sync.Mutex) {
	mu := &sync.Mutex{}
	return NewTimerRegistry(sched, mu, testLogger()), mu
}

func TestTimerRegistryFiresOnce(t *testing.T) {
	sched := &fakeScheduler{}
	r, mu := newTestRegistry(sched)

	calls := 0
	mu.Lock()
	r.Schedule(TimerLight, time.Second, func() { calls++ })
	assert.True(t, r.Pending(TimerLight))
	mu.Unlock()

	sched.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, calls)
	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, calls)

	mu.Lock()
	assert.False(t, r.Pending(TimerLight))
	mu.Unlock()
	sched.Advance(time.Hour)
	assert.Equal(t, 1, calls)
}

func TestTimerRegistryRescheduleReplaces(t *testing.T) {
	sched := &fakeScheduler{}
	r, mu := newTestRegistry(sched)

	var fired []string
	mu.Lock()
	r.Schedule(TimerSpawn, time.Second, func() { fired = append(fired, "first") })
	r.Schedule(TimerSpawn, 2*time.Second, func() { fired = append(fired, "second") })
	assert.Equal(t, 1, r.Len())
	mu.Unlock()

	sched.Advance(3 * time.Second)
	assert.Equal(t, []string{"second"}, fired)
}

func TestTimerRegistryDropsStaleCallbacks(t *testing.T) {
	sched := leakyScheduler{&fakeScheduler{}}
	r, mu := newTestRegistry(sched)

	calls := 0
	mu.Lock()
	r.Schedule(TimerQuiz, time.Second, func() { calls++ })
	assert.True(t, r.Cancel(TimerQuiz))
	assert.False(t, r.Cancel(TimerQuiz))
	mu.Unlock()

	sched.Advance(2 * time.Second)
	assert.Equal(t, 0, calls)
}

func TestTimerRegistryCancelPrefix(t *testing.T) {
	sched := &fakeScheduler{}
	r, mu := newTestRegistry(sched)

	calls := 0
	inc := func() { calls++ }
	mu.Lock()
	r.Schedule(itemTimerKey("a"), time.Second, inc)
	r.Schedule(itemTimerKey("b"), time.Second, inc)
	r.Schedule(TimerRoundClock, time.Second, inc)
	assert.Equal(t, 2, r.CancelPrefix(itemTimerPrefix))
	assert.Equal(t, 1, r.Len())
	mu.Unlock()

	sched.Advance(time.Second)
	assert.Equal(t, 1, calls)

	mu.Lock()
	r.Schedule(TimerWin, time.Second, inc)
	r.Schedule(TimerCountdown, time.Second, inc)
	assert.Equal(t, 2, r.CancelAll())
	mu.Unlock()
	sched.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sched.Pending())
}
