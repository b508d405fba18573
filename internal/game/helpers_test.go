package game

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/config"
	"github.com/scythe504/stopgo-backend/internal/quiz"
)

// fakeScheduler is a manual clock. Callbacks only run inside Advance, in due
// order, and never while the scheduler's own lock is held.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	sched *fakeScheduler
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) Stopper {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTimer{sched: f, at: f.now + d, seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (f *fakeScheduler) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var next *fakeTimer
		live := f.timers[:0]
		for _, t := range f.timers {
			if t.done {
				continue
			}
			live = append(live, t)
			if t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		f.timers = live
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		next.done = true
		f.now = next.at
		f.mu.Unlock()

		next.fn()
	}
}

func (f *fakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func fixed(d time.Duration) internal.DurationRange {
	return internal.DurationRange{Min: d, Max: d}
}

// testTuning keeps the light on green and the spawner idle unless a test
// opts in, so movement tests are deterministic.
func testTuning() config.Tuning {
	t := config.DefaultTuning()
	t.GreenDwell = fixed(time.Hour)
	t.FirstSpawnDelay = fixed(time.Hour)
	t.NextSpawnDelay = fixed(time.Hour)
	return t
}

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

var sampleQuestion = internal.QuizQuestion{
	Question:      "How many legs does a spider have?",
	Answers:       []string{"6", "8", "10", "4"},
	CorrectAnswer: "8",
}

func staticProvider(q internal.QuizQuestion) quiz.Provider {
	return quiz.ProviderFunc(func(ctx context.Context) (internal.QuizQuestion, error) {
		return q, nil
	})
}

type sessionOption func(*Options)

func withTuning(mutate func(*config.Tuning)) sessionOption {
	return func(o *Options) {
		mutate(&o.Tuning)
	}
}

func withQuiz(p quiz.Provider) sessionOption {
	return func(o *Options) {
		o.Quiz = p
	}
}

func newTestSession(t *testing.T, opts ...sessionOption) (*Session, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	o := Options{
		Tuning:    testTuning(),
		Scheduler: sched,
		Quiz:      staticProvider(sampleQuestion),
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Logger:    testLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	s := NewSession("test", o)
	t.Cleanup(s.Close)
	return s, sched
}

// startRacing takes a fresh session straight into a live round one.
func startRacing(t *testing.T, s *Session) {
	t.Helper()
	s.Start()
	s.ConfirmTeamSetup([]string{"Mia"}, []string{"Leo"})
	require.Equal(t, internal.PhaseRoundStart, s.Snapshot().State.Phase)
	s.BeginRound()
	st := s.Snapshot().State
	require.Equal(t, internal.PhasePlaying, st.Phase)
	require.Equal(t, internal.StageRacing, st.Stage)
	require.Equal(t, internal.LightGreen, st.CurrentLight)
}

// mutate edits the state under the session lock.
func mutate(s *Session, fn func(st *internal.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func waitQuizLoaded(t *testing.T, s *Session) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := s.Snapshot().State
		return st.Phase == internal.PhaseQuiz && !st.IsQuizLoading && st.Quiz != nil
	}, time.Second, 5*time.Millisecond)
}

// winRound puts team one step from the finish and presses GO.
func winRound(t *testing.T, s *Session, sched *fakeScheduler, team internal.Team) {
	t.Helper()
	mutate(s, func(st *internal.SessionState) {
		st.Positions.Set(team, s.tuning.FinishLine-1)
	})
	s.PressGo(team)
	require.Equal(t, internal.StageAwaitingWin, s.Snapshot().State.Stage)
	sched.Advance(s.tuning.WinCelebrationDelay)
	waitQuizLoaded(t, s)
}

func timerPending(s *Session, key TimerKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers.Pending(key)
}

func effectPending(s *Session, team internal.Team, kind internal.EffectKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effects.Pending(team, kind)
}
