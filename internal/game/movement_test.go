package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/config"
)

func TestStepFor(t *testing.T) {
	tuning := config.DefaultTuning()

	tests := []struct {
		name   string
		status internal.PlayerStatus
		want   float64
	}{
		{"plain", internal.PlayerStatus{}, 5},
		{"boosted", internal.PlayerStatus{IsBoosted: true}, 7.5},
		{"slowed", internal.PlayerStatus{IsSlowed: true}, 2.5},
		{"shield does not change speed", internal.PlayerStatus{HasShield: true}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StepFor(tt.status, tuning), 1e-9)
		})
	}
}

func TestPressGoOnGreenAndYellowAdvances(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	s.PressGo(internal.TeamA)
	assert.InDelta(t, 10, s.Snapshot().State.Positions.A, 1e-9)

	mutate(s, func(st *internal.SessionState) { st.CurrentLight = internal.LightYellow })
	s.PressGo(internal.TeamA)
	st := s.Snapshot().State
	assert.InDelta(t, 15, st.Positions.A, 1e-9)
	assert.InDelta(t, 5, st.Positions.B, 1e-9)
}

func TestPressGoOnRedSendsTeamBack(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	mutate(s, func(st *internal.SessionState) {
		st.Positions.A = 40
		st.CurrentLight = internal.LightRed
	})
	s.mu.Lock()
	s.effects.Apply(internal.TeamA, internal.EffectBoost)
	s.mu.Unlock()

	s.PressGo(internal.TeamA)
	st := s.Snapshot().State
	assert.Equal(t, 5.0, st.Positions.A)
	assert.True(t, st.PlayerStatus.A.PenaltyFlash)
	assert.False(t, st.PlayerStatus.A.IsBoosted)
	assert.False(t, effectPending(s, internal.TeamA, internal.EffectBoost))

	sched.Advance(500 * time.Millisecond)
	assert.False(t, s.Snapshot().State.PlayerStatus.A.PenaltyFlash)
}

func TestShieldAbsorbsRedLight(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	mutate(s, func(st *internal.SessionState) {
		st.Positions.B = 30
		st.CurrentLight = internal.LightRed
	})
	s.mu.Lock()
	s.effects.Apply(internal.TeamB, internal.EffectShield)
	s.mu.Unlock()

	s.PressGo(internal.TeamB)
	st := s.Snapshot().State
	assert.Equal(t, 30.0, st.Positions.B)
	assert.False(t, st.PlayerStatus.B.HasShield)
	assert.False(t, st.PlayerStatus.B.PenaltyFlash)

	// Shield is gone, so the next violation counts.
	s.PressGo(internal.TeamB)
	assert.Equal(t, 5.0, s.Snapshot().State.Positions.B)
}

func TestFrozenTeamCannotMove(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	s.mu.Lock()
	s.effects.Apply(internal.TeamA, internal.EffectFreeze)
	s.mu.Unlock()

	s.PressGo(internal.TeamA)
	assert.Equal(t, 5.0, s.Snapshot().State.Positions.A)

	sched.Advance(2 * time.Second)
	require.False(t, s.Snapshot().State.PlayerStatus.A.IsFrozen)
	s.PressGo(internal.TeamA)
	assert.Equal(t, 10.0, s.Snapshot().State.Positions.A)
}

func TestPressGoIgnoredOutsideLiveRound(t *testing.T) {
	s, _ := newTestSession(t)

	s.PressGo(internal.TeamA)
	assert.Equal(t, internal.PhaseStart, s.Snapshot().State.Phase)

	startRacing(t, s)
	s.Pause()
	s.PressGo(internal.TeamA)
	assert.Equal(t, 5.0, s.Snapshot().State.Positions.A)

	s.Resume()
	s.PressGo(internal.Team("teamC"))
	st := s.Snapshot().State
	assert.Equal(t, 5.0, st.Positions.A)
	assert.Equal(t, 5.0, st.Positions.B)
}

func TestOnlyFirstTeamAcrossFinishWins(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	mutate(s, func(st *internal.SessionState) {
		st.Positions.A = 77
		st.Positions.B = 78
	})
	s.PressGo(internal.TeamA)
	s.PressGo(internal.TeamB)

	st := s.Snapshot().State
	assert.Equal(t, 80.0, st.Positions.A)
	assert.Equal(t, 78.0, st.Positions.B)
	assert.True(t, st.PlayerStatus.A.IsWinner)
	assert.False(t, st.PlayerStatus.B.IsWinner)
	assert.Equal(t, internal.StageAwaitingWin, st.Stage)
	assert.False(t, timerPending(s, TimerRoundClock))
	assert.False(t, timerPending(s, TimerLight))
	assert.False(t, timerPending(s, TimerSpawn))

	sched.Advance(999 * time.Millisecond)
	assert.Equal(t, internal.PhasePlaying, s.Snapshot().State.Phase)

	sched.Advance(time.Millisecond)
	st = s.Snapshot().State
	assert.Equal(t, internal.PhaseQuiz, st.Phase)
	assert.Equal(t, internal.TeamA, st.QuizTeam)
}

func TestCollectPositiveItem(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	s.mu.Lock()
	item, ok := s.spawner.attempt(internal.ItemBooster, internal.TeamA, func(lo, hi float64) float64 { return 30 })
	s.state.Positions.A = 27
	s.mu.Unlock()
	require.True(t, ok)

	s.PressGo(internal.TeamA)
	st := s.Snapshot().State
	assert.Equal(t, 32.0, st.Positions.A)
	assert.True(t, st.PlayerStatus.A.IsBoosted)
	assert.Equal(t, -1, st.ItemIndex(item.Id))
	assert.False(t, timerPending(s, itemTimerKey(item.Id)))

	s.PressGo(internal.TeamA)
	assert.Equal(t, 39.5, s.Snapshot().State.Positions.A)

	sched.Advance(2 * time.Second)
	assert.False(t, s.Snapshot().State.PlayerStatus.A.IsBoosted)
}

func TestNegativeItemHitsOpponent(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	s.mu.Lock()
	_, ok := s.spawner.attempt(internal.ItemSlow, internal.TeamA, func(lo, hi float64) float64 { return 30 })
	s.state.Positions.A = 27
	s.effects.Apply(internal.TeamB, internal.EffectBoost)
	s.mu.Unlock()
	require.True(t, ok)

	s.PressGo(internal.TeamA)
	st := s.Snapshot().State
	assert.False(t, st.PlayerStatus.A.IsSlowed)
	assert.True(t, st.PlayerStatus.B.IsSlowed)
	assert.False(t, st.PlayerStatus.B.IsBoosted)
}

func TestShieldBlocksNegativeItem(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	s.mu.Lock()
	_, ok := s.spawner.attempt(internal.ItemIce, internal.TeamB, func(lo, hi float64) float64 { return 30 })
	s.state.Positions.B = 26
	s.effects.Apply(internal.TeamA, internal.EffectShield)
	s.mu.Unlock()
	require.True(t, ok)

	s.PressGo(internal.TeamB)
	st := s.Snapshot().State
	assert.False(t, st.PlayerStatus.A.IsFrozen)
	assert.False(t, st.PlayerStatus.A.HasShield)
	assert.Empty(t, st.Items)
}

func TestDisappearingItemCannotBeCollected(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	s.mu.Lock()
	item, ok := s.spawner.attempt(internal.ItemShield, internal.TeamA, func(lo, hi float64) float64 { return 30 })
	s.state.Items[s.state.ItemIndex(item.Id)].Disappearing = true
	s.state.Positions.A = 27
	s.mu.Unlock()
	require.True(t, ok)

	s.PressGo(internal.TeamA)
	st := s.Snapshot().State
	assert.False(t, st.PlayerStatus.A.HasShield)
	assert.Len(t, st.Items, 1)
}
