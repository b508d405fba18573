package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/stopgo-backend/internal"
)

func applyEffect(s *Session, team internal.Team, kind internal.EffectKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effects.Apply(team, kind)
}

func TestPositiveEffectClearsNegatives(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	require.True(t, applyEffect(s, internal.TeamA, internal.EffectSlow))
	require.True(t, applyEffect(s, internal.TeamA, internal.EffectShield))

	st := s.Snapshot().State.PlayerStatus.A
	assert.True(t, st.HasShield)
	assert.False(t, st.IsSlowed)
	assert.False(t, effectPending(s, internal.TeamA, internal.EffectSlow))
}

func TestSlowAndFreezeAreExclusive(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	applyEffect(s, internal.TeamB, internal.EffectSlow)
	applyEffect(s, internal.TeamB, internal.EffectFreeze)
	st := s.Snapshot().State.PlayerStatus.B
	assert.True(t, st.IsFrozen)
	assert.False(t, st.IsSlowed)

	applyEffect(s, internal.TeamB, internal.EffectSlow)
	st = s.Snapshot().State.PlayerStatus.B
	assert.True(t, st.IsSlowed)
	assert.False(t, st.IsFrozen)
}

func TestShieldIsConsumedByOneNegative(t *testing.T) {
	s, _ := newTestSession(t)
	startRacing(t, s)

	applyEffect(s, internal.TeamA, internal.EffectShield)
	applyEffect(s, internal.TeamA, internal.EffectBoost)

	assert.False(t, applyEffect(s, internal.TeamA, internal.EffectFreeze))
	st := s.Snapshot().State.PlayerStatus.A
	assert.False(t, st.HasShield)
	assert.False(t, st.IsFrozen)
	assert.True(t, st.IsBoosted, "an absorbed hit leaves other effects alone")

	assert.True(t, applyEffect(s, internal.TeamA, internal.EffectFreeze))
	st = s.Snapshot().State.PlayerStatus.A
	assert.True(t, st.IsFrozen)
	assert.False(t, st.IsBoosted)
}

func TestReapplyingEffectRestartsExpiry(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	applyEffect(s, internal.TeamA, internal.EffectBoost)
	sched.Advance(1500 * time.Millisecond)
	applyEffect(s, internal.TeamA, internal.EffectBoost)

	sched.Advance(1 * time.Second)
	assert.True(t, s.Snapshot().State.PlayerStatus.A.IsBoosted)

	sched.Advance(1 * time.Second)
	assert.False(t, s.Snapshot().State.PlayerStatus.A.IsBoosted)
}

func TestEffectTimersDoNotOutliveTheRound(t *testing.T) {
	s, sched := newTestSession(t)
	startRacing(t, s)

	applyEffect(s, internal.TeamB, internal.EffectBoost)
	winRound(t, s, sched, internal.TeamA)

	assert.False(t, effectPending(s, internal.TeamB, internal.EffectBoost))
	sched.Advance(3 * time.Second)
	// Flags stay as they were until the next round resets them.
	assert.True(t, s.Snapshot().State.PlayerStatus.B.IsBoosted)
}
