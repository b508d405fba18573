package game

import (
	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// STATUS EFFECTS
// =============================================================================

type effectSlot struct {
	team internal.Team
	kind internal.EffectKind
}

// EffectManager owns the table of effect expiry timers. Every change to a
// team's shield/boost/slow/freeze flag goes through it so no expiry can
// outlive the flag it belongs to. Callers hold the session lock.
type EffectManager struct {
	s      *Session
	active map[effectSlot]TimerKey
}

func newEffectManager(s *Session) *EffectManager {
	return &EffectManager{s: s, active: make(map[effectSlot]TimerKey)}
}

// Apply sets kind on team. Positive effects first clear any slow or freeze.
// Negative effects are blocked by a shield, which is consumed instead; in that
// case Apply returns false. Boost, slow and freeze are mutually exclusive.
func (m *EffectManager) Apply(team internal.Team, kind internal.EffectKind) bool {
	status := m.s.state.PlayerStatus.Ptr(team)

	if kind.IsNegative() {
		if status.HasShield {
			m.Clear(team, internal.EffectShield)
			m.s.log.Debugf("[EffectManager.Apply] team=%s: shield absorbed %s", team, kind)
			return false
		}
		m.Clear(team, internal.EffectBoost)
	} else {
		m.Clear(team, internal.EffectSlow)
		m.Clear(team, internal.EffectFreeze)
	}
	switch kind {
	case internal.EffectSlow:
		m.Clear(team, internal.EffectFreeze)
	case internal.EffectFreeze:
		m.Clear(team, internal.EffectSlow)
	}

	status.SetEffect(kind, true)
	slot := effectSlot{team: team, kind: kind}
	key := effectTimerKey(team, kind)
	m.active[slot] = key
	m.s.schedule(key, m.s.tuning.EffectDuration, func() {
		m.expire(slot)
	})

	m.s.log.Debugf("[EffectManager.Apply] team=%s: %s for %v", team, kind, m.s.tuning.EffectDuration)
	return true
}

func (m *EffectManager) expire(slot effectSlot) {
	delete(m.active, slot)
	if m.s.state.Phase != internal.PhasePlaying {
		m.s.log.Debugf("[EffectManager.expire] team=%s kind=%s: phase=%s, ignoring", slot.team, slot.kind, m.s.state.Phase)
		return
	}
	m.s.state.PlayerStatus.Ptr(slot.team).SetEffect(slot.kind, false)
	m.s.log.Debugf("[EffectManager.expire] team=%s: %s expired", slot.team, slot.kind)
}

// Clear removes kind from team together with its pending expiry.
func (m *EffectManager) Clear(team internal.Team, kind internal.EffectKind) {
	slot := effectSlot{team: team, kind: kind}
	if key, ok := m.active[slot]; ok {
		m.s.timers.Cancel(key)
		delete(m.active, slot)
	}
	m.s.state.PlayerStatus.Ptr(team).SetEffect(kind, false)
}

// ClearAll removes every timed effect from team immediately.
func (m *EffectManager) ClearAll(team internal.Team) {
	for _, kind := range internal.EffectKinds {
		m.Clear(team, kind)
	}
}

// Pending reports whether an expiry is scheduled for kind on team.
func (m *EffectManager) Pending(team internal.Team, kind internal.EffectKind) bool {
	_, ok := m.active[effectSlot{team: team, kind: kind}]
	return ok
}

// Reset cancels every expiry timer without touching the status flags.
func (m *EffectManager) Reset() {
	for slot, key := range m.active {
		m.s.timers.Cancel(key)
		delete(m.active, slot)
	}
}
