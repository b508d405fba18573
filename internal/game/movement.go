package game

import (
	"math"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/config"
)

// =============================================================================
// MOVEMENT & COLLISION ("press GO")
// =============================================================================

// StepFor returns how far one GO press moves a team with the given status.
func StepFor(status internal.PlayerStatus, t config.Tuning) float64 {
	step := t.BaseMove
	if status.IsBoosted {
		step *= t.BoostMultiplier
	}
	if status.IsSlowed {
		step *= t.SlowMultiplier
	}
	return step
}

// PressGo handles a GO press from team. On green or yellow the team advances;
// on red it is sent back to the start unless a shield absorbs the violation.
// Presses outside a live round, or from a frozen team, are ignored.
func (s *Session) PressGo(team internal.Team) {
	s.apply("PressGo", func() bool {
		return s.pressGoLocked(team)
	})
}

func (s *Session) pressGoLocked(team internal.Team) bool {
	if !team.Valid() || !s.state.CanRace() {
		return false
	}
	if s.state.PlayerStatus.Get(team).IsFrozen {
		s.log.Debugf("[PressGo] team=%s: frozen, ignoring", team)
		return false
	}

	if !s.state.CurrentLight.CanMove() {
		s.redLightViolationLocked(team)
		return true
	}
	s.advanceLocked(team)
	return true
}

func (s *Session) advanceLocked(team internal.Team) {
	t := s.tuning
	status := s.state.PlayerStatus.Get(team)
	next := s.state.Positions.Get(team) + StepFor(status, t)

	reachedFinish, reachedStart := false, false
	switch {
	case next >= t.FinishLine:
		next = t.FinishLine
		reachedFinish = true
	case next <= t.StartLine:
		next = t.StartLine
		reachedStart = true
	}
	s.state.Positions.Set(team, next)

	switch {
	case reachedFinish:
		s.effects.ClearAll(team)
		s.beginWinResolutionLocked(team)
	case reachedStart:
		s.effects.ClearAll(team)
	default:
		s.collectItemsLocked(team, next)
	}
}

// collectItemsLocked picks up every live item in team's lane within the
// pickup radius of pos.
func (s *Session) collectItemsLocked(team internal.Team, pos float64) {
	var collected []internal.Item
	for _, item := range s.state.Items {
		if item.Lane != team || item.Disappearing {
			continue
		}
		if math.Abs(pos-item.Position) < s.tuning.PickupRadius {
			collected = append(collected, item)
		}
	}

	for _, item := range collected {
		s.state.RemoveItem(item.Id)
		s.timers.Cancel(itemTimerKey(item.Id))

		target := team
		if !item.Kind.IsPositive() {
			target = team.Opponent()
		}
		applied := s.effects.Apply(target, item.Kind.Effect())
		s.log.Debugf("[PressGo] team=%s collected %s at %.1f (target=%s applied=%t)",
			team, item.Kind, item.Position, target, applied)
	}
}

func (s *Session) redLightViolationLocked(team internal.Team) {
	if s.state.PlayerStatus.Get(team).HasShield {
		s.effects.Clear(team, internal.EffectShield)
		s.log.Debugf("[PressGo] team=%s: red light absorbed by shield", team)
		return
	}

	s.effects.ClearAll(team)
	s.state.Positions.Set(team, s.tuning.StartLine)
	s.state.PlayerStatus.Ptr(team).PenaltyFlash = true
	s.schedule(flashTimerKey(team), s.tuning.PenaltyFlashDuration, func() {
		s.state.PlayerStatus.Ptr(team).PenaltyFlash = false
	})
	s.log.Debugf("[PressGo] team=%s: red light, back to start", team)
}
