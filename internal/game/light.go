package game

import (
	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/utils"
)

// =============================================================================
// TRAFFIC LIGHT
// =============================================================================

// LightSequencer cycles green -> yellow -> red -> green with a random dwell
// per light while the round is live. Exactly one light timer is pending while
// it runs. Callers hold the session lock.
type LightSequencer struct {
	s       *Session
	running bool
}

// NextLight returns the light that follows l in the cycle.
func NextLight(l internal.Light) internal.Light {
	switch l {
	case internal.LightGreen:
		return internal.LightYellow
	case internal.LightYellow:
		return internal.LightRed
	default:
		return internal.LightGreen
	}
}

// Start forces the light to green and begins a fresh cycle.
func (l *LightSequencer) Start() {
	l.running = true
	l.s.state.CurrentLight = internal.LightGreen
	l.scheduleNext()
}

// Stop cancels the pending change. The current light is left as it is.
func (l *LightSequencer) Stop() {
	l.running = false
	l.s.timers.Cancel(TimerLight)
}

func (l *LightSequencer) Running() bool {
	return l.running
}

func (l *LightSequencer) dwell(light internal.Light) internal.DurationRange {
	switch light {
	case internal.LightGreen:
		return l.s.tuning.GreenDwell
	case internal.LightYellow:
		return l.s.tuning.YellowDwell
	default:
		return l.s.tuning.RedDwell
	}
}

func (l *LightSequencer) scheduleNext() {
	d := utils.RandomDuration(l.s.rng, l.dwell(l.s.state.CurrentLight))
	l.s.schedule(TimerLight, d, l.advance)
}

func (l *LightSequencer) advance() {
	if !l.running || !l.s.state.CanRace() {
		l.running = false
		l.s.log.Debugf("[LightSequencer.advance] phase=%s paused=%t: sequence stopped", l.s.state.Phase, l.s.state.IsPaused)
		return
	}
	l.s.state.CurrentLight = NextLight(l.s.state.CurrentLight)
	l.scheduleNext()
}
