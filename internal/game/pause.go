package game

import (
	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// PAUSE & MENU
// =============================================================================

// Pause halts the clock, light and spawner. Only a live round can be paused.
func (s *Session) Pause() {
	s.apply("Pause", func() bool {
		if !s.state.CanRace() {
			return false
		}
		s.pauseLocked()
		return true
	})
}

// Resume continues a paused round. The clock restarts from the remaining
// time, the light restarts from green and the spawner from its regular delay.
func (s *Session) Resume() {
	s.apply("Resume", func() bool {
		return s.resumeLocked()
	})
}

// OpenMenu pauses the round and shows the menu.
func (s *Session) OpenMenu() {
	s.apply("OpenMenu", func() bool {
		if s.state.Phase != internal.PhasePlaying || s.state.Stage != internal.StageRacing || s.state.ShowMenu {
			return false
		}
		if !s.state.IsPaused {
			s.pauseLocked()
		}
		s.state.ShowMenu = true
		return true
	})
}

// CloseMenu hides the menu and resumes play.
func (s *Session) CloseMenu() {
	s.apply("CloseMenu", func() bool {
		if !s.state.ShowMenu {
			return false
		}
		return s.resumeLocked()
	})
}

// EndGameFromMenu ends the whole game from the menu.
func (s *Session) EndGameFromMenu() {
	s.apply("EndGameFromMenu", func() bool {
		if !s.state.ShowMenu {
			return false
		}
		s.gameOverLocked()
		return true
	})
}

func (s *Session) pauseLocked() {
	s.stopRoundActivityLocked()
	s.state.IsPaused = true
	s.log.Infof("[Pause] round=%d: paused with %ds left", s.state.CurrentRound, s.state.TimeLeft)
}

func (s *Session) resumeLocked() bool {
	if s.state.Phase != internal.PhasePlaying || !s.state.IsPaused {
		return false
	}
	s.state.IsPaused = false
	s.state.ShowMenu = false
	if s.state.Stage != internal.StageRacing {
		return true
	}
	s.lights.Start()
	s.startClockLocked()
	s.spawner.Start(false)
	s.log.Infof("[Resume] round=%d: resumed with %ds left", s.state.CurrentRound, s.state.TimeLeft)
	return true
}
