package game

import (
	"context"

	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// GAME FLOW - START, TEAM SETUP & RESET
// =============================================================================

// Start leaves the title screen for team setup.
func (s *Session) Start() {
	s.apply("Start", func() bool {
		if s.state.Phase != internal.PhaseStart {
			return false
		}
		s.state.Phase = internal.PhaseTeamSetup
		return true
	})
}

// ConfirmTeamSetup stores the rosters, warms assets and starts round one.
// Preloading is best effort: success, failure and timeout all proceed.
func (s *Session) ConfirmTeamSetup(teamA, teamB []string) {
	s.apply("ConfirmTeamSetup", func() bool {
		if s.state.Phase != internal.PhaseTeamSetup || s.state.IsPreloading {
			return false
		}
		s.state.Roster = internal.NewRoster(teamA, teamB)
		s.log.Infof("[ConfirmTeamSetup] teamA=%d teamB=%d players", len(s.state.Roster.TeamA), len(s.state.Roster.TeamB))

		if s.preloader == nil || len(s.assetURLs) == 0 {
			s.enterRoundStartLocked()
			return true
		}

		s.state.IsPreloading = true
		s.preloadGen++
		gen := s.preloadGen
		ctx, cancel := context.WithTimeout(context.Background(), s.preloadTimeout)
		s.preloadCancel = cancel
		go s.preloadAssets(ctx, gen)
		return true
	})
}

func (s *Session) preloadAssets(ctx context.Context, gen uint64) {
	err := s.preloader.Preload(ctx, s.assetURLs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warnf("[preloadAssets] continuing without warm cache: %v", err)
	}
	if s.closed || gen != s.preloadGen || s.state.Phase != internal.PhaseTeamSetup || !s.state.IsPreloading {
		s.log.Debugf("[preloadAssets] gen=%d: setup no longer pending", gen)
		return
	}
	s.abandonPreloadLocked()
	s.state.IsPreloading = false
	s.enterRoundStartLocked()
	s.publishLocked()
}

func (s *Session) abandonPreloadLocked() {
	if s.preloadCancel != nil {
		s.preloadCancel()
		s.preloadCancel = nil
	}
	s.preloadGen++
}

// Reset returns to the title screen with scores and rounds zeroed. The team
// rosters are kept for the next game.
func (s *Session) Reset() {
	s.apply("Reset", func() bool {
		roster := s.state.Roster
		s.reinitializeLocked()
		s.state.Roster = roster
		return true
	})
}

// Exit abandons the session and returns to the title screen from any phase.
func (s *Session) Exit() {
	s.apply("Exit", func() bool {
		s.reinitializeLocked()
		return true
	})
}

func (s *Session) reinitializeLocked() {
	s.cancelEverythingLocked()
	s.state = internal.NewSessionState(s.tuning.MaxRounds, s.tuning.StartLine)
	s.pendingOutcome = ""
	s.log.Info("[reinitialize] session back at start")
}
