package game

import (
	"fmt"
	"time"

	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// GAME FLOW - ROUND MANAGEMENT
// =============================================================================

// enterRoundStartLocked resets the track and starts the 3-2-1-GO countdown.
func (s *Session) enterRoundStartLocked() {
	s.resetRoundLocked()
	s.state.Phase = internal.PhaseRoundStart
	s.state.Countdown = s.tuning.CountdownFrom
	s.state.TimeLeft = int(s.tuning.RoundDuration / time.Second)

	s.log.Infof("[enterRoundStart] round=%d/%d: countdown from %d",
		s.state.CurrentRound, s.state.MaxRounds, s.state.Countdown)

	if s.state.Countdown <= 0 {
		s.beginRoundLocked()
		return
	}
	s.schedule(TimerCountdown, s.tuning.CountdownStep, s.countdownTickLocked)
}

func (s *Session) countdownTickLocked() {
	if s.state.Phase != internal.PhaseRoundStart {
		return
	}
	if s.state.Countdown <= 0 {
		s.beginRoundLocked()
		return
	}
	s.state.Countdown--
	s.schedule(TimerCountdown, s.tuning.CountdownStep, s.countdownTickLocked)
}

// BeginRound ends the countdown early and starts play.
func (s *Session) BeginRound() {
	s.apply("BeginRound", func() bool {
		if s.state.Phase != internal.PhaseRoundStart {
			return false
		}
		s.beginRoundLocked()
		return true
	})
}

func (s *Session) beginRoundLocked() {
	s.timers.Cancel(TimerCountdown)
	s.resetRoundLocked()

	s.state.Phase = internal.PhasePlaying
	s.state.Stage = internal.StageRacing
	s.state.Countdown = 0
	s.state.TimeLeft = int(s.tuning.RoundDuration / time.Second)

	s.lights.Start()
	s.startClockLocked()
	s.spawner.Start(true)

	s.log.Infof("[beginRound] round=%d: playing, %ds on the clock", s.state.CurrentRound, s.state.TimeLeft)
}

// resetRoundLocked cancels everything tied to the previous round and puts
// the track back to its starting layout. Scores are kept.
func (s *Session) resetRoundLocked() {
	s.stopRoundActivityLocked()
	s.cancelPlayingTimersLocked()
	s.timers.Cancel(TimerWin)
	s.timers.Cancel(TimerQuiz)
	s.abandonQuizFetchLocked()
	s.state.ResetRoundState(s.tuning.StartLine)
	s.pendingOutcome = ""
}

// stopRoundActivityLocked halts the clock, light and spawner.
func (s *Session) stopRoundActivityLocked() {
	s.timers.Cancel(TimerRoundClock)
	s.lights.Stop()
	s.spawner.Stop()
}

// cancelPlayingTimersLocked drops effect, flash and item timers. Status flags
// and items stay visible until the next round resets them.
func (s *Session) cancelPlayingTimersLocked() {
	s.effects.Reset()
	s.timers.CancelPrefix(flashTimerPrefix)
	s.timers.CancelPrefix(itemTimerPrefix)
}

func (s *Session) leavePlayingLocked() {
	s.stopRoundActivityLocked()
	s.cancelPlayingTimersLocked()
	s.state.Stage = internal.StageNone
	s.state.IsPaused = false
	s.state.ShowMenu = false
}

// =============================================================================
// ROUND CLOCK
// =============================================================================

func (s *Session) startClockLocked() {
	s.schedule(TimerRoundClock, time.Second, s.clockTickLocked)
}

func (s *Session) clockTickLocked() {
	if !s.state.CanRace() {
		return
	}
	s.state.TimeLeft--
	if s.state.TimeLeft <= 0 {
		s.state.TimeLeft = 0
		s.timeUpLocked()
		return
	}
	s.startClockLocked()
}

// timeUpLocked ends a round nobody finished. A strict leader earns a quiz;
// a tie goes straight to the next round.
func (s *Session) timeUpLocked() {
	s.leavePlayingLocked()
	s.pendingOutcome = internal.OutcomeTimeUp

	leader, ok := s.state.Leader()
	if !ok {
		s.log.Infof("[timeUp] round=%d: tie at %.1f", s.state.CurrentRound, s.state.Positions.A)
		s.pendingOutcome = internal.OutcomeTie
		s.concludeRoundLocked("Time's Up!", "It's a tie! No quiz this round.", nil, nil, internal.QuizNone, 0)
		return
	}

	s.log.Infof("[timeUp] round=%d: %s leads (%.1f vs %.1f)",
		s.state.CurrentRound, leader, s.state.Positions.Get(leader), s.state.Positions.Get(leader.Opponent()))
	s.state.Phase = internal.PhaseRoundEnd
	s.state.RoundEnd = &internal.RoundEndState{
		Title:       "Time's Up!",
		Text:        fmt.Sprintf("%s is ahead and gets a quiz question!", s.state.Roster.DisplayName(leader, s.state.CurrentRound)),
		WinningTeam: &leader,
		NextAction:  internal.NextAction{Kind: internal.NextShowQuiz, Team: leader},
	}
}

// =============================================================================
// WIN RESOLUTION
// =============================================================================

// beginWinResolutionLocked runs in the same press that crossed the finish
// line. Moving to StageAwaitingWin is what keeps a second crossing from
// being processed; the quiz follows after the celebration delay.
func (s *Session) beginWinResolutionLocked(team internal.Team) {
	s.state.Stage = internal.StageAwaitingWin
	s.state.PlayerStatus.Ptr(team).IsWinner = true
	s.stopRoundActivityLocked()
	s.pendingOutcome = internal.OutcomeFinish

	s.log.Infof("[beginWinResolution] round=%d: %s crossed the finish line", s.state.CurrentRound, team)

	s.schedule(TimerWin, s.tuning.WinCelebrationDelay, func() {
		if s.state.Phase != internal.PhasePlaying || s.state.Stage != internal.StageAwaitingWin {
			return
		}
		s.enterQuizLocked(team)
	})
}

// =============================================================================
// ROUND END
// =============================================================================

// concludeRoundLocked records the finished round and shows its outcome. The
// next action either advances to the next round or ends the game.
func (s *Session) concludeRoundLocked(title, text string, winner *internal.Team, success *bool, result internal.QuizResult, points int) {
	s.state.History = append(s.state.History, internal.RoundStats{
		RoundNumber:   s.state.CurrentRound,
		Outcome:       s.pendingOutcome,
		Winner:        winner,
		QuizResult:    result,
		PointsAwarded: points,
		Positions:     s.state.Positions,
		EndTime:       time.Now(),
	})

	next := internal.NextAction{Kind: internal.NextRound}
	if s.state.IsLastRound() {
		next.Kind = internal.NextGameOver
	}

	s.state.Phase = internal.PhaseRoundEnd
	s.state.Stage = internal.StageNone
	s.state.RoundEnd = &internal.RoundEndState{
		Title:       title,
		Text:        text,
		WinningTeam: winner,
		IsSuccess:   success,
		NextAction:  next,
	}
	s.log.Infof("[concludeRound] round=%d: %s (next=%s)", s.state.CurrentRound, title, next.Kind)
}

// Continue carries out the next action of the round end screen.
func (s *Session) Continue() {
	s.apply("Continue", func() bool {
		if s.state.Phase != internal.PhaseRoundEnd || s.state.RoundEnd == nil {
			return false
		}
		next := s.state.RoundEnd.NextAction
		switch {
		case next.Kind == internal.NextShowQuiz && next.Team.Valid():
			s.enterQuizLocked(next.Team)
		case s.state.IsLastRound():
			s.gameOverLocked()
		default:
			s.advanceRoundLocked()
		}
		return true
	})
}

func (s *Session) advanceRoundLocked() {
	if s.state.IsLastRound() {
		s.gameOverLocked()
		return
	}
	s.state.CurrentRound++
	s.enterRoundStartLocked()
}

func (s *Session) gameOverLocked() {
	s.cancelEverythingLocked()
	s.state.Phase = internal.PhaseGameOver
	s.state.Stage = internal.StageNone
	s.state.RoundEnd = nil
	s.state.Quiz = nil
	s.state.QuizTeam = ""
	s.state.IsQuizLoading = false
	s.state.IsPaused = false
	s.state.ShowMenu = false

	results := CalculateFinalResults(&s.state)
	s.state.Results = &results
	s.log.Infof("[gameOver] scores A=%d B=%d after %d rounds", results.Scores.A, results.Scores.B, results.RoundsPlayed)
}
