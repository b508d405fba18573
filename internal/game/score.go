package game

import (
	"github.com/scythe504/stopgo-backend/internal"
)

// AddManualBonusPoints lets the host award extra points to a team during a
// game. Non-positive amounts are ignored so scores never go down.
func (s *Session) AddManualBonusPoints(team internal.Team, amount int) {
	s.apply("AddManualBonusPoints", func() bool {
		if !team.Valid() || amount <= 0 {
			return false
		}
		switch s.state.Phase {
		case internal.PhaseStart, internal.PhaseTeamSetup:
			return false
		}
		*s.state.Scores.Ptr(team) += amount
		if s.state.Results != nil {
			s.state.Results.Scores = s.state.Scores
			s.state.Results.Winner, s.state.Results.IsTie = leadingTeam(s.state.Scores)
		}
		s.log.Infof("[AddManualBonusPoints] %s +%d", team, amount)
		return true
	})
}

// CalculateFinalResults compiles the final score comparison from a finished
// game.
func CalculateFinalResults(st *internal.SessionState) internal.FinalResults {
	results := internal.FinalResults{
		Scores:       st.Scores,
		RoundsPlayed: len(st.History),
		History:      append([]internal.RoundStats(nil), st.History...),
	}
	results.Winner, results.IsTie = leadingTeam(st.Scores)
	return results
}

func leadingTeam(scores internal.PerTeam[int]) (*internal.Team, bool) {
	var winner internal.Team
	switch {
	case scores.A > scores.B:
		winner = internal.TeamA
	case scores.B > scores.A:
		winner = internal.TeamB
	default:
		return nil, true
	}
	return &winner, false
}
