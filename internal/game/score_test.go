package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/stopgo-backend/internal"
)

func TestAddManualBonusPoints(t *testing.T) {
	s, _ := newTestSession(t)

	s.AddManualBonusPoints(internal.TeamA, 10)
	assert.Equal(t, 0, s.Snapshot().State.Scores.A, "no bonus before the game starts")

	startRacing(t, s)
	s.AddManualBonusPoints(internal.TeamA, 10)
	s.AddManualBonusPoints(internal.TeamA, -5)
	s.AddManualBonusPoints(internal.TeamA, 0)
	assert.Equal(t, 10, s.Snapshot().State.Scores.A)

	s.OpenMenu()
	s.EndGameFromMenu()
	s.AddManualBonusPoints(internal.TeamB, 15)
	st := s.Snapshot().State
	require.NotNil(t, st.Results)
	assert.Equal(t, 15, st.Results.Scores.B)
	assert.Equal(t, internal.TeamB, *st.Results.Winner)
}

func TestCalculateFinalResultsTie(t *testing.T) {
	st := internal.NewSessionState(3, internal.StartLine)
	st.Scores = internal.PerTeam[int]{A: 30, B: 30}
	st.History = append(st.History, internal.RoundStats{RoundNumber: 1}, internal.RoundStats{RoundNumber: 2})

	results := CalculateFinalResults(&st)
	assert.True(t, results.IsTie)
	assert.Nil(t, results.Winner)
	assert.Equal(t, 2, results.RoundsPlayed)
}
