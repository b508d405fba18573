package internal

import "math"

// Methods (SessionState)

// Leader returns the team strictly ahead on the track. ok is false on a tie.
func (s *SessionState) Leader() (team Team, ok bool) {
	a, b := s.Positions.A, s.Positions.B
	switch {
	case a > b:
		return TeamA, true
	case b > a:
		return TeamB, true
	}
	return "", false
}

func (s *SessionState) ItemInLane(t Team) bool {
	for _, item := range s.Items {
		if item.Lane == t {
			return true
		}
	}
	return false
}

func (s *SessionState) ItemIndex(id string) int {
	for i, item := range s.Items {
		if item.Id == id {
			return i
		}
	}
	return -1
}

func (s *SessionState) RemoveItem(id string) (Item, bool) {
	idx := s.ItemIndex(id)
	if idx < 0 {
		return Item{}, false
	}
	item := s.Items[idx]
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	return item, true
}

// NearestItemDistance is the distance from pos to the closest item on the
// field in any lane, or +Inf when the field is empty.
func (s *SessionState) NearestItemDistance(pos float64) float64 {
	nearest := math.Inf(1)
	for _, item := range s.Items {
		nearest = math.Min(nearest, math.Abs(item.Position-pos))
	}
	return nearest
}

func (s *SessionState) HasWinner() bool {
	return s.PlayerStatus.A.IsWinner || s.PlayerStatus.B.IsWinner
}

// ResetRoundState puts positions, items and statuses back to their
// round-start values. Scores and history are kept.
func (s *SessionState) ResetRoundState(startLine float64) {
	s.Positions = PerTeam[float64]{A: startLine, B: startLine}
	s.PlayerStatus = PerTeam[PlayerStatus]{A: NewPlayerStatus(), B: NewPlayerStatus()}
	s.Items = make([]Item, 0, MaxItemsOnField)
	s.Stage = StageNone
	s.RoundEnd = nil
	s.Quiz = nil
	s.QuizTeam = ""
	s.IsQuizLoading = false
	s.IsPaused = false
	s.ShowMenu = false
}

func (s *SessionState) IsLastRound() bool {
	return s.CurrentRound >= s.MaxRounds
}

// CanRace reports whether the round is live: playing, racing, not paused.
func (s *SessionState) CanRace() bool {
	return s.Phase == PhasePlaying && s.Stage == StageRacing && !s.IsPaused
}
