package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scythe504/stopgo-backend/internal"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GenerateID returns n hex characters taken from a fresh random UUID.
func GenerateID(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n >= len(id) {
		return id
	}
	return id[:n]
}

// RandomFloat samples uniformly from [lo, hi).
func RandomFloat(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// RandomDuration samples uniformly from the inclusive range r.
func RandomDuration(rng *rand.Rand, r internal.DurationRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int64N(int64(r.Max-r.Min)+1))
}

func RandomTeam(rng *rand.Rand) internal.Team {
	return internal.Teams[rng.IntN(len(internal.Teams))]
}

func RandomItemKind(rng *rand.Rand) internal.ItemKind {
	return internal.ItemKinds[rng.IntN(len(internal.ItemKinds))]
}

// =============================================================================
// STATE VALIDATION
// =============================================================================

// ValidateSessionState checks the structural invariants of a session state
// and returns every violation found.
func ValidateSessionState(s *internal.SessionState, startLine, finishLine float64, maxItems int) []error {
	var errs []error
	if s.CurrentRound < 1 || s.CurrentRound > s.MaxRounds {
		errs = append(errs, fmt.Errorf("current round %d outside [1, %d]", s.CurrentRound, s.MaxRounds))
	}
	if s.PlayerStatus.A.IsWinner && s.PlayerStatus.B.IsWinner {
		errs = append(errs, fmt.Errorf("both teams flagged winner"))
	}
	if s.ShowMenu && !s.IsPaused {
		errs = append(errs, fmt.Errorf("menu shown while not paused"))
	}
	if s.IsPaused && s.Phase != internal.PhasePlaying {
		errs = append(errs, fmt.Errorf("paused outside playing phase (%s)", s.Phase))
	}
	if len(s.Items) > maxItems {
		errs = append(errs, fmt.Errorf("%d items on field, max %d", len(s.Items), maxItems))
	}
	lanes := make(map[internal.Team]int)
	for _, item := range s.Items {
		lanes[item.Lane]++
		if lanes[item.Lane] > 1 {
			errs = append(errs, fmt.Errorf("more than one item in lane %s", item.Lane))
		}
	}
	for _, team := range internal.Teams {
		pos := s.Positions.Get(team)
		if pos < startLine || pos > finishLine {
			errs = append(errs, fmt.Errorf("%s position %.2f outside [%.0f, %.0f]", team, pos, startLine, finishLine))
		}
		if s.Scores.Get(team) < 0 {
			errs = append(errs, fmt.Errorf("%s score negative", team))
		}
		st := s.PlayerStatus.Get(team)
		active := 0
		for _, on := range []bool{st.IsBoosted, st.IsSlowed, st.IsFrozen} {
			if on {
				active++
			}
		}
		if active > 1 {
			errs = append(errs, fmt.Errorf("%s holds more than one of boost/slow/freeze", team))
		}
	}
	if (s.RoundEnd != nil) != (s.Phase == internal.PhaseRoundEnd) {
		errs = append(errs, fmt.Errorf("round end descriptor present=%t in phase %s", s.RoundEnd != nil, s.Phase))
	}
	return errs
}
