package internal

import (
	"fmt"
	"strings"
)

// Player is a named member of a team roster. Rosters only drive labels and
// display rotation, never gameplay.
type Player struct {
	Name string `json:"name"`
	Team Team   `json:"team"`
}

type Roster struct {
	TeamA []Player `json:"teamA"`
	TeamB []Player `json:"teamB"`
}

// NewRoster trims names and drops blanks and duplicates. A name already on one
// team is not added to the other.
func NewRoster(teamA, teamB []string) Roster {
	seen := make(map[string]bool)
	build := func(team Team, names []string) []Player {
		players := make([]Player, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			players = append(players, Player{Name: name, Team: team})
		}
		return players
	}
	return Roster{
		TeamA: build(TeamA, teamA),
		TeamB: build(TeamB, teamB),
	}
}

func (r Roster) Members(t Team) []Player {
	if t == TeamB {
		return r.TeamB
	}
	return r.TeamA
}

// ActivePlayer returns whose turn it is on team t during the given round.
func (r Roster) ActivePlayer(t Team, round int) (Player, bool) {
	members := r.Members(t)
	if len(members) == 0 || round < 1 {
		return Player{}, false
	}
	return members[(round-1)%len(members)], true
}

// DisplayName labels team t for the given round, e.g. "Team A (Mia)".
func (r Roster) DisplayName(t Team, round int) string {
	if p, ok := r.ActivePlayer(t, round); ok {
		return fmt.Sprintf("%s (%s)", t.Label(), p.Name)
	}
	return t.Label()
}

func (r Roster) Clone() Roster {
	return Roster{
		TeamA: append([]Player(nil), r.TeamA...),
		TeamB: append([]Player(nil), r.TeamB...),
	}
}
