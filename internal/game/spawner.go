package game

import (
	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/utils"
)

// =============================================================================
// ITEM SPAWNING
// =============================================================================

// ItemSpawner places pickups on the track at random intervals while the
// round is live. Failed attempts are silent. Callers hold the session lock.
type ItemSpawner struct {
	s       *Session
	running bool
}

// Start schedules the next attempt. first selects the shorter opening delay
// used at the beginning of a round.
func (sp *ItemSpawner) Start(first bool) {
	sp.running = true
	delay := sp.s.tuning.NextSpawnDelay
	if first {
		delay = sp.s.tuning.FirstSpawnDelay
	}
	sp.s.schedule(TimerSpawn, utils.RandomDuration(sp.s.rng, delay), sp.tick)
}

func (sp *ItemSpawner) Stop() {
	sp.running = false
	sp.s.timers.Cancel(TimerSpawn)
}

func (sp *ItemSpawner) tick() {
	if !sp.running || !sp.s.state.CanRace() {
		sp.running = false
		return
	}
	kind := utils.RandomItemKind(sp.s.rng)
	team := utils.RandomTeam(sp.s.rng)
	sp.attempt(kind, team, func(lo, hi float64) float64 {
		return utils.RandomFloat(sp.s.rng, lo, hi)
	})
	sp.Start(false)
}

// attempt tries to place an item of kind in team's lane. sample picks a
// position inside the allowed window.
func (sp *ItemSpawner) attempt(kind internal.ItemKind, team internal.Team, sample func(lo, hi float64) float64) (internal.Item, bool) {
	st := &sp.s.state
	if len(st.Items) >= sp.s.tuning.MaxItems {
		return internal.Item{}, false
	}
	if !sp.laneOpen(team) {
		sp.s.log.Debugf("[ItemSpawner.attempt] team=%s kind=%s: lane closed", team, kind)
		return internal.Item{}, false
	}
	lo, hi, ok := sp.window(team)
	if !ok {
		return internal.Item{}, false
	}
	pos := sample(lo, hi)
	if pos <= lo || pos >= hi {
		return internal.Item{}, false
	}
	if st.NearestItemDistance(pos) < sp.s.tuning.MinItemDistance {
		sp.s.log.Debugf("[ItemSpawner.attempt] team=%s pos=%.1f: too close to another item", team, pos)
		return internal.Item{}, false
	}
	return sp.place(kind, team, pos), true
}

// laneOpen reports whether team may receive a new item: its lane is empty,
// it holds no shield or boost, and the opposing team holds no slow or freeze.
func (sp *ItemSpawner) laneOpen(team internal.Team) bool {
	st := &sp.s.state
	if st.ItemInLane(team) {
		return false
	}
	if st.PlayerStatus.Get(team).HasPositive() {
		return false
	}
	if st.PlayerStatus.Get(team.Opponent()).HasNegative() {
		return false
	}
	return true
}

// window returns the open interval of legal positions ahead of team.
func (sp *ItemSpawner) window(team internal.Team) (lo, hi float64, ok bool) {
	t := sp.s.tuning
	lo = max(sp.s.state.Positions.Get(team)+t.SpawnAheadDistance, t.SpawnMinPosition)
	hi = t.FinishLine - t.SpawnFinishMargin
	return lo, hi, lo < hi
}

func (sp *ItemSpawner) place(kind internal.ItemKind, team internal.Team, pos float64) internal.Item {
	item := internal.Item{
		Id:       "item-" + utils.GenerateID(8),
		Lane:     team,
		Kind:     kind,
		Position: pos,
	}
	sp.s.state.Items = append(sp.s.state.Items, item)

	key := itemTimerKey(item.Id)
	sp.s.schedule(key, sp.s.tuning.ItemLifetime, func() {
		idx := sp.s.state.ItemIndex(item.Id)
		if idx < 0 {
			return
		}
		sp.s.state.Items[idx].Disappearing = true
		sp.s.schedule(key, sp.s.tuning.ItemFadeDuration, func() {
			sp.s.state.RemoveItem(item.Id)
		})
	})

	sp.s.log.Debugf("[ItemSpawner.place] %s in lane %s at %.1f", kind, team, pos)
	return item
}
