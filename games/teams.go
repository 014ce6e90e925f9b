package games

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// splitTeams orders players by a random key and cuts the result in two.
// Callers guarantee exactly MaxPlayers players.
func splitTeams(players []*Player, rng *rand.Rand) (teamA, teamB []TeamMember) {
	type keyed struct {
		key    float64
		player *Player
	}

	shuffled := make([]keyed, len(players))
	for i, p := range players {
		shuffled[i] = keyed{key: rng.Float64(), player: p}
	}

	slices.SortStableFunc(shuffled, func(a, b keyed) int {
		return cmp.Compare(a.key, b.key)
	})

	teamA = make([]TeamMember, 0, TeamSize)
	teamB = make([]TeamMember, 0, TeamSize)
	for i, k := range shuffled {
		m := TeamMember{Name: k.player.Name, Color: k.player.Color}
		if i < TeamSize {
			teamA = append(teamA, m)
		} else {
			teamB = append(teamB, m)
		}
	}

	return teamA, teamB
}

// resolveTeam maps exact names to members; ok is false if any name is
// missing from the room.
func resolveTeam(r *Room, names []string) ([]TeamMember, bool) {
	team := make([]TeamMember, 0, len(names))
	for _, n := range names {
		p := r.playerByName(n)
		if p == nil {
			return nil, false
		}
		team = append(team, TeamMember{Name: p.Name, Color: p.Color})
	}
	return team, true
}

// distinct reports whether no name appears twice across both teams.
func distinct(teamA, teamB []string) bool {
	seen := make(map[string]struct{}, len(teamA)+len(teamB))
	for _, n := range slices.Concat(teamA, teamB) {
		if _, dup := seen[n]; dup {
			return false
		}
		seen[n] = struct{}{}
	}
	return true
}
