package sim

import (
	"fmt"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

const (
	autoForwards   = 12
	autoDefensemen = 6
	lineSize       = 3
	pairSize       = 2
)

// dressed is the effective lineup for one game
type dressed struct {
	team    *models.Team
	lines   []models.PlayerList // forward lines
	pairs   []models.PlayerList // defense pairs
	goalie  *models.Player      // nil when the team has no goalie
	skaters models.PlayerList   // every dressed skater once, lines first
}

// resolveLineup uses the team's lineup for every part it names that is still on the active
// roster. Missing forward lines come from the top 12 unassigned forwards by overall,
// missing defense pairs from the top 6 unassigned defensemen, and a missing starter is
// the best goalie. The auto pick only depends on the roster and the lineup, so the same
// inputs always dress the same players in the same slots.
func resolveLineup(state *models.LeagueState, team *models.Team) (*dressed, error) {
	active, err := state.RosterPlayers(team, models.ListActive)
	if err != nil {
		return nil, err
	}

	d := &dressed{team: team}
	if !team.Lineup.IsEmpty() {
		d = explicitLineup(state, team)
	}
	if len(d.lines) == 0 || len(d.pairs) == 0 {
		auto := autoLineup(team, unassigned(active, d))
		if len(d.lines) == 0 {
			d.lines = auto.lines
		}
		if len(d.pairs) == 0 {
			d.pairs = auto.pairs
		}
	}
	if d.goalie == nil {
		if g := active.Goalies().TopByOverall(1); len(g) == 1 {
			d.goalie = g[0]
		}
	}

	seen := make(map[string]bool)
	for _, unit := range append(append([]models.PlayerList{}, d.lines...), d.pairs...) {
		for _, p := range unit {
			if !seen[p.ID] {
				seen[p.ID] = true
				d.skaters = append(d.skaters, p)
			}
		}
	}
	return d, nil
}

// explicitLineup resolves the attached lineup, skipping ids that are unknown or no longer
// on the active roster
func explicitLineup(state *models.LeagueState, team *models.Team) *dressed {
	d := &dressed{team: team}
	pick := func(id string) *models.Player {
		if id == "" {
			return nil
		}
		if l, ok := team.ListOf(id); !ok || l != models.ListActive {
			return nil
		}
		p, err := state.Player(id)
		if err != nil {
			return nil
		}
		return p
	}

	for _, line := range team.Lineup.ForwardLines {
		var unit models.PlayerList
		for _, id := range line {
			if p := pick(id); p != nil {
				unit = append(unit, p)
			}
		}
		if len(unit) > 0 {
			d.lines = append(d.lines, unit)
		}
	}
	for _, pair := range team.Lineup.DefensePairs {
		var unit models.PlayerList
		for _, id := range pair {
			if p := pick(id); p != nil {
				unit = append(unit, p)
			}
		}
		if len(unit) > 0 {
			d.pairs = append(d.pairs, unit)
		}
	}
	if g := pick(team.Lineup.StartingGoalie); g != nil && g.IsGoalie() {
		d.goalie = g
	}
	return d
}

func autoLineup(team *models.Team, active models.PlayerList) *dressed {
	return &dressed{
		team:  team,
		lines: chunk(active.Forwards().TopByOverall(autoForwards), lineSize),
		pairs: chunk(active.Defensemen().TopByOverall(autoDefensemen), pairSize),
	}
}

// unassigned returns the active players not already placed in one of d's units
func unassigned(active models.PlayerList, d *dressed) models.PlayerList {
	used := make(map[string]bool)
	for _, p := range flatten(append(append([]models.PlayerList{}, d.lines...), d.pairs...)) {
		used[p.ID] = true
	}
	free := make(models.PlayerList, 0, len(active))
	for _, p := range active {
		if !used[p.ID] {
			free = append(free, p)
		}
	}
	return free
}

func chunk(players models.PlayerList, size int) []models.PlayerList {
	var units []models.PlayerList
	for start := 0; start < len(players); start += size {
		end := start + size
		if end > len(players) {
			end = len(players)
		}
		units = append(units, players[start:end])
	}
	return units
}

// strength returns the team's offense (mean forward overall), defense (mean defenseman
// overall) and goalie overall. A missing group borrows the mean of all dressed skaters.
func (d *dressed) strength() (offense, defense, goalie float64) {
	all := meanOverall(d.skaters)
	offense = meanOverall(flatten(d.lines))
	if offense == 0 {
		offense = all
	}
	defense = meanOverall(flatten(d.pairs))
	if defense == 0 {
		defense = all
	}
	if d.goalie != nil {
		goalie = float64(d.goalie.Overall)
	}
	return offense, defense, goalie
}

// chemistry is the share of dressed unit members rated at or above their unit's mean
func (d *dressed) chemistry() float64 {
	at, total := 0, 0
	for _, unit := range append(append([]models.PlayerList{}, d.lines...), d.pairs...) {
		mean := meanOverall(unit)
		for _, p := range unit {
			total++
			if float64(p.Overall) >= mean {
				at++
			}
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(at) / float64(total)
}

func (d *dressed) String() string {
	goalie := "none"
	if d.goalie != nil {
		goalie = d.goalie.ID
	}
	return fmt.Sprintf("%s: %d lines, %d pairs, goalie %s", d.team.ID, len(d.lines), len(d.pairs), goalie)
}

func flatten(units []models.PlayerList) models.PlayerList {
	var out models.PlayerList
	for _, u := range units {
		out = append(out, u...)
	}
	return out
}

func meanOverall(players models.PlayerList) float64 {
	if len(players) == 0 {
		return 0
	}
	total := 0
	for _, p := range players {
		total += p.Overall
	}
	return float64(total) / float64(len(players))
}
