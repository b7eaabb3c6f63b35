package sim

import (
	"fmt"
	"sort"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
)

// Matchup is one scheduled game
type Matchup struct {
	HomeID string `json:"homeId"`
	AwayID string `json:"awayId"`
}

// RoundRobin schedules every pair of teams `rounds` times, alternating home ice, using the
// circle method so each team plays at most once per slate
func RoundRobin(teamIDs []string, rounds int) []Matchup {
	ids := append([]string(nil), teamIDs...)
	if len(ids) < 2 {
		return nil
	}
	if len(ids)%2 == 1 {
		ids = append(ids, "")
	}
	n := len(ids)

	var games []Matchup
	for round := 0; round < rounds; round++ {
		rot := append([]string(nil), ids...)
		for slate := 0; slate < n-1; slate++ {
			for i := 0; i < n/2; i++ {
				a, b := rot[i], rot[n-1-i]
				if a == "" || b == "" {
					continue
				}
				if (slate+round)%2 == 1 {
					a, b = b, a
				}
				games = append(games, Matchup{HomeID: a, AwayID: b})
			}
			// keep the first team fixed and rotate the rest one place
			last := rot[n-1]
			copy(rot[2:], rot[1:n-1])
			rot[1] = last
		}
	}
	return games
}

// SimulateSchedule plays the games in order. Each game's seed is derived from seasonKey
// and its position in the schedule, so the same key replays the same season. An empty
// key draws seeds from the simulator's source.
func (s *Simulator) SimulateSchedule(state *models.LeagueState, schedule []Matchup, seasonKey string) ([]*GameResult, error) {
	results := make([]*GameResult, 0, len(schedule))
	for i, m := range schedule {
		opts := Options{}
		if seasonKey != "" {
			seed := rng.SeedFor(seasonKey, uint64(i))
			opts.Seed = &seed
		}
		res, err := s.SimulateGame(state, m.HomeID, m.AwayID, opts)
		if err != nil {
			return results, fmt.Errorf("game %d (%s vs %s): %w", i+1, m.HomeID, m.AwayID, err)
		}
		results = append(results, res)
	}
	s.logger.Infof("simulated %d games", len(results))
	return results, nil
}

// StandingsRow is one line of the standings table
type StandingsRow struct {
	Rank   int               `json:"rank"`
	TeamID string            `json:"teamId"`
	Name   string            `json:"name"`
	Record models.TeamRecord `json:"record"`
	Points int               `json:"points"`
}

// Standings ranks teams by points, then wins, then goal differential, then id
func Standings(state *models.LeagueState) []StandingsRow {
	rows := make([]StandingsRow, 0, len(state.Teams))
	for _, id := range state.TeamIDs() {
		t := state.Teams[id]
		rows = append(rows, StandingsRow{
			TeamID: id,
			Name:   t.Name,
			Record: t.Record,
			Points: t.Record.Points(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Record.Wins != b.Record.Wins {
			return a.Record.Wins > b.Record.Wins
		}
		if a.Record.GoalDifferential() != b.Record.GoalDifferential() {
			return a.Record.GoalDifferential() > b.Record.GoalDifferential()
		}
		return a.TeamID < b.TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
