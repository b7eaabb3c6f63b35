package sim

import (
	"math"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
)

// persistSkaters writes one team's skater lines: games played, goals, assists, shots,
// plus-minus, hits and penalty minutes
func (s *Simulator) persistSkaters(src rng.Source, sd, opp *side, events []GoalEvent) {
	skaters := sd.lineup.skaters
	index := make(map[string]int, len(skaters))
	for i, p := range skaters {
		index[p.ID] = i
		p.Stats.GamesPlayed++
	}

	shotsFromGoals := make([]int, len(skaters))
	attributed := 0
	for _, ev := range events {
		if ev.TeamID == sd.box.TeamID {
			if i, ok := index[ev.ScorerID]; ok {
				skaters[i].Stats.Goals++
				shotsFromGoals[i]++
				attributed++
			}
			for _, id := range ev.AssistIDs {
				if i, ok := index[id]; ok {
					skaters[i].Stats.Assists++
				}
			}
		}

		// power-play goals do not count toward plus-minus
		if ev.PowerPlay || ev.ScorerID == "" {
			continue
		}
		delta := -1
		if ev.TeamID == sd.box.TeamID {
			delta = 1
		}
		for _, p := range s.onIceGroup(sd, ev.Minute) {
			p.Stats.PlusMinus += delta
		}
	}

	// every goal was a shot; the rest of the team's shots follow overall^alpha
	shotWeights := make([]float64, len(skaters))
	physWeights := make([]float64, len(skaters))
	for i, p := range skaters {
		shotWeights[i] = math.Pow(float64(p.Overall), s.cfg.ScorerAlpha)
		physWeights[i] = float64(p.Attr(models.Physical))
	}
	extraShots := apportion(sd.box.Shots-attributed, shotWeights)
	for i, p := range skaters {
		p.Stats.Shots += shotsFromGoals[i] + extraShots[i]
	}

	hits := int(math.Round(rng.Uniform(src, s.cfg.HitsMin, s.cfg.HitsMax)))
	if len(skaters) == 0 {
		hits = 0
	}
	sd.box.Hits = hits
	for i, n := range apportion(hits, physWeights) {
		skaters[i].Stats.Hits += n
	}

	// each opposing power play was one of our minor penalties
	for i, n := range apportion(opp.box.PPOpps, physWeights) {
		skaters[i].Stats.PenaltyMinutes += 2 * n
	}
}

// persistGoalie folds the game into the starting goalie's running totals and decision
func (s *Simulator) persistGoalie(sd, opp *side, wentToOT bool, minutes float64) {
	line := GoalieLine{
		ShotsFaced: opp.box.Shots,
		Saves:      opp.box.Shots - opp.box.Goals,
	}
	g := sd.lineup.goalie
	if g == nil {
		sd.box.Goalie = line
		return
	}
	line.GoalieID = g.ID
	sd.box.Goalie = line

	stats := &g.GoalieStats
	stats.RecordStart(opp.box.Shots, opp.box.Goals, minutes)
	switch {
	case sd.box.Goals > opp.box.Goals:
		stats.Wins++
	case wentToOT:
		stats.OTLosses++
	default:
		stats.Losses++
	}
	if opp.box.Goals == 0 {
		stats.Shutouts++
	}
}

func recordTeams(home, away *side, wentToOT bool) {
	for _, pair := range [][2]*side{{home, away}, {away, home}} {
		sd, opp := pair[0], pair[1]
		r := &sd.lineup.team.Record
		r.GamesPlayed++
		r.GoalsFor += sd.box.Goals
		r.GoalsAgainst += opp.box.Goals
		r.ShotsFor += sd.box.Shots
		r.ShotsAgainst += opp.box.Shots
		switch {
		case sd.box.Goals > opp.box.Goals:
			r.Wins++
		case wentToOT:
			r.OTLosses++
		default:
			r.Losses++
		}
	}
}
