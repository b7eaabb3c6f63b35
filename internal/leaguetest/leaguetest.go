// Package leaguetest builds small leagues for engine tests.
package leaguetest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// Season is the label every fixture league plays in
const Season = "2025-26"

// NewLeague returns an empty league with default season limits
func NewLeague() *models.LeagueState {
	return models.NewLeagueState(models.DefaultSeasonInfo(Season))
}

// AddTeam registers an empty team
func AddTeam(s *models.LeagueState, id string) *models.Team {
	t := &models.Team{ID: id, Name: id + " Club"}
	s.Teams[id] = t
	return t
}

// AddPlayer creates a player on the team's active roster with a three-season contract
// carrying capHit each season. A zero capHit creates no contract.
func AddPlayer(s *models.LeagueState, teamID, id string, pos models.Position, overall int, capHit int64) *models.Player {
	p := &models.Player{
		ID:            id,
		Name:          "Player " + id,
		Position:      pos,
		Age:           26,
		Overall:       overall,
		Potential:     overall + 5,
		PotentialTier: models.TierMed,
		GrowthCurve:   models.CurveStandard,
		Attributes:    defaultAttributes(pos, overall),
	}
	if p.Potential > models.MaxRating {
		p.Potential = models.MaxRating
	}
	s.Players[id] = p

	if capHit > 0 {
		c := &models.Contract{ID: "c-" + id, PlayerID: id}
		for year := 2025; year < 2028; year++ {
			c.Seasons = append(c.Seasons, models.SeasonCapHit{
				Season: models.SeasonLabel(year),
				CapHit: decimal.NewFromInt(capHit),
			})
		}
		s.Contracts[c.ID] = c
		p.ContractID = c.ID
	}

	if t, ok := s.Teams[teamID]; ok {
		t.AddPlayer(id, models.ListActive)
	}
	return p
}

// FullTeam adds a team with 12 forwards, 6 defensemen and 2 goalies (20 active players).
// Player ids are prefixed with the team id; every player carries capHit.
func FullTeam(s *models.LeagueState, teamID string, overall int, capHit int64) *models.Team {
	t := AddTeam(s, teamID)
	forwardSpots := []models.Position{models.Center, models.LeftWing, models.RightWing}
	for i := 0; i < 12; i++ {
		AddPlayer(s, teamID, fmt.Sprintf("%s-F%02d", teamID, i+1), forwardSpots[i%3], overall, capHit)
	}
	for i := 0; i < 6; i++ {
		AddPlayer(s, teamID, fmt.Sprintf("%s-D%02d", teamID, i+1), models.Defenseman, overall, capHit)
	}
	for i := 0; i < 2; i++ {
		AddPlayer(s, teamID, fmt.Sprintf("%s-G%02d", teamID, i+1), models.Goaltender, overall, capHit)
	}
	return t
}

func defaultAttributes(pos models.Position, overall int) map[models.Attribute]int {
	var attrs []models.Attribute
	if pos == models.Goaltender {
		attrs = []models.Attribute{models.Reflexes, models.Positioning, models.ReboundControl, models.Stamina}
	} else {
		attrs = []models.Attribute{models.Shooting, models.Passing, models.Skating, models.Defending, models.Physical, models.IQ}
	}
	m := make(map[models.Attribute]int, len(attrs))
	for _, a := range attrs {
		m[a] = overall
	}
	return m
}
