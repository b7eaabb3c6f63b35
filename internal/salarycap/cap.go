// Package salarycap measures team cap usage and validates trades against the league's
// cap, roster and contract-clause rules.
package salarycap

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// ProrateByDays scales a full-season amount to the share of the season left after
// dayIndex days. The day is clamped to [0, seasonDays]; a non-positive season length
// returns the amount unchanged.
func ProrateByDays(amount decimal.Decimal, seasonDays, dayIndex int) decimal.Decimal {
	if seasonDays <= 0 {
		return amount
	}
	if dayIndex < 0 {
		dayIndex = 0
	}
	if dayIndex > seasonDays {
		dayIndex = seasonDays
	}
	remaining := decimal.NewFromInt(int64(seasonDays - dayIndex))
	return amount.Mul(remaining).Div(decimal.NewFromInt(int64(seasonDays))).Round(2)
}

// IsSeasonWithin reports whether the season falls inside the contract's term
func IsSeasonWithin(c *models.Contract, season string) bool {
	if c == nil {
		return false
	}
	year, err := models.SeasonStartYear(season)
	if err != nil {
		return false
	}
	first, last, ok := c.Term()
	return ok && year >= first && year <= last
}

// GetCapHitForSeason returns the contract's cap hit for the season, or zero outside the
// term or when the term has no entry for that season
func GetCapHitForSeason(c *models.Contract, season string) decimal.Decimal {
	if !IsSeasonWithin(c, season) {
		return decimal.Zero
	}
	year, _ := models.SeasonStartYear(season)
	for _, s := range c.Seasons {
		if y, err := models.SeasonStartYear(s.Season); err == nil && y == year {
			return s.CapHit
		}
	}
	return decimal.Zero
}

// ProratedCeiling is the cap ceiling scaled to the days left in the season
func ProratedCeiling(state *models.LeagueState) decimal.Decimal {
	return ProrateByDays(state.Season.CapCeiling, state.Season.SeasonDays, state.Season.DayIndex)
}

// TeamCapHit sums the team's active-roster cap hits less the savings recorded for salary
// it retained on players it traded away. Retention never changes the acquiring team's
// usage. The total is prorated to the current league day.
func TeamCapHit(state *models.LeagueState, teamID string) (decimal.Decimal, error) {
	full, err := fullSeasonCapHit(state, teamID)
	if err != nil {
		return decimal.Zero, err
	}
	return ProrateByDays(full, state.Season.SeasonDays, state.Season.DayIndex), nil
}

func fullSeasonCapHit(state *models.LeagueState, teamID string) (decimal.Decimal, error) {
	team, err := state.Team(teamID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, id := range team.ActiveRoster {
		if _, err := state.Player(id); err != nil {
			return decimal.Zero, fmt.Errorf("team %s: %w", teamID, err)
		}
		total = total.Add(GetCapHitForSeason(state.ContractFor(id), state.Season.Label))
	}

	for _, r := range team.RetainedSalaries {
		if r.RemainingSeasons > 0 {
			total = total.Sub(r.CapHitSavings)
		}
	}
	return total, nil
}

// SideSummary is one team's cap picture at a point in time
type SideSummary struct {
	TeamID        string          `json:"teamId"`
	CapUsed       decimal.Decimal `json:"capUsed"`
	CapSpace      decimal.Decimal `json:"capSpace"`
	RosterSize    int             `json:"rosterSize"`
	RetainedSlots int             `json:"retainedSlots"`
	SPCCount      int             `json:"spcCount"`
}

// Summarize measures a team's cap used and space, active roster size, retained slots in
// use, and contract count
func Summarize(state *models.LeagueState, teamID string) (SideSummary, error) {
	team, err := state.Team(teamID)
	if err != nil {
		return SideSummary{}, err
	}
	used, err := TeamCapHit(state, teamID)
	if err != nil {
		return SideSummary{}, err
	}

	slots := 0
	for _, r := range team.RetainedSalaries {
		if r.RemainingSeasons > 0 {
			slots++
		}
	}

	return SideSummary{
		TeamID:        teamID,
		CapUsed:       used,
		CapSpace:      ProratedCeiling(state).Sub(used),
		RosterSize:    len(team.ActiveRoster),
		RetainedSlots: slots,
		SPCCount:      spcCount(state, team),
	}, nil
}

// spcCount counts every player the team holds, on any list, who is signed to a contract
func spcCount(state *models.LeagueState, team *models.Team) int {
	n := 0
	for _, id := range team.AllPlayerIDs() {
		if state.ContractFor(id) != nil {
			n++
		}
	}
	return n
}
