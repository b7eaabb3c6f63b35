package salarycap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// CapOverage decides what a trade that leaves a team over the prorated ceiling produces
type CapOverage string

const (
	CapOverageBlock CapOverage = "block" // overage is a rule violation
	CapOverageWarn  CapOverage = "warn"  // overage is reported as a warning only
)

// ParseCapOverage reads a CAP_OVERAGE_POLICY value; empty means block
func ParseCapOverage(s string) (CapOverage, error) {
	switch CapOverage(strings.ToLower(strings.TrimSpace(s))) {
	case "", CapOverageBlock:
		return CapOverageBlock, nil
	case CapOverageWarn:
		return CapOverageWarn, nil
	}
	return "", fmt.Errorf("unknown cap overage policy %q (want block or warn)", s)
}

// Policy holds the caller's choices for rules the league leaves open
type Policy struct {
	CapOverage CapOverage
}

// DefaultPolicy treats cap overages as blocking
func DefaultPolicy() Policy {
	return Policy{CapOverage: CapOverageBlock}
}

// Limits are the per-team limits a trade is measured against
type Limits struct {
	MinRoster   int
	MaxRoster   int
	MaxSPCs     int
	MaxRetained int
	Ceiling     decimal.Decimal // Prorated to the current day
}

// LimitsFor reads the limits from the season metadata, filling zero values with the
// league defaults
func LimitsFor(state *models.LeagueState) Limits {
	def := models.DefaultSeasonInfo(state.Season.Label)
	season := state.Season

	l := Limits{
		MinRoster:   season.MinRoster,
		MaxRoster:   season.MaxRoster,
		MaxSPCs:     season.MaxSPCs,
		MaxRetained: season.MaxRetained,
		Ceiling:     ProratedCeiling(state),
	}
	if l.MaxRoster <= 0 {
		l.MaxRoster = def.MaxRoster
	}
	if l.MaxSPCs <= 0 {
		l.MaxSPCs = def.MaxSPCs
	}
	if l.MaxRetained <= 0 {
		l.MaxRetained = def.MaxRetained
	}
	return l
}

// checkSide measures one team's post-trade summary against the limits
func (e *Engine) checkSide(after SideSummary, limits Limits, v *Validation) {
	team := after.TeamID

	if after.RosterSize > limits.MaxRoster {
		v.addError("%s roster size would be %d, above the maximum of %d", team, after.RosterSize, limits.MaxRoster)
	}
	if after.RosterSize < limits.MinRoster {
		v.addError("%s roster size would be %d, below the minimum of %d", team, after.RosterSize, limits.MinRoster)
	}
	if after.SPCCount > limits.MaxSPCs {
		v.addError("%s would hold %d contracts, above the limit of %d", team, after.SPCCount, limits.MaxSPCs)
	}
	if after.RetainedSlots > limits.MaxRetained {
		v.addError("%s would hold %d retained-salary slots, above the limit of %d", team, after.RetainedSlots, limits.MaxRetained)
	}

	if after.CapUsed.GreaterThan(limits.Ceiling) {
		over := after.CapUsed.Sub(limits.Ceiling)
		msg := fmt.Sprintf("%s would be %s over the prorated cap (%s used of %s)",
			team, FormatMoney(over), FormatMoney(after.CapUsed), FormatMoney(limits.Ceiling))
		if e.policy.CapOverage == CapOverageWarn {
			v.Warnings = append(v.Warnings, msg)
		} else {
			v.Errors = append(v.Errors, msg)
		}
	}
}

// checkClauses reports NMC/NTC violations for every player moving in the proposal
func checkClauses(state *models.LeagueState, p models.TradeProposal, v *Validation) {
	check := func(pieces []models.TradePiece, dest string) {
		for _, piece := range pieces {
			if !piece.IsPlayer() {
				continue
			}
			c := state.ContractFor(piece.PlayerID)
			if c == nil {
				continue
			}
			name := playerName(state, piece.PlayerID)
			switch {
			case c.NoMovement:
				v.addError("%s has a no-movement clause and cannot be traded", name)
			case c.NoTrade != nil && c.NoTrade.Full:
				v.addError("%s has a full no-trade clause", name)
			case c.NoTrade.Blocks(dest):
				v.addError("%s has a no-trade clause blocking a move to %s", name, dest)
			}
		}
	}
	check(p.FromPieces, p.ToTeamID)
	check(p.ToPieces, p.FromTeamID)
}

func playerName(state *models.LeagueState, id string) string {
	if p, ok := state.Players[id]; ok && p.Name != "" {
		return p.Name
	}
	return id
}
