package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Contract belongs to exactly one player and carries one cap hit per season of its term
type Contract struct {
	ID         string         `json:"id"`
	PlayerID   string         `json:"playerId"`
	Seasons    []SeasonCapHit `json:"seasons"` // Ordered by season
	EntryLevel bool           `json:"entryLevel,omitempty"`
	NoMovement bool           `json:"noMovement,omitempty"`
	NoTrade    *NoTradeClause `json:"noTrade,omitempty"`
	Notes      []string       `json:"notes,omitempty"`
}

// SeasonCapHit is the cap charge for one season label such as "2025-26"
type SeasonCapHit struct {
	Season string          `json:"season"`
	CapHit decimal.Decimal `json:"capHit"`
}

// NoTradeClause blocks trades to every team (Full) or only to BlockedTeams
type NoTradeClause struct {
	Full         bool     `json:"full,omitempty"`
	BlockedTeams []string `json:"blockedTeams,omitempty"`
}

// Blocks reports whether the clause forbids a move to the given team
func (c *NoTradeClause) Blocks(teamID string) bool {
	if c == nil {
		return false
	}
	if c.Full {
		return true
	}
	for _, id := range c.BlockedTeams {
		if strings.EqualFold(id, teamID) {
			return true
		}
	}
	return false
}

// Term returns the first and last season start years of the contract
func (c *Contract) Term() (first, last int, ok bool) {
	if len(c.Seasons) == 0 {
		return 0, 0, false
	}
	first, err := SeasonStartYear(c.Seasons[0].Season)
	if err != nil {
		return 0, 0, false
	}
	last, err = SeasonStartYear(c.Seasons[len(c.Seasons)-1].Season)
	if err != nil {
		return 0, 0, false
	}
	return first, last, true
}

// SeasonsRemaining counts the seasons of the term from the given season onward
func (c *Contract) SeasonsRemaining(season string) int {
	year, err := SeasonStartYear(season)
	if err != nil {
		return 0
	}
	_, last, ok := c.Term()
	if !ok || last < year {
		return 0
	}
	first, _, _ := c.Term()
	if year < first {
		year = first
	}
	return last - year + 1
}

// SeasonStartYear parses the first year of a label like "2025-26" or "2025"
func SeasonStartYear(label string) (int, error) {
	label = strings.TrimSpace(label)
	if idx := strings.IndexAny(label, "-/"); idx != -1 {
		label = label[:idx]
	}
	year, err := strconv.Atoi(label)
	if err != nil {
		return 0, fmt.Errorf("invalid season label %q: %w", label, err)
	}
	return year, nil
}

// SeasonLabel formats a start year as "2025-26"
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// ParseMoney reads amounts like "$10,903,000", "10903000" or "$10.9M"
func ParseMoney(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	mult := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(strings.ToUpper(clean), "M"):
		mult = decimal.NewFromInt(1_000_000)
		clean = clean[:len(clean)-1]
	case strings.HasSuffix(strings.ToUpper(clean), "K"):
		mult = decimal.NewFromInt(1_000)
		clean = clean[:len(clean)-1]
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount.Mul(mult), nil
}

// ParseNoTrade reads a clause cell: blank or "no" means none, "full"/"yes" a full clause,
// anything else a list of blocked team ids separated by '|', ',' or ';'
func ParseNoTrade(s string) *NoTradeClause {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "no", "n", "none", "-":
		return nil
	case "full", "yes", "y", "ntc":
		return &NoTradeClause{Full: true}
	}
	var teams []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' || r == ';' }) {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			teams = append(teams, part)
		}
	}
	if len(teams) == 0 {
		return nil
	}
	return &NoTradeClause{BlockedTeams: teams}
}
