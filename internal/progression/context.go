package progression

import (
	"fmt"
	"strings"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// Difficulty scales every growth and decline magnitude
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Normal Difficulty = "NORMAL"
	Hard   Difficulty = "HARD"
)

// ParseDifficulty reads a DIFFICULTY value; empty means NORMAL
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToUpper(strings.TrimSpace(s))); d {
	case "":
		return Normal, nil
	case Easy, Normal, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want EASY, NORMAL or HARD)", s)
}

func (d Difficulty) multiplier() float64 {
	switch d {
	case Easy:
		return 1.2
	case Hard:
		return 0.8
	}
	return 1.0
}

// Context is league-wide information for one progression run
type Context struct {
	ScoringEra float64 // Scales expected scoring; 1.0 is a neutral era
	Difficulty Difficulty
	AdvanceAge bool // Add a year to every player after developing him
}

func (c *Context) withDefaults() Context {
	out := Context{ScoringEra: 1, Difficulty: Normal}
	if c == nil {
		return out
	}
	if c.ScoringEra > 0 {
		out.ScoringEra = c.ScoringEra
	}
	if c.Difficulty != "" {
		out.Difficulty = c.Difficulty
	}
	out.AdvanceAge = c.AdvanceAge
	return out
}

// SeasonLine is a player's statistical line for the season being evaluated. Skaters use
// the scoring fields, goalies the goaltending fields.
type SeasonLine struct {
	GamesPlayed int     `json:"gp"`
	Goals       int     `json:"g"`
	Assists     int     `json:"a"`
	PlusMinus   int     `json:"plusMinus"`
	TimeOnIce   float64 `json:"toi"` // Average minutes per game; zero means use the positional default
	SavePct     float64 `json:"svPct"`
	GAA         float64 `json:"gaa"`
}

// Points returns goals plus assists
func (l SeasonLine) Points() int {
	return l.Goals + l.Assists
}

// LinesFromPlayers builds season lines from the players' cumulative statistics. Players
// who never appeared get no line.
func LinesFromPlayers(players []*models.Player) map[string]SeasonLine {
	lines := make(map[string]SeasonLine, len(players))
	for _, p := range players {
		if p.IsGoalie() {
			g := p.GoalieStats
			if g.GamesPlayed == 0 {
				continue
			}
			lines[p.ID] = SeasonLine{GamesPlayed: g.GamesPlayed, SavePct: g.SavePct, GAA: g.GAA}
			continue
		}
		s := p.Stats
		if s.GamesPlayed == 0 {
			continue
		}
		lines[p.ID] = SeasonLine{
			GamesPlayed: s.GamesPlayed,
			Goals:       s.Goals,
			Assists:     s.Assists,
			PlusMinus:   s.PlusMinus,
		}
	}
	return lines
}
