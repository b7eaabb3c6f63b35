package models

// Position is a player's listed position
type Position string

const (
	Center     Position = "C"
	LeftWing   Position = "LW"
	RightWing  Position = "RW"
	Defenseman Position = "D"
	Goaltender Position = "G"
)

// IsForward reports whether the position skates on a forward line
func (p Position) IsForward() bool {
	return p == Center || p == LeftWing || p == RightWing
}

// Attribute names a single rating in a player's attribute vector
type Attribute string

const (
	Shooting       Attribute = "shooting"
	Passing        Attribute = "passing"
	Skating        Attribute = "skating"
	Defending      Attribute = "defense"
	Physical       Attribute = "physical"
	IQ             Attribute = "iq"
	Reflexes       Attribute = "reflexes"
	Positioning    Attribute = "positioning"
	ReboundControl Attribute = "rebound_control"
	Stamina        Attribute = "stamina"
)

// Rating bounds shared by every engine
const (
	MinRating = 40
	MaxRating = 99
)

// PotentialTier controls how quickly a player grows toward his ceiling
type PotentialTier string

const (
	TierLow   PotentialTier = "LOW"
	TierMed   PotentialTier = "MED"
	TierHigh  PotentialTier = "HIGH"
	TierElite PotentialTier = "ELITE"
)

// GrowthCurve shifts where a player's development peaks
type GrowthCurve string

const (
	CurveEarly    GrowthCurve = "EARLY"
	CurveStandard GrowthCurve = "STANDARD"
	CurveLate     GrowthCurve = "LATE"
)

// Player represents a skater or goaltender in the league
type Player struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Position      Position          `json:"position"`
	Age           int               `json:"age"`
	Overall       int               `json:"overall"`
	Potential     int               `json:"potential"`     // Hard ceiling for positive growth (60-99)
	PotentialTier PotentialTier     `json:"potentialTier"` // Growth rate toward Potential
	GrowthCurve   GrowthCurve       `json:"growthCurve,omitempty"`
	Attributes    map[Attribute]int `json:"attributes"` // Position-relevant ratings only
	ContractID    string            `json:"contractId,omitempty"`

	Stats       SkaterStats `json:"stats"`
	GoalieStats GoalieStats `json:"goalieStats"`
}

// IsGoalie checks whether the player is a goaltender
func (p *Player) IsGoalie() bool {
	return p.Position == Goaltender
}

// Attr returns a single attribute, falling back to Overall when the player has no
// rating recorded for it
func (p *Player) Attr(a Attribute) int {
	if v, ok := p.Attributes[a]; ok && v > 0 {
		return v
	}
	return p.Overall
}

// AttributeMean returns the mean of the recorded attribute vector, or Overall if empty
func (p *Player) AttributeMean() float64 {
	if len(p.Attributes) == 0 {
		return float64(p.Overall)
	}
	total := 0
	for _, v := range p.Attributes {
		total += v
	}
	return float64(total) / float64(len(p.Attributes))
}

// SkaterStats holds cumulative season statistics for a skater
type SkaterStats struct {
	GamesPlayed    int `json:"gp"`
	Goals          int `json:"g"`
	Assists        int `json:"a"`
	Shots          int `json:"shots"`
	Hits           int `json:"hits"`
	PlusMinus      int `json:"plusMinus"`
	PenaltyMinutes int `json:"pim"`
}

// Points returns goals plus assists
func (s SkaterStats) Points() int {
	return s.Goals + s.Assists
}

// GoalieStats holds cumulative season statistics for a goaltender. GAA and SavePct are
// running aggregates recomputed by RecordStart.
type GoalieStats struct {
	GamesPlayed  int     `json:"gp"`
	GamesStarted int     `json:"gs"`
	Wins         int     `json:"w"`
	Losses       int     `json:"l"`
	OTLosses     int     `json:"otl"`
	ShotsAgainst int     `json:"shotsAgainst"`
	Saves        int     `json:"saves"`
	GoalsAgainst int     `json:"goalsAgainst"`
	Shutouts     int     `json:"so"`
	Minutes      float64 `json:"minutes"`
	GAA          float64 `json:"gaa"`
	SavePct      float64 `json:"svPct"`
}

// RecordStart folds one start into the running totals. Goals beyond the shot count are
// clamped so that Saves never exceeds ShotsAgainst and never goes negative.
func (g *GoalieStats) RecordStart(shotsAgainst, goalsAgainst int, minutes float64) {
	if shotsAgainst < 0 {
		shotsAgainst = 0
	}
	if goalsAgainst < 0 {
		goalsAgainst = 0
	}
	if goalsAgainst > shotsAgainst {
		goalsAgainst = shotsAgainst
	}

	g.GamesPlayed++
	g.GamesStarted++
	g.ShotsAgainst += shotsAgainst
	g.Saves += shotsAgainst - goalsAgainst
	g.GoalsAgainst += goalsAgainst
	g.Minutes += minutes

	if g.Minutes > 0 {
		g.GAA = float64(g.GoalsAgainst) * 60 / g.Minutes
	}
	g.SavePct = SavePercentage(g.Saves, g.ShotsAgainst)
}

// SavePercentage returns saves/shots, or 1.0 when no shots were faced
func SavePercentage(saves, shots int) float64 {
	if shots <= 0 {
		return 1.0
	}
	return float64(saves) / float64(shots)
}
