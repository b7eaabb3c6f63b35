// Package progression develops players between seasons: age curves, potential,
// performance and the occasional breakout or bust.
package progression

import (
	"math"
	"sort"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

const (
	NoteBreakout     = "Breakout!"
	NoteBust         = "Bust"
	NoteAgeDecline   = "Age decline"
	NoteLimitedUsage = "Limited usage"
	NoteAtCeiling    = "At potential"
)

// Config holds the tunable constants of the development model
type Config struct {
	NoStatsPenalty     float64
	PerformanceCap     float64 // Performance term is clamped to [-cap, cap]
	BreakoutMin        float64
	BreakoutMax        float64
	BreakoutPerPoint   float64 // Added breakout chance per point of potential gap
	BreakoutSwingMin   float64
	BreakoutSwingMax   float64
	BustChance         float64
	BustSwingMin       float64
	BustSwingMax       float64
	DeltaMin           float64
	DeltaMax           float64
	DampGap            float64 // Growth is throttled when the potential gap is below this
	DeclineAge         int     // Forced decline from this age on
	SkaterUsageGames   float64
	GoalieUsageGames   float64
	GoalieBaselineSave float64
	GoalieBaselineGAA  float64
}

// DefaultConfig returns the league's development tuning
func DefaultConfig() Config {
	return Config{
		NoStatsPenalty:     -0.3,
		PerformanceCap:     1.5,
		BreakoutMin:        0.02,
		BreakoutMax:        0.12,
		BreakoutPerPoint:   0.004,
		BreakoutSwingMin:   1,
		BreakoutSwingMax:   3,
		BustChance:         0.03,
		BustSwingMin:       1,
		BustSwingMax:       2.5,
		DeltaMin:           -3.5,
		DeltaMax:           4,
		DampGap:            5,
		DeclineAge:         34,
		SkaterUsageGames:   60,
		GoalieUsageGames:   40,
		GoalieBaselineSave: 0.900,
		GoalieBaselineGAA:  2.9,
	}
}

// Change describes what one progression run did to one player
type Change struct {
	PlayerID        string                   `json:"playerId"`
	Name            string                   `json:"name"`
	Before          int                      `json:"before"`
	After           int                      `json:"after"`
	Delta           int                      `json:"delta"`
	AttributeDeltas map[models.Attribute]int `json:"attributeDeltas"`
	Notes           []string                 `json:"notes"`
}

// Engine runs season-over-season development
type Engine struct {
	cfg    Config
	src    rng.Source
	logger *logger.Logger
}

// NewEngine returns an engine drawing from src; nil means an ambient source
func NewEngine(cfg Config, src rng.Source, log *logger.Logger) *Engine {
	if src == nil {
		src = rng.Ambient()
	}
	return &Engine{cfg: cfg, src: src, logger: log.Named("progression")}
}

// UpdatePlayerDevelopmentForSeason develops every player in order and returns one Change
// per player. Players are modified in place: Overall, Attributes and, when
// ctx.AdvanceAge is set, Age. Callers wanting a preview pass copies.
func (e *Engine) UpdatePlayerDevelopmentForSeason(players []*models.Player, stats map[string]SeasonLine, ctx *Context) []Change {
	c := ctx.withDefaults()
	changes := make([]Change, 0, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		line, ok := stats[p.ID]
		changes = append(changes, e.develop(p, line, ok && line.GamesPlayed > 0, c))
	}
	e.logger.Debugf("developed %d players (era %.2f, %s)", len(changes), c.ScoringEra, c.Difficulty)
	return changes
}

func (e *Engine) develop(p *models.Player, line SeasonLine, hasLine bool, ctx Context) Change {
	ch := Change{
		PlayerID:        p.ID,
		Name:            p.Name,
		Before:          p.Overall,
		AttributeDeltas: make(map[models.Attribute]int),
	}
	mult := ctx.Difficulty.multiplier()

	budget := ageCurve(effectiveAge(p))*mult + tierBonus(p.PotentialTier)*mult
	if hasLine {
		budget += e.performance(p, line, ctx.ScoringEra)
	} else {
		budget += e.cfg.NoStatsPenalty
		ch.Notes = append(ch.Notes, NoteLimitedUsage)
	}

	gap := float64(p.Potential - p.Overall)
	breakout := clamp(e.cfg.BreakoutMin+gap*e.cfg.BreakoutPerPoint, e.cfg.BreakoutMin, e.cfg.BreakoutMax)
	if rng.Chance(e.src, breakout) {
		budget += rng.Uniform(e.src, e.cfg.BreakoutSwingMin, e.cfg.BreakoutSwingMax)
		ch.Notes = append(ch.Notes, NoteBreakout)
	}
	if rng.Chance(e.src, e.cfg.BustChance) {
		budget -= rng.Uniform(e.src, e.cfg.BustSwingMin, e.cfg.BustSwingMax)
		ch.Notes = append(ch.Notes, NoteBust)
	}

	delta := clamp(budget, e.cfg.DeltaMin, e.cfg.DeltaMax)
	if delta > 0 {
		switch {
		case gap <= 0:
			delta = 0
			ch.Notes = append(ch.Notes, NoteAtCeiling)
		case gap < e.cfg.DampGap:
			delta *= gap / e.cfg.DampGap
		}
	}

	e.spread(p, delta, ch.AttributeDeltas)

	prev := p.Overall
	next := int(math.Round((2*(float64(prev)+delta) + p.AttributeMean()) / 3))
	if next > prev && next > p.Potential {
		next = max(p.Potential, prev)
	}

	if p.Age >= e.cfg.DeclineAge {
		next -= rng.IntRange(e.src, 1, 2)
		ch.Notes = append(ch.Notes, NoteAgeDecline)
	}
	next = clampRating(next)

	p.Overall = next
	if ctx.AdvanceAge {
		p.Age++
	}

	ch.After = next
	ch.Delta = next - prev
	return ch
}

// effectiveAge shifts the age curve: early developers age a curve faster, late ones slower
func effectiveAge(p *models.Player) int {
	switch p.GrowthCurve {
	case models.CurveEarly:
		return p.Age + 2
	case models.CurveLate:
		return p.Age - 2
	}
	return p.Age
}

func ageCurve(age int) float64 {
	switch {
	case age <= 20:
		return 3.5
	case age <= 23:
		return 2.5
	case age <= 26:
		return 1.2
	case age <= 30:
		return 0.2
	case age <= 33:
		return -1.0
	case age <= 36:
		return -2.2
	}
	return -3.5
}

func tierBonus(t models.PotentialTier) float64 {
	switch t {
	case models.TierElite:
		return 1.2
	case models.TierHigh:
		return 0.8
	case models.TierMed:
		return 0.4
	}
	return 0
}

// performance scores the season line against what a player of that age and usage should
// produce
func (e *Engine) performance(p *models.Player, line SeasonLine, era float64) float64 {
	gp := float64(line.GamesPlayed)
	if p.IsGoalie() {
		expected := e.cfg.GoalieBaselineSave + goalieAgeAdjustment(p.Age)
		term := (line.SavePct-expected)*100*0.5 + (e.cfg.GoalieBaselineGAA-line.GAA)*0.4
		usage := math.Min(1, gp/e.cfg.GoalieUsageGames)
		return clamp(term*usage, -e.cfg.PerformanceCap, e.cfg.PerformanceCap)
	}

	toi := line.TimeOnIce
	if toi <= 0 {
		toi = defaultTOI(p.Position)
	}
	expected := (0.2 + 0.035*math.Max(0, toi-10)) * era * skaterAgeFactor(p.Age)
	if p.Position == models.Defenseman {
		expected *= 0.6
	}
	ppg := float64(line.Points()) / gp
	pm := clamp(float64(line.PlusMinus)/20, -0.5, 0.5)
	usage := math.Min(1, gp/e.cfg.SkaterUsageGames)
	return clamp(((ppg-expected)*4+pm)*usage, -e.cfg.PerformanceCap, e.cfg.PerformanceCap)
}

func skaterAgeFactor(age int) float64 {
	switch {
	case age <= 22:
		return 0.85
	case age <= 30:
		return 1.0
	}
	return 0.9
}

func goalieAgeAdjustment(age int) float64 {
	switch {
	case age <= 24:
		return -0.005
	case age >= 33:
		return -0.003
	}
	return 0
}

func defaultTOI(pos models.Position) float64 {
	if pos == models.Defenseman {
		return 20
	}
	return 15
}

// positionWeights says how an overall change spreads across attributes
var positionWeights = map[string]map[models.Attribute]float64{
	"F": {models.Shooting: 0.30, models.Skating: 0.25, models.Passing: 0.25, models.IQ: 0.15, models.Defending: 0.05},
	"D": {models.Defending: 0.35, models.IQ: 0.25, models.Skating: 0.20, models.Passing: 0.10, models.Physical: 0.10},
	"G": {models.Reflexes: 0.40, models.Positioning: 0.35, models.ReboundControl: 0.15, models.Stamina: 0.10},
}

func weightsFor(pos models.Position) map[models.Attribute]float64 {
	switch {
	case pos == models.Goaltender:
		return positionWeights["G"]
	case pos == models.Defenseman:
		return positionWeights["D"]
	}
	return positionWeights["F"]
}

// spread applies delta to the player's weighted attributes and clamps every attribute
// into the rating band
func (e *Engine) spread(p *models.Player, delta float64, out map[models.Attribute]int) {
	weights := weightsFor(p.Position)
	k := float64(len(weights))

	attrs := make([]models.Attribute, 0, len(p.Attributes))
	for a := range p.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })

	for _, a := range attrs {
		old := p.Attributes[a]
		next := old + int(math.Round(delta*weights[a]*k))
		next = clampRating(next)
		p.Attributes[a] = next
		if next != old {
			out[a] = next - old
		}
	}
}

func clampRating(v int) int {
	if v < models.MinRating {
		return models.MinRating
	}
	if v > models.MaxRating {
		return models.MaxRating
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
