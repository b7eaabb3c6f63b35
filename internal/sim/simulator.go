// Package sim simulates hockey games between two teams of a league and writes the
// results back into the league's cumulative statistics.
package sim

import (
	"fmt"
	"math"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

// Simulator plays games. It holds no league state; every call borrows the state it is
// given and mutates the two teams involved.
type Simulator struct {
	cfg    Config
	src    rng.Source
	logger *logger.Logger
}

// New returns a simulator. src is used to draw a seed for games played without
// Options.Seed; nil means an ambient source.
func New(cfg Config, src rng.Source, log *logger.Logger) *Simulator {
	if src == nil {
		src = rng.Ambient()
	}
	return &Simulator{
		cfg:    cfg,
		src:    src,
		logger: log.Named("sim"),
	}
}

// side is the per-team working state of one game
type side struct {
	lineup   *dressed
	box      TeamBox
	xg       float64
	ppShare  float64 // Share of expected goals that came from the power play
	offense  float64
	defense  float64
	goalieOV float64
}

// SimulateGame plays homeID against awayID and records the result into state: team
// records, skater lines and the starting goalies' running totals. An unknown team id
// returns an error wrapping models.ErrTeamNotFound and leaves state untouched.
func (s *Simulator) SimulateGame(state *models.LeagueState, homeID, awayID string, opts Options) (*GameResult, error) {
	homeTeam, err := state.Team(homeID)
	if err != nil {
		return nil, err
	}
	awayTeam, err := state.Team(awayID)
	if err != nil {
		return nil, err
	}
	if homeID == awayID {
		return nil, fmt.Errorf("team %s cannot play itself", homeID)
	}

	homeLineup, err := resolveLineup(state, homeTeam)
	if err != nil {
		return nil, err
	}
	awayLineup, err := resolveLineup(state, awayTeam)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = uint64(s.src.Float64() * (1 << 53))
	}
	src := rng.New(seed)

	home := &side{lineup: homeLineup, box: TeamBox{TeamID: homeID}}
	away := &side{lineup: awayLineup, box: TeamBox{TeamID: awayID}}
	home.offense, home.defense, home.goalieOV = homeLineup.strength()
	away.offense, away.defense, away.goalieOV = awayLineup.strength()

	s.logger.Debugf("game %s vs %s seed=%d [%s] [%s]", homeID, awayID, seed, homeLineup, awayLineup)

	s.generate(src, home, away, true)
	s.generate(src, away, home, false)

	box := BoxScore{Seed: seed}
	wentToOT := s.resolveTie(src, home, away, opts)
	box.WentToOT = wentToOT

	s.splitLineShots(home)
	s.splitLineShots(away)

	box.Goals = s.attributeGoals(src, home, away, wentToOT)

	minutes := s.cfg.RegulationMinutes
	if wentToOT {
		minutes += s.cfg.OvertimeMinutes
	}
	s.persistSkaters(src, home, away, box.Goals)
	s.persistSkaters(src, away, home, box.Goals)
	s.persistGoalie(home, away, wentToOT, minutes)
	s.persistGoalie(away, home, wentToOT, minutes)
	recordTeams(home, away, wentToOT)

	box.Home = home.box
	box.Away = away.box

	return &GameResult{
		BoxScore:  box,
		HomeGoals: home.box.Goals,
		AwayGoals: away.box.Goals,
		WentToOT:  wentToOT,
	}, nil
}

// generate draws shots and goals for att against def
func (s *Simulator) generate(src rng.Source, att, def *side, isHome bool) {
	base := rng.Uniform(src, s.cfg.ShotsMin, s.cfg.ShotsMax)
	if isHome {
		base *= s.cfg.HomeIceMultiplier
	}
	effect := s.cfg.StrengthEffectCap * math.Tanh((att.offense-def.defense)/s.cfg.StrengthScale)
	shots := int(math.Round(base * (1 + effect)))
	if shots < 0 {
		shots = 0
	}

	save := s.savePct(def.lineup.goalie)
	xg := float64(shots) * (1 - save)

	ppMean := s.cfg.PPMean * att.offense / 75
	opps := int(math.Round(ppMean + src.NormFloat64()*s.cfg.PPStd))
	if opps < 0 {
		opps = 0
	}
	pp := float64(opps) * s.cfg.PPConversion * s.cfg.PPWeight
	xg += pp

	xg += rng.Uniform(src, -s.cfg.Noise, s.cfg.Noise)
	xg *= 1 + s.cfg.ChemistryBonus*(att.lineup.chemistry()-0.5)
	if xg < 0 {
		xg = 0
	}

	goals := int(math.Round(xg))
	ceiling := s.cfg.GoalCeiling
	if shots < ceiling {
		ceiling = shots
	}
	if goals > ceiling {
		goals = ceiling
	}

	att.xg = xg
	if xg > 0 {
		att.ppShare = math.Min(1, pp/xg)
	}
	att.box.Shots = shots
	att.box.Goals = goals
	att.box.PPOpps = opps
}

// savePct maps a goalie's overall onto the save band; an empty crease saves at the floor
func (s *Simulator) savePct(goalie *models.Player) float64 {
	if goalie == nil {
		return s.cfg.SaveMin
	}
	t := float64(goalie.Overall-models.MinRating) / float64(models.MaxRating-models.MinRating)
	t = math.Max(0, math.Min(1, t))
	return s.cfg.SaveMin + t*(s.cfg.SaveMax-s.cfg.SaveMin)
}

// resolveTie breaks a tied score. It reports whether the game went to overtime.
func (s *Simulator) resolveTie(src rng.Source, home, away *side, opts Options) bool {
	if home.box.Goals != away.box.Goals {
		return false
	}

	overtime := rng.Chance(src, s.cfg.OTProbability)
	if opts.Overtime != nil {
		overtime = *opts.Overtime
	}

	winner, loser := home, away
	if rng.WeightedIndex(src, []float64{home.xg + 0.1, away.xg + 0.1}) == 1 {
		winner, loser = away, home
	}
	if overtime && !rng.Chance(src, s.cfg.OTGoalProbability) {
		// nobody scored in overtime; the tie-break goal goes to a coin flip
		if src.IntN(2) == 1 {
			winner, loser = loser, winner
		}
	}

	if winner.box.Goals >= s.cfg.GoalCeiling && loser.box.Goals > 0 {
		loser.box.Goals--
		return overtime
	}
	winner.box.Goals++
	if winner.box.Shots < winner.box.Goals {
		winner.box.Shots = winner.box.Goals
	}
	return overtime
}

// toiShares returns the ice-time shares for n units, renormalised to sum to 1
func toiShares(template []float64, n int) []float64 {
	shares := make([]float64, n)
	total := 0.0
	for i := range shares {
		if i < len(template) {
			shares[i] = template[i]
		} else {
			shares[i] = template[len(template)-1]
		}
		total += shares[i]
	}
	for i := range shares {
		shares[i] /= total
	}
	return shares
}

// onIce returns the unit on the ice at minute under a repeating rotation: each cycle of
// RotationMinutes gives every unit a slice proportional to its share
func (s *Simulator) onIce(shares []float64, minute float64) int {
	if len(shares) == 0 {
		return -1
	}
	pos := math.Mod(minute, s.cfg.RotationMinutes) / s.cfg.RotationMinutes
	cum := 0.0
	for i, sh := range shares {
		cum += sh
		if pos < cum {
			return i
		}
	}
	return len(shares) - 1
}

// splitLineShots spreads the team's shots across forward lines by rating and ice time
func (s *Simulator) splitLineShots(sd *side) {
	lines := sd.lineup.lines
	shares := toiShares(s.cfg.ForwardTOI, len(lines))
	weights := make([]float64, len(lines))
	for i, line := range lines {
		sum := 0.0
		for _, p := range line {
			sum += float64(p.Overall)
		}
		weights[i] = math.Pow(sum, s.cfg.LineExponent) * shares[i]
	}
	sd.box.LineShots = apportion(sd.box.Shots, weights)
}

// attributeGoals turns each side's goal count into ordered goal events
func (s *Simulator) attributeGoals(src rng.Source, home, away *side, wentToOT bool) []GoalEvent {
	var events []GoalEvent
	for _, pair := range [][2]*side{{home, away}, {away, home}} {
		att, def := pair[0], pair[1]
		otWinner := wentToOT && att.box.Goals > def.box.Goals
		for g := 0; g < att.box.Goals; g++ {
			ev := GoalEvent{TeamID: att.box.TeamID}
			if otWinner && g == att.box.Goals-1 {
				ev.Overtime = true
				ev.Minute = rng.Uniform(src, s.cfg.RegulationMinutes, s.cfg.RegulationMinutes+s.cfg.OvertimeMinutes)
			} else {
				ev.Minute = rng.Uniform(src, 0, s.cfg.RegulationMinutes)
			}
			ev.PowerPlay = rng.Chance(src, att.ppShare)
			s.creditGoal(src, att, &ev)
			events = append(events, ev)
		}
	}

	// order by game clock; insertion sort keeps equal minutes in a fixed order
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Minute < events[j-1].Minute; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
	return events
}

// onIceGroup returns the skaters of sd on the ice at minute
func (s *Simulator) onIceGroup(sd *side, minute float64) models.PlayerList {
	var group models.PlayerList
	if i := s.onIce(toiShares(s.cfg.ForwardTOI, len(sd.lineup.lines)), minute); i >= 0 {
		group = append(group, sd.lineup.lines[i]...)
	}
	if i := s.onIce(toiShares(s.cfg.DefenseTOI, len(sd.lineup.pairs)), minute); i >= 0 {
		group = append(group, sd.lineup.pairs[i]...)
	}
	return group
}

// creditGoal picks the scorer and assisters from the on-ice group
func (s *Simulator) creditGoal(src rng.Source, att *side, ev *GoalEvent) {
	group := s.onIceGroup(att, ev.Minute)
	if len(group) == 0 {
		s.logger.Debugf("%s goal at %.1f has nobody on ice; left unattributed", att.box.TeamID, ev.Minute)
		return
	}

	weights := make([]float64, len(group))
	for i, p := range group {
		fatigue := math.Max(s.cfg.FatigueFloor, 1-s.cfg.FatiguePerGame*float64(p.Stats.GamesPlayed))
		ratio := float64(p.Attr(models.Shooting)) / math.Max(1, float64(p.Overall))
		weights[i] = math.Pow(float64(p.Overall), s.cfg.ScorerAlpha) * ratio * fatigue
	}
	scorer := rng.WeightedIndex(src, weights)
	if scorer < 0 {
		return
	}
	ev.ScorerID = group[scorer].ID

	var mates models.PlayerList
	for i, p := range group {
		if i != scorer {
			mates = append(mates, p)
		}
	}
	if len(mates) == 0 || !rng.Chance(src, s.cfg.AssistProbability) {
		return
	}

	for n := 0; n < 2 && len(mates) > 0; n++ {
		if n == 1 && !rng.Chance(src, s.cfg.SecondAssistProbability) {
			break
		}
		pw := make([]float64, len(mates))
		for i, p := range mates {
			pw[i] = float64(p.Attr(models.Passing))
		}
		idx := rng.WeightedIndex(src, pw)
		if idx < 0 {
			break
		}
		ev.AssistIDs = append(ev.AssistIDs, mates[idx].ID)
		mates = append(mates[:idx:idx], mates[idx+1:]...)
	}
}
