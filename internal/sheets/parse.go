package sheets

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

var seasonColumn = regexp.MustCompile(`^\d{4}-\d{2}$`)

// header maps lowercased column names to their index
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// BuildLeague turns the teams and players tabs into a league. Both tabs have their
// column names in the first row. Rows that cannot be parsed are skipped and returned;
// an inconsistent result is an error.
//
// Teams: id, name, conference, division, picks ("2026:1|2026:2").
// Players: team, id, name, pos, age, ovr, pot, tier, curve, list, nmc, ntc, elc, one
// column per attribute key and one per season label ("2025-26") holding the cap hit.
func BuildLeague(season models.SeasonInfo, teamRows, playerRows [][]string) (*models.LeagueState, []error, error) {
	state := models.NewLeagueState(season)
	var skipped []error

	if len(teamRows) > 0 {
		h := newHeader(teamRows[0])
		for i, row := range teamRows[1:] {
			t, err := parseTeamRow(h, row)
			if err != nil {
				skipped = append(skipped, fmt.Errorf("teams row %d: %w", i+2, err))
				continue
			}
			if t != nil {
				state.Teams[t.ID] = t
			}
		}
	}

	if len(playerRows) < 2 {
		return nil, skipped, fmt.Errorf("insufficient data in players sheet")
	}
	h := newHeader(playerRows[0])
	var seasons []string
	for name := range h {
		if seasonColumn.MatchString(name) {
			seasons = append(seasons, name)
		}
	}
	sort.Strings(seasons)

	for i, row := range playerRows[1:] {
		p, c, err := parsePlayerRow(h, seasons, row)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("players row %d: %w", i+2, err))
			continue
		}
		if p == nil {
			continue
		}
		if _, dup := state.Players[p.ID]; dup {
			skipped = append(skipped, fmt.Errorf("players row %d: duplicate id %s", i+2, p.ID))
			continue
		}
		state.Players[p.ID] = p
		if c != nil {
			state.Contracts[c.ID] = c
			p.ContractID = c.ID
		}

		teamID := strings.ToUpper(h.get(row, "team"))
		if teamID == "" || teamID == "FA" {
			continue
		}
		t, ok := state.Teams[teamID]
		if !ok {
			t = &models.Team{ID: teamID, Name: teamID}
			state.Teams[teamID] = t
		}
		t.AddPlayer(p.ID, parseList(h.get(row, "list")))
	}

	if err := state.CheckIntegrity(); err != nil {
		return nil, skipped, fmt.Errorf("league from sheets is inconsistent: %w", err)
	}
	return state, skipped, nil
}

func parseTeamRow(h header, row []string) (*models.Team, error) {
	id := strings.ToUpper(h.get(row, "id"))
	if id == "" {
		return nil, nil
	}
	t := &models.Team{
		ID:         id,
		Name:       h.get(row, "name"),
		Conference: h.get(row, "conference"),
		Division:   h.get(row, "division"),
	}
	if t.Name == "" {
		t.Name = id
	}

	for _, pick := range strings.Split(h.get(row, "picks"), "|") {
		pick = strings.TrimSpace(pick)
		if pick == "" {
			continue
		}
		yearStr, roundStr, ok := strings.Cut(pick, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pick %q (want year:round)", pick)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			return nil, fmt.Errorf("invalid pick year %q", yearStr)
		}
		round, err := strconv.Atoi(strings.TrimSpace(roundStr))
		if err != nil || round < 1 {
			return nil, fmt.Errorf("invalid pick round %q", roundStr)
		}
		t.DraftPicks = append(t.DraftPicks, models.DraftPick{
			ID:             fmt.Sprintf("%s-%d-R%d", id, year, round),
			Season:         models.SeasonLabel(year),
			Round:          round,
			OriginalTeamID: id,
		})
	}
	return t, nil
}

func parsePlayerRow(h header, seasons []string, row []string) (*models.Player, *models.Contract, error) {
	name := h.get(row, "name")
	if name == "" {
		return nil, nil, nil
	}

	id := h.get(row, "id")
	if id == "" {
		id = strings.ReplaceAll(models.NormalizeName(name), " ", "-")
	}

	pos := models.Position(strings.ToUpper(h.get(row, "pos")))
	switch pos {
	case models.Center, models.LeftWing, models.RightWing, models.Defenseman, models.Goaltender:
	default:
		return nil, nil, fmt.Errorf("%s: unknown position %q", name, pos)
	}

	p := &models.Player{
		ID:            id,
		Name:          name,
		Position:      pos,
		PotentialTier: models.TierMed,
		GrowthCurve:   models.CurveStandard,
		Attributes:    make(map[models.Attribute]int),
	}

	var err error
	if p.Age, err = atoi(h.get(row, "age")); err != nil {
		return nil, nil, fmt.Errorf("%s: age: %w", name, err)
	}
	if p.Overall, err = atoi(h.get(row, "ovr")); err != nil {
		return nil, nil, fmt.Errorf("%s: overall: %w", name, err)
	}
	if p.Overall < models.MinRating || p.Overall > models.MaxRating {
		return nil, nil, fmt.Errorf("%s: overall %d outside %d-%d", name, p.Overall, models.MinRating, models.MaxRating)
	}
	p.Potential = p.Overall
	if v := h.get(row, "pot"); v != "" {
		if p.Potential, err = atoi(v); err != nil {
			return nil, nil, fmt.Errorf("%s: potential: %w", name, err)
		}
	}
	if v := strings.ToUpper(h.get(row, "tier")); v != "" {
		p.PotentialTier = models.PotentialTier(v)
	}
	if v := strings.ToUpper(h.get(row, "curve")); v != "" {
		p.GrowthCurve = models.GrowthCurve(v)
	}

	for _, a := range attributeColumns(pos) {
		v := h.get(row, string(a))
		if v == "" {
			continue
		}
		rating, err := atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %s: %w", name, a, err)
		}
		p.Attributes[a] = rating
	}

	c := &models.Contract{
		ID:         "c-" + id,
		PlayerID:   id,
		NoMovement: yes(h.get(row, "nmc")),
		NoTrade:    models.ParseNoTrade(h.get(row, "ntc")),
		EntryLevel: yes(h.get(row, "elc")),
	}
	for _, season := range seasons {
		v := h.get(row, season)
		if v == "" {
			continue
		}
		amount, err := models.ParseMoney(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %s cap hit: %w", name, season, err)
		}
		c.Seasons = append(c.Seasons, models.SeasonCapHit{Season: season, CapHit: amount})
	}
	if len(c.Seasons) == 0 {
		c = nil
	}
	return p, c, nil
}

func attributeColumns(pos models.Position) []models.Attribute {
	if pos == models.Goaltender {
		return []models.Attribute{models.Reflexes, models.Positioning, models.ReboundControl, models.Stamina}
	}
	return []models.Attribute{models.Shooting, models.Passing, models.Skating, models.Defending, models.Physical, models.IQ}
}

func parseList(v string) models.RosterList {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ir":
		return models.ListIR
	case "ltir":
		return models.ListLTIR
	case "nonroster", "non-roster", "minors":
		return models.ListNonRoster
	}
	return models.ListActive
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func yes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "x", "1":
		return true
	}
	return false
}
