package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrContractNotFound  = errors.New("contract not found")
	ErrDraftPickNotFound = errors.New("draft pick not found")
)

// SeasonInfo carries the league rules and calendar for the current season
type SeasonInfo struct {
	Label       string          `json:"label"` // e.g. "2025-26"
	CapCeiling  decimal.Decimal `json:"capCeiling"`
	SeasonDays  int             `json:"seasonDays"`
	DayIndex    int             `json:"dayIndex"`
	MinRoster   int             `json:"minRoster"`
	MaxRoster   int             `json:"maxRoster"`
	MaxSPCs     int             `json:"maxSPCs"`
	MaxRetained int             `json:"maxRetained"`
}

// DefaultSeasonInfo returns NHL-style limits for the given season label
func DefaultSeasonInfo(label string) SeasonInfo {
	return SeasonInfo{
		Label:       label,
		CapCeiling:  decimal.NewFromInt(95_500_000),
		SeasonDays:  182,
		MinRoster:   20,
		MaxRoster:   23,
		MaxSPCs:     50,
		MaxRetained: 3,
	}
}

// LeagueState is the root aggregate every engine borrows
type LeagueState struct {
	Season    SeasonInfo           `json:"season"`
	Teams     map[string]*Team     `json:"teams"`
	Players   map[string]*Player   `json:"players"`
	Contracts map[string]*Contract `json:"contracts"`
}

// NewLeagueState returns an empty league for the given season
func NewLeagueState(season SeasonInfo) *LeagueState {
	return &LeagueState{
		Season:    season,
		Teams:     make(map[string]*Team),
		Players:   make(map[string]*Player),
		Contracts: make(map[string]*Contract),
	}
}

// Team looks up a team by id
func (s *LeagueState) Team(id string) (*Team, error) {
	t, ok := s.Teams[id]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	return t, nil
}

// Player looks up a player by id
func (s *LeagueState) Player(id string) (*Player, error) {
	p, ok := s.Players[id]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return p, nil
}

// ContractFor returns the player's contract, or nil if he has none
func (s *LeagueState) ContractFor(playerID string) *Contract {
	p, ok := s.Players[playerID]
	if !ok || p.ContractID == "" {
		return nil
	}
	return s.Contracts[p.ContractID]
}

// TeamOf returns the team holding the player on any list
func (s *LeagueState) TeamOf(playerID string) (*Team, bool) {
	for _, id := range s.TeamIDs() {
		if t := s.Teams[id]; t.HasPlayer(playerID) {
			return t, true
		}
	}
	return nil, false
}

// TeamIDs returns team ids in sorted order so iteration is deterministic
func (s *LeagueState) TeamIDs() []string {
	ids := make([]string, 0, len(s.Teams))
	for id := range s.Teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RosterPlayers resolves the ids on one of a team's lists
func (s *LeagueState) RosterPlayers(t *Team, l RosterList) (PlayerList, error) {
	ids := t.list(l)
	if ids == nil {
		return nil, fmt.Errorf("unknown roster list %q", l)
	}
	players := make(PlayerList, 0, len(*ids))
	for _, id := range *ids {
		p, err := s.Player(id)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", t.ID, err)
		}
		players = append(players, p)
	}
	return players, nil
}

// CheckIntegrity verifies that every rostered id resolves and appears exactly once
// across all teams and lists
func (s *LeagueState) CheckIntegrity() error {
	seen := make(map[string]string)
	for _, teamID := range s.TeamIDs() {
		t := s.Teams[teamID]
		for _, id := range t.AllPlayerIDs() {
			if _, ok := s.Players[id]; !ok {
				return fmt.Errorf("team %s: %w: %s", teamID, ErrPlayerNotFound, id)
			}
			if other, dup := seen[id]; dup {
				return fmt.Errorf("player %s listed by both %s and %s", id, other, teamID)
			}
			seen[id] = teamID
		}
	}
	for id, p := range s.Players {
		if p.ContractID == "" {
			continue
		}
		c, ok := s.Contracts[p.ContractID]
		if !ok {
			return fmt.Errorf("player %s: %w: %s", id, ErrContractNotFound, p.ContractID)
		}
		if c.PlayerID != id {
			return fmt.Errorf("contract %s belongs to %s, not %s", c.ID, c.PlayerID, id)
		}
	}
	return nil
}

// StartNextSeason moves the league to the following season label, restarts the calendar
// and clears team records and player statistics
func (s *LeagueState) StartNextSeason() error {
	year, err := SeasonStartYear(s.Season.Label)
	if err != nil {
		return err
	}
	s.Season.Label = SeasonLabel(year + 1)
	s.Season.DayIndex = 0
	for _, t := range s.Teams {
		t.Record = TeamRecord{}
	}
	for _, p := range s.Players {
		p.Stats = SkaterStats{}
		p.GoalieStats = GoalieStats{}
	}
	return nil
}

// Clone deep-copies the league through its JSON form. Callers wanting a preview of a
// mutating engine run it against the clone.
func (s *LeagueState) Clone() (*LeagueState, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode league: %w", err)
	}
	clone := &LeagueState{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("failed to decode league: %w", err)
	}
	clone.ensureMaps()
	return clone, nil
}

func (s *LeagueState) ensureMaps() {
	if s.Teams == nil {
		s.Teams = make(map[string]*Team)
	}
	if s.Players == nil {
		s.Players = make(map[string]*Player)
	}
	if s.Contracts == nil {
		s.Contracts = make(map[string]*Contract)
	}
}

// DecodeLeague reads a league from its JSON document form
func DecodeLeague(r io.Reader) (*LeagueState, error) {
	s := &LeagueState{}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode league: %w", err)
	}
	s.ensureMaps()
	return s, nil
}

// EncodeLeague writes the league as indented JSON
func EncodeLeague(w io.Writer, s *LeagueState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode league: %w", err)
	}
	return nil
}

// LoadLeagueFile reads a league JSON file and checks its integrity
func LoadLeagueFile(path string) (*LeagueState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open league file: %w", err)
	}
	defer f.Close()

	s, err := DecodeLeague(f)
	if err != nil {
		return nil, err
	}
	if err := s.CheckIntegrity(); err != nil {
		return nil, fmt.Errorf("league file %s: %w", path, err)
	}
	return s, nil
}

// SaveLeagueFile writes the league to path
func SaveLeagueFile(path string, s *LeagueState) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create league file: %w", err)
	}
	defer f.Close()
	return EncodeLeague(f, s)
}
