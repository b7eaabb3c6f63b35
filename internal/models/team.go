package models

import (
	"github.com/shopspring/decimal"
)

// RosterList identifies which of a team's ordered lists holds a player
type RosterList string

const (
	ListActive    RosterList = "active"
	ListIR        RosterList = "ir"
	ListLTIR      RosterList = "ltir"
	ListNonRoster RosterList = "nonRoster"
)

// Team represents a franchise with its roster lists, record and cap bookkeeping
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Conference string `json:"conference,omitempty"`
	Division   string `json:"division,omitempty"`

	// A player id lives in exactly one of these lists
	ActiveRoster []string `json:"activeRoster"`
	IR           []string `json:"ir"`
	LTIR         []string `json:"ltir"`
	NonRoster    []string `json:"nonRoster"`

	Record           TeamRecord       `json:"record"`
	RetainedSalaries []RetainedSalary `json:"retainedSalaries"`
	DraftPicks       []DraftPick      `json:"draftPicks"`
	Lineup           *Lineup          `json:"lineup,omitempty"`
}

// TeamRecord is the aggregate season record
type TeamRecord struct {
	GamesPlayed  int `json:"gp"`
	Wins         int `json:"w"`
	Losses       int `json:"l"`
	OTLosses     int `json:"otl"`
	GoalsFor     int `json:"gf"`
	GoalsAgainst int `json:"ga"`
	ShotsFor     int `json:"sf"`
	ShotsAgainst int `json:"sa"`
}

// Points returns standings points (2 per win, 1 per overtime loss)
func (r TeamRecord) Points() int {
	return 2*r.Wins + r.OTLosses
}

// GoalDifferential returns goals for minus goals against
func (r TeamRecord) GoalDifferential() int {
	return r.GoalsFor - r.GoalsAgainst
}

// ForwardLine is a trio of player ids
type ForwardLine [3]string

// DefensePair is a duo of player ids
type DefensePair [2]string

// Lineup is an explicit lineup assignment for a team
type Lineup struct {
	ForwardLines   []ForwardLine `json:"forwardLines"`
	DefensePairs   []DefensePair `json:"defensePairs"`
	StartingGoalie string        `json:"startingGoalie"`
	BackupGoalie   string        `json:"backupGoalie,omitempty"`
}

// IsEmpty reports whether the lineup assigns nobody
func (l *Lineup) IsEmpty() bool {
	if l == nil {
		return true
	}
	return len(l.ForwardLines) == 0 && len(l.DefensePairs) == 0 && l.StartingGoalie == ""
}

// Contains reports whether the lineup assigns the player anywhere
func (l *Lineup) Contains(playerID string) bool {
	if l == nil {
		return false
	}
	if l.StartingGoalie == playerID || l.BackupGoalie == playerID {
		return true
	}
	for _, line := range l.ForwardLines {
		for _, id := range line {
			if id == playerID {
				return true
			}
		}
	}
	for _, pair := range l.DefensePairs {
		for _, id := range pair {
			if id == playerID {
				return true
			}
		}
	}
	return false
}

// RetainedSalary records salary a team kept when it traded a player away
type RetainedSalary struct {
	PlayerID         string          `json:"playerId"`
	ContractID       string          `json:"contractId"`
	ToTeamID         string          `json:"toTeamId"`
	Percent          float64         `json:"percent"`       // 0-0.5
	CapHitSavings    decimal.Decimal `json:"capHitSavings"` // Percent of the cap hit at trade time
	RemainingSeasons int             `json:"remainingSeasons"`
}

// DraftPick is a future selection owned by the team holding it
type DraftPick struct {
	ID             string `json:"id"`
	Season         string `json:"season"`
	Round          int    `json:"round"`
	OriginalTeamID string `json:"originalTeamId"`
}

func (t *Team) list(l RosterList) *[]string {
	switch l {
	case ListActive:
		return &t.ActiveRoster
	case ListIR:
		return &t.IR
	case ListLTIR:
		return &t.LTIR
	case ListNonRoster:
		return &t.NonRoster
	}
	return nil
}

// AllLists returns the roster lists in a fixed order
func AllLists() []RosterList {
	return []RosterList{ListActive, ListIR, ListLTIR, ListNonRoster}
}

// ListOf returns the list holding the player, or false if the team does not hold him
func (t *Team) ListOf(playerID string) (RosterList, bool) {
	for _, l := range AllLists() {
		for _, id := range *t.list(l) {
			if id == playerID {
				return l, true
			}
		}
	}
	return "", false
}

// HasPlayer checks whether any roster list holds the player
func (t *Team) HasPlayer(playerID string) bool {
	_, ok := t.ListOf(playerID)
	return ok
}

// RemovePlayer takes the player off whichever list holds him and reports that list
func (t *Team) RemovePlayer(playerID string) (RosterList, bool) {
	for _, l := range AllLists() {
		ids := t.list(l)
		for i, id := range *ids {
			if id == playerID {
				*ids = append((*ids)[:i:i], (*ids)[i+1:]...)
				return l, true
			}
		}
	}
	return "", false
}

// AddPlayer appends the player to the given list
func (t *Team) AddPlayer(playerID string, l RosterList) {
	ids := t.list(l)
	if ids == nil {
		ids = &t.ActiveRoster
	}
	*ids = append(*ids, playerID)
}

// AllPlayerIDs returns every player the team holds, list by list
func (t *Team) AllPlayerIDs() []string {
	var ids []string
	for _, l := range AllLists() {
		ids = append(ids, *t.list(l)...)
	}
	return ids
}

// DraftPickIndex returns the index of a pick the team owns, or -1
func (t *Team) DraftPickIndex(pickID string) int {
	for i, p := range t.DraftPicks {
		if p.ID == pickID {
			return i
		}
	}
	return -1
}
