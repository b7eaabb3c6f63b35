package models

import (
	"sort"
	"strings"
)

// Owners maps team ids to the Discord usernames allowed to commit moves for them.
// Each team can have multiple owners who are considered equal.
type Owners map[string][]string

// ParseOwners reads the TEAM_OWNERS format: "TOR:alice|bob,BOS:carol"
func ParseOwners(raw string) Owners {
	owners := make(Owners)
	for _, entry := range strings.Split(raw, ",") {
		teamID, users, found := strings.Cut(strings.TrimSpace(entry), ":")
		if !found || strings.TrimSpace(teamID) == "" {
			continue
		}
		teamID = strings.ToUpper(strings.TrimSpace(teamID))
		for _, u := range strings.Split(users, "|") {
			if u = strings.TrimSpace(u); u != "" {
				owners[teamID] = append(owners[teamID], u)
			}
		}
	}
	return owners
}

// IsTeamOwner checks if a Discord user is an owner of the specified team
func (o Owners) IsTeamOwner(teamID string, discordUser string) bool {
	for _, ownerID := range o[strings.ToUpper(teamID)] {
		if ownerID == discordUser {
			return true
		}
	}
	return false
}

// GetTeamOwners returns the list of Discord users for a team
func (o Owners) GetTeamOwners(teamID string) []string {
	if owners, exists := o[strings.ToUpper(teamID)]; exists {
		return owners
	}
	return []string{}
}

// GetTeamsForOwner returns all teams owned by a Discord user, sorted
func (o Owners) GetTeamsForOwner(discordUser string) []string {
	var teams []string
	for teamID, owners := range o {
		for _, ownerID := range owners {
			if ownerID == discordUser {
				teams = append(teams, teamID)
				break
			}
		}
	}
	sort.Strings(teams)
	return teams
}
