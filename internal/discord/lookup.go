package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// splitFlags separates --key=value and --flag arguments from the rest. A bare flag maps
// to "true".
func splitFlags(args []string) (map[string]string, []string) {
	flags := make(map[string]string)
	var rest []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			rest = append(rest, arg)
			continue
		}
		key, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !found {
			value = "true"
		}
		flags[strings.ToLower(key)] = value
	}
	return flags, rest
}

// allPlayers returns every player in the league ordered by id
func allPlayers(state *models.LeagueState) models.PlayerList {
	players := make(models.PlayerList, 0, len(state.Players))
	for _, p := range state.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// findPlayers resolves a name to players: exact (accent-insensitive) matches first, then
// partial ones
func findPlayers(state *models.LeagueState, name string) models.PlayerList {
	players := allPlayers(state)
	if matches := players.FindByExactName(name); len(matches) > 0 {
		return matches
	}
	if p, ok := state.Players[name]; ok {
		return models.PlayerList{p}
	}
	return players.SearchByName(name)
}

// findTeam resolves an id or name to a team. When nothing matches uniquely it returns
// the candidates worth suggesting.
func findTeam(state *models.LeagueState, query string) (*models.Team, []string) {
	query = strings.TrimSpace(query)
	if t, ok := state.Teams[strings.ToUpper(query)]; ok {
		return t, nil
	}

	var names []string
	for _, id := range state.TeamIDs() {
		t := state.Teams[id]
		if strings.EqualFold(t.Name, query) {
			return t, nil
		}
		names = append(names, t.Name)
	}

	suggestions := findSimilarTeams(query, names)
	if len(suggestions) == 1 {
		for _, t := range state.Teams {
			if t.Name == suggestions[0] {
				return t, nil
			}
		}
	}
	return nil, suggestions
}

// findSimilarTeams finds teams with similar names
func findSimilarTeams(search string, allTeams []string) []string {
	searchLower := strings.ToLower(search)
	var matches []string

	for _, team := range allTeams {
		teamLower := strings.ToLower(team)
		if strings.Contains(teamLower, searchLower) || strings.Contains(searchLower, teamLower) {
			matches = append(matches, team)
		}
	}

	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches
}

func teamNotFound(query string, suggestions []string) string {
	msg := fmt.Sprintf("No team found matching '%s'", query)
	if len(suggestions) > 0 {
		msg += "\n\nDid you mean:\n"
		for _, team := range suggestions {
			msg += fmt.Sprintf("• %s\n", team)
		}
	}
	return msg
}

// ambiguousPlayers lists the candidates for a name that matched more than one player
func ambiguousPlayers(state *models.LeagueState, name string, matches models.PlayerList) string {
	msg := fmt.Sprintf("Multiple players match '%s':\n", name)
	for i, p := range matches {
		if i == 10 {
			msg += fmt.Sprintf("...and %d more\n", len(matches)-10)
			break
		}
		msg += fmt.Sprintf("• %s (%s, %s) id `%s`\n", p.Name, p.Position, teamLabel(state, p.ID), p.ID)
	}
	return msg
}

func teamLabel(state *models.LeagueState, playerID string) string {
	if t, ok := state.TeamOf(playerID); ok {
		return t.ID
	}
	return "FA"
}
