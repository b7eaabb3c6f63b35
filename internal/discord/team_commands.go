package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
)

// TeamFilters represents filtering options for team roster
type TeamFilters struct {
	List     models.RosterList // Empty means the active roster
	Position string            // F, D or G
}

func parseTeamFilters(flags map[string]string) (TeamFilters, error) {
	var filters TeamFilters
	if v, ok := flags["list"]; ok {
		switch strings.ToLower(v) {
		case "active":
			filters.List = models.ListActive
		case "ir":
			filters.List = models.ListIR
		case "ltir":
			filters.List = models.ListLTIR
		case "nonroster", "non-roster", "minors":
			filters.List = models.ListNonRoster
		default:
			return filters, fmt.Errorf("unknown list %q (use active, ir, ltir or nonroster)", v)
		}
	}
	if v, ok := flags["pos"]; ok {
		filters.Position = strings.ToUpper(v)
	} else if v, ok := flags["position"]; ok {
		filters.Position = strings.ToUpper(v)
	}
	switch filters.Position {
	case "", "F", "D", "G":
	default:
		return filters, fmt.Errorf("unknown position group %q (use F, D or G)", filters.Position)
	}
	return filters, nil
}

// handleTeam displays the roster and cap picture for a team
func (hm *HandlerManager) handleTeam(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	flags, rest := splitFlags(args)
	if len(rest) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!team <id|name> [--list=<active|ir|ltir|nonroster>] [--pos=<F|D|G>]`")
		return
	}
	filters, err := parseTeamFilters(flags)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}
	query := strings.Join(rest, " ")

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		team, suggestions := findTeam(state, query)
		if team == nil {
			s.ChannelMessageSend(m.ChannelID, teamNotFound(query, suggestions))
			return nil
		}

		embed, err := buildTeamRosterEmbed(state, team, filters)
		if err != nil {
			return err
		}
		s.ChannelMessageSendEmbed(m.ChannelID, embed)
		return nil
	})
}

// buildTeamRosterEmbed creates a rich embed for team roster
func buildTeamRosterEmbed(state *models.LeagueState, team *models.Team, filters TeamFilters) (*discordgo.MessageEmbed, error) {
	list := filters.List
	if list == "" {
		list = models.ListActive
	}
	players, err := state.RosterPlayers(team, list)
	if err != nil {
		return nil, err
	}
	summary, err := salarycap.Summarize(state, team.ID)
	if err != nil {
		return nil, err
	}
	limits := salarycap.LimitsFor(state)

	r := team.Record
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%s)", team.Name, team.ID),
		Color: getTeamColor(team.ID),
		Description: fmt.Sprintf("**%d-%d-%d, %d pts** | GF %d GA %d",
			r.Wins, r.Losses, r.OTLosses, r.Points(), r.GoalsFor, r.GoalsAgainst),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Cap Used", Value: salarycap.FormatMoney(summary.CapUsed), Inline: true},
			{Name: "Cap Space", Value: salarycap.FormatMoney(summary.CapSpace), Inline: true},
			{Name: "Roster", Value: fmt.Sprintf("%d/%d", summary.RosterSize, limits.MaxRoster), Inline: true},
			{Name: "Contracts", Value: fmt.Sprintf("%d/%d", summary.SPCCount, limits.MaxSPCs), Inline: true},
			{Name: "Retained", Value: fmt.Sprintf("%d/%d", summary.RetainedSlots, limits.MaxRetained), Inline: true},
		},
	}

	groups := []struct {
		key     string
		name    string
		players models.PlayerList
	}{
		{"F", "Forwards", players.Forwards()},
		{"D", "Defense", players.Defensemen()},
		{"G", "Goalies", players.Goalies()},
	}
	for _, g := range groups {
		if filters.Position != "" && filters.Position != g.key {
			continue
		}
		if len(g.players) == 0 {
			continue
		}
		sorted := g.players.TopByOverall(len(g.players))

		var sb strings.Builder
		for _, p := range sorted {
			line := fmt.Sprintf("**%s** %s %d", p.Name, p.Position, p.Overall)
			if c := state.ContractFor(p.ID); c != nil {
				line += " - " + salarycap.FormatMoneyShort(salarycap.GetCapHitForSeason(c, state.Season.Label))
			}
			sb.WriteString(line + "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", g.name, len(g.players)),
			Value:  truncateField(sb.String()),
			Inline: false,
		})
	}

	if len(team.DraftPicks) > 0 {
		var picks []string
		for _, p := range team.DraftPicks {
			picks = append(picks, p.ID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Draft Picks",
			Value: truncateField(strings.Join(picks, ", ")),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s | %s list | Ceiling %s", state.Season.Label, list,
			salarycap.FormatMoney(salarycap.ProratedCeiling(state))),
	}
	return embed, nil
}

// truncateField keeps a value inside Discord's 1024 character field limit
func truncateField(v string) string {
	const limit = 1024
	if len(v) <= limit {
		return v
	}
	cut := strings.LastIndex(v[:limit-4], "\n")
	if cut < 0 {
		cut = limit - 4
	}
	return v[:cut] + "\n..."
}
