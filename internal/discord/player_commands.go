package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
)

func (hm *HandlerManager) handlePlayer(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!player <name>`")
		return
	}
	name := strings.Join(args, " ")

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		matches := findPlayers(state, name)
		switch len(matches) {
		case 0:
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No player found matching '%s'", name))
		case 1:
			s.ChannelMessageSendEmbed(m.ChannelID, buildPlayerEmbed(state, matches[0]))
		default:
			s.ChannelMessageSend(m.ChannelID, ambiguousPlayers(state, name, matches))
		}
		return nil
	})
}

// buildPlayerEmbed creates a rich embed for player information
func buildPlayerEmbed(state *models.LeagueState, p *models.Player) *discordgo.MessageEmbed {
	teamName := "Free Agent"
	listName := ""
	if t, ok := state.TeamOf(p.ID); ok {
		teamName = fmt.Sprintf("%s (%s)", t.Name, t.ID)
		if l, ok := t.ListOf(p.ID); ok && l != models.ListActive {
			listName = string(l)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: p.Name,
		Color: getTeamColor(teamLabel(state, p.ID)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Position", Value: string(p.Position), Inline: true},
			{Name: "Age", Value: fmt.Sprintf("%d", p.Age), Inline: true},
			{Name: "Team", Value: teamName, Inline: true},
			{Name: "Overall", Value: fmt.Sprintf("%d", p.Overall), Inline: true},
			{Name: "Potential", Value: fmt.Sprintf("%d (%s)", p.Potential, p.PotentialTier), Inline: true},
		},
	}

	if listName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Status",
			Value:  strings.ToUpper(listName),
			Inline: true,
		})
	}

	if attrs := formatAttributes(p); attrs != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Attributes",
			Value: attrs,
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Season",
		Value: formatStatLine(p),
	})

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Contract",
		Value: buildContractInfo(state, p),
	})

	return embed
}

func formatAttributes(p *models.Player) string {
	keys := make([]string, 0, len(p.Attributes))
	for a := range p.Attributes {
		keys = append(keys, string(a))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, p.Attributes[models.Attribute(k)]))
	}
	return strings.Join(parts, " | ")
}

func formatStatLine(p *models.Player) string {
	if p.IsGoalie() {
		g := p.GoalieStats
		if g.GamesPlayed == 0 {
			return "No games played"
		}
		return fmt.Sprintf("%d GP, %d-%d-%d, %.2f GAA, %.3f SV%%, %d SO",
			g.GamesPlayed, g.Wins, g.Losses, g.OTLosses, g.GAA, g.SavePct, g.Shutouts)
	}
	st := p.Stats
	if st.GamesPlayed == 0 {
		return "No games played"
	}
	return fmt.Sprintf("%d GP, %d G, %d A, %d PTS, %+d, %d SOG",
		st.GamesPlayed, st.Goals, st.Assists, st.Points(), st.PlusMinus, st.Shots)
}

// buildContractInfo formats the player's contract information
func buildContractInfo(state *models.LeagueState, p *models.Player) string {
	c := state.ContractFor(p.ID)
	if c == nil {
		return "No contract information"
	}

	var parts []string
	for _, sc := range c.Seasons {
		marker := ""
		if sc.Season == state.Season.Label {
			marker = " (current)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s%s", sc.Season, salarycap.FormatMoney(sc.CapHit), marker))
	}

	var clauses []string
	if c.EntryLevel {
		clauses = append(clauses, "ELC")
	}
	if c.NoMovement {
		clauses = append(clauses, "NMC")
	}
	if c.NoTrade != nil {
		if c.NoTrade.Full {
			clauses = append(clauses, "Full NTC")
		} else {
			clauses = append(clauses, "NTC: "+strings.Join(c.NoTrade.BlockedTeams, ", "))
		}
	}
	if len(clauses) > 0 {
		parts = append(parts, strings.Join(clauses, " | "))
	}
	for _, note := range c.Notes {
		parts = append(parts, "• "+note)
	}

	return truncateField(strings.Join(parts, "\n"))
}

// getTeamColor returns a color for the team
func getTeamColor(team string) int {
	return 0x3498db
}

// handlePlayers looks up multiple players by name and displays their info
func (hm *HandlerManager) handlePlayers(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!players <player1>, <player2>, <player3>, ...`")
		return
	}

	playerNames := strings.Split(strings.Join(args, " "), ",")
	if len(playerNames) > 10 {
		s.ChannelMessageSend(m.ChannelID, "Please limit your search to 10 players at a time")
		return
	}

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		var embeds []*discordgo.MessageEmbed
		var notFound []string

		for _, name := range playerNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			matches := findPlayers(state, name)
			if len(matches) == 0 {
				notFound = append(notFound, name)
				continue
			}
			// For multiple matches take the best-rated one
			best := matches.TopByOverall(1)[0]
			embeds = append(embeds, buildCompactPlayerEmbed(state, best))
		}

		if len(notFound) > 0 {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Could not find: %s", strings.Join(notFound, ", ")))
		}

		for i := 0; i < len(embeds); i += 10 {
			end := i + 10
			if end > len(embeds) {
				end = len(embeds)
			}
			s.ChannelMessageSendEmbeds(m.ChannelID, embeds[i:end])
		}
		return nil
	})
}

// buildCompactPlayerEmbed creates a smaller embed for multiple player display
func buildCompactPlayerEmbed(state *models.LeagueState, p *models.Player) *discordgo.MessageEmbed {
	desc := []string{
		fmt.Sprintf("**%s** | Age %d | %s", p.Position, p.Age, teamLabel(state, p.ID)),
		fmt.Sprintf("OVR %d / POT %d", p.Overall, p.Potential),
		formatStatLine(p),
	}
	if c := state.ContractFor(p.ID); c != nil {
		desc = append(desc, fmt.Sprintf("Cap hit %s, %d seasons left",
			salarycap.FormatMoneyShort(salarycap.GetCapHitForSeason(c, state.Season.Label)),
			c.SeasonsRemaining(state.Season.Label)))
	}

	return &discordgo.MessageEmbed{
		Title:       p.Name,
		Color:       getTeamColor(teamLabel(state, p.ID)),
		Description: strings.Join(desc, "\n"),
	}
}
