package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/contracts"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
)

// handleContract shows a player's contract, or imports one from a contract page
func (hm *HandlerManager) handleContract(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!contract <player name>` or `!contract import <player name> | <url>`")
		return
	}

	if strings.EqualFold(args[0], "import") {
		hm.importContract(s, m, strings.Join(args[1:], " "))
		return
	}

	name := strings.Join(args, " ")
	hm.withLeague(s, m, func(state *models.LeagueState) error {
		matches := findPlayers(state, name)
		switch len(matches) {
		case 0:
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No player found matching '%s'", name))
		case 1:
			s.ChannelMessageSendEmbed(m.ChannelID, buildContractEmbed(state, matches[0]))
		default:
			s.ChannelMessageSend(m.ChannelID, ambiguousPlayers(state, name, matches))
		}
		return nil
	})
}

// parseImportArgs splits "<player name> | <url>"
func parseImportArgs(input string) (name, pageURL string, err error) {
	name, pageURL, found := strings.Cut(input, "|")
	name, pageURL = strings.TrimSpace(name), strings.TrimSpace(pageURL)
	if !found || name == "" || pageURL == "" {
		return "", "", fmt.Errorf("usage: `!contract import <player name> | <url>`")
	}
	return name, pageURL, nil
}

func (hm *HandlerManager) importContract(s *discordgo.Session, m *discordgo.MessageCreate, input string) {
	name, pageURL, err := parseImportArgs(input)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}

	// Fetch before taking the league so a slow page does not block other commands
	s.ChannelTyping(m.ChannelID)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	page, err := hm.services.Contracts.FetchContract(ctx, pageURL)
	if err != nil {
		hm.logger.Errorf("Contract fetch failed for %s: %v", pageURL, err)
		s.ChannelMessageSend(m.ChannelID, "Error fetching contract page: "+err.Error())
		return
	}

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		matches := findPlayers(state, name)
		if len(matches) != 1 {
			if len(matches) == 0 {
				s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No player found matching '%s'", name))
			} else {
				s.ChannelMessageSend(m.ChannelID, ambiguousPlayers(state, name, matches))
			}
			return nil
		}
		p := matches[0]

		if !hm.canEditPlayer(state, p.ID, m.Author.Username) {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Only owners of %s can change %s's contract", teamLabel(state, p.ID), p.Name))
			return nil
		}

		c, err := applyContractPage(state, p, page)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, "Import failed: "+err.Error())
			return nil
		}
		if err := hm.persist(state, "contract "+p.ID); err != nil {
			return err
		}

		msg := fmt.Sprintf("Imported %d-season contract for %s", len(c.Seasons), p.Name)
		if page.PlayerName != "" && models.NormalizeName(page.PlayerName) != models.NormalizeName(p.Name) {
			msg += fmt.Sprintf("\n⚠️ The page is for %s", page.PlayerName)
		}
		s.ChannelMessageSend(m.ChannelID, msg)
		s.ChannelMessageSendEmbed(m.ChannelID, buildContractEmbed(state, p))
		return nil
	})
}

// canEditPlayer reports whether the user owns the player's team. Free agents can be
// edited by any owner.
func (hm *HandlerManager) canEditPlayer(state *models.LeagueState, playerID, username string) bool {
	if t, ok := state.TeamOf(playerID); ok {
		return hm.config.TeamOwners.IsTeamOwner(t.ID, username)
	}
	return len(hm.config.TeamOwners.GetTeamsForOwner(username)) > 0
}

// applyContractPage replaces the player's contract with the one on the page, keeping
// the existing contract id so retained-salary records still point at it
func applyContractPage(state *models.LeagueState, p *models.Player, page *contracts.ContractPage) (*models.Contract, error) {
	c, err := page.ToContract(p.ID)
	if err != nil {
		return nil, err
	}
	if p.ContractID != "" {
		c.ID = p.ContractID
	}
	state.Contracts[c.ID] = c
	p.ContractID = c.ID
	return c, nil
}

func buildContractEmbed(state *models.LeagueState, p *models.Player) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: p.Name + " Contract",
		Color: getTeamColor(teamLabel(state, p.ID)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team", Value: teamLabel(state, p.ID), Inline: true},
			{Name: "Position", Value: string(p.Position), Inline: true},
			{Name: "Age", Value: fmt.Sprintf("%d", p.Age), Inline: true},
		},
	}

	c := state.ContractFor(p.ID)
	if c == nil {
		embed.Description = "No contract on file"
		return embed
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "Current Cap Hit",
			Value:  salarycap.FormatMoney(salarycap.GetCapHitForSeason(c, state.Season.Label)),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   "Seasons Left",
			Value:  fmt.Sprintf("%d", c.SeasonsRemaining(state.Season.Label)),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:  "Details",
			Value: buildContractInfo(state, p),
		},
	)

	for _, id := range state.TeamIDs() {
		for _, r := range state.Teams[id].RetainedSalaries {
			if r.PlayerID == p.ID && r.RemainingSeasons > 0 {
				embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
					Name: "Retained",
					Value: fmt.Sprintf("%s keeps %.0f%% (%s) for %d more season(s)",
						id, r.Percent*100, salarycap.FormatMoney(r.CapHitSavings), r.RemainingSeasons),
				})
			}
		}
	}
	return embed
}
