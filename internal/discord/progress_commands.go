package discord

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/progression"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
)

// progressRequest is a parsed !progress command
type progressRequest struct {
	TeamID string
	Seed   *uint64
	Commit bool
}

func parseProgressArgs(args []string) (progressRequest, error) {
	var req progressRequest
	flags, rest := splitFlags(args)
	if len(rest) > 0 {
		return req, fmt.Errorf("usage: `!progress [--team=TOR] [--seed=N] [--commit]`")
	}

	req.TeamID = strings.ToUpper(flags["team"])
	if v, ok := flags["seed"]; ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid seed %q", v)
		}
		req.Seed = &seed
	}
	if v, ok := flags["commit"]; ok {
		commit, err := parseYesNo(v)
		if err != nil {
			return req, fmt.Errorf("invalid --commit value %q", v)
		}
		req.Commit = commit
	}
	if req.Commit && req.TeamID != "" {
		return req, fmt.Errorf("development is committed for the whole league; drop --team")
	}
	return req, nil
}

// handleProgress runs season-end development. Without --commit it runs on a copy.
func (hm *HandlerManager) handleProgress(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	req, err := parseProgressArgs(args)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}
	if req.Commit && len(hm.config.TeamOwners.GetTeamsForOwner(m.Author.Username)) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Only team owners can commit development")
		return
	}

	engine := hm.progression
	if req.Seed != nil {
		engine = progression.NewEngine(progression.DefaultConfig(), rng.New(*req.Seed), hm.logger)
	}

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		target := state
		if !req.Commit {
			clone, err := state.Clone()
			if err != nil {
				return err
			}
			target = clone
		}

		players := allPlayers(target)
		if req.TeamID != "" {
			team, ok := target.Teams[req.TeamID]
			if !ok {
				s.ChannelMessageSend(m.ChannelID, "Unknown team "+req.TeamID)
				return nil
			}
			players = players[:0]
			for _, id := range team.AllPlayerIDs() {
				players = append(players, target.Players[id])
			}
		}

		ctx := &progression.Context{Difficulty: hm.config.Difficulty, AdvanceAge: true}
		changes := engine.UpdatePlayerDevelopmentForSeason(players, progression.LinesFromPlayers(players), ctx)

		if req.Commit {
			if err := hm.persist(state, "progression "+state.Season.Label); err != nil {
				return err
			}
			hm.logger.Infof("%s committed development for %d players", m.Author.Username, len(changes))
		}

		s.ChannelMessageSendEmbed(m.ChannelID, buildProgressEmbed(changes, req))
		return nil
	})
}

// notableChanges orders changes by size of move, biggest first, and keeps the top n
func notableChanges(changes []progression.Change, n int) []progression.Change {
	sorted := append([]progression.Change(nil), changes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := abs(sorted[i].Delta), abs(sorted[j].Delta)
		if ai != aj {
			return ai > aj
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func buildProgressEmbed(changes []progression.Change, req progressRequest) *discordgo.MessageEmbed {
	up, down := 0, 0
	for _, c := range changes {
		switch {
		case c.Delta > 0:
			up++
		case c.Delta < 0:
			down++
		}
	}

	title := "Development Preview"
	if req.Commit {
		title = "Development Applied"
	}
	if req.TeamID != "" {
		title += " for " + req.TeamID
	}

	var sb strings.Builder
	for _, c := range notableChanges(changes, 15) {
		line := fmt.Sprintf("**%s** %d → %d (%+d)", c.Name, c.Before, c.After, c.Delta)
		if len(c.Notes) > 0 {
			line += " " + strings.Join(c.Notes, ", ")
		}
		sb.WriteString(line + "\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("Nobody to develop")
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Color:       0x9b59b6,
		Description: fmt.Sprintf("%d players: %d improved, %d declined", len(changes), up, down),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Biggest moves", Value: truncateField(sb.String())},
		},
	}
	if req.Seed != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Seed %d", *req.Seed)}
	}
	return embed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
