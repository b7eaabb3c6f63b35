package discord

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sim"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
)

var (
	vsSeparator = regexp.MustCompile(`(?i)\s+vs\.?\s+`)
	atSeparator = regexp.MustCompile(`(?i)\s+(?:@|at)\s+`)
)

// simRequest is a parsed !sim command
type simRequest struct {
	Home     string
	Away     string
	Seed     *uint64
	Overtime *bool
	Commit   bool
}

// parseSimArgs reads "<home> vs <away>" or "<away> @ <home>" plus --seed, --ot and
// --commit
func parseSimArgs(args []string) (simRequest, error) {
	var req simRequest
	flags, rest := splitFlags(args)

	if v, ok := flags["seed"]; ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid seed %q", v)
		}
		req.Seed = &seed
	}
	if v, ok := flags["ot"]; ok {
		ot, err := parseYesNo(v)
		if err != nil {
			return req, fmt.Errorf("invalid --ot value %q (use yes or no)", v)
		}
		req.Overtime = &ot
	}
	if v, ok := flags["commit"]; ok {
		commit, err := parseYesNo(v)
		if err != nil {
			return req, fmt.Errorf("invalid --commit value %q", v)
		}
		req.Commit = commit
	}

	matchup := strings.Join(rest, " ")
	if parts := vsSeparator.Split(matchup, -1); len(parts) == 2 {
		req.Home, req.Away = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	} else if parts := atSeparator.Split(matchup, -1); len(parts) == 2 {
		req.Away, req.Home = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	if req.Home == "" || req.Away == "" {
		return req, fmt.Errorf("usage: `!sim <home> vs <away> [--seed=N] [--ot=no] [--commit]`")
	}
	return req, nil
}

func parseYesNo(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a yes/no value: %q", v)
}

// handleSim simulates a game; previews run on a copy, --commit plays it for real
func (hm *HandlerManager) handleSim(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	req, err := parseSimArgs(args)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}
	if !hm.limits.Allow(m.Author.ID) {
		s.ChannelMessageSend(m.ChannelID, "Slow down! Try another simulation in a few seconds.")
		return
	}

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		home, suggestions := findTeam(state, req.Home)
		if home == nil {
			s.ChannelMessageSend(m.ChannelID, teamNotFound(req.Home, suggestions))
			return nil
		}
		away, suggestions := findTeam(state, req.Away)
		if away == nil {
			s.ChannelMessageSend(m.ChannelID, teamNotFound(req.Away, suggestions))
			return nil
		}

		if req.Commit &&
			!hm.config.TeamOwners.IsTeamOwner(home.ID, m.Author.Username) &&
			!hm.config.TeamOwners.IsTeamOwner(away.ID, m.Author.Username) {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Only owners of %s or %s can commit this game", home.ID, away.ID))
			return nil
		}

		target := state
		if !req.Commit {
			clone, err := state.Clone()
			if err != nil {
				return err
			}
			target = clone
		}

		res, err := hm.simulator.SimulateGame(target, home.ID, away.ID, sim.Options{Overtime: req.Overtime, Seed: req.Seed})
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, "Simulation failed: "+err.Error())
			return nil
		}

		embed := buildGameEmbed(target, res, req.Commit)
		if req.Commit {
			record := storage.NewGameRecord(res, state.Season.Label, m.Author.Username, time.Now())
			if err := hm.services.Games.AddGames([]storage.GameRecord{record}); err != nil {
				hm.logger.Errorf("Failed to log game: %v", err)
			}
			label := fmt.Sprintf("sim %s vs %s", home.ID, away.ID)
			if err := hm.persist(state, label); err != nil {
				hm.logger.Errorf("Failed to save league after game: %v", err)
				s.ChannelMessageSend(m.ChannelID, "Game recorded, but saving failed: "+err.Error())
			}
		}
		s.ChannelMessageSendEmbed(m.ChannelID, embed)
		return nil
	})
}

// buildGameEmbed renders the box score
func buildGameEmbed(state *models.LeagueState, res *sim.GameResult, committed bool) *discordgo.MessageEmbed {
	box := res.BoxScore
	suffix := ""
	if res.WentToOT {
		suffix = " (OT)"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %d @ %s %d%s",
			box.Away.TeamID, res.AwayGoals, box.Home.TeamID, res.HomeGoals, suffix),
		Color: getTeamColor(res.Winner()),
	}
	if !committed {
		embed.Description = "*Preview: nothing was recorded*"
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: box.Away.TeamID, Value: formatTeamBox(state, box.Away), Inline: true},
		&discordgo.MessageEmbedField{Name: box.Home.TeamID, Value: formatTeamBox(state, box.Home), Inline: true},
	)

	if len(box.Goals) > 0 {
		var sb strings.Builder
		for _, g := range box.Goals {
			sb.WriteString(formatGoal(state, g) + "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Scoring",
			Value: truncateField(sb.String()),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Seed %d | replay with --seed=%d", box.Seed, box.Seed),
	}
	return embed
}

func formatTeamBox(state *models.LeagueState, tb sim.TeamBox) string {
	goalie := "-"
	if p, ok := state.Players[tb.Goalie.GoalieID]; ok {
		goalie = fmt.Sprintf("%s %d/%d", p.Name, tb.Goalie.Saves, tb.Goalie.ShotsFaced)
	}
	return fmt.Sprintf("Shots %d\nHits %d\nPP opps %d\nG: %s", tb.Shots, tb.Hits, tb.PPOpps, goalie)
}

func formatGoal(state *models.LeagueState, g sim.GoalEvent) string {
	scorer := "unknown"
	if p, ok := state.Players[g.ScorerID]; ok {
		scorer = p.Name
	}
	var assists []string
	for _, id := range g.AssistIDs {
		if p, ok := state.Players[id]; ok {
			assists = append(assists, p.Name)
		}
	}

	line := fmt.Sprintf("%s %s %s", formatMinute(g.Minute), g.TeamID, scorer)
	if len(assists) > 0 {
		line += " (" + strings.Join(assists, ", ") + ")"
	} else if g.ScorerID != "" {
		line += " (unassisted)"
	}
	if g.PowerPlay {
		line += " PPG"
	}
	if g.Overtime {
		line += " OT"
	}
	return line
}

func formatMinute(minute float64) string {
	total := int(minute * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// handleStandings shows the league table
func (hm *HandlerManager) handleStandings(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	hm.withLeague(s, m, func(state *models.LeagueState) error {
		rows := sim.Standings(state)
		if len(rows) == 0 {
			s.ChannelMessageSend(m.ChannelID, "No teams in the league")
			return nil
		}
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("**%s Standings**\n```\n%s```", state.Season.Label, formatStandings(rows)))
		return nil
	})
}

func formatStandings(rows []sim.StandingsRow) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-3s %-5s %3s %3s %3s %3s %4s %4s\n", "#", "Team", "GP", "W", "L", "OTL", "PTS", "DIFF"))
	for _, r := range rows {
		rec := r.Record
		sb.WriteString(fmt.Sprintf("%-3d %-5s %3d %3d %3d %3d %4d %+4d\n",
			r.Rank, r.TeamID, rec.GamesPlayed, rec.Wins, rec.Losses, rec.OTLosses, r.Points, rec.GoalDifferential()))
	}
	return sb.String()
}

// handleGames lists committed games for one team, or how many each team has logged
func (hm *HandlerManager) handleGames(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	games, err := hm.services.Games.GetAllGames()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Failed to read game log: "+err.Error())
		return
	}
	if len(games) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No games committed yet")
		return
	}
	byTeam := storage.GroupGamesByTeam(games)

	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "**Games logged**\n```\n"+formatGameCounts(byTeam)+"```")
		return
	}

	query := strings.Join(args, " ")
	hm.withLeague(s, m, func(state *models.LeagueState) error {
		team, suggestions := findTeam(state, query)
		if team == nil {
			s.ChannelMessageSend(m.ChannelID, teamNotFound(query, suggestions))
			return nil
		}
		teamGames := byTeam[team.ID]
		if len(teamGames) == 0 {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No games logged for %s", team.ID))
			return nil
		}
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("**%s: last games**\n```\n%s```",
			team.Name, formatTeamGames(team.ID, teamGames, 10)))
		return nil
	})
}

func formatGameCounts(byTeam map[string][]storage.GameRecord) string {
	ids := make([]string, 0, len(byTeam))
	for id := range byTeam {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("%-5s %3d\n", id, len(byTeam[id])))
	}
	return sb.String()
}

// formatTeamGames renders the team's newest n games, newest first, with the result from
// the team's side
func formatTeamGames(teamID string, games []storage.GameRecord, n int) string {
	sorted := append([]storage.GameRecord(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.After(sorted[j].PlayedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	var sb strings.Builder
	for _, g := range sorted {
		own, opp := g.HomeGoals, g.AwayGoals
		if g.AwayID == teamID {
			own, opp = opp, own
		}
		result := "W"
		switch {
		case own < opp && g.WentToOT:
			result = "OTL"
		case own < opp:
			result = "L"
		}
		score := fmt.Sprintf("%s %d @ %s %d", g.AwayID, g.AwayGoals, g.HomeID, g.HomeGoals)
		if g.WentToOT {
			score += " (OT)"
		}
		sb.WriteString(fmt.Sprintf("%s  %-22s %s\n", g.PlayedAt.Format("2006-01-02"), score, result))
	}
	return sb.String()
}

