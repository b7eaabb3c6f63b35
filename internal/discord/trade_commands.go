package discord

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
)

var forSeparator = regexp.MustCompile(`(?i)\s+for\s+`)

// handleTrade previews a trade between two teams, or applies it with "commit"
func (hm *HandlerManager) handleTrade(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		helpMsg := "Usage: `!trade [commit] <pieces> for <pieces>`\n" +
			"Example: `!trade Mitch Marner, pick TOR-2026-R1 for David Pastrnak`\n" +
			"With retention: `!trade Marner (retain 25%) for Pastrnak`\n" +
			"Name the team for a side with no pieces: `!trade Marner for BOS:`"
		s.ChannelMessageSend(m.ChannelID, helpMsg)
		return
	}

	commit := false
	if strings.EqualFold(args[0], "commit") {
		commit = true
		args = args[1:]
	}

	left, right, err := parseTrade(strings.Join(args, " "))
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}

	hm.withLeague(s, m, func(state *models.LeagueState) error {
		proposal, problems := resolveTrade(state, left, right)
		if len(problems) > 0 {
			s.ChannelMessageSend(m.ChannelID, "**Could not build the trade:**\n• "+strings.Join(problems, "\n• "))
			return nil
		}

		if commit {
			hm.commitTrade(s, m, state, proposal)
			return nil
		}

		preview, err := hm.capEngine.PreviewTrade(state, proposal)
		if err != nil {
			if errors.Is(err, salarycap.ErrMalformedProposal) {
				s.ChannelMessageSend(m.ChannelID, err.Error())
				return nil
			}
			return err
		}
		s.ChannelMessageSendEmbed(m.ChannelID, buildTradeEmbed(state, proposal, preview))
		return nil
	})
}

func (hm *HandlerManager) commitTrade(s *discordgo.Session, m *discordgo.MessageCreate, state *models.LeagueState, p models.TradeProposal) {
	if !hm.config.TeamOwners.IsTeamOwner(p.FromTeamID, m.Author.Username) {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Only owners of %s can commit this trade", p.FromTeamID))
		return
	}

	// Summarise before the pieces move so names resolve against the sending teams
	summary := describeTrade(state, p)

	v, err := hm.capEngine.ApplyTrade(state, p)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Trade rejected: "+err.Error())
		return
	}
	if !v.OK {
		s.ChannelMessageSend(m.ChannelID, "**Trade rejected:**\n• "+strings.Join(v.Errors, "\n• "))
		return
	}

	record := &storage.TradeRecord{
		Season:      state.Season.Label,
		FromTeamID:  p.FromTeamID,
		ToTeamID:    p.ToTeamID,
		Summary:     summary,
		CommittedBy: m.Author.Username,
	}
	if err := hm.services.Trades.AddTrade(record); err != nil {
		hm.logger.Errorf("Failed to log trade: %v", err)
	}
	if err := hm.persist(state, "trade "+p.FromTeamID+"-"+p.ToTeamID); err != nil {
		hm.logger.Errorf("Failed to save league after trade: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Trade applied, but saving failed: "+err.Error())
		return
	}

	msg := "✅ **Trade completed:** " + summary
	if len(v.Warnings) > 0 {
		msg += "\n⚠️ " + strings.Join(v.Warnings, "\n⚠️ ")
	}
	s.ChannelMessageSend(m.ChannelID, msg)
}

// tradeEntry is one piece as typed: a player name with optional retention, or a pick id
type tradeEntry struct {
	Name      string
	Retention float64 // Share kept, 0.25 = 25%
	PickID    string
}

// tradeSide is one side of a typed trade. TeamID is set when the user named the team.
type tradeSide struct {
	TeamID  string
	Entries []tradeEntry
}

// parseTrade splits "<side> for <side>" and parses both sides
func parseTrade(input string) (tradeSide, tradeSide, error) {
	parts := forSeparator.Split(strings.TrimSpace(input), -1)
	if len(parts) != 2 {
		return tradeSide{}, tradeSide{}, fmt.Errorf("invalid format. Use: `!trade <pieces> for <pieces>`")
	}
	left, err := parseTradeSide(parts[0])
	if err != nil {
		return tradeSide{}, tradeSide{}, err
	}
	right, err := parseTradeSide(parts[1])
	if err != nil {
		return tradeSide{}, tradeSide{}, err
	}
	if len(left.Entries) == 0 && len(right.Entries) == 0 {
		return tradeSide{}, tradeSide{}, fmt.Errorf("please specify at least one piece in the trade")
	}
	return left, right, nil
}

// parseTradeSide reads an optional "TEAM:" prefix followed by comma-separated pieces
func parseTradeSide(input string) (tradeSide, error) {
	var side tradeSide
	input = strings.TrimSpace(input)

	if before, after, found := strings.Cut(input, ":"); found {
		team := strings.TrimSpace(before)
		if team == "" || strings.ContainsAny(team, " ,") {
			return side, fmt.Errorf("invalid team prefix %q", before)
		}
		side.TeamID = strings.ToUpper(team)
		input = after
	}

	for _, raw := range strings.Split(input, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		lower := strings.ToLower(entry)
		if strings.HasPrefix(lower, "pick ") {
			side.Entries = append(side.Entries, tradeEntry{PickID: strings.ToUpper(strings.TrimSpace(entry[5:]))})
			continue
		}

		te := tradeEntry{Name: entry}
		if idx := strings.Index(lower, "(retain"); idx >= 0 {
			te.Name = strings.TrimSpace(entry[:idx])
			var percent float64
			n, _ := fmt.Sscanf(lower[idx:], "(retain %f%%)", &percent)
			if n != 1 || percent <= 0 || percent > 100 {
				return side, fmt.Errorf("invalid retention for %s: use `(retain 25%%)`", te.Name)
			}
			te.Retention = percent / 100
		}
		if te.Name == "" {
			return side, fmt.Errorf("missing player name before %q", entry)
		}
		side.Entries = append(side.Entries, te)
	}
	return side, nil
}

// resolveTrade turns typed sides into a proposal. Problems are user-facing reasons the
// proposal could not be built.
func resolveTrade(state *models.LeagueState, left, right tradeSide) (models.TradeProposal, []string) {
	fromID, fromPieces, problems := resolveSide(state, left)
	toID, toPieces, more := resolveSide(state, right)
	problems = append(problems, more...)

	if len(problems) == 0 && fromID == toID {
		problems = append(problems, fmt.Sprintf("both sides belong to %s", fromID))
	}
	return models.TradeProposal{
		FromTeamID: fromID,
		ToTeamID:   toID,
		FromPieces: fromPieces,
		ToPieces:   toPieces,
	}, problems
}

func resolveSide(state *models.LeagueState, side tradeSide) (string, []models.TradePiece, []string) {
	teamID := side.TeamID
	var problems []string
	if teamID != "" {
		if _, ok := state.Teams[teamID]; !ok {
			return "", nil, []string{fmt.Sprintf("unknown team %s", teamID)}
		}
	}
	if len(side.Entries) == 0 && teamID == "" {
		return "", nil, []string{"name the team for a side with no pieces, e.g. `BOS:`"}
	}

	claim := func(holder, what string) bool {
		if teamID == "" {
			teamID = holder
			return true
		}
		if holder != teamID {
			problems = append(problems, fmt.Sprintf("%s belongs to %s, not %s", what, holder, teamID))
			return false
		}
		return true
	}

	var pieces []models.TradePiece
	for _, e := range side.Entries {
		if e.PickID != "" {
			holder := pickHolder(state, e.PickID)
			if holder == "" {
				problems = append(problems, fmt.Sprintf("no team holds pick %s", e.PickID))
				continue
			}
			if claim(holder, "pick "+e.PickID) {
				pieces = append(pieces, models.TradePiece{DraftPickID: e.PickID})
			}
			continue
		}

		matches := findPlayers(state, e.Name)
		if teamID != "" && len(matches) > 1 {
			matches = onTeam(state, matches, teamID)
		}
		switch {
		case len(matches) == 0:
			problems = append(problems, fmt.Sprintf("%s not found", e.Name))
			continue
		case len(matches) > 1:
			problems = append(problems, fmt.Sprintf("%s matches %d players - use a team prefix or the player id", e.Name, len(matches)))
			continue
		}

		p := matches[0]
		holder, ok := state.TeamOf(p.ID)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s is not on a team", p.Name))
			continue
		}
		if claim(holder.ID, p.Name) {
			pieces = append(pieces, models.TradePiece{PlayerID: p.ID, Retention: e.Retention})
		}
	}
	return teamID, pieces, problems
}

func onTeam(state *models.LeagueState, players models.PlayerList, teamID string) models.PlayerList {
	var out models.PlayerList
	for _, p := range players {
		if t, ok := state.TeamOf(p.ID); ok && t.ID == teamID {
			out = append(out, p)
		}
	}
	return out
}

func pickHolder(state *models.LeagueState, pickID string) string {
	for _, id := range state.TeamIDs() {
		if state.Teams[id].DraftPickIndex(pickID) >= 0 {
			return id
		}
	}
	return ""
}

// describeTrade renders the proposal in the same shape users type it
func describeTrade(state *models.LeagueState, p models.TradeProposal) string {
	return fmt.Sprintf("%s: %s for %s: %s",
		p.FromTeamID, describePieces(state, p.FromPieces),
		p.ToTeamID, describePieces(state, p.ToPieces))
}

func describePieces(state *models.LeagueState, pieces []models.TradePiece) string {
	if len(pieces) == 0 {
		return "nothing"
	}
	parts := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece.IsDraftPick() {
			parts = append(parts, "pick "+piece.DraftPickID)
			continue
		}
		name := piece.PlayerID
		if p, ok := state.Players[piece.PlayerID]; ok {
			name = p.Name
		}
		if piece.Retention > 0 {
			name += fmt.Sprintf(" (retain %.0f%%)", piece.ClampedRetention()*100)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

// buildTradeEmbed shows both sides of the trade with the cap impact and rule check
func buildTradeEmbed(state *models.LeagueState, p models.TradeProposal, preview *salarycap.Preview) *discordgo.MessageEmbed {
	v := preview.Validation
	color := 0x2ecc71
	status := "✅ Trade is legal"
	if !v.OK {
		color = 0xe74c3c
		status = "❌ Trade breaks league rules"
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Trade Preview: %s ↔ %s", p.FromTeamID, p.ToTeamID),
		Color:       color,
		Description: status,
	}

	sides := []struct {
		teamID string
		pieces []models.TradePiece
		side   salarycap.SidePreview
	}{
		{p.FromTeamID, p.FromPieces, preview.From},
		{p.ToTeamID, p.ToPieces, preview.To},
	}
	for _, sd := range sides {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   sd.teamID + " sends",
			Value:  truncateField(formatPieceLines(state, sd.pieces)),
			Inline: false,
		})
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   sd.teamID + " cap",
			Value:  formatSidePreview(sd.side),
			Inline: true,
		})
	}

	if len(v.Errors) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Problems",
			Value: truncateField("• " + strings.Join(v.Errors, "\n• ")),
		})
	}
	if len(v.Warnings) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Warnings",
			Value: truncateField("• " + strings.Join(v.Warnings, "\n• ")),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Preview only. Use !trade commit ... to apply.",
	}
	return embed
}

func formatPieceLines(state *models.LeagueState, pieces []models.TradePiece) string {
	if len(pieces) == 0 {
		return "Nothing"
	}
	var sb strings.Builder
	for _, piece := range pieces {
		if piece.IsDraftPick() {
			sb.WriteString(fmt.Sprintf("• Pick %s\n", piece.DraftPickID))
			continue
		}
		p, ok := state.Players[piece.PlayerID]
		if !ok {
			continue
		}
		line := fmt.Sprintf("• **%s** (%s, %d OVR)", p.Name, p.Position, p.Overall)
		if c := state.ContractFor(p.ID); c != nil {
			hit := salarycap.GetCapHitForSeason(c, state.Season.Label)
			line += " " + salarycap.FormatMoneyShort(hit)
			if piece.Retention > 0 {
				line += fmt.Sprintf(", %.0f%% retained (%s off the sender's cap)", piece.ClampedRetention()*100,
					salarycap.FormatMoneyShort(piece.RetainedSalary(hit)))
			}
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func formatSidePreview(sp salarycap.SidePreview) string {
	return fmt.Sprintf("%s → %s (%s)\nSpace %s\nRoster %d → %d",
		salarycap.FormatMoneyShort(sp.Before.CapUsed),
		salarycap.FormatMoneyShort(sp.After.CapUsed),
		sp.CapDelta(),
		salarycap.FormatMoneyShort(sp.After.CapSpace),
		sp.Before.RosterSize, sp.After.RosterSize)
}

// handleTrades lists committed trades, optionally for one team
func (hm *HandlerManager) handleTrades(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	var (
		trades []storage.TradeRecord
		err    error
	)
	if len(args) > 0 {
		trades, err = hm.services.Trades.GetTradesForTeam(args[0])
	} else {
		trades, err = hm.services.Trades.GetTrades()
	}
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Failed to read trade log: "+err.Error())
		return
	}
	if len(trades) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No trades committed yet")
		return
	}

	if len(trades) > 15 {
		trades = trades[len(trades)-15:]
	}
	var sb strings.Builder
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		sb.WriteString(fmt.Sprintf("**%s** %s (by %s)\n",
			t.CommittedAt.Format("Jan 2"), t.Summary, t.CommittedBy))
	}
	s.ChannelMessageSend(m.ChannelID, sb.String())
}
