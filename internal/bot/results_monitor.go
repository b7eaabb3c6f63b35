package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
)

const (
	resultsCheckInterval = 1 * time.Minute
	gameChannelName      = "game-results"
	tradeChannelName     = "trades"
)

// startResultsMonitor starts the background process that announces committed games and
// trades in their league channels
func (b *Bot) startResultsMonitor() {
	go b.resultsMonitorLoop()
}

func (b *Bot) resultsMonitorLoop() {
	b.logger.Info("Starting results monitor")

	ticker := time.NewTicker(resultsCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.checkNewResults()
		case <-b.done:
			b.logger.Info("Stopping results monitor")
			return
		}
	}
}

// initializeSeen marks everything already logged as announced so a restart does not
// repost history
func (b *Bot) initializeSeen() error {
	gameIDs, err := b.games.GetGameIDs()
	if err != nil {
		return err
	}
	trades, err := b.trades.GetTrades()
	if err != nil {
		return err
	}

	b.seenGames = gameIDs
	b.seenTrades = make(map[string]bool, len(trades))
	for _, t := range trades {
		b.seenTrades[t.ID] = true
	}
	b.logger.Infof("Results monitor tracking %d games and %d trades", len(b.seenGames), len(b.seenTrades))
	return nil
}

// checkNewResults posts games and trades logged since the last check
func (b *Bot) checkNewResults() {
	games, err := b.games.GetAllGames()
	if err != nil {
		b.logger.Error("Failed to read game log:", err)
		return
	}
	trades, err := b.trades.GetTrades()
	if err != nil {
		b.logger.Error("Failed to read trade log:", err)
		return
	}

	posted := 0
	for _, g := range games {
		if b.seenGames[g.ID] {
			continue
		}
		b.seenGames[g.ID] = true
		b.post(gameChannelName, createGameEmbed(g))
		posted++
	}
	for _, t := range trades {
		if b.seenTrades[t.ID] {
			continue
		}
		b.seenTrades[t.ID] = true
		b.post(tradeChannelName, createTradeEmbed(t))
		posted++
	}

	if posted > 0 {
		b.logger.Info("Announced ", posted, " new results")
	}
}

func (b *Bot) post(channelName string, embed *discordgo.MessageEmbed) {
	channelID := b.findChannelByName(channelName)
	if channelID == "" {
		b.logger.Debug("Could not find channel:", channelName)
		return
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Error("Failed to post to", channelName, ":", err)
	}
}

func createGameEmbed(g storage.GameRecord) *discordgo.MessageEmbed {
	suffix := ""
	if g.WentToOT {
		suffix = " (OT)"
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %d @ %s %d%s", g.AwayID, g.AwayGoals, g.HomeID, g.HomeGoals, suffix),
		Description: fmt.Sprintf("Shots: %s %d, %s %d", g.AwayID, g.AwayShots, g.HomeID, g.HomeShots),
		Color:       0x3498db,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s | seed %d | by %s", g.Season, g.Seed, g.CommittedBy),
		},
		Timestamp: g.PlayedAt.Format(time.RFC3339),
	}
}

func createTradeEmbed(t storage.TradeRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Trade: %s ↔ %s", t.FromTeamID, t.ToTeamID),
		Description: t.Summary,
		Color:       0x2ecc71,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s | by %s", t.Season, t.CommittedBy),
		},
		Timestamp: t.CommittedAt.Format(time.RFC3339),
	}
}

// findChannelByName finds a channel ID by name
func (b *Bot) findChannelByName(channelName string) string {
	for _, guild := range b.session.State.Guilds {
		channels, err := b.session.GuildChannels(guild.ID)
		if err != nil {
			continue
		}

		for _, channel := range channels {
			if channel.Name == channelName && channel.Type == discordgo.ChannelTypeGuildText {
				return channel.ID
			}
		}
	}
	return ""
}
