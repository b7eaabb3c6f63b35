package bot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/cache"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/config"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/contracts"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/discord"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sheets"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/store"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

type Bot struct {
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	dataCache    *cache.Cache
	sheetsClient *sheets.Client
	db           *store.SQLiteDB
	games        *storage.GameLog
	trades       *storage.TradeLog
	handlers     *discord.HandlerManager

	done       chan struct{}
	seenGames  map[string]bool
	seenTrades map[string]bool
}

func New(cfg *config.Config, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents - we need these for DMs and message content
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	var sheetsClient *sheets.Client
	if cfg.GoogleSheetsID != "" {
		sheetsClient, err = sheets.NewClient(cfg.GoogleSheetsID, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
	}

	games, err := storage.NewGameLog(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open game log: %w", err)
	}
	trades, err := storage.NewTradeLog(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	var db *store.SQLiteDB
	if cfg.DatabasePath != "" {
		db, err = openStore(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
	}

	b := &Bot{
		session:      session,
		config:       cfg,
		logger:       log,
		sheetsClient: sheetsClient,
		db:           db,
		games:        games,
		trades:       trades,
		done:         make(chan struct{}),
	}
	b.dataCache = cache.New(cfg.CacheDuration, b.loadLeague)

	b.handlers = discord.NewHandlerManager(b.session, cfg, log, discord.Services{
		Cache:     b.dataCache,
		Sheets:    sheetsClient,
		Contracts: contracts.NewClient(log),
		Games:     games,
		Trades:    trades,
		DB:        db,
	})

	return b, nil
}

func openStore(path string) (*store.SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// loadLeague reads the league file, falling back to the newest snapshot and then to a
// fresh Google Sheets import
func (b *Bot) loadLeague() (*models.LeagueState, error) {
	if _, err := os.Stat(b.config.LeagueFile); err == nil {
		b.logger.Infof("Loading league from %s", b.config.LeagueFile)
		return models.LoadLeagueFile(b.config.LeagueFile)
	}

	if b.db != nil {
		state, snap, err := b.db.LatestSnapshot()
		switch {
		case err == nil:
			b.logger.Infof("Loading league from snapshot %s (%s)", snap.ID, snap.Label)
			return state, nil
		case !errors.Is(err, store.ErrSnapshotNotFound):
			return nil, err
		}
	}

	if b.sheetsClient != nil {
		b.logger.Info("Importing league from Google Sheets...")
		state, err := b.sheetsClient.LoadLeague(models.DefaultSeasonInfo(b.config.Season))
		if err != nil {
			return nil, err
		}
		if err := models.SaveLeagueFile(b.config.LeagueFile, state); err != nil {
			b.logger.Warnf("Failed to save imported league: %v", err)
		}
		return state, nil
	}

	return nil, fmt.Errorf("no league found: %s does not exist and GOOGLE_SHEETS_ID is not set", b.config.LeagueFile)
}

func (b *Bot) Start() error {
	b.handlers.RegisterHandlers()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if err := b.dataCache.With(func(state *models.LeagueState) error {
		b.logger.Infof("League loaded: %d teams, %d players", len(state.Teams), len(state.Players))
		return nil
	}); err != nil {
		b.logger.Error("Failed to load initial league:", err)
	}

	if err := b.initializeSeen(); err != nil {
		b.logger.Errorf("Results monitor disabled: %v", err)
		return nil
	}
	b.startResultsMonitor()

	return nil
}

func (b *Bot) Stop() error {
	close(b.done)
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			b.logger.Errorf("Failed to close database: %v", err)
		}
	}
	return b.session.Close()
}
