package discord

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/cache"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/config"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/contracts"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/progression"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sheets"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sim"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/store"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

// Services are the stores and clients the commands read from and write to. Sheets and
// DB may be nil.
type Services struct {
	Cache     *cache.Cache
	Sheets    *sheets.Client
	Contracts *contracts.Client
	Games     *storage.GameLog
	Trades    *storage.TradeLog
	DB        *store.SQLiteDB
}

type HandlerManager struct {
	session  *discordgo.Session
	config   *config.Config
	logger   *logger.Logger
	services Services
	commands map[string]CommandHandler

	simulator   *sim.Simulator
	capEngine   *salarycap.Engine
	progression *progression.Engine
	limits      *userLimits
}

type CommandHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string)

func NewHandlerManager(
	session *discordgo.Session,
	config *config.Config,
	logger *logger.Logger,
	services Services,
) *HandlerManager {
	var src rng.Source = rng.Ambient()
	if config.SimSeed != nil {
		src = rng.New(*config.SimSeed)
	}

	hm := &HandlerManager{
		session:     session,
		config:      config,
		logger:      logger,
		services:    services,
		commands:    make(map[string]CommandHandler),
		simulator:   sim.New(sim.DefaultConfig(), src, logger),
		capEngine:   salarycap.NewEngine(salarycap.Policy{CapOverage: config.CapOverage}, logger),
		progression: progression.NewEngine(progression.DefaultConfig(), src, logger),
		limits:      newUserLimits(config.SimRatePerMinute),
	}

	hm.registerCommands()

	return hm
}

func (hm *HandlerManager) RegisterHandlers() {
	hm.session.AddHandler(hm.messageCreate)
}

func (hm *HandlerManager) registerCommands() {
	hm.commands["help"] = hm.handleHelp
	hm.commands["reload"] = hm.handleReload
	hm.commands["player"] = hm.handlePlayer
	hm.commands["players"] = hm.handlePlayers
	hm.commands["team"] = hm.handleTeam
	hm.commands["trade"] = hm.handleTrade
	hm.commands["trades"] = hm.handleTrades
	hm.commands["sim"] = hm.handleSim
	hm.commands["standings"] = hm.handleStandings
	hm.commands["games"] = hm.handleGames
	hm.commands["contract"] = hm.handleContract
	hm.commands["progress"] = hm.handleProgress
	hm.commands["snapshots"] = hm.handleSnapshots
}

func (hm *HandlerManager) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, hm.config.CommandPrefix) {
		return
	}

	content := strings.TrimPrefix(m.Content, hm.config.CommandPrefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, exists := hm.commands[command]; exists {
		hm.logger.Debugf("%s ran %s %v", m.Author.Username, command, args)
		handler(s, m, args)
	}
}

func (hm *HandlerManager) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	helpMessage := `**Puck Powerhouse Bot Commands:**
` + "```" + `
!help                 - Show this help message
!reload [sheets]      - Reload the league (from Google Sheets with "sheets")
!player <name>        - Look up a player
!players <a>, <b>     - Look up multiple players
!team <id|name>       - Show roster and cap picture
  Use --list=ir|ltir|nonroster or --pos=F|D|G to filter
!trade <pieces> for <pieces> - Preview a trade
  Examples:
    !trade Marner for Pastrnak
    !trade Marner (retain 25%), pick TOR-2026-R1 for Pastrnak
    !trade TOR: pick TOR-2026-R2 for BOS: McAvoy
  Start with "commit" to apply it (owners of the sending team only)
!trades [team]        - Show committed trades
!sim <home> vs <away> - Simulate a game (preview)
  Use --seed=N to replay, --commit to record it (team owners only)
!standings            - Show the standings
!games [team]         - Show committed games
!contract <name>      - Show a player's contract
!contract import <name> | <url> - Import a contract page
!progress [--team=TOR] [--seed=N] [--commit] - Run season development
!snapshots            - List saved league snapshots
` + "```"

	s.ChannelMessageSend(m.ChannelID, helpMessage)
}

func (hm *HandlerManager) handleReload(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) > 0 && strings.EqualFold(args[0], "sheets") {
		hm.reloadFromSheets(s, m)
		return
	}

	hm.services.Cache.Flush()
	err := hm.services.Cache.With(func(state *models.LeagueState) error { return nil })
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Failed to reload data: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Data reloaded successfully!")
}

// reloadFromSheets replaces the league with a fresh import and persists it. It discards
// committed games and trades since the last import, so only owners may run it.
func (hm *HandlerManager) reloadFromSheets(s *discordgo.Session, m *discordgo.MessageCreate) {
	if hm.services.Sheets == nil {
		s.ChannelMessageSend(m.ChannelID, "GOOGLE_SHEETS_ID is not configured")
		return
	}
	if len(hm.config.TeamOwners.GetTeamsForOwner(m.Author.Username)) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Only team owners can re-import the league")
		return
	}

	state, err := hm.services.Sheets.LoadLeague(models.DefaultSeasonInfo(hm.config.Season))
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Failed to import from Google Sheets: "+err.Error())
		return
	}
	if err := hm.persist(state, "import from sheets"); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Imported, but failed to save: "+err.Error())
	}
	hm.services.Cache.SetLeague(state)

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Imported %d teams and %d players from Google Sheets",
		len(state.Teams), len(state.Players)))
}

// withLeague runs fn against the cached league and reports load failures to the channel
func (hm *HandlerManager) withLeague(s *discordgo.Session, m *discordgo.MessageCreate, fn func(state *models.LeagueState) error) {
	if err := hm.services.Cache.With(fn); err != nil {
		hm.logger.Errorf("command from %s failed: %v", m.Author.Username, err)
		s.ChannelMessageSend(m.ChannelID, "Error: "+err.Error())
	}
}

// persist writes the league file and, when a database is configured, a snapshot
func (hm *HandlerManager) persist(state *models.LeagueState, label string) error {
	if err := models.SaveLeagueFile(hm.config.LeagueFile, state); err != nil {
		return fmt.Errorf("failed to save league file: %w", err)
	}
	if hm.services.DB != nil {
		snap, err := hm.services.DB.SaveSnapshot(state, label)
		if err != nil {
			return err
		}
		hm.logger.Infof("Saved snapshot %s (%s)", snap.ID, label)
	}
	return nil
}

func (hm *HandlerManager) handleSnapshots(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if hm.services.DB == nil {
		s.ChannelMessageSend(m.ChannelID, "No snapshot database is configured")
		return
	}

	snaps, err := hm.services.DB.ListSnapshots(hm.config.Season, 10)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Error: "+err.Error())
		return
	}
	if len(snaps) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No snapshots saved for "+hm.config.Season)
		return
	}

	var sb strings.Builder
	sb.WriteString("```\n")
	for _, snap := range snaps {
		sb.WriteString(fmt.Sprintf("%s  %-8s  %s\n",
			snap.CreatedAt.Format("2006-01-02 15:04"), snap.ID[:8], snap.Label))
	}
	sb.WriteString("```")
	s.ChannelMessageSend(m.ChannelID, sb.String())
}

// userLimits hands each Discord user their own token bucket for expensive commands
type userLimits struct {
	mu       sync.Mutex
	perMin   float64
	limiters map[string]*rate.Limiter
}

func newUserLimits(perMinute float64) *userLimits {
	if perMinute <= 0 {
		perMinute = 6
	}
	return &userLimits{
		perMin:   perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (u *userLimits) Allow(userID string) bool {
	u.mu.Lock()
	l, ok := u.limiters[userID]
	if !ok {
		burst := int(u.perMin)
		if burst < 1 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(u.perMin/60), burst)
		u.limiters[userID] = l
	}
	u.mu.Unlock()
	return l.Allow()
}
