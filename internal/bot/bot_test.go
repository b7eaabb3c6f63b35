package bot

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/config"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/leaguetest"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

func testBot(t *testing.T) *Bot {
	t.Helper()
	dir := t.TempDir()
	return &Bot{
		config: &config.Config{
			Season:     leaguetest.Season,
			LeagueFile: filepath.Join(dir, "league.json"),
		},
		logger: logger.New("error"),
	}
}

func TestLoadLeagueWithoutSource(t *testing.T) {
	b := testBot(t)
	if _, err := b.loadLeague(); err == nil || !strings.Contains(err.Error(), "no league found") {
		t.Fatalf("err = %v, want a missing league error", err)
	}
}

func TestLoadLeagueFallsBackToSnapshot(t *testing.T) {
	b := testBot(t)
	db, err := openStore(filepath.Join(t.TempDir(), "db", "league.db"))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer db.Close()
	b.db = db

	state := leaguetest.NewLeague()
	leaguetest.FullTeam(state, "TOR", 80, 1_000_000)
	if _, err := db.SaveSnapshot(state, "seed"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := b.loadLeague()
	if err != nil {
		t.Fatalf("loadLeague: %v", err)
	}
	if len(loaded.Players) != 20 {
		t.Errorf("loaded %d players from snapshot, want 20", len(loaded.Players))
	}

	// The league file wins once it exists
	file := leaguetest.NewLeague()
	leaguetest.AddTeam(file, "BOS")
	if err := models.SaveLeagueFile(b.config.LeagueFile, file); err != nil {
		t.Fatalf("SaveLeagueFile: %v", err)
	}
	loaded, err = b.loadLeague()
	if err != nil {
		t.Fatalf("loadLeague: %v", err)
	}
	if _, ok := loaded.Teams["BOS"]; !ok || len(loaded.Teams) != 1 {
		t.Errorf("teams = %v, want the league file's", loaded.TeamIDs())
	}
}

func TestInitializeSeen(t *testing.T) {
	b := testBot(t)
	dir := t.TempDir()
	var err error
	if b.games, err = storage.NewGameLog(dir); err != nil {
		t.Fatalf("NewGameLog: %v", err)
	}
	if b.trades, err = storage.NewTradeLog(dir); err != nil {
		t.Fatalf("NewTradeLog: %v", err)
	}

	g := storage.GameRecord{ID: "g1", Season: "2025-26", PlayedAt: time.Now(), HomeID: "TOR", AwayID: "BOS"}
	if err := b.games.AddGames([]storage.GameRecord{g}); err != nil {
		t.Fatalf("AddGames: %v", err)
	}
	tr := &storage.TradeRecord{FromTeamID: "TOR", ToTeamID: "BOS", Summary: "x for y"}
	if err := b.trades.AddTrade(tr); err != nil {
		t.Fatalf("AddTrade: %v", err)
	}

	if err := b.initializeSeen(); err != nil {
		t.Fatalf("initializeSeen: %v", err)
	}
	if !b.seenGames["g1"] || !b.seenTrades[tr.ID] {
		t.Errorf("seen = %v / %v", b.seenGames, b.seenTrades)
	}
}

func TestResultEmbeds(t *testing.T) {
	game := createGameEmbed(storage.GameRecord{
		Season: "2025-26", HomeID: "TOR", AwayID: "BOS", HomeGoals: 3, AwayGoals: 2,
		HomeShots: 30, AwayShots: 25, WentToOT: true, Seed: 9, CommittedBy: "alice",
	})
	if game.Title != "BOS 2 @ TOR 3 (OT)" {
		t.Errorf("game title = %q", game.Title)
	}
	if !strings.Contains(game.Footer.Text, "seed 9") {
		t.Errorf("game footer = %q", game.Footer.Text)
	}

	trade := createTradeEmbed(storage.TradeRecord{FromTeamID: "TOR", ToTeamID: "BOS", Summary: "TOR: a for BOS: b"})
	if trade.Title != "Trade: TOR ↔ BOS" || trade.Description != "TOR: a for BOS: b" {
		t.Errorf("trade embed = %+v", trade)
	}
}
