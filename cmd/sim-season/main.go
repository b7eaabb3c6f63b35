// sim-season plays a full season for a league file and prints standings and leaders.
// With -offseason it also develops players, winds down retained salary and rolls the
// league into the next season.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/config"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/progression"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/rng"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sim"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/store"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

var (
	leagueFile = flag.String("league", "", "League JSON file (default LEAGUE_FILE)")
	outFile    = flag.String("out", "", "Write the resulting league here; empty leaves files untouched")
	rounds     = flag.Int("rounds", 2, "Times each pair of teams meets")
	seasonKey  = flag.String("key", "", "Derive every game seed from this key; empty draws fresh seeds")
	offseason  = flag.Bool("offseason", false, "Develop players and roll into the next season after the last game")
	devSeed    = flag.Uint64("dev-seed", 0, "Seed for player development; 0 draws a fresh one")
	top        = flag.Int("top", 10, "Number of scoring leaders to print")
	logGames   = flag.Bool("log-games", false, "Append every game to the game log in DATA_DIR")
	snapshot   = flag.Bool("snapshot", false, "Save the resulting league to the snapshot database")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	lg := logger.New(cfg.LogLevel)

	path := *leagueFile
	if path == "" {
		path = cfg.LeagueFile
	}
	state, err := models.LoadLeagueFile(path)
	if err != nil {
		log.Fatal("Failed to load league:", err)
	}
	fmt.Printf("Loaded %s: %d teams, %d players\n", state.Season.Label, len(state.Teams), len(state.Players))

	var src rng.Source
	if cfg.SimSeed != nil {
		src = rng.New(*cfg.SimSeed)
	}
	simulator := sim.New(sim.DefaultConfig(), src, lg)

	schedule := sim.RoundRobin(state.TeamIDs(), *rounds)
	if len(schedule) == 0 {
		log.Fatal("Need at least two teams to play a season")
	}
	start := time.Now()
	results, err := simulator.SimulateSchedule(state, schedule, *seasonKey)
	if err != nil {
		log.Fatal("Season stopped early: ", err)
	}
	fmt.Printf("Played %d games in %s\n\n", len(results), time.Since(start).Round(time.Millisecond))

	if *logGames {
		recordGames(cfg, state.Season.Label, results)
	}

	printStandings(state)
	printLeaders(state, *top)

	if *offseason {
		runOffseason(cfg, lg, state)
	}

	if *outFile != "" {
		if err := models.SaveLeagueFile(*outFile, state); err != nil {
			log.Fatal("Failed to write league:", err)
		}
		fmt.Printf("\nWrote %s\n", *outFile)
	}

	if *snapshot {
		saveSnapshot(cfg, state)
	}
}

func recordGames(cfg *config.Config, season string, results []*sim.GameResult) {
	gameLog, err := storage.NewGameLog(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open game log:", err)
	}
	now := time.Now()
	records := make([]storage.GameRecord, 0, len(results))
	for i, res := range results {
		// Spread games a day apart so the log keeps schedule order
		records = append(records, storage.NewGameRecord(res, season, "sim-season", now.Add(time.Duration(i)*24*time.Hour)))
	}
	if err := gameLog.AddGames(records); err != nil {
		log.Fatal("Failed to log games:", err)
	}
	fmt.Printf("Logged %d games to %s\n\n", len(records), cfg.DataDir)
}

func printStandings(state *models.LeagueState) {
	fmt.Println("Standings")
	fmt.Println("=========")
	fmt.Printf("%-3s %-24s %3s %3s %3s %3s %4s %4s\n", "#", "Team", "GP", "W", "L", "OTL", "PTS", "DIFF")
	for _, r := range sim.Standings(state) {
		rec := r.Record
		fmt.Printf("%-3d %-24s %3d %3d %3d %3d %4d %+4d\n",
			r.Rank, r.Name, rec.GamesPlayed, rec.Wins, rec.Losses, rec.OTLosses, r.Points, rec.GoalDifferential())
	}
	fmt.Println()
}

func printLeaders(state *models.LeagueState, n int) {
	var skaters, goalies models.PlayerList
	for _, id := range state.TeamIDs() {
		players, err := state.RosterPlayers(state.Teams[id], models.ListActive)
		if err != nil {
			continue
		}
		for _, p := range players {
			if p.IsGoalie() {
				if p.GoalieStats.GamesPlayed > 0 {
					goalies = append(goalies, p)
				}
				continue
			}
			skaters = append(skaters, p)
		}
	}

	skaters.SortByPoints()
	if n > len(skaters) {
		n = len(skaters)
	}
	fmt.Println("Scoring Leaders")
	fmt.Println("===============")
	for i, p := range skaters[:n] {
		team, _ := state.TeamOf(p.ID)
		fmt.Printf("%2d. %-24s %-4s %3d GP %3d G %3d A %3d PTS %+4d\n",
			i+1, p.Name, team.ID, p.Stats.GamesPlayed, p.Stats.Goals, p.Stats.Assists, p.Stats.Points(), p.Stats.PlusMinus)
	}

	fmt.Println("\nGoaltenders")
	fmt.Println("===========")
	for _, g := range goalies {
		gs := g.GoalieStats
		fmt.Printf("%-24s %3d GP %2d-%2d-%2d %.3f SV%% %.2f GAA %d SO\n",
			g.Name, gs.GamesPlayed, gs.Wins, gs.Losses, gs.OTLosses, gs.SavePct, gs.GAA, gs.Shutouts)
	}
}

func runOffseason(cfg *config.Config, lg *logger.Logger, state *models.LeagueState) {
	var src rng.Source
	if *devSeed != 0 {
		src = rng.New(*devSeed)
	}
	engine := progression.NewEngine(progression.DefaultConfig(), src, lg)

	players := make([]*models.Player, 0, len(state.Players))
	for _, id := range sortedPlayerIDs(state) {
		players = append(players, state.Players[id])
	}
	ctx := &progression.Context{Difficulty: cfg.Difficulty, AdvanceAge: true}
	changes := engine.UpdatePlayerDevelopmentForSeason(players, progression.LinesFromPlayers(players), ctx)

	up, down := 0, 0
	for _, c := range changes {
		switch {
		case c.Delta > 0:
			up++
		case c.Delta < 0:
			down++
		}
		if len(c.Notes) > 0 && c.Delta != 0 {
			fmt.Printf("  %-24s %2d -> %2d %v\n", c.Name, c.Before, c.After, c.Notes)
		}
	}
	fmt.Printf("\nDevelopment: %d improved, %d declined, %d unchanged\n", up, down, len(changes)-up-down)

	dropped := salarycap.ExpireRetained(state)
	if dropped > 0 {
		fmt.Printf("Retained salary ended for %d contracts\n", dropped)
	}

	if err := state.StartNextSeason(); err != nil {
		log.Fatal("Failed to start next season:", err)
	}
	fmt.Printf("League rolled into %s\n", state.Season.Label)
}

func sortedPlayerIDs(state *models.LeagueState) []string {
	ids := make([]string, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func saveSnapshot(cfg *config.Config, state *models.LeagueState) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatal("Failed to create database directory:", err)
	}
	db, err := store.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	snap, err := db.SaveSnapshot(state, "sim-season "+state.Season.Label)
	if err != nil {
		log.Fatal("Failed to save snapshot:", err)
	}
	fmt.Printf("Saved snapshot %s\n", snap.ID)
}
