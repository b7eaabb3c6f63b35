// import-league builds a league file from the Google Sheet (or exported CSV tabs) and
// prints a per-team summary so the import can be checked before the bot uses it.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/config"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sheets"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

var (
	teamsCSV   = flag.String("teams", "", "Teams CSV export; with -players, read files instead of the sheet")
	playersCSV = flag.String("players", "", "Players CSV export")
	outFile    = flag.String("out", "", "League JSON to write (default LEAGUE_FILE)")
	dryRun     = flag.Bool("dry-run", false, "Print the summary without writing anything")
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
	season := models.DefaultSeasonInfo(cfg.Season)

	var state *models.LeagueState
	if *teamsCSV != "" || *playersCSV != "" {
		if *teamsCSV == "" || *playersCSV == "" {
			log.Fatal("Both -teams and -players are needed to import from files")
		}
		var rowErrs []error
		state, rowErrs, err = sheets.LoadLeagueFiles(season, *teamsCSV, *playersCSV)
		if err != nil {
			log.Fatal("Failed to import league:", err)
		}
		for _, e := range rowErrs {
			fmt.Println("  skipped:", e)
		}
	} else {
		client, err := sheets.NewClient(cfg.GoogleSheetsID, lg)
		if err != nil {
			log.Fatal("Failed to create sheets client:", err)
		}
		fmt.Printf("Fetching league from sheet %s...\n", cfg.GoogleSheetsID)
		state, err = client.LoadLeague(season)
		if err != nil {
			log.Fatal("Failed to import league:", err)
		}
	}

	printSummary(state)

	if *dryRun {
		return
	}
	path := *outFile
	if path == "" {
		path = cfg.LeagueFile
	}
	if err := models.SaveLeagueFile(path, state); err != nil {
		log.Fatal("Failed to write league:", err)
	}
	fmt.Printf("\nWrote %s\n", path)
}

func printSummary(state *models.LeagueState) {
	fmt.Printf("\n%s: %d teams, %d players, %d contracts\n", state.Season.Label,
		len(state.Teams), len(state.Players), len(state.Contracts))
	fmt.Println("===================")
	fmt.Printf("%-5s %-24s %4s %4s %4s %4s %14s %14s\n", "ID", "Team", "ACT", "IR", "LTIR", "NR", "Cap Used", "Cap Space")

	for _, id := range state.TeamIDs() {
		t := state.Teams[id]
		summary, err := salarycap.Summarize(state, id)
		if err != nil {
			fmt.Printf("%-5s %v\n", id, err)
			continue
		}
		fmt.Printf("%-5s %-24s %4d %4d %4d %4d %14s %14s\n", id, t.Name,
			len(t.ActiveRoster), len(t.IR), len(t.LTIR), len(t.NonRoster),
			salarycap.FormatMoney(summary.CapUsed), salarycap.FormatMoney(summary.CapSpace))
	}

	rostered := 0
	for _, id := range state.TeamIDs() {
		rostered += len(state.Teams[id].AllPlayerIDs())
	}
	fmt.Printf("\nUnrostered players: %d\n", len(state.Players)-rostered)
}
