package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sim"
)

const gameLogFileName = "games.csv"

var gameLogHeaders = []string{
	"ID", "Season", "PlayedAt", "HomeID", "AwayID", "HomeGoals", "AwayGoals",
	"HomeShots", "AwayShots", "WentToOT", "Seed", "CommittedBy",
}

// GameRecord is one committed game in the log
type GameRecord struct {
	ID          string
	Season      string
	PlayedAt    time.Time
	HomeID      string
	AwayID      string
	HomeGoals   int
	AwayGoals   int
	HomeShots   int
	AwayShots   int
	WentToOT    bool
	Seed        uint64
	CommittedBy string
}

// NewGameRecord summarises a simulated game under a fresh id
func NewGameRecord(res *sim.GameResult, season, committedBy string, playedAt time.Time) GameRecord {
	box := res.BoxScore
	return GameRecord{
		ID:          uuid.NewString(),
		Season:      season,
		PlayedAt:    playedAt.UTC(),
		HomeID:      box.Home.TeamID,
		AwayID:      box.Away.TeamID,
		HomeGoals:   res.HomeGoals,
		AwayGoals:   res.AwayGoals,
		HomeShots:   box.Home.Shots,
		AwayShots:   box.Away.Shots,
		WentToOT:    res.WentToOT,
		Seed:        box.Seed,
		CommittedBy: committedBy,
	}
}

// GameLog handles persistent storage of committed games
type GameLog struct {
	mu       sync.RWMutex
	filePath string
}

// NewGameLog opens the game log under dir, creating it if needed
func NewGameLog(dir string) (*GameLog, error) {
	filePath, err := ensureFile(dir, gameLogFileName, gameLogHeaders)
	if err != nil {
		return nil, err
	}
	return &GameLog{filePath: filePath}, nil
}

// AddGames appends games to the CSV file
func (gl *GameLog) AddGames(games []GameRecord) error {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	file, err := os.OpenFile(gl.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open game log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, g := range games {
		record := []string{
			g.ID,
			g.Season,
			g.PlayedAt.Format(time.RFC3339),
			g.HomeID,
			g.AwayID,
			strconv.Itoa(g.HomeGoals),
			strconv.Itoa(g.AwayGoals),
			strconv.Itoa(g.HomeShots),
			strconv.Itoa(g.AwayShots),
			strconv.FormatBool(g.WentToOT),
			strconv.FormatUint(g.Seed, 10),
			g.CommittedBy,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write game record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// GetAllGames returns every stored game in the order it was committed
func (gl *GameLog) GetAllGames() ([]GameRecord, error) {
	gl.mu.RLock()
	defer gl.mu.RUnlock()

	records, err := readAll(gl.filePath)
	if err != nil {
		return nil, err
	}

	var games []GameRecord
	// Skip header row
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(gameLogHeaders) {
			continue
		}

		playedAt, err := time.Parse(time.RFC3339, record[2])
		if err != nil {
			continue
		}
		homeGoals, _ := strconv.Atoi(record[5])
		awayGoals, _ := strconv.Atoi(record[6])
		homeShots, _ := strconv.Atoi(record[7])
		awayShots, _ := strconv.Atoi(record[8])
		wentToOT, _ := strconv.ParseBool(record[9])
		seed, _ := strconv.ParseUint(record[10], 10, 64)

		games = append(games, GameRecord{
			ID:          record[0],
			Season:      record[1],
			PlayedAt:    playedAt,
			HomeID:      record[3],
			AwayID:      record[4],
			HomeGoals:   homeGoals,
			AwayGoals:   awayGoals,
			HomeShots:   homeShots,
			AwayShots:   awayShots,
			WentToOT:    wentToOT,
			Seed:        seed,
			CommittedBy: record[11],
		})
	}

	return games, nil
}

// GetGameIDs returns a set of all stored game IDs for quick lookup
func (gl *GameLog) GetGameIDs() (map[string]bool, error) {
	gl.mu.RLock()
	defer gl.mu.RUnlock()

	records, err := readAll(gl.filePath)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	for i := 1; i < len(records); i++ {
		if len(records[i]) > 0 {
			ids[records[i][0]] = true
		}
	}
	return ids, nil
}

// GroupGamesByTeam lists each team's games, home and away
func GroupGamesByTeam(games []GameRecord) map[string][]GameRecord {
	groups := make(map[string][]GameRecord)
	for _, g := range games {
		groups[g.HomeID] = append(groups[g.HomeID], g)
		groups[g.AwayID] = append(groups[g.AwayID], g)
	}
	return groups
}

// ensureFile creates dir and a CSV file with headers if they don't exist yet
func ensureFile(dir, name string, headers []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(dir, name)
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		return filePath, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}
	writer.Flush()
	return filePath, writer.Error()
}

func readAll(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(filePath), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(filePath), err)
	}
	return records, nil
}
