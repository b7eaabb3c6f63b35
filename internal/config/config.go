package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/progression"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/salarycap"
)

type Config struct {
	DiscordToken     string
	GoogleSheetsID   string
	Season           string
	LeagueFile       string
	DatabasePath     string
	DataDir          string
	CacheDuration    time.Duration
	CommandPrefix    string
	LogLevel         string
	SimSeed          *uint64 // nil means games draw fresh seeds
	CapOverage       salarycap.CapOverage
	Difficulty       progression.Difficulty
	TeamOwners       models.Owners
	SimRatePerMinute float64
}

func Load() (*Config, error) {
	cacheDuration := 5 * time.Minute
	if d := os.Getenv("CACHE_DURATION_MINUTES"); d != "" {
		if minutes, err := strconv.Atoi(d); err == nil {
			cacheDuration = time.Duration(minutes) * time.Minute
		}
	}

	var seed *uint64
	if s := os.Getenv("SIM_SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIM_SEED %q: %w", s, err)
		}
		seed = &v
	}

	overage, err := salarycap.ParseCapOverage(os.Getenv("CAP_OVERAGE_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAP_OVERAGE_POLICY: %w", err)
	}

	difficulty, err := progression.ParseDifficulty(os.Getenv("DIFFICULTY"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIFFICULTY: %w", err)
	}

	rate := 6.0
	if r := os.Getenv("SIM_RATE_PER_MINUTE"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil && v > 0 {
			rate = v
		}
	}

	return &Config{
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		GoogleSheetsID:   os.Getenv("GOOGLE_SHEETS_ID"),
		Season:           getEnvOrDefault("SEASON", "2025-26"),
		LeagueFile:       getEnvOrDefault("LEAGUE_FILE", "league.json"),
		DatabasePath:     getEnvOrDefault("DATABASE_PATH", "data/league.db"),
		DataDir:          getEnvOrDefault("DATA_DIR", "data"),
		CacheDuration:    cacheDuration,
		CommandPrefix:    getEnvOrDefault("COMMAND_PREFIX", "!"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		SimSeed:          seed,
		CapOverage:       overage,
		Difficulty:       difficulty,
		TeamOwners:       models.ParseOwners(os.Getenv("TEAM_OWNERS")),
		SimRatePerMinute: rate,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
