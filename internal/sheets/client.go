package sheets

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

// Client fetches data from public Google Sheets using CSV export
type Client struct {
	spreadsheetID string
	httpClient    *http.Client
	logger        *logger.Logger
}

func NewClient(spreadsheetID string, log *logger.Logger) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.Named("sheets"),
	}, nil
}

// Sheet GIDs
const (
	TeamsGID   = "0"
	PlayersGID = "286507798"
)

// LoadLeague fetches the teams and players tabs and builds a league for the season
func (c *Client) LoadLeague(season models.SeasonInfo) (*models.LeagueState, error) {
	teams, err := c.GetSheetDataCSV(TeamsGID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams sheet: %w", err)
	}
	players, err := c.GetSheetDataCSV(PlayersGID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players sheet: %w", err)
	}

	state, skipped, err := BuildLeague(season, teams, players)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		c.logger.Warnf("skipped row: %v", e)
	}
	c.logger.Infof("loaded %d teams and %d players", len(state.Teams), len(state.Players))
	return state, nil
}

// GetSheetDataCSV fetches data from a specific sheet tab as CSV
func (c *Client) GetSheetDataCSV(gid string) ([][]string, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", c.spreadsheetID, gid)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ReadCSV(resp.Body)
}

// LoadLeagueFiles builds a league from exported CSV files on disk
func LoadLeagueFiles(season models.SeasonInfo, teamsPath, playersPath string) (*models.LeagueState, []error, error) {
	teams, err := readCSVFile(teamsPath)
	if err != nil {
		return nil, nil, err
	}
	players, err := readCSVFile(playersPath)
	if err != nil {
		return nil, nil, err
	}
	return BuildLeague(season, teams, players)
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads every record; rows may have differing lengths
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var data [][]string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		data = append(data, record)
	}

	return data, nil
}
