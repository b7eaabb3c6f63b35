package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const tradeLogFileName = "trades.csv"

var tradeLogHeaders = []string{"ID", "Season", "FromTeamID", "ToTeamID", "Summary", "CommittedBy", "CommittedAt"}

// TradeRecord is one applied trade
type TradeRecord struct {
	ID          string
	Season      string
	FromTeamID  string
	ToTeamID    string
	Summary     string
	CommittedBy string
	CommittedAt time.Time
}

// TradeLog handles persistent storage of applied trades
type TradeLog struct {
	mu       sync.RWMutex
	filePath string
}

// NewTradeLog opens the trade log under dir, creating it if needed
func NewTradeLog(dir string) (*TradeLog, error) {
	filePath, err := ensureFile(dir, tradeLogFileName, tradeLogHeaders)
	if err != nil {
		return nil, err
	}
	return &TradeLog{filePath: filePath}, nil
}

// AddTrade appends a trade, assigning an id and timestamp when missing
func (tl *TradeLog) AddTrade(trade *TradeRecord) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if trade.CommittedAt.IsZero() {
		trade.CommittedAt = time.Now().UTC()
	}

	file, err := os.OpenFile(tl.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open trade log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	record := []string{
		trade.ID,
		trade.Season,
		trade.FromTeamID,
		trade.ToTeamID,
		trade.Summary,
		trade.CommittedBy,
		trade.CommittedAt.Format(time.RFC3339),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write trade record: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// GetTrades returns every stored trade
func (tl *TradeLog) GetTrades() ([]TradeRecord, error) {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	records, err := readAll(tl.filePath)
	if err != nil {
		return nil, err
	}

	var trades []TradeRecord
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(tradeLogHeaders) {
			continue
		}
		committedAt, err := time.Parse(time.RFC3339, record[6])
		if err != nil {
			continue
		}
		trades = append(trades, TradeRecord{
			ID:          record[0],
			Season:      record[1],
			FromTeamID:  record[2],
			ToTeamID:    record[3],
			Summary:     record[4],
			CommittedBy: record[5],
			CommittedAt: committedAt,
		})
	}
	return trades, nil
}

// GetTradesForTeam returns the trades a team took part in
func (tl *TradeLog) GetTradesForTeam(teamID string) ([]TradeRecord, error) {
	all, err := tl.GetTrades()
	if err != nil {
		return nil, err
	}
	var trades []TradeRecord
	for _, t := range all {
		if strings.EqualFold(t.FromTeamID, teamID) || strings.EqualFold(t.ToTeamID, teamID) {
			trades = append(trades, t)
		}
	}
	return trades, nil
}
