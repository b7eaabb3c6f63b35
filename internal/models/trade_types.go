package models

import (
	"github.com/shopspring/decimal"
)

// MaxRetention is the largest share of a cap hit a team may keep on a traded player
const MaxRetention = 0.5

// TradePiece is one asset in a trade: a player (with optional retention) or a draft pick
type TradePiece struct {
	PlayerID    string  `json:"playerId,omitempty"`
	Retention   float64 `json:"retention,omitempty"` // 0-0.5, where 0.25 = 25% retained
	DraftPickID string  `json:"draftPickId,omitempty"`
}

// IsPlayer reports whether the piece moves a player
func (tp TradePiece) IsPlayer() bool {
	return tp.PlayerID != ""
}

// IsDraftPick reports whether the piece moves a draft pick
func (tp TradePiece) IsDraftPick() bool {
	return tp.DraftPickID != ""
}

// ClampedRetention returns the retention share limited to [0, MaxRetention]
func (tp TradePiece) ClampedRetention() float64 {
	switch {
	case tp.Retention < 0:
		return 0
	case tp.Retention > MaxRetention:
		return MaxRetention
	}
	return tp.Retention
}

// RetainedSalary calculates the sending team's cap savings from retaining part of the hit
func (tp TradePiece) RetainedSalary(capHit decimal.Decimal) decimal.Decimal {
	r := tp.ClampedRetention()
	if r == 0 {
		return decimal.Zero
	}
	return capHit.Mul(decimal.NewFromFloat(r)).Round(0)
}

// TradeProposal is an ephemeral two-sided trade built by a front end
type TradeProposal struct {
	FromTeamID string       `json:"fromTeamId"`
	ToTeamID   string       `json:"toTeamId"`
	FromPieces []TradePiece `json:"fromPieces"` // Sent by FromTeamID to ToTeamID
	ToPieces   []TradePiece `json:"toPieces"`   // Sent by ToTeamID to FromTeamID
}
