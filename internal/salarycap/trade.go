package salarycap

import (
	"errors"
	"fmt"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/pkg/logger"
)

// ErrMalformedProposal marks a proposal that cannot be measured at all, as opposed to one
// that breaks a league rule
var ErrMalformedProposal = errors.New("malformed trade proposal")

// Validation is the outcome of checking a proposal. Errors are rule violations; OK is
// true only when there are none.
type Validation struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func (v *Validation) addError(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// SidePreview is one team's cap picture before and after the trade
type SidePreview struct {
	Before SideSummary `json:"before"`
	After  SideSummary `json:"after"`
}

// CapDelta returns how much the team's cap usage changes
func (sp SidePreview) CapDelta() string {
	return FormatMoney(sp.After.CapUsed.Sub(sp.Before.CapUsed))
}

// Preview is the before/after view of a proposal for both teams
type Preview struct {
	From       SidePreview `json:"from"`
	To         SidePreview `json:"to"`
	Validation *Validation `json:"validation"`
}

// Engine validates, previews and applies trades under a Policy
type Engine struct {
	policy Policy
	logger *logger.Logger
}

// NewEngine returns a trade engine; log may be nil
func NewEngine(policy Policy, log *logger.Logger) *Engine {
	if policy.CapOverage == "" {
		policy.CapOverage = CapOverageBlock
	}
	return &Engine{
		policy: policy,
		logger: log.Named("salarycap"),
	}
}

// ValidateTrade checks the proposal against every league rule. The live state is never
// modified; the pieces are moved on a private copy and re-measured there.
func (e *Engine) ValidateTrade(state *models.LeagueState, p models.TradeProposal) (*Validation, error) {
	preview, err := e.PreviewTrade(state, p)
	if err != nil {
		return nil, err
	}
	return preview.Validation, nil
}

// PreviewTrade measures both teams before and after the proposal and validates it
func (e *Engine) PreviewTrade(state *models.LeagueState, p models.TradeProposal) (*Preview, error) {
	if err := checkProposal(state, p); err != nil {
		return nil, err
	}

	fromBefore, err := Summarize(state, p.FromTeamID)
	if err != nil {
		return nil, err
	}
	toBefore, err := Summarize(state, p.ToTeamID)
	if err != nil {
		return nil, err
	}

	sandbox, err := state.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to copy league for trade preview: %w", err)
	}
	if err := movePieces(sandbox, p); err != nil {
		return nil, err
	}

	fromAfter, err := Summarize(sandbox, p.FromTeamID)
	if err != nil {
		return nil, err
	}
	toAfter, err := Summarize(sandbox, p.ToTeamID)
	if err != nil {
		return nil, err
	}

	v := &Validation{}
	checkClauses(state, p, v)
	warnRetention(state, p, v)

	limits := LimitsFor(sandbox)
	e.checkSide(fromAfter, limits, v)
	e.checkSide(toAfter, limits, v)
	v.OK = len(v.Errors) == 0

	e.logger.Debugf("trade %s<->%s: ok=%v errors=%d warnings=%d",
		p.FromTeamID, p.ToTeamID, v.OK, len(v.Errors), len(v.Warnings))

	return &Preview{
		From:       SidePreview{Before: fromBefore, After: fromAfter},
		To:         SidePreview{Before: toBefore, After: toAfter},
		Validation: v,
	}, nil
}

// ApplyTrade validates the proposal and, only if it passes, moves the pieces on the live
// state and records any retained salary. A rejected proposal leaves state untouched.
func (e *Engine) ApplyTrade(state *models.LeagueState, p models.TradeProposal) (*Validation, error) {
	v, err := e.ValidateTrade(state, p)
	if err != nil {
		return nil, err
	}
	if !v.OK {
		return v, nil
	}
	if err := movePieces(state, p); err != nil {
		return nil, err
	}
	e.logger.Infof("trade applied: %s sent %d pieces, %s sent %d pieces",
		p.FromTeamID, len(p.FromPieces), p.ToTeamID, len(p.ToPieces))
	return v, nil
}

// checkProposal rejects proposals that reference unknown teams, players or picks, or
// pieces the sending team does not hold
func checkProposal(state *models.LeagueState, p models.TradeProposal) error {
	from, err := state.Team(p.FromTeamID)
	if err != nil {
		return err
	}
	to, err := state.Team(p.ToTeamID)
	if err != nil {
		return err
	}
	if from.ID == to.ID {
		return fmt.Errorf("%w: %s cannot trade with itself", ErrMalformedProposal, from.ID)
	}
	if len(p.FromPieces) == 0 && len(p.ToPieces) == 0 {
		return fmt.Errorf("%w: proposal moves nothing", ErrMalformedProposal)
	}

	seen := make(map[string]bool)
	check := func(pieces []models.TradePiece, owner *models.Team) error {
		for i, piece := range pieces {
			if piece.IsPlayer() == piece.IsDraftPick() {
				return fmt.Errorf("%w: piece %d from %s must name exactly one player or draft pick",
					ErrMalformedProposal, i+1, owner.ID)
			}
			key := piece.PlayerID + "|" + piece.DraftPickID
			if seen[key] {
				return fmt.Errorf("%w: %s%s appears more than once", ErrMalformedProposal, piece.PlayerID, piece.DraftPickID)
			}
			seen[key] = true

			if piece.IsPlayer() {
				if _, err := state.Player(piece.PlayerID); err != nil {
					return err
				}
				if !owner.HasPlayer(piece.PlayerID) {
					return fmt.Errorf("%w: %s is not held by %s", ErrMalformedProposal, piece.PlayerID, owner.ID)
				}
				continue
			}
			if owner.DraftPickIndex(piece.DraftPickID) < 0 {
				return fmt.Errorf("%w: %s does not hold %s", models.ErrDraftPickNotFound, owner.ID, piece.DraftPickID)
			}
		}
		return nil
	}
	if err := check(p.FromPieces, from); err != nil {
		return err
	}
	return check(p.ToPieces, to)
}

// warnRetention notes retention requests that were clamped or cannot apply
func warnRetention(state *models.LeagueState, p models.TradeProposal, v *Validation) {
	for _, piece := range append(append([]models.TradePiece{}, p.FromPieces...), p.ToPieces...) {
		if !piece.IsPlayer() || piece.Retention == 0 {
			continue
		}
		name := playerName(state, piece.PlayerID)
		if piece.Retention != piece.ClampedRetention() {
			v.Warnings = append(v.Warnings, fmt.Sprintf("retention on %s limited to %.0f%%",
				name, piece.ClampedRetention()*100))
		}
		if GetCapHitForSeason(state.ContractFor(piece.PlayerID), state.Season.Label).IsZero() {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s has no cap hit this season; nothing to retain", name))
		}
	}
}

func movePieces(state *models.LeagueState, p models.TradeProposal) error {
	from, err := state.Team(p.FromTeamID)
	if err != nil {
		return err
	}
	to, err := state.Team(p.ToTeamID)
	if err != nil {
		return err
	}
	for _, piece := range p.FromPieces {
		if err := movePiece(state, piece, from, to); err != nil {
			return err
		}
	}
	for _, piece := range p.ToPieces {
		if err := movePiece(state, piece, to, from); err != nil {
			return err
		}
	}
	return nil
}

// movePiece transfers one asset. A player keeps his list type; a lineup naming him is
// dropped so the next game auto-selects.
func movePiece(state *models.LeagueState, piece models.TradePiece, from, to *models.Team) error {
	if piece.IsDraftPick() {
		idx := from.DraftPickIndex(piece.DraftPickID)
		if idx < 0 {
			return fmt.Errorf("%w: %s does not hold %s", models.ErrDraftPickNotFound, from.ID, piece.DraftPickID)
		}
		pick := from.DraftPicks[idx]
		from.DraftPicks = append(from.DraftPicks[:idx:idx], from.DraftPicks[idx+1:]...)
		to.DraftPicks = append(to.DraftPicks, pick)
		return nil
	}

	list, ok := from.RemovePlayer(piece.PlayerID)
	if !ok {
		return fmt.Errorf("%w: %s is not held by %s", ErrMalformedProposal, piece.PlayerID, from.ID)
	}
	to.AddPlayer(piece.PlayerID, list)
	if from.Lineup.Contains(piece.PlayerID) {
		from.Lineup = nil
	}

	if piece.ClampedRetention() == 0 {
		return nil
	}
	c := state.ContractFor(piece.PlayerID)
	savings := piece.RetainedSalary(GetCapHitForSeason(c, state.Season.Label))
	if !savings.IsPositive() {
		return nil
	}
	from.RetainedSalaries = append(from.RetainedSalaries, models.RetainedSalary{
		PlayerID:         piece.PlayerID,
		ContractID:       c.ID,
		ToTeamID:         to.ID,
		Percent:          piece.ClampedRetention(),
		CapHitSavings:    savings,
		RemainingSeasons: c.SeasonsRemaining(state.Season.Label),
	})
	return nil
}

// ExpireRetained counts down every retained-salary record by one season and drops the
// finished ones. It returns how many records were dropped.
func ExpireRetained(state *models.LeagueState) int {
	dropped := 0
	for _, id := range state.TeamIDs() {
		team := state.Teams[id]
		kept := team.RetainedSalaries[:0:0]
		for _, r := range team.RetainedSalaries {
			r.RemainingSeasons--
			if r.RemainingSeasons <= 0 {
				dropped++
				continue
			}
			kept = append(kept, r)
		}
		team.RetainedSalaries = kept
	}
	return dropped
}
