package salarycap

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/leaguetest"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// twoTeamLeague builds TOR and BOS with 20 players at 1M each. TOR also carries a 10M
// star, putting it at 21 players.
func twoTeamLeague() *models.LeagueState {
	s := leaguetest.NewLeague()
	leaguetest.FullTeam(s, "TOR", 75, 1_000_000)
	leaguetest.FullTeam(s, "BOS", 75, 1_000_000)
	leaguetest.AddPlayer(s, "TOR", "star", models.Center, 92, 10_000_000)
	return s
}

func encode(t *testing.T, s *models.LeagueState) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := models.EncodeLeague(&buf, s); err != nil {
		t.Fatalf("encode league: %v", err)
	}
	return buf.Bytes()
}

func hasMessage(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestRetentionExample(t *testing.T) {
	s := twoTeamLeague()
	s.Season.DayIndex = 41

	wantCeiling := decimal.NewFromInt(95_500_000).Mul(decimal.NewFromInt(182 - 41)).Div(decimal.NewFromInt(182)).Round(2)
	if got := ProratedCeiling(s); !got.Equal(wantCeiling) {
		t.Fatalf("prorated ceiling %s, want %s", got, wantCeiling)
	}

	engine := NewEngine(DefaultPolicy(), nil)
	proposal := models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "star", Retention: 0.2}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	}

	v, err := engine.ApplyTrade(s, proposal)
	if err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}
	if !v.OK {
		t.Fatalf("expected the trade to pass, got %v", v.Errors)
	}

	tor := s.Teams["TOR"]
	if len(tor.RetainedSalaries) != 1 {
		t.Fatalf("expected one retained record, got %d", len(tor.RetainedSalaries))
	}
	r := tor.RetainedSalaries[0]
	if !r.CapHitSavings.Equal(decimal.NewFromInt(2_000_000)) {
		t.Errorf("retained amount %s, want 2000000", r.CapHitSavings)
	}
	if r.ToTeamID != "BOS" || r.RemainingSeasons != 3 || r.Percent != 0.2 {
		t.Errorf("unexpected retained record: %+v", r)
	}

	// TOR: 30M - 10M star + 1M received - 2M retained = 19M
	torFull, _ := fullSeasonCapHit(s, "TOR")
	if !torFull.Equal(decimal.NewFromInt(19_000_000)) {
		t.Errorf("TOR full-season cap hit %s, want 19000000", torFull)
	}
	// BOS: 20 x 1M - 1M sent + 10M star = 29M
	bosFull, _ := fullSeasonCapHit(s, "BOS")
	if !bosFull.Equal(decimal.NewFromInt(29_000_000)) {
		t.Errorf("BOS full-season cap hit %s, want 29000000", bosFull)
	}

	bosProrated, err := TeamCapHit(s, "BOS")
	if err != nil {
		t.Fatalf("TeamCapHit: %v", err)
	}
	if want := ProrateByDays(decimal.NewFromInt(29_000_000), 182, 41); !bosProrated.Equal(want) {
		t.Errorf("BOS prorated cap hit %s, want %s", bosProrated, want)
	}
}

func TestRetentionOnlyMovesRetainingTeam(t *testing.T) {
	trade := func(retention float64) (tor, bos decimal.Decimal) {
		t.Helper()
		s := twoTeamLeague()
		s.Season.DayIndex = 41
		v, err := NewEngine(DefaultPolicy(), nil).ApplyTrade(s, models.TradeProposal{
			FromTeamID: "TOR",
			ToTeamID:   "BOS",
			FromPieces: []models.TradePiece{{PlayerID: "star", Retention: retention}},
			ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
		})
		if err != nil || !v.OK {
			t.Fatalf("ApplyTrade(retain %.2f): err=%v validation=%+v", retention, err, v)
		}
		tor, _ = fullSeasonCapHit(s, "TOR")
		bos, _ = fullSeasonCapHit(s, "BOS")
		return tor, bos
	}

	torPlain, bosPlain := trade(0)
	torKept, bosKept := trade(0.2)

	if saved := torPlain.Sub(torKept); !saved.Equal(decimal.NewFromInt(2_000_000)) {
		t.Errorf("retaining 20%% of 10M saved TOR %s, want 2000000", saved)
	}
	if !bosKept.Equal(bosPlain) {
		t.Errorf("BOS usage moved with retention: %s -> %s", bosPlain, bosKept)
	}
}

func TestRosterMaximum(t *testing.T) {
	s := leaguetest.NewLeague()
	leaguetest.FullTeam(s, "TOR", 75, 1_000_000)
	leaguetest.FullTeam(s, "BOS", 75, 1_000_000)
	for _, id := range []string{"TOR-X1", "TOR-X2", "TOR-X3"} {
		leaguetest.AddPlayer(s, "TOR", id, models.LeftWing, 70, 800_000)
	}
	leaguetest.AddPlayer(s, "BOS", "BOS-X1", models.LeftWing, 70, 800_000)
	if got := len(s.Teams["TOR"].ActiveRoster); got != 23 {
		t.Fatalf("fixture should have 23 active players, has %d", got)
	}

	v, err := NewEngine(DefaultPolicy(), nil).ValidateTrade(s, models.TradeProposal{
		FromTeamID: "BOS",
		ToTeamID:   "TOR",
		FromPieces: []models.TradePiece{{PlayerID: "BOS-F01"}},
	})
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if v.OK {
		t.Fatalf("a 24th player should be rejected")
	}
	if !hasMessage(v.Errors, "roster size") {
		t.Errorf("expected a roster size error, got %v", v.Errors)
	}
}

func TestRosterMinimum(t *testing.T) {
	s := twoTeamLeague()
	v, err := NewEngine(DefaultPolicy(), nil).ValidateTrade(s, models.TradeProposal{
		FromTeamID: "BOS",
		ToTeamID:   "TOR",
		FromPieces: []models.TradePiece{{PlayerID: "BOS-F01"}},
		ToPieces:   []models.TradePiece{},
	})
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if v.OK || !hasMessage(v.Errors, "BOS roster size would be 19, below the minimum of 20") {
		t.Errorf("expected BOS to fall below the minimum, got %v", v.Errors)
	}
}

func TestMovementClauses(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(c *models.Contract)
		wantOK  bool
		wantMsg string
	}{
		{"no clause", func(c *models.Contract) {}, true, ""},
		{"no-movement", func(c *models.Contract) { c.NoMovement = true }, false, "no-movement clause"},
		{"full no-trade", func(c *models.Contract) { c.NoTrade = &models.NoTradeClause{Full: true} }, false, "full no-trade clause"},
		{"partial lists destination", func(c *models.Contract) {
			c.NoTrade = &models.NoTradeClause{BlockedTeams: []string{"MTL", "BOS"}}
		}, false, "blocking a move to BOS"},
		{"partial lists other teams", func(c *models.Contract) {
			c.NoTrade = &models.NoTradeClause{BlockedTeams: []string{"MTL"}}
		}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoTeamLeague()
			tt.setup(s.ContractFor("star"))

			v, err := NewEngine(DefaultPolicy(), nil).ValidateTrade(s, models.TradeProposal{
				FromTeamID: "TOR",
				ToTeamID:   "BOS",
				FromPieces: []models.TradePiece{{PlayerID: "star"}},
				ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
			})
			if err != nil {
				t.Fatalf("ValidateTrade: %v", err)
			}
			if v.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (errors: %v)", v.OK, tt.wantOK, v.Errors)
			}
			if tt.wantMsg != "" && !hasMessage(v.Errors, tt.wantMsg) {
				t.Errorf("expected %q in %v", tt.wantMsg, v.Errors)
			}
		})
	}
}

func TestRetainedSlotLimit(t *testing.T) {
	s := twoTeamLeague()
	tor := s.Teams["TOR"]
	for i := 0; i < 3; i++ {
		tor.RetainedSalaries = append(tor.RetainedSalaries, models.RetainedSalary{
			PlayerID:         "former",
			ToTeamID:         "NYR",
			Percent:          0.1,
			CapHitSavings:    decimal.NewFromInt(100_000),
			RemainingSeasons: 2,
		})
	}

	v, err := NewEngine(DefaultPolicy(), nil).ValidateTrade(s, models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "star", Retention: 0.25}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	})
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if v.OK || !hasMessage(v.Errors, "retained-salary slots") {
		t.Errorf("a fourth retained slot should be rejected, got %v", v.Errors)
	}
}

func TestContractCountLimit(t *testing.T) {
	s := twoTeamLeague()
	s.Season.MaxSPCs = 21
	leaguetest.AddPlayer(s, "BOS", "BOS-X1", models.LeftWing, 70, 800_000)

	v, err := NewEngine(DefaultPolicy(), nil).ValidateTrade(s, models.TradeProposal{
		FromTeamID: "BOS",
		ToTeamID:   "TOR",
		FromPieces: []models.TradePiece{{PlayerID: "BOS-X1"}},
	})
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if v.OK || !hasMessage(v.Errors, "TOR would hold 22 contracts") {
		t.Errorf("expected a contract count error, got %v", v.Errors)
	}
}

func TestCapOveragePolicy(t *testing.T) {
	proposal := models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "star"}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	}

	s := twoTeamLeague()
	s.Season.CapCeiling = decimal.NewFromInt(25_000_000)

	blocked, err := NewEngine(Policy{CapOverage: CapOverageBlock}, nil).ValidateTrade(s, proposal)
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if blocked.OK || !hasMessage(blocked.Errors, "BOS would be $4,000,000 over the prorated cap") {
		t.Errorf("expected a blocking overage, got %v", blocked.Errors)
	}

	warned, err := NewEngine(Policy{CapOverage: CapOverageWarn}, nil).ValidateTrade(s, proposal)
	if err != nil {
		t.Fatalf("ValidateTrade: %v", err)
	}
	if !warned.OK || !hasMessage(warned.Warnings, "over the prorated cap") {
		t.Errorf("expected a warning only, got errors=%v warnings=%v", warned.Errors, warned.Warnings)
	}
}

func TestValidateTradeLeavesStateUntouched(t *testing.T) {
	s := twoTeamLeague()
	s.Season.DayIndex = 60
	s.Season.CapCeiling = decimal.NewFromInt(25_000_000)
	s.Teams["TOR"].DraftPicks = []models.DraftPick{{ID: "TOR-2026-1", Season: "2026", Round: 1, OriginalTeamID: "TOR"}}
	s.Teams["TOR"].Lineup = &models.Lineup{StartingGoalie: "TOR-G01", ForwardLines: []models.ForwardLine{{"star", "TOR-F01", "TOR-F02"}}}

	proposal := models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "star", Retention: 0.75}, {DraftPickID: "TOR-2026-1"}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	}

	before := encode(t, s)
	engine := NewEngine(DefaultPolicy(), nil)

	first, err := engine.ValidateTrade(s, proposal)
	if err != nil {
		t.Fatalf("first validation: %v", err)
	}
	second, err := engine.ValidateTrade(s, proposal)
	if err != nil {
		t.Fatalf("second validation: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs:\n%+v\n%+v", first, second)
	}
	if !bytes.Equal(before, encode(t, s)) {
		t.Fatalf("validation modified the live league")
	}
	if !hasMessage(first.Warnings, "limited to 50%") {
		t.Errorf("expected a retention clamp warning, got %v", first.Warnings)
	}

	// a rejected apply must not touch the league either
	v, err := engine.ApplyTrade(s, proposal)
	if err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}
	if v.OK {
		t.Fatalf("expected the over-cap trade to be rejected")
	}
	if !bytes.Equal(before, encode(t, s)) {
		t.Errorf("rejected ApplyTrade modified the live league")
	}
}

func TestPreviewTrade(t *testing.T) {
	s := twoTeamLeague()
	leaguetest.AddPlayer(s, "BOS", "BOS-X1", models.LeftWing, 70, 1_000_000)
	s.Teams["TOR"].DraftPicks = []models.DraftPick{{ID: "TOR-2026-1", Season: "2026", Round: 1, OriginalTeamID: "TOR"}}

	preview, err := NewEngine(DefaultPolicy(), nil).PreviewTrade(s, models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "star", Retention: 0.5}, {DraftPickID: "TOR-2026-1"}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}, {PlayerID: "BOS-F02"}},
	})
	if err != nil {
		t.Fatalf("PreviewTrade: %v", err)
	}
	if !preview.Validation.OK {
		t.Fatalf("expected a valid trade, got %v", preview.Validation.Errors)
	}

	from, to := preview.From, preview.To
	if from.Before.RosterSize != 21 || from.After.RosterSize != 22 {
		t.Errorf("TOR roster %d -> %d, want 21 -> 22", from.Before.RosterSize, from.After.RosterSize)
	}
	if to.Before.RosterSize != 21 || to.After.RosterSize != 20 {
		t.Errorf("BOS roster %d -> %d, want 21 -> 20", to.Before.RosterSize, to.After.RosterSize)
	}
	if from.Before.RetainedSlots != 0 || from.After.RetainedSlots != 1 {
		t.Errorf("TOR retained slots %d -> %d", from.Before.RetainedSlots, from.After.RetainedSlots)
	}
	// TOR: 30M - 10M + 2M received - 5M retained = 17M
	if !from.After.CapUsed.Equal(decimal.NewFromInt(17_000_000)) {
		t.Errorf("TOR cap after %s, want 17000000", from.After.CapUsed)
	}
	if from.CapDelta() != "-$13,000,000" {
		t.Errorf("TOR cap delta %s", from.CapDelta())
	}
	// BOS: 21M - 2M + 10M = 29M
	if !to.After.CapUsed.Equal(decimal.NewFromInt(29_000_000)) {
		t.Errorf("BOS cap after %s, want 29000000", to.After.CapUsed)
	}
	if len(s.Teams["TOR"].DraftPicks) != 1 {
		t.Errorf("preview moved the live draft pick")
	}
}

func TestApplyTradeMovesPicksAndKeepsListType(t *testing.T) {
	s := twoTeamLeague()
	tor := s.Teams["TOR"]
	tor.RemovePlayer("TOR-F12")
	tor.AddPlayer("TOR-F12", models.ListIR)
	leaguetest.AddPlayer(s, "TOR", "TOR-X1", models.LeftWing, 70, 900_000)
	leaguetest.AddPlayer(s, "BOS", "BOS-X1", models.LeftWing, 70, 900_000)
	tor.DraftPicks = []models.DraftPick{{ID: "TOR-2026-2", Season: "2026", Round: 2, OriginalTeamID: "TOR"}}
	tor.Lineup = &models.Lineup{StartingGoalie: "TOR-G01", ForwardLines: []models.ForwardLine{{"TOR-F12", "TOR-F01", "TOR-F02"}}}

	v, err := NewEngine(DefaultPolicy(), nil).ApplyTrade(s, models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "TOR-F12"}, {DraftPickID: "TOR-2026-2"}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	})
	if err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}
	if !v.OK {
		t.Fatalf("expected the trade to pass, got %v", v.Errors)
	}

	bos := s.Teams["BOS"]
	if l, ok := bos.ListOf("TOR-F12"); !ok || l != models.ListIR {
		t.Errorf("TOR-F12 should arrive on BOS IR, got %q", l)
	}
	if bos.DraftPickIndex("TOR-2026-2") < 0 || tor.DraftPickIndex("TOR-2026-2") >= 0 {
		t.Errorf("draft pick did not move")
	}
	if tor.Lineup != nil {
		t.Errorf("a lineup naming a traded player should be dropped")
	}
	if err := s.CheckIntegrity(); err != nil {
		t.Errorf("league inconsistent after trade: %v", err)
	}
}

func TestMalformedProposals(t *testing.T) {
	tests := []struct {
		name     string
		proposal models.TradeProposal
		want     error
	}{
		{"unknown team", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "NYR",
			FromPieces: []models.TradePiece{{PlayerID: "star"}}}, models.ErrTeamNotFound},
		{"unknown player", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS",
			FromPieces: []models.TradePiece{{PlayerID: "ghost"}}}, models.ErrPlayerNotFound},
		{"player not held", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS",
			FromPieces: []models.TradePiece{{PlayerID: "BOS-F01"}}}, ErrMalformedProposal},
		{"unknown pick", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS",
			FromPieces: []models.TradePiece{{DraftPickID: "TOR-2030-1"}}}, models.ErrDraftPickNotFound},
		{"both references", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS",
			FromPieces: []models.TradePiece{{PlayerID: "star", DraftPickID: "x"}}}, ErrMalformedProposal},
		{"same team", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "TOR",
			FromPieces: []models.TradePiece{{PlayerID: "star"}}}, ErrMalformedProposal},
		{"empty", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS"}, ErrMalformedProposal},
		{"duplicate piece", models.TradeProposal{FromTeamID: "TOR", ToTeamID: "BOS",
			FromPieces: []models.TradePiece{{PlayerID: "star"}, {PlayerID: "star"}}}, ErrMalformedProposal},
	}

	engine := NewEngine(DefaultPolicy(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoTeamLeague()
			_, err := engine.ValidateTrade(s, tt.proposal)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExpireRetained(t *testing.T) {
	s := twoTeamLeague()
	s.Teams["TOR"].RetainedSalaries = []models.RetainedSalary{
		{PlayerID: "a", CapHitSavings: decimal.NewFromInt(1), RemainingSeasons: 1},
		{PlayerID: "b", CapHitSavings: decimal.NewFromInt(1), RemainingSeasons: 3},
	}

	if dropped := ExpireRetained(s); dropped != 1 {
		t.Errorf("dropped %d records, want 1", dropped)
	}
	kept := s.Teams["TOR"].RetainedSalaries
	if len(kept) != 1 || kept[0].PlayerID != "b" || kept[0].RemainingSeasons != 2 {
		t.Errorf("unexpected remaining records: %+v", kept)
	}
}
