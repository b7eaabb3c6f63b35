package sheets

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

const teamsCSV = `id,name,conference,division,picks
TOR,Toronto,East,Atlantic,2026:1|2026:2
BOS,Boston,East,Atlantic,
`

const playersCSV = `team,id,name,pos,age,ovr,pot,tier,curve,list,nmc,ntc,elc,shooting,passing,skating,defense,physical,iq,reflexes,positioning,rebound_control,stamina,2025-26,2026-27
TOR,mm16,Mitch Marner,RW,28,90,91,HIGH,,active,,BOS|MTL,,91,93,89,80,65,94,,,,,"$10,903,000","$10,903,000"
TOR,,Tim Stützle,C,23,86,92,ELITE,EARLY,ir,,,,88,87,90,75,70,86,,,,,"$8,350,000",
BOS,js1,Jeremy Swayman,G,26,87,90,HIGH,LATE,,yes,full,,,,,,,,89,87,84,88,$8.25M,$8.25M
FA,fa1,Free Agent,D,31,70,70,LOW,,,,,,,,,,,,,,,,,
NYR,r1,Rookie,D,20,72,85,MED,,nonroster,,,y,60,70,72,74,70,73,,,,,"$950,000",
,,,,,,,,,,,,,,,,,,,,,,,,
TOR,bad1,Broken,XX,25,70,75,,,,,,,,,,,,,,,,,,
`

func buildFixture(t *testing.T) (*models.LeagueState, []error) {
	t.Helper()
	teams, err := ReadCSV(strings.NewReader(teamsCSV))
	if err != nil {
		t.Fatalf("ReadCSV teams: %v", err)
	}
	players, err := ReadCSV(strings.NewReader(playersCSV))
	if err != nil {
		t.Fatalf("ReadCSV players: %v", err)
	}
	state, skipped, err := BuildLeague(models.DefaultSeasonInfo("2025-26"), teams, players)
	if err != nil {
		t.Fatalf("BuildLeague: %v", err)
	}
	return state, skipped
}

func TestBuildLeague(t *testing.T) {
	state, skipped := buildFixture(t)

	if len(skipped) != 1 || !strings.Contains(skipped[0].Error(), "unknown position") {
		t.Fatalf("skipped = %v, want one unknown position row", skipped)
	}
	if len(state.Players) != 5 {
		t.Fatalf("players = %d, want 5", len(state.Players))
	}

	tor := state.Teams["TOR"]
	if tor == nil || tor.Name != "Toronto" || tor.Division != "Atlantic" {
		t.Fatalf("TOR = %+v", tor)
	}
	if len(tor.DraftPicks) != 2 || tor.DraftPicks[1].ID != "TOR-2026-R2" || tor.DraftPicks[1].Season != "2026-27" {
		t.Errorf("TOR picks = %+v", tor.DraftPicks)
	}
	if l, ok := tor.ListOf("tim-stutzle"); !ok || l != models.ListIR {
		t.Errorf("Stützle list = %q, %v (id derived from the folded name)", l, ok)
	}

	if _, ok := state.Teams["NYR"]; !ok {
		t.Errorf("team referenced only by a player was not created")
	}
	if l, _ := state.Teams["NYR"].ListOf("r1"); l != models.ListNonRoster {
		t.Errorf("rookie list = %q", l)
	}
	if _, ok := state.TeamOf("fa1"); ok {
		t.Errorf("free agent should not be rostered")
	}
}

func TestBuildLeagueContracts(t *testing.T) {
	state, _ := buildFixture(t)

	marner := state.ContractFor("mm16")
	if marner == nil || len(marner.Seasons) != 2 {
		t.Fatalf("Marner contract = %+v", marner)
	}
	if !marner.Seasons[0].CapHit.Equal(decimal.NewFromInt(10_903_000)) {
		t.Errorf("Marner cap hit = %s", marner.Seasons[0].CapHit)
	}
	if !marner.NoTrade.Blocks("MTL") || marner.NoTrade.Blocks("NYR") || marner.NoMovement {
		t.Errorf("Marner clauses = %+v nmc=%v", marner.NoTrade, marner.NoMovement)
	}

	sway := state.ContractFor("js1")
	if sway == nil || !sway.NoMovement || sway.NoTrade == nil || !sway.NoTrade.Full {
		t.Fatalf("Swayman contract = %+v", sway)
	}
	if !sway.Seasons[1].CapHit.Equal(decimal.NewFromInt(8_250_000)) {
		t.Errorf("Swayman cap hit = %s", sway.Seasons[1].CapHit)
	}

	if state.ContractFor("fa1") != nil {
		t.Errorf("free agent without cap hits should have no contract")
	}
	if c := state.ContractFor("r1"); c == nil || !c.EntryLevel {
		t.Errorf("rookie contract = %+v", c)
	}
}

func TestBuildLeagueRatings(t *testing.T) {
	state, _ := buildFixture(t)

	sway := state.Players["js1"]
	if sway.PotentialTier != models.TierHigh || sway.GrowthCurve != models.CurveLate {
		t.Errorf("Swayman tier/curve = %s/%s", sway.PotentialTier, sway.GrowthCurve)
	}
	if len(sway.Attributes) != 4 || sway.Attributes[models.Reflexes] != 89 {
		t.Errorf("goalie attributes = %v", sway.Attributes)
	}
	if _, ok := sway.Attributes[models.Shooting]; ok {
		t.Errorf("goalie picked up a skater attribute")
	}

	marner := state.Players["mm16"]
	if marner.PotentialTier != models.TierHigh || marner.GrowthCurve != models.CurveStandard {
		t.Errorf("Marner tier/curve = %s/%s", marner.PotentialTier, marner.GrowthCurve)
	}
	if marner.Attributes[models.IQ] != 94 || marner.Potential != 91 {
		t.Errorf("Marner = %+v", marner)
	}
}

func TestBuildLeagueRejectsDuplicateIDs(t *testing.T) {
	players, _ := ReadCSV(strings.NewReader("team,id,name,pos,age,ovr\nTOR,x,One,C,25,70\nBOS,x,Two,C,25,71\n"))
	state, skipped, err := BuildLeague(models.DefaultSeasonInfo("2025-26"), nil, players)
	if err != nil {
		t.Fatalf("BuildLeague: %v", err)
	}
	if len(skipped) != 1 || state.Players["x"].Name != "One" {
		t.Fatalf("skipped = %v, player = %+v", skipped, state.Players["x"])
	}
}

func TestBuildLeagueNeedsPlayers(t *testing.T) {
	if _, _, err := BuildLeague(models.DefaultSeasonInfo("2025-26"), nil, [][]string{{"name"}}); err == nil {
		t.Fatalf("expected error for a players sheet without rows")
	}
}
