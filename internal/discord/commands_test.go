package discord

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/contracts"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/leaguetest"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/progression"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/sim"
	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/storage"
)

func testLeague(t *testing.T) *models.LeagueState {
	t.Helper()
	state := leaguetest.NewLeague()
	tor := leaguetest.FullTeam(state, "TOR", 80, 1_000_000)
	leaguetest.FullTeam(state, "BOS", 78, 1_000_000)

	state.Players["TOR-F01"].Name = "Mitch Marner"
	state.Players["BOS-F01"].Name = "David Pastrnak"
	state.Players["BOS-F02"].Name = "Mitchell Marner"
	leaguetest.AddPlayer(state, "", "tim-stutzle", models.Center, 84, 0).Name = "Tim Stützle"

	tor.DraftPicks = []models.DraftPick{{ID: "TOR-2026-R1", Season: "2026-27", Round: 1, OriginalTeamID: "TOR"}}
	return state
}

func TestSplitFlags(t *testing.T) {
	flags, rest := splitFlags([]string{"Maple", "--seed=42", "Leafs", "--COMMIT", "--list=ir"})
	want := map[string]string{"seed": "42", "commit": "true", "list": "ir"}
	if !reflect.DeepEqual(flags, want) {
		t.Errorf("flags = %v, want %v", flags, want)
	}
	if !reflect.DeepEqual(rest, []string{"Maple", "Leafs"}) {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseTradeSide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    tradeSide
		wantErr bool
	}{
		{
			name:  "player with retention and pick",
			input: "Mitch Marner (retain 25%), pick tor-2026-r1",
			want: tradeSide{Entries: []tradeEntry{
				{Name: "Mitch Marner", Retention: 0.25},
				{PickID: "TOR-2026-R1"},
			}},
		},
		{
			name:  "team prefix",
			input: "bos: David Pastrnak",
			want:  tradeSide{TeamID: "BOS", Entries: []tradeEntry{{Name: "David Pastrnak"}}},
		},
		{
			name:  "team with nothing",
			input: "BOS:",
			want:  tradeSide{TeamID: "BOS"},
		},
		{name: "zero retention", input: "Marner (retain 0%)", wantErr: true},
		{name: "unreadable retention", input: "Marner (retain lots)", wantErr: true},
		{name: "team prefix with spaces", input: "New York: Fox", wantErr: true},
		{name: "retention without a name", input: "(retain 10%)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTradeSide(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTradeSide(%q) = %+v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTradeSide(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTradeSide(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTrade(t *testing.T) {
	left, right, err := parseTrade("Marner FOR Pastrnak, pick BOS-2026-R2")
	if err != nil {
		t.Fatalf("parseTrade: %v", err)
	}
	if len(left.Entries) != 1 || len(right.Entries) != 2 {
		t.Errorf("sides = %+v / %+v", left, right)
	}

	for _, bad := range []string{"Marner", "a for b for c", "TOR: for BOS:"} {
		if _, _, err := parseTrade(bad); err == nil {
			t.Errorf("parseTrade(%q) succeeded, want error", bad)
		}
	}
}

func TestResolveTrade(t *testing.T) {
	state := testLeague(t)

	resolve := func(input string) (models.TradeProposal, []string) {
		t.Helper()
		left, right, err := parseTrade(input)
		if err != nil {
			t.Fatalf("parseTrade(%q): %v", input, err)
		}
		return resolveTrade(state, left, right)
	}

	p, problems := resolve("Mitch Marner (retain 25%), pick TOR-2026-R1 for David Pastrnak")
	if len(problems) > 0 {
		t.Fatalf("problems = %v", problems)
	}
	want := models.TradeProposal{
		FromTeamID: "TOR",
		ToTeamID:   "BOS",
		FromPieces: []models.TradePiece{{PlayerID: "TOR-F01", Retention: 0.25}, {DraftPickID: "TOR-2026-R1"}},
		ToPieces:   []models.TradePiece{{PlayerID: "BOS-F01"}},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("proposal = %+v, want %+v", p, want)
	}
	if got := describeTrade(state, p); got != "TOR: Mitch Marner (retain 25%), pick TOR-2026-R1 for BOS: David Pastrnak" {
		t.Errorf("describeTrade = %q", got)
	}

	p, problems = resolve("TOR: Marner for Pastrnak")
	if len(problems) > 0 || p.FromPieces[0].PlayerID != "TOR-F01" {
		t.Errorf("team prefix did not disambiguate: %+v %v", p, problems)
	}

	p, problems = resolve("Mitch Marner for BOS:")
	if len(problems) > 0 || p.ToTeamID != "BOS" || len(p.ToPieces) != 0 {
		t.Errorf("one-sided trade = %+v %v", p, problems)
	}

	failures := map[string]string{
		"Marner for Pastrnak":                      "matches 2 players",
		"Tim Stützle for Pastrnak":                 "not on a team",
		"Mitch Marner, David Pastrnak for BOS:":    "belongs to BOS, not TOR",
		"Mitch Marner for TOR:":                    "both sides belong to TOR",
		"pick NYR-2027-R1 for David Pastrnak":      "no team holds pick NYR-2027-R1",
		"Connor McDavid for David Pastrnak":        "Connor McDavid not found",
		"NYR: pick NYR-2027-R1 for David Pastrnak": "unknown team NYR",
	}
	for input, want := range failures {
		_, problems := resolve(input)
		if !strings.Contains(strings.Join(problems, "; "), want) {
			t.Errorf("resolve(%q) problems = %v, want one containing %q", input, problems, want)
		}
	}
}

func TestParseSimArgs(t *testing.T) {
	req, err := parseSimArgs(strings.Fields("TOR vs BOS"))
	if err != nil || req.Home != "TOR" || req.Away != "BOS" || req.Commit || req.Seed != nil {
		t.Errorf("vs = %+v, %v", req, err)
	}

	req, err = parseSimArgs(strings.Fields("TOR @ BOS --ot=no"))
	if err != nil || req.Home != "BOS" || req.Away != "TOR" || req.Overtime == nil || *req.Overtime {
		t.Errorf("@ = %+v, %v", req, err)
	}

	req, err = parseSimArgs(strings.Fields("Toronto Club vs. Boston --seed=42 --commit"))
	if err != nil || req.Home != "Toronto Club" || req.Away != "Boston" || !req.Commit || req.Seed == nil || *req.Seed != 42 {
		t.Errorf("named = %+v, %v", req, err)
	}

	for _, bad := range []string{"TOR", "TOR vs BOS --seed=-1", "TOR vs BOS --commit=maybe", "TOR vs BOS --ot=sometimes"} {
		if _, err := parseSimArgs(strings.Fields(bad)); err == nil {
			t.Errorf("parseSimArgs(%q) succeeded, want error", bad)
		}
	}
}

func TestParseProgressArgs(t *testing.T) {
	req, err := parseProgressArgs([]string{"--team=tor", "--seed=7"})
	if err != nil || req.TeamID != "TOR" || req.Seed == nil || *req.Seed != 7 || req.Commit {
		t.Errorf("req = %+v, %v", req, err)
	}

	for _, bad := range [][]string{{"--team=TOR", "--commit"}, {"everyone"}, {"--seed=x"}} {
		if _, err := parseProgressArgs(bad); err == nil {
			t.Errorf("parseProgressArgs(%v) succeeded, want error", bad)
		}
	}
}

func TestFindTeam(t *testing.T) {
	state := testLeague(t)

	for _, q := range []string{"tor", "TOR Club", " tor club "} {
		if team, _ := findTeam(state, q); team == nil || team.ID != "TOR" {
			t.Errorf("findTeam(%q) = %v, want TOR", q, team)
		}
	}
	if team, _ := findTeam(state, "bos cl"); team == nil || team.ID != "BOS" {
		t.Errorf("partial name did not resolve: %v", team)
	}

	team, suggestions := findTeam(state, "Club")
	if team != nil || len(suggestions) != 2 {
		t.Errorf("ambiguous name = %v, %v", team, suggestions)
	}
	team, suggestions = findTeam(state, "Rangers")
	if team != nil || len(suggestions) != 0 {
		t.Errorf("unknown name = %v, %v", team, suggestions)
	}
}

func TestFindPlayers(t *testing.T) {
	state := testLeague(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"mitch marner", []string{"TOR-F01"}},
		{"Tim Stutzle", []string{"tim-stutzle"}},
		{"BOS-F03", []string{"BOS-F03"}},
		{"marner", []string{"BOS-F02", "TOR-F01"}},
		{"gretzky", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range findPlayers(state, tt.query) {
			got = append(got, p.ID)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("findPlayers(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestApplyContractPage(t *testing.T) {
	state := testLeague(t)
	page := &contracts.ContractPage{
		PlayerName: "Mitch Marner",
		NoMovement: true,
		Seasons: []contracts.SeasonRow{
			{Season: "2025-26", CapHit: decimal.NewFromInt(12_000_000)},
			{Season: "2026-27", CapHit: decimal.NewFromInt(12_000_000)},
		},
	}

	p := state.Players["TOR-F01"]
	c, err := applyContractPage(state, p, page)
	if err != nil {
		t.Fatalf("applyContractPage: %v", err)
	}
	if c.ID != "c-TOR-F01" || p.ContractID != c.ID || state.Contracts[c.ID] != c {
		t.Errorf("contract id = %q, player points at %q", c.ID, p.ContractID)
	}
	if len(c.Seasons) != 2 || !c.NoMovement || !c.Seasons[0].CapHit.Equal(decimal.NewFromInt(12_000_000)) {
		t.Errorf("contract = %+v", c)
	}

	fa := state.Players["tim-stutzle"]
	if c, err := applyContractPage(state, fa, page); err != nil || fa.ContractID != "c-tim-stutzle" || c.PlayerID != fa.ID {
		t.Errorf("free agent contract = %+v, %v", c, err)
	}

	if _, err := applyContractPage(state, p, &contracts.ContractPage{}); err == nil {
		t.Error("empty page accepted")
	}
}

func TestParseImportArgs(t *testing.T) {
	name, url, err := parseImportArgs("Mitch Marner | https://example.com/marner")
	if err != nil || name != "Mitch Marner" || url != "https://example.com/marner" {
		t.Errorf("got %q %q %v", name, url, err)
	}
	for _, bad := range []string{"Mitch Marner", "| https://example.com", "Marner |"} {
		if _, _, err := parseImportArgs(bad); err == nil {
			t.Errorf("parseImportArgs(%q) succeeded", bad)
		}
	}
}

func TestUserLimits(t *testing.T) {
	limits := newUserLimits(2)
	if !limits.Allow("alice") || !limits.Allow("alice") {
		t.Fatal("burst should allow two commands")
	}
	if limits.Allow("alice") {
		t.Error("third command in a row was allowed")
	}
	if !limits.Allow("bob") {
		t.Error("limits are shared between users")
	}
}

func TestNotableChanges(t *testing.T) {
	changes := []progression.Change{
		{PlayerID: "a", Delta: 1},
		{PlayerID: "b", Delta: -4},
		{PlayerID: "c", Delta: 4},
		{PlayerID: "d", Delta: 0},
	}
	got := notableChanges(changes, 3)
	var ids []string
	for _, c := range got {
		ids = append(ids, c.PlayerID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "c", "a"}) {
		t.Errorf("order = %v", ids)
	}
	if changes[0].PlayerID != "a" {
		t.Error("input was reordered")
	}
}

func TestFormatStandings(t *testing.T) {
	state := testLeague(t)
	state.Teams["BOS"].Record = models.TeamRecord{GamesPlayed: 2, Wins: 2, GoalsFor: 7, GoalsAgainst: 3}
	state.Teams["TOR"].Record = models.TeamRecord{GamesPlayed: 2, Losses: 1, OTLosses: 1, GoalsFor: 3, GoalsAgainst: 7}

	lines := strings.Split(strings.TrimSpace(formatStandings(sim.Standings(state))), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.HasPrefix(lines[1], "1   BOS") || !strings.HasSuffix(lines[1], "+4") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2   TOR") || !strings.HasSuffix(lines[2], "-4") {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestFormatMinute(t *testing.T) {
	for minute, want := range map[float64]string{47.5: "47:30", 0.25: "00:15", 62: "62:00"} {
		if got := formatMinute(minute); got != want {
			t.Errorf("formatMinute(%v) = %q, want %q", minute, got, want)
		}
	}
}

func TestTruncateField(t *testing.T) {
	long := strings.Repeat("a line of roster text\n", 100)
	got := truncateField(long)
	if len(got) > 1024 || !strings.HasSuffix(got, "\n...") {
		t.Errorf("truncated to %d chars, suffix %q", len(got), got[len(got)-4:])
	}
	if truncateField("short") != "short" {
		t.Error("short value changed")
	}
}

func TestFormatTeamGames(t *testing.T) {
	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	games := []storage.GameRecord{
		{ID: "g1", PlayedAt: day, HomeID: "TOR", AwayID: "BOS", HomeGoals: 3, AwayGoals: 2},
		{ID: "g2", PlayedAt: day.Add(48 * time.Hour), HomeID: "BOS", AwayID: "TOR", HomeGoals: 4, AwayGoals: 3, WentToOT: true},
		{ID: "g3", PlayedAt: day.Add(24 * time.Hour), HomeID: "MTL", AwayID: "TOR", HomeGoals: 5, AwayGoals: 1},
		{ID: "g4", PlayedAt: day.Add(72 * time.Hour), HomeID: "MTL", AwayID: "BOS", HomeGoals: 1, AwayGoals: 2},
	}
	byTeam := storage.GroupGamesByTeam(games)

	lines := strings.Split(strings.TrimSpace(formatTeamGames("TOR", byTeam["TOR"], 2)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected the 2 newest games, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "2025-10-12") || !strings.Contains(lines[0], "TOR 3 @ BOS 4 (OT)") || !strings.HasSuffix(lines[0], "OTL") {
		t.Errorf("newest line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "TOR 1 @ MTL 5") || !strings.HasSuffix(lines[1], " L") {
		t.Errorf("second line = %q", lines[1])
	}

	all := formatTeamGames("TOR", byTeam["TOR"], 10)
	if !strings.HasSuffix(strings.TrimSpace(all), "W") {
		t.Errorf("oldest TOR game was a win:\n%s", all)
	}

	counts := formatGameCounts(byTeam)
	want := "BOS     3\nMTL     2\nTOR     3\n"
	if counts != want {
		t.Errorf("counts =\n%q, want\n%q", counts, want)
	}
}

func TestTradePieceLinesShowRetention(t *testing.T) {
	state := testLeague(t)
	state.Contracts["c-TOR-F01"].Seasons[0].CapHit = decimal.NewFromInt(10_000_000)

	got := formatPieceLines(state, []models.TradePiece{{PlayerID: "TOR-F01", Retention: 0.2}})
	if !strings.Contains(got, "20% retained") || !strings.Contains(got, "off the sender's cap") {
		t.Errorf("piece line = %q", got)
	}
}

