package contracts

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

// ContractPage is what a player's contract page says about his current deal
type ContractPage struct {
	PlayerName    string
	Team          string
	Position      string
	ContractTerms string
	AverageSalary string
	Notes         []string
	Seasons       []SeasonRow
	NoMovement    bool
	NoTrade       *models.NoTradeClause
	EntryLevel    bool
}

// SeasonRow is one season of the contract table
type SeasonRow struct {
	Season string
	Age    int
	Status string
	CapHit decimal.Decimal
}

var (
	seasonPattern   = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?$`)
	tradeListPrefix = regexp.MustCompile(`(?i)no-trade list:\s*(.+)$`)
)

func ParseContractPage(body io.Reader) (*ContractPage, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	page := &ContractPage{}

	title := doc.Find("title").Text()
	if strings.Contains(title, "|") {
		page.PlayerName = strings.TrimSpace(strings.Split(title, "|")[0])
	}
	page.Position = strings.TrimSpace(doc.Find("span.player-position").First().Text())
	page.Team = strings.TrimSpace(doc.Find("span.player-team").First().Text())

	// Prefer the wrapper marked (CURRENT); otherwise take the first one
	wrapper := doc.Find("div.contract-wrapper").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.Contains(s.Find("h2").Text(), "(CURRENT)")
	}).First()
	if wrapper.Length() == 0 {
		wrapper = doc.Find("div.contract-wrapper").First()
	}

	header := strings.ToUpper(wrapper.Find("h2").Text())
	page.EntryLevel = strings.Contains(header, "ENTRY-LEVEL") || strings.Contains(header, "ELC")

	wrapper.Find("div.contract-details div.cell").Each(func(j int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("div.label").Text())
		value := strings.TrimSpace(s.Find("div.value").Text())

		switch label {
		case "Contract Terms:":
			page.ContractTerms = value
		case "Average Salary:", "AAV:":
			page.AverageSalary = value
		}
	})

	doc.Find("div.notes ul li").Each(func(i int, s *goquery.Selection) {
		if note := strings.TrimSpace(s.Text()); note != "" {
			page.Notes = append(page.Notes, note)
		}
	})

	page.Seasons = parseSeasonTable(doc)
	page.applyClauses()
	return page, nil
}

// parseSeasonTable reads the first table that has a season column and a cap hit column
func parseSeasonTable(doc *goquery.Document) []SeasonRow {
	var rows []SeasonRow
	found := false

	doc.Find("table").Each(func(tableIdx int, table *goquery.Selection) {
		if found {
			return
		}

		seasonCol, ageCol, statusCol, capCol := -1, -1, -1, -1
		table.Find("thead th").Each(func(i int, s *goquery.Selection) {
			h := strings.ToLower(strings.TrimSpace(s.Text()))
			switch {
			case (strings.Contains(h, "season") || strings.Contains(h, "year")) && seasonCol == -1:
				seasonCol = i
			case strings.Contains(h, "age") && ageCol == -1:
				ageCol = i
			case strings.Contains(h, "status") && statusCol == -1:
				statusCol = i
			case strings.Contains(h, "cap hit") && capCol == -1:
				capCol = i
			}
		})
		if seasonCol < 0 || capCol < 0 {
			return
		}
		found = true

		table.Find("tbody tr").Each(func(rowIdx int, tr *goquery.Selection) {
			var row SeasonRow
			tr.Find("td").Each(func(cellIdx int, cell *goquery.Selection) {
				text := strings.TrimSpace(cell.Text())
				switch cellIdx {
				case seasonCol:
					row.Season = normalizeSeason(text)
				case ageCol:
					row.Age, _ = strconv.Atoi(text)
				case statusCol:
					row.Status = text
				case capCol:
					if amount, err := models.ParseMoney(text); err == nil {
						row.CapHit = amount
					}
				}
			})
			// Only seasons with a cap charge are part of the term
			if row.Season != "" && row.CapHit.IsPositive() {
				rows = append(rows, row)
			}
		})
	})
	return rows
}

// normalizeSeason turns "2025" or "2025-26" into "2025-26"
func normalizeSeason(text string) string {
	m := seasonPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return models.SeasonLabel(year)
}

// applyClauses reads movement clauses from the season statuses and notes. A modified
// clause or a trade list wins over a plain NTC mention.
func (p *ContractPage) applyClauses() {
	var texts []string
	for _, r := range p.Seasons {
		texts = append(texts, r.Status)
	}
	texts = append(texts, p.Notes...)

	var blocked []string
	full, partial := false, false
	for _, t := range texts {
		upper := strings.ToUpper(t)
		if strings.Contains(upper, "NMC") || strings.Contains(upper, "NO-MOVEMENT") {
			p.NoMovement = true
		}
		if strings.Contains(upper, "M-NTC") || strings.Contains(upper, "MODIFIED NTC") {
			partial = true
		} else if strings.Contains(upper, "NTC") || strings.Contains(upper, "NO-TRADE CLAUSE") {
			full = true
		}
		if m := tradeListPrefix.FindStringSubmatch(t); m != nil {
			if c := models.ParseNoTrade(m[1]); c != nil {
				blocked = append(blocked, c.BlockedTeams...)
				partial = true
			}
		}
	}

	switch {
	case partial:
		p.NoTrade = &models.NoTradeClause{BlockedTeams: blocked}
	case full:
		p.NoTrade = &models.NoTradeClause{Full: true}
	}
}

// ToContract converts the page into a league contract for the player
func (p *ContractPage) ToContract(playerID string) (*models.Contract, error) {
	if len(p.Seasons) == 0 {
		return nil, fmt.Errorf("no cap hits found for %s", playerID)
	}
	c := &models.Contract{
		ID:         "c-" + playerID,
		PlayerID:   playerID,
		NoMovement: p.NoMovement,
		NoTrade:    p.NoTrade,
		EntryLevel: p.EntryLevel,
		Notes:      append([]string(nil), p.Notes...),
	}
	for _, r := range p.Seasons {
		c.Seasons = append(c.Seasons, models.SeasonCapHit{Season: r.Season, CapHit: r.CapHit})
	}
	return c, nil
}
