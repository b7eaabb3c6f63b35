package models

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PlayerList represents a slice of players with helper methods
type PlayerList []*Player

// NormalizeName lowercases a name and strips accents so "Stützle" matches "stutzle"
func NormalizeName(name string) string {
	name = strings.ToLower(name)

	// Remove accents
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	return strings.Join(strings.Fields(name), " ")
}

// FilterByPosition returns players listed at a position. "F" matches every forward.
func (pl PlayerList) FilterByPosition(position string) PlayerList {
	pos := Position(strings.ToUpper(strings.TrimSpace(position)))

	var filtered PlayerList
	for _, p := range pl {
		if p.Position == pos || (pos == "F" && p.Position.IsForward()) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Forwards returns centers and wingers
func (pl PlayerList) Forwards() PlayerList {
	return pl.FilterByPosition("F")
}

// Defensemen returns defensemen
func (pl PlayerList) Defensemen() PlayerList {
	return pl.FilterByPosition(string(Defenseman))
}

// Goalies returns goaltenders
func (pl PlayerList) Goalies() PlayerList {
	return pl.FilterByPosition(string(Goaltender))
}

// FilterByAge returns players whose age lies in [minAge, maxAge]; zero bounds are open
func (pl PlayerList) FilterByAge(minAge, maxAge int) PlayerList {
	var filtered PlayerList
	for _, p := range pl {
		if minAge > 0 && p.Age < minAge {
			continue
		}
		if maxAge > 0 && p.Age > maxAge {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// SearchByName returns players whose names contain the search string, ignoring case
// and accents
func (pl PlayerList) SearchByName(search string) PlayerList {
	needle := NormalizeName(search)

	var matches PlayerList
	for _, p := range pl {
		if strings.Contains(NormalizeName(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return matches
}

// FindByExactName returns all players with an exact (normalized) name match
func (pl PlayerList) FindByExactName(name string) PlayerList {
	needle := NormalizeName(name)

	var matches PlayerList
	for _, p := range pl {
		if NormalizeName(p.Name) == needle {
			matches = append(matches, p)
		}
	}
	return matches
}

// SortByOverall sorts players by overall (descending), ties broken by id so the order
// is the same for the same roster
func (pl PlayerList) SortByOverall() {
	sort.SliceStable(pl, func(i, j int) bool {
		if pl[i].Overall != pl[j].Overall {
			return pl[i].Overall > pl[j].Overall
		}
		return pl[i].ID < pl[j].ID
	})
}

// SortByName sorts players alphabetically by name
func (pl PlayerList) SortByName() {
	sort.SliceStable(pl, func(i, j int) bool {
		return pl[i].Name < pl[j].Name
	})
}

// SortByPoints sorts skaters by points, then goals (descending)
func (pl PlayerList) SortByPoints() {
	sort.SliceStable(pl, func(i, j int) bool {
		pi, pj := pl[i].Stats.Points(), pl[j].Stats.Points()
		if pi != pj {
			return pi > pj
		}
		if pl[i].Stats.Goals != pl[j].Stats.Goals {
			return pl[i].Stats.Goals > pl[j].Stats.Goals
		}
		return pl[i].ID < pl[j].ID
	})
}

// TopByOverall returns the top N players by overall without reordering the receiver
func (pl PlayerList) TopByOverall(n int) PlayerList {
	sorted := make(PlayerList, len(pl))
	copy(sorted, pl)
	sorted.SortByOverall()

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// GroupByPosition returns a map of position to players
func (pl PlayerList) GroupByPosition() map[Position]PlayerList {
	grouped := make(map[Position]PlayerList)
	for _, p := range pl {
		grouped[p.Position] = append(grouped[p.Position], p)
	}
	return grouped
}

// Stats represents aggregate statistics for a group of players
type Stats struct {
	Count          int
	AverageOverall float64
	AverageAge     float64
	TotalPoints    int
	TotalGoals     int
}

// GetStats returns aggregate statistics for the player list
func (pl PlayerList) GetStats() Stats {
	stats := Stats{Count: len(pl)}
	if stats.Count == 0 {
		return stats
	}

	overall, age := 0, 0
	for _, p := range pl {
		overall += p.Overall
		age += p.Age
		stats.TotalPoints += p.Stats.Points()
		stats.TotalGoals += p.Stats.Goals
	}
	stats.AverageOverall = float64(overall) / float64(stats.Count)
	stats.AverageAge = float64(age) / float64(stats.Count)

	return stats
}
