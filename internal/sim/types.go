package sim

// Options tune a single game
type Options struct {
	Overtime *bool   // Forces whether a tied game goes to overtime
	Seed     *uint64 // Replays the game exactly when set
}

// GoalEvent is one goal in the order it was scored. ScorerID is empty when nobody was on
// the ice to credit.
type GoalEvent struct {
	Minute    float64  `json:"minute"`
	TeamID    string   `json:"teamId"`
	ScorerID  string   `json:"scorerId,omitempty"`
	AssistIDs []string `json:"assistIds,omitempty"`
	PowerPlay bool     `json:"powerPlay,omitempty"`
	Overtime  bool     `json:"overtime,omitempty"`
}

// GoalieLine is the starting goalie's line for one game
type GoalieLine struct {
	GoalieID   string `json:"goalieId,omitempty"`
	ShotsFaced int    `json:"shotsFaced"`
	Saves      int    `json:"saves"`
}

// TeamBox is one team's half of the box score
type TeamBox struct {
	TeamID    string     `json:"teamId"`
	Goals     int        `json:"goals"`
	Shots     int        `json:"shots"`
	Hits      int        `json:"hits"`
	PPOpps    int        `json:"ppOpportunities"`
	LineShots []int      `json:"lineShots"` // Per forward line, in line order
	Goalie    GoalieLine `json:"goalie"`
}

// BoxScore is the full record of a simulated game
type BoxScore struct {
	Home     TeamBox     `json:"home"`
	Away     TeamBox     `json:"away"`
	Goals    []GoalEvent `json:"goals"`
	WentToOT bool        `json:"wentToOT"`
	Seed     uint64      `json:"seed"`
}

// GameResult is what SimulateGame returns
type GameResult struct {
	BoxScore  BoxScore `json:"boxScore"`
	HomeGoals int      `json:"homeGoals"`
	AwayGoals int      `json:"awayGoals"`
	WentToOT  bool     `json:"wentToOT"`
}

// Winner returns the id of the team that won
func (r *GameResult) Winner() string {
	if r.HomeGoals > r.AwayGoals {
		return r.BoxScore.Home.TeamID
	}
	return r.BoxScore.Away.TeamID
}
