// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior here is
// construction-time validation of deliveries and small derived helpers.
package model

import (
	"fmt"
	"time"
)

// Player is a participant shared across matches. Career stats are
// accumulated after every completed match, never replaced.
type Player struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	ShortName string      `json:"short_name,omitempty"`
	PhotoURL  string      `json:"photo_url,omitempty"`
	InGroup   bool        `json:"in_group"`
	Stats     PlayerStats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BowlingBest is a wickets/runs pair with a defined comparison order:
// more wickets wins, equal wickets with fewer runs wins.
type BowlingBest struct {
	Wickets int `json:"wickets"`
	Runs    int `json:"runs"`
}

// BetterThan reports whether b beats o under the best-figures ordering.
func (b BowlingBest) BetterThan(o BowlingBest) bool {
	if b.Wickets != o.Wickets {
		return b.Wickets > o.Wickets
	}
	return b.Wickets > 0 && b.Runs < o.Runs
}

// PlayerStats holds cumulative career counters. Every field is
// monotonically non-decreasing outside the in-match undo path.
type PlayerStats struct {
	Matches      int         `json:"matches"`
	Runs         int         `json:"runs"`
	BallsFaced   int         `json:"balls_faced"`
	Fours        int         `json:"fours"`
	Sixes        int         `json:"sixes"`
	Fifties      int         `json:"fifties"`
	Hundreds     int         `json:"hundreds"`
	HighestScore int         `json:"highest_score"`
	TimesOut     int         `json:"times_out"`
	Ducks        int         `json:"ducks"`
	Wickets      int         `json:"wickets"`
	BallsBowled  int         `json:"balls_bowled"`
	RunsConceded int         `json:"runs_conceded"`
	MaidenOvers  int         `json:"maiden_overs"`
	DotBalls     int         `json:"dot_balls"`
	BestBowling  BowlingBest `json:"best_bowling"`
	Catches      int         `json:"catches"`
	RunOuts      int         `json:"run_outs"`
	MOTMAwards   int         `json:"motm_awards"`
}

// WicketKind enumerates dismissal types.
type WicketKind string

const (
	WicketBowled    WicketKind = "bowled"
	WicketCaught    WicketKind = "caught"
	WicketLBW       WicketKind = "lbw"
	WicketRunOut    WicketKind = "run_out"
	WicketStumped   WicketKind = "stumped"
	WicketHitWicket WicketKind = "hit_wicket"
)

// ValidWicketKind reports whether k names a known dismissal.
func ValidWicketKind(k WicketKind) bool {
	switch k {
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped, WicketHitWicket:
		return true
	}
	return false
}

// Extras is the per-innings extras breakdown. Wides and no-balls count
// occurrences; byes and leg-byes count run volume, matching on-field
// scoring conventions.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
}

// Total sums the extras breakdown.
func (e Extras) Total() int { return e.Wides + e.NoBalls + e.Byes + e.LegByes }

// TeamInnings is one team's state during its innings.
type TeamInnings struct {
	Name    string   `json:"name"`
	Roster  []Player `json:"roster"`
	Score   int      `json:"score"`
	Wickets int      `json:"wickets"`
	// Overs is the completed-overs count; Balls is balls into the
	// current over and stays in [0,5].
	Overs  int    `json:"overs"`
	Balls  int    `json:"balls"`
	Extras Extras `json:"extras"`
}

// OversDisplay renders the conventional O.B notation, e.g. "4.2".
func (t TeamInnings) OversDisplay() string {
	return fmt.Sprintf("%d.%d", t.Overs, t.Balls)
}

// HasPlayer reports whether id appears on the roster.
func (t TeamInnings) HasPlayer(id int64) bool {
	for _, p := range t.Roster {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Phase is the match lifecycle state. Transitions are strictly linear:
// FirstInnings -> InningsBreak -> SecondInnings -> Completed.
type Phase string

const (
	PhaseFirstInnings  Phase = "first_innings"
	PhaseInningsBreak  Phase = "innings_break"
	PhaseSecondInnings Phase = "second_innings"
	PhaseCompleted     Phase = "completed"
)

// Match is the root aggregate: two team-innings slots, transition
// metadata and the full ball log. Engine transitions treat it as a
// value; callers get a new Match back from every state change.
type Match struct {
	ID    int64          `json:"id"`
	Teams [2]TeamInnings `json:"teams"`
	// BattingIdx selects which Teams slot is batting; it flips once,
	// at the innings break.
	BattingIdx        int        `json:"batting_idx"`
	TotalOvers        int        `json:"total_overs"`
	TossWinner        string     `json:"toss_winner"`
	TossDecision      string     `json:"toss_decision"` // bat, bowl
	Phase             Phase      `json:"phase"`
	FirstInningsScore int        `json:"first_innings_score"`
	StrikerID         int64      `json:"striker_id"`
	NonStrikerID      int64      `json:"non_striker_id"`
	BowlerID          int64      `json:"bowler_id"`
	PrevBowlerID      int64      `json:"prev_bowler_id"`
	Winner            string     `json:"winner,omitempty"`
	ManOfTheMatchID   int64      `json:"man_of_the_match_id,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	Balls             []Delivery `json:"balls"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Batting returns the team-innings currently batting.
func (m *Match) Batting() *TeamInnings { return &m.Teams[m.BattingIdx] }

// Bowling returns the team-innings currently fielding.
func (m *Match) Bowling() *TeamInnings { return &m.Teams[1-m.BattingIdx] }

// InningsNumber is 1 during the first innings and 2 afterwards.
func (m *Match) InningsNumber() int {
	if m.Phase == PhaseFirstInnings {
		return 1
	}
	return 2
}

// IsSecondInnings reports whether the chase is underway (or done).
func (m *Match) IsSecondInnings() bool {
	return m.Phase == PhaseSecondInnings || m.Phase == PhaseCompleted
}

// Completed reports whether the match has reached its terminal phase.
func (m *Match) Completed() bool { return m.Phase == PhaseCompleted }
