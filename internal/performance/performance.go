// Package performance ranks the players of a completed match from its
// ball log alone and selects the man of the match. Scores accumulate
// rule by rule, batting, bowling and fielding contributions summed into
// one total per player.
package performance

import (
	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// Score is one player's performance breakdown for a single match.
type Score struct {
	PlayerID int64   `json:"player_id"`
	Batting  float64 `json:"batting"`
	Bowling  float64 `json:"bowling"`
	Fielding float64 `json:"fielding"`
	Total    float64 `json:"total"`
}

// matchFigures is the per-player slice of the ball log the scoring
// rules run over.
type matchFigures struct {
	runs, ballsFaced, fours, sixes int
	dismissed                      bool
	wickets, ballsBowled           int
	runsConceded, dots             int
	catches, runOuts, stumpings    int
}

func collect(m model.Match, playerID int64) matchFigures {
	var f matchFigures
	for _, d := range m.Balls {
		if d.StrikerID == playerID {
			f.runs += d.BatRuns()
			if d.Legal() {
				f.ballsFaced++
			}
			if !d.Extra() {
				switch d.Runs {
				case 4:
					f.fours++
				case 6:
					f.sixes++
				}
			}
			if d.Wicket {
				f.dismissed = true
			}
		}
		if d.BowlerID == playerID {
			if d.Legal() {
				f.ballsBowled++
				if d.Runs == 0 {
					f.dots++
				}
			}
			f.runsConceded += d.Runs
			if d.Wicket && d.WicketKind != model.WicketRunOut {
				f.wickets++
			}
		}
		if d.Wicket && d.FielderID == playerID {
			switch d.WicketKind {
			case model.WicketCaught:
				f.catches++
			case model.WicketRunOut:
				f.runOuts++
			case model.WicketStumped:
				f.stumpings++
			}
		}
	}
	return f
}

// PlayerScore computes one player's batting, bowling and fielding
// sub-scores for the match.
func PlayerScore(m model.Match, playerID int64) Score {
	f := collect(m, playerID)
	s := Score{PlayerID: playerID}
	s.Batting = battingPoints(f)
	s.Bowling = bowlingPoints(f)
	s.Fielding = fieldingPoints(f)
	s.Total = s.Batting + s.Bowling + s.Fielding
	return s
}

func battingPoints(f matchFigures) float64 {
	runs := float64(f.runs)
	pts := 1.5 * runs

	if f.ballsFaced > 0 {
		sr := runs / float64(f.ballsFaced) * 100
		switch {
		case sr >= 150:
			pts += 0.4 * runs
		case sr >= 120:
			pts += 0.2 * runs
		case sr < 80 && f.ballsFaced >= 10:
			pts -= 0.1 * runs
		}
	}

	switch {
	case f.runs >= 100:
		pts += 50
	case f.runs >= 50:
		pts += 25
	case f.runs >= 30:
		pts += 10
	}

	pts += 2 * float64(f.fours)
	pts += 4 * float64(f.sixes)

	if !f.dismissed && f.runs >= 20 {
		pts += 10
	}
	if f.dismissed && f.runs == 0 {
		pts -= 10
	}
	return pts
}

func bowlingPoints(f matchFigures) float64 {
	pts := 25 * float64(f.wickets)

	if f.ballsBowled > 0 {
		economy := float64(f.runsConceded) / float64(f.ballsBowled) * 6
		switch {
		case economy <= 4:
			pts += 20
		case economy <= 6:
			pts += 10
		case economy >= 10:
			pts -= 10
		}

		dotPct := float64(f.dots) / float64(f.ballsBowled) * 100
		switch {
		case dotPct >= 60:
			pts += 15
		case dotPct >= 40:
			pts += 8
		}
	}

	switch {
	case f.wickets >= 5:
		pts += 30
	case f.wickets >= 3:
		pts += 15
	}
	return pts
}

func fieldingPoints(f matchFigures) float64 {
	return 8*float64(f.catches) + 12*float64(f.runOuts) + 10*float64(f.stumpings)
}

// SelectManOfTheMatch scores every rostered player and returns the one
// with the strictly highest total. Ties resolve to the lowest player ID
// so the award is deterministic for a fixed ball log. The second return
// is false when no players are rostered.
func SelectManOfTheMatch(m model.Match) (Score, bool) {
	seen := map[int64]bool{}
	var best Score
	found := false
	for _, team := range m.Teams {
		for _, p := range team.Roster {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			s := PlayerScore(m, p.ID)
			if !found || s.Total > best.Total || (s.Total == best.Total && s.PlayerID < best.PlayerID) {
				best = s
				found = true
			}
		}
	}
	return best, found
}
