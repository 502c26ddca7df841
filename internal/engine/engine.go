// Package engine is the rules core: pure functions that validate
// scoring actions, advance match state delivery by delivery and detect
// over/innings/match boundaries. Everything here is value-in/value-out
// over in-memory data; validation is advisory and ProcessBall trusts a
// pre-validated delivery.
package engine

import (
	"fmt"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// legalBallsPerOver is the number of deliveries that complete an over;
// wides and no-balls never count toward it.
const legalBallsPerOver = 6

// maxWickets ends an innings when the tenth wicket falls.
const maxWickets = 10

// inningsLog returns the slice of deliveries belonging to the current
// innings of m.
func inningsLog(m *model.Match) []model.Delivery {
	n := m.InningsNumber()
	out := make([]model.Delivery, 0, len(m.Balls))
	for _, d := range m.Balls {
		if d.Innings == n {
			out = append(out, d)
		}
	}
	return out
}

// IsOverComplete reports whether the over currently recorded in the ball
// log has received its six legal deliveries. Wides and no-balls are
// excluded from the count.
func IsOverComplete(m model.Match) bool {
	log := inningsLog(&m)
	if len(log) == 0 {
		return false
	}
	over := log[len(log)-1].Over
	legal := 0
	for _, d := range log {
		if d.Over == over && d.Legal() {
			legal++
		}
	}
	return legal >= legalBallsPerOver
}

// CanBowlerBowlNextOver reports whether bowler may bowl the upcoming
// over. A bowler may not bowl two consecutive overs; the first over of
// an innings has no predecessor and is always permitted.
func CanBowlerBowlNextOver(m model.Match, bowlerID int64) bool {
	prevOver := m.Batting().Overs
	if prevOver == 0 {
		return true
	}
	n := m.InningsNumber()
	for _, d := range m.Balls {
		if d.Innings == n && d.Over == prevOver && d.BowlerID == bowlerID {
			return false
		}
	}
	return true
}

// AvailableBowlers filters the fielding side's roster to bowlers legal
// for the upcoming over: the previous over's bowler is excluded, as are
// both current batsmen. Roster order is preserved.
func AvailableBowlers(m model.Match) []model.Player {
	out := make([]model.Player, 0, len(m.Bowling().Roster))
	for _, p := range m.Bowling().Roster {
		if p.ID == m.StrikerID || p.ID == m.NonStrikerID {
			continue
		}
		if !CanBowlerBowlNextOver(m, p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsInningsComplete reports whether the batting side's innings is over:
// overs exhausted, all ten wickets down, or (second innings only) the
// target strictly exceeded. A score level with the first-innings total
// does not end the innings.
func IsInningsComplete(m model.Match) bool {
	bt := m.Batting()
	if bt.Overs >= m.TotalOvers {
		return true
	}
	if bt.Wickets >= maxWickets {
		return true
	}
	if m.IsSecondInnings() && bt.Score > m.FirstInningsScore {
		return true
	}
	return false
}

// MatchResult describes the outcome of a completed match.
func MatchResult(m model.Match) string {
	chasing := m.Batting()
	defending := m.Bowling()
	switch {
	case chasing.Score > m.FirstInningsScore:
		return resultWonByWickets(chasing.Name, maxWickets-chasing.Wickets)
	case chasing.Score < m.FirstInningsScore:
		return resultWonByRuns(defending.Name, m.FirstInningsScore-chasing.Score)
	default:
		return "Match tied"
	}
}

func resultWonByWickets(team string, wickets int) string {
	unit := "wickets"
	if wickets == 1 {
		unit = "wicket"
	}
	return fmt.Sprintf("%s won by %d %s", team, wickets, unit)
}

func resultWonByRuns(team string, runs int) string {
	unit := "runs"
	if runs == 1 {
		unit = "run"
	}
	return fmt.Sprintf("%s won by %d %s", team, runs, unit)
}
