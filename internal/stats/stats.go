// Package stats folds ball logs into per-player statistics. MatchDelta
// produces one match's contribution; Accumulate adds it onto career
// totals. Both are pure; persistence of the result belongs to callers.
package stats

import (
	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// MatchDelta computes the given player's contribution from a single
// match's ball log. The result is a delta to be added to career totals,
// never a replacement for them.
func MatchDelta(playerID int64, m model.Match) model.PlayerStats {
	var s model.PlayerStats
	if m.Teams[0].HasPlayer(playerID) || m.Teams[1].HasPlayer(playerID) {
		s.Matches = 1
	}

	type overKey struct{ innings, over int }
	overRuns := map[overKey]int{}
	overLegal := map[overKey]int{}

	for _, d := range m.Balls {
		if d.StrikerID == playerID {
			s.Runs += d.BatRuns()
			if d.Legal() {
				s.BallsFaced++
			}
			if !d.Extra() {
				switch d.Runs {
				case 4:
					s.Fours++
				case 6:
					s.Sixes++
				}
			}
			if d.Wicket {
				s.TimesOut++
			}
		}
		if d.BowlerID == playerID {
			if d.Legal() {
				s.BallsBowled++
				if d.Runs == 0 {
					s.DotBalls++
				}
			}
			// Runs conceded include extras off this bowler's deliveries.
			s.RunsConceded += d.Runs
			if d.Wicket && d.WicketKind != model.WicketRunOut {
				s.Wickets++
			}
			k := overKey{d.Innings, d.Over}
			overRuns[k] += d.Runs
			if d.Legal() {
				overLegal[k]++
			}
		}
		if d.Wicket && d.FielderID == playerID {
			switch d.WicketKind {
			case model.WicketCaught:
				s.Catches++
			case model.WicketRunOut:
				s.RunOuts++
			}
		}
	}

	// A maiden is a fully bowled over with nothing conceded.
	for k, legal := range overLegal {
		if legal == 6 && overRuns[k] == 0 {
			s.MaidenOvers++
		}
	}

	s.HighestScore = s.Runs
	if s.TimesOut > 0 && s.Runs == 0 {
		s.Ducks = 1
	}
	switch {
	case s.Runs >= 100:
		s.Hundreds = 1
	case s.Runs >= 50:
		s.Fifties = 1
	}
	if s.BallsBowled > 0 {
		s.BestBowling = model.BowlingBest{Wickets: s.Wickets, Runs: s.RunsConceded}
	}
	if m.ManOfTheMatchID == playerID {
		s.MOTMAwards = 1
	}
	return s
}

// Accumulate adds a match delta onto existing career totals. Counters
// add; highest score and best bowling keep the better figure.
func Accumulate(base, delta model.PlayerStats) model.PlayerStats {
	out := base
	out.Matches += delta.Matches
	out.Runs += delta.Runs
	out.BallsFaced += delta.BallsFaced
	out.Fours += delta.Fours
	out.Sixes += delta.Sixes
	out.Fifties += delta.Fifties
	out.Hundreds += delta.Hundreds
	out.TimesOut += delta.TimesOut
	out.Ducks += delta.Ducks
	out.Wickets += delta.Wickets
	out.BallsBowled += delta.BallsBowled
	out.RunsConceded += delta.RunsConceded
	out.MaidenOvers += delta.MaidenOvers
	out.DotBalls += delta.DotBalls
	out.Catches += delta.Catches
	out.RunOuts += delta.RunOuts
	out.MOTMAwards += delta.MOTMAwards
	if delta.HighestScore > out.HighestScore {
		out.HighestScore = delta.HighestScore
	}
	if delta.BestBowling.BetterThan(out.BestBowling) {
		out.BestBowling = delta.BestBowling
	}
	return out
}
