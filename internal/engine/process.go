package engine

import (
	"slices"
	"time"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/performance"
)

// Events carries the boundary conditions raised by a single transition.
// The caller is responsible for acting on the required-selection flags
// before feeding the next delivery.
type Events struct {
	WicketFell      bool `json:"wicket_fell"`
	OverComplete    bool `json:"over_complete"`
	InningsComplete bool `json:"innings_complete"`
	MatchComplete   bool `json:"match_complete"`
	NeedNewBatsman  bool `json:"need_new_batsman"`
	NeedNewBowler   bool `json:"need_new_bowler"`
}

// ProcessBall is the single state-transition function. It stamps the
// delivery with its position in the log, applies its effects to the
// batting side, rotates strike, and fires the over/innings/match
// boundary checks. The input match is not mutated; the returned match
// carries the appended log.
//
// The delivery is assumed pre-validated (model.Delivery.Validate plus
// the advisory legality checks); ProcessBall does not re-validate.
func ProcessBall(m model.Match, d model.Delivery) (model.Match, Events) {
	var ev Events
	bt := m.Batting()

	d.MatchID = m.ID
	d.Innings = m.InningsNumber()
	d.Over = bt.Overs + 1
	d.BallInOver = bt.Balls + 1
	m.Balls = append(slices.Clone(m.Balls), d)

	// Runs already encode the full value of the ball, extras included.
	bt.Score += d.Runs

	switch {
	case d.Wide:
		bt.Extras.Wides++
	case d.NoBall:
		bt.Extras.NoBalls++
	case d.Bye:
		bt.Extras.Byes += d.Runs
	case d.LegBye:
		bt.Extras.LegByes += d.Runs
	}

	if d.Wicket {
		bt.Wickets++
		ev.WicketFell = true
		// The striker on the record is the one dismissed; their slot
		// empties and the replacement fills it after rotation settles.
		if m.StrikerID == d.StrikerID {
			m.StrikerID = 0
		} else if m.NonStrikerID == d.StrikerID {
			m.NonStrikerID = 0
		}
	}

	if d.Legal() {
		bt.Balls++
		if bt.Balls == legalBallsPerOver {
			// Over rollover is atomic with the delivery that triggers
			// it, and end-of-over rotation is mandatory regardless of
			// the last ball's run value.
			bt.Overs++
			bt.Balls = 0
			m.StrikerID, m.NonStrikerID = m.NonStrikerID, m.StrikerID
			ev.OverComplete = true
		} else if d.Runs%2 == 1 {
			m.StrikerID, m.NonStrikerID = m.NonStrikerID, m.StrikerID
		}
	} else if d.Runs > 1 {
		// Extra runs were run beyond the automatic award for the
		// infraction; the batsmen crossed.
		m.StrikerID, m.NonStrikerID = m.NonStrikerID, m.StrikerID
	}

	if ev.OverComplete {
		m.PrevBowlerID = m.BowlerID
		m.BowlerID = 0
	}

	if IsInningsComplete(m) {
		ev.InningsComplete = true
		switch m.Phase {
		case model.PhaseFirstInnings:
			m.Phase = model.PhaseInningsBreak
		case model.PhaseSecondInnings:
			m = complete(m)
			ev.MatchComplete = true
		}
	}

	ev.NeedNewBatsman = ev.WicketFell && !ev.InningsComplete
	ev.NeedNewBowler = ev.OverComplete && !ev.InningsComplete
	return m, ev
}

// StartSecondInnings performs the explicit innings-break continuation:
// it locks in the first-innings total, swaps the batting and bowling
// sides, zeroes the new batting side's counters and clears all player
// selections, which must be re-supplied before scoring resumes.
func StartSecondInnings(m model.Match) (model.Match, bool) {
	if m.Phase != model.PhaseInningsBreak {
		return m, false
	}
	m.FirstInningsScore = m.Batting().Score
	m.BattingIdx = 1 - m.BattingIdx
	bt := m.Batting()
	bt.Score, bt.Wickets, bt.Overs, bt.Balls = 0, 0, 0, 0
	bt.Extras = model.Extras{}
	m.StrikerID, m.NonStrikerID, m.BowlerID, m.PrevBowlerID = 0, 0, 0, 0
	m.Phase = model.PhaseSecondInnings
	return m, true
}

// complete seals the match: result string, man of the match, end time.
func complete(m model.Match) model.Match {
	m.Phase = model.PhaseCompleted
	m.Winner = MatchResult(m)
	if best, ok := performance.SelectManOfTheMatch(m); ok {
		m.ManOfTheMatchID = best.PlayerID
	}
	now := time.Now().UTC()
	m.EndedAt = &now
	return m
}
