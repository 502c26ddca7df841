package engine

import (
	"errors"
	"slices"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// ErrNothingToUndo is returned when the current innings has no recorded
// deliveries.
var ErrNothingToUndo = errors.New("no delivery to undo in the current innings")

// UndoLastBall removes the most recent delivery of the innings in
// progress and reverses every effect it had: score, extras, wicket,
// over/ball counters and the striker/non-striker/bowler selections,
// which are restored from the removed record. Past deliveries are never
// mutated; this is the only correction path.
//
// Undo is confined to a live innings. A completed match or an innings
// break cannot be unwound.
func UndoLastBall(m model.Match) (model.Match, error) {
	if m.Phase != model.PhaseFirstInnings && m.Phase != model.PhaseSecondInnings {
		return m, ErrNothingToUndo
	}
	if len(m.Balls) == 0 {
		return m, ErrNothingToUndo
	}
	d := m.Balls[len(m.Balls)-1]
	if d.Innings != m.InningsNumber() {
		return m, ErrNothingToUndo
	}
	if len(m.Balls) == 1 {
		m.Balls = nil
	} else {
		m.Balls = slices.Clone(m.Balls[:len(m.Balls)-1])
	}

	bt := m.Batting()
	bt.Score -= d.Runs
	switch {
	case d.Wide:
		bt.Extras.Wides--
	case d.NoBall:
		bt.Extras.NoBalls--
	case d.Bye:
		bt.Extras.Byes -= d.Runs
	case d.LegBye:
		bt.Extras.LegByes -= d.Runs
	}
	if d.Wicket {
		bt.Wickets--
	}
	if d.Legal() {
		if bt.Balls == 0 {
			bt.Overs--
			bt.Balls = legalBallsPerOver - 1
		} else {
			bt.Balls--
		}
	}

	// Selections revert to the state recorded on the delivery itself.
	m.StrikerID = d.StrikerID
	m.NonStrikerID = d.NonStrikerID
	m.BowlerID = d.BowlerID
	m.PrevBowlerID = bowlerOfOver(m, d.Innings, d.Over-1)
	return m, nil
}

// bowlerOfOver finds who bowled the given over of the given innings;
// zero when the over does not exist.
func bowlerOfOver(m model.Match, innings, over int) int64 {
	if over < 1 {
		return 0
	}
	for _, d := range m.Balls {
		if d.Innings == innings && d.Over == over {
			return d.BowlerID
		}
	}
	return 0
}
