package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gullyscore/cricket-scoring-service/internal/engine"
	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// newTestMatch builds a 2-over match: Lions (players 1..6) batting,
// Tigers (players 11..16) bowling, openers 1 and 2, bowler 11.
func newTestMatch(overs int) model.Match {
	lions := make([]model.Player, 0, 6)
	tigers := make([]model.Player, 0, 6)
	for i := int64(1); i <= 6; i++ {
		lions = append(lions, model.Player{ID: i, Name: "Lion"})
		tigers = append(tigers, model.Player{ID: 10 + i, Name: "Tiger"})
	}
	return model.Match{
		ID: 7,
		Teams: [2]model.TeamInnings{
			{Name: "Lions", Roster: lions},
			{Name: "Tigers", Roster: tigers},
		},
		BattingIdx:   0,
		TotalOvers:   overs,
		TossWinner:   "Lions",
		TossDecision: "bat",
		Phase:        model.PhaseFirstInnings,
		StrikerID:    1,
		NonStrikerID: 2,
		BowlerID:     11,
	}
}

// bowl applies one delivery built from the match's current selections.
func bowl(m model.Match, d model.Delivery) (model.Match, engine.Events) {
	d.StrikerID = m.StrikerID
	d.NonStrikerID = m.NonStrikerID
	d.BowlerID = m.BowlerID
	return engine.ProcessBall(m, d)
}

func runs(n int) model.Delivery { return model.Delivery{Runs: n} }

func TestProcessBall_TwoOverInnings(t *testing.T) {
	m := newTestMatch(2)

	// Over 1: six singles. Strike rotates on every odd-run ball, then
	// the mandatory end-of-over swap applies on the sixth instead of
	// the parity rule.
	striker := []int64{1, 2, 1, 2, 1, 2}
	var ev engine.Events
	for i := 0; i < 6; i++ {
		require.Equal(t, striker[i], m.StrikerID, "striker before ball %d", i+1)
		m, ev = bowl(m, runs(1))
	}
	require.True(t, ev.OverComplete)
	require.True(t, ev.NeedNewBowler)
	require.False(t, ev.InningsComplete)
	// Five parity swaps plus the end-of-over swap leave the openers in
	// their original order.
	require.Equal(t, int64(1), m.StrikerID)
	require.Equal(t, int64(2), m.NonStrikerID)
	require.Equal(t, 6, m.Batting().Score)
	require.Equal(t, 1, m.Batting().Overs)
	require.Equal(t, 0, m.Batting().Balls)
	require.Equal(t, int64(11), m.PrevBowlerID)
	require.Zero(t, m.BowlerID)

	// Over 2 by a different bowler: six dots.
	m.BowlerID = 12
	for i := 0; i < 6; i++ {
		m, ev = bowl(m, runs(0))
	}
	require.Equal(t, 6, m.Batting().Score)
	require.Equal(t, 2, m.Batting().Overs)
	require.Equal(t, 0, m.Batting().Balls)
	// End-of-over rotation still applies after a maiden.
	require.Equal(t, int64(2), m.StrikerID)
	require.True(t, ev.InningsComplete)
	require.False(t, ev.NeedNewBowler)
	require.Equal(t, model.PhaseInningsBreak, m.Phase)
}

func TestProcessBall_ScoreConservation(t *testing.T) {
	m := newTestMatch(10)
	vals := []model.Delivery{
		runs(1), runs(4), runs(0), {Runs: 5, Wide: true}, runs(6),
		{Runs: 1, NoBall: true}, {Runs: 2, Bye: true}, runs(3), {Runs: 1, LegBye: true},
	}
	sum := 0
	for _, d := range vals {
		m, _ = bowl(m, d)
		sum += d.Runs
	}
	require.Equal(t, sum, m.Batting().Score)

	logSum := 0
	for _, d := range m.Balls {
		logSum += d.Runs
	}
	require.Equal(t, sum, logSum)
}

func TestProcessBall_WideFiveRuns(t *testing.T) {
	m := newTestMatch(2)
	m, _ = bowl(m, model.Delivery{Runs: 5, Wide: true})

	require.Equal(t, 5, m.Batting().Score)
	require.Equal(t, 1, m.Batting().Extras.Wides)
	require.Equal(t, 0, m.Batting().Balls, "wide must not count toward the over")
	// Extra runs beyond the automatic single mean the batsmen crossed.
	require.Equal(t, int64(2), m.StrikerID)
}

func TestProcessBall_BareWideDoesNotRotate(t *testing.T) {
	m := newTestMatch(2)
	m, _ = bowl(m, model.Delivery{Runs: 1, Wide: true})
	require.Equal(t, int64(1), m.StrikerID)
	require.Equal(t, 1, m.Batting().Extras.Wides)
}

func TestProcessBall_ExtrasCounters(t *testing.T) {
	m := newTestMatch(2)
	m, _ = bowl(m, model.Delivery{Runs: 2, Bye: true})
	m, _ = bowl(m, model.Delivery{Runs: 3, LegBye: true})
	m, _ = bowl(m, model.Delivery{Runs: 1, NoBall: true})

	ex := m.Batting().Extras
	// Byes and leg-byes count run volume, no-balls count occurrences.
	require.Equal(t, 2, ex.Byes)
	require.Equal(t, 3, ex.LegByes)
	require.Equal(t, 1, ex.NoBalls)
	require.Equal(t, 6, ex.Total())
	require.Equal(t, 2, m.Batting().Balls, "byes and leg-byes are legal deliveries")
}

func TestProcessBall_WicketMidOver(t *testing.T) {
	m := newTestMatch(2)
	m, ev := bowl(m, model.Delivery{Wicket: true, WicketKind: model.WicketBowled})

	require.True(t, ev.WicketFell)
	require.True(t, ev.NeedNewBatsman)
	require.Equal(t, 1, m.Batting().Wickets)
	require.Zero(t, m.StrikerID, "dismissed striker's slot must open")
	require.Equal(t, int64(2), m.NonStrikerID)
}

func TestProcessBall_TenthWicketEndsInnings(t *testing.T) {
	m := newTestMatch(20)
	m.Batting().Wickets = 9
	m, ev := bowl(m, model.Delivery{Wicket: true, WicketKind: model.WicketBowled})

	require.True(t, ev.WicketFell)
	require.True(t, ev.InningsComplete)
	require.False(t, ev.NeedNewBatsman, "no replacement after the tenth wicket")
	require.Equal(t, model.PhaseInningsBreak, m.Phase)
}

func TestIsOverComplete_IgnoresIllegalDeliveries(t *testing.T) {
	m := newTestMatch(2)
	for i := 0; i < 5; i++ {
		m, _ = bowl(m, runs(0))
	}
	m, _ = bowl(m, model.Delivery{Runs: 1, Wide: true})
	require.False(t, engine.IsOverComplete(m), "five legal balls plus a wide is not a full over")

	m, ev := bowl(m, runs(0))
	require.True(t, ev.OverComplete)
	require.Equal(t, 1, m.Batting().Overs)
}

func TestChaseEndsImmediately(t *testing.T) {
	m := newTestMatch(10)
	m.Phase = model.PhaseSecondInnings
	m.BattingIdx = 1
	m.FirstInningsScore = 120
	m.StrikerID, m.NonStrikerID, m.BowlerID = 11, 12, 1
	m.Batting().Score = 119
	m.Batting().Wickets = 4

	m, ev := bowl(m, runs(6))
	require.True(t, ev.InningsComplete)
	require.True(t, ev.MatchComplete)
	require.Equal(t, model.PhaseCompleted, m.Phase)
	require.Equal(t, 125, m.Batting().Score)
	require.Equal(t, "Tigers won by 6 wickets", m.Winner)
	require.NotNil(t, m.EndedAt)
}

func TestIsInningsComplete_LevelScoreDoesNotEndChase(t *testing.T) {
	m := newTestMatch(10)
	m.Phase = model.PhaseSecondInnings
	m.BattingIdx = 1
	m.FirstInningsScore = 100
	m.Batting().Score = 100

	require.False(t, engine.IsInningsComplete(m), "a level score must not end the innings")
	m.Batting().Score = 101
	require.True(t, engine.IsInningsComplete(m))
}

func TestMatchResult(t *testing.T) {
	m := newTestMatch(10)
	m.Phase = model.PhaseSecondInnings
	m.BattingIdx = 1
	m.FirstInningsScore = 100

	m.Batting().Score = 90
	require.Equal(t, "Lions won by 10 runs", engine.MatchResult(m))

	m.Batting().Score = 100
	require.Equal(t, "Match tied", engine.MatchResult(m))

	m.Batting().Score = 101
	m.Batting().Wickets = 9
	require.Equal(t, "Tigers won by 1 wicket", engine.MatchResult(m))
}

func TestBowlerRotation(t *testing.T) {
	m := newTestMatch(10)
	// Bowler 11 bowls over 1.
	for i := 0; i < 6; i++ {
		m, _ = bowl(m, runs(0))
	}
	require.False(t, engine.CanBowlerBowlNextOver(m, 11))
	require.True(t, engine.CanBowlerBowlNextOver(m, 12))

	avail := engine.AvailableBowlers(m)
	for _, p := range avail {
		require.NotEqual(t, int64(11), p.ID)
	}
	require.Len(t, avail, 5)

	// Bowler 12 bowls over 2; 11 is eligible again for over 3.
	m.BowlerID = 12
	for i := 0; i < 6; i++ {
		m, _ = bowl(m, runs(0))
	}
	require.True(t, engine.CanBowlerBowlNextOver(m, 11))
	require.False(t, engine.CanBowlerBowlNextOver(m, 12))
}

func TestAvailableBowlers_FirstOverAndBatsmen(t *testing.T) {
	m := newTestMatch(10)
	// No preceding over: everyone on the fielding side may bowl.
	require.Len(t, engine.AvailableBowlers(m), 6)

	// A fielding-side player who is somehow an active batsman is
	// excluded defensively.
	m.StrikerID = 11
	require.Len(t, engine.AvailableBowlers(m), 5)
}

func TestStartSecondInnings(t *testing.T) {
	m := newTestMatch(1)
	for i := 0; i < 6; i++ {
		m, _ = bowl(m, runs(1))
	}
	require.Equal(t, model.PhaseInningsBreak, m.Phase)

	m2, ok := engine.StartSecondInnings(m)
	require.True(t, ok)
	require.Equal(t, model.PhaseSecondInnings, m2.Phase)
	require.Equal(t, 6, m2.FirstInningsScore)
	require.Equal(t, "Tigers", m2.Batting().Name)
	require.Zero(t, m2.Batting().Score)
	require.Zero(t, m2.Batting().Overs)
	require.Equal(t, model.Extras{}, m2.Batting().Extras)
	require.Zero(t, m2.StrikerID)
	require.Zero(t, m2.NonStrikerID)
	require.Zero(t, m2.BowlerID)
	// First-innings card is preserved for the post-match summary.
	require.Equal(t, 6, m2.Bowling().Score)

	// The transition only fires from the break.
	_, ok = engine.StartSecondInnings(m2)
	require.False(t, ok)
}

func TestUndoRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		d    model.Delivery
	}{
		{"dot ball", runs(0)},
		{"single", runs(1)},
		{"boundary", runs(4)},
		{"wide with overthrows", model.Delivery{Runs: 5, Wide: true}},
		{"no-ball", model.Delivery{Runs: 1, NoBall: true}},
		{"byes", model.Delivery{Runs: 2, Bye: true}},
		{"wicket", model.Delivery{Wicket: true, WicketKind: model.WicketCaught, FielderID: 13}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := newTestMatch(10)
			// Partway into an over so counters are non-trivial.
			for i := 0; i < 3; i++ {
				before, _ = bowl(before, runs(1))
			}
			after, _ := bowl(before, tc.d)
			undone, err := engine.UndoLastBall(after)
			require.NoError(t, err)
			require.Equal(t, before, undone)
		})
	}
}

func TestUndoAcrossOverBoundary(t *testing.T) {
	m := newTestMatch(10)
	for i := 0; i < 6; i++ {
		m, _ = bowl(m, runs(0))
	}
	before := m
	before.BowlerID = 12
	m = before
	m, ev := bowl(m, runs(2))
	require.False(t, ev.OverComplete)

	undone, err := engine.UndoLastBall(m)
	require.NoError(t, err)
	require.Equal(t, before, undone)
	// The previous-over bowler is recomputed from the log.
	require.Equal(t, int64(11), undone.PrevBowlerID)
}

func TestUndoLastBallOfOver(t *testing.T) {
	m := newTestMatch(10)
	var before model.Match
	for i := 0; i < 6; i++ {
		before = m
		m, _ = bowl(m, runs(0))
	}
	require.Equal(t, 1, m.Batting().Overs)

	undone, err := engine.UndoLastBall(m)
	require.NoError(t, err)
	require.Equal(t, before, undone)
	require.Equal(t, 5, undone.Batting().Balls)
	require.Zero(t, undone.Batting().Overs)
}

func TestUndoNothingRecorded(t *testing.T) {
	m := newTestMatch(10)
	_, err := engine.UndoLastBall(m)
	require.ErrorIs(t, err, engine.ErrNothingToUndo)

	// A fresh second innings has no deliveries of its own to undo.
	for i := 0; i < 6*10; i++ {
		if m.BowlerID == 0 {
			m.BowlerID = 11 + int64(m.Batting().Overs%2)
		}
		m, _ = bowl(m, runs(0))
	}
	m, ok := engine.StartSecondInnings(m)
	require.True(t, ok)
	_, err = engine.UndoLastBall(m)
	require.ErrorIs(t, err, engine.ErrNothingToUndo)
}
