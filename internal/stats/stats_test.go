package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/stats"
)

func statsMatch(balls ...model.Delivery) model.Match {
	return model.Match{
		ID: 1,
		Teams: [2]model.TeamInnings{
			{Name: "Lions", Roster: []model.Player{{ID: 1}, {ID: 2}, {ID: 3}}},
			{Name: "Tigers", Roster: []model.Player{{ID: 11}, {ID: 12}, {ID: 13}}},
		},
		Phase: model.PhaseCompleted,
		Balls: balls,
	}
}

// over stamps six deliveries as one over of the first innings.
func over(n int, bowler int64, balls ...model.Delivery) []model.Delivery {
	for i := range balls {
		balls[i].Innings = 1
		balls[i].Over = n
		balls[i].BallInOver = i + 1
		if balls[i].BowlerID == 0 {
			balls[i].BowlerID = bowler
		}
	}
	return balls
}

func TestMatchDelta_Batting(t *testing.T) {
	m := statsMatch(over(1, 11,
		model.Delivery{StrikerID: 1, Runs: 4},
		model.Delivery{StrikerID: 1, Runs: 6},
		model.Delivery{StrikerID: 1, Runs: 1},
		model.Delivery{StrikerID: 2, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 2, Bye: true},
		model.Delivery{StrikerID: 1, Runs: 4, Wide: true},
	)...)

	d := stats.MatchDelta(1, m)
	require.Equal(t, 1, d.Matches)
	// Byes and wides never credit the batsman.
	require.Equal(t, 11, d.Runs)
	// The wide is not a ball faced.
	require.Equal(t, 4, d.BallsFaced)
	require.Equal(t, 1, d.Fours)
	require.Equal(t, 1, d.Sixes)
	require.Equal(t, 11, d.HighestScore)
	require.Zero(t, d.TimesOut)
	require.Zero(t, d.Ducks)
}

func TestMatchDelta_BoundaryOffExtraNotCounted(t *testing.T) {
	m := statsMatch(over(1, 11,
		model.Delivery{StrikerID: 1, Runs: 4, Bye: true},
	)...)
	d := stats.MatchDelta(1, m)
	require.Zero(t, d.Fours, "four byes are not a batsman's boundary")
	require.Zero(t, d.Runs)
}

func TestMatchDelta_Duck(t *testing.T) {
	m := statsMatch(over(1, 11,
		model.Delivery{StrikerID: 1, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 0, Wicket: true, WicketKind: model.WicketBowled},
	)...)

	d := stats.MatchDelta(1, m)
	require.Equal(t, 1, d.TimesOut)
	require.Equal(t, 1, d.Ducks)
	require.Zero(t, d.Runs)
}

func TestMatchDelta_Bowling(t *testing.T) {
	balls := over(1, 11,
		model.Delivery{StrikerID: 1, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 0, Wicket: true, WicketKind: model.WicketBowled},
		model.Delivery{StrikerID: 3, Runs: 0},
		model.Delivery{StrikerID: 3, Runs: 0},
		model.Delivery{StrikerID: 3, Runs: 0},
	)
	balls = append(balls, over(2, 12,
		model.Delivery{StrikerID: 3, Runs: 4},
		model.Delivery{StrikerID: 3, Runs: 1, NoBall: true},
		model.Delivery{StrikerID: 3, Runs: 0, Wicket: true, WicketKind: model.WicketRunOut, FielderID: 13},
		model.Delivery{StrikerID: 1, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 2},
		model.Delivery{StrikerID: 1, Runs: 0},
		model.Delivery{StrikerID: 1, Runs: 0},
	)...)
	m := statsMatch(balls...)

	d11 := stats.MatchDelta(11, m)
	require.Equal(t, 6, d11.BallsBowled)
	require.Equal(t, 1, d11.Wickets)
	require.Zero(t, d11.RunsConceded)
	require.Equal(t, 1, d11.MaidenOvers, "a wicket maiden is still a maiden")
	require.Equal(t, 6, d11.DotBalls)
	require.Equal(t, model.BowlingBest{Wickets: 1, Runs: 0}, d11.BestBowling)

	d12 := stats.MatchDelta(12, m)
	require.Equal(t, 6, d12.BallsBowled, "the no-ball is not a legal delivery")
	// The no-ball run counts against the bowler.
	require.Equal(t, 7, d12.RunsConceded)
	require.Zero(t, d12.Wickets, "run-outs never credit the bowler")
	require.Zero(t, d12.MaidenOvers)

	d13 := stats.MatchDelta(13, m)
	require.Equal(t, 1, d13.RunOuts)
	require.Zero(t, d13.Catches)
}

func TestMatchDelta_Milestones(t *testing.T) {
	var balls []model.Delivery
	for i := 0; i < 13; i++ {
		balls = append(balls, model.Delivery{StrikerID: 1, Runs: 4, BowlerID: 11, Innings: 1, Over: i/6 + 1})
	}
	m := statsMatch(balls...)

	d := stats.MatchDelta(1, m)
	require.Equal(t, 52, d.Runs)
	require.Equal(t, 1, d.Fifties)
	require.Zero(t, d.Hundreds)
}

func TestMatchDelta_NonParticipant(t *testing.T) {
	m := statsMatch(over(1, 11, model.Delivery{StrikerID: 1, Runs: 4})...)
	d := stats.MatchDelta(99, m)
	require.Equal(t, model.PlayerStats{}, d)
}

func TestMatchDelta_ManOfTheMatchAward(t *testing.T) {
	m := statsMatch(over(1, 11, model.Delivery{StrikerID: 1, Runs: 4})...)
	m.ManOfTheMatchID = 1
	require.Equal(t, 1, stats.MatchDelta(1, m).MOTMAwards)
	require.Zero(t, stats.MatchDelta(2, m).MOTMAwards)
}

func TestAccumulate_Additive(t *testing.T) {
	m1 := statsMatch(over(1, 11,
		model.Delivery{StrikerID: 1, Runs: 4},
		model.Delivery{StrikerID: 1, Runs: 1},
		model.Delivery{StrikerID: 1, Runs: 0, Wicket: true, WicketKind: model.WicketBowled},
	)...)
	m2 := statsMatch(over(1, 12,
		model.Delivery{StrikerID: 1, Runs: 6},
		model.Delivery{StrikerID: 1, Runs: 6},
		model.Delivery{StrikerID: 1, Runs: 2},
	)...)
	m2.ID = 2

	career := stats.Accumulate(model.PlayerStats{}, stats.MatchDelta(1, m1))
	career = stats.Accumulate(career, stats.MatchDelta(1, m2))

	require.Equal(t, 2, career.Matches)
	require.Equal(t, 19, career.Runs)
	require.Equal(t, 6, career.BallsFaced)
	require.Equal(t, 1, career.TimesOut)
	require.Equal(t, 14, career.HighestScore, "highest score keeps the best single-match figure")
	require.Equal(t, 1, career.Fours)
	require.Equal(t, 2, career.Sixes)
}

func TestAccumulate_BestBowling(t *testing.T) {
	base := model.PlayerStats{BestBowling: model.BowlingBest{Wickets: 2, Runs: 30}}

	got := stats.Accumulate(base, model.PlayerStats{BestBowling: model.BowlingBest{Wickets: 3, Runs: 45}})
	require.Equal(t, model.BowlingBest{Wickets: 3, Runs: 45}, got.BestBowling, "more wickets wins")

	got = stats.Accumulate(got, model.PlayerStats{BestBowling: model.BowlingBest{Wickets: 3, Runs: 20}})
	require.Equal(t, model.BowlingBest{Wickets: 3, Runs: 20}, got.BestBowling, "equal wickets, fewer runs wins")

	got = stats.Accumulate(got, model.PlayerStats{BestBowling: model.BowlingBest{Wickets: 0, Runs: 0}})
	require.Equal(t, model.BowlingBest{Wickets: 3, Runs: 20}, got.BestBowling, "a wicketless spell never displaces a haul")
}

func TestDeriveRates(t *testing.T) {
	s := model.PlayerStats{
		Runs: 100, BallsFaced: 80, TimesOut: 3,
		RunsConceded: 90, BallsBowled: 120, Wickets: 4,
	}
	r := stats.DeriveRates(s)
	require.InDelta(t, 33.33, r.BattingAverage, 0.001)
	require.InDelta(t, 125.0, r.StrikeRate, 0.001)
	require.InDelta(t, 22.5, r.BowlingAverage, 0.001)
	require.InDelta(t, 4.5, r.EconomyRate, 0.001)
}

func TestDeriveRates_ZeroDenominators(t *testing.T) {
	r := stats.DeriveRates(model.PlayerStats{Runs: 37})
	require.Equal(t, 37.0, r.BattingAverage, "never dismissed: raw run count")
	require.Zero(t, r.StrikeRate)
	require.Zero(t, r.BowlingAverage)
	require.Zero(t, r.EconomyRate)
}
